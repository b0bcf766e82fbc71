package parser

import (
	"regexp"
	"strings"

	"github.com/odoo/o-spreadsheet-formula/pkg/types"
)

// rangeState is a state of the range recognition machine.
type rangeState uint8

const (
	stateLeftRef rangeState = iota
	stateSeparator
	stateFullColumnSeparator
	stateFullRowSeparator
	stateRightRef
	stateRightColumnRef
	stateRightRowRef
	stateFound
)

const sheetPrefix = `(?:'(?:[^']|'')+'!|[^'!]+!)?`

var (
	columnHeader      = regexp.MustCompile(`^` + sheetPrefix + `\$?[A-Za-z]{1,3}$`)
	rowHeader         = regexp.MustCompile(`^` + sheetPrefix + `\$?[0-9]{1,7}$`)
	localColumnHeader = regexp.MustCompile(`^\$?[A-Za-z]{1,3}$`)
	localRowHeader    = regexp.MustCompile(`^\$?[0-9]{1,7}$`)
	localCell         = regexp.MustCompile(`^\$?[A-Za-z]{1,3}\$?[0-9]{1,7}$`)
)

// transition moves the machine to goTo when the next token has tokenType
// and satisfies guard (a nil guard accepts every token of that type).
type transition struct {
	tokenType TokenType
	guard     func(Token) bool
	goTo      rangeState
}

func valueMatches(re *regexp.Regexp) func(Token) bool {
	return func(t Token) bool {
		return re.MatchString(t.Value)
	}
}

func isRangeOperator(t Token) bool {
	return t.Value == ":"
}

var (
	isColumnHeader      = valueMatches(columnHeader)
	isRowHeader         = valueMatches(rowHeader)
	isLocalColumnHeader = valueMatches(localColumnHeader)
	isLocalRowHeader    = valueMatches(localRowHeader)
	isSingleCell        = valueMatches(localCell)
)

// rangeMachine lists the transitions of every state but stateFound.
var rangeMachine = map[rangeState][]transition{
	stateLeftRef: {
		{TokenReference, nil, stateSeparator},
		{TokenNumber, isLocalRowHeader, stateFullRowSeparator},
		{TokenSymbol, isColumnHeader, stateFullColumnSeparator},
		{TokenSymbol, isRowHeader, stateFullRowSeparator},
	},
	stateSeparator: {
		{TokenSpace, nil, stateSeparator},
		{TokenOperator, isRangeOperator, stateRightRef},
	},
	stateFullColumnSeparator: {
		{TokenSpace, nil, stateFullColumnSeparator},
		{TokenOperator, isRangeOperator, stateRightColumnRef},
	},
	stateFullRowSeparator: {
		{TokenSpace, nil, stateFullRowSeparator},
		{TokenOperator, isRangeOperator, stateRightRowRef},
	},
	stateRightRef: {
		{TokenSpace, nil, stateRightRef},
		{TokenReference, isSingleCell, stateFound},
		{TokenSymbol, isLocalColumnHeader, stateFound},
	},
	stateRightColumnRef: {
		{TokenSpace, nil, stateRightColumnRef},
		{TokenSymbol, isLocalColumnHeader, stateFound},
		{TokenReference, isSingleCell, stateFound},
	},
	stateRightRowRef: {
		{TokenSpace, nil, stateRightRowRef},
		{TokenNumber, isLocalRowHeader, stateFound},
		{TokenSymbol, isLocalRowHeader, stateFound},
		{TokenReference, isSingleCell, stateFound},
	},
}

// step returns the state reached from state on token t.
func step(state rangeState, t Token) (rangeState, bool) {
	for _, tr := range rangeMachine[state] {
		if tr.tokenType == t.Type && (tr.guard == nil || tr.guard(t)) {
			return tr.goTo, true
		}
	}
	return state, false
}

// RangeTokenize tokenizes a formula and fuses the token runs that spell a
// range (A1:B2, A:A, 3:3, A1 : B2) into single REFERENCE tokens.
func RangeTokenize(formula string, locale types.Locale) []Token {
	return FuseRanges(Tokenize(formula, locale))
}

// FuseRanges scans tokens left to right, replacing every run recognized as a
// range by one REFERENCE token whose value is the run's text without its
// spaces. Emitted tokens are never examined again.
func FuseRanges(tokens []Token) []Token {
	result := make([]Token, 0, len(tokens))
	for len(tokens) > 0 {
		if ref, n := matchRange(tokens); n > 0 {
			result = append(result, ref)
			tokens = tokens[n:]
			continue
		}
		result = append(result, tokens[0])
		tokens = tokens[1:]
	}
	return result
}

// matchRange runs the machine over the leading tokens. It returns the fused
// token and the number of tokens consumed, or 0 when they spell no range.
func matchRange(tokens []Token) (Token, int) {
	state := stateLeftRef
	var b strings.Builder
	for i, t := range tokens {
		next, ok := step(state, t)
		if !ok {
			return Token{}, 0
		}
		if t.Type != TokenSpace {
			b.WriteString(t.Value)
		}
		if next == stateFound {
			return Token{Type: TokenReference, Value: b.String()}, i + 1
		}
		state = next
	}
	return Token{}, 0
}
