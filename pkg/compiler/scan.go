package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/odoo/o-spreadsheet-formula/pkg/parser"
	"github.com/odoo/o-spreadsheet-formula/pkg/types"
)

// Structural key markers.
const (
	stringMarker = "|S|"
	numberMarker = "|N|"
	cellMarker   = "|C|"
	rangeMarker  = "|R|"
)

var functionName = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)

// scanResult holds everything a formula instance contributes on top of its
// shared routine, in token stream order.
type scanResult struct {
	key          string
	dependencies []string
	numbers      []float64
	strings      []string
	symbols      []string
	// err is the first literal that could not be read.
	err error
}

// scan walks the tokens once, collecting literals, dependencies and symbols
// in first-occurrence order and deriving the structural key. The order
// matches the order in which codegen consumes them: "ref : ref" sequences
// are one dependency, and function names and booleans are not symbols.
func scan(tokens []parser.Token, locale types.Locale) scanResult {
	var (
		r   scanResult
		key strings.Builder
	)

	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		switch t.Type {
		case parser.TokenSpace:
		case parser.TokenString:
			key.WriteString(stringMarker)
			r.strings = append(r.strings, parser.Unquote(t.Value))
		case parser.TokenNumber:
			key.WriteString(numberMarker)
			value, err := parser.ParseNumber(t.Value, locale)
			if err != nil && r.err == nil {
				r.err = types.BadExpression(fmt.Sprintf("Invalid number %q", t.Value), -1)
			}
			r.numbers = append(r.numbers, value)
		case parser.TokenInvalidReference:
			key.WriteString(cellMarker)
			r.dependencies = append(r.dependencies, t.Value)
		case parser.TokenReference:
			ref := t.Value
			if colon := nextSignificant(tokens, i); colon > 0 && tokens[colon].IsOperator(":") {
				if right := nextSignificant(tokens, colon); right > 0 && tokens[right].Type == parser.TokenReference {
					ref += ":" + tokens[right].Value
					i = right
				}
			}
			if strings.Contains(ref, ":") {
				key.WriteString(rangeMarker)
			} else {
				key.WriteString(cellMarker)
			}
			r.dependencies = append(r.dependencies, ref)
		case parser.TokenSymbol:
			key.WriteString(t.Value)
			if isFunctionName(tokens, i) {
				continue
			}
			switch strings.ToUpper(t.Value) {
			case "TRUE", "FALSE":
				continue
			}
			r.symbols = append(r.symbols, parser.Unquote(t.Value))
		default:
			key.WriteString(t.Value)
		}
	}

	r.key = key.String()
	return r
}

// nextSignificant returns the index of the first non-space token after i,
// or -1.
func nextSignificant(tokens []parser.Token, i int) int {
	for j := i + 1; j < len(tokens); j++ {
		if tokens[j].Type != parser.TokenSpace {
			return j
		}
	}
	return -1
}

// isFunctionName reports whether the symbol at i would be parsed as the
// name of a function call.
func isFunctionName(tokens []parser.Token, i int) bool {
	next := nextSignificant(tokens, i)
	if next < 0 || tokens[next].Type != parser.TokenLeftParen {
		return false
	}
	v := tokens[i].Value
	return parser.Unquote(v) == v && functionName.MatchString(v)
}

// rawText joins the text of every token.
func rawText(tokens []parser.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Value)
	}
	return b.String()
}
