package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/odoo/o-spreadsheet-formula/pkg/types"
)

const eof = -1

// cellReference matches a single cell reference, optionally qualified by a
// quoted or unquoted sheet name: A1, $B$2, Sheet2!C3, 'My sheet'!D4.
var cellReference = regexp.MustCompile(`^(?:'(?:[^']|'')+'!|[^'!]+!)?\$?[A-Za-z]{1,3}\$?[0-9]{1,7}$`)

// Tokenize converts a formula into a flat sequence of tokens.
//
// Tokenize never fails: every character of the input ends up in exactly one
// token, and characters that start no known token become single-character
// UNKNOWN tokens.
func Tokenize(formula string, locale types.Locale) []Token {
	return newLexer(formula, locale).run()
}

// lexer scans formulas using the accept/backup technique from Rob Pike's
// "Lexical Scanning in Go".
type lexer struct {
	input   string // Input string being scanned
	length  int    // Length of input string
	start   int    // Start position of current token
	current int    // Current position in input
	width   int    // Width of last rune read

	argSeparator     string
	rowSeparator     string
	decimalSeparator string
	isSpace          func(rune) bool
}

func newLexer(input string, locale types.Locale) *lexer {
	l := &lexer{
		input:            input,
		length:           len(input),
		argSeparator:     locale.FormulaArgSeparator,
		rowSeparator:     locale.ArrayRowSeparator(),
		decimalSeparator: locale.DecimalSeparator,
		isSpace:          isSimpleSpace,
	}
	// Only pay for the unicode tables when the text needs them.
	if strings.IndexFunc(input, isSpecialSpace) >= 0 {
		l.isSpace = isAnySpace
	}
	return l
}

func (l *lexer) run() []Token {
	tokens := make([]Token, 0, l.length/2+1)
	for l.current < l.length {
		tokens = append(tokens, l.next())
	}
	return tokens
}

// next returns the token starting at the current position. The first
// matcher that recognizes something wins.
func (l *lexer) next() Token {
	if l.acceptAll(isNewLine) {
		return l.newToken(TokenSpace)
	}
	if l.acceptAll(l.isSpace) {
		return l.newToken(TokenSpace)
	}
	if l.acceptString(l.rowSeparator) {
		return l.newToken(TokenArrayRowSeparator)
	}
	if l.acceptString(l.argSeparator) {
		return l.newToken(TokenArgSeparator)
	}

	ch := l.nextRune()
	if tt := lookupSymbol1(ch); tt != TokenUnknown {
		return l.newToken(tt)
	}
	l.backup()

	if t, ok := l.scanOperator(); ok {
		return t
	}

	switch ch {
	case '"':
		return l.scanString()
	case '?':
		l.nextRune()
		return l.newToken(TokenDebugger)
	}

	if l.acceptString(invalidReference) {
		return l.newToken(TokenInvalidReference)
	}

	if l.couldStartNumber(ch) {
		if t, ok := l.scanNumber(); ok {
			return t
		}
	}

	if t, ok := l.scanSymbol(); ok {
		return t
	}

	l.nextRune()
	return l.newToken(TokenUnknown)
}

// scanOperator reads the longest operator at the current position.
func (l *lexer) scanOperator() (Token, bool) {
	for _, op := range operators {
		if l.acceptString(op) {
			return l.newToken(TokenOperator), true
		}
	}
	return Token{}, false
}

// scanString reads a double-quoted string. Backslash escapes the next
// character; a string left open runs to the end of the input.
func (l *lexer) scanString() Token {
	l.nextRune() // opening quote
Loop:
	for {
		switch l.nextRune() {
		case '"':
			break Loop
		case '\\':
			if l.nextRune() == eof {
				break Loop
			}
		case eof:
			break Loop
		}
	}
	return l.newToken(TokenString)
}

func (l *lexer) couldStartNumber(ch rune) bool {
	return isDigit(ch) || strings.HasPrefix(l.input[l.current:], l.decimalSeparator)
}

// scanNumber reads a number literal written with the locale decimal
// separator.
// Format: [0-9]*(sep[0-9]*)?([eE][+-]?[0-9]+)?, at least one digit
func (l *lexer) scanNumber() (Token, bool) {
	intPart := l.acceptAll(isDigit)
	if l.acceptString(l.decimalSeparator) {
		fracPart := l.acceptAll(isDigit)
		if !intPart && !fracPart {
			l.reset()
			return Token{}, false
		}
	} else if !intPart {
		l.reset()
		return Token{}, false
	}

	// Exponent part, only when digits follow
	mark := l.current
	if l.acceptRunes2('e', 'E') {
		l.acceptRunes2('+', '-')
		if !l.acceptAll(isDigit) {
			l.current = mark
		}
	}

	return l.newToken(TokenNumber), true
}

// scanSymbol reads an identifier, or a quoted sheet name followed by the
// unquoted rest of a qualified name. Symbols that look like cell references
// become REFERENCE tokens unless they are immediately called like a
// function (LOG10(...)).
func (l *lexer) scanSymbol() (Token, bool) {
	if l.acceptRune('\'') {
		if !l.scanQuoted() {
			return l.newToken(TokenUnknown), true
		}
		l.acceptAll(isSymbolChar)
	} else if !l.acceptAll(isSymbolChar) {
		return Token{}, false
	}

	t := l.newToken(TokenSymbol)
	if cellReference.MatchString(t.Value) && l.peek() != '(' {
		t.Type = TokenReference
	}
	return t, true
}

// scanQuoted consumes a single-quoted run whose opening quote has already
// been read. A doubled quote is an escaped quote. Returns false, with the
// rest of the input consumed, when the run never closes.
func (l *lexer) scanQuoted() bool {
	for {
		switch l.nextRune() {
		case eof:
			return false
		case '\'':
			if !l.acceptRune('\'') {
				return true
			}
		}
	}
}

// Helper methods

func (l *lexer) newToken(tt TokenType) Token {
	t := Token{
		Type:  tt,
		Value: l.input[l.start:l.current],
	}
	l.width = 0
	l.start = l.current
	return t
}

func (l *lexer) nextRune() rune {
	if l.current >= l.length {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

func (l *lexer) peek() rune {
	r := l.nextRune()
	l.backup()
	return r
}

func (l *lexer) backup() {
	l.current -= l.width
	l.width = 0
}

// reset abandons the token being scanned.
func (l *lexer) reset() {
	l.current = l.start
	l.width = 0
}

func (l *lexer) acceptString(s string) bool {
	if s == "" || !strings.HasPrefix(l.input[l.current:], s) {
		return false
	}
	l.current += len(s)
	l.width = 0
	return true
}

func (l *lexer) acceptRune(r rune) bool {
	return l.accept(func(c rune) bool {
		return c == r
	})
}

func (l *lexer) acceptRunes2(r1, r2 rune) bool {
	return l.accept(func(c rune) bool {
		return c == r1 || c == r2
	})
}

func (l *lexer) accept(isValid func(rune) bool) bool {
	r := l.nextRune()
	if r != eof && isValid(r) {
		return true
	}
	l.backup()
	return false
}

func (l *lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

// Character classification functions

func isNewLine(r rune) bool {
	return r == '\n' || r == '\r'
}

func isSimpleSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

// isSpecialSpace matches the non-ASCII and control whitespace that
// isSimpleSpace ignores.
func isSpecialSpace(r rune) bool {
	return unicode.IsSpace(r) && !isSimpleSpace(r) && !isNewLine(r)
}

func isAnySpace(r rune) bool {
	return unicode.IsSpace(r) && !isNewLine(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isSymbolChar(r rune) bool {
	switch r {
	case '_', '.', '!', '$':
		return true
	}
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}
