package parser_test

import (
	"strings"
	"testing"

	"github.com/odoo/o-spreadsheet-formula/pkg/parser"
	"github.com/odoo/o-spreadsheet-formula/pkg/types"
)

type lexerTestCase struct {
	name     string
	input    string
	expected []parser.Token
}

func tok(tt parser.TokenType, value string) parser.Token {
	return parser.Token{Type: tt, Value: value}
}

func runLexerTests(t *testing.T, tests []lexerTestCase, locale types.Locale) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.Tokenize(tt.input, locale)
			if len(got) != len(tt.expected) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tt.input, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d = %s %q, want %s %q",
						i, got[i].Type, got[i].Value, tt.expected[i].Type, tt.expected[i].Value)
				}
			}
		})
	}
}

func TestLexerOperators(t *testing.T) {
	runLexerTests(t, []lexerTestCase{
		{"addition", "=1+2", []parser.Token{
			tok(parser.TokenOperator, "="), tok(parser.TokenNumber, "1"),
			tok(parser.TokenOperator, "+"), tok(parser.TokenNumber, "2"),
		}},
		{"longest match", "<>>=<=", []parser.Token{
			tok(parser.TokenOperator, "<>"), tok(parser.TokenOperator, ">="), tok(parser.TokenOperator, "<="),
		}},
		{"percent", "50%", []parser.Token{
			tok(parser.TokenNumber, "50"), tok(parser.TokenOperator, "%"),
		}},
		{"range operator", "A1:B2", []parser.Token{
			tok(parser.TokenReference, "A1"), tok(parser.TokenOperator, ":"), tok(parser.TokenReference, "B2"),
		}},
	}, types.DefaultLocale)
}

func TestLexerNumbers(t *testing.T) {
	runLexerTests(t, []lexerTestCase{
		{"integer", "42", []parser.Token{tok(parser.TokenNumber, "42")}},
		{"decimal", "3.14", []parser.Token{tok(parser.TokenNumber, "3.14")}},
		{"leading separator", ".5", []parser.Token{tok(parser.TokenNumber, ".5")}},
		{"trailing separator", "5.", []parser.Token{tok(parser.TokenNumber, "5.")}},
		{"exponent", "1e3", []parser.Token{tok(parser.TokenNumber, "1e3")}},
		{"signed exponent", "1.5E-10", []parser.Token{tok(parser.TokenNumber, "1.5E-10")}},
		{"dangling exponent", "1e", []parser.Token{tok(parser.TokenNumber, "1"), tok(parser.TokenSymbol, "e")}},
		{"lone separator", ".", []parser.Token{tok(parser.TokenSymbol, ".")}},
	}, types.DefaultLocale)
}

func TestLexerStrings(t *testing.T) {
	runLexerTests(t, []lexerTestCase{
		{"simple", `"hello"`, []parser.Token{tok(parser.TokenString, `"hello"`)}},
		{"empty", `""`, []parser.Token{tok(parser.TokenString, `""`)}},
		{"escaped quote", `"a\"b"`, []parser.Token{tok(parser.TokenString, `"a\"b"`)}},
		{"unterminated", `"abc`, []parser.Token{tok(parser.TokenString, `"abc`)}},
		{"separators inside", `"a,b;c"`, []parser.Token{tok(parser.TokenString, `"a,b;c"`)}},
	}, types.DefaultLocale)
}

func TestLexerSymbolsAndReferences(t *testing.T) {
	runLexerTests(t, []lexerTestCase{
		{"function", "SUM(", []parser.Token{tok(parser.TokenSymbol, "SUM"), tok(parser.TokenLeftParen, "(")}},
		{"cell", "A1", []parser.Token{tok(parser.TokenReference, "A1")}},
		{"absolute cell", "$B$2", []parser.Token{tok(parser.TokenReference, "$B$2")}},
		{"qualified cell", "Sheet2!C3", []parser.Token{tok(parser.TokenReference, "Sheet2!C3")}},
		{"quoted sheet", "'My sheet'!D4", []parser.Token{tok(parser.TokenReference, "'My sheet'!D4")}},
		{"escaped quote in sheet", "'It''s'!A1", []parser.Token{tok(parser.TokenReference, "'It''s'!A1")}},
		{"cell-like function", "LOG10(", []parser.Token{tok(parser.TokenSymbol, "LOG10"), tok(parser.TokenLeftParen, "(")}},
		{"cell-like symbol", "LOG10", []parser.Token{tok(parser.TokenReference, "LOG10")}},
		{"named value", "my_rate", []parser.Token{tok(parser.TokenSymbol, "my_rate")}},
		{"boolean", "TRUE", []parser.Token{tok(parser.TokenSymbol, "TRUE")}},
		{"quoted name", "'my name'", []parser.Token{tok(parser.TokenSymbol, "'my name'")}},
		{"unterminated quote", "'abc", []parser.Token{tok(parser.TokenUnknown, "'abc")}},
		{"invalid reference", "#REF+1", []parser.Token{
			tok(parser.TokenInvalidReference, "#REF"), tok(parser.TokenOperator, "+"), tok(parser.TokenNumber, "1"),
		}},
		{"unicode letters", "été", []parser.Token{tok(parser.TokenSymbol, "été")}},
	}, types.DefaultLocale)
}

func TestLexerSpaces(t *testing.T) {
	runLexerTests(t, []lexerTestCase{
		{"spaces", "1  +\t2", []parser.Token{
			tok(parser.TokenNumber, "1"), tok(parser.TokenSpace, "  "),
			tok(parser.TokenOperator, "+"), tok(parser.TokenSpace, "\t"), tok(parser.TokenNumber, "2"),
		}},
		{"newline run", "1\n\r\n+2", []parser.Token{
			tok(parser.TokenNumber, "1"), tok(parser.TokenSpace, "\n\r\n"),
			tok(parser.TokenOperator, "+"), tok(parser.TokenNumber, "2"),
		}},
		{"newline then spaces", "\n  1", []parser.Token{
			tok(parser.TokenSpace, "\n"), tok(parser.TokenSpace, "  "), tok(parser.TokenNumber, "1"),
		}},
		{"non-breaking space", "1\u00a02", []parser.Token{
			tok(parser.TokenNumber, "1"), tok(parser.TokenSpace, "\u00a0"), tok(parser.TokenNumber, "2"),
		}},
	}, types.DefaultLocale)
}

func TestLexerGrouping(t *testing.T) {
	runLexerTests(t, []lexerTestCase{
		{"array", "{1,2;3}", []parser.Token{
			tok(parser.TokenLeftBrace, "{"), tok(parser.TokenNumber, "1"), tok(parser.TokenArgSeparator, ","),
			tok(parser.TokenNumber, "2"), tok(parser.TokenArrayRowSeparator, ";"), tok(parser.TokenNumber, "3"),
			tok(parser.TokenRightBrace, "}"),
		}},
		{"debugger", "?A1", []parser.Token{tok(parser.TokenDebugger, "?"), tok(parser.TokenReference, "A1")}},
		{"unknown", "1@", []parser.Token{tok(parser.TokenNumber, "1"), tok(parser.TokenUnknown, "@")}},
	}, types.DefaultLocale)
}

func TestLexerLocale(t *testing.T) {
	runLexerTests(t, []lexerTestCase{
		{"comma decimal", "SUM(1,5;2)", []parser.Token{
			tok(parser.TokenSymbol, "SUM"), tok(parser.TokenLeftParen, "("), tok(parser.TokenNumber, "1,5"),
			tok(parser.TokenArgSeparator, ";"), tok(parser.TokenNumber, "2"), tok(parser.TokenRightParen, ")"),
		}},
		{"backslash rows", `{1;2\3;4}`, []parser.Token{
			tok(parser.TokenLeftBrace, "{"), tok(parser.TokenNumber, "1"), tok(parser.TokenArgSeparator, ";"),
			tok(parser.TokenNumber, "2"), tok(parser.TokenArrayRowSeparator, `\`), tok(parser.TokenNumber, "3"),
			tok(parser.TokenArgSeparator, ";"), tok(parser.TokenNumber, "4"), tok(parser.TokenRightBrace, "}"),
		}},
	}, types.NewLocale(",", ";"))
}

// Every character ends up in exactly one token.
func TestLexerLossless(t *testing.T) {
	inputs := []string{
		`=SUM(A1:B2, "x\"y", 'Sheet 1'!C3) * -2 % ^ {1;2}`,
		"=\n\tIF(  TRUE ,  @ , #REF )",
		`="unterminated`,
		"='unterminated",
		"",
	}
	for _, input := range inputs {
		var b strings.Builder
		for _, token := range parser.Tokenize(input, types.DefaultLocale) {
			if token.Value == "" {
				t.Errorf("Tokenize(%q) produced an empty token", input)
			}
			b.WriteString(token.Value)
		}
		if b.String() != input {
			t.Errorf("tokens of %q concatenate to %q", input, b.String())
		}
	}
}
