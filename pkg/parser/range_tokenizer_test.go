package parser_test

import (
	"testing"

	"github.com/xuri/efp"

	"github.com/odoo/o-spreadsheet-formula/pkg/parser"
	"github.com/odoo/o-spreadsheet-formula/pkg/types"
)

func references(tokens []parser.Token) []string {
	var refs []string
	for _, t := range tokens {
		if t.Type == parser.TokenReference {
			refs = append(refs, t.Value)
		}
	}
	return refs
}

func TestRangeTokenize(t *testing.T) {
	tests := []struct {
		input string
		refs  []string
		count int // number of tokens after fusion
	}{
		{"A1:B2", []string{"A1:B2"}, 1},
		{"A1 : B2", []string{"A1:B2"}, 1},
		{"$A$1:$B$2", []string{"$A$1:$B$2"}, 1},
		{"A:A", []string{"A:A"}, 1},
		{"A:C", []string{"A:C"}, 1},
		{"3:5", []string{"3:5"}, 1},
		{"A1:A", []string{"A1:A"}, 1},
		{"A:A1", []string{"A:A1"}, 1},
		{"3:A5", []string{"3:A5"}, 1},
		{"Sheet1!A:A", []string{"Sheet1!A:A"}, 1},
		{"Sheet1!3:5", []string{"Sheet1!3:5"}, 1},
		{"'My sheet'!A1:B2", []string{"'My sheet'!A1:B2"}, 1},
		{"SUM(A1:B2)", []string{"A1:B2"}, 4},
		{"A1:B2:C3", []string{"A1:B2", "C3"}, 3},
		// The right side must be local; the parser joins the rest.
		{"Sheet1!A1:Sheet1!B2", []string{"Sheet1!A1", "Sheet1!B2"}, 3},
		{"A1:", []string{"A1"}, 2},
		{"A1+B2", []string{"A1", "B2"}, 3},
		{"TRUE:1", nil, 3},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := parser.RangeTokenize(tt.input, types.DefaultLocale)
			if len(tokens) != tt.count {
				t.Errorf("got %d tokens %v, want %d", len(tokens), tokens, tt.count)
			}
			refs := references(tokens)
			if len(refs) != len(tt.refs) {
				t.Fatalf("references = %q, want %q", refs, tt.refs)
			}
			for i := range refs {
				if refs[i] != tt.refs[i] {
					t.Errorf("reference %d = %q, want %q", i, refs[i], tt.refs[i])
				}
			}
		})
	}
}

func TestFuseRangesKeepsOtherTokens(t *testing.T) {
	in := parser.Tokenize("=SUM( A1 : B2 , 3)", types.DefaultLocale)
	out := parser.FuseRanges(in)

	want := []parser.Token{
		tok(parser.TokenOperator, "="),
		tok(parser.TokenSymbol, "SUM"),
		tok(parser.TokenLeftParen, "("),
		tok(parser.TokenSpace, " "),
		tok(parser.TokenReference, "A1:B2"),
		tok(parser.TokenSpace, " "),
		tok(parser.TokenArgSeparator, ","),
		tok(parser.TokenSpace, " "),
		tok(parser.TokenNumber, "3"),
		tok(parser.TokenRightParen, ")"),
	}
	if len(out) != len(want) {
		t.Fatalf("FuseRanges = %v, want %v", out, want)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, out[i], want[i])
		}
	}
}

// The references and numbers recognized here must agree with an
// independent Excel formula tokenizer.
func TestRangeTokenizeMatchesExcelParser(t *testing.T) {
	formulas := []string{
		"=SUM(A1:B2,C3)*2",
		"=A1+B2/3",
		"=IF(A1>0,Sheet2!B1,10)",
		"=AVERAGE($A$1:$A$10)-MIN(B1:B5)",
		"=VLOOKUP(A1,C1:D20,2,FALSE)",
		"=(A1+1.5)^2",
	}
	for _, formula := range formulas {
		t.Run(formula, func(t *testing.T) {
			var wantRefs, wantNumbers []string
			p := efp.ExcelParser()
			for _, token := range p.Parse(formula[1:]) {
				if token.TType != efp.TokenTypeOperand {
					continue
				}
				switch token.TSubType {
				case efp.TokenSubTypeRange:
					wantRefs = append(wantRefs, token.TValue)
				case efp.TokenSubTypeNumber:
					wantNumbers = append(wantNumbers, token.TValue)
				}
			}

			var gotRefs, gotNumbers []string
			for _, token := range parser.RangeTokenize(formula, types.DefaultLocale) {
				switch token.Type {
				case parser.TokenReference:
					gotRefs = append(gotRefs, token.Value)
				case parser.TokenNumber:
					gotNumbers = append(gotNumbers, token.Value)
				}
			}

			if !equalStrings(gotRefs, wantRefs) {
				t.Errorf("references = %q, excel parser found %q", gotRefs, wantRefs)
			}
			if !equalStrings(gotNumbers, wantNumbers) {
				t.Errorf("numbers = %q, excel parser found %q", gotNumbers, wantNumbers)
			}
		})
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
