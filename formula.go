// Package formula provides the formula-language engine of a spreadsheet.
//
// Formula text goes through four stages:
//   - Tokenize and RangeTokenize: formula text to tokens, ranges fused
//   - Parse: tokens to an Abstract Syntax Tree
//   - Prettify and ToFormula: an AST back to formula text
//   - Compile: a formula to a cached routine, run against resolvers
//
// # Quick Start
//
//	// Compile once, execute many times
//	f := formula.Compile("=SUM(A1:A3)*2")
//	if f.IsBadExpression {
//	    log.Fatal(f.Err())
//	}
//	value, err := f.Execute(ctx, env)
//
//	// Reformat a formula
//	text, err := formula.Prettify("=IF(A1>0,SUM(B1:B10),0)", 20)
//
// Formulas sharing a structure (=A1+1 and =B7+999) share one compiled
// routine; see the compiler package.
//
// # More Information
//
// For detailed documentation, see:
//   - Parser: github.com/odoo/o-spreadsheet-formula/pkg/parser
//   - Compiler: github.com/odoo/o-spreadsheet-formula/pkg/compiler
//   - Printer: github.com/odoo/o-spreadsheet-formula/pkg/printer
//   - Functions: github.com/odoo/o-spreadsheet-formula/pkg/functions
//   - Types: github.com/odoo/o-spreadsheet-formula/pkg/types
package formula

import (
	"sync"

	"github.com/odoo/o-spreadsheet-formula/pkg/ast"
	"github.com/odoo/o-spreadsheet-formula/pkg/compiler"
	"github.com/odoo/o-spreadsheet-formula/pkg/parser"
	"github.com/odoo/o-spreadsheet-formula/pkg/printer"
	"github.com/odoo/o-spreadsheet-formula/pkg/types"
)

// Version returns the current version of the engine.
func Version() string {
	return "v0.1.0-dev"
}

var (
	defaultOnce     sync.Once
	defaultCompiler *compiler.Compiler
)

// DefaultCompiler returns the compiler used by Compile and MustCompile. It
// uses the default function registry and the default locale.
func DefaultCompiler() *compiler.Compiler {
	defaultOnce.Do(func() {
		defaultCompiler = compiler.New()
	})
	return defaultCompiler
}

// Tokenize splits a formula in the default locale into tokens.
func Tokenize(formula string) []parser.Token {
	return parser.Tokenize(formula, types.DefaultLocale)
}

// RangeTokenize is like Tokenize but fuses ranges into single tokens.
func RangeTokenize(formula string) []parser.Token {
	return parser.RangeTokenize(formula, types.DefaultLocale)
}

// Parse parses a formula into an AST.
//
// Example:
//
//	node, err := formula.Parse("=A1+1")
func Parse(formula string, opts ...parser.Option) (*types.ASTNode, error) {
	return parser.Parse(formula, opts...)
}

// Compile compiles a formula with the default compiler. It never fails:
// check IsBadExpression on the result.
func Compile(formula string) *compiler.CompiledFormula {
	return DefaultCompiler().Compile(formula)
}

// MustCompile is like Compile but panics if the formula is a bad expression.
// It simplifies safe initialization of global variables.
func MustCompile(formula string) *compiler.CompiledFormula {
	return DefaultCompiler().MustCompile(formula)
}

// Prettify parses a formula and lays it out within width columns. A width
// <= 0 uses printer.DefaultWidth.
func Prettify(formula string, width int, opts ...printer.Option) (string, error) {
	node, err := parser.Parse(formula)
	if err != nil {
		return "", err
	}
	return printer.Prettify(node, width, opts...), nil
}

// ToFormula converts an AST back to formula text, without the leading "=".
func ToFormula(node *types.ASTNode) string {
	return ast.ToFormula(node)
}
