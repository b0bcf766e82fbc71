// Package parser implements the lexing and parsing stages of the formula
// engine.
//
// # Architecture
//
// The parser consists of three stages:
//   - Tokenize: turns formula text into a flat token stream
//   - RangeTokenize: fuses token runs that spell ranges (A1:B2, A:A, 3:3)
//   - Parser: builds an Abstract Syntax Tree with operator-precedence climbing
//
// # Example
//
//	ast, err := parser.Parse("=SUM(A1:A3, Sheet2!B1)*2")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Every failure is a *types.Error with code types.ErrBadExpression.
package parser

import (
	"github.com/odoo/o-spreadsheet-formula/pkg/types"
)

// Parse tokenizes and parses a formula. The leading "=" is optional.
//
// Example:
//
//	ast, err := parser.Parse("=A1+1", parser.WithLocale(types.NewLocale(",", ";")))
func Parse(formula string, opts ...Option) (*types.ASTNode, error) {
	options := newOptions(opts)
	return ParseTokens(RangeTokenize(formula, options.Locale), opts...)
}

// ParseTokens parses an already tokenized formula. SPACE tokens are
// ignored; node spans index tokens, spaces included.
func ParseTokens(tokens []Token, opts ...Option) (*types.ASTNode, error) {
	return NewParser(tokens, opts...).Parse()
}

// Option configures parsing behavior.
type Option func(*Options)

// Options holds parser configuration.
type Options struct {
	// Locale gives the decimal separator used by NUMBER tokens and the
	// separators used by Parse to tokenize.
	Locale types.Locale
	// MaxDepth limits expression nesting to prevent stack overflow.
	MaxDepth int
}

func newOptions(opts []Option) Options {
	options := Options{
		Locale:   types.DefaultLocale,
		MaxDepth: 256,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// WithLocale sets the locale.
func WithLocale(locale types.Locale) Option {
	return func(opts *Options) {
		opts.Locale = locale
	}
}

// WithMaxDepth sets the maximum nesting depth. Zero disables the limit.
func WithMaxDepth(depth int) Option {
	return func(opts *Options) {
		opts.MaxDepth = depth
	}
}
