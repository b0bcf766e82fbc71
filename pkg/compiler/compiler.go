// Package compiler turns formula text into cached, repeatedly runnable
// routines.
//
// Compilation erases literals and references from the formula to get its
// structural key: =A1+1 and =B7+999 both have the key "=|C|+|N|". One
// Routine is compiled per key and shared by every formula of that shape;
// each CompiledFormula carries its own literals, dependencies and symbols,
// which the routine reads by position.
//
// Compile never fails: malformed formulas become a CompiledFormula with
// IsBadExpression set, whose Execute returns the compile error.
//
// # Example
//
//	c := compiler.New()
//	f := c.Compile("=SUM(A1:A3)*2")
//	value, err := f.Execute(ctx, &compiler.Env{
//	    Range:     resolveRange,
//	    Functions: impls,
//	})
package compiler

import (
	"fmt"
	"log/slog"

	"github.com/odoo/o-spreadsheet-formula/pkg/cache"
	"github.com/odoo/o-spreadsheet-formula/pkg/functions"
	"github.com/odoo/o-spreadsheet-formula/pkg/parser"
	"github.com/odoo/o-spreadsheet-formula/pkg/types"
)

// Options configures a Compiler.
type Options struct {
	// Registry declares the known functions and their arguments.
	Registry *functions.Registry
	// Targeting maps call-site arguments to declared arguments.
	Targeting functions.Targeting
	// Cache holds the routines by structural key. Compilers sharing a
	// cache must share the registry and targeting too.
	Cache *cache.Cache[*Routine]
	// Locale of the formula text.
	Locale types.Locale
	// Debug enables debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
}

// Option configures a Compiler.
type Option func(*Options)

// WithRegistry sets the function registry.
func WithRegistry(r *functions.Registry) Option {
	return func(opts *Options) {
		opts.Registry = r
	}
}

// WithArgTargeting sets the argument targeting function.
func WithArgTargeting(t functions.Targeting) Option {
	return func(opts *Options) {
		opts.Targeting = t
	}
}

// WithCache sets the routine cache.
func WithCache(c *cache.Cache[*Routine]) Option {
	return func(opts *Options) {
		opts.Cache = c
	}
}

// WithLocale sets the locale of the formula text.
func WithLocale(locale types.Locale) Option {
	return func(opts *Options) {
		opts.Locale = locale
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) Option {
	return func(opts *Options) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// Compiler compiles formulas. It is safe for concurrent use.
type Compiler struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Compiler. Unset options default to functions.Default(),
// functions.ArgTargeting, an unbounded cache, types.DefaultLocale and
// slog.Default().
func New(opts ...Option) *Compiler {
	options := Options{Locale: types.DefaultLocale}
	for _, opt := range opts {
		opt(&options)
	}

	if options.Registry == nil {
		options.Registry = functions.Default()
	}
	if options.Targeting == nil {
		options.Targeting = functions.ArgTargeting
	}
	if options.Cache == nil {
		options.Cache = cache.New[*Routine](0)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	return &Compiler{opts: options, logger: options.Logger}
}

// Cache returns the routine cache.
func (c *Compiler) Cache() *cache.Cache[*Routine] {
	return c.opts.Cache
}

// Forget drops the routine shared by every formula with the structure of
// formula, so the next compile of that shape builds it again. It reports
// whether a routine was cached.
func (c *Compiler) Forget(formula string) bool {
	s := scan(parser.RangeTokenize(formula, c.opts.Locale), c.opts.Locale)
	return c.opts.Cache.Invalidate(s.key)
}

// Compile compiles formula text.
func (c *Compiler) Compile(formula string) *CompiledFormula {
	return c.CompileTokens(parser.RangeTokenize(formula, c.opts.Locale))
}

// CompileTokens compiles an already range-tokenized formula.
func (c *Compiler) CompileTokens(tokens []parser.Token) (f *CompiledFormula) {
	s := scan(tokens, c.opts.Locale)
	f = &CompiledFormula{
		Tokens:            tokens,
		Dependencies:      s.dependencies,
		NormalizedFormula: s.key,
		numbers:           s.numbers,
		strings:           s.strings,
		symbols:           s.symbols,
	}
	if c.opts.Debug {
		f.logger = c.logger
	}

	defer func() {
		if r := recover(); r != nil {
			c.fail(f, types.BadExpression(fmt.Sprintf("Invalid formula: %v", r), -1))
		}
	}()

	if s.err != nil {
		c.fail(f, s.err)
		return f
	}

	routine, err := c.opts.Cache.GetOrCompile(s.key, func() (*Routine, error) {
		return c.build(tokens, s.key)
	})
	if err != nil {
		c.fail(f, err)
		return f
	}
	f.routine = routine
	return f
}

func (c *Compiler) fail(f *CompiledFormula, err error) {
	f.IsBadExpression = true
	f.NormalizedFormula = rawText(f.Tokens)
	f.routine = nil
	f.err = err
	if c.opts.Debug {
		c.logger.Debug("bad expression", "formula", f.NormalizedFormula, "error", err)
	}
}

// build parses tokens and generates the routine for key.
func (c *Compiler) build(tokens []parser.Token, key string) (*Routine, error) {
	root, err := parser.ParseTokens(tokens, parser.WithLocale(c.opts.Locale))
	if err != nil {
		return nil, err
	}
	switch {
	case root.Type == types.NodeBinary && root.Value == ":":
		return nil, types.BadExpression("Invalid formula: unexpected range operator", root.TokenStartIndex)
	case root.Type == types.NodeEmpty:
		return nil, types.BadExpression("Invalid formula: empty expression", root.TokenStartIndex)
	}

	g := &codegen{registry: c.opts.Registry, targeting: c.opts.Targeting}
	result, err := g.compile(root, argContext{})
	if err != nil {
		return nil, err
	}
	r := &Routine{key: key, code: g.code, result: result, slots: g.slot}

	if c.opts.Debug {
		c.logger.Debug("compiled routine",
			"key", key,
			"instructions", len(r.code))
	}
	return r, nil
}

// MustCompile is like Compile but panics if the formula is a bad expression.
// It simplifies the initialization of global variables holding formulas.
func (c *Compiler) MustCompile(formula string) *CompiledFormula {
	f := c.Compile(formula)
	if f.IsBadExpression {
		panic(fmt.Sprintf("compiler: Compile(%q): %v", formula, f.err))
	}
	return f
}
