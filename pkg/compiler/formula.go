package compiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/odoo/o-spreadsheet-formula/pkg/functions"
	"github.com/odoo/o-spreadsheet-formula/pkg/parser"
)

// ErrMissingResolver is returned when a formula needs an Env resolver that
// was not provided.
var ErrMissingResolver = errors.New("missing resolver")

// ReferenceResolver returns the value of a cell or range reference. isMeta
// is true when the function wants the reference itself rather than its
// value (ROW(A1), CELL("address", A1)).
type ReferenceResolver func(ctx context.Context, reference string, isMeta bool) (interface{}, error)

// SymbolResolver returns the value of a named value.
type SymbolResolver func(ctx context.Context, name string) (interface{}, error)

// Env supplies everything a compiled formula reads when it runs.
type Env struct {
	Ref    ReferenceResolver
	Range  ReferenceResolver
	Symbol SymbolResolver
	// Functions maps upper-cased function and operator names (SUM, ADD,
	// UMINUS, UNARY.PERCENT) to implementations.
	Functions map[string]functions.Impl
	// OnDebug, when set, is called each time a debug marker is reached.
	OnDebug func(ctx context.Context, f *CompiledFormula)
}

// CompiledFormula is a formula ready to run. It pairs a Routine, shared by
// every formula with the same structure, with this formula's own literals,
// dependencies and symbols.
type CompiledFormula struct {
	Tokens []parser.Token
	// Dependencies lists the referenced cells and ranges in order of first
	// occurrence, duplicates included.
	Dependencies    []string
	IsBadExpression bool
	// NormalizedFormula is the structural key of a valid formula, and the
	// raw formula text of a bad one.
	NormalizedFormula string

	numbers []float64
	strings []string
	symbols []string
	routine *Routine
	err     error
	logger  *slog.Logger // set in debug mode
}

// Execute runs the formula. A bad expression returns its compile error.
func (f *CompiledFormula) Execute(ctx context.Context, env *Env) (interface{}, error) {
	if f.IsBadExpression {
		return nil, f.err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if env == nil {
		env = &Env{}
	}
	return f.routine.run(ctx, f, env)
}

// Err returns the compile error of a bad expression, nil otherwise.
func (f *CompiledFormula) Err() error { return f.err }

// Routine returns the shared routine, nil for a bad expression.
func (f *CompiledFormula) Routine() *Routine { return f.routine }

// Numbers returns the number literals in token order.
func (f *CompiledFormula) Numbers() []float64 { return f.numbers }

// Strings returns the unquoted string literals in token order.
func (f *CompiledFormula) Strings() []string { return f.strings }

// Symbols returns the named values in token order.
func (f *CompiledFormula) Symbols() []string { return f.symbols }

type debuggingKey struct{}

func withDebugging(ctx context.Context) context.Context {
	return context.WithValue(ctx, debuggingKey{}, true)
}

// IsDebugging reports whether ctx comes from a formula execution that went
// past a debug marker.
func IsDebugging(ctx context.Context) bool {
	v, _ := ctx.Value(debuggingKey{}).(bool)
	return v
}

func missingResolver(kind string) error {
	return fmt.Errorf("no %s resolver: %w", kind, ErrMissingResolver)
}
