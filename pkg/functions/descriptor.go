// Package functions describes spreadsheet functions to the compiler.
//
// The compiler never runs functions itself. It needs each function's
// declared arguments to check call sites and to decide how every argument is
// compiled: as a plain value, as a range, or as a reference whose metadata
// (not its value) is wanted. Implementations are supplied at execution time.
//
// # Example
//
//	reg := functions.NewRegistry()
//	reg.Add(functions.Describe("SUMSQ",
//	    functions.Arg("value1 (number, range<number>)", "The first value."),
//	    functions.Arg("value2 (number, range<number>, repeating)", "More values."),
//	))
package functions

import (
	"context"
	"math"
	"strings"
)

// Impl is the signature of a function or operator implementation. args are
// the evaluated arguments in call order; an omitted argument is
// types.EmptyValue.
type Impl func(ctx context.Context, args ...interface{}) (interface{}, error)

// ArgType is a declared argument type tag.
type ArgType string

const (
	TypeAny          ArgType = "ANY"
	TypeBoolean      ArgType = "BOOLEAN"
	TypeNumber       ArgType = "NUMBER"
	TypeString       ArgType = "STRING"
	TypeDate         ArgType = "DATE"
	TypeRange        ArgType = "RANGE"
	TypeRangeAny     ArgType = "RANGE<ANY>"
	TypeRangeBoolean ArgType = "RANGE<BOOLEAN>"
	TypeRangeNumber  ArgType = "RANGE<NUMBER>"
	TypeRangeString  ArgType = "RANGE<STRING>"
	TypeRangeDate    ArgType = "RANGE<DATE>"
	TypeMeta         ArgType = "META"
)

var knownTypes = map[ArgType]bool{
	TypeAny: true, TypeBoolean: true, TypeNumber: true, TypeString: true, TypeDate: true,
	TypeRange: true, TypeRangeAny: true, TypeRangeBoolean: true, TypeRangeNumber: true,
	TypeRangeString: true, TypeRangeDate: true, TypeMeta: true,
}

// IsRange reports whether t is RANGE or one of its typed variants.
func (t ArgType) IsRange() bool {
	return strings.HasPrefix(string(t), string(TypeRange))
}

// Unbounded is the MaxArgPossible of functions with repeating arguments.
const Unbounded = math.MaxInt

// ArgDefinition is one declared argument of a function.
type ArgDefinition struct {
	Name        string
	Description string
	Type        []ArgType
	Optional    bool
	Repeating   bool
	// Default is the textual default value; a defaulted argument is optional.
	Default string
}

// HasDefault reports whether the argument declares a default value.
func (a ArgDefinition) HasDefault() bool {
	return a.Default != ""
}

// IsMeta reports whether the argument wants a reference rather than its value.
func (a ArgDefinition) IsMeta() bool {
	for _, t := range a.Type {
		if t == TypeMeta {
			return true
		}
	}
	return false
}

// AcceptsRange reports whether any declared type is a range type.
func (a ArgDefinition) AcceptsRange() bool {
	for _, t := range a.Type {
		if t.IsRange() {
			return true
		}
	}
	return false
}

// RangeOnly reports whether every declared type is a range type.
func (a ArgDefinition) RangeOnly() bool {
	if len(a.Type) == 0 {
		return false
	}
	for _, t := range a.Type {
		if !t.IsRange() {
			return false
		}
	}
	return true
}

// Descriptor describes a function's arguments.
type Descriptor struct {
	Name        string
	Description string
	Args        []ArgDefinition

	MinArgRequired  int
	MaxArgPossible  int
	NbrArgRepeating int
	NbrArgOptional  int
}

// Describe builds a descriptor and derives its argument counts from args.
func Describe(name string, args ...ArgDefinition) *Descriptor {
	d := &Descriptor{Name: strings.ToUpper(name), Args: args}
	for _, arg := range args {
		switch {
		case arg.Repeating:
			d.NbrArgRepeating++
		case arg.Optional || arg.HasDefault():
			d.NbrArgOptional++
		default:
			d.MinArgRequired++
		}
	}
	d.MaxArgPossible = len(args)
	if d.NbrArgRepeating > 0 {
		d.MaxArgPossible = Unbounded
	}
	return d
}

// RepeatingStart returns the index of the first repeating argument, or -1.
func (d *Descriptor) RepeatingStart() int {
	for i, arg := range d.Args {
		if arg.Repeating {
			return i
		}
	}
	return -1
}
