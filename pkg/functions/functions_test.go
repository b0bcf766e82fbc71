package functions_test

import (
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/odoo/o-spreadsheet-formula/pkg/functions"
	"github.com/odoo/o-spreadsheet-formula/pkg/types"
)

func TestParseArg(t *testing.T) {
	tests := []struct {
		name      string
		decl      string
		wantName  string
		wantTypes []functions.ArgType
		optional  bool
		repeating bool
		def       string
	}{
		{"bare name", "value", "value", []functions.ArgType{functions.TypeAny}, false, false, ""},
		{"single type", "flag (boolean)", "flag", []functions.ArgType{functions.TypeBoolean}, false, false, ""},
		{
			"repeating range", "value2 (number, range<number>, repeating)", "value2",
			[]functions.ArgType{functions.TypeNumber, functions.TypeRangeNumber}, false, true, "",
		},
		{"optional meta", "cell_reference (meta, optional)", "cell_reference", []functions.ArgType{functions.TypeMeta}, true, false, ""},
		{"default", "is_sorted (boolean, default=TRUE)", "is_sorted", []functions.ArgType{functions.TypeBoolean}, false, false, "TRUE"},
		{"quoted default", `sep (string, default=", ")`, "sep", []functions.ArgType{functions.TypeString}, false, false, `", "`},
		{"case insensitive", "v (NUMBER, Range<String>)", "v", []functions.ArgType{functions.TypeNumber, functions.TypeRangeString}, false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arg, err := functions.ParseArg(tt.decl, "desc")
			if err != nil {
				t.Fatalf("ParseArg(%q) error: %v", tt.decl, err)
			}
			if arg.Name != tt.wantName {
				t.Errorf("name = %q, want %q", arg.Name, tt.wantName)
			}
			if !reflect.DeepEqual(arg.Type, tt.wantTypes) {
				t.Errorf("types = %v, want %v", arg.Type, tt.wantTypes)
			}
			if arg.Optional != tt.optional || arg.Repeating != tt.repeating {
				t.Errorf("optional/repeating = %v/%v, want %v/%v", arg.Optional, arg.Repeating, tt.optional, tt.repeating)
			}
			if arg.Default != tt.def {
				t.Errorf("default = %q, want %q", arg.Default, tt.def)
			}
			if arg.Description != "desc" {
				t.Errorf("description = %q", arg.Description)
			}
		})
	}
}

func TestParseArgErrors(t *testing.T) {
	for _, decl := range []string{"", "1value", "value (widget)", "value (default=)", "value (number"} {
		t.Run(decl, func(t *testing.T) {
			if _, err := functions.ParseArg(decl, ""); err == nil {
				t.Fatalf("expected error for %q", decl)
			}
		})
	}
}

func TestArgPanicsOnMalformed(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	functions.Arg("value (widget)", "")
}

func TestArgTypePredicates(t *testing.T) {
	meta := functions.Arg("ref (meta)", "")
	if !meta.IsMeta() || meta.AcceptsRange() || meta.RangeOnly() {
		t.Errorf("meta predicates wrong: %+v", meta)
	}
	mixed := functions.Arg("v (number, range<number>)", "")
	if mixed.IsMeta() || !mixed.AcceptsRange() || mixed.RangeOnly() {
		t.Errorf("mixed predicates wrong: %+v", mixed)
	}
	rangeOnly := functions.Arg("r (range, range<string>)", "")
	if !rangeOnly.AcceptsRange() || !rangeOnly.RangeOnly() {
		t.Errorf("range-only predicates wrong: %+v", rangeOnly)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name                        string
		d                           *functions.Descriptor
		min, max, repeating, optnal int
	}{
		{"no args", functions.Describe("pi"), 0, 0, 0, 0},
		{
			"optional tail",
			functions.Describe("IF",
				functions.Arg("cond (boolean)", ""),
				functions.Arg("then (any)", ""),
				functions.Arg("else (any, default=FALSE)", ""),
			),
			2, 3, 0, 1,
		},
		{
			"repeating",
			functions.Describe("SUM",
				functions.Arg("value1 (number, range<number>)", ""),
				functions.Arg("value2 (number, range<number>, repeating)", ""),
			),
			1, functions.Unbounded, 1, 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.d.MinArgRequired != tt.min || tt.d.MaxArgPossible != tt.max ||
				tt.d.NbrArgRepeating != tt.repeating || tt.d.NbrArgOptional != tt.optnal {
				t.Errorf("got min=%d max=%d repeating=%d optional=%d",
					tt.d.MinArgRequired, tt.d.MaxArgPossible, tt.d.NbrArgRepeating, tt.d.NbrArgOptional)
			}
		})
	}
	if functions.Describe("pi").Name != "PI" {
		t.Error("expected upper-cased descriptor name")
	}
}

// groupedDescriptor has one mandatory argument, a repeating group of two and
// one optional trailing argument. Its maximum is capped at one group plus
// the optional argument, so five arguments fail on the bound while two
// fail on the group stride.
func groupedDescriptor() *functions.Descriptor {
	d := functions.Describe("GROUPED",
		functions.Arg("a (any)", ""),
		functions.Arg("b (any, repeating)", ""),
		functions.Arg("c (any, repeating)", ""),
		functions.Arg("d (any, optional)", ""),
	)
	d.MaxArgPossible = 4
	return d
}

func TestValidateArgCountRepeatingGroups(t *testing.T) {
	d := groupedDescriptor()
	if d.MinArgRequired != 1 || d.NbrArgRepeating != 2 || d.NbrArgOptional != 1 {
		t.Fatalf("unexpected descriptor counts: %+v", d)
	}

	tests := []struct {
		n  int
		ok bool
	}{
		{0, false},
		{1, true},
		{2, false},
		{3, true},
		{4, true},
		{5, false},
	}
	for _, tt := range tests {
		err := functions.ValidateArgCount(d, tt.n)
		if tt.ok && err != nil {
			t.Errorf("%d args: unexpected error %v", tt.n, err)
		}
		if !tt.ok {
			if err == nil {
				t.Errorf("%d args: expected an error", tt.n)
				continue
			}
			if !errors.Is(err, types.ErrArgCount) {
				t.Errorf("%d args: error %v does not wrap ErrArgCount", tt.n, err)
			}
			if !types.IsBadExpression(err) {
				t.Errorf("%d args: expected a bad expression, got %v", tt.n, err)
			}
		}
	}
}

func TestValidateArgCountGroupStride(t *testing.T) {
	d := groupedDescriptor()
	d.MaxArgPossible = functions.Unbounded

	tests := []struct {
		n  int
		ok bool
	}{
		{2, false},
		{3, true},
		{4, true},
		{5, true},
		{6, true},
		{7, true},
	}
	for _, tt := range tests {
		err := functions.ValidateArgCount(d, tt.n)
		if tt.ok && err != nil {
			t.Errorf("%d args: unexpected error %v", tt.n, err)
		}
		if !tt.ok && !errors.Is(err, types.ErrArgCount) {
			t.Errorf("%d args: expected an argument count error, got %v", tt.n, err)
		}
	}
}

func TestValidateArgCountBounds(t *testing.T) {
	reg := functions.Default()
	tests := []struct {
		name string
		n    int
		ok   bool
	}{
		{"PI", 0, true},
		{"PI", 1, false},
		{"IF", 1, false},
		{"IF", 2, true},
		{"IF", 3, true},
		{"IF", 4, false},
		{"SUM", 0, false},
		{"SUM", 30, true},
		{"IFS", 2, true},
		{"IFS", 3, false},
		{"IFS", 4, true},
		{"SWITCH", 3, true},
		{"SWITCH", 4, true},
		{"SWITCH", 5, true},
		{"SUMIFS", 3, true},
		{"SUMIFS", 4, false},
		{"SUMIFS", 5, true},
	}
	for _, tt := range tests {
		d, ok := reg.Get(tt.name)
		if !ok {
			t.Fatalf("%s not registered", tt.name)
		}
		err := functions.ValidateArgCount(d, tt.n)
		if (err == nil) != tt.ok {
			t.Errorf("%s with %d args: err = %v, want ok=%v", tt.name, tt.n, err, tt.ok)
		}
	}
}

func TestArgTargeting(t *testing.T) {
	reg := functions.Default()
	ifs, _ := reg.Get("IFS")
	sum, _ := reg.Get("SUM")
	vlookup, _ := reg.Get("VLOOKUP")

	tests := []struct {
		name string
		d    *functions.Descriptor
		n    int
		want []int
	}{
		{"no repeating", vlookup, 4, []int{0, 1, 2, 3}},
		{"single repeating", sum, 4, []int{0, 1, 1, 1}},
		{"repeating pairs", ifs, 6, []int{0, 1, 2, 3, 2, 3}},
		{"group then optional tail", groupedDescriptor(), 4, []int{0, 1, 2, 3}},
		{"incomplete group", groupedDescriptor(), 2, []int{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := functions.ArgTargeting(tt.d, tt.n)
			for i, want := range tt.want {
				got, ok := target(i)
				if !ok || got != want {
					t.Errorf("arg %d -> (%d, %v), want %d", i, got, ok, want)
				}
			}
		})
	}

	if _, ok := functions.ArgTargeting(vlookup, 5)(4); ok {
		t.Error("expected no declaration past the last argument")
	}
}

func TestRegistry(t *testing.T) {
	reg := functions.NewRegistry()
	reg.Add(functions.Describe("beta"), functions.Describe("ALPHA"))

	if reg.Len() != 2 {
		t.Fatalf("expected 2 functions, got %d", reg.Len())
	}
	if _, ok := reg.Get("Beta"); !ok {
		t.Error("expected case-insensitive lookup")
	}
	if _, ok := reg.Get("GAMMA"); ok {
		t.Error("expected GAMMA to be unknown")
	}
	names := reg.Names()
	if !reflect.DeepEqual(names, []string{"ALPHA", "BETA"}) {
		t.Errorf("names = %v", names)
	}
}

func TestDefaultRegistry(t *testing.T) {
	reg := functions.Default()
	want := []string{
		"AND", "AVERAGE", "CELL", "COLUMN", "CONCATENATE", "COUNT", "COUNTIFS", "IF", "IFS",
		"INDEX", "ISERROR", "MAX", "MIN", "NOT", "NOW", "OFFSET", "OR", "PI", "RAND", "ROW",
		"SUM", "SUMIFS", "SWITCH", "TODAY", "VLOOKUP",
	}
	got := reg.Names()
	if !sort.StringsAreSorted(got) {
		t.Error("names are not sorted")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("names = %v\nwant %v", got, want)
	}

	cell, _ := reg.Get("CELL")
	if !cell.Args[1].IsMeta() {
		t.Error("expected CELL reference to be a meta argument")
	}
}
