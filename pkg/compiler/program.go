package compiler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/odoo/o-spreadsheet-formula/pkg/types"
)

// opcode identifies an instruction.
type opcode uint8

const (
	opRef opcode = iota
	opRange
	opSymbol
	opCall
	opArray
	opDebug
)

var opNames = [...]string{
	opRef:    "REF",
	opRange:  "RANGE",
	opSymbol: "SYMBOL",
	opCall:   "CALL",
	opArray:  "ARRAY",
	opDebug:  "DEBUG",
}

func (op opcode) String() string { return opNames[op] }

// operandKind tells where an instruction argument comes from.
type operandKind uint8

const (
	operandSlot operandKind = iota
	operandNumber
	operandString
	operandBoolean
	operandEmpty
)

// operand is an instruction argument. Constants are read inline from the
// per-formula literal arrays; everything else is a slot written earlier.
type operand struct {
	kind    operandKind
	index   int // slot number or literal position
	boolean bool
}

// instruction computes one value and stores it in slot.
type instruction struct {
	op    opcode
	slot  int
	index int // dependency or symbol position
	meta  bool
	name  string
	args  []operand
	cols  int // ARRAY row length
}

// Routine is a compiled formula shape. It reads literals, dependencies and
// symbols by position, so one Routine serves every formula with the same
// structural key. Routines are immutable and safe for concurrent use.
type Routine struct {
	key    string
	code   []instruction
	result operand
	slots  int
}

// Key returns the structural key the routine was compiled for.
func (r *Routine) Key() string { return r.key }

// Len returns the number of instructions.
func (r *Routine) Len() int { return len(r.code) }

// String renders the program, one instruction per line:
//
//	_1 = REF[0]
//	_2 = ADD(_1, NUMBER[0])
//	return _2
func (r *Routine) String() string {
	var b strings.Builder
	for _, in := range r.code {
		if in.op == opDebug {
			b.WriteString("DEBUG\n")
			continue
		}
		fmt.Fprintf(&b, "_%d = ", in.slot)
		switch in.op {
		case opRef, opRange, opSymbol:
			b.WriteString(in.op.String())
			fmt.Fprintf(&b, "[%d]", in.index)
			if in.meta {
				b.WriteString(" meta")
			}
		case opCall:
			b.WriteString(in.name)
			b.WriteByte('(')
			writeOperands(&b, in.args, ", ")
			b.WriteByte(')')
		case opArray:
			b.WriteByte('{')
			for i := 0; i < len(in.args); i += in.cols {
				if i > 0 {
					b.WriteString("; ")
				}
				writeOperands(&b, in.args[i:i+in.cols], ", ")
			}
			b.WriteByte('}')
		}
		b.WriteByte('\n')
	}
	b.WriteString("return ")
	b.WriteString(r.result.String())
	return b.String()
}

func writeOperands(b *strings.Builder, ops []operand, sep string) {
	for i, o := range ops {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(o.String())
	}
}

func (o operand) String() string {
	switch o.kind {
	case operandSlot:
		return "_" + strconv.Itoa(o.index)
	case operandNumber:
		return "NUMBER[" + strconv.Itoa(o.index) + "]"
	case operandString:
		return "STRING[" + strconv.Itoa(o.index) + "]"
	case operandBoolean:
		if o.boolean {
			return "TRUE"
		}
		return "FALSE"
	default:
		return "EMPTY"
	}
}

// frame is the per-execution state of a routine.
type frame struct {
	f     *CompiledFormula
	env   *Env
	slots []interface{}
}

func (fr *frame) value(o operand) interface{} {
	switch o.kind {
	case operandSlot:
		return fr.slots[o.index]
	case operandNumber:
		return fr.f.numbers[o.index]
	case operandString:
		return fr.f.strings[o.index]
	case operandBoolean:
		return o.boolean
	default:
		return types.EmptyValue
	}
}

func (fr *frame) values(ops []operand) []interface{} {
	out := make([]interface{}, len(ops))
	for i, o := range ops {
		out[i] = fr.value(o)
	}
	return out
}

// run executes the routine against the literals of f.
func (r *Routine) run(ctx context.Context, f *CompiledFormula, env *Env) (interface{}, error) {
	fr := &frame{f: f, env: env, slots: make([]interface{}, r.slots+1)}

	for i := range r.code {
		in := &r.code[i]
		var (
			v   interface{}
			err error
		)
		switch in.op {
		case opRef:
			if env.Ref == nil {
				return nil, missingResolver("cell reference")
			}
			v, err = env.Ref(ctx, f.Dependencies[in.index], in.meta)
		case opRange:
			if env.Range == nil {
				return nil, missingResolver("range")
			}
			v, err = env.Range(ctx, f.Dependencies[in.index], in.meta)
		case opSymbol:
			if env.Symbol == nil {
				return nil, missingResolver("named value")
			}
			v, err = env.Symbol(ctx, f.symbols[in.index])
		case opCall:
			fn, ok := env.Functions[in.name]
			if !ok {
				return nil, types.NewError(types.ErrUnknownFunction,
					fmt.Sprintf("Invalid formula: no implementation for %s", in.name), -1)
			}
			v, err = fn(ctx, fr.values(in.args)...)
		case opArray:
			v = fr.matrix(in)
		case opDebug:
			ctx = withDebugging(ctx)
			if f.logger != nil {
				f.logger.Debug("debug marker reached", "key", r.key, "instruction", i)
			}
			if env.OnDebug != nil {
				env.OnDebug(ctx, f)
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		fr.slots[in.slot] = v
	}
	return fr.value(r.result), nil
}

// matrix builds an array literal as rows of values.
func (fr *frame) matrix(in *instruction) [][]interface{} {
	values := fr.values(in.args)
	rows := make([][]interface{}, 0, len(values)/in.cols)
	for i := 0; i < len(values); i += in.cols {
		rows = append(rows, values[i:i+in.cols:i+in.cols])
	}
	return rows
}
