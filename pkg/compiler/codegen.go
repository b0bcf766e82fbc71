package compiler

import (
	"fmt"
	"strings"

	"github.com/odoo/o-spreadsheet-formula/pkg/functions"
	"github.com/odoo/o-spreadsheet-formula/pkg/types"
)

// Implementation names of the operators.
var binaryOperators = map[string]string{
	"+":  "ADD",
	"-":  "MINUS",
	"*":  "MULTIPLY",
	"/":  "DIVIDE",
	"^":  "POWER",
	"&":  "CONCATENATE",
	"=":  "EQ",
	"<>": "NE",
	">":  "GT",
	">=": "GTE",
	"<":  "LT",
	"<=": "LTE",
}

var unaryOperators = map[string]string{
	"-": "UMINUS",
	"+": "UPLUS",
	"%": "UNARY.PERCENT",
}

// argContext describes how the declared argument wants a REFERENCE compiled.
type argContext struct {
	meta       bool
	forceRange bool
}

// codegen compiles one AST into a Routine. Literal, dependency and symbol
// positions are counted across the whole tree, in source order.
type codegen struct {
	registry  *functions.Registry
	targeting functions.Targeting

	code    []instruction
	slot    int
	numbers int
	strings int
	deps    int
	symbols int
}

// emit appends in with a fresh slot and returns that slot as an operand.
// Appending in evaluation order hoists every computed argument ahead of the
// call consuming it.
func (g *codegen) emit(in instruction) operand {
	g.slot++
	in.slot = g.slot
	g.code = append(g.code, in)
	return operand{kind: operandSlot, index: g.slot}
}

func (g *codegen) compile(node *types.ASTNode, ac argContext) (operand, error) {
	if node.Debug {
		g.code = append(g.code, instruction{op: opDebug})
	}

	switch node.Type {
	case types.NodeBoolean:
		return operand{kind: operandBoolean, boolean: node.BoolValue}, nil
	case types.NodeNumber:
		g.numbers++
		return operand{kind: operandNumber, index: g.numbers - 1}, nil
	case types.NodeString:
		g.strings++
		return operand{kind: operandString, index: g.strings - 1}, nil
	case types.NodeEmpty:
		return operand{kind: operandEmpty}, nil
	case types.NodeReference:
		op := opRef
		if ac.forceRange || node.IsRange() {
			op = opRange
		}
		g.deps++
		return g.emit(instruction{op: op, index: g.deps - 1, meta: ac.meta}), nil
	case types.NodeSymbol:
		g.symbols++
		return g.emit(instruction{op: opSymbol, index: g.symbols - 1}), nil
	case types.NodeFuncall:
		return g.compileFunctionCall(node)
	case types.NodeUnary:
		o, err := g.compile(node.Operand, argContext{})
		if err != nil {
			return o, err
		}
		return g.emit(instruction{op: opCall, name: unaryOperators[node.Value], args: []operand{o}}), nil
	case types.NodeBinary:
		name, ok := binaryOperators[node.Value]
		if !ok {
			return operand{}, types.BadExpression(
				fmt.Sprintf("Invalid formula: unexpected operator %q", node.Value), node.TokenStartIndex)
		}
		left, err := g.compile(node.LHS, argContext{})
		if err != nil {
			return left, err
		}
		right, err := g.compile(node.RHS, argContext{})
		if err != nil {
			return right, err
		}
		return g.emit(instruction{op: opCall, name: name, args: []operand{left, right}}), nil
	case types.NodeArray:
		return g.compileArray(node)
	}
	return operand{}, types.BadExpression(fmt.Sprintf("Invalid formula: unexpected %s", node.Type), node.TokenStartIndex)
}

func (g *codegen) compileFunctionCall(node *types.ASTNode) (operand, error) {
	name := strings.ToUpper(node.Value)
	d, ok := g.registry.Get(name)
	if !ok {
		return operand{}, types.NewError(types.ErrUnknownFunction,
			fmt.Sprintf("Invalid formula: unknown function %s", name), node.TokenStartIndex).WithToken(node.Value)
	}
	if err := functions.ValidateArgCount(d, len(node.Arguments)); err != nil {
		if e, ok := err.(*types.Error); ok {
			e.Position = node.TokenStartIndex
			e.Token = node.Value
		}
		return operand{}, err
	}

	target := g.targeting(d, len(node.Arguments))
	args := make([]operand, len(node.Arguments))
	for i, arg := range node.Arguments {
		var ac argContext
		if idx, ok := target(i); ok && idx < len(d.Args) {
			def := d.Args[idx]
			if err := checkArgument(name, i, def, arg); err != nil {
				return operand{}, err
			}
			ac = argContext{meta: def.IsMeta(), forceRange: def.AcceptsRange()}
		}
		o, err := g.compile(arg, ac)
		if err != nil {
			return o, err
		}
		args[i] = o
	}
	return g.emit(instruction{op: opCall, name: name, args: args}), nil
}

// checkArgument rejects arguments whose AST kind cannot match def.
func checkArgument(name string, i int, def functions.ArgDefinition, arg *types.ASTNode) error {
	if def.IsMeta() && arg.Type != types.NodeReference {
		return types.BadExpression(
			fmt.Sprintf("Argument must be a reference to a cell or range (argument %d of %s).", i+1, name),
			arg.TokenStartIndex).WithCause(types.ErrMetaArgument)
	}
	if def.RangeOnly() {
		switch arg.Type {
		case types.NodeNumber, types.NodeString, types.NodeBoolean:
			return types.BadExpression(
				fmt.Sprintf("Function %s expects the parameter %d to be reference to a cell or range, not a %s.",
					name, i+1, strings.ToLower(string(arg.Type))),
				arg.TokenStartIndex).WithCause(types.ErrRangeArgument)
		}
	}
	return nil
}

func (g *codegen) compileArray(node *types.ASTNode) (operand, error) {
	cols := len(node.Rows[0])
	args := make([]operand, 0, cols*len(node.Rows))
	for _, row := range node.Rows {
		if len(row) != cols {
			return operand{}, types.BadExpression(
				"Invalid array: all rows must have the same number of values", node.TokenStartIndex)
		}
		for _, cell := range row {
			o, err := g.compile(cell, argContext{})
			if err != nil {
				return o, err
			}
			args = append(args, o)
		}
	}
	return g.emit(instruction{op: opArray, args: args, cols: cols}), nil
}
