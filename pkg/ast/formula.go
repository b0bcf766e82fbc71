package ast

import (
	"math"
	"strconv"
	"strings"

	"github.com/odoo/o-spreadsheet-formula/pkg/types"
)

// ToFormula converts an AST back to formula text, without the leading "=".
// Parentheses are only written where the parser needs them to rebuild the
// same tree.
func ToFormula(node *types.ASTNode) string {
	var b strings.Builder
	writeNode(&b, node)
	return b.String()
}

func writeNode(b *strings.Builder, node *types.ASTNode) {
	if node.Debug {
		b.WriteByte('?')
		if IsOperation(node) {
			b.WriteByte('(')
			writeBody(b, node)
			b.WriteByte(')')
			return
		}
	}
	writeBody(b, node)
}

func writeBody(b *strings.Builder, node *types.ASTNode) {
	switch node.Type {
	case types.NodeNumber:
		b.WriteString(FormatNumber(node.NumValue))
	case types.NodeString:
		b.WriteString(QuoteString(node.Value))
	case types.NodeBoolean:
		b.WriteString(FormatBoolean(node.BoolValue))
	case types.NodeReference, types.NodeSymbol:
		b.WriteString(node.Value)
	case types.NodeEmpty:
	case types.NodeFuncall:
		b.WriteString(node.Value)
		b.WriteByte('(')
		for i, arg := range node.Arguments {
			if i > 0 {
				b.WriteByte(',')
			}
			writeNode(b, arg)
		}
		b.WriteByte(')')
	case types.NodeArray:
		b.WriteByte('{')
		for i, row := range node.Rows {
			if i > 0 {
				b.WriteByte(';')
			}
			for j, cell := range row {
				if j > 0 {
					b.WriteByte(',')
				}
				writeNode(b, cell)
			}
		}
		b.WriteByte('}')
	case types.NodeUnary:
		if node.Postfix {
			writeParenthesized(b, node.Operand, PostfixOperandNeedsParenthesis(node))
			b.WriteString(node.Value)
			return
		}
		b.WriteString(node.Value)
		writeParenthesized(b, node.Operand, PrefixOperandNeedsParenthesis(node))
	case types.NodeBinary:
		writeParenthesized(b, node.LHS, LeftOperandNeedsParenthesis(node))
		b.WriteString(node.Value)
		writeParenthesized(b, node.RHS, RightOperandNeedsParenthesis(node))
	}
}

func writeParenthesized(b *strings.Builder, node *types.ASTNode, parenthesize bool) {
	if !parenthesize {
		writeNode(b, node)
		return
	}
	b.WriteByte('(')
	writeNode(b, node)
	b.WriteByte(')')
}

// IsOperation reports whether node is a unary or binary operation.
func IsOperation(node *types.ASTNode) bool {
	return node.Type == types.NodeUnary || node.Type == types.NodeBinary
}

func isPrefixUnary(node *types.ASTNode) bool {
	return node.Type == types.NodeUnary && !node.Postfix
}

// LeftOperandNeedsParenthesis reports whether the left operand of a binary
// operation binds looser than the operation, or ends with a prefix
// operation that would swallow it.
func LeftOperandNeedsParenthesis(op *types.ASTNode) bool {
	left := op.LHS
	if left.Debug {
		return false
	}
	if left.Type != types.NodeBinary && !isPrefixUnary(left) {
		return false
	}
	priority := types.OperatorPriority(op.Value)
	if types.NodePriority(left) < priority {
		return true
	}
	return priority > types.UnaryPriority && endsInPrefixOperation(left)
}

// endsInPrefixOperation reports whether the text of node ends with a prefix
// operation, whose operand extends over any tighter operator written after
// it: 2^-3*4 reads as 2^-(3*4).
func endsInPrefixOperation(node *types.ASTNode) bool {
	for !node.Debug {
		switch {
		case isPrefixUnary(node):
			return true
		case node.Type == types.NodeBinary && !RightOperandNeedsParenthesis(node):
			node = node.RHS
		default:
			return false
		}
	}
	return false
}

// RightOperandNeedsParenthesis reports whether the right operand of a binary
// operation binds looser than the operation, or as loosely when the
// operator is not associative.
func RightOperandNeedsParenthesis(op *types.ASTNode) bool {
	right := op.RHS
	if right.Type != types.NodeBinary || right.Debug {
		return false
	}
	mainPriority := types.OperatorPriority(op.Value)
	rightPriority := types.OperatorPriority(right.Value)
	if rightPriority < mainPriority {
		return true
	}
	return rightPriority == mainPriority && !types.IsAssociativeOperator(op.Value)
}

// PrefixOperandNeedsParenthesis reports whether the operand of a prefix
// operation would otherwise end before the binary operator it contains.
func PrefixOperandNeedsParenthesis(op *types.ASTNode) bool {
	operand := op.Operand
	return operand.Type == types.NodeBinary && !operand.Debug && types.OperatorPriority(operand.Value) <= types.UnaryPriority
}

// PostfixOperandNeedsParenthesis reports whether the operand of a postfix
// operation is itself an operation.
func PostfixOperandNeedsParenthesis(op *types.ASTNode) bool {
	operand := op.Operand
	if operand.Debug {
		return false
	}
	return operand.Type == types.NodeBinary || isPrefixUnary(operand)
}

// FormatNumber writes a number the way the tokenizer reads it back.
func FormatNumber(v float64) string {
	abs := math.Abs(v)
	if math.IsInf(v, 0) {
		// Reads back as the same overflowing literal.
		if v < 0 {
			return "-1e999"
		}
		return "1e999"
	}
	if abs != 0 && (abs < 1e-7 || abs >= 1e21) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatBoolean returns TRUE or FALSE.
func FormatBoolean(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

// QuoteString quotes a string value, escaping its double quotes.
func QuoteString(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
