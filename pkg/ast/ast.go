// Package ast provides traversal, rewriting and serialization helpers for
// formula ASTs.
//
// # Example
//
//	node, _ := parser.Parse("=SUM(A1, Sheet1!B2)")
//	renamed := ast.Convert(node, types.NodeReference, func(n *types.ASTNode) *types.ASTNode {
//	    c := n.Clone()
//	    c.Value = strings.ReplaceAll(c.Value, "Sheet1!", "Data!")
//	    return c
//	})
//	text := ast.ToFormula(renamed) // SUM(A1,Data!B2)
package ast

import (
	"github.com/odoo/o-spreadsheet-formula/pkg/types"
)

// MapFunc returns the replacement for a node, or the node itself to keep it.
type MapFunc func(node *types.ASTNode) *types.ASTNode

// Map applies fn to node, then recursively to the children of the node fn
// returned. Parents are rebuilt only when one of their children changed;
// untouched subtrees are shared with the input.
func Map(node *types.ASTNode, fn MapFunc) *types.ASTNode {
	if node == nil {
		return nil
	}
	node = fn(node)

	switch node.Type {
	case types.NodeFuncall:
		args, changed := mapSlice(node.Arguments, fn)
		if changed {
			node = node.Clone()
			node.Arguments = args
		}
	case types.NodeArray:
		var rows [][]*types.ASTNode
		for i, row := range node.Rows {
			cells, changed := mapSlice(row, fn)
			if changed && rows == nil {
				rows = make([][]*types.ASTNode, len(node.Rows))
				copy(rows, node.Rows)
			}
			if rows != nil {
				rows[i] = cells
			}
		}
		if rows != nil {
			node = node.Clone()
			node.Rows = rows
		}
	case types.NodeUnary:
		if operand := Map(node.Operand, fn); operand != node.Operand {
			node = node.Clone()
			node.Operand = operand
		}
	case types.NodeBinary:
		lhs, rhs := Map(node.LHS, fn), Map(node.RHS, fn)
		if lhs != node.LHS || rhs != node.RHS {
			node = node.Clone()
			node.LHS, node.RHS = lhs, rhs
		}
	}
	return node
}

func mapSlice(nodes []*types.ASTNode, fn MapFunc) ([]*types.ASTNode, bool) {
	var out []*types.ASTNode
	for i, n := range nodes {
		m := Map(n, fn)
		if m != n && out == nil {
			out = make([]*types.ASTNode, len(nodes))
			copy(out, nodes[:i])
		}
		if out != nil {
			out[i] = m
		}
	}
	if out == nil {
		return nodes, false
	}
	return out, true
}

// Convert is Map restricted to the nodes of one type.
func Convert(node *types.ASTNode, nodeType types.NodeType, fn MapFunc) *types.ASTNode {
	return Map(node, func(n *types.ASTNode) *types.ASTNode {
		if n.Type != nodeType {
			return n
		}
		return fn(n)
	})
}

// Iterate returns every node of the tree in depth-first pre-order.
func Iterate(node *types.ASTNode) []*types.ASTNode {
	var nodes []*types.ASTNode
	var walk func(n *types.ASTNode)
	walk = func(n *types.ASTNode) {
		if n == nil {
			return
		}
		nodes = append(nodes, n)
		switch n.Type {
		case types.NodeFuncall:
			for _, arg := range n.Arguments {
				walk(arg)
			}
		case types.NodeArray:
			for _, row := range n.Rows {
				for _, cell := range row {
					walk(cell)
				}
			}
		case types.NodeUnary:
			walk(n.Operand)
		case types.NodeBinary:
			walk(n.LHS)
			walk(n.RHS)
		}
	}
	walk(node)
	return nodes
}

// Equal reports whether two trees are structurally equal, ignoring token
// spans. Debug flags are compared.
func Equal(a, b *types.ASTNode) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type || a.Debug != b.Debug {
		return false
	}
	switch a.Type {
	case types.NodeNumber:
		return a.NumValue == b.NumValue
	case types.NodeBoolean:
		return a.BoolValue == b.BoolValue
	case types.NodeString, types.NodeReference, types.NodeSymbol:
		return a.Value == b.Value
	case types.NodeEmpty:
		return true
	case types.NodeUnary:
		return a.Value == b.Value && a.Postfix == b.Postfix && Equal(a.Operand, b.Operand)
	case types.NodeBinary:
		return a.Value == b.Value && Equal(a.LHS, b.LHS) && Equal(a.RHS, b.RHS)
	case types.NodeFuncall:
		return a.Value == b.Value && equalSlices(a.Arguments, b.Arguments)
	case types.NodeArray:
		if len(a.Rows) != len(b.Rows) {
			return false
		}
		for i := range a.Rows {
			if !equalSlices(a.Rows[i], b.Rows[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func equalSlices(a, b []*types.ASTNode) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
