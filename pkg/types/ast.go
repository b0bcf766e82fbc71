package types

import "strings"

// NodeType identifies the variant of an AST node.
type NodeType string

// AST node types produced by the parser.
const (
	// Leaves
	NodeNumber    NodeType = "NUMBER"
	NodeString    NodeType = "STRING"
	NodeBoolean   NodeType = "BOOLEAN"
	NodeReference NodeType = "REFERENCE"
	NodeSymbol    NodeType = "SYMBOL"
	NodeEmpty     NodeType = "EMPTY"

	// Composites
	NodeUnary   NodeType = "UNARY_OPERATION"
	NodeBinary  NodeType = "BIN_OPERATION"
	NodeFuncall NodeType = "FUNCALL"
	NodeArray   NodeType = "ARRAY"
)

// ASTNode represents a node in the formula Abstract Syntax Tree.
//
// A single struct covers every variant; which fields are meaningful depends
// on Type:
//
//	NUMBER           NumValue
//	STRING           Value (unquoted)
//	BOOLEAN          BoolValue
//	REFERENCE        Value (raw text, "A1", "Sheet2!A1:B3", "#REF")
//	SYMBOL           Value (raw text, possibly quoted)
//	UNARY_OPERATION  Value (operator), Operand, Postfix
//	BIN_OPERATION    Value (operator), LHS, RHS
//	FUNCALL          Value (function name as written), Arguments
//	ARRAY            Rows
//	EMPTY            -
//
// TokenStartIndex and TokenEndIndex index the token stream the node was
// parsed from, spaces included.
type ASTNode struct {
	Type      NodeType
	Value     string
	NumValue  float64
	BoolValue bool

	// Relations
	Operand   *ASTNode     // Unary operand
	LHS       *ASTNode     // Binary left operand
	RHS       *ASTNode     // Binary right operand
	Arguments []*ASTNode   // Function arguments, EMPTY for omitted ones
	Rows      [][]*ASTNode // Array literal rows

	// Attributes
	Postfix bool // Unary operator written after its operand (%)
	Debug   bool // Preceded by the debug marker

	TokenStartIndex int
	TokenEndIndex   int
}

// NewASTNode creates a node whose span is the single token at tokenIndex.
func NewASTNode(nodeType NodeType, tokenIndex int) *ASTNode {
	return &ASTNode{
		Type:            nodeType,
		TokenStartIndex: tokenIndex,
		TokenEndIndex:   tokenIndex,
	}
}

// IsRange reports whether a REFERENCE node denotes a range rather than a
// single cell.
func (n *ASTNode) IsRange() bool {
	return n.Type == NodeReference && strings.Contains(n.Value, ":")
}

// IsLeaf reports whether the node has no children.
func (n *ASTNode) IsLeaf() bool {
	switch n.Type {
	case NodeUnary, NodeBinary, NodeFuncall, NodeArray:
		return false
	default:
		return true
	}
}

// Clone returns a shallow copy of the node. Child slices are copied so the
// clone can be modified without touching the original.
func (n *ASTNode) Clone() *ASTNode {
	c := *n
	if n.Arguments != nil {
		c.Arguments = append([]*ASTNode(nil), n.Arguments...)
	}
	if n.Rows != nil {
		c.Rows = make([][]*ASTNode, len(n.Rows))
		for i, row := range n.Rows {
			c.Rows[i] = append([]*ASTNode(nil), row...)
		}
	}
	return &c
}

// String returns the node type.
func (n *ASTNode) String() string {
	return string(n.Type)
}

// arenaChunkSize is the number of ASTNode values pre-allocated per arena chunk.
// Most formulas fit in a single chunk.
const arenaChunkSize = 32

// NodeArena is a bump-pointer allocator for ASTNode values.
//
// The arena must stay alive as long as any node returned by Alloc is
// reachable; the GC collects chunks once the AST is released.
//
// NodeArena is NOT thread-safe. Each parse owns its own arena.
type NodeArena struct {
	chunks [][]ASTNode
	pos    int
}

// NewNodeArena allocates an arena pre-warmed with one chunk.
func NewNodeArena() *NodeArena {
	return &NodeArena{
		chunks: [][]ASTNode{make([]ASTNode, arenaChunkSize)},
	}
}

// Alloc returns a pointer to a zero-valued ASTNode inside the arena with
// Type and a single-token span set.
func (a *NodeArena) Alloc(nodeType NodeType, tokenIndex int) *ASTNode {
	if a == nil {
		return NewASTNode(nodeType, tokenIndex)
	}
	if a.pos >= arenaChunkSize {
		a.chunks = append(a.chunks, make([]ASTNode, arenaChunkSize))
		a.pos = 0
	}
	n := &a.chunks[len(a.chunks)-1][a.pos]
	a.pos++
	n.Type = nodeType
	n.TokenStartIndex = tokenIndex
	n.TokenEndIndex = tokenIndex
	return n
}
