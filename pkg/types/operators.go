package types

// Operator priorities, higher binds tighter.
var opPriority = map[string]int{
	"%":  40,
	"^":  30,
	"*":  20,
	"/":  20,
	"+":  15,
	"-":  15,
	"&":  13,
	">":  10,
	"<>": 10,
	">=": 10,
	"<":  10,
	"<=": 10,
	"=":  10,
}

// associativeOperators may drop parentheses around an equal-priority right
// operand.
var associativeOperators = map[string]bool{
	"*": true,
	"+": true,
	"&": true,
}

// UnaryPriority is the binding power of prefix + and -.
const UnaryPriority = 15

// OperatorPriority returns the priority of op, or 0 when op is not an infix
// or postfix operator.
func OperatorPriority(op string) int {
	return opPriority[op]
}

// IsPostfixOperator reports whether op is written after its operand.
func IsPostfixOperator(op string) bool {
	return op == "%"
}

// IsPrefixOperator reports whether op can start a unary operation.
func IsPrefixOperator(op string) bool {
	return op == "+" || op == "-"
}

// IsAssociativeOperator reports whether a op (b op c) equals (a op b) op c.
func IsAssociativeOperator(op string) bool {
	return associativeOperators[op]
}

// NodePriority returns the binding power of an operation node: the operator
// priority for binary and postfix operations, UnaryPriority for prefix
// operations. Other nodes bind as tightly as possible.
func NodePriority(n *ASTNode) int {
	switch n.Type {
	case NodeBinary:
		return OperatorPriority(n.Value)
	case NodeUnary:
		if n.Postfix {
			return OperatorPriority(n.Value)
		}
		return UnaryPriority
	default:
		return 1000
	}
}
