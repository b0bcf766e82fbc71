// Package printer formats formula ASTs as readable, width-aware text.
//
// The printer builds a layout document for the AST (see [Doc]) and renders it
// greedily: every function call, array and operation stays on one line when
// it fits, and is broken over several indented lines otherwise.
//
//	node, _ := parser.Parse("=IF(A1>0,SUM(B1:B10),0)")
//	fmt.Println(printer.Prettify(node, 20))
//	// =IF(
//	//   A1 > 0,
//	//   SUM(B1:B10),
//	//   0
//	// )
package printer

import (
	"github.com/odoo/o-spreadsheet-formula/pkg/ast"
	"github.com/odoo/o-spreadsheet-formula/pkg/functions"
	"github.com/odoo/o-spreadsheet-formula/pkg/types"
)

const (
	// DefaultWidth is used when Prettify is given a non-positive width.
	DefaultWidth = 80
	// DefaultIndent is the indentation step of broken layouts.
	DefaultIndent = 2
)

// Options configures a Printer.
type Options struct {
	// Registry supplies the repeating argument groups of known functions.
	Registry *functions.Registry
	Indent   int
}

// Option configures a Printer.
type Option func(*Options)

// WithRegistry sets the function registry used to keep each repeating
// argument group on one line.
func WithRegistry(r *functions.Registry) Option {
	return func(o *Options) {
		o.Registry = r
	}
}

// WithIndent sets the indentation step.
func WithIndent(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.Indent = n
		}
	}
}

// Printer turns ASTs into layout documents and renders them.
type Printer struct {
	opts Options
}

// New creates a Printer. Without WithRegistry it uses functions.Default().
func New(opts ...Option) *Printer {
	o := Options{Indent: DefaultIndent}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Registry == nil {
		o.Registry = functions.Default()
	}
	return &Printer{opts: o}
}

// Prettify renders node as "=" followed by its formatted text, keeping lines
// within width columns whenever a layout allows it.
func (p *Printer) Prettify(node *types.ASTNode, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	return "=" + Render(p.Doc(node), width, 1)
}

// Prettify formats node with a Printer built from opts.
func Prettify(node *types.ASTNode, width int, opts ...Option) string {
	return New(opts...).Prettify(node, width)
}

// Doc returns the layout document of node.
func (p *Printer) Doc(node *types.ASTNode) Doc {
	d := p.body(node)
	if !node.Debug {
		return d
	}
	if ast.IsOperation(node) {
		return Concat(Text("?("), d, Text(")"))
	}
	return Concat(Text("?"), d)
}

func (p *Printer) body(node *types.ASTNode) Doc {
	switch node.Type {
	case types.NodeNumber:
		return Text(ast.FormatNumber(node.NumValue))
	case types.NodeString:
		return Text(ast.QuoteString(node.Value))
	case types.NodeBoolean:
		return Text(ast.FormatBoolean(node.BoolValue))
	case types.NodeReference, types.NodeSymbol:
		return Text(node.Value)
	case types.NodeEmpty:
		return Text("")
	case types.NodeFuncall:
		return p.functionCall(node)
	case types.NodeArray:
		return p.array(node)
	case types.NodeUnary:
		if node.Postfix {
			return Concat(p.operand(node.Operand, ast.PostfixOperandNeedsParenthesis(node)), Text(node.Value))
		}
		return Concat(Text(node.Value), p.operand(node.Operand, ast.PrefixOperandNeedsParenthesis(node)))
	case types.NodeBinary:
		return p.binaryOperation(node)
	default:
		return Text("")
	}
}

func (p *Printer) operand(node *types.ASTNode, parenthesize bool) Doc {
	d := p.Doc(node)
	if parenthesize {
		return Concat(Text("("), d, Text(")"))
	}
	return d
}

func (p *Printer) binaryOperation(node *types.ASTNode) Doc {
	left := p.operand(node.LHS, ast.LeftOperandNeedsParenthesis(node))
	right := p.operand(node.RHS, ast.RightOperandNeedsParenthesis(node))
	return Choose(
		Concat(left, Text(" "+node.Value+" "), right),
		Concat(left, Text(" "+node.Value), Nest(p.opts.Indent, Concat(Line(), right))),
	)
}

func (p *Printer) functionCall(node *types.ASTNode) Doc {
	if len(node.Arguments) == 0 {
		return Text(node.Value + "()")
	}
	args := make([]Doc, len(node.Arguments))
	for i, arg := range node.Arguments {
		args[i] = p.Doc(arg)
	}
	open, closing := Text(node.Value+"("), Text(")")
	return Choose(
		Concat(open, Join(Text(", "), args), closing),
		Concat(
			open,
			Nest(p.opts.Indent, Concat(Line(), Join(Concat(Text(","), Line()), p.argumentLines(node.Value, args)))),
			Line(),
			closing,
		),
	)
}

// argumentLines puts args one per line, except that every complete
// repeating group of a known function shares a line when it fits.
func (p *Printer) argumentLines(name string, args []Doc) []Doc {
	d, ok := p.opts.Registry.Get(name)
	if !ok || d.NbrArgRepeating < 2 {
		return args
	}
	start := d.RepeatingStart()
	rep := d.NbrArgRepeating
	if start >= rep {
		// The arguments declared just before the repeating ones form the
		// first group (condition1, value1).
		start -= rep
	}

	lines := make([]Doc, 0, len(args))
	i := 0
	for ; i < start && i < len(args); i++ {
		lines = append(lines, args[i])
	}
	for ; i+rep <= len(args); i += rep {
		group := args[i : i+rep]
		lines = append(lines, Choose(
			Join(Text(", "), group),
			Join(Concat(Text(","), Line()), group),
		))
	}
	return append(lines, args[i:]...)
}

func (p *Printer) array(node *types.ASTNode) Doc {
	rows := make([]Doc, len(node.Rows))
	for i, row := range node.Rows {
		cells := make([]Doc, len(row))
		for j, cell := range row {
			cells[j] = p.Doc(cell)
		}
		rows[i] = Join(Text(", "), cells)
	}
	return Choose(
		Concat(Text("{"), Join(Text("; "), rows), Text("}")),
		Concat(
			Text("{"),
			Nest(p.opts.Indent, Concat(Line(), Join(Concat(Text(";"), Line()), rows))),
			Line(),
			Text("}"),
		),
	)
}
