package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/odoo/o-spreadsheet-formula/pkg/types"
)

// tokenEOF marks the end of the token stream inside the parser.
const tokenEOF TokenType = 255

// debugPriority makes the debug marker apply to the tightest expression.
const debugPriority = 1000

var functionName = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)

// indexedToken is a non-space token with its index in the original stream.
type indexedToken struct {
	Token
	index int
}

// Parser implements a recursive descent parser for formulas, using
// precedence climbing for operators.
type Parser struct {
	tokens []indexedToken
	pos    int
	depth  int
	eof    indexedToken
	opts   Options
	arena  *types.NodeArena
}

// NewParser creates a parser over tokens.
func NewParser(tokens []Token, opts ...Option) *Parser {
	filtered := make([]indexedToken, 0, len(tokens))
	for i, t := range tokens {
		if t.Type == TokenSpace {
			continue
		}
		filtered = append(filtered, indexedToken{Token: t, index: i})
	}
	return &Parser{
		tokens: filtered,
		eof:    indexedToken{Token: Token{Type: tokenEOF}, index: len(tokens)},
		opts:   newOptions(opts),
		arena:  types.NewNodeArena(),
	}
}

// Parse parses the whole token stream and returns the root AST node.
func (p *Parser) Parse() (*types.ASTNode, error) {
	if p.current().IsOperator("=") {
		p.advance()
	}

	if p.current().Type == tokenEOF {
		return nil, p.error("Invalid formula: empty expression")
	}

	node, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if t := p.current(); t.Type != tokenEOF {
		return nil, p.error(fmt.Sprintf("Invalid formula: unexpected token %q", t.Value))
	}

	return node, nil
}

// current returns the next unconsumed token.
func (p *Parser) current() indexedToken {
	return p.peekAt(0)
}

func (p *Parser) peekAt(offset int) indexedToken {
	if p.pos+offset < len(p.tokens) {
		return p.tokens[p.pos+offset]
	}
	return p.eof
}

// advance consumes and returns the current token.
func (p *Parser) advance() indexedToken {
	t := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

// expect consumes the current token if it has type tt.
func (p *Parser) expect(tt TokenType, message string) (indexedToken, error) {
	if p.current().Type != tt {
		return indexedToken{}, p.error(message)
	}
	return p.advance(), nil
}

// error creates a parser error located at the current token.
func (p *Parser) error(message string) error {
	t := p.current()
	return types.BadExpression(message, t.index).WithToken(t.Value)
}

// parseExpression parses an expression whose operators all bind tighter
// than minPriority.
func (p *Parser) parseExpression(minPriority int) (*types.ASTNode, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.opts.MaxDepth > 0 && p.depth > p.opts.MaxDepth {
		return nil, p.error("Invalid formula: expression is nested too deeply")
	}

	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	for {
		op := p.current()
		if op.Type != TokenOperator {
			return left, nil
		}
		priority := types.OperatorPriority(op.Value)
		if priority <= minPriority {
			return left, nil
		}
		p.advance()

		if types.IsPostfixOperator(op.Value) {
			node := p.arena.Alloc(types.NodeUnary, op.index)
			node.Value = op.Value
			node.Operand = left
			node.Postfix = true
			node.TokenStartIndex = left.TokenStartIndex
			left = node
			continue
		}

		right, err := p.parseExpression(priority)
		if err != nil {
			return nil, err
		}
		node := p.arena.Alloc(types.NodeBinary, op.index)
		node.Value = op.Value
		node.LHS = left
		node.RHS = right
		node.TokenStartIndex = left.TokenStartIndex
		node.TokenEndIndex = right.TokenEndIndex
		left = node
	}
}

// parseOperand parses everything that can stand on either side of an
// operator.
func (p *Parser) parseOperand() (*types.ASTNode, error) {
	t := p.current()

	switch t.Type {
	case TokenDebugger:
		p.advance()
		node, err := p.parseExpression(debugPriority)
		if err != nil {
			return nil, err
		}
		node.Debug = true
		node.TokenStartIndex = t.index
		return node, nil
	case TokenNumber:
		return p.parseNumber()
	case TokenString:
		p.advance()
		node := p.arena.Alloc(types.NodeString, t.index)
		node.Value = Unquote(t.Value)
		return node, nil
	case TokenInvalidReference:
		p.advance()
		node := p.arena.Alloc(types.NodeReference, t.index)
		node.Value = string(types.ErrInvalidReference)
		return node, nil
	case TokenReference:
		return p.parseReference()
	case TokenSymbol:
		return p.parseSymbol()
	case TokenLeftParen:
		return p.parseGrouping()
	case TokenLeftBrace:
		return p.parseArray()
	case TokenOperator:
		if types.IsPrefixOperator(t.Value) {
			return p.parseUnary()
		}
	case tokenEOF:
		return nil, p.error("Invalid formula: unexpected end of formula")
	}
	return nil, p.error(fmt.Sprintf("Invalid formula: unexpected token %q", t.Value))
}

// parseNumber parses a NUMBER token written with the locale decimal
// separator.
func (p *Parser) parseNumber() (*types.ASTNode, error) {
	t := p.current()
	value, err := ParseNumber(t.Value, p.opts.Locale)
	if err != nil {
		return nil, p.error(fmt.Sprintf("Invalid number %q", t.Value))
	}
	p.advance()
	node := p.arena.Alloc(types.NodeNumber, t.index)
	node.NumValue = value
	return node, nil
}

// parseReference parses a reference, joining "ref : ref" sequences the
// range tokenizer left apart (Sheet1!A1:Sheet1!B2).
func (p *Parser) parseReference() (*types.ASTNode, error) {
	t := p.advance()
	node := p.arena.Alloc(types.NodeReference, t.index)
	node.Value = t.Value

	if p.current().IsOperator(":") && p.peekAt(1).Type == TokenReference {
		p.advance()
		right := p.advance()
		node.Value = t.Value + ":" + right.Value
		node.TokenEndIndex = right.index
	}
	return node, nil
}

// parseSymbol parses a function call, a boolean or a named value.
func (p *Parser) parseSymbol() (*types.ASTNode, error) {
	t := p.current()

	if p.peekAt(1).Type == TokenLeftParen && Unquote(t.Value) == t.Value && functionName.MatchString(t.Value) {
		return p.parseFunctionCall()
	}

	p.advance()
	switch strings.ToUpper(t.Value) {
	case "TRUE", "FALSE":
		node := p.arena.Alloc(types.NodeBoolean, t.index)
		node.BoolValue = strings.EqualFold(t.Value, "TRUE")
		return node, nil
	}

	node := p.arena.Alloc(types.NodeSymbol, t.index)
	node.Value = t.Value
	return node, nil
}

// parseFunctionCall parses name(arg, ...). An argument left out between two
// separators, or before the closing parenthesis, becomes an EMPTY node.
func (p *Parser) parseFunctionCall() (*types.ASTNode, error) {
	name := p.advance()
	p.advance() // Skip '('

	node := p.arena.Alloc(types.NodeFuncall, name.index)
	node.Value = name.Value
	node.Arguments = []*types.ASTNode{}

	if p.current().Type != TokenRightParen {
		for {
			t := p.current()
			if t.Type == TokenArgSeparator || t.Type == TokenRightParen {
				node.Arguments = append(node.Arguments, p.arena.Alloc(types.NodeEmpty, t.index))
			} else {
				arg, err := p.parseExpression(0)
				if err != nil {
					return nil, err
				}
				node.Arguments = append(node.Arguments, arg)
			}

			if p.current().Type != TokenArgSeparator {
				break
			}
			p.advance()
		}
	}

	closing, err := p.expect(TokenRightParen, "Wrong function call: missing closing parenthesis")
	if err != nil {
		return nil, err
	}
	node.TokenEndIndex = closing.index
	return node, nil
}

// parseGrouping parses a parenthesized expression.
func (p *Parser) parseGrouping() (*types.ASTNode, error) {
	p.advance() // Skip '('

	node, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenRightParen, "Missing closing parenthesis"); err != nil {
		return nil, err
	}
	return node, nil
}

// parseArray parses an array literal {1, 2; 3, 4}.
func (p *Parser) parseArray() (*types.ASTNode, error) {
	open := p.advance() // Skip '{'

	node := p.arena.Alloc(types.NodeArray, open.index)
	var row []*types.ASTNode

	for {
		cell, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		row = append(row, cell)

		switch t := p.current(); t.Type {
		case TokenArgSeparator:
			p.advance()
		case TokenArrayRowSeparator:
			p.advance()
			node.Rows = append(node.Rows, row)
			row = nil
		case TokenRightBrace:
			p.advance()
			node.Rows = append(node.Rows, row)
			node.TokenEndIndex = t.index
			return node, nil
		default:
			return nil, p.error("Missing closing brace")
		}
	}
}

// parseUnary parses a prefix + or -. The operand binds at the operator's
// priority, so -2^2 is -(2^2).
func (p *Parser) parseUnary() (*types.ASTNode, error) {
	op := p.advance()

	operand, err := p.parseExpression(types.UnaryPriority)
	if err != nil {
		return nil, err
	}

	node := p.arena.Alloc(types.NodeUnary, op.index)
	node.Value = op.Value
	node.Operand = operand
	node.TokenEndIndex = operand.TokenEndIndex
	return node, nil
}

// Unquote strips the quotes of a STRING or symbol token: double-quoted
// strings lose their quotes and their \" escapes, single-quoted names lose
// their quotes and their '' escapes. Other values are returned unchanged.
func Unquote(value string) string {
	switch {
	case strings.HasPrefix(value, `"`):
		s := value[1:]
		if strings.HasSuffix(s, `"`) {
			s = s[:len(s)-1]
		}
		return strings.ReplaceAll(s, `\"`, `"`)
	case len(value) >= 2 && strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'"):
		return strings.ReplaceAll(value[1:len(value)-1], "''", "'")
	default:
		return value
	}
}

// ParseNumber converts the text of a NUMBER token to its value. Literals
// beyond the float64 range become ±Inf or ±0 rather than an error.
func ParseNumber(text string, locale types.Locale) (float64, error) {
	if locale.DecimalSeparator != "" && locale.DecimalSeparator != "." {
		text = strings.Replace(text, locale.DecimalSeparator, ".", 1)
	}
	value, err := strconv.ParseFloat(text, 64)
	if errors.Is(err, strconv.ErrRange) {
		return value, nil
	}
	return value, err
}
