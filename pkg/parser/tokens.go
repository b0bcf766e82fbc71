package parser

// TokenType represents the type of a lexical token.
type TokenType uint8

const (
	TokenUnknown TokenType = iota

	// Literals
	TokenNumber // 12, 1.5, .5, 1e3
	TokenString // "hello", quotes included
	TokenSymbol // SUM, TRUE, my_name, 'Sheet 1'!name

	// References
	TokenReference        // A1, $B$2, Sheet2!C3, A1:B2 after range fusion
	TokenInvalidReference // #REF

	// Operators
	TokenOperator // + - * / : = <> >= > <= < ^ & %

	// Grouping symbols
	TokenLeftParen  // (
	TokenRightParen // )
	TokenLeftBrace  // {
	TokenRightBrace // }

	// Separators
	TokenArgSeparator      // "," or the locale argument separator
	TokenArrayRowSeparator // ";" or "\"

	// Trivia
	TokenSpace    // whitespace and newline runs
	TokenDebugger // ?
)

// String returns the name of the token type.
func (tt TokenType) String() string {
	switch tt {
	case TokenNumber:
		return "NUMBER"
	case TokenString:
		return "STRING"
	case TokenSymbol:
		return "SYMBOL"
	case TokenReference:
		return "REFERENCE"
	case TokenInvalidReference:
		return "INVALID_REFERENCE"
	case TokenOperator:
		return "OPERATOR"
	case TokenLeftParen:
		return "LEFT_PAREN"
	case TokenRightParen:
		return "RIGHT_PAREN"
	case TokenLeftBrace:
		return "LEFT_BRACE"
	case TokenRightBrace:
		return "RIGHT_BRACE"
	case TokenArgSeparator:
		return "ARG_SEPARATOR"
	case TokenArrayRowSeparator:
		return "ARRAY_ROW_SEPARATOR"
	case TokenSpace:
		return "SPACE"
	case TokenDebugger:
		return "DEBUGGER"
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexical token of a formula. Tokens are values; the
// concatenation of a stream's values is the tokenized text.
type Token struct {
	Type  TokenType // Type of the token
	Value string    // Literal text of the token
}

// IsOperator reports whether t is the operator op.
func (t Token) IsOperator(op string) bool {
	return t.Type == TokenOperator && t.Value == op
}

// operators lists the recognized operators, two-character operators first so
// the longest match wins.
var operators = [...]string{
	"<>", ">=", "<=",
	"+", "-", "*", "/", ":", "=", ">", "<", "^", "&", "%",
}

// symbols1 maps single-character grouping symbols to token types.
var symbols1 = [...]TokenType{
	'(': TokenLeftParen,
	')': TokenRightParen,
	'{': TokenLeftBrace,
	'}': TokenRightBrace,
}

const symbol1Count = rune(len(symbols1))

// lookupSymbol1 returns the token type for a grouping symbol.
// Returns TokenUnknown if the rune is not one.
func lookupSymbol1(r rune) TokenType {
	if r < 0 || r >= symbol1Count {
		return TokenUnknown
	}
	return symbols1[r]
}

// invalidReference is the text of the invalid-reference token.
const invalidReference = "#REF"
