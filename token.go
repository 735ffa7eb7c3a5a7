package figura

// TokenType represents a type of a token.
type TokenType int

// token types.
const (
	TokenEOF          TokenType = iota // End of input
	TokenIdent                         // Identifier
	TokenInteger                       // Integer literal
	TokenColor                         // Color literal (#RRGGBB)
	TokenFigure                        // figure
	TokenAnimation                     // animation
	TokenIf                            // if
	TokenElse                          // else
	TokenFor                           // for
	TokenEach                          // each
	TokenIn                            // in
	TokenCollection                    // collection
	TokenAssign                        // =
	TokenEqual                         // ==
	TokenNotEqual                      // !=
	TokenGreater                       // >
	TokenGreaterEqual                  // >=
	TokenLess                          // <
	TokenLessEqual                     // <=
	TokenPlus                          // +
	TokenMinus                         // -
	TokenStar                          // *
	TokenSlash                         // /
	TokenLBrace                        // {
	TokenRBrace                        // }
	TokenLParen                        // (
	TokenRParen                        // )
	TokenLBracket                      // [
	TokenRBracket                      // ]
	TokenDot                           // .
	TokenComma                         // ,
	TokenSemicolon                     // ;
)

// keywords maps reserved words to their token types.
var keywords = map[string]TokenType{
	"figure":     TokenFigure,
	"animation":  TokenAnimation,
	"if":         TokenIf,
	"else":       TokenElse,
	"for":        TokenFor,
	"each":       TokenEach,
	"in":         TokenIn,
	"collection": TokenCollection,
}

// Token is a single lexeme of the source.
type Token struct {
	Lit   string    `json:"lit" yaml:"lit"`                         // Literal text of the token
	Type  TokenType `json:"type" yaml:"type"`                       // Type of the token
	Value int       `json:"value,omitempty" yaml:"value,omitempty"` // Integer value for TokenInteger
	Pos   int       `json:"pos" yaml:"pos"`                         // Absolute rune offset
	Line  int       `json:"line" yaml:"line"`                       // Line number (1-based)
}

// String returns a readable name of the token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenIdent:
		return "identifier"
	case TokenInteger:
		return "integer"
	case TokenColor:
		return "color"
	case TokenFigure:
		return "figure"
	case TokenAnimation:
		return "animation"
	case TokenIf:
		return "if"
	case TokenElse:
		return "else"
	case TokenFor:
		return "for"
	case TokenEach:
		return "each"
	case TokenIn:
		return "in"
	case TokenCollection:
		return "collection"
	case TokenAssign:
		return "="
	case TokenEqual:
		return "=="
	case TokenNotEqual:
		return "!="
	case TokenGreater:
		return ">"
	case TokenGreaterEqual:
		return ">="
	case TokenLess:
		return "<"
	case TokenLessEqual:
		return "<="
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenStar:
		return "*"
	case TokenSlash:
		return "/"
	case TokenLBrace:
		return "{"
	case TokenRBrace:
		return "}"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenLBracket:
		return "["
	case TokenRBracket:
		return "]"
	case TokenDot:
		return "."
	case TokenComma:
		return ","
	case TokenSemicolon:
		return ";"
	default:
		return "token"
	}
}

// isRelation reports whether the token type is a relational operator.
func (t TokenType) isRelation() bool {
	switch t {
	case TokenEqual, TokenNotEqual, TokenGreater, TokenGreaterEqual, TokenLess, TokenLessEqual:
		return true
	default:
		return false
	}
}

// MarshalText renders the token type by name in JSON and YAML dumps.
func (t TokenType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
