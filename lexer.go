package figura

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"strings"
	"unicode"
)

// maxIdentLength is the longest accepted identifier.
const maxIdentLength = 64

// Lexer turns source text into a finite stream of tokens.
// A Lexer is not restartable; create a new one to scan again.
type Lexer struct {
	r    *bufio.Reader // Reader for the input
	ch   rune          // Current character
	pos  int           // Absolute offset of the current character
	line int           // Line of the current character
	opt  ParseOptions  // Options for the lexer
	eof  bool          // End of input
}

// NewLexer creates a new lexer reading from r.
func NewLexer(r io.Reader, opt *ParseOptions) *Lexer {
	l := &Lexer{r: bufio.NewReader(r), opt: opt.normalize(), pos: -1, line: 1}
	l.read()
	if l.ch == 0xFEFF {
		// Skip UTF-8 BOM if present.
		l.read()
	}

	return l
}

// Tokenize scans the whole source and returns every token including the final EOF.
func Tokenize(src []byte, opt *ParseOptions) ([]Token, error) {
	l := NewLexer(bytes.NewReader(src), opt)
	var out []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return out, err
		}

		out = append(out, tok)
		if tok.Type == TokenEOF {
			return out, nil
		}
	}
}

// Next returns the next token. After EOF every call returns EOF again.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()
	if l.eof {
		return Token{Type: TokenEOF, Pos: l.pos, Line: l.line}, nil
	}

	start, line := l.pos, l.line
	single := func(tt TokenType) (Token, error) {
		l.read()
		return Token{Type: tt, Lit: tt.String(), Pos: start, Line: line}, nil
	}

	switch l.ch {
	case '{':
		return single(TokenLBrace)
	case '}':
		return single(TokenRBrace)
	case '(':
		return single(TokenLParen)
	case ')':
		return single(TokenRParen)
	case '[':
		return single(TokenLBracket)
	case ']':
		return single(TokenRBracket)
	case '+':
		return single(TokenPlus)
	case '-':
		return single(TokenMinus)
	case '*':
		return single(TokenStar)
	case '/':
		return single(TokenSlash)
	case '.':
		return single(TokenDot)
	case ',':
		return single(TokenComma)
	case ';':
		return single(TokenSemicolon)
	case '=':
		return l.twoCharOp(TokenAssign, TokenEqual, start, line)
	case '>':
		return l.twoCharOp(TokenGreater, TokenGreaterEqual, start, line)
	case '<':
		return l.twoCharOp(TokenLess, TokenLessEqual, start, line)
	case '!':
		l.read()
		if l.eof || l.ch != '=' {
			return Token{}, l.errorf(ErrBadOperator, "expected '=' after '!'")
		}
		l.read()
		return Token{Type: TokenNotEqual, Lit: "!=", Pos: start, Line: line}, nil
	case '#':
		lit, err := l.readColor()
		return Token{Type: TokenColor, Lit: lit, Pos: start, Line: line}, err
	}

	if isIdentStart(l.ch) {
		lit, err := l.readIdent()
		if err != nil {
			return Token{}, err
		}
		if tt, ok := keywords[lit]; ok {
			return Token{Type: tt, Lit: lit, Pos: start, Line: line}, nil
		}

		return Token{Type: TokenIdent, Lit: lit, Pos: start, Line: line}, nil
	}

	if isDigit(l.ch) {
		lit, val, err := l.readInteger()
		return Token{Type: TokenInteger, Lit: lit, Value: val, Pos: start, Line: line}, err
	}

	return Token{}, l.errorf(ErrUnknownCharacter, "unexpected character %q", l.ch)
}

// read reads the next character.
func (l *Lexer) read() {
	if l.eof {
		return
	}

	ch, _, err := l.r.ReadRune()
	if err != nil {
		l.eof = true
		l.ch = 0
		l.pos++
		return
	}

	l.pos++
	if l.ch == '\n' {
		l.line++
	}
	l.ch = ch
}

// peek returns the next character without consuming it.
func (l *Lexer) peek() rune {
	ch, _, err := l.r.ReadRune()
	if err != nil {
		return 0
	}

	_ = l.r.UnreadRune()
	return ch
}

// skipWhitespace skips whitespace and, when enabled, // comments.
func (l *Lexer) skipWhitespace() {
	for !l.eof {
		if unicode.IsSpace(l.ch) {
			l.read()
			continue
		}

		if l.opt.Comments && l.ch == '/' && l.peek() == '/' {
			for !l.eof && l.ch != '\n' {
				l.read()
			}
			continue
		}

		return
	}
}

// twoCharOp reads an operator that is either c or c followed by '='.
func (l *Lexer) twoCharOp(one, two TokenType, start, line int) (Token, error) {
	l.read()
	if !l.eof && l.ch == '=' {
		l.read()
		return Token{Type: two, Lit: two.String(), Pos: start, Line: line}, nil
	}

	return Token{Type: one, Lit: one.String(), Pos: start, Line: line}, nil
}

// readIdent reads an identifier or keyword.
func (l *Lexer) readIdent() (string, error) {
	var b strings.Builder
	for !l.eof && isIdentPart(l.ch) {
		b.WriteRune(l.ch)
		if b.Len() > maxIdentLength {
			return "", l.errorf(ErrIdentifierTooLong, "identifier longer than %d characters", maxIdentLength)
		}
		l.read()
	}

	return b.String(), nil
}

// readInteger reads a non-negative integer literal.
func (l *Lexer) readInteger() (string, int, error) {
	if l.ch == '0' {
		l.read()
		if !l.eof && isDigit(l.ch) {
			return "", 0, l.errorf(ErrLeadingZero, "integer can't start with 0")
		}

		return "0", 0, nil
	}

	var b strings.Builder
	val := 0
	for !l.eof && isDigit(l.ch) {
		d := int(l.ch - '0')
		if val > (math.MaxInt-d)/10 {
			return "", 0, l.errorf(ErrIntegerOverflow, "integer literal too large")
		}
		val = val*10 + d
		b.WriteRune(l.ch)
		l.read()
	}

	return b.String(), val, nil
}

// readColor reads '#' followed by exactly six hex digits.
func (l *Lexer) readColor() (string, error) {
	var b strings.Builder
	b.WriteByte('#')
	for i := 0; i < 6; i++ {
		l.read()
		if l.eof || !isHexDigit(l.ch) {
			return "", l.errorf(ErrBadColorLiteral, "color must be '#' and 6 hex digits")
		}
		b.WriteRune(l.ch)
	}
	l.read()

	return b.String(), nil
}

// errorf formats a lexical error at the current line.
func (l *Lexer) errorf(kind error, format string, args ...any) error {
	return newError(ErrLex, kind, l.line, format, args...)
}

// isIdentStart checks if a character is a valid start of an identifier.
func isIdentStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isIdentPart checks if a character is a valid part of an identifier.
func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

// isDigit checks if a character is a decimal digit.
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isHexDigit checks if a character is a hexadecimal digit.
func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
