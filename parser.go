package figura

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
)

// Parse parses a program from bytes.
func Parse(data []byte, opt *ParseOptions) (*Program, error) {
	return Decode(bytes.NewReader(data), opt)
}

// Decode parses a program from reader.
//
// On a syntax error the returned Program holds every top-level statement
// parsed before the failing one, and the error is returned alongside.
// Lexical errors return a nil Program.
func Decode(r io.Reader, opt *ParseOptions) (*Program, error) {
	p := newParser(r, opt)
	prog, err := p.parseProgram()
	if err != nil && errors.Is(err, ErrLex) {
		return nil, err
	}

	return prog, err
}

// DecodeFile parses a program from a file.
func DecodeFile(path string, opt *ParseOptions) (*Program, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(b, opt)
}

// ParseExpr parses a standalone arithmetic expression.
func ParseExpr(src string, opt *ParseOptions) (*Expr, error) {
	p := newParser(strings.NewReader(src), opt)
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenEOF); err != nil {
		return nil, err
	}

	return e, nil
}

// stmtContext selects which statements may start at the current nesting.
type stmtContext int

const (
	ctxTop    stmtContext = iota // Program level
	ctxFigure                    // Inside figure { ... }
	ctxBlock                     // Inside if, for, each and animation bodies
)

// String names the context for diagnostics.
func (c stmtContext) String() string {
	switch c {
	case ctxFigure:
		return "figure body"
	case ctxBlock:
		return "block"
	default:
		return "top level"
	}
}

// parser is a recursive-descent parser with one token of lookahead.
type parser struct {
	l   *Lexer // Token source
	buf Token  // Buffered token
	has bool   // Has buffered token
}

// newParser creates a new parser reading from r.
func newParser(r io.Reader, opt *ParseOptions) *parser {
	return &parser{l: NewLexer(r, opt)}
}

// next returns the next token.
func (p *parser) next() (Token, error) {
	if p.has {
		p.has = false
		return p.buf, nil
	}

	return p.l.Next()
}

// peek returns the next token without consuming it.
func (p *parser) peek() (Token, error) {
	if p.has {
		return p.buf, nil
	}

	tok, err := p.l.Next()
	if err != nil {
		return tok, err
	}

	p.buf = tok
	p.has = true
	return tok, nil
}

// accept consumes the next token if it has type tt.
func (p *parser) accept(tt TokenType) (Token, bool, error) {
	tok, err := p.peek()
	if err != nil {
		return tok, false, err
	}
	if tok.Type != tt {
		return tok, false, nil
	}

	_, _ = p.next()
	return tok, true, nil
}

// expect consumes the next token or fails naming the expected type.
func (p *parser) expect(tt TokenType) (Token, error) {
	tok, err := p.next()
	if err != nil {
		return tok, err
	}
	if tok.Type != tt {
		return tok, p.errorf(tok, ErrUnexpectedToken, "expected %s, got %s", tokenName(tt), describe(tok))
	}

	return tok, nil
}

// errorf formats a syntax error at the token's line. Running out of input
// is reported as ErrUnexpectedEOF so callers can ask for more.
func (p *parser) errorf(tok Token, kind error, format string, args ...any) error {
	if tok.Type == TokenEOF && kind == ErrUnexpectedToken {
		kind = ErrUnexpectedEOF
	}

	return newError(ErrSyntax, kind, tok.Line, format, args...)
}

// parseProgram parses top-level statements until EOF.
func (p *parser) parseProgram() (*Program, error) {
	prog := &Program{}
	for {
		tok, err := p.peek()
		if err != nil {
			return prog, err
		}
		if tok.Type == TokenEOF {
			return prog, nil
		}

		st, err := p.parseStatement(ctxTop)
		if err != nil {
			return prog, err
		}

		prog.Statements = append(prog.Statements, st)
	}
}

// parseStatement dispatches on the leading token.
func (p *parser) parseStatement(ctx stmtContext) (Statement, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case TokenFigure:
		if ctx == ctxBlock {
			break
		}
		return p.parseFigure()

	case TokenAnimation:
		if ctx == ctxBlock {
			break
		}
		return p.parseAnimation()

	case TokenIf:
		if ctx == ctxFigure {
			break
		}
		return p.parseIf()

	case TokenFor:
		if ctx == ctxFigure {
			break
		}
		return p.parseForEach()

	case TokenEach:
		if ctx != ctxTop {
			break
		}
		return p.parseEach()

	case TokenIdent:
		return p.parseIdentLed(ctx)

	default:
		return nil, p.errorf(tok, ErrUnexpectedToken, "expected statement, got %s", describe(tok))
	}

	return nil, p.errorf(tok, ErrUnexpectedToken, "%s is not allowed in %s", tokenName(tok.Type), ctx)
}

// parseFigure parses figure Id { DeclStatement* }.
func (p *parser) parseFigure() (Statement, error) {
	kw, err := p.expect(TokenFigure)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	body, err := p.parseBraced(ctxFigure)
	if err != nil {
		return nil, err
	}

	return &FigureDecl{stmtNode: node(kindFigure, kw.Line), Name: name.Lit, Body: body}, nil
}

// parseAnimation parses animation Id ( params ) { BlockStatement* }.
func (p *parser) parseAnimation() (Statement, error) {
	kw, err := p.expect(TokenAnimation)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}

	var params []Param
	if _, ok, err := p.accept(TokenRParen); err != nil {
		return nil, err
	} else if !ok {
		for {
			typ, err := p.expect(TokenIdent)
			if err != nil {
				return nil, err
			}
			pname, err := p.expect(TokenIdent)
			if err != nil {
				return nil, err
			}
			params = append(params, Param{Type: typ.Lit, Name: pname.Lit})

			if _, ok, err := p.accept(TokenComma); err != nil {
				return nil, err
			} else if !ok {
				break
			}
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
	}

	body, err := p.parseBraced(ctxBlock)
	if err != nil {
		return nil, err
	}

	return &AnimationDecl{stmtNode: node(kindAnimation, kw.Line), Name: name.Lit, Params: params, Body: body}, nil
}

// parseIf parses if ( Expr RelOp Expr ) Block (else Block)?.
func (p *parser) parseIf() (Statement, error) {
	kw, err := p.expect(TokenIf)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}

	left, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	op, err := p.next()
	if err != nil {
		return nil, err
	}
	if !op.Type.isRelation() {
		return nil, p.errorf(op, ErrUnexpectedToken, "expected relational operator, got %s", describe(op))
	}
	right, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}

	st := &If{stmtNode: node(kindIf, kw.Line), Cond: &Relation{Left: left, Op: op.Lit, Right: right}}
	if st.Then, err = p.parseBlock(); err != nil {
		return nil, err
	}

	if _, ok, err := p.accept(TokenElse); err != nil {
		return nil, err
	} else if ok {
		if st.Else, err = p.parseBlock(); err != nil {
			return nil, err
		}
	}

	return st, nil
}

// parseForEach parses for each Id in Id Block.
func (p *parser) parseForEach() (Statement, error) {
	kw, err := p.expect(TokenFor)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenEach); err != nil {
		return nil, err
	}
	v, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenIn); err != nil {
		return nil, err
	}
	coll, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ForEach{stmtNode: node(kindForEach, kw.Line), Var: v.Lit, Collection: coll.Lit, Body: body}, nil
}

// parseEach parses each Integer Block.
func (p *parser) parseEach() (Statement, error) {
	kw, err := p.expect(TokenEach)
	if err != nil {
		return nil, err
	}
	period, err := p.expect(TokenInteger)
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &Each{stmtNode: node(kindEach, kw.Line), Period: period.Value, Body: body}, nil
}

// parseBlock parses a single statement or a braced statement list.
func (p *parser) parseBlock() ([]Statement, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Type == TokenLBrace {
		return p.parseBraced(ctxBlock)
	}

	st, err := p.parseStatement(ctxBlock)
	if err != nil {
		return nil, err
	}

	return []Statement{st}, nil
}

// parseBraced parses { Statement* } in the given context.
func (p *parser) parseBraced(ctx stmtContext) ([]Statement, error) {
	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}

	var body []Statement
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenRBrace {
			_, _ = p.next()
			return body, nil
		}
		if tok.Type == TokenEOF {
			return nil, p.errorf(tok, ErrUnexpectedToken, "expected '}', got EOF")
		}

		st, err := p.parseStatement(ctx)
		if err != nil {
			return nil, err
		}

		body = append(body, st)
	}
}

// parseIdentLed parses declarations, calls and assignments.
// Id Id is a declaration, otherwise the leading path is followed by
// '(' for a call or '=' for an assignment.
func (p *parser) parseIdentLed(ctx stmtContext) (Statement, error) {
	first, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Type == TokenIdent {
		return p.parseDecl(first)
	}

	path, err := p.parsePathFrom(first)
	if err != nil {
		return nil, err
	}

	tok, err = p.next()
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case TokenLParen:
		if ctx == ctxFigure {
			return nil, p.errorf(tok, ErrUnexpectedToken, "animation call is not allowed in %s", ctx)
		}
		return p.parseCallArgs(first.Line, path)

	case TokenAssign:
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
		return &Assign{stmtNode: node(kindAssign, first.Line), Target: path, Value: value}, nil

	default:
		return nil, p.errorf(tok, ErrUnexpectedToken, "expected identifier, ( or = after %s, got %s", path, describe(tok))
	}
}

// parseDecl parses the rest of Type Id ([Integer])? ;.
func (p *parser) parseDecl(typ Token) (Statement, error) {
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	if _, ok, err := p.accept(TokenLBracket); err != nil {
		return nil, err
	} else if ok {
		count, err := p.expect(TokenInteger)
		if err != nil {
			return nil, err
		}
		if count.Value == 0 {
			return nil, p.errorf(count, ErrEmptyCollection, "collection %s must have at least one element", name.Lit)
		}
		if _, err := p.expect(TokenRBracket); err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}

		return &CollectionDecl{
			stmtNode: node(kindCollection, typ.Line),
			Type:     typ.Lit,
			Name:     name.Lit,
			Count:    count.Value,
		}, nil
	}

	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	return &VarDecl{stmtNode: node(kindVar, typ.Line), Type: typ.Lit, Name: name.Lit}, nil
}

// parseCallArgs parses the rest of path ( Expr (, Expr)* ) ;.
func (p *parser) parseCallArgs(line int, callee Path) (Statement, error) {
	call := &AnimationCall{stmtNode: node(kindCall, line), Callee: callee}
	if _, ok, err := p.accept(TokenRParen); err != nil {
		return nil, err
	} else if !ok {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)

			if _, ok, err := p.accept(TokenComma); err != nil {
				return nil, err
			} else if !ok {
				break
			}
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	return call, nil
}

// parsePathFrom parses the rest of an attribute path whose first name is consumed.
func (p *parser) parsePathFrom(first Token) (Path, error) {
	seg, err := p.parseSubscript(first)
	if err != nil {
		return nil, err
	}

	path := Path{seg}
	for {
		if _, ok, err := p.accept(TokenDot); err != nil {
			return nil, err
		} else if !ok {
			return path, nil
		}

		name, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		seg, err := p.parseSubscript(name)
		if err != nil {
			return nil, err
		}

		path = append(path, seg)
	}
}

// parseSubscript parses an optional [Integer] after a name.
func (p *parser) parseSubscript(name Token) (Segment, error) {
	seg := Segment{Name: name.Lit}
	if _, ok, err := p.accept(TokenLBracket); err != nil || !ok {
		return seg, err
	}

	idx, err := p.expect(TokenInteger)
	if err != nil {
		return seg, err
	}
	if _, err := p.expect(TokenRBracket); err != nil {
		return seg, err
	}

	i := idx.Value
	seg.Index = &i
	return seg, nil
}

// parseExpr parses Expr := Sum.
func (p *parser) parseExpr() (*Expr, error) {
	sum, err := p.parseSum()
	if err != nil {
		return nil, err
	}

	return &Expr{Sum: sum}, nil
}

// parseSum parses Product (('+'|'-') Product)*, folding to the left.
func (p *parser) parseSum() (*SumExpr, error) {
	first, err := p.parseProduct()
	if err != nil {
		return nil, err
	}

	sum := &SumExpr{Right: first}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type != TokenPlus && tok.Type != TokenMinus {
			return sum, nil
		}

		_, _ = p.next()
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}

		sum = &SumExpr{Left: sum, Op: tok.Lit, Right: right}
	}
}

// parseProduct parses Atom (('*'|'/') Atom)*, folding to the left.
func (p *parser) parseProduct() (*ProductExpr, error) {
	first, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	prod := &ProductExpr{Right: first}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type != TokenStar && tok.Type != TokenSlash {
			return prod, nil
		}

		_, _ = p.next()
		right, err := p.parseAtom()
		if err != nil {
			return nil, err
		}

		prod = &ProductExpr{Left: prod, Op: tok.Lit, Right: right}
	}
}

// parseAtom parses Integer | Color | AttributePath | ( Expr ).
func (p *parser) parseAtom() (Atom, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case TokenInteger:
		return IntLit{Value: tok.Value}, nil

	case TokenColor:
		c, err := ParseColor(tok.Lit)
		if err != nil {
			return nil, newError(ErrLex, ErrBadColorLiteral, tok.Line, "%v", err)
		}
		return ColorLit{Lit: tok.Lit, Color: c}, nil

	case TokenIdent:
		path, err := p.parsePathFrom(tok)
		if err != nil {
			return nil, err
		}
		return PathExpr{Path: path}, nil

	case TokenLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return ParenExpr{Inner: inner}, nil

	default:
		return nil, p.errorf(tok, ErrUnexpectedToken, "expected expression, got %s", describe(tok))
	}
}

// tokenName names a token type for diagnostics.
func tokenName(tt TokenType) string {
	switch tt {
	case TokenEOF, TokenIdent, TokenInteger, TokenColor:
		return tt.String()
	default:
		return "'" + tt.String() + "'"
	}
}

// describe names a token for diagnostics, with its literal where useful.
func describe(tok Token) string {
	switch tok.Type {
	case TokenIdent, TokenInteger, TokenColor:
		return tok.Type.String() + " " + tok.Lit
	default:
		return tokenName(tok.Type)
	}
}
