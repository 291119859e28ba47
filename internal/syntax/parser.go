package syntax

import (
	"fmt"

	"github.com/scriptrt/ccjs/internal/compiler"
)

// Parser is a small recursive-descent / precedence-climbing parser over
// the token stream Lexer produces. It has one token of lookahead.
type Parser struct {
	lex  *Lexer
	tok  Token
	file string
}

// Parse lexes and parses source into a *compiler.Program, the syntax
// tree internal/compiler expects. filename is carried only for error
// messages.
func Parse(source, filename string) (*compiler.Program, error) {
	p := &Parser{lex: NewLexer(source), file: filename}
	if err := p.next(); err != nil {
		return nil, err
	}
	body, err := p.parseStatements(TokEOF)
	if err != nil {
		return nil, err
	}
	return &compiler.Program{Body: body}, nil
}

func (p *Parser) next() error {
	t, err := p.lex.Next()
	if err != nil {
		return p.wrap(err)
	}
	p.tok = t
	return nil
}

func (p *Parser) wrap(err error) error {
	return fmt.Errorf("%s: %w", p.file, err)
}

func (p *Parser) errf(format string, args ...any) error {
	return p.wrap(fmt.Errorf("line %d: "+format, append([]any{p.tok.Line}, args...)...))
}

func (p *Parser) expect(k TokenKind, what string) error {
	if p.tok.Kind != k {
		return p.errf("expected %s", what)
	}
	return p.next()
}

func (p *Parser) accept(k TokenKind) bool {
	if p.tok.Kind == k {
		p.next()
		return true
	}
	return false
}

// parseStatements reads statements until it sees `end` (TokEOF for a
// program body, TokRBrace for a brace-delimited block).
func (p *Parser) parseStatements(end TokenKind) ([]compiler.Node, error) {
	var body []compiler.Node
	for p.tok.Kind != end {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	return body, nil
}

func (p *Parser) parseStatement() (compiler.Node, error) {
	switch p.tok.Kind {
	case TokVar, TokLet, TokConst:
		return p.parseVarDecl()
	case TokFunction:
		return p.parseFuncDecl()
	case TokIf:
		return p.parseIf()
	case TokWhile:
		return p.parseWhile()
	case TokReturn:
		return p.parseReturn()
	case TokBreak:
		p.next()
		p.accept(TokSemicolon)
		return &compiler.Break{}, nil
	case TokContinue:
		p.next()
		p.accept(TokSemicolon)
		return &compiler.Continue{}, nil
	case TokLBrace:
		return p.parseBlock()
	default:
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.accept(TokSemicolon)
		return &compiler.ExprStmt{Expr: expr}, nil
	}
}

func (p *Parser) declKind() compiler.DeclKind {
	switch p.tok.Kind {
	case TokLet:
		return compiler.DeclLet
	case TokConst:
		return compiler.DeclConst
	default:
		return compiler.DeclVar
	}
}

func (p *Parser) parseVarDecl() (compiler.Node, error) {
	kind := p.declKind()
	p.next()
	var decls []compiler.Declarator
	for {
		if p.tok.Kind != TokIdent {
			return nil, p.errf("expected identifier in declaration")
		}
		name := p.tok.Str
		p.next()
		var init compiler.Node
		if p.accept(TokAssign) {
			expr, err := p.parseAssignExpr()
			if err != nil {
				return nil, err
			}
			init = expr
		}
		decls = append(decls, compiler.Declarator{Name: name, Init: init})
		if !p.accept(TokComma) {
			break
		}
	}
	p.accept(TokSemicolon)
	return &compiler.VarDecl{Kind: kind, Declarators: decls}, nil
}

func (p *Parser) parseParamList() ([]string, error) {
	if err := p.expect(TokLParen, "("); err != nil {
		return nil, err
	}
	var params []string
	for p.tok.Kind != TokRParen {
		if p.tok.Kind != TokIdent {
			return nil, p.errf("expected parameter name")
		}
		params = append(params, p.tok.Str)
		p.next()
		if !p.accept(TokComma) {
			break
		}
	}
	if err := p.expect(TokRParen, ")"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseFuncDecl() (compiler.Node, error) {
	p.next() // 'function'
	if p.tok.Kind != TokIdent {
		return nil, p.errf("expected function name")
	}
	name := p.tok.Str
	p.next()
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &compiler.FuncDecl{Name: name, Params: params, Body: body}, nil
}

func (p *Parser) parseBlock() (*compiler.Block, error) {
	if err := p.expect(TokLBrace, "{"); err != nil {
		return nil, err
	}
	body, err := p.parseStatements(TokRBrace)
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokRBrace, "}"); err != nil {
		return nil, err
	}
	return &compiler.Block{Body: body}, nil
}

func (p *Parser) parseIf() (compiler.Node, error) {
	p.next()
	if err := p.expect(TokLParen, "("); err != nil {
		return nil, err
	}
	test, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokRParen, ")"); err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var elseBranch compiler.Node
	if p.accept(TokElse) {
		elseBranch, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return &compiler.If{Test: test, Then: then, Else: elseBranch}, nil
}

func (p *Parser) parseWhile() (compiler.Node, error) {
	p.next()
	if err := p.expect(TokLParen, "("); err != nil {
		return nil, err
	}
	test, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokRParen, ")"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &compiler.While{Test: test, Body: body}, nil
}

func (p *Parser) parseReturn() (compiler.Node, error) {
	p.next()
	if p.tok.Kind == TokSemicolon || p.tok.Kind == TokRBrace || p.tok.Kind == TokEOF {
		p.accept(TokSemicolon)
		return &compiler.Return{}, nil
	}
	arg, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.accept(TokSemicolon)
	return &compiler.Return{Argument: arg}, nil
}

// parseExpr is the top-level expression entry (no comma operator).
func (p *Parser) parseExpr() (compiler.Node, error) {
	return p.parseAssignExpr()
}

func (p *Parser) parseAssignExpr() (compiler.Node, error) {
	left, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if p.tok.Kind == TokAssign {
		switch left.(type) {
		case *compiler.Identifier, *compiler.Member:
		default:
			return nil, p.errf("invalid assignment target")
		}
		p.next()
		value, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		return &compiler.Assignment{Target: left, Value: value}, nil
	}
	return left, nil
}

func (p *Parser) parseLogicalOr() (compiler.Node, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == TokOrOr {
		p.next()
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = &compiler.Logical{Op: compiler.LogOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseLogicalAnd() (compiler.Node, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == TokAndAnd {
		p.next()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &compiler.Logical{Op: compiler.LogAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseEquality() (compiler.Node, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == TokEq || p.tok.Kind == TokNe {
		op := compiler.BinEq
		if p.tok.Kind == TokNe {
			op = compiler.BinNe
		}
		p.next()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &compiler.Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseRelational() (compiler.Node, error) {
	left, err := p.parseBitwiseOr()
	if err != nil {
		return nil, err
	}
	for {
		var op compiler.BinaryOp
		switch p.tok.Kind {
		case TokLt:
			op = compiler.BinLt
		case TokLe:
			op = compiler.BinLe
		case TokGt:
			op = compiler.BinGt
		case TokGe:
			op = compiler.BinGe
		default:
			return left, nil
		}
		p.next()
		right, err := p.parseBitwiseOr()
		if err != nil {
			return nil, err
		}
		left = &compiler.Binary{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseBitwiseOr() (compiler.Node, error) {
	left, err := p.parseBitwiseXor()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == TokPipe {
		p.next()
		right, err := p.parseBitwiseXor()
		if err != nil {
			return nil, err
		}
		left = &compiler.Binary{Op: compiler.BinBitOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseBitwiseXor() (compiler.Node, error) {
	left, err := p.parseBitwiseAnd()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == TokCaret {
		p.next()
		right, err := p.parseBitwiseAnd()
		if err != nil {
			return nil, err
		}
		left = &compiler.Binary{Op: compiler.BinBitXor, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseBitwiseAnd() (compiler.Node, error) {
	left, err := p.parseShift()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == TokAmp {
		p.next()
		right, err := p.parseShift()
		if err != nil {
			return nil, err
		}
		left = &compiler.Binary{Op: compiler.BinBitAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseShift() (compiler.Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == TokShl || p.tok.Kind == TokShr {
		op := compiler.BinShl
		if p.tok.Kind == TokShr {
			op = compiler.BinShr
		}
		p.next()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &compiler.Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (compiler.Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == TokPlus || p.tok.Kind == TokMinus {
		op := compiler.BinAdd
		if p.tok.Kind == TokMinus {
			op = compiler.BinSub
		}
		p.next()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &compiler.Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (compiler.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == TokStar || p.tok.Kind == TokSlash || p.tok.Kind == TokPercent {
		var op compiler.BinaryOp
		switch p.tok.Kind {
		case TokStar:
			op = compiler.BinMul
		case TokSlash:
			op = compiler.BinDiv
		case TokPercent:
			op = compiler.BinMod
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &compiler.Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (compiler.Node, error) {
	var op compiler.UnaryOp
	switch p.tok.Kind {
	case TokMinus:
		op = compiler.UnNeg
	case TokPlus:
		op = compiler.UnPlus
	case TokBang:
		op = compiler.UnNot
	case TokTilde:
		op = compiler.UnBitNot
	case TokTypeof:
		op = compiler.UnTypeof
	case TokVoid:
		op = compiler.UnVoid
	default:
		return p.parsePostfix()
	}
	p.next()
	arg, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &compiler.Unary{Op: op, Argument: arg}, nil
}

func (p *Parser) parsePostfix() (compiler.Node, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.tok.Kind {
		case TokDot:
			p.next()
			if p.tok.Kind != TokIdent {
				return nil, p.errf("expected property name after '.'")
			}
			expr = &compiler.Member{Object: expr, Property: p.tok.Str}
			p.next()
		case TokLBracket:
			p.next()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expect(TokRBracket, "]"); err != nil {
				return nil, err
			}
			expr = &compiler.Member{Object: expr, Computed: true, Index: idx}
		case TokLParen:
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			expr = &compiler.Call{Callee: expr, Args: args}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArgs() ([]compiler.Node, error) {
	if err := p.expect(TokLParen, "("); err != nil {
		return nil, err
	}
	var args []compiler.Node
	for p.tok.Kind != TokRParen {
		arg, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.accept(TokComma) {
			break
		}
	}
	if err := p.expect(TokRParen, ")"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (compiler.Node, error) {
	switch p.tok.Kind {
	case TokNumber:
		n := p.tok.Num
		p.next()
		return &compiler.Literal{Kind: compiler.LitNumber, Num: n}, nil
	case TokString:
		s := p.tok.Str
		p.next()
		return &compiler.Literal{Kind: compiler.LitString, Str: s}, nil
	case TokTrue:
		p.next()
		return &compiler.Literal{Kind: compiler.LitBool, Bool: true}, nil
	case TokFalse:
		p.next()
		return &compiler.Literal{Kind: compiler.LitBool, Bool: false}, nil
	case TokNull:
		p.next()
		return &compiler.Literal{Kind: compiler.LitNull}, nil
	case TokUndefined:
		p.next()
		return &compiler.Literal{Kind: compiler.LitUndefined}, nil
	case TokIdent:
		name := p.tok.Str
		p.next()
		return &compiler.Identifier{Name: name}, nil
	case TokLParen:
		p.next()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokRParen, ")"); err != nil {
			return nil, err
		}
		return expr, nil
	case TokLBracket:
		return p.parseArrayLiteral()
	case TokLBrace:
		return p.parseObjectLiteral()
	case TokFunction:
		return p.parseFunctionExpression()
	}
	return nil, p.errf("unexpected token in expression")
}

func (p *Parser) parseArrayLiteral() (compiler.Node, error) {
	p.next() // '['
	var elems []compiler.Node
	for p.tok.Kind != TokRBracket {
		el, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
		if !p.accept(TokComma) {
			break
		}
	}
	if err := p.expect(TokRBracket, "]"); err != nil {
		return nil, err
	}
	return &compiler.ArrayLiteral{Elements: elems}, nil
}

func (p *Parser) parseObjectLiteral() (compiler.Node, error) {
	p.next() // '{'
	var props []compiler.ObjectProperty
	for p.tok.Kind != TokRBrace {
		var key string
		switch p.tok.Kind {
		case TokIdent:
			key = p.tok.Str
		case TokString:
			key = p.tok.Str
		default:
			return nil, p.errf("expected property key")
		}
		p.next()
		if err := p.expect(TokColon, ":"); err != nil {
			return nil, err
		}
		val, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		props = append(props, compiler.ObjectProperty{Key: key, Value: val})
		if !p.accept(TokComma) {
			break
		}
	}
	if err := p.expect(TokRBrace, "}"); err != nil {
		return nil, err
	}
	return &compiler.ObjectLiteral{Properties: props}, nil
}

func (p *Parser) parseFunctionExpression() (compiler.Node, error) {
	p.next() // 'function'
	name := ""
	if p.tok.Kind == TokIdent {
		name = p.tok.Str
		p.next()
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &compiler.FunctionExpression{Name: name, Params: params, Body: body}, nil
}
