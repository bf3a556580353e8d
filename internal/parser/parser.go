// Package parser builds the expression tree from a token stream.
//
// It is a recursive-descent parser with explicit precedence climbing for
// binary operators. Closure literals are parsed speculatively: a failed
// attempt reverts the cursor and the input is re-parsed as a parenthesized
// expression.
package parser

import (
	"fmt"
	"math"
	"strings"

	"github.com/michaelblawrence/xpress-calc/internal/ast"
	"github.com/michaelblawrence/xpress-calc/internal/diagnostics"
	"github.com/michaelblawrence/xpress-calc/internal/token"
)

// precedences groups binary operators into classes, low to high:
// comparisons, additive, multiplicative, exponent/modulo.
var precedences = map[token.TokenType]int{
	token.EQ:     0,
	token.NOT_EQ: 0,
	token.LT:     0,
	token.LTE:    0,
	token.GT:     0,
	token.GTE:    0,

	token.PLUS:  1,
	token.MINUS: 1,

	token.ASTERISK: 2,
	token.SLASH:    2,

	token.POWER:   3,
	token.PERCENT: 3,
}

type Parser struct {
	tokens []token.Token
	pos    int
}

func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseProgram parses a semicolon-separated statement sequence and requires
// the entire token stream to be consumed.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	if len(p.tokens) == 0 {
		return nil, diagnostics.NewError(diagnostics.ErrP002, -1, "empty program expression")
	}

	program := &ast.Program{}
	stmt, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	program.Statements = append(program.Statements, stmt)

	for p.tryConsume(token.SEMICOLON) {
		for p.tryConsume(token.SEMICOLON) {
		}
		if p.peek() == nil {
			break
		}
		stmt, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
	}

	if p.pos < len(p.tokens) {
		return nil, diagnostics.NewError(diagnostics.ErrP003, p.tokens[p.pos].Pos,
			fmt.Sprintf("failed to compile remaining tokens: %s", p.remainingSuffix()))
	}
	return program, nil
}

func (p *Parser) parseExpression() (ast.Expression, error) {
	lhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if _, _, ok, err := p.peekOperator(lhs); err != nil {
		return nil, err
	} else if ok {
		return p.parseBinaryOp(lhs, 0)
	}
	return lhs, nil
}

// parseBinaryOp folds operators onto lhs by precedence climbing. When the
// operator after a freshly parsed rhs binds tighter than the current one,
// the rhs is re-entered with a raised minimum precedence before folding.
func (p *Parser) parseBinaryOp(lhs ast.Expression, minPrecedence int) (ast.Expression, error) {
	for {
		op, explicit, ok, err := p.peekOperator(lhs)
		if err != nil {
			return nil, err
		}
		if !ok || precedences[op] < minPrecedence {
			return lhs, nil
		}

		opToken := p.operatorToken(op, explicit)
		rhs, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}

		for {
			next, _, ok, err := p.peekOperator(rhs)
			if err != nil {
				return nil, err
			}
			if !ok || precedences[next] <= precedences[op] {
				break
			}
			rhs, err = p.parseBinaryOp(rhs, precedences[op]+1)
			if err != nil {
				return nil, err
			}
		}

		lhs = &ast.InfixExpression{Token: opToken, Left: lhs, Operator: op, Right: rhs}
	}
}

// peekOperator reports the binary operator following a completed operand.
// An open paren implies multiplication. An identifier implies multiplication
// only after a numeric literal ("3x"); after anything else it is a parse
// error rather than a silent stop, since "x y" has no meaning here.
func (p *Parser) peekOperator(operand ast.Expression) (op token.TokenType, explicit bool, ok bool, err error) {
	tok := p.peek()
	if tok == nil {
		return "", false, false, nil
	}
	if tok.Type.IsBinaryOp() {
		return tok.Type, true, true, nil
	}
	if tok.Type == token.LPAREN {
		return token.ASTERISK, false, true, nil
	}
	if tok.Type == token.IDENT {
		if _, isLiteral := operand.(*ast.NumberLiteral); isLiteral {
			return token.ASTERISK, false, true, nil
		}
		return "", false, false, diagnostics.NewError(diagnostics.ErrP001, tok.Pos,
			fmt.Sprintf("unexpected identifier %q after expression", tok.Literal))
	}
	return "", false, false, nil
}

// operatorToken consumes the operator token, or synthesizes one for
// implicit multiplication.
func (p *Parser) operatorToken(op token.TokenType, explicit bool) token.Token {
	if explicit {
		tok := p.peek()
		p.pos++
		return *tok
	}
	pos := -1
	if tok := p.peek(); tok != nil {
		pos = tok.Pos
	}
	return token.Token{Type: token.ASTERISK, Literal: "*", Pos: pos}
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.peek()
	if tok == nil {
		return nil, diagnostics.NewError(diagnostics.ErrP001, -1, "unexpected end of input")
	}

	switch tok.Type {
	case token.LBRACE:
		return p.parseBlock()
	case token.LPAREN:
		save := p.pos
		fl, err := p.parseFunctionLiteral()
		if err == nil {
			return fl, nil
		}
		p.pos = save
		return p.parseParens()
	case token.LET:
		return p.parseLet()
	case token.IF:
		return p.parseIf()
	case token.NUMBER:
		p.pos++
		return &ast.NumberLiteral{Token: *tok, Value: tok.Value}, nil
	case token.PI:
		p.pos++
		return &ast.NumberLiteral{Token: *tok, Value: math.Pi}, nil
	case token.EULER:
		p.pos++
		return &ast.NumberLiteral{Token: *tok, Value: math.E}, nil
	case token.IDENT:
		if next := p.peekAt(1); next != nil && next.Type == token.LPAREN {
			return p.parseCall()
		}
		p.pos++
		return &ast.Identifier{Token: *tok, Value: tok.Literal}, nil
	case token.RAND:
		p.pos++
		if err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		if err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return &ast.BuiltinCall{Token: *tok, Builtin: tok.Type}, nil
	case token.SIN, token.COS, token.SQRT, token.LOG, token.ROUND, token.FLOOR:
		p.pos++
		if err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return &ast.BuiltinCall{Token: *tok, Builtin: tok.Type, Argument: arg}, nil
	}

	return nil, diagnostics.NewError(diagnostics.ErrP001, tok.Pos,
		fmt.Sprintf("unexpected token %q", tok.Literal))
}

func (p *Parser) parseBlock() (ast.Expression, error) {
	open := p.peek()
	if err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}

	block := &ast.Block{Token: *open}
	for {
		for p.tryConsume(token.SEMICOLON) {
		}
		if p.tryConsume(token.RBRACE) {
			return block, nil
		}
		if p.peek() == nil {
			return nil, diagnostics.NewError(diagnostics.ErrP001, open.Pos, "unterminated block")
		}

		stmt, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)

		if tok := p.peek(); tok == nil || (tok.Type != token.SEMICOLON && tok.Type != token.RBRACE) {
			pos := open.Pos
			if tok != nil {
				pos = tok.Pos
			}
			return nil, diagnostics.NewError(diagnostics.ErrP001, pos,
				"expected ';' or '}' in block")
		}
	}
}

func (p *Parser) parseParens() (ast.Expression, error) {
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseFunctionLiteral parses "(a, b) => body". A trailing comma in the
// parameter list is accepted. Callers treat any error as "not a closure
// literal" and revert.
func (p *Parser) parseFunctionLiteral() (ast.Expression, error) {
	open := p.peek()
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	var params []*ast.Identifier
	for !p.tryConsume(token.RPAREN) {
		tok := p.peek()
		if tok == nil || tok.Type != token.IDENT {
			return nil, diagnostics.NewError(diagnostics.ErrP001, open.Pos, "expected parameter name")
		}
		p.pos++
		params = append(params, &ast.Identifier{Token: *tok, Value: tok.Literal})

		if !p.tryConsume(token.COMMA) {
			if err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			break
		}
	}

	if err := p.expect(token.ARROW); err != nil {
		return nil, err
	}
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionLiteral{Token: *open, Parameters: params, Body: body}, nil
}

func (p *Parser) parseLet() (ast.Expression, error) {
	letTok := p.peek()
	p.pos++

	tok := p.peek()
	if tok == nil || tok.Type != token.IDENT {
		return nil, diagnostics.NewError(diagnostics.ErrP001, letTok.Pos, "expected identifier after 'let'")
	}
	p.pos++
	name := &ast.Identifier{Token: *tok, Value: tok.Literal}

	if err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.LetExpression{Token: *letTok, Name: name, Value: value}, nil
}

func (p *Parser) parseIf() (ast.Expression, error) {
	ifTok := p.peek()
	p.pos++

	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	consequence, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	expr := &ast.IfExpression{Token: *ifTok, Condition: condition, Consequence: consequence}
	if p.tryConsume(token.ELSE) {
		alternative, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		expr.Alternative = alternative
	}
	return expr, nil
}

func (p *Parser) parseCall() (ast.Expression, error) {
	tok := p.peek()
	p.pos++
	name := &ast.Identifier{Token: *tok, Value: tok.Literal}

	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	call := &ast.CallExpression{Token: *tok, Name: name}
	if p.tryConsume(token.RPAREN) {
		return call, nil
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		call.Arguments = append(call.Arguments, arg)

		if p.tryConsume(token.COMMA) {
			if p.tryConsume(token.RPAREN) {
				return call, nil
			}
			continue
		}
		if err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return call, nil
	}
}

func (p *Parser) peek() *token.Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(offset int) *token.Token {
	if p.pos+offset >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos+offset]
}

func (p *Parser) tryConsume(tt token.TokenType) bool {
	if tok := p.peek(); tok != nil && tok.Type == tt {
		p.pos++
		return true
	}
	return false
}

func (p *Parser) expect(tt token.TokenType) error {
	if p.tryConsume(tt) {
		return nil
	}
	tok := p.peek()
	if tok == nil {
		return diagnostics.NewError(diagnostics.ErrP001, -1,
			fmt.Sprintf("expected %q, found end of input", string(tt)))
	}
	return diagnostics.NewError(diagnostics.ErrP001, tok.Pos,
		fmt.Sprintf("expected %q, found %q", string(tt), tok.Literal))
}

func (p *Parser) remainingSuffix() string {
	var literals []string
	for _, tok := range p.tokens[p.pos:] {
		literals = append(literals, tok.Literal)
	}
	return strings.Join(literals, " ")
}
