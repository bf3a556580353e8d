// Package ast defines the expression tree produced by the parser.
//
// The tree is acyclic and finite; every child is uniquely owned by its
// parent. Expressions carry the token that introduced them for error
// reporting.
package ast

import (
	"github.com/michaelblawrence/xpress-calc/internal/token"
)

// Expression is the base interface for all tree nodes.
type Expression interface {
	expressionNode()
	GetToken() token.Token
	TokenLiteral() string
}

// Program is the root node: a sequence of top-level statements evaluated in
// the global scope. Its value is the value of the last statement.
type Program struct {
	Statements []Expression
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// Block is a braced, scoped statement sequence. Its value is the value of
// its last statement.
type Block struct {
	Token      token.Token // the '{' token
	Statements []Expression
}

func (b *Block) expressionNode()      {}
func (b *Block) TokenLiteral() string { return b.Token.Literal }
func (b *Block) GetToken() token.Token {
	return b.Token
}

// NumberLiteral is a numeric leaf. Constants (pi, e) parse to literals.
type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (nl *NumberLiteral) expressionNode()       {}
func (nl *NumberLiteral) TokenLiteral() string  { return nl.Token.Literal }
func (nl *NumberLiteral) GetToken() token.Token { return nl.Token }

// Identifier is a variable reference leaf.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Literal }
func (i *Identifier) GetToken() token.Token { return i.Token }

// FunctionLiteral is a closure literal: (params) => body.
type FunctionLiteral struct {
	Token      token.Token // the '(' opening the parameter list
	Parameters []*Identifier
	Body       Expression
}

func (fl *FunctionLiteral) expressionNode()       {}
func (fl *FunctionLiteral) TokenLiteral() string  { return fl.Token.Literal }
func (fl *FunctionLiteral) GetToken() token.Token { return fl.Token }

// IfExpression is a conditional. Alternative is nil when no else branch was
// written.
type IfExpression struct {
	Token       token.Token // the 'if' token
	Condition   Expression
	Consequence Expression
	Alternative Expression
}

func (ie *IfExpression) expressionNode()       {}
func (ie *IfExpression) TokenLiteral() string  { return ie.Token.Literal }
func (ie *IfExpression) GetToken() token.Token { return ie.Token }

// LetExpression binds an identifier in the current scope.
type LetExpression struct {
	Token token.Token // the 'let' token
	Name  *Identifier
	Value Expression
}

func (le *LetExpression) expressionNode()       {}
func (le *LetExpression) TokenLiteral() string  { return le.Token.Literal }
func (le *LetExpression) GetToken() token.Token { return le.Token }

// InfixExpression is a binary operation. The operator token type carries the
// precedence class used by the parser and the pretty-printer.
type InfixExpression struct {
	Token    token.Token // the operator token
	Left     Expression
	Operator token.TokenType
	Right    Expression
}

func (ie *InfixExpression) expressionNode()       {}
func (ie *InfixExpression) TokenLiteral() string  { return ie.Token.Literal }
func (ie *InfixExpression) GetToken() token.Token { return ie.Token }

// BuiltinCall invokes a named built-in. Argument is nil for nullary
// built-ins (rand).
type BuiltinCall struct {
	Token    token.Token // the built-in name token
	Builtin  token.TokenType
	Argument Expression
}

func (bc *BuiltinCall) expressionNode()       {}
func (bc *BuiltinCall) TokenLiteral() string  { return bc.Token.Literal }
func (bc *BuiltinCall) GetToken() token.Token { return bc.Token }

// CallExpression invokes a user closure bound to an identifier.
type CallExpression struct {
	Token     token.Token // the callee identifier token
	Name      *Identifier
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) TokenLiteral() string  { return ce.Token.Literal }
func (ce *CallExpression) GetToken() token.Token { return ce.Token }
