// Package token defines the lexical tokens of the expression language.
package token

// TokenType identifies the kind of a token.
type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Literals and names
	NUMBER TokenType = "NUMBER"
	IDENT  TokenType = "IDENT"

	// Operators
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"
	POWER    TokenType = "^"
	LT       TokenType = "<"
	LTE      TokenType = "<="
	GT       TokenType = ">"
	GTE      TokenType = ">="
	EQ       TokenType = "=="
	NOT_EQ   TokenType = "!="
	ASSIGN   TokenType = "="
	ARROW    TokenType = "=>"

	// Delimiters
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"

	// Keywords
	LET  TokenType = "LET"
	IF   TokenType = "IF"
	ELSE TokenType = "ELSE"

	// Built-in functions and constants
	SIN   TokenType = "SIN"
	COS   TokenType = "COS"
	SQRT  TokenType = "SQRT"
	LOG   TokenType = "LOG"
	RAND  TokenType = "RAND"
	ROUND TokenType = "ROUND"
	FLOOR TokenType = "FLOOR"
	PI    TokenType = "PI"
	EULER TokenType = "E"
)

// Token is a single lexical token. Value carries the parsed number for
// NUMBER tokens; Pos is the byte offset of the token in the source.
type Token struct {
	Type    TokenType
	Literal string
	Value   float64
	Pos     int
}

// IsBuiltin reports whether t names a built-in function (not a constant).
func (t TokenType) IsBuiltin() bool {
	switch t {
	case SIN, COS, SQRT, LOG, RAND, ROUND, FLOOR:
		return true
	}
	return false
}

// IsBinaryOp reports whether t is a binary operator token.
func (t TokenType) IsBinaryOp() bool {
	switch t {
	case PLUS, MINUS, ASTERISK, SLASH, PERCENT, POWER, LT, LTE, GT, GTE, EQ, NOT_EQ:
		return true
	}
	return false
}
