// Package lexer turns source text into tokens.
//
// Tokens are produced lazily through Next. Keywords and built-in names are
// matched before identifiers, numeric literals before operator characters
// (so a leading sign belongs to the literal), and Unicode operator aliases
// (×, ÷, 𝜋, the U+2212 minus) are folded onto their ASCII tokens. Brackets
// and braces left open at end of input are healed: the lexer emits the
// missing closers, innermost first, before EOF.
package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/michaelblawrence/xpress-calc/internal/cursor"
	"github.com/michaelblawrence/xpress-calc/internal/diagnostics"
	"github.com/michaelblawrence/xpress-calc/internal/token"
)

type Lexer struct {
	source string
	cur    cursor.Cursor
	heal   []healEntry // closers implied by unmatched opens, in open order
	failed bool
}

type healEntry struct {
	typ     token.TokenType
	literal string
}

// keywords are tried in order before the identifier scan. The boundary rule
// (a keyword must not be followed by a letter or '_') comes from the Word
// matcher, so "sinx" still lexes as one identifier.
var keywords = []struct {
	matcher cursor.Matcher
	typ     token.TokenType
}{
	{cursor.Word("sin"), token.SIN},
	{cursor.Word("log"), token.LOG},
	{cursor.Word("cos"), token.COS},
	{cursor.Word("rand"), token.RAND},
	{cursor.Word("round"), token.ROUND},
	{cursor.Word("floor"), token.FLOOR},
	{cursor.Word("sqrt"), token.SQRT},
	{cursor.Word("let"), token.LET},
	{cursor.Word("if"), token.IF},
	{cursor.Word("else"), token.ELSE},
	{cursor.Or(cursor.Word("pi"), cursor.Char('𝜋')), token.PI},
	{cursor.Or(cursor.Word("e"), cursor.Word("E")), token.EULER},
	{cursor.Word("mod"), token.PERCENT},
}

// operators are tried longest first so "<=" never lexes as "<" "=".
var operators = []struct {
	matcher cursor.Matcher
	typ     token.TokenType
}{
	{cursor.Literal("<="), token.LTE},
	{cursor.Literal(">="), token.GTE},
	{cursor.Literal("=="), token.EQ},
	{cursor.Literal("!="), token.NOT_EQ},
	{cursor.Literal("=>"), token.ARROW},
	{cursor.Char('<'), token.LT},
	{cursor.Char('>'), token.GT},
	{cursor.Char('='), token.ASSIGN},
	{cursor.Char('+'), token.PLUS},
	{cursor.Char('-'), token.MINUS},
	{cursor.Or(cursor.Char('*'), cursor.Char('×')), token.ASTERISK},
	{cursor.Or(cursor.Char('/'), cursor.Char('÷')), token.SLASH},
	{cursor.Char('^'), token.POWER},
	{cursor.Char('%'), token.PERCENT},
	{cursor.Char('('), token.LPAREN},
	{cursor.Char(')'), token.RPAREN},
	{cursor.Char('{'), token.LBRACE},
	{cursor.Char('}'), token.RBRACE},
	{cursor.Char(','), token.COMMA},
	{cursor.Char(';'), token.SEMICOLON},
}

func New(source string) *Lexer {
	return &Lexer{source: source, cur: cursor.New(source)}
}

// Next returns the next token. After the input is exhausted it yields any
// healed closers, then EOF tokens forever. The stream is not restartable.
func (l *Lexer) Next() (token.Token, error) {
	l.cur = l.cur.Skip(cursor.Whitespace())
	pos := l.pos()

	if l.cur.Empty() || l.failed {
		if n := len(l.heal); n > 0 && !l.failed {
			entry := l.heal[n-1]
			l.heal = l.heal[:n-1]
			return token.Token{Type: entry.typ, Literal: entry.literal, Pos: pos}, nil
		}
		return token.Token{Type: token.EOF, Pos: pos}, nil
	}

	tok, err := l.scan(pos)
	if err != nil {
		l.failed = true
		return token.Token{Type: token.ILLEGAL, Pos: pos}, err
	}

	switch tok.Type {
	case token.LPAREN:
		l.heal = append(l.heal, healEntry{token.RPAREN, ")"})
	case token.LBRACE:
		l.heal = append(l.heal, healEntry{token.RBRACE, "}"})
	default:
		if n := len(l.heal); n > 0 && l.heal[n-1].typ == tok.Type {
			l.heal = l.heal[:n-1]
		}
	}

	return tok, nil
}

func (l *Lexer) scan(pos int) (token.Token, error) {
	for _, kw := range keywords {
		if lit, ok := l.cur.Take(kw.matcher); ok {
			return token.Token{Type: kw.typ, Literal: lit, Pos: pos}, nil
		}
	}

	if lit, ok := l.cur.Take(cursor.Number()); ok {
		value, err := parseNumber(lit)
		if err != nil {
			return token.Token{}, diagnostics.NewError(diagnostics.ErrL002, pos, err.Error())
		}
		return token.Token{Type: token.NUMBER, Literal: lit, Value: value, Pos: pos}, nil
	}

	for _, op := range operators {
		if lit, ok := l.cur.Take(op.matcher); ok {
			return token.Token{Type: op.typ, Literal: lit, Pos: pos}, nil
		}
	}

	if lit, ok := l.cur.Take(cursor.Alphanumeric()); ok {
		return token.Token{Type: token.IDENT, Literal: lit, Pos: pos}, nil
	}

	return token.Token{}, diagnostics.NewError(diagnostics.ErrL001, pos,
		fmt.Sprintf("could not tokenize: %s", l.cur.Rest()))
}

func (l *Lexer) pos() int {
	return len(l.source) - len(l.cur.Rest())
}

// parseNumber normalizes the U+2212 minus glyph before parsing.
func parseNumber(literal string) (float64, error) {
	normalized := strings.ReplaceAll(literal, "−", "-")
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, fmt.Errorf("could not parse %q: %v", literal, err)
	}
	return value, nil
}

// Tokenize collects the whole token stream, excluding the trailing EOF.
func Tokenize(source string) ([]token.Token, error) {
	l := New(source)
	var tokens []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if tok.Type == token.EOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}
