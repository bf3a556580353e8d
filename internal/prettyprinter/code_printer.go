// Package prettyprinter renders an expression tree back to canonical source
// text.
package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/michaelblawrence/xpress-calc/internal/ast"
	"github.com/michaelblawrence/xpress-calc/internal/token"
)

// Mode selects the output style.
type Mode int

const (
	// Minified drops every optional space.
	Minified Mode = iota
	// Spaced puts one space around binary operators and after commas.
	Spaced
	// Indented is Spaced plus one statement per line and indented blocks.
	Indented
)

// ParseMode maps a config/flag string onto a Mode. Unknown strings fall back
// to Spaced.
func ParseMode(name string) Mode {
	switch strings.ToLower(name) {
	case "minified", "min":
		return Minified
	case "indented", "indent":
		return Indented
	default:
		return Spaced
	}
}

// Operator precedence (higher = binds tighter)
var operatorPrecedence = map[token.TokenType]int{
	token.EQ:       1,
	token.NOT_EQ:   1,
	token.LT:       1,
	token.LTE:      1,
	token.GT:       1,
	token.GTE:      1,
	token.PLUS:     2,
	token.MINUS:    2,
	token.ASTERISK: 3,
	token.SLASH:    3,
	token.PERCENT:  4,
	token.POWER:    4,
}

func getPrecedence(op token.TokenType) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return 10
}

type CodePrinter struct {
	buf    bytes.Buffer
	mode   Mode
	indent int
}

func NewCodePrinter(mode Mode) *CodePrinter {
	return &CodePrinter{mode: mode}
}

// Print renders the whole program. Statements are separated by semicolons in
// every mode; Indented additionally puts one statement per line.
func (p *CodePrinter) Print(program *ast.Program) string {
	p.buf.Reset()
	for i, stmt := range program.Statements {
		if i > 0 {
			p.statementBreak()
		}
		p.writeIndent()
		p.printExpr(stmt, 0)
	}
	return p.buf.String()
}

func (p *CodePrinter) statementBreak() {
	switch p.mode {
	case Indented:
		p.buf.WriteString(";\n")
	case Spaced:
		p.buf.WriteString("; ")
	default:
		p.buf.WriteString(";")
	}
}

func (p *CodePrinter) writeIndent() {
	if p.mode != Indented {
		return
	}
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) space() {
	if p.mode != Minified {
		p.buf.WriteString(" ")
	}
}

// printExpr prints an expression, adding parentheses only if needed. All
// binary operators are left-associative, so a right child of equal
// precedence keeps its parentheses.
func (p *CodePrinter) printExpr(expr ast.Expression, parentPrec int) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		// Decimal notation only: the language has no exponent syntax, and
		// "e" in the output would re-lex as Euler's constant.
		p.write(strconv.FormatFloat(e.Value, 'f', -1, 64))

	case *ast.Identifier:
		p.write(e.Value)

	case *ast.InfixExpression:
		prec := getPrecedence(e.Operator)
		needParens := prec < parentPrec
		if needParens {
			p.write("(")
		}
		p.printExpr(e.Left, prec)
		// A bare '-' directly before digits would re-lex as a signed
		// literal, so the minus operator keeps its spaces in every mode.
		if e.Operator == token.MINUS {
			p.write(" - ")
		} else {
			p.space()
			p.write(string(e.Operator))
			p.space()
		}
		// Same precedence on the right means the source had explicit
		// parentheses; keep them so the meaning round-trips.
		p.printExpr(e.Right, prec+1)
		if needParens {
			p.write(")")
		}

	case *ast.LetExpression:
		p.write("let")
		p.buf.WriteString(" ")
		p.write(e.Name.Value)
		p.space()
		p.write("=")
		p.space()
		p.printExpr(e.Value, 0)

	case *ast.FunctionLiteral:
		p.write("(")
		for i, param := range e.Parameters {
			if i > 0 {
				p.write(",")
				p.space()
			}
			p.write(param.Value)
		}
		p.write(")")
		p.space()
		p.write("=>")
		p.space()
		p.printExpr(e.Body, 0)

	case *ast.CallExpression:
		p.write(e.Name.Value)
		p.write("(")
		for i, arg := range e.Arguments {
			if i > 0 {
				p.write(",")
				p.space()
			}
			p.printExpr(arg, 0)
		}
		p.write(")")

	case *ast.BuiltinCall:
		p.write(builtinName(e.Builtin))
		p.write("(")
		if e.Argument != nil {
			p.printExpr(e.Argument, 0)
		}
		p.write(")")

	case *ast.IfExpression:
		p.write("if")
		p.space()
		p.write("(")
		p.printExpr(e.Condition, 0)
		p.write(")")
		p.space()
		p.printExpr(e.Consequence, 0)
		if e.Alternative != nil {
			p.space()
			p.write("else")
			p.space()
			p.printExpr(e.Alternative, 0)
		}

	case *ast.Block:
		p.printBlock(e)

	default:
		p.write("<???>")
	}
}

func (p *CodePrinter) printBlock(block *ast.Block) {
	if len(block.Statements) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	if p.mode == Indented {
		p.indent++
		for _, stmt := range block.Statements {
			p.buf.WriteString("\n")
			p.writeIndent()
			p.printExpr(stmt, 0)
			p.buf.WriteString(";")
		}
		p.indent--
		p.buf.WriteString("\n")
		p.writeIndent()
	} else {
		p.space()
		for i, stmt := range block.Statements {
			if i > 0 {
				p.statementBreak()
			}
			p.printExpr(stmt, 0)
		}
		p.space()
	}
	p.write("}")
}

func builtinName(tt token.TokenType) string {
	switch tt {
	case token.SIN:
		return "sin"
	case token.COS:
		return "cos"
	case token.SQRT:
		return "sqrt"
	case token.LOG:
		return "log"
	case token.RAND:
		return "rand"
	case token.ROUND:
		return "round"
	case token.FLOOR:
		return "floor"
	default:
		return string(tt)
	}
}
