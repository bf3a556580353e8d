package vm

import (
	"fmt"

	"github.com/michaelblawrence/xpress-calc/internal/ast"
	"github.com/michaelblawrence/xpress-calc/internal/diagnostics"
	"github.com/michaelblawrence/xpress-calc/internal/token"
)

// Compiler lowers a validated expression tree to a flat instruction
// sequence. Lowering is pure structural recursion; the only error path is a
// node kind the compiler does not know, which indicates a parser/compiler
// version mismatch.
type Compiler struct{}

func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile lowers the program. Top-level statements run in the global scope,
// so no frame is pushed around them; `let` at the top level persists across
// runs of the same VM.
func (c *Compiler) Compile(program *ast.Program) (Program, error) {
	var stream []Instruction
	for _, stmt := range program.Statements {
		if err := c.lower(stmt, &stream); err != nil {
			return nil, err
		}
	}
	return stream, nil
}

var infixOpcodes = map[token.TokenType]Opcode{
	token.PLUS:     OP_ADD,
	token.MINUS:    OP_SUB,
	token.ASTERISK: OP_MUL,
	token.SLASH:    OP_DIV,
	token.PERCENT:  OP_MOD,
	token.POWER:    OP_POW,
	token.EQ:       OP_EQ,
	token.NOT_EQ:   OP_NE,
	token.LT:       OP_LT,
	token.LTE:      OP_LE,
	token.GT:       OP_GT,
	token.GTE:      OP_GE,
}

func (c *Compiler) lower(node ast.Expression, stream *[]Instruction) error {
	switch node := node.(type) {
	case *ast.Block:
		*stream = append(*stream, Instruction{Op: OP_ENTER})
		for _, stmt := range node.Statements {
			if err := c.lower(stmt, stream); err != nil {
				return err
			}
		}
		*stream = append(*stream, Instruction{Op: OP_LEAVE})

	case *ast.NumberLiteral:
		*stream = append(*stream, Instruction{Op: OP_PUSH, Value: node.Value})

	case *ast.Identifier:
		*stream = append(*stream, Instruction{Op: OP_LOAD_LOCAL, Name: node.Value})

	case *ast.LetExpression:
		if err := c.lower(node.Value, stream); err != nil {
			return err
		}
		*stream = append(*stream, Instruction{Op: OP_ASSIGN, Name: node.Name.Value})

	case *ast.InfixExpression:
		if err := c.lower(node.Left, stream); err != nil {
			return err
		}
		if err := c.lower(node.Right, stream); err != nil {
			return err
		}
		op, ok := infixOpcodes[node.Operator]
		if !ok {
			return diagnostics.NewError(diagnostics.ErrC001, node.Token.Pos,
				fmt.Sprintf("unknown operator %q", string(node.Operator)))
		}
		*stream = append(*stream, Instruction{Op: op})

	case *ast.FunctionLiteral:
		// Parameters are shadow-assigned in declaration order. Arguments
		// arrive pushed in reverse order, so each pop binds the right one.
		var routine []Instruction
		for _, param := range node.Parameters {
			routine = append(routine, Instruction{Op: OP_SHADOW_ASSIGN, Name: param.Value})
		}
		if err := c.lower(node.Body, &routine); err != nil {
			return err
		}
		*stream = append(*stream, Instruction{Op: OP_PUSH_ROUTINE, Routine: routine})

	case *ast.IfExpression:
		if err := c.lower(node.Condition, stream); err != nil {
			return err
		}
		var consequence []Instruction
		if err := c.lower(node.Consequence, &consequence); err != nil {
			return err
		}
		if node.Alternative == nil {
			*stream = append(*stream, Instruction{Op: OP_SKIP_IF_NOT, Routine: consequence})
			return nil
		}
		var alternative []Instruction
		if err := c.lower(node.Alternative, &alternative); err != nil {
			return err
		}
		*stream = append(*stream, Instruction{Op: OP_IF_ELSE, Routine: consequence, Else: alternative})

	case *ast.BuiltinCall:
		return c.lowerBuiltin(node, stream)

	case *ast.CallExpression:
		// Arguments lower in reverse declaration order (stack-argument
		// convention), then the callee is loaded and invoked.
		for i := len(node.Arguments) - 1; i >= 0; i-- {
			if err := c.lower(node.Arguments[i], stream); err != nil {
				return err
			}
		}
		*stream = append(*stream,
			Instruction{Op: OP_LOAD_LOCAL, Name: node.Name.Value},
			Instruction{Op: OP_CALL_ROUTINE},
		)

	default:
		return diagnostics.NewError(diagnostics.ErrC001, -1,
			fmt.Sprintf("unknown expression node %T", node))
	}
	return nil
}

func (c *Compiler) lowerBuiltin(node *ast.BuiltinCall, stream *[]Instruction) error {
	if node.Argument != nil {
		if err := c.lower(node.Argument, stream); err != nil {
			return err
		}
	}

	switch node.Builtin {
	case token.RAND:
		*stream = append(*stream, Instruction{Op: OP_PUSH_RANDOM})
	case token.SIN:
		*stream = append(*stream, Instruction{Op: OP_SINE})
	case token.COS:
		*stream = append(*stream, Instruction{Op: OP_COSINE})
	case token.LOG:
		*stream = append(*stream, Instruction{Op: OP_LOG})
	case token.ROUND:
		*stream = append(*stream, Instruction{Op: OP_ROUND})
	case token.FLOOR:
		*stream = append(*stream, Instruction{Op: OP_FLOOR})
	case token.SQRT:
		// sqrt(x) lowers to x^0.5.
		*stream = append(*stream,
			Instruction{Op: OP_PUSH, Value: 0.5},
			Instruction{Op: OP_POW},
		)
	default:
		return diagnostics.NewError(diagnostics.ErrC001, node.Token.Pos,
			fmt.Sprintf("unknown builtin %q", string(node.Builtin)))
	}
	return nil
}
