package vm

import (
	"github.com/michaelblawrence/xpress-calc/internal/ast"
	"github.com/michaelblawrence/xpress-calc/internal/diagnostics"
	"github.com/michaelblawrence/xpress-calc/internal/pipeline"
)

// CompilerProcessor is the lowering stage of the compile pipeline.
type CompilerProcessor struct{}

func (cp *CompilerProcessor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.Failed() || ctx.AstRoot == nil {
		return ctx
	}

	program, ok := ctx.AstRoot.(*ast.Program)
	if !ok {
		ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrC001, -1,
			"compiler: AST root is not a program"))
		return ctx
	}

	compiled, err := NewCompiler().Compile(program)
	if err != nil {
		if diag, ok := err.(*diagnostics.Error); ok {
			ctx.Errors = append(ctx.Errors, diag)
		} else {
			ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrC001, -1, err.Error()))
		}
		return ctx
	}
	ctx.Program = compiled
	return ctx
}
