package parser

import (
	"github.com/michaelblawrence/xpress-calc/internal/diagnostics"
	"github.com/michaelblawrence/xpress-calc/internal/pipeline"
)

// ParserProcessor is the tree-building stage of the compile pipeline.
type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.Failed() {
		return ctx
	}

	program, err := New(ctx.TokenStream).ParseProgram()
	if err != nil {
		if diag, ok := err.(*diagnostics.Error); ok {
			ctx.Errors = append(ctx.Errors, diag)
		} else {
			ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrP001, -1, err.Error()))
		}
		return ctx
	}
	ctx.AstRoot = program
	return ctx
}
