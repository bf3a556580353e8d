package lexer

import (
	"github.com/michaelblawrence/xpress-calc/internal/diagnostics"
	"github.com/michaelblawrence/xpress-calc/internal/pipeline"
)

// LexerProcessor is the tokenizing stage of the compile pipeline.
type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.Context) *pipeline.Context {
	tokens, err := Tokenize(ctx.Source)
	if err != nil {
		if diag, ok := err.(*diagnostics.Error); ok {
			ctx.Errors = append(ctx.Errors, diag)
		} else {
			ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrL001, -1, err.Error()))
		}
		return ctx
	}
	ctx.TokenStream = tokens
	return ctx
}
