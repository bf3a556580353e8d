// Package pipeline wires the compilation stages together.
//
// Each stage is a Processor that reads and extends a shared Context. Stages
// that produce richer types (AST, bytecode) store them as interface{} so the
// pipeline package stays at the bottom of the import graph.
package pipeline

import (
	"github.com/michaelblawrence/xpress-calc/internal/diagnostics"
	"github.com/michaelblawrence/xpress-calc/internal/token"
)

// Context carries the intermediate artifacts of one compilation.
type Context struct {
	Source      string
	TokenStream []token.Token
	AstRoot     interface{} // *ast.Program
	Program     interface{} // vm.Program
	Errors      []*diagnostics.Error
}

func NewContext(source string) *Context {
	return &Context{Source: source}
}

// Failed reports whether any stage recorded an error.
func (ctx *Context) Failed() bool {
	return len(ctx.Errors) > 0
}

// Processor is a single pipeline stage.
type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the stages in order. A stage that sees errors from an earlier
// stage passes the context through untouched.
func (p *Pipeline) Run(initialCtx *Context) *Context {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
