// Package xpress is the high-level embedding API: compile source to
// bytecode, format source, or run an interactive-style session with
// persistent bindings.
package xpress

import (
	"github.com/michaelblawrence/xpress-calc/internal/ast"
	"github.com/michaelblawrence/xpress-calc/internal/lexer"
	"github.com/michaelblawrence/xpress-calc/internal/parser"
	"github.com/michaelblawrence/xpress-calc/internal/pipeline"
	"github.com/michaelblawrence/xpress-calc/internal/prettyprinter"
	"github.com/michaelblawrence/xpress-calc/internal/vm"
)

func compilePipeline() *pipeline.Pipeline {
	return pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&vm.CompilerProcessor{},
	)
}

// Compile runs the full pipeline on source and returns the bytecode
// program. The returned error is the first pipeline diagnostic.
func Compile(source string) (vm.Program, error) {
	ctx := pipeline.NewContext(source)
	compilePipeline().Run(ctx)
	if ctx.Failed() {
		return nil, ctx.Errors[0]
	}
	return ctx.Program.(vm.Program), nil
}

// Parse runs the front half of the pipeline and returns the expression tree.
func Parse(source string) (*ast.Program, error) {
	ctx := pipeline.NewContext(source)
	pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
	).Run(ctx)
	if ctx.Failed() {
		return nil, ctx.Errors[0]
	}
	return ctx.AstRoot.(*ast.Program), nil
}

// Format parses source and renders it back in the requested style.
func Format(source string, mode prettyprinter.Mode) (string, error) {
	program, err := Parse(source)
	if err != nil {
		return "", err
	}
	return prettyprinter.NewCodePrinter(mode).Print(program), nil
}

// Session evaluates successive sources on one VM, so bindings persist
// between Eval calls the way they do in an interactive run.
type Session struct {
	machine *vm.VM
}

func NewSession() *Session {
	return &Session{machine: vm.New()}
}

func NewSessionWithSeed(seed int64) *Session {
	return &Session{machine: vm.NewWithSeed(seed)}
}

// VM exposes the underlying machine, for callers that want to install a
// diagnostic handler or inspect the stack.
func (s *Session) VM() *vm.VM {
	return s.machine
}

// Eval compiles and runs source. The bool result is false when the program
// left no value on the stack (a bare let, for example). Compile diagnostics
// and runtime errors both come back as *diagnostics.Error.
func (s *Session) Eval(source string) (float64, bool, error) {
	program, err := Compile(source)
	if err != nil {
		return 0, false, err
	}
	if err := s.machine.Run(program); err != nil {
		return 0, false, err
	}
	result, ok := s.machine.PopResult()
	return result, ok, nil
}
