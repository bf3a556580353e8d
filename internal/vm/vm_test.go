package vm

import (
	"math"
	"strings"
	"testing"

	"github.com/michaelblawrence/xpress-calc/internal/diagnostics"
)

func run(t *testing.T, input string) *VM {
	t.Helper()
	machine := NewWithSeed(1)
	if err := machine.Run(compile(t, input)); err != nil {
		t.Fatalf("runtime error: %s", err)
	}
	return machine
}

func runResult(t *testing.T, input string) float64 {
	t.Helper()
	machine := run(t, input)
	result, ok := machine.PopResult()
	if !ok {
		t.Fatalf("program %q left no result", input)
	}
	return result
}

func assertResult(t *testing.T, input string, expected float64) {
	t.Helper()
	got := runResult(t, input)
	if math.Abs(got-expected) > 1e-9 {
		t.Errorf("eval(%q) = %g, want %g", input, got, expected)
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"1 + 2", 3},
		{"10 - 4 - 3", 3},
		{"2 * 3 + 1", 7},
		{"1 + 2 * 3", 7},
		{"8 / 2", 4},
		{"10 % 3", 1},
		{"10 mod 3", 1},
		{"2 + 3 * 5", 17},
		{"2 * 3 + 5", 11},
		{"3 ^ 2", 9},
		{"2^10", 1024},
		{"2 ^ 10", 1024},
		{"2 ^ 3 ^ 2", 64}, // left-associative
		{"2 × 3", 6},
		{"9 ÷ 3", 3},
		{"(1 + 2) * 3", 9},
		{"2(3 + 5)", 16},
		{"2(20 - 10)", 20},
		{"-90 + 100", 10},
	}
	for _, tt := range tests {
		assertResult(t, tt.input, tt.expected)
	}
}

func TestComparisons(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"1 < 2", 1},
		{"2 < 1", 0},
		{"2 <= 2", 1},
		{"3 > 2", 1},
		{"2 >= 3", 0},
		{"2 == 2", 1},
		{"2 != 2", 0},
		{"1 + 2 < 2 * 2", 1},
	}
	for _, tt := range tests {
		assertResult(t, tt.input, tt.expected)
	}
}

func TestBuiltins(t *testing.T) {
	assertResult(t, "sin(90)", 1)
	assertResult(t, "cos(0)", 1)
	assertResult(t, "sin(0)", 0)
	assertResult(t, "sqrt(16)", 4)
	assertResult(t, "log(100)", 2)
	assertResult(t, "round(2.5)", 3)
	assertResult(t, "floor(2.9)", 2)
	assertResult(t, "pi * 2", 2*math.Pi)
	assertResult(t, "e", math.E)
	assertResult(t, "𝜋", math.Pi)
}

func TestVariables(t *testing.T) {
	assertResult(t, "let x = 4; 3x", 12)
	assertResult(t, "let x = 3; (x)(x) + 2x + 1", 16)
	assertResult(t, "let x = 1; let y = 2; x + y", 3)
	// Rebinding overwrites.
	assertResult(t, "let x = 1; let x = x + 1; x", 2)
}

func TestBlockAssignmentReachesOuterScope(t *testing.T) {
	// Assignment rebinds wherever the name already lives. Only parameters
	// shadow.
	assertResult(t, "let y = 1; { let x = 2; let y = x + 40 }; y", 42)
	assertResult(t, "let y = 15; let calc2 = (x) => { let y = y * x }; calc2(3); y", 45)
	// A name first bound inside a block does not leak out; reading it
	// afterwards falls back to 0.
	machine := NewWithSeed(1)
	var messages []string
	machine.SetDiagnosticHandler(func(msg string) { messages = append(messages, msg) })
	if err := machine.Run(compile(t, "{ let q = 5 }; q")); err != nil {
		t.Fatalf("runtime error: %s", err)
	}
	result, ok := machine.PopResult()
	if !ok || result != 0 {
		t.Fatalf("result = (%g, %v), want (0, true)", result, ok)
	}
	if len(messages) != 1 || !strings.Contains(messages[0], "q") {
		t.Fatalf("diagnostics = %v, want one undefined-variable message", messages)
	}
}

func TestClosures(t *testing.T) {
	assertResult(t, "let add = (a, b) => a + b; add(1, 2)", 3)
	// Parameter order: first parameter binds the first argument.
	assertResult(t, "let sub = (a, b) => a - b; sub(10, 4)", 6)
	// Parameters shadow outer bindings and unwind after the call.
	assertResult(t, "let x = 10; let f = (x) => x * 2; f(3) + x", 16)
	// Nested calls.
	assertResult(t, "let inc = (n) => n + 1; inc(inc(inc(0)))", 3)
}

func TestClosuresSeeCallerBindings(t *testing.T) {
	// Routines capture nothing; names resolve against the scopes live at
	// call time.
	assertResult(t, "let f = () => y; let y = 45; f()", 45)
}

func TestRecursion(t *testing.T) {
	assertResult(t, "let fact = (n) => if n <= 1 { 1 } else { n * fact(n - 1) }; fact(5)", 120)
	assertResult(t, "let fib = (n) => if n < 2 { n } else { fib(n - 1) + fib(n - 2) }; fib(10)", 55)
}

func TestLoopViaRecursion(t *testing.T) {
	// Recursion through closures is the only repetition construct. The
	// callback mutates the outer y on every iteration.
	assertResult(t,
		"let y = 0; "+
			"let loop = (i, n, f) => if i < n { f(); loop(i + 1, n, f) }; "+
			"loop(0, 9, () => let y = y + 1); "+
			"y",
		9)
}

func TestConditionals(t *testing.T) {
	assertResult(t, "if (1) { 5 } else { 8 }", 5)
	assertResult(t, "if (0) { 5 } else { 8 }", 8)
	assertResult(t, "if 1 < 2 { 5 }", 5)
	assertResult(t, "if 2 < 1 { 5 } else { 7 }", 7)

	// An untaken if without else leaves nothing on the stack.
	machine := run(t, "if 2 < 1 { 5 }")
	if _, ok := machine.PopResult(); ok {
		t.Error("untaken conditional should leave no result")
	}
}

func TestBareLetLeavesNoResult(t *testing.T) {
	machine := run(t, "let x = 1")
	if _, ok := machine.PopResult(); ok {
		t.Error("let should leave no result")
	}
}

func TestUndefinedVariableIsRecoverable(t *testing.T) {
	machine := NewWithSeed(1)
	var messages []string
	machine.SetDiagnosticHandler(func(msg string) { messages = append(messages, msg) })

	if err := machine.Run(compile(t, "q + 1")); err != nil {
		t.Fatalf("runtime error: %s", err)
	}
	result, ok := machine.PopResult()
	if !ok || result != 1 {
		t.Fatalf("result = (%g, %v), want (1, true)", result, ok)
	}
	if len(messages) != 1 {
		t.Fatalf("diagnostics = %v, want exactly one message", messages)
	}
}

func TestCallingNumberIsRecoverable(t *testing.T) {
	machine := NewWithSeed(1)
	var messages []string
	machine.SetDiagnosticHandler(func(msg string) { messages = append(messages, msg) })

	if err := machine.Run(compile(t, "let f = 5; f()")); err != nil {
		t.Fatalf("runtime error: %s", err)
	}
	if _, ok := machine.PopResult(); ok {
		t.Error("calling a number should produce no result")
	}
	if len(messages) != 1 {
		t.Fatalf("diagnostics = %v, want exactly one message", messages)
	}
}

func TestStackUnderflowIsAnError(t *testing.T) {
	machine := New()
	err := machine.Run(Program{{Op: OP_ADD}})
	if err == nil {
		t.Fatal("expected stack underflow error")
	}
	diag, ok := err.(*diagnostics.Error)
	if !ok {
		t.Fatalf("error is %T, want *diagnostics.Error", err)
	}
	if diag.Code != diagnostics.ErrR001 {
		t.Errorf("error code = %s, want %s", diag.Code, diagnostics.ErrR001)
	}
}

func TestScopeUnderflowIsAnError(t *testing.T) {
	machine := New()
	err := machine.Run(Program{{Op: OP_LEAVE}})
	if err == nil {
		t.Fatal("expected scope underflow error")
	}
	if diag, ok := err.(*diagnostics.Error); !ok || diag.Code != diagnostics.ErrR002 {
		t.Fatalf("error = %v, want code %s", err, diagnostics.ErrR002)
	}
}

func TestNewOwnsItsRandomSource(t *testing.T) {
	machine := New()
	if machine.rng == nil {
		t.Fatal("New should seed an owned random source at construction")
	}
	if err := machine.Run(compile(t, "rand()")); err != nil {
		t.Fatalf("runtime error: %s", err)
	}
	x, ok := machine.PopResult()
	if !ok || x < 0 || x >= 1 {
		t.Fatalf("rand() = (%g, %v), want a value in [0, 1)", x, ok)
	}
}

func TestSeededRandIsDeterministic(t *testing.T) {
	a := NewWithSeed(7)
	b := NewWithSeed(7)
	program := compile(t, "rand()")

	for i := 0; i < 5; i++ {
		if err := a.Run(program); err != nil {
			t.Fatalf("runtime error: %s", err)
		}
		if err := b.Run(program); err != nil {
			t.Fatalf("runtime error: %s", err)
		}
		x, _ := a.PopResult()
		y, _ := b.PopResult()
		if x != y {
			t.Fatalf("seeded runs diverged: %g vs %g", x, y)
		}
		if x < 0 || x >= 1 {
			t.Fatalf("rand() = %g, want [0, 1)", x)
		}
	}
}

func TestBindingsPersistAcrossRuns(t *testing.T) {
	machine := New()
	if err := machine.Run(compile(t, "let a = 5")); err != nil {
		t.Fatalf("runtime error: %s", err)
	}
	if err := machine.Run(compile(t, "a + 1")); err != nil {
		t.Fatalf("runtime error: %s", err)
	}
	result, ok := machine.PopResult()
	if !ok || result != 6 {
		t.Fatalf("result = (%g, %v), want (6, true)", result, ok)
	}
}

func TestPeekRoutine(t *testing.T) {
	machine := run(t, "(x) => x + 1")
	routine, ok := machine.PeekRoutine()
	if !ok {
		t.Fatal("closure literal should leave a routine on the stack")
	}
	if len(routine) == 0 {
		t.Fatal("routine should not be empty")
	}
	// Peek does not pop.
	if _, ok := machine.PeekRoutine(); !ok {
		t.Fatal("second peek should still see the routine")
	}
}

func TestRoutineTruthiness(t *testing.T) {
	if got := RoutineVal([]Instruction{{Op: OP_PUSH}}).AsNumber(); got != 1 {
		t.Errorf("non-empty routine coerces to %g, want 1", got)
	}
	if got := RoutineVal(nil).AsNumber(); got != 0 {
		t.Errorf("empty routine coerces to %g, want 0", got)
	}
}
