package vm

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/michaelblawrence/xpress-calc/internal/diagnostics"
)

// binding is one name/value pair inside a scope frame. Frames keep insertion
// order so that rebinding scans can find the most recent shadow first.
type binding struct {
	name  string
	value Value
}

type frame []binding

// VM is the stack machine. Scope frames and the global frame survive across
// Run calls, so a sequence of evaluations on one VM behaves like a REPL
// session with persistent bindings.
type VM struct {
	stack  []Value
	scopes []frame
	rng    *rand.Rand
	diag   diagnostics.Sink
}

// New returns a VM with a single (global) scope frame and an owned random
// source seeded from the clock.
func New() *VM {
	return &VM{
		scopes: []frame{{}},
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewWithSeed returns a VM whose rand builtin is deterministic. Used by
// tests and by session configs that pin a seed.
func NewWithSeed(seed int64) *VM {
	machine := New()
	machine.rng = rand.New(rand.NewSource(seed))
	return machine
}

// SetDiagnosticHandler installs a sink for recoverable runtime diagnostics
// (undefined variable reads, calls on non-routine values). A nil sink
// silences them.
func (machine *VM) SetDiagnosticHandler(sink diagnostics.Sink) {
	machine.diag = sink
}

func (machine *VM) report(format string, args ...interface{}) {
	if machine.diag != nil {
		machine.diag(fmt.Sprintf(format, args...))
	}
}

// Run executes a compiled program against the current machine state. On
// error the machine state is left as-is; callers that want isolation should
// use a fresh VM.
func (machine *VM) Run(program Program) error {
	return machine.exec(program)
}

func (machine *VM) exec(instructions []Instruction) error {
	for i := range instructions {
		inst := &instructions[i]
		switch inst.Op {
		case OP_PUSH:
			machine.push(NumberVal(inst.Value))

		case OP_PUSH_RANDOM:
			machine.push(NumberVal(machine.random()))

		case OP_LOAD_LOCAL:
			value, ok := machine.lookup(inst.Name)
			if !ok {
				machine.report("variable %q is not defined, using 0", inst.Name)
				value = NumberVal(0)
			}
			machine.push(value)

		case OP_ASSIGN:
			value, err := machine.pop(inst)
			if err != nil {
				return err
			}
			machine.assign(inst.Name, value)

		case OP_SHADOW_ASSIGN:
			value, err := machine.pop(inst)
			if err != nil {
				return err
			}
			machine.shadowAssign(inst.Name, value)

		case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_MOD, OP_POW,
			OP_EQ, OP_NE, OP_LT, OP_LE, OP_GT, OP_GE:
			if err := machine.binaryOp(inst); err != nil {
				return err
			}

		case OP_SINE, OP_COSINE, OP_LOG, OP_ROUND, OP_FLOOR:
			if err := machine.unaryOp(inst); err != nil {
				return err
			}

		case OP_PUSH_ROUTINE:
			machine.push(RoutineVal(inst.Routine))

		case OP_CALL_ROUTINE:
			if err := machine.callRoutine(inst); err != nil {
				return err
			}

		case OP_SKIP_IF_NOT:
			cond, err := machine.pop(inst)
			if err != nil {
				return err
			}
			if cond.AsNumber() != 0 {
				if err := machine.exec(inst.Routine); err != nil {
					return err
				}
			}

		case OP_IF_ELSE:
			cond, err := machine.pop(inst)
			if err != nil {
				return err
			}
			branch := inst.Else
			if cond.AsNumber() != 0 {
				branch = inst.Routine
			}
			if err := machine.exec(branch); err != nil {
				return err
			}

		case OP_ENTER:
			machine.scopes = append(machine.scopes, frame{})

		case OP_LEAVE:
			if len(machine.scopes) <= 1 {
				return diagnostics.NewError(diagnostics.ErrR002, -1,
					"scope underflow: LEAVE with no open frame")
			}
			machine.scopes = machine.scopes[:len(machine.scopes)-1]

		default:
			return diagnostics.NewError(diagnostics.ErrR002, -1,
				fmt.Sprintf("unknown opcode %d", inst.Op))
		}
	}
	return nil
}

func (machine *VM) callRoutine(inst *Instruction) error {
	callee, err := machine.pop(inst)
	if err != nil {
		return err
	}
	if !callee.IsRoutine() {
		// Calling a number is recoverable: report and carry on with the
		// stack untouched (the arguments, if any, remain for the caller).
		machine.report("cannot call non-routine value %s", callee.Inspect())
		return nil
	}

	machine.scopes = append(machine.scopes, frame{})
	defer func() {
		machine.scopes = machine.scopes[:len(machine.scopes)-1]
	}()
	return machine.exec(callee.Routine)
}

func (machine *VM) binaryOp(inst *Instruction) error {
	rhs, err := machine.pop(inst)
	if err != nil {
		return err
	}
	lhs, err := machine.pop(inst)
	if err != nil {
		return err
	}
	a, b := lhs.AsNumber(), rhs.AsNumber()

	var result float64
	switch inst.Op {
	case OP_ADD:
		result = a + b
	case OP_SUB:
		result = a - b
	case OP_MUL:
		result = a * b
	case OP_DIV:
		result = a / b
	case OP_MOD:
		result = math.Mod(a, b)
	case OP_POW:
		result = math.Pow(a, b)
	case OP_EQ:
		result = boolToNum(a == b)
	case OP_NE:
		result = boolToNum(a != b)
	case OP_LT:
		result = boolToNum(a < b)
	case OP_LE:
		result = boolToNum(a <= b)
	case OP_GT:
		result = boolToNum(a > b)
	case OP_GE:
		result = boolToNum(a >= b)
	}
	machine.push(NumberVal(result))
	return nil
}

func (machine *VM) unaryOp(inst *Instruction) error {
	operand, err := machine.pop(inst)
	if err != nil {
		return err
	}
	x := operand.AsNumber()

	var result float64
	switch inst.Op {
	case OP_SINE:
		result = math.Sin(x * math.Pi / 180)
	case OP_COSINE:
		result = math.Cos(x * math.Pi / 180)
	case OP_LOG:
		result = math.Log10(x)
	case OP_ROUND:
		result = math.Round(x)
	case OP_FLOOR:
		result = math.Floor(x)
	}
	machine.push(NumberVal(result))
	return nil
}

func boolToNum(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// PopResult pops the top of the stack as a number. The second return is
// false when the stack is empty, which is the normal outcome of running a
// program whose last statement produced no value (a bare let, an if whose
// branch did not run).
func (machine *VM) PopResult() (float64, bool) {
	if len(machine.stack) == 0 {
		return 0, false
	}
	top := machine.stack[len(machine.stack)-1]
	machine.stack = machine.stack[:len(machine.stack)-1]
	return top.AsNumber(), true
}

// PeekRoutine returns the instruction vector on top of the stack without
// popping, or false when the top is absent or not a routine.
func (machine *VM) PeekRoutine() ([]Instruction, bool) {
	if len(machine.stack) == 0 {
		return nil, false
	}
	top := machine.stack[len(machine.stack)-1]
	if !top.IsRoutine() {
		return nil, false
	}
	return top.Routine, true
}

// StackDepth reports how many values are on the operand stack.
func (machine *VM) StackDepth() int {
	return len(machine.stack)
}

func (machine *VM) push(v Value) {
	machine.stack = append(machine.stack, v)
}

func (machine *VM) pop(inst *Instruction) (Value, error) {
	if len(machine.stack) == 0 {
		return Value{}, diagnostics.NewError(diagnostics.ErrR001, -1,
			fmt.Sprintf("stack underflow executing %s", OpcodeNames[inst.Op]))
	}
	top := machine.stack[len(machine.stack)-1]
	machine.stack = machine.stack[:len(machine.stack)-1]
	return top, nil
}

// lookup resolves a name dynamically: innermost frame outward, and within a
// frame the most recent binding wins.
func (machine *VM) lookup(name string) (Value, bool) {
	for i := len(machine.scopes) - 1; i >= 0; i-- {
		scope := machine.scopes[i]
		for j := len(scope) - 1; j >= 0; j-- {
			if scope[j].name == name {
				return scope[j].value, true
			}
		}
	}
	return Value{}, false
}

// assign overwrites an existing binding in whichever frame holds it, so that
// inner code can mutate outer variables. Absent any binding it inserts into
// the innermost frame.
func (machine *VM) assign(name string, value Value) {
	for i := len(machine.scopes) - 1; i >= 0; i-- {
		scope := machine.scopes[i]
		for j := len(scope) - 1; j >= 0; j-- {
			if scope[j].name == name {
				scope[j].value = value
				return
			}
		}
	}
	machine.shadowAssign(name, value)
}

// shadowAssign always binds in the innermost frame, shadowing any outer
// binding of the same name. Parameter binding uses this.
func (machine *VM) shadowAssign(name string, value Value) {
	top := len(machine.scopes) - 1
	machine.scopes[top] = append(machine.scopes[top], binding{name: name, value: value})
}

func (machine *VM) random() float64 {
	return machine.rng.Float64()
}
