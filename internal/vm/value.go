package vm

import (
	"fmt"
	"strconv"
)

// ValueType identifies the type of a runtime value.
type ValueType uint8

const (
	ValNumber ValueType = iota
	ValRoutine
)

// Value is the runtime tagged union: an IEEE-754 double or a routine (a
// closure represented purely as its compiled instruction vector, with no
// captured environment).
type Value struct {
	Type    ValueType
	Num     float64
	Routine []Instruction
}

func NumberVal(v float64) Value {
	return Value{Type: ValNumber, Num: v}
}

func RoutineVal(routine []Instruction) Value {
	return Value{Type: ValRoutine, Routine: routine}
}

func (v Value) IsRoutine() bool { return v.Type == ValRoutine }

// AsNumber coerces the value to a number. A routine coerces to its
// truthiness: 1 when non-empty, 0 when empty. This mirrors the language's
// historical behavior and is deliberately not extended further.
func (v Value) AsNumber() float64 {
	switch v.Type {
	case ValRoutine:
		if len(v.Routine) > 0 {
			return 1
		}
		return 0
	default:
		return v.Num
	}
}

// Inspect returns a display string for diagnostics.
func (v Value) Inspect() string {
	switch v.Type {
	case ValRoutine:
		return fmt.Sprintf("<routine:%d>", len(v.Routine))
	default:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	}
}
