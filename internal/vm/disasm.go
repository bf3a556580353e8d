package vm

import (
	"fmt"
	"strconv"
	"strings"
)

// Disassemble renders a program as one instruction per line, with embedded
// routine and branch vectors indented under their owner.
func Disassemble(program Program) string {
	var sb strings.Builder
	writeInstructions(&sb, program, 0)
	return sb.String()
}

func writeInstructions(sb *strings.Builder, instructions []Instruction, depth int) {
	indent := strings.Repeat("  ", depth)
	for i := range instructions {
		inst := &instructions[i]
		sb.WriteString(indent)
		sb.WriteString(OpcodeNames[inst.Op])

		switch inst.Op {
		case OP_PUSH:
			sb.WriteString(" ")
			sb.WriteString(strconv.FormatFloat(inst.Value, 'g', -1, 64))
		case OP_LOAD_LOCAL, OP_ASSIGN, OP_SHADOW_ASSIGN:
			fmt.Fprintf(sb, " %s", inst.Name)
		}
		sb.WriteString("\n")

		if len(inst.Routine) > 0 {
			writeInstructions(sb, inst.Routine, depth+1)
		}
		if inst.Op == OP_IF_ELSE {
			sb.WriteString(indent)
			sb.WriteString("ELSE\n")
			writeInstructions(sb, inst.Else, depth+1)
		}
	}
}
