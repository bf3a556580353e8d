// Package vm implements the bytecode compiler and the stack-based virtual
// machine that executes it.
package vm

// Opcode identifies a single VM instruction.
type Opcode uint8

const (
	// Stack
	OP_PUSH        Opcode = iota // Push numeric operand
	OP_PUSH_RANDOM               // Push a pseudo-random number in [0, 1)

	// Variables
	OP_LOAD_LOCAL    // Push variable value; undefined resolves to 0 with a diagnostic
	OP_ASSIGN        // Pop and bind: overwrite in any active frame, else insert innermost
	OP_SHADOW_ASSIGN // Pop and bind in the innermost frame only (parameter binding)

	// Arithmetic
	OP_ADD // +
	OP_SUB // -
	OP_MUL // *
	OP_DIV // /
	OP_MOD // %
	OP_POW // ^

	// Comparison (result is 1 or 0)
	OP_EQ // ==
	OP_NE // !=
	OP_LT // <
	OP_LE // <=
	OP_GT // >
	OP_GE // >=

	// Math builtins
	OP_SINE   // sin, degrees
	OP_COSINE // cos, degrees
	OP_LOG    // log base 10
	OP_ROUND  // round half away from zero
	OP_FLOOR  // floor

	// Routines
	OP_PUSH_ROUTINE // Push closure body (embedded instruction vector)
	OP_CALL_ROUTINE // Pop routine, run it in a fresh scope frame

	// Control flow (embedded instruction vectors)
	OP_SKIP_IF_NOT // Pop condition; run embedded body when nonzero
	OP_IF_ELSE     // Pop condition; run then-vector or else-vector

	// Scopes
	OP_ENTER // Push a scope frame
	OP_LEAVE // Pop a scope frame
)

// OpcodeNames maps opcodes to their string names (for the disassembler).
var OpcodeNames = map[Opcode]string{
	OP_PUSH:        "PUSH",
	OP_PUSH_RANDOM: "PUSH_RANDOM",

	OP_LOAD_LOCAL:    "LOAD_LOCAL",
	OP_ASSIGN:        "ASSIGN",
	OP_SHADOW_ASSIGN: "SHADOW_ASSIGN",

	OP_ADD: "ADD",
	OP_SUB: "SUB",
	OP_MUL: "MUL",
	OP_DIV: "DIV",
	OP_MOD: "MOD",
	OP_POW: "POW",

	OP_EQ: "EQ",
	OP_NE: "NE",
	OP_LT: "LT",
	OP_LE: "LE",
	OP_GT: "GT",
	OP_GE: "GE",

	OP_SINE:   "SINE",
	OP_COSINE: "COSINE",
	OP_LOG:    "LOG",
	OP_ROUND:  "ROUND",
	OP_FLOOR:  "FLOOR",

	OP_PUSH_ROUTINE: "PUSH_ROUTINE",
	OP_CALL_ROUTINE: "CALL_ROUTINE",

	OP_SKIP_IF_NOT: "SKIP_IF_NOT",
	OP_IF_ELSE:     "IF_ELSE",

	OP_ENTER: "ENTER",
	OP_LEAVE: "LEAVE",
}

// Instruction is one flat bytecode instruction. Routine carries the embedded
// instruction vector for OP_PUSH_ROUTINE, OP_SKIP_IF_NOT (the then-branch)
// and OP_IF_ELSE; Else carries the else-branch for OP_IF_ELSE only.
type Instruction struct {
	Op      Opcode
	Value   float64       // OP_PUSH operand
	Name    string        // variable name for load/assign ops
	Routine []Instruction // embedded vector, uniquely owned
	Else    []Instruction // OP_IF_ELSE else-branch, uniquely owned
}

// Program is a complete top-level instruction sequence.
type Program []Instruction
