// Package code defines the bytecode instruction encoding the compiler
// emits and the VM executes: opcodes, their operand widths, and the
// big-endian codec between them.
package code

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Instructions is a flat, big-endian encoded instruction stream.
type Instructions []byte

// Opcode identifies one VM instruction. The full set is closed (spec.md
// §3); nothing here is reordered or extended at runtime.
type Opcode byte

const (
	OpConst       Opcode = iota // CONST i16: push constants[i]
	OpAdd                       // ADD: binary int add, or string concat
	OpSub                       // SUB
	OpMul                       // MUL
	OpDiv                       // DIV
	OpPop                       // POP: discard top, remembered as "last popped"
	OpTrue                      // TRUE: push singleton true
	OpFalse                     // FALSE: push singleton false
	OpNull                      // NULL: push singleton null
	OpEqual                     // EQ
	OpNotEqual                  // NEQ
	OpGreaterThan               // GT: `<` is compiled as swapped operands + GT
	OpMinus                     // MINUS: unary negate
	OpBang                      // BANG: unary logical not
	OpJumpNotTruthy             // JMPFALSE a16: pop; jump to a if falsy
	OpJump                      // JMP a16: unconditional jump
	OpSetGlobal                 // SETGLOBAL i16
	OpGetGlobal                 // GETGLOBAL i16
	OpSetLocal                  // SETLOCAL i8
	OpGetLocal                  // GETLOCAL i8
	OpGetBuiltin                // GETBUILTIN i8
	OpArray                     // ARRAY n16: pop n, build array
	OpHash                      // HASH n16: pop n (even), build hash
	OpIndex                     // INDEX: pop key, target; push element
	OpCall                      // CALL nargs8
	OpReturnValue               // RETURNVALUE: pop value, return it
	OpReturn                    // RETURN: return null
)

// Definition describes an opcode's mnemonic and the byte width of each
// of its operands, in order.
type Definition struct {
	Name          string
	OperandWidths []int
}

var definitions = map[Opcode]*Definition{
	OpConst:         {"OpConst", []int{2}},
	OpAdd:           {"OpAdd", []int{}},
	OpSub:           {"OpSub", []int{}},
	OpMul:           {"OpMul", []int{}},
	OpDiv:           {"OpDiv", []int{}},
	OpPop:           {"OpPop", []int{}},
	OpTrue:          {"OpTrue", []int{}},
	OpFalse:         {"OpFalse", []int{}},
	OpNull:          {"OpNull", []int{}},
	OpEqual:         {"OpEqual", []int{}},
	OpNotEqual:      {"OpNotEqual", []int{}},
	OpGreaterThan:   {"OpGreaterThan", []int{}},
	OpMinus:         {"OpMinus", []int{}},
	OpBang:          {"OpBang", []int{}},
	OpJumpNotTruthy: {"OpJumpNotTruthy", []int{2}},
	OpJump:          {"OpJump", []int{2}},
	OpSetGlobal:     {"OpSetGlobal", []int{2}},
	OpGetGlobal:     {"OpGetGlobal", []int{2}},
	OpSetLocal:      {"OpSetLocal", []int{1}},
	OpGetLocal:      {"OpGetLocal", []int{1}},
	OpGetBuiltin:    {"OpGetBuiltin", []int{1}},
	OpArray:         {"OpArray", []int{2}},
	OpHash:          {"OpHash", []int{2}},
	OpIndex:         {"OpIndex", []int{}},
	OpCall:          {"OpCall", []int{1}},
	OpReturnValue:   {"OpReturnValue", []int{}},
	OpReturn:        {"OpReturn", []int{}},
}

// Lookup returns the Definition for op, or an error if op is unknown.
func Lookup(op Opcode) (*Definition, error) {
	def, ok := definitions[op]
	if !ok {
		return nil, fmt.Errorf("opcode %d undefined", op)
	}
	return def, nil
}

// Make encodes op and its operands into a single instruction. Operands
// wider than their definition's width are truncated the way a simple
// big-endian codec truncates any such mismatch; compiler bugs that hit
// this are expected to surface immediately via disassembly in tests.
func Make(op Opcode, operands ...int) []byte {
	def, ok := definitions[op]
	if !ok {
		return []byte{}
	}

	instructionLen := 1
	for _, w := range def.OperandWidths {
		instructionLen += w
	}

	instruction := make([]byte, instructionLen)
	instruction[0] = byte(op)

	offset := 1
	for i, o := range operands {
		width := def.OperandWidths[i]
		switch width {
		case 2:
			binary.BigEndian.PutUint16(instruction[offset:], uint16(o))
		case 1:
			instruction[offset] = byte(o)
		}
		offset += width
	}

	return instruction
}

// ReadUint16 decodes a big-endian uint16 at the start of ins.
func ReadUint16(ins Instructions) uint16 {
	return binary.BigEndian.Uint16(ins)
}

// ReadUint8 decodes the single byte at the start of ins.
func ReadUint8(ins Instructions) uint8 {
	return uint8(ins[0])
}

// ReadOperands decodes the operands of one instruction of kind def from
// ins, returning the decoded values and how many bytes they occupied.
func ReadOperands(def *Definition, ins Instructions) ([]int, int) {
	operands := make([]int, len(def.OperandWidths))
	offset := 0

	for i, width := range def.OperandWidths {
		switch width {
		case 2:
			operands[i] = int(ReadUint16(ins[offset:]))
		case 1:
			operands[i] = int(ReadUint8(ins[offset:]))
		}
		offset += width
	}

	return operands, offset
}

// Disassemble renders ins as one line per opcode with decoded operands.
// It exists purely as a test and debugging aid (spec.md §1 excludes
// tracing/debug output as a shipped feature); String is its
// fmt.Stringer-compatible alias.
func Disassemble(ins Instructions) string {
	return ins.String()
}

// String disassembles the instruction stream, one line per opcode,
// for use in tests and debugging. It is not part of any runtime path.
func (ins Instructions) String() string {
	var out strings.Builder

	i := 0
	for i < len(ins) {
		def, err := Lookup(Opcode(ins[i]))
		if err != nil {
			fmt.Fprintf(&out, "ERROR: %s\n", err)
			i++
			continue
		}

		operands, read := ReadOperands(def, ins[i+1:])

		fmt.Fprintf(&out, "%04d %s\n", i, fmtInstruction(def, operands))

		i += 1 + read
	}

	return out.String()
}

func fmtInstruction(def *Definition, operands []int) string {
	operandCount := len(def.OperandWidths)

	if len(operands) != operandCount {
		return fmt.Sprintf("ERROR: operand len %d does not match defined %d\n", len(operands), operandCount)
	}

	switch operandCount {
	case 0:
		return def.Name
	case 1:
		return fmt.Sprintf("%s %d", def.Name, operands[0])
	}

	return fmt.Sprintf("ERROR: unhandled operandCount for %s", def.Name)
}
