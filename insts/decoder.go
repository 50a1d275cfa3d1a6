// Package insts provides RV32IM instruction definitions and decoding.
package insts

import (
	"errors"
	"fmt"
)

// ErrInvalidInstruction is reported for any word whose (opcode, funct3,
// funct7) combination is not part of the supported instruction set.
var ErrInvalidInstruction = errors.New("invalid instruction")

// Major opcodes, bits [6:0].
const (
	OpcodeLoad   uint8 = 0b0000011
	OpcodeOpImm  uint8 = 0b0010011
	OpcodeAUIPC  uint8 = 0b0010111
	OpcodeStore  uint8 = 0b0100011
	OpcodeOp     uint8 = 0b0110011
	OpcodeLUI    uint8 = 0b0110111
	OpcodeBranch uint8 = 0b1100011
	OpcodeJALR   uint8 = 0b1100111
	OpcodeJAL    uint8 = 0b1101111
	OpcodeSystem uint8 = 0b1110011
)

// Op represents a RISC-V operation.
type Op uint16

// RV32IM operations.
const (
	OpUnknown Op = iota

	// R-type
	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND
	OpMUL
	OpMULH
	OpDIV
	OpREM

	// I-type arithmetic
	OpADDI
	OpSLLI
	OpSLTI
	OpXORI
	OpSRLI
	OpSRAI
	OpORI
	OpANDI

	// Loads and stores
	OpLB
	OpLH
	OpLW
	OpSB
	OpSH
	OpSW

	// Control flow
	OpBEQ
	OpBNE
	OpJAL
	OpJALR

	// Upper immediates
	OpLUI
	OpAUIPC

	OpECALL
)

var opNames = [...]string{
	OpUnknown: "unknown",
	OpADD:     "add",
	OpSUB:     "sub",
	OpSLL:     "sll",
	OpSLT:     "slt",
	OpXOR:     "xor",
	OpSRL:     "srl",
	OpSRA:     "sra",
	OpOR:      "or",
	OpAND:     "and",
	OpMUL:     "mul",
	OpMULH:    "mulh",
	OpDIV:     "div",
	OpREM:     "rem",
	OpADDI:    "addi",
	OpSLLI:    "slli",
	OpSLTI:    "slti",
	OpXORI:    "xori",
	OpSRLI:    "srli",
	OpSRAI:    "srai",
	OpORI:     "ori",
	OpANDI:    "andi",
	OpLB:      "lb",
	OpLH:      "lh",
	OpLW:      "lw",
	OpSB:      "sb",
	OpSH:      "sh",
	OpSW:      "sw",
	OpBEQ:     "beq",
	OpBNE:     "bne",
	OpJAL:     "jal",
	OpJALR:    "jalr",
	OpLUI:     "lui",
	OpAUIPC:   "auipc",
	OpECALL:   "ecall",
}

// String returns the assembler mnemonic of the operation.
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", uint16(op))
}

// Format represents the instruction class selected by the opcode.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatR              // Register-register arithmetic
	FormatIArith         // Register-immediate arithmetic
	FormatLoad           // Loads (I-type encoding)
	FormatStore          // Stores (S-type encoding)
	FormatBranch         // Conditional branches (B-type encoding)
	FormatAUIPC          // Add upper immediate to PC (U-type encoding)
	FormatLUI            // Load upper immediate (U-type encoding)
	FormatJALR           // Jump and link register (I-type encoding)
	FormatJAL            // Jump and link (J-type encoding)
	FormatSystem         // ECALL
)

var opcodeFormats = map[uint8]Format{
	OpcodeOp:     FormatR,
	OpcodeOpImm:  FormatIArith,
	OpcodeLoad:   FormatLoad,
	OpcodeStore:  FormatStore,
	OpcodeBranch: FormatBranch,
	OpcodeAUIPC:  FormatAUIPC,
	OpcodeLUI:    FormatLUI,
	OpcodeJALR:   FormatJALR,
	OpcodeJAL:    FormatJAL,
	OpcodeSystem: FormatSystem,
}

// opKey selects an operation. Fields that do not take part in selection for
// a format are zero.
type opKey struct {
	opcode uint8
	funct3 uint8
	funct7 uint8
}

var opTable = map[opKey]Op{
	{OpcodeOp, 0x0, 0x00}: OpADD,
	{OpcodeOp, 0x0, 0x20}: OpSUB,
	{OpcodeOp, 0x0, 0x01}: OpMUL,
	{OpcodeOp, 0x1, 0x00}: OpSLL,
	{OpcodeOp, 0x1, 0x01}: OpMULH,
	{OpcodeOp, 0x2, 0x00}: OpSLT,
	{OpcodeOp, 0x4, 0x00}: OpXOR,
	{OpcodeOp, 0x4, 0x01}: OpDIV,
	{OpcodeOp, 0x5, 0x00}: OpSRL,
	{OpcodeOp, 0x5, 0x20}: OpSRA,
	{OpcodeOp, 0x6, 0x00}: OpOR,
	{OpcodeOp, 0x6, 0x01}: OpREM,
	{OpcodeOp, 0x7, 0x00}: OpAND,

	{OpcodeOpImm, 0x0, 0}:    OpADDI,
	{OpcodeOpImm, 0x1, 0x00}: OpSLLI,
	{OpcodeOpImm, 0x2, 0}:    OpSLTI,
	{OpcodeOpImm, 0x4, 0}:    OpXORI,
	{OpcodeOpImm, 0x5, 0x00}: OpSRLI,
	{OpcodeOpImm, 0x5, 0x20}: OpSRAI,
	{OpcodeOpImm, 0x6, 0}:    OpORI,
	{OpcodeOpImm, 0x7, 0}:    OpANDI,

	{OpcodeLoad, 0x0, 0}: OpLB,
	{OpcodeLoad, 0x1, 0}: OpLH,
	{OpcodeLoad, 0x2, 0}: OpLW,

	{OpcodeStore, 0x0, 0}: OpSB,
	{OpcodeStore, 0x1, 0}: OpSH,
	{OpcodeStore, 0x2, 0}: OpSW,

	{OpcodeBranch, 0x0, 0}: OpBEQ,
	{OpcodeBranch, 0x1, 0}: OpBNE,

	{OpcodeAUIPC, 0, 0}:  OpAUIPC,
	{OpcodeLUI, 0, 0}:    OpLUI,
	{OpcodeJALR, 0x0, 0}: OpJALR,
	{OpcodeJAL, 0, 0}:    OpJAL,
	{OpcodeSystem, 0, 0}: OpECALL,
}

// Instruction represents a decoded RV32IM instruction.
type Instruction struct {
	Word   Word   // Raw instruction word
	Op     Op     // Operation
	Format Format // Instruction class

	Rd     uint8 // Destination register
	Rs1    uint8 // First source register
	Rs2    uint8 // Second source register
	Funct3 uint8
	Funct7 uint8

	// Imm is the sign-extended immediate. For immediate shifts it holds the
	// shift amount; for LUI/AUIPC it is already shifted into bits [31:12];
	// for branches and JAL it is the byte offset.
	Imm int32
}

// Err returns a wrapped ErrInvalidInstruction naming the raw word if the
// instruction could not be decoded, or nil otherwise.
func (i *Instruction) Err() error {
	if i.Op != OpUnknown {
		return nil
	}
	return fmt.Errorf("%w: 0x%08x", ErrInvalidInstruction, uint32(i.Word))
}

// Decoder decodes RISC-V machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new RV32IM instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit instruction word. Unsupported words decode to an
// instruction with Op == OpUnknown.
func (d *Decoder) Decode(word uint32) *Instruction {
	w := Word(word)
	inst := &Instruction{Word: w, Op: OpUnknown, Format: FormatUnknown}

	format, ok := opcodeFormats[w.Opcode()]
	if !ok {
		return inst
	}

	op, ok := opTable[d.selector(w, format)]
	if !ok {
		return inst
	}

	inst.Op = op
	inst.Format = format
	d.extractFields(w, inst)

	return inst
}

// selector builds the table key for a word, keeping only the fields that
// select an operation within the format.
func (d *Decoder) selector(w Word, format Format) opKey {
	key := opKey{opcode: w.Opcode()}

	switch format {
	case FormatR:
		key.funct3 = w.Funct3()
		key.funct7 = w.Funct7()
	case FormatIArith:
		key.funct3 = w.Funct3()
		// Shift immediates carry a funct7 in imm[11:5].
		if key.funct3 == 0x1 || key.funct3 == 0x5 {
			key.funct7 = w.Funct7()
		}
	case FormatLoad, FormatStore, FormatBranch, FormatJALR:
		key.funct3 = w.Funct3()
	case FormatSystem:
		// Only the all-zero ECALL encoding is supported.
		if w>>7 != 0 {
			key.funct3 = 0xFF
		}
	}

	return key
}

func (d *Decoder) extractFields(w Word, inst *Instruction) {
	switch inst.Format {
	case FormatR:
		inst.Rd = w.Rd()
		inst.Rs1 = w.Rs1()
		inst.Rs2 = w.Rs2()
		inst.Funct3 = w.Funct3()
		inst.Funct7 = w.Funct7()
	case FormatIArith:
		inst.Rd = w.Rd()
		inst.Rs1 = w.Rs1()
		inst.Funct3 = w.Funct3()
		switch inst.Op {
		case OpSLLI, OpSRLI, OpSRAI:
			inst.Funct7 = w.Funct7()
			inst.Imm = int32(ShiftAmount(w))
		default:
			inst.Imm = ImmediateI(w)
		}
	case FormatLoad, FormatJALR:
		inst.Rd = w.Rd()
		inst.Rs1 = w.Rs1()
		inst.Funct3 = w.Funct3()
		inst.Imm = ImmediateI(w)
	case FormatStore:
		inst.Rs1 = w.Rs1()
		inst.Rs2 = w.Rs2()
		inst.Funct3 = w.Funct3()
		inst.Imm = ImmediateS(w)
	case FormatBranch:
		inst.Rs1 = w.Rs1()
		inst.Rs2 = w.Rs2()
		inst.Funct3 = w.Funct3()
		inst.Imm = ImmediateB(w)
	case FormatAUIPC, FormatLUI:
		inst.Rd = w.Rd()
		inst.Imm = ImmediateU(w)
	case FormatJAL:
		inst.Rd = w.Rd()
		inst.Imm = ImmediateJ(w)
	}
}
