// Package emu provides functional RV32IM emulation.
package emu

import (
	"fmt"
	"math"

	"github.com/sarchlab/rv32sim/insts"
)

// ALU implements RV32IM arithmetic and logic operations.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// Register performs a register-register operation: rd = rs1 op rs2.
func (a *ALU) Register(op insts.Op, rd, rs1, rs2 uint8) error {
	x := a.regFile.ReadSigned(rs1)
	y := a.regFile.ReadSigned(rs2)
	shamt := uint32(y) & 0x1F

	var result int32
	switch op {
	case insts.OpADD:
		result = x + y
	case insts.OpSUB:
		result = x - y
	case insts.OpMUL:
		result = x * y
	case insts.OpMULH:
		result = MulHigh(x, y)
	case insts.OpSLL:
		result = int32(uint32(x) << shamt)
	case insts.OpSLT:
		result = boolToInt32(x < y)
	case insts.OpXOR:
		result = x ^ y
	case insts.OpDIV:
		result = Div(x, y)
	case insts.OpSRL:
		result = int32(uint32(x) >> shamt)
	case insts.OpSRA:
		result = x >> shamt
	case insts.OpOR:
		result = x | y
	case insts.OpREM:
		result = Rem(x, y)
	case insts.OpAND:
		result = x & y
	default:
		return fmt.Errorf("%w: %v is not a register operation",
			insts.ErrInvalidInstruction, op)
	}

	a.regFile.WriteReg(rd, uint32(result))
	return nil
}

// Immediate performs a register-immediate operation: rd = rs1 op imm.
// For shifts, only the low 5 bits of imm are used.
func (a *ALU) Immediate(op insts.Op, rd, rs1 uint8, imm int32) error {
	x := a.regFile.ReadSigned(rs1)
	shamt := uint32(imm) & 0x1F

	var result int32
	switch op {
	case insts.OpADDI:
		result = x + imm
	case insts.OpSLTI:
		result = boolToInt32(x < imm)
	case insts.OpXORI:
		result = x ^ imm
	case insts.OpORI:
		result = x | imm
	case insts.OpANDI:
		result = x & imm
	case insts.OpSLLI:
		result = int32(uint32(x) << shamt)
	case insts.OpSRLI:
		result = int32(uint32(x) >> shamt)
	case insts.OpSRAI:
		result = x >> shamt
	default:
		return fmt.Errorf("%w: %v is not an immediate operation",
			insts.ErrInvalidInstruction, op)
	}

	a.regFile.WriteReg(rd, uint32(result))
	return nil
}

// LUI loads an upper immediate: rd = imm. imm is already shifted into bits
// [31:12].
func (a *ALU) LUI(rd uint8, imm int32) {
	a.regFile.WriteReg(rd, uint32(imm))
}

// AUIPC adds an upper immediate to the PC: rd = PC + imm.
func (a *ALU) AUIPC(rd uint8, imm int32) {
	a.regFile.WriteReg(rd, a.regFile.PC+uint32(imm))
}

// MulHigh returns the high 32 bits of the signed 64-bit product x * y.
func MulHigh(x, y int32) int32 {
	return int32((int64(x) * int64(y)) >> 32)
}

// Div performs signed division truncating toward zero. Division by zero
// yields -1 and the overflow case MinInt32 / -1 yields the dividend.
func Div(x, y int32) int32 {
	switch {
	case y == 0:
		return -1
	case x == math.MinInt32 && y == -1:
		return x
	default:
		return x / y
	}
}

// Rem returns the signed remainder with the sign of the dividend. A zero
// divisor yields the dividend and the overflow case MinInt32 % -1 yields 0.
func Rem(x, y int32) int32 {
	switch {
	case y == 0:
		return x
	case x == math.MinInt32 && y == -1:
		return 0
	default:
		return x % y
	}
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
