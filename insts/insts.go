// Package insts provides RV32IM instruction definitions and decoding.
//
// This package implements decoding of RISC-V machine code into structured
// instruction representations. It supports:
//   - R-type: ADD, SUB, SLL, SLT, XOR, SRL, SRA, OR, AND, MUL, MULH, DIV, REM
//   - I-type arithmetic: ADDI, SLLI, SLTI, XORI, SRLI, SRAI, ORI, ANDI
//   - Loads and stores: LB, LH, LW, SB, SH, SW
//   - Control flow: BEQ, BNE, JAL, JALR
//   - Upper immediates: LUI, AUIPC
//   - System: ECALL
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0xFFF30293) // ADDI x5, x6, -1
//	fmt.Printf("Op: %v, Rd: %d, Rs1: %d, Imm: %d\n", inst.Op, inst.Rd, inst.Rs1, inst.Imm)
package insts
