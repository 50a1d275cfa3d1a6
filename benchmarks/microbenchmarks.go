package benchmarks

import (
	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/insts"
)

// Registers used by the benchmark programs.
const (
	a0 = emu.RegA0
	a7 = emu.RegA7
	ra = emu.RegRA
)

// matrixBase is where matrixMultiply2x2 keeps its operands and result.
const matrixBase uint32 = 0x8000

// GetMicrobenchmarks returns the standard set of microbenchmarks. Each
// program prints a single integer through ecall 1 and exits through ecall 10.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticSequential(),
		dependencyChain(),
		memorySequential(),
		functionCalls(),
		branchTaken(),
		mixedOperations(),
		matrixMultiply2x2(),
		loopSimulation(),
	}
}

// GetCoreBenchmarks returns a minimal set of 3 core benchmarks for quick
// validation: a loop, a matrix multiply and branch-heavy code.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		loopSimulation(),
		matrixMultiply2x2(),
		branchTaken(),
	}
}

// 1. Arithmetic Sequential - independent ALU operations
func arithmeticSequential() Benchmark {
	instrs := make([]uint32, 0, 25)
	for i := 0; i < 4; i++ {
		for rd := uint8(5); rd <= 9; rd++ {
			instrs = append(instrs, addi(rd, rd, 1))
		}
	}
	instrs = append(instrs, addi(a0, 9, 0))

	return Benchmark{
		Name:           "arithmetic_sequential",
		Description:    "20 independent ADDI operations over 5 registers",
		Program:        BuildProgram(append(instrs, printAndExit()...)...),
		ExpectedOutput: "4",
	}
}

// 2. Dependency Chain - every instruction consumes the previous result
func dependencyChain() Benchmark {
	instrs := make([]uint32, 0, 24)
	for i := 0; i < 20; i++ {
		instrs = append(instrs, addi(a0, a0, 1))
	}

	return Benchmark{
		Name:        "dependency_chain",
		Description: "20 dependent ADDIs (a0 = a0 + 1)",
		Setup: func(regFile *emu.RegFile, memory *emu.Memory) {
			regFile.WriteReg(a0, 0)
		},
		Program:        BuildProgram(append(instrs, printAndExit()...)...),
		ExpectedOutput: "20",
	}
}

// 3. Memory Sequential - store/load pairs to sequential addresses
func memorySequential() Benchmark {
	instrs := []uint32{
		lui(5, 0x8), // x5 = 0x8000
		addi(a0, 0, 42),
	}
	for i := int32(0); i < 10; i++ {
		instrs = append(instrs, sw(5, a0, 4*i), lw(a0, 5, 4*i))
	}

	return Benchmark{
		Name:           "memory_sequential",
		Description:    "10 SW/LW pairs to sequential words",
		Program:        BuildProgram(append(instrs, printAndExit()...)...),
		ExpectedOutput: "42",
	}
}

// 4. Function Calls - JAL/JALR call and return
func functionCalls() Benchmark {
	const calls = 5

	instrs := []uint32{addi(a0, 0, 0)}
	// The callee follows the print-and-exit tail.
	calleeIndex := 1 + calls + len(printAndExit())
	for i := 0; i < calls; i++ {
		offset := int32(4 * (calleeIndex - len(instrs)))
		instrs = append(instrs, jal(ra, offset))
	}
	instrs = append(instrs, printAndExit()...)
	instrs = append(instrs,
		addi(a0, a0, 1),
		jalr(0, ra, 0),
	)

	return Benchmark{
		Name:           "function_calls",
		Description:    "5 calls to a function that increments a0",
		Program:        BuildProgram(instrs...),
		ExpectedOutput: "5",
	}
}

// 5. Branch Taken - a counted loop closed by a taken BNE
func branchTaken() Benchmark {
	instrs := []uint32{
		addi(a0, 0, 0),
		addi(5, 0, 10),
		addi(a0, a0, 3), // loop:
		addi(5, 5, -1),
		bne(5, 0, -8),
	}

	return Benchmark{
		Name:           "branch_taken",
		Description:    "10-iteration loop, branch taken 9 times",
		Program:        BuildProgram(append(instrs, printAndExit()...)...),
		ExpectedOutput: "30",
	}
}

// 6. Mixed Operations - multiply, divide, shifts and logic
func mixedOperations() Benchmark {
	instrs := []uint32{
		addi(5, 0, 7),
		addi(6, 0, 6),
		addi(11, 0, 5),
		op(0x0, 0x01, a0, 5, 6),   // mul a0 = 42
		op(0x4, 0x01, 12, a0, 11), // div x12 = 8
		op(0x6, 0x01, 13, a0, 11), // rem x13 = 2
		op(0x1, 0x01, 14, a0, a0), // mulh x14 = 0
		op(0x1, 0x00, 15, 12, 13), // sll x15 = 32
		op(0x0, 0x20, a0, 15, 12), // sub a0 = 24
		op(0x4, 0x00, a0, a0, 13), // xor a0 = 26
		op(0x6, 0x00, a0, a0, 14), // or a0 = 26
	}

	return Benchmark{
		Name:           "mixed_operations",
		Description:    "MUL, DIV, REM, MULH, shifts and logic",
		Program:        BuildProgram(append(instrs, printAndExit()...)...),
		ExpectedOutput: "26",
	}
}

// 7. Matrix Multiply 2x2 - loads, multiplies, accumulates and stores
func matrixMultiply2x2() Benchmark {
	instrs := []uint32{lui(1, matrixBase>>12)}

	// A in x5..x8, B in x18..x21
	for i := uint8(0); i < 4; i++ {
		instrs = append(instrs, lw(5+i, 1, int32(4*i)))
	}
	for i := uint8(0); i < 4; i++ {
		instrs = append(instrs, lw(18+i, 1, int32(16+4*i)))
	}

	// C[r][c] = A[r][0]*B[0][c] + A[r][1]*B[1][c], kept in x22..x25
	for r := uint8(0); r < 2; r++ {
		for c := uint8(0); c < 2; c++ {
			rd := 22 + 2*r + c
			instrs = append(instrs,
				mul(rd, 5+2*r, 18+c),
				mul(26, 6+2*r, 20+c),
				add(rd, rd, 26),
				sw(1, rd, int32(32+4*(2*r+c))),
			)
		}
	}

	instrs = append(instrs,
		add(a0, 22, 23),
		add(a0, a0, 24),
		add(a0, a0, 25),
	)

	return Benchmark{
		Name:        "matrix_multiply_2x2",
		Description: "2x2 integer matrix multiply, prints the sum of C",
		Setup: func(regFile *emu.RegFile, memory *emu.Memory) {
			for i, v := range []uint32{1, 2, 3, 4, 5, 6, 7, 8} {
				_ = memory.Write32(matrixBase+uint32(4*i), v)
			}
		},
		Program:        BuildProgram(append(instrs, printAndExit()...)...),
		ExpectedOutput: "134",
	}
}

// 8. Loop Simulation - sum of 1..100
func loopSimulation() Benchmark {
	instrs := []uint32{
		addi(a0, 0, 0),
		addi(5, 0, 100),
		add(a0, a0, 5), // loop:
		addi(5, 5, -1),
		bne(5, 0, -8),
	}

	return Benchmark{
		Name:           "loop_simulation",
		Description:    "Sum of 1..100 in a counted loop",
		Program:        BuildProgram(append(instrs, printAndExit()...)...),
		ExpectedOutput: "5050",
	}
}

// printAndExit prints a0 and exits with status 0.
func printAndExit() []uint32 {
	return []uint32{
		addi(a7, 0, int32(emu.SyscallPrintInt)),
		ecall(),
		addi(a7, 0, int32(emu.SyscallExit)),
		ecall(),
	}
}

func addi(rd, rs1 uint8, imm int32) uint32 {
	return insts.EncodeI(insts.OpcodeOpImm, rd, 0x0, rs1, imm)
}

func op(funct3, funct7, rd, rs1, rs2 uint8) uint32 {
	return insts.EncodeR(insts.OpcodeOp, rd, funct3, rs1, rs2, funct7)
}

func add(rd, rs1, rs2 uint8) uint32 {
	return op(0x0, 0x00, rd, rs1, rs2)
}

func mul(rd, rs1, rs2 uint8) uint32 {
	return op(0x0, 0x01, rd, rs1, rs2)
}

func lui(rd uint8, imm20 uint32) uint32 {
	return insts.EncodeU(insts.OpcodeLUI, rd, imm20)
}

func lw(rd, rs1 uint8, imm int32) uint32 {
	return insts.EncodeI(insts.OpcodeLoad, rd, 0x2, rs1, imm)
}

func sw(rs1, rs2 uint8, imm int32) uint32 {
	return insts.EncodeS(insts.OpcodeStore, 0x2, rs1, rs2, imm)
}

func bne(rs1, rs2 uint8, offset int32) uint32 {
	return insts.EncodeB(insts.OpcodeBranch, 0x1, rs1, rs2, offset)
}

func jal(rd uint8, offset int32) uint32 {
	return insts.EncodeJ(insts.OpcodeJAL, rd, offset)
}

func jalr(rd, rs1 uint8, offset int32) uint32 {
	return insts.EncodeI(insts.OpcodeJALR, rd, 0x0, rs1, offset)
}

func ecall() uint32 {
	return insts.EncodeI(insts.OpcodeSystem, 0, 0x0, 0, 0)
}
