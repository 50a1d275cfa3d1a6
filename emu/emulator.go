// Package emu provides functional RV32IM emulation.
package emu

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rv32sim/insts"
)

// ExitFailure is the exit status returned by Run when execution faults.
const ExitFailure int64 = 1

// ErrMaxInstructions is returned when the instruction budget is exhausted.
var ErrMaxInstructions = errors.New("max instructions reached")

// HookPosStep marks the completion of one Step. The hook item is a
// *StepRecord.
var HookPosStep = &sim.HookPos{Name: "Step"}

// StepResult represents the result of executing a single instruction.
// A step either continues, halts (Exited), or faults (Err).
type StepResult struct {
	// Exited is true if the program terminated (via exit ecall).
	Exited bool

	// ExitCode is the exit status if Exited is true.
	ExitCode int64

	// Err is set if the instruction faulted.
	Err error
}

// StepRecord describes one executed instruction. It is passed to hooks.
type StepRecord struct {
	// PC is the address the instruction was fetched from.
	PC uint32

	// NextPC is the program counter after the step.
	NextPC uint32

	// Inst is the decoded instruction. It is nil if the fetch faulted.
	Inst *insts.Instruction

	// RegWritten is true if the instruction wrote a register other than x0.
	RegWritten bool
	Rd         uint8
	RdValue    uint32

	// Mem is set for loads and stores that reached memory.
	Mem *MemAccess

	Result StepResult
}

// Emulator executes RV32IM instructions functionally.
type Emulator struct {
	*sim.HookableBase

	regFile        *RegFile
	memory         *Memory
	decoder        *insts.Decoder
	syscallHandler SyscallHandler

	// Execution units
	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	// I/O
	stdout io.Writer

	// Execution state
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
	lastAccess       *MemAccess
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithStdout sets a custom stdout writer.
func WithStdout(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.stdout = w
	}
}

// WithMemory sets the memory the emulator runs against.
func WithMemory(m *Memory) EmulatorOption {
	return func(e *Emulator) {
		e.memory = m
	}
}

// WithSyscallHandler sets a custom syscall handler.
func WithSyscallHandler(handler SyscallHandler) EmulatorOption {
	return func(e *Emulator) {
		e.syscallHandler = handler
	}
}

// WithStackPointer sets the initial stack pointer (x2).
func WithStackPointer(sp uint32) EmulatorOption {
	return func(e *Emulator) {
		e.regFile.WriteReg(RegSP, sp)
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// NewEmulator creates a new RV32IM emulator.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		HookableBase: sim.NewHookableBase(),
		regFile:      &RegFile{},
		decoder:      insts.NewDecoder(),
		stdout:       os.Stdout,
	}

	// Apply options first (may set memory/stdout)
	for _, opt := range opts {
		opt(e)
	}

	if e.memory == nil {
		e.memory = NewMemory()
	}

	e.alu = NewALU(e.regFile)
	e.lsu = NewLoadStoreUnit(e.regFile, e.memory)
	e.branchUnit = NewBranchUnit(e.regFile)

	if e.syscallHandler == nil {
		e.syscallHandler = NewDefaultSyscallHandler(e.regFile, e.stdout)
	}

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// LoadProgram copies program into memory at entry and sets the PC to entry.
func (e *Emulator) LoadProgram(entry uint32, program []byte) error {
	if err := e.memory.WriteBytes(entry, program); err != nil {
		return fmt.Errorf("load program: %w", err)
	}
	e.regFile.PC = entry
	return nil
}

// Reset clears the register file, the instruction count and memory. The
// memory keeps its capacity and alignment mode.
func (e *Emulator) Reset() {
	*e.regFile = RegFile{}
	e.instructionCount = 0

	memory := NewMemory(
		WithCapacity(e.memory.Capacity()),
		WithAlignmentCheck(e.memory.AlignmentCheck()),
	)
	*e.memory = *memory
}

// Step fetches, decodes and executes a single instruction.
// Returns a StepResult indicating whether execution should continue.
func (e *Emulator) Step() StepResult {
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{
			Err: fmt.Errorf("%w (%d)", ErrMaxInstructions, e.maxInstructions),
		}
	}

	pc := e.regFile.PC
	record := &StepRecord{PC: pc}

	// 1. Fetch: Read 4 bytes at PC
	word, err := e.memory.Load(pc, WidthWord)
	if err != nil {
		record.Result = StepResult{Err: fmt.Errorf("fetch at PC=0x%08x: %w", pc, err)}
		return e.finishStep(record)
	}

	// 2. Decode
	inst := e.decoder.Decode(word)
	record.Inst = inst

	// 3. Execute
	e.lastAccess = nil
	record.Result = e.Execute(inst)
	record.Mem = e.lastAccess

	if writesRd(inst.Format) && inst.Rd != RegZero && record.Result.Err == nil {
		record.RegWritten = true
		record.Rd = inst.Rd
		record.RdValue = e.regFile.ReadReg(inst.Rd)
	}

	e.instructionCount++

	return e.finishStep(record)
}

func (e *Emulator) finishStep(record *StepRecord) StepResult {
	record.NextPC = e.regFile.PC

	if e.NumHooks() > 0 {
		e.InvokeHook(sim.HookCtx{
			Domain: e,
			Pos:    HookPosStep,
			Item:   record,
		})
	}

	return record.Result
}

// Run executes instructions until the program exits or faults. A fault is
// reported on stdout and yields ExitFailure.
func (e *Emulator) Run() int64 {
	for {
		result := e.Step()
		if result.Exited {
			return result.ExitCode
		}
		if result.Err != nil {
			_, _ = fmt.Fprintln(e.stdout, result.Err)
			return ExitFailure
		}
	}
}

// Execute executes a decoded instruction against the register file and
// memory, advancing the PC.
func (e *Emulator) Execute(inst *insts.Instruction) StepResult {
	if err := inst.Err(); err != nil {
		return StepResult{Err: err}
	}

	var err error

	switch inst.Format {
	case insts.FormatR:
		err = e.alu.Register(inst.Op, inst.Rd, inst.Rs1, inst.Rs2)
	case insts.FormatIArith:
		err = e.alu.Immediate(inst.Op, inst.Rd, inst.Rs1, inst.Imm)
	case insts.FormatLUI:
		e.alu.LUI(inst.Rd, inst.Imm)
	case insts.FormatAUIPC:
		e.alu.AUIPC(inst.Rd, inst.Imm)
	case insts.FormatLoad:
		err = e.executeLoad(inst)
	case insts.FormatStore:
		err = e.executeStore(inst)
	case insts.FormatBranch:
		return e.executeBranch(inst) // PC already updated
	case insts.FormatJAL:
		e.branchUnit.JAL(inst.Rd, inst.Imm)
		return StepResult{} // PC already updated
	case insts.FormatJALR:
		e.branchUnit.JALR(inst.Rd, inst.Rs1, inst.Imm)
		return StepResult{} // PC already updated
	case insts.FormatSystem:
		return e.executeECALL()
	default:
		err = invalid(inst)
	}

	if err != nil {
		return StepResult{Err: err}
	}

	// Advance PC by 4 (for non-branch instructions)
	e.regFile.PC += 4

	return StepResult{}
}

func (e *Emulator) executeLoad(inst *insts.Instruction) error {
	var (
		access MemAccess
		err    error
	)

	switch inst.Op {
	case insts.OpLB:
		access, err = e.lsu.LB(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpLH:
		access, err = e.lsu.LH(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpLW:
		access, err = e.lsu.LW(inst.Rd, inst.Rs1, inst.Imm)
	default:
		return invalid(inst)
	}

	if err == nil {
		e.lastAccess = &access
	}
	return err
}

func (e *Emulator) executeStore(inst *insts.Instruction) error {
	var (
		access MemAccess
		err    error
	)

	switch inst.Op {
	case insts.OpSB:
		access, err = e.lsu.SB(inst.Rs1, inst.Rs2, inst.Imm)
	case insts.OpSH:
		access, err = e.lsu.SH(inst.Rs1, inst.Rs2, inst.Imm)
	case insts.OpSW:
		access, err = e.lsu.SW(inst.Rs1, inst.Rs2, inst.Imm)
	default:
		return invalid(inst)
	}

	if err == nil {
		e.lastAccess = &access
	}
	return err
}

func (e *Emulator) executeBranch(inst *insts.Instruction) StepResult {
	switch inst.Op {
	case insts.OpBEQ:
		e.branchUnit.BEQ(inst.Rs1, inst.Rs2, inst.Imm)
	case insts.OpBNE:
		e.branchUnit.BNE(inst.Rs1, inst.Rs2, inst.Imm)
	default:
		return StepResult{Err: invalid(inst)}
	}
	return StepResult{}
}

// executeECALL handles the environment call. The PC advances past the
// ecall unless the call faults.
func (e *Emulator) executeECALL() StepResult {
	result := e.syscallHandler.Handle()
	if result.Err != nil {
		return StepResult{Err: result.Err}
	}

	e.regFile.PC += 4

	return StepResult{
		Exited:   result.Exited,
		ExitCode: result.ExitCode,
	}
}

func writesRd(format insts.Format) bool {
	switch format {
	case insts.FormatR, insts.FormatIArith, insts.FormatLoad,
		insts.FormatAUIPC, insts.FormatLUI, insts.FormatJALR, insts.FormatJAL:
		return true
	default:
		return false
	}
}

func invalid(inst *insts.Instruction) error {
	return fmt.Errorf("%w: 0x%08x", insts.ErrInvalidInstruction, uint32(inst.Word))
}
