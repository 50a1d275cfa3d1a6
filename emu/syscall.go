// Package emu provides functional RV32IM emulation.
package emu

import (
	"errors"
	"fmt"
	"io"
)

// Environment call numbers, selected by a7.
const (
	SyscallPrintInt uint32 = 1  // print a0 as a signed decimal
	SyscallExit     uint32 = 10 // terminate successfully
)

// ErrIllegalSyscall is reported for an unknown environment call number.
var ErrIllegalSyscall = errors.New("illegal ecall number")

// SyscallResult represents the result of a syscall execution.
type SyscallResult struct {
	// Exited is true if the syscall caused program termination.
	Exited bool

	// ExitCode is the exit status if Exited is true.
	ExitCode int64

	// Err is set if the syscall faulted.
	Err error
}

// SyscallHandler is the interface for handling environment calls.
type SyscallHandler interface {
	// Handle executes the environment call indicated by the register file
	// state. The call number is in a7 (x17) and the argument in a0 (x10).
	Handle() SyscallResult
}

// DefaultSyscallHandler implements the print-integer and exit calls.
type DefaultSyscallHandler struct {
	regFile *RegFile
	stdout  io.Writer
}

// NewDefaultSyscallHandler creates a default syscall handler.
func NewDefaultSyscallHandler(regFile *RegFile, stdout io.Writer) *DefaultSyscallHandler {
	return &DefaultSyscallHandler{
		regFile: regFile,
		stdout:  stdout,
	}
}

// Handle executes the environment call indicated by the register file state.
func (h *DefaultSyscallHandler) Handle() SyscallResult {
	num := h.regFile.ReadReg(RegA7)

	switch num {
	case SyscallPrintInt:
		return h.handlePrintInt()
	case SyscallExit:
		return SyscallResult{Exited: true, ExitCode: 0}
	default:
		return SyscallResult{
			Err: fmt.Errorf("%w %d", ErrIllegalSyscall, int32(num)),
		}
	}
}

// handlePrintInt writes a0 as a signed decimal with no trailing newline.
func (h *DefaultSyscallHandler) handlePrintInt() SyscallResult {
	if _, err := fmt.Fprintf(h.stdout, "%d", h.regFile.ReadSigned(RegA0)); err != nil {
		return SyscallResult{Err: fmt.Errorf("print integer: %w", err)}
	}
	return SyscallResult{}
}
