// Package emu provides functional RV32IM emulation.
package emu

// ABI register numbers used by the emulator.
const (
	RegZero uint8 = 0  // Hard-wired zero
	RegRA   uint8 = 1  // Return address
	RegSP   uint8 = 2  // Stack pointer
	RegA0   uint8 = 10 // First argument / syscall argument
	RegA1   uint8 = 11
	RegA7   uint8 = 17 // Syscall number
)

// NumRegs is the number of general-purpose registers.
const NumRegs = 32

// RegFile represents the RV32 architectural state: 32 general-purpose
// registers and the program counter.
type RegFile struct {
	// X holds general-purpose registers x0-x31.
	// X[0] always reads as 0.
	X [NumRegs]uint32

	// PC is the program counter (byte address).
	PC uint32
}

// ReadReg reads a register value. Register 0 and out-of-range indices
// return 0.
func (r *RegFile) ReadReg(reg uint8) uint32 {
	if reg == RegZero || reg >= NumRegs {
		return 0
	}
	return r.X[reg]
}

// ReadSigned reads a register as a signed 32-bit value.
func (r *RegFile) ReadSigned(reg uint8) int32 {
	return int32(r.ReadReg(reg))
}

// WriteReg writes a value to a register. Writes to register 0 are
// discarded.
func (r *RegFile) WriteReg(reg uint8, value uint32) {
	if reg == RegZero || reg >= NumRegs {
		return
	}
	r.X[reg] = value
}
