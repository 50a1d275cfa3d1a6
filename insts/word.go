package insts

// Word is a raw 32-bit RISC-V instruction word. All accessors are pure bit
// extractions; the word itself is never modified.
type Word uint32

// Opcode returns bits [6:0].
func (w Word) Opcode() uint8 { return uint8(w & 0x7F) }

// Rd returns bits [11:7].
func (w Word) Rd() uint8 { return uint8((w >> 7) & 0x1F) }

// Funct3 returns bits [14:12].
func (w Word) Funct3() uint8 { return uint8((w >> 12) & 0x7) }

// Rs1 returns bits [19:15].
func (w Word) Rs1() uint8 { return uint8((w >> 15) & 0x1F) }

// Rs2 returns bits [24:20].
func (w Word) Rs2() uint8 { return uint8((w >> 20) & 0x1F) }

// Funct7 returns bits [31:25].
func (w Word) Funct7() uint8 { return uint8((w >> 25) & 0x7F) }

// ImmI returns the raw 12-bit I-type immediate, bits [31:20].
func (w Word) ImmI() uint32 { return uint32(w>>20) & 0xFFF }

// ImmSHi returns the high 7 bits of the S-type immediate, bits [31:25].
func (w Word) ImmSHi() uint32 { return uint32(w>>25) & 0x7F }

// ImmSLo returns the low 5 bits of the S-type immediate, bits [11:7].
func (w Word) ImmSLo() uint32 { return uint32(w>>7) & 0x1F }

// ImmB12 returns B-type immediate bit 12, held in bit [31].
func (w Word) ImmB12() uint32 { return uint32(w>>31) & 0x1 }

// ImmB11 returns B-type immediate bit 11, held in bit [7].
func (w Word) ImmB11() uint32 { return uint32(w>>7) & 0x1 }

// ImmB10to5 returns B-type immediate bits 10:5, held in bits [30:25].
func (w Word) ImmB10to5() uint32 { return uint32(w>>25) & 0x3F }

// ImmB4to1 returns B-type immediate bits 4:1, held in bits [11:8].
func (w Word) ImmB4to1() uint32 { return uint32(w>>8) & 0xF }

// ImmU returns the raw 20-bit U-type immediate, bits [31:12].
func (w Word) ImmU() uint32 { return uint32(w>>12) & 0xFFFFF }

// ImmJ20 returns J-type immediate bit 20, held in bit [31].
func (w Word) ImmJ20() uint32 { return uint32(w>>31) & 0x1 }

// ImmJ19to12 returns J-type immediate bits 19:12, held in bits [19:12].
func (w Word) ImmJ19to12() uint32 { return uint32(w>>12) & 0xFF }

// ImmJ11 returns J-type immediate bit 11, held in bit [20].
func (w Word) ImmJ11() uint32 { return uint32(w>>20) & 0x1 }

// ImmJ10to1 returns J-type immediate bits 10:1, held in bits [30:21].
func (w Word) ImmJ10to1() uint32 { return uint32(w>>21) & 0x3FF }

// RType is the R-type view of a word.
type RType struct {
	Opcode, Rd, Funct3, Rs1, Rs2, Funct7 uint8
}

// IType is the I-type view of a word. Imm is the raw 12-bit field.
type IType struct {
	Opcode, Rd, Funct3, Rs1 uint8
	Imm                     uint32
}

// SType is the S-type view of a word.
type SType struct {
	Opcode, Funct3, Rs1, Rs2 uint8
	ImmHi, ImmLo             uint32
}

// BType is the B-type view of a word, with its four immediate groups.
type BType struct {
	Opcode, Funct3, Rs1, Rs2        uint8
	Imm12, Imm11, Imm10to5, Imm4to1 uint32
}

// UType is the U-type view of a word. Imm is the raw 20-bit field.
type UType struct {
	Opcode, Rd uint8
	Imm        uint32
}

// JType is the J-type view of a word, with its four immediate groups.
type JType struct {
	Opcode, Rd                        uint8
	Imm20, Imm19to12, Imm11, Imm10to1 uint32
}

// R interprets the word as an R-type instruction.
func (w Word) R() RType {
	return RType{
		Opcode: w.Opcode(),
		Rd:     w.Rd(),
		Funct3: w.Funct3(),
		Rs1:    w.Rs1(),
		Rs2:    w.Rs2(),
		Funct7: w.Funct7(),
	}
}

// I interprets the word as an I-type instruction.
func (w Word) I() IType {
	return IType{
		Opcode: w.Opcode(),
		Rd:     w.Rd(),
		Funct3: w.Funct3(),
		Rs1:    w.Rs1(),
		Imm:    w.ImmI(),
	}
}

// S interprets the word as an S-type instruction.
func (w Word) S() SType {
	return SType{
		Opcode: w.Opcode(),
		Funct3: w.Funct3(),
		Rs1:    w.Rs1(),
		Rs2:    w.Rs2(),
		ImmHi:  w.ImmSHi(),
		ImmLo:  w.ImmSLo(),
	}
}

// B interprets the word as a B-type instruction.
func (w Word) B() BType {
	return BType{
		Opcode:   w.Opcode(),
		Funct3:   w.Funct3(),
		Rs1:      w.Rs1(),
		Rs2:      w.Rs2(),
		Imm12:    w.ImmB12(),
		Imm11:    w.ImmB11(),
		Imm10to5: w.ImmB10to5(),
		Imm4to1:  w.ImmB4to1(),
	}
}

// U interprets the word as a U-type instruction.
func (w Word) U() UType {
	return UType{
		Opcode: w.Opcode(),
		Rd:     w.Rd(),
		Imm:    w.ImmU(),
	}
}

// J interprets the word as a J-type instruction.
func (w Word) J() JType {
	return JType{
		Opcode:    w.Opcode(),
		Rd:        w.Rd(),
		Imm20:     w.ImmJ20(),
		Imm19to12: w.ImmJ19to12(),
		Imm11:     w.ImmJ11(),
		Imm10to1:  w.ImmJ10to1(),
	}
}
