// Package emu provides functional RV32IM emulation.
package emu

// BranchUnit implements RV32I control transfer operations.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// BEQ branches to PC + offset if rs1 == rs2, otherwise advances to PC + 4.
// Returns whether the branch was taken.
func (b *BranchUnit) BEQ(rs1, rs2 uint8, offset int32) bool {
	return b.branchIf(b.regFile.ReadReg(rs1) == b.regFile.ReadReg(rs2), offset)
}

// BNE branches to PC + offset if rs1 != rs2, otherwise advances to PC + 4.
// Returns whether the branch was taken.
func (b *BranchUnit) BNE(rs1, rs2 uint8, offset int32) bool {
	return b.branchIf(b.regFile.ReadReg(rs1) != b.regFile.ReadReg(rs2), offset)
}

// JAL saves the return address (PC + 4) in rd and jumps to PC + offset.
func (b *BranchUnit) JAL(rd uint8, offset int32) {
	target := b.regFile.PC + uint32(offset)
	b.regFile.WriteReg(rd, b.regFile.PC+4)
	b.regFile.PC = target
}

// JALR saves the return address (PC + 4) in rd and jumps to rs1 + offset
// with bit 0 cleared.
func (b *BranchUnit) JALR(rd, rs1 uint8, offset int32) {
	// Read the target first in case rd == rs1.
	target := (b.regFile.ReadReg(rs1) + uint32(offset)) &^ 1
	b.regFile.WriteReg(rd, b.regFile.PC+4)
	b.regFile.PC = target
}

func (b *BranchUnit) branchIf(taken bool, offset int32) bool {
	if taken {
		b.regFile.PC += uint32(offset)
	} else {
		b.regFile.PC += 4
	}
	return taken
}
