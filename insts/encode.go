package insts

// EncodeR encodes an R-type instruction.
func EncodeR(opcode, rd, funct3, rs1, rs2, funct7 uint8) uint32 {
	return uint32(funct7)<<25 | uint32(rs2&0x1F)<<20 | uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 | uint32(rd&0x1F)<<7 | uint32(opcode&0x7F)
}

// EncodeI encodes an I-type instruction. Only the low 12 bits of imm are
// used.
func EncodeI(opcode, rd, funct3, rs1 uint8, imm int32) uint32 {
	return uint32(imm&0xFFF)<<20 | uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 | uint32(rd&0x1F)<<7 | uint32(opcode&0x7F)
}

// EncodeS encodes an S-type instruction.
func EncodeS(opcode, funct3, rs1, rs2 uint8, imm int32) uint32 {
	immU := uint32(imm & 0xFFF)
	return (immU>>5)<<25 | uint32(rs2&0x1F)<<20 | uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 | (immU&0x1F)<<7 | uint32(opcode&0x7F)
}

// EncodeB encodes a B-type instruction. imm is a byte offset; bit 0 is
// dropped.
func EncodeB(opcode, funct3, rs1, rs2 uint8, imm int32) uint32 {
	immU := uint32(imm)
	return ((immU>>12)&0x1)<<31 | ((immU>>5)&0x3F)<<25 |
		uint32(rs2&0x1F)<<20 | uint32(rs1&0x1F)<<15 | uint32(funct3&0x7)<<12 |
		((immU>>1)&0xF)<<8 | ((immU>>11)&0x1)<<7 | uint32(opcode&0x7F)
}

// EncodeU encodes a U-type instruction from the 20-bit upper immediate
// field.
func EncodeU(opcode, rd uint8, imm20 uint32) uint32 {
	return (imm20&0xFFFFF)<<12 | uint32(rd&0x1F)<<7 | uint32(opcode&0x7F)
}

// EncodeJ encodes a J-type instruction. imm is a byte offset; bit 0 is
// dropped.
func EncodeJ(opcode, rd uint8, imm int32) uint32 {
	immU := uint32(imm)
	return ((immU>>20)&0x1)<<31 | ((immU>>1)&0x3FF)<<21 |
		((immU>>11)&0x1)<<20 | ((immU>>12)&0xFF)<<12 |
		uint32(rd&0x1F)<<7 | uint32(opcode&0x7F)
}
