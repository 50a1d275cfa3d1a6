// Package emu provides functional RV32IM emulation.
package emu

// MemAccess describes one data memory access performed by an instruction.
type MemAccess struct {
	Addr    uint32
	Width   Width
	Value   uint32
	IsWrite bool
}

// LoadStoreUnit implements RV32I load and store operations.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

// EffectiveAddress returns rs1 + offset.
func (lsu *LoadStoreUnit) EffectiveAddress(rs1 uint8, offset int32) uint32 {
	return lsu.regFile.ReadReg(rs1) + uint32(offset)
}

// LB loads a byte with sign extension: rd = sext(mem8[rs1 + offset]).
func (lsu *LoadStoreUnit) LB(rd, rs1 uint8, offset int32) (MemAccess, error) {
	return lsu.load(rd, rs1, offset, WidthByte, func(v uint32) uint32 {
		return uint32(int32(int8(v)))
	})
}

// LH loads a half-word with sign extension: rd = sext(mem16[rs1 + offset]).
func (lsu *LoadStoreUnit) LH(rd, rs1 uint8, offset int32) (MemAccess, error) {
	return lsu.load(rd, rs1, offset, WidthHalf, func(v uint32) uint32 {
		return uint32(int32(int16(v)))
	})
}

// LW loads a word: rd = mem32[rs1 + offset].
func (lsu *LoadStoreUnit) LW(rd, rs1 uint8, offset int32) (MemAccess, error) {
	return lsu.load(rd, rs1, offset, WidthWord, nil)
}

// SB stores the low byte of rs2: mem8[rs1 + offset] = rs2[7:0].
func (lsu *LoadStoreUnit) SB(rs1, rs2 uint8, offset int32) (MemAccess, error) {
	return lsu.store(rs1, rs2, offset, WidthByte)
}

// SH stores the low half-word of rs2: mem16[rs1 + offset] = rs2[15:0].
func (lsu *LoadStoreUnit) SH(rs1, rs2 uint8, offset int32) (MemAccess, error) {
	return lsu.store(rs1, rs2, offset, WidthHalf)
}

// SW stores rs2: mem32[rs1 + offset] = rs2.
func (lsu *LoadStoreUnit) SW(rs1, rs2 uint8, offset int32) (MemAccess, error) {
	return lsu.store(rs1, rs2, offset, WidthWord)
}

func (lsu *LoadStoreUnit) load(
	rd, rs1 uint8,
	offset int32,
	width Width,
	extend func(uint32) uint32,
) (MemAccess, error) {
	addr := lsu.EffectiveAddress(rs1, offset)
	access := MemAccess{Addr: addr, Width: width}

	value, err := lsu.memory.Load(addr, width)
	if err != nil {
		return access, err
	}

	access.Value = value
	if extend != nil {
		value = extend(value)
	}
	lsu.regFile.WriteReg(rd, value)

	return access, nil
}

func (lsu *LoadStoreUnit) store(rs1, rs2 uint8, offset int32, width Width) (MemAccess, error) {
	addr := lsu.EffectiveAddress(rs1, offset)
	value := lsu.regFile.ReadReg(rs2)
	if width < WidthWord {
		value &= 1<<(8*width) - 1
	}

	access := MemAccess{Addr: addr, Width: width, Value: value, IsWrite: true}

	return access, lsu.memory.Store(addr, width, value)
}
