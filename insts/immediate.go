package insts

// SignExtend treats the low width bits of field as a two's-complement value
// and extends it to 32 bits. Bits above width are ignored. A width of 32 is
// the identity.
func SignExtend(field uint32, width uint) int32 {
	if width >= 32 {
		return int32(field)
	}
	shift := 32 - width
	return int32(field<<shift) >> shift
}

// ImmediateI returns the sign-extended 12-bit I-type immediate.
func ImmediateI(w Word) int32 {
	return SignExtend(w.ImmI(), 12)
}

// ImmediateS returns the sign-extended 12-bit S-type immediate.
// Layout: imm[11:5] = word[31:25], imm[4:0] = word[11:7].
func ImmediateS(w Word) int32 {
	raw := w.ImmSHi()<<5 | w.ImmSLo()
	return SignExtend(raw, 12)
}

// ImmediateB returns the sign-extended 13-bit B-type byte offset.
// Layout: imm[12|10:5] = word[31|30:25], imm[4:1|11] = word[11:8|7].
// Bit 0 is always zero; the groups are placed at their final positions, so
// no further scaling applies.
func ImmediateB(w Word) int32 {
	raw := w.ImmB12()<<12 |
		w.ImmB11()<<11 |
		w.ImmB10to5()<<5 |
		w.ImmB4to1()<<1
	return SignExtend(raw, 13)
}

// ImmediateU returns the 20-bit U-type immediate, sign-extended and shifted
// into bits [31:12].
func ImmediateU(w Word) int32 {
	return SignExtend(w.ImmU(), 20) << 12
}

// ImmediateJ returns the sign-extended 21-bit J-type byte offset.
// Layout: imm[20|10:1|11|19:12] = word[31|30:21|20|19:12]. Bit 0 is always
// zero.
func ImmediateJ(w Word) int32 {
	raw := w.ImmJ20()<<20 |
		w.ImmJ19to12()<<12 |
		w.ImmJ11()<<11 |
		w.ImmJ10to1()<<1
	return SignExtend(raw, 21)
}

// ShiftAmount returns the shift amount of an immediate shift (low 5 bits of
// the I-type immediate).
func ShiftAmount(w Word) uint8 {
	return uint8(w.ImmI() & 0x1F)
}
