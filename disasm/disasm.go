// Package disasm renders RV32IM instructions as assembly text.
package disasm

import (
	"fmt"
	"io"

	"github.com/sarchlab/rv32sim/insts"
)

// Disassemble returns the assembly text of a decoded instruction. Words that
// do not decode return an error wrapping insts.ErrInvalidInstruction.
//
// Registers are printed as x<N>, operands are separated by ", " and the
// mnemonic is followed by a tab. Branch and jump targets are printed as
// signed byte offsets.
func Disassemble(inst *insts.Instruction) (string, error) {
	if err := inst.Err(); err != nil {
		return "", err
	}

	name := inst.Op.String()

	switch inst.Format {
	case insts.FormatR:
		return fmt.Sprintf("%s\tx%d, x%d, x%d", name, inst.Rd, inst.Rs1, inst.Rs2), nil
	case insts.FormatIArith:
		return fmt.Sprintf("%s\tx%d, x%d, %d", name, inst.Rd, inst.Rs1, inst.Imm), nil
	case insts.FormatLoad:
		return fmt.Sprintf("%s\tx%d, %d(x%d)", name, inst.Rd, inst.Imm, inst.Rs1), nil
	case insts.FormatStore:
		return fmt.Sprintf("%s\tx%d, %d(x%d)", name, inst.Rs2, inst.Imm, inst.Rs1), nil
	case insts.FormatBranch:
		return fmt.Sprintf("%s\tx%d, x%d, %d", name, inst.Rs1, inst.Rs2, inst.Imm), nil
	case insts.FormatAUIPC, insts.FormatLUI:
		return fmt.Sprintf("%s\tx%d, %d", name, inst.Rd, inst.Word.ImmU()), nil
	case insts.FormatJALR:
		return fmt.Sprintf("%s\tx%d, x%d, %d", name, inst.Rd, inst.Rs1, inst.Imm), nil
	case insts.FormatJAL:
		return fmt.Sprintf("%s\tx%d, %d", name, inst.Rd, inst.Imm), nil
	case insts.FormatSystem:
		return name, nil
	}

	return "", fmt.Errorf("%w: 0x%08x", insts.ErrInvalidInstruction, uint32(inst.Word))
}

// Disassembler decodes and renders raw instruction words.
type Disassembler struct {
	decoder *insts.Decoder
}

// NewDisassembler creates a new Disassembler.
func NewDisassembler() *Disassembler {
	return &Disassembler{decoder: insts.NewDecoder()}
}

// Disassemble decodes word and returns its assembly text.
func (d *Disassembler) Disassemble(word uint32) (string, error) {
	return Disassemble(d.decoder.Decode(word))
}

// WordReader is a source of little-endian instruction words.
type WordReader interface {
	Read32(addr uint32) (uint32, error)
}

// Program writes one line for each of the count words starting at start.
// Undecodable words produce the invalid-instruction diagnostic in place of
// the assembly text. It returns the number of invalid words and stops at the
// first read or write error.
func (d *Disassembler) Program(
	src WordReader,
	start uint32,
	count int,
	w io.Writer,
) (int, error) {
	invalid := 0

	for i := 0; i < count; i++ {
		addr := start + uint32(4*i)

		word, err := src.Read32(addr)
		if err != nil {
			return invalid, err
		}

		text, err := d.Disassemble(word)
		if err != nil {
			invalid++
			text = err.Error()
		}

		if _, err := fmt.Fprintln(w, text); err != nil {
			return invalid, err
		}
	}

	return invalid, nil
}
