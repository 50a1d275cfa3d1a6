package disasm_test

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/disasm"
	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/insts"
)

var _ = Describe("Disassembler", func() {
	var d *disasm.Disassembler

	BeforeEach(func() {
		d = disasm.NewDisassembler()
	})

	DescribeTable("instruction text",
		func(word uint32, expected string) {
			text, err := d.Disassemble(word)

			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal(expected))
		},
		Entry("add", uint32(0x003100B3), "add\tx1, x2, x3"),
		Entry("sub", insts.EncodeR(insts.OpcodeOp, 4, 0x0, 5, 6, 0x20), "sub\tx4, x5, x6"),
		Entry("mulh", insts.EncodeR(insts.OpcodeOp, 4, 0x1, 5, 6, 0x01), "mulh\tx4, x5, x6"),
		Entry("rem", insts.EncodeR(insts.OpcodeOp, 4, 0x6, 5, 6, 0x01), "rem\tx4, x5, x6"),
		Entry("addi negative", uint32(0xFFF30293), "addi\tx5, x6, -1"),
		Entry("andi", insts.EncodeI(insts.OpcodeOpImm, 7, 0x7, 8, 255), "andi\tx7, x8, 255"),
		Entry("srai", insts.EncodeI(insts.OpcodeOpImm, 1, 0x5, 2, 0x403), "srai\tx1, x2, 3"),
		Entry("slli", insts.EncodeI(insts.OpcodeOpImm, 1, 0x1, 2, 31), "slli\tx1, x2, 31"),
		Entry("lw", insts.EncodeI(insts.OpcodeLoad, 1, 0x2, 2, 8), "lw\tx1, 8(x2)"),
		Entry("lb negative", insts.EncodeI(insts.OpcodeLoad, 1, 0x0, 2, -1), "lb\tx1, -1(x2)"),
		Entry("sw", uint32(0xFE312E23), "sw\tx3, -4(x2)"),
		Entry("sh", insts.EncodeS(insts.OpcodeStore, 0x1, 10, 11, 2047), "sh\tx11, 2047(x10)"),
		Entry("beq", uint32(0x00208463), "beq\tx1, x2, 8"),
		Entry("bne backwards", insts.EncodeB(insts.OpcodeBranch, 0x1, 5, 0, -8), "bne\tx5, x0, -8"),
		Entry("lui", uint32(0x123452B7), "lui\tx5, 74565"),
		Entry("auipc full field", insts.EncodeU(insts.OpcodeAUIPC, 1, 0xFFFFF), "auipc\tx1, 1048575"),
		Entry("jalr", insts.EncodeI(insts.OpcodeJALR, 1, 0x0, 2, 0), "jalr\tx1, x2, 0"),
		Entry("jal", uint32(0x001000EF), "jal\tx1, 2048"),
		Entry("jal backwards", insts.EncodeJ(insts.OpcodeJAL, 0, -4), "jal\tx0, -4"),
		Entry("ecall", uint32(0x00000073), "ecall"),
	)

	DescribeTable("invalid words",
		func(word uint32) {
			text, err := d.Disassemble(word)

			Expect(err).To(MatchError(insts.ErrInvalidInstruction))
			Expect(text).To(BeEmpty())
		},
		Entry("all ones", uint32(0xFFFFFFFF)),
		Entry("zero", uint32(0x00000000)),
		Entry("sltu", insts.EncodeR(insts.OpcodeOp, 1, 0x3, 2, 3, 0x00)),
		Entry("divu", insts.EncodeR(insts.OpcodeOp, 1, 0x5, 2, 3, 0x01)),
		Entry("bge", insts.EncodeB(insts.OpcodeBranch, 0x5, 1, 2, 8)),
		Entry("lbu", insts.EncodeI(insts.OpcodeLoad, 1, 0x4, 2, 0)),
		Entry("ebreak", uint32(0x00100073)),
	)

	It("should name the word in the error", func() {
		_, err := d.Disassemble(0xFFFFFFFF)

		Expect(err.Error()).To(Equal("invalid instruction: 0xffffffff"))
	})

	Describe("Program", func() {
		It("should write one line per word", func() {
			memory := emu.NewMemory()
			Expect(memory.Write32(0x100, 0x003100B3)).To(Succeed())
			Expect(memory.Write32(0x104, 0xFFFFFFFF)).To(Succeed())
			Expect(memory.Write32(0x108, 0x00000073)).To(Succeed())

			out := &bytes.Buffer{}
			invalid, err := d.Program(memory, 0x100, 3, out)

			Expect(err).NotTo(HaveOccurred())
			Expect(invalid).To(Equal(1))
			Expect(out.String()).To(Equal(
				"add\tx1, x2, x3\n" +
					"invalid instruction: 0xffffffff\n" +
					"ecall\n"))
		})

		It("should stop at a read error", func() {
			memory := emu.NewMemory(emu.WithCapacity(8))

			out := &bytes.Buffer{}
			_, err := d.Program(memory, 0, 3, out)

			Expect(errors.Is(err, emu.ErrOutOfBounds)).To(BeTrue())
			Expect(out.String()).To(Equal(
				"invalid instruction: 0x00000000\n" +
					"invalid instruction: 0x00000000\n"))
		})
	})
})
