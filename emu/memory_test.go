package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/emu"
)

var _ = Describe("Memory", func() {
	var memory *emu.Memory

	BeforeEach(func() {
		memory = emu.NewMemory()
	})

	It("should default to 1 MiB without alignment checks", func() {
		Expect(memory.Capacity()).To(Equal(emu.DefaultMemorySize))
		Expect(memory.AlignmentCheck()).To(BeFalse())
	})

	It("should read back a stored word", func() {
		Expect(memory.Store(0x100, emu.WidthWord, 0xDEADBEEF)).To(Succeed())

		Expect(memory.Load(0x100, emu.WidthWord)).To(Equal(uint32(0xDEADBEEF)))
	})

	It("should lay words out little-endian", func() {
		Expect(memory.Write32(0x200, 0x11223344)).To(Succeed())

		Expect(memory.Read8(0x200)).To(Equal(uint8(0x44)))
		Expect(memory.Read8(0x203)).To(Equal(uint8(0x11)))
		Expect(memory.Read16(0x200)).To(Equal(uint16(0x3344)))
		Expect(memory.Read16(0x202)).To(Equal(uint16(0x1122)))
	})

	It("should rebuild a word from two half-words", func() {
		Expect(memory.Store(0x10, emu.WidthHalf, 0xBEEF)).To(Succeed())
		Expect(memory.Store(0x12, emu.WidthHalf, 0xDEAD)).To(Succeed())

		Expect(memory.Load(0x10, emu.WidthWord)).To(Equal(uint32(0xDEADBEEF)))
	})

	It("should store only the low bytes of the value", func() {
		Expect(memory.Store(0x20, emu.WidthWord, 0xFFFFFFFF)).To(Succeed())
		Expect(memory.Store(0x20, emu.WidthByte, 0x12345678)).To(Succeed())

		Expect(memory.Load(0x20, emu.WidthWord)).To(Equal(uint32(0xFFFFFF78)))
	})

	Context("bounds", func() {
		It("should reject an access that ends past the capacity", func() {
			last := uint32(emu.DefaultMemorySize - 2)

			_, err := memory.Load(last, emu.WidthWord)
			Expect(err).To(MatchError(emu.ErrOutOfBounds))
			Expect(err.Error()).To(HavePrefix("bad read: address 0x000ffffe"))
		})

		It("should not write anything when a store is out of bounds", func() {
			last := uint32(emu.DefaultMemorySize - 2)

			err := memory.Store(last, emu.WidthWord, 0xFFFFFFFF)
			Expect(err).To(MatchError(emu.ErrOutOfBounds))
			Expect(err.Error()).To(HavePrefix("bad write: address 0x000ffffe"))

			Expect(memory.Load(last, emu.WidthHalf)).To(Equal(uint32(0)))
		})

		It("should reject a store at the capacity", func() {
			err := memory.Store(uint32(emu.DefaultMemorySize), emu.WidthByte, 1)
			Expect(err).To(MatchError(emu.ErrOutOfBounds))
		})

		It("should honor a custom capacity", func() {
			small := emu.NewMemory(emu.WithCapacity(64))

			Expect(small.Store(60, emu.WidthWord, 1)).To(Succeed())
			Expect(small.Store(61, emu.WidthWord, 1)).To(MatchError(emu.ErrOutOfBounds))
		})

		It("should reject block copies that overflow", func() {
			small := emu.NewMemory(emu.WithCapacity(8))

			Expect(small.WriteBytes(4, []byte{1, 2, 3, 4})).To(Succeed())
			Expect(small.WriteBytes(6, []byte{1, 2, 3})).To(MatchError(emu.ErrOutOfBounds))
			Expect(small.ReadBytes(4, 4)).To(Equal([]byte{1, 2, 3, 4}))
		})
	})

	Context("widths", func() {
		It("should reject widths other than 1, 2 and 4", func() {
			_, err := memory.Load(0, emu.Width(3))
			Expect(err).To(MatchError(emu.ErrInvalidWidth))

			Expect(memory.Store(0, emu.Width(8), 0)).To(MatchError(emu.ErrInvalidWidth))
		})
	})

	Context("alignment", func() {
		DescribeTable("CheckAlignment",
			func(addr uint32, width emu.Width, expected bool) {
				Expect(memory.CheckAlignment(addr, width)).To(Equal(expected))
			},
			Entry("any byte", uint32(0x13), emu.WidthByte, true),
			Entry("even half-word", uint32(0x12), emu.WidthHalf, true),
			Entry("odd half-word", uint32(0x13), emu.WidthHalf, false),
			Entry("aligned word", uint32(0x14), emu.WidthWord, true),
			Entry("word at +2", uint32(0x16), emu.WidthWord, false),
			Entry("outside memory", uint32(emu.DefaultMemorySize), emu.WidthByte, false),
			Entry("bad width", uint32(0), emu.Width(3), false),
		)

		It("should allow misaligned accesses by default", func() {
			Expect(memory.Store(0x101, emu.WidthWord, 0xCAFEF00D)).To(Succeed())
			Expect(memory.Load(0x101, emu.WidthWord)).To(Equal(uint32(0xCAFEF00D)))
		})

		It("should reject misaligned accesses when enabled", func() {
			strict := emu.NewMemory(emu.WithAlignmentCheck(true))

			err := strict.Store(0x102, emu.WidthWord, 1)
			Expect(err).To(MatchError(emu.ErrMisaligned))
			Expect(err.Error()).To(HavePrefix("misaligned write: address 0x00000102 width 4"))

			_, err = strict.Load(0x101, emu.WidthHalf)
			Expect(err).To(MatchError(emu.ErrMisaligned))

			Expect(strict.Store(0x103, emu.WidthByte, 1)).To(Succeed())
		})
	})
})
