package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/emu"
)

var _ = Describe("RegFile", func() {
	var regFile *emu.RegFile

	BeforeEach(func() {
		regFile = &emu.RegFile{}
	})

	It("should start zeroed", func() {
		for i := uint8(0); i < emu.NumRegs; i++ {
			Expect(regFile.ReadReg(i)).To(Equal(uint32(0)))
		}
		Expect(regFile.PC).To(Equal(uint32(0)))
	})

	It("should keep x0 hard-wired to zero", func() {
		regFile.WriteReg(emu.RegZero, 0x12345678)

		Expect(regFile.ReadReg(emu.RegZero)).To(Equal(uint32(0)))
		Expect(regFile.X[0]).To(Equal(uint32(0)))
	})

	It("should read and write the other registers", func() {
		regFile.WriteReg(31, 0xFFFFFFFF)

		Expect(regFile.ReadReg(31)).To(Equal(uint32(0xFFFFFFFF)))
		Expect(regFile.ReadSigned(31)).To(Equal(int32(-1)))
	})

	It("should ignore out-of-range register numbers", func() {
		regFile.WriteReg(32, 7)

		Expect(regFile.ReadReg(32)).To(Equal(uint32(0)))
	})
})
