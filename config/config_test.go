package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/config"
	"github.com/sarchlab/rv32sim/emu"
)

var _ = Describe("SimConfig", func() {
	Describe("Default Config", func() {
		It("should create valid default config", func() {
			c := config.DefaultSimConfig()

			Expect(c.Validate()).To(Succeed())
			Expect(c.MemorySize).To(Equal(uint64(1 << 20)))
			Expect(c.CheckAlignment).To(BeFalse())
			Expect(c.StackPointer).To(Equal(uint32(0xFFFF0)))
		})
	})

	Describe("Validation", func() {
		It("should reject zero memory size", func() {
			c := config.DefaultSimConfig()
			c.MemorySize = 0
			Expect(c.Validate()).To(HaveOccurred())
		})

		It("should reject memory beyond the 32-bit address space", func() {
			c := config.DefaultSimConfig()
			c.MemorySize = emu.MaxMemorySize + 1
			Expect(c.Validate()).To(HaveOccurred())
		})

		It("should reject a stack pointer above memory", func() {
			c := config.DefaultSimConfig()
			c.MemorySize = 4096
			Expect(c.Validate()).To(MatchError(ContainSubstring("stack_pointer")))
		})

		It("should reject a load address outside memory", func() {
			c := config.DefaultSimConfig()
			c.LoadAddress = uint32(c.MemorySize)
			Expect(c.Validate()).To(MatchError(ContainSubstring("load_address")))
		})
	})

	Describe("Clone", func() {
		It("should create independent copy", func() {
			original := config.DefaultSimConfig()
			clone := original.Clone()

			clone.CheckAlignment = true

			Expect(original.CheckAlignment).To(BeFalse())
			Expect(clone.CheckAlignment).To(BeTrue())
		})
	})

	Describe("EmulatorOptions", func() {
		It("should configure memory, stack pointer and budget", func() {
			c := config.DefaultSimConfig()
			c.MemorySize = 4096
			c.StackPointer = 4080
			c.CheckAlignment = true
			c.MaxInstructions = 1

			e := emu.NewEmulator(c.EmulatorOptions()...)

			Expect(e.Memory().Capacity()).To(Equal(uint64(4096)))
			Expect(e.Memory().AlignmentCheck()).To(BeTrue())
			Expect(e.RegFile().ReadReg(emu.RegSP)).To(Equal(uint32(4080)))

			e.Step()
			Expect(e.Step().Err).To(MatchError(emu.ErrMaxInstructions))
		})
	})

	Describe("File Operations", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "config-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should save and load config", func() {
			original := config.DefaultSimConfig()
			original.CheckAlignment = true
			original.MaxInstructions = 1000

			path := filepath.Join(tempDir, "sim.json")
			Expect(original.SaveConfig(path)).To(Succeed())

			loaded, err := config.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(original))
		})

		It("should keep defaults for missing keys", func() {
			path := filepath.Join(tempDir, "partial.json")
			Expect(os.WriteFile(path, []byte(`{"check_alignment": true}`), 0644)).To(Succeed())

			loaded, err := config.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.CheckAlignment).To(BeTrue())
			Expect(loaded.MemorySize).To(Equal(emu.DefaultMemorySize))
		})

		It("should derive the stack pointer from memory_size", func() {
			path := filepath.Join(tempDir, "small.json")
			Expect(os.WriteFile(path, []byte(`{"memory_size": 65536}`), 0644)).To(Succeed())

			loaded, err := config.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.StackPointer).To(Equal(uint32(65536 - 16)))
			Expect(loaded.Validate()).To(Succeed())
		})

		It("should keep an explicit stack pointer", func() {
			path := filepath.Join(tempDir, "sp.json")
			data := []byte(`{"memory_size": 65536, "stack_pointer": 4096}`)
			Expect(os.WriteFile(path, data, 0644)).To(Succeed())

			loaded, err := config.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.StackPointer).To(Equal(uint32(4096)))
		})

		It("should return error for non-existent file", func() {
			_, err := config.LoadConfig("/nonexistent/path/sim.json")
			Expect(err).To(HaveOccurred())
		})

		It("should return error for invalid JSON", func() {
			path := filepath.Join(tempDir, "invalid.json")
			err := os.WriteFile(path, []byte("not valid json"), 0644)
			Expect(err).NotTo(HaveOccurred())

			_, err = config.LoadConfig(path)
			Expect(err).To(HaveOccurred())
		})
	})
})
