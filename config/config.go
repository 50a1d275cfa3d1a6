// Package config provides the JSON configuration of the simulator.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/rv32sim/emu"
)

// SimConfig holds the machine parameters of a simulation run.
type SimConfig struct {
	// MemorySize is the capacity of the flat address space in bytes.
	// Default: 1 MiB.
	MemorySize uint64 `json:"memory_size"`

	// CheckAlignment makes misaligned half-word and word accesses fault.
	// Default: false.
	CheckAlignment bool `json:"check_alignment"`

	// MaxInstructions stops the run after this many instructions.
	// Default: 0 (no limit).
	MaxInstructions uint64 `json:"max_instructions"`

	// StackPointer is the initial value of x2.
	// Default: 16 bytes below the top of memory. LoadConfig derives it from
	// memory_size when the key is absent.
	StackPointer uint32 `json:"stack_pointer"`

	// LoadAddress is where raw binary images are placed.
	// Default: 0.
	LoadAddress uint32 `json:"load_address"`
}

// DefaultSimConfig returns a SimConfig with default values.
func DefaultSimConfig() *SimConfig {
	return &SimConfig{
		MemorySize:      emu.DefaultMemorySize,
		CheckAlignment:  false,
		MaxInstructions: 0,
		StackPointer:    stackTop(emu.DefaultMemorySize),
		LoadAddress:     0,
	}
}

// LoadConfig loads a SimConfig from a JSON file. Keys missing from the file
// keep their default values.
func LoadConfig(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sim config file: %w", err)
	}

	config := DefaultSimConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse sim config: %w", err)
	}

	var present struct {
		StackPointer *uint32 `json:"stack_pointer"`
	}
	if err := json.Unmarshal(data, &present); err != nil {
		return nil, fmt.Errorf("failed to parse sim config: %w", err)
	}
	if present.StackPointer == nil {
		config.StackPointer = stackTop(config.MemorySize)
	}

	return config, nil
}

// stackTop returns the address 16 bytes below the top of a memory of the
// given size.
func stackTop(memorySize uint64) uint32 {
	if memorySize < 16 {
		return 0
	}
	return uint32(memorySize - 16)
}

// SaveConfig writes a SimConfig to a JSON file.
func (c *SimConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize sim config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write sim config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration describes a usable machine.
func (c *SimConfig) Validate() error {
	if c.MemorySize == 0 {
		return fmt.Errorf("memory_size must be > 0")
	}
	if c.MemorySize > emu.MaxMemorySize {
		return fmt.Errorf("memory_size must be <= %d", emu.MaxMemorySize)
	}
	if uint64(c.StackPointer) > c.MemorySize {
		return fmt.Errorf("stack_pointer must be <= memory_size")
	}
	if uint64(c.LoadAddress) >= c.MemorySize {
		return fmt.Errorf("load_address must be < memory_size")
	}
	return nil
}

// Clone returns a deep copy of the SimConfig.
func (c *SimConfig) Clone() *SimConfig {
	clone := *c
	return &clone
}

// NewMemory creates a memory with the configured capacity and alignment
// mode.
func (c *SimConfig) NewMemory() *emu.Memory {
	return emu.NewMemory(
		emu.WithCapacity(c.MemorySize),
		emu.WithAlignmentCheck(c.CheckAlignment),
	)
}

// EmulatorOptions returns the emulator options matching the configuration,
// including a freshly created memory.
func (c *SimConfig) EmulatorOptions() []emu.EmulatorOption {
	return []emu.EmulatorOption{
		emu.WithMemory(c.NewMemory()),
		emu.WithStackPointer(c.StackPointer),
		emu.WithMaxInstructions(c.MaxInstructions),
	}
}
