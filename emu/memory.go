// Package emu provides functional RV32IM emulation.
package emu

import (
	"errors"
	"fmt"

	"github.com/sarchlab/akita/v4/mem/mem"
)

// DefaultMemorySize is the default capacity of the simulated address space
// (1 MiB).
const DefaultMemorySize uint64 = 1 << 20

// MaxMemorySize is the largest capacity a 32-bit address can cover.
const MaxMemorySize uint64 = 1 << 32

// Memory access errors.
var (
	ErrOutOfBounds  = errors.New("out of bounds memory access")
	ErrMisaligned   = errors.New("misaligned memory access")
	ErrInvalidWidth = errors.New("invalid memory access width")
)

// Width is the size in bytes of a memory access.
type Width uint32

// Access widths.
const (
	WidthByte Width = 1
	WidthHalf Width = 2
	WidthWord Width = 4
)

// Memory is a flat, byte-addressable, little-endian memory of fixed
// capacity. Bounds are always checked; alignment is checked only when
// enabled.
type Memory struct {
	storage        *mem.Storage
	capacity       uint64
	checkAlignment bool
}

// MemoryOption is a functional option for configuring Memory.
type MemoryOption func(*Memory)

// WithCapacity sets the memory capacity in bytes. Values above
// MaxMemorySize are clamped.
func WithCapacity(capacity uint64) MemoryOption {
	return func(m *Memory) {
		if capacity > MaxMemorySize {
			capacity = MaxMemorySize
		}
		m.capacity = capacity
	}
}

// WithAlignmentCheck makes half-word and word accesses fail unless they are
// naturally aligned.
func WithAlignmentCheck(enabled bool) MemoryOption {
	return func(m *Memory) {
		m.checkAlignment = enabled
	}
}

// NewMemory creates a zero-filled memory.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{capacity: DefaultMemorySize}

	for _, opt := range opts {
		opt(m)
	}

	m.storage = mem.NewStorage(m.capacity)

	return m
}

// Capacity returns the size of the address space in bytes.
func (m *Memory) Capacity() uint64 {
	return m.capacity
}

// AlignmentCheck reports whether alignment is enforced.
func (m *Memory) AlignmentCheck() bool {
	return m.checkAlignment
}

// CheckAlignment reports whether addr is inside memory and aligned for an
// access of the given width.
func (m *Memory) CheckAlignment(addr uint32, width Width) bool {
	if uint64(addr) >= m.capacity {
		return false
	}

	switch width {
	case WidthByte:
		return true
	case WidthHalf:
		return addr%2 == 0
	case WidthWord:
		return addr%4 == 0
	default:
		return false
	}
}

// Load reads width bytes at addr, least significant byte first.
func (m *Memory) Load(addr uint32, width Width) (uint32, error) {
	if err := m.validate(addr, width, "read"); err != nil {
		return 0, err
	}

	data, err := m.storage.Read(uint64(addr), uint64(width))
	if err != nil {
		return 0, fmt.Errorf("bad read: address 0x%08x: %w", addr, err)
	}

	var value uint32
	for i, b := range data {
		value |= uint32(b) << (8 * i)
	}

	return value, nil
}

// Store writes the low width bytes of value at addr, least significant byte
// first. Nothing is written if the access fails.
func (m *Memory) Store(addr uint32, width Width, value uint32) error {
	if err := m.validate(addr, width, "write"); err != nil {
		return err
	}

	data := make([]byte, width)
	for i := range data {
		data[i] = byte(value >> (8 * i))
	}

	if err := m.storage.Write(uint64(addr), data); err != nil {
		return fmt.Errorf("bad write: address 0x%08x: %w", addr, err)
	}

	return nil
}

// Read8 reads a byte.
func (m *Memory) Read8(addr uint32) (uint8, error) {
	v, err := m.Load(addr, WidthByte)
	return uint8(v), err
}

// Read16 reads a little-endian half-word.
func (m *Memory) Read16(addr uint32) (uint16, error) {
	v, err := m.Load(addr, WidthHalf)
	return uint16(v), err
}

// Read32 reads a little-endian word.
func (m *Memory) Read32(addr uint32) (uint32, error) {
	return m.Load(addr, WidthWord)
}

// Write8 writes a byte.
func (m *Memory) Write8(addr uint32, value uint8) error {
	return m.Store(addr, WidthByte, uint32(value))
}

// Write16 writes a little-endian half-word.
func (m *Memory) Write16(addr uint32, value uint16) error {
	return m.Store(addr, WidthHalf, uint32(value))
}

// Write32 writes a little-endian word.
func (m *Memory) Write32(addr uint32, value uint32) error {
	return m.Store(addr, WidthWord, value)
}

// WriteBytes copies data into memory starting at addr. Alignment is not
// checked.
func (m *Memory) WriteBytes(addr uint32, data []byte) error {
	if uint64(addr)+uint64(len(data)) > m.capacity {
		return fmt.Errorf("bad write: address 0x%08x: %w", addr, ErrOutOfBounds)
	}
	if len(data) == 0 {
		return nil
	}

	return m.storage.Write(uint64(addr), data)
}

// ReadBytes copies n bytes starting at addr out of memory.
func (m *Memory) ReadBytes(addr uint32, n int) ([]byte, error) {
	if uint64(addr)+uint64(n) > m.capacity {
		return nil, fmt.Errorf("bad read: address 0x%08x: %w", addr, ErrOutOfBounds)
	}

	return m.storage.Read(uint64(addr), uint64(n))
}

func (m *Memory) validate(addr uint32, width Width, kind string) error {
	switch width {
	case WidthByte, WidthHalf, WidthWord:
	default:
		return fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}

	if uint64(addr)+uint64(width) > m.capacity {
		return fmt.Errorf("bad %s: address 0x%08x: %w", kind, addr, ErrOutOfBounds)
	}

	if m.checkAlignment && !m.CheckAlignment(addr, width) {
		return fmt.Errorf("misaligned %s: address 0x%08x width %d: %w",
			kind, addr, width, ErrMisaligned)
	}

	return nil
}
