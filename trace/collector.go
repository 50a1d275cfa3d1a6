// Package trace records and reports the instructions retired by an
// emulator through akita hooks.
package trace

import (
	"encoding/binary"

	"github.com/sarchlab/akita/v4/sim"
	"golang.org/x/crypto/sha3"

	"github.com/sarchlab/rv32sim/emu"
)

// Entry is the architectural effect of one executed instruction.
type Entry struct {
	PC     uint32
	NextPC uint32
	Word   uint32

	RegWritten bool
	Rd         uint8
	RdValue    uint32

	Mem *emu.MemAccess
}

// entrySize is the serialized size of an Entry.
//
//	pc(4) next(4) word(4) flags(1) rd(1) rdValue(4) addr(4) width(1) value(4)
const entrySize = 27

const (
	flagRegWrite = 1 << iota
	flagMemRead
	flagMemWrite
)

// Collector is a hook that keeps every step an emulator reports.
type Collector struct {
	entries []Entry
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Func records a step. Other hook positions are ignored.
func (c *Collector) Func(ctx sim.HookCtx) {
	if ctx.Pos != emu.HookPosStep {
		return
	}

	record, ok := ctx.Item.(*emu.StepRecord)
	if !ok || record.Inst == nil {
		return
	}

	c.entries = append(c.entries, Entry{
		PC:         record.PC,
		NextPC:     record.NextPC,
		Word:       uint32(record.Inst.Word),
		RegWritten: record.RegWritten,
		Rd:         record.Rd,
		RdValue:    record.RdValue,
		Mem:        record.Mem,
	})
}

// Entries returns the recorded steps in execution order.
func (c *Collector) Entries() []Entry {
	return c.entries
}

// Len returns the number of recorded steps.
func (c *Collector) Len() int {
	return len(c.entries)
}

// Reset discards all recorded steps.
func (c *Collector) Reset() {
	c.entries = c.entries[:0]
}

// Serialize encodes the trace as fixed-size little-endian records.
func (c *Collector) Serialize() []byte {
	buf := make([]byte, 0, len(c.entries)*entrySize)
	for _, e := range c.entries {
		buf = e.appendTo(buf)
	}
	return buf
}

// Digest returns the Keccak-256 hash of the serialized trace. Two runs with
// the same architectural behavior have the same digest.
func (c *Collector) Digest() [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(c.Serialize())

	var digest [32]byte
	h.Sum(digest[:0])
	return digest
}

func (e Entry) appendTo(buf []byte) []byte {
	var flags uint8
	var addr, value uint32
	var width uint8

	if e.RegWritten {
		flags |= flagRegWrite
	}
	if e.Mem != nil {
		if e.Mem.IsWrite {
			flags |= flagMemWrite
		} else {
			flags |= flagMemRead
		}
		addr = e.Mem.Addr
		width = uint8(e.Mem.Width)
		value = e.Mem.Value
	}

	buf = binary.LittleEndian.AppendUint32(buf, e.PC)
	buf = binary.LittleEndian.AppendUint32(buf, e.NextPC)
	buf = binary.LittleEndian.AppendUint32(buf, e.Word)
	buf = append(buf, flags, e.Rd)
	buf = binary.LittleEndian.AppendUint32(buf, e.RdValue)
	buf = binary.LittleEndian.AppendUint32(buf, addr)
	buf = append(buf, width)
	buf = binary.LittleEndian.AppendUint32(buf, value)

	return buf
}
