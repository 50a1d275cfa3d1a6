// Package benchmarks provides a functional benchmark harness for RV32Sim.
package benchmarks

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/trace"
)

// ProgramAddr is where benchmark programs are loaded.
const ProgramAddr uint32 = 0x1000

// StackTop is the initial stack pointer of every benchmark.
const StackTop uint32 = 0x10000

// BenchmarkResult holds the results of a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark exercises
	Description string `json:"description"`

	// InstructionsRetired is the number of executed instructions
	InstructionsRetired uint64 `json:"instructions_retired"`

	// Loads and Stores count the data memory accesses
	Loads  uint64 `json:"loads"`
	Stores uint64 `json:"stores"`

	// ControlTransfers counts steps that did not fall through to PC + 4
	ControlTransfers uint64 `json:"control_transfers"`

	// ExitCode is the program's exit code
	ExitCode int64 `json:"exit_code"`

	// Output is what the program printed
	Output string `json:"output"`

	// Digest is the hex Keccak-256 digest of the execution trace
	Digest string `json:"digest"`

	// Passed is true if the exit code and output matched the expectation
	Passed bool `json:"passed"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark exercises
	Description string

	// Setup prepares the emulator state (e.g., initialize registers, memory)
	Setup func(regFile *emu.RegFile, memory *emu.Memory)

	// Program is the RV32IM machine code to execute
	Program []byte

	// ExpectedExit is the expected exit code (for validation)
	ExpectedExit int64

	// ExpectedOutput is the expected program output (for validation)
	ExpectedOutput string
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// MaxInstructions bounds every run. 0 means no limit.
	MaxInstructions uint64

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose enables detailed output
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		MaxInstructions: 10_000_000,
		Output:          os.Stdout,
		Verbose:         false,
	}
}

// Harness runs benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		results = append(results, h.Run(bench))
	}

	return results
}

// Run executes a single benchmark on a fresh emulator.
func (h *Harness) Run(bench Benchmark) BenchmarkResult {
	output := &bytes.Buffer{}
	emulator := emu.NewEmulator(
		emu.WithStdout(output),
		emu.WithStackPointer(StackTop),
		emu.WithMaxInstructions(h.config.MaxInstructions),
	)

	collector := trace.NewCollector()
	emulator.AcceptHook(collector)

	if bench.Setup != nil {
		bench.Setup(emulator.RegFile(), emulator.Memory())
	}

	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
	}

	if err := emulator.LoadProgram(ProgramAddr, bench.Program); err != nil {
		result.ExitCode = emu.ExitFailure
		result.Output = err.Error()
		return result
	}

	start := time.Now()
	exitCode := emulator.Run()
	result.WallTime = time.Since(start)

	for _, e := range collector.Entries() {
		if e.Mem != nil {
			if e.Mem.IsWrite {
				result.Stores++
			} else {
				result.Loads++
			}
		}
		if e.NextPC != e.PC+4 {
			result.ControlTransfers++
		}
	}

	digest := collector.Digest()
	result.InstructionsRetired = emulator.InstructionCount()
	result.ExitCode = exitCode
	result.Output = output.String()
	result.Digest = hex.EncodeToString(digest[:])
	result.Passed = exitCode == bench.ExpectedExit && result.Output == bench.ExpectedOutput

	return result
}

// PrintResults writes results in human-readable form.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== RV32Sim Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}

		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s [%s]\n", r.Name, status)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  Exit Code: %d\n", r.ExitCode)
		_, _ = fmt.Fprintf(h.config.Output, "  Output: %q\n", r.Output)
		_, _ = fmt.Fprintf(h.config.Output, "  Instructions Retired: %d\n", r.InstructionsRetired)
		_, _ = fmt.Fprintf(h.config.Output, "  Loads:                %d\n", r.Loads)
		_, _ = fmt.Fprintf(h.config.Output, "  Stores:               %d\n", r.Stores)
		_, _ = fmt.Fprintf(h.config.Output, "  Control Transfers:    %d\n", r.ControlTransfers)
		if h.config.Verbose {
			_, _ = fmt.Fprintf(h.config.Output, "  Trace Digest: %s\n", r.Digest)
		}
		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV writes results as CSV.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,instructions,loads,stores,control_transfers,exit_code,passed,digest")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%d,%d,%d,%t,%s\n",
			r.Name,
			r.InstructionsRetired,
			r.Loads,
			r.Stores,
			r.ControlTransfers,
			r.ExitCode,
			r.Passed,
			r.Digest,
		)
	}
}

// PrintJSON writes results as an indented JSON array.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize results: %w", err)
	}

	_, err = fmt.Fprintln(h.config.Output, string(data))
	return err
}

// BuildProgram assembles instruction words into a little-endian image.
func BuildProgram(instrs ...uint32) []byte {
	program := make([]byte, 0, len(instrs)*4)
	for _, inst := range instrs {
		program = binary.LittleEndian.AppendUint32(program, inst)
	}
	return program
}
