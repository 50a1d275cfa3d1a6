package benchmarks_test

import (
	"bytes"
	"encoding/json"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/benchmarks"
	"github.com/sarchlab/rv32sim/emu"
)

var _ = Describe("Harness", func() {
	var (
		out     *bytes.Buffer
		harness *benchmarks.Harness
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		config := benchmarks.DefaultConfig()
		config.Output = out
		harness = benchmarks.NewHarness(config)
	})

	findResult := func(results []benchmarks.BenchmarkResult, name string) benchmarks.BenchmarkResult {
		for _, r := range results {
			if r.Name == name {
				return r
			}
		}
		Fail("no result for " + name)
		return benchmarks.BenchmarkResult{}
	}

	It("should pass every microbenchmark", func() {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())

		results := harness.RunAll()

		Expect(results).To(HaveLen(8))
		for _, r := range results {
			Expect(r.Passed).To(BeTrue(), "%s printed %q", r.Name, r.Output)
			Expect(r.ExitCode).To(BeZero())
			Expect(r.Digest).To(HaveLen(64))
		}
	})

	It("should count instructions and control transfers", func() {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())

		results := harness.RunAll()

		chain := findResult(results, "dependency_chain")
		Expect(chain.InstructionsRetired).To(Equal(uint64(24)))
		Expect(chain.ControlTransfers).To(BeZero())

		branch := findResult(results, "branch_taken")
		Expect(branch.InstructionsRetired).To(Equal(uint64(36)))
		Expect(branch.ControlTransfers).To(Equal(uint64(9)))

		loop := findResult(results, "loop_simulation")
		Expect(loop.InstructionsRetired).To(Equal(uint64(306)))

		calls := findResult(results, "function_calls")
		Expect(calls.ControlTransfers).To(Equal(uint64(10)))
	})

	It("should count memory accesses", func() {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())

		results := harness.RunAll()

		matrix := findResult(results, "matrix_multiply_2x2")
		Expect(matrix.Loads).To(Equal(uint64(8)))
		Expect(matrix.Stores).To(Equal(uint64(4)))
	})

	It("should produce the same digest on every run", func() {
		bench := benchmarks.GetCoreBenchmarks()[0]

		first := harness.Run(bench)
		second := harness.Run(bench)

		Expect(first.Digest).To(Equal(second.Digest))
	})

	It("should fail a benchmark whose output differs", func() {
		result := harness.Run(benchmarks.Benchmark{
			Name:           "wrong",
			Program:        benchmarks.BuildProgram(0x00A00893, 0x00000073),
			ExpectedOutput: "1",
		})

		Expect(result.ExitCode).To(BeZero())
		Expect(result.Passed).To(BeFalse())
	})

	It("should stop runaway programs at the instruction budget", func() {
		config := benchmarks.DefaultConfig()
		config.Output = out
		config.MaxInstructions = 100
		harness = benchmarks.NewHarness(config)

		result := harness.Run(benchmarks.Benchmark{
			Name:    "spin",
			Program: benchmarks.BuildProgram(0x0000006F), // jal x0, 0
		})

		Expect(result.ExitCode).To(Equal(emu.ExitFailure))
		Expect(result.InstructionsRetired).To(Equal(uint64(100)))
		Expect(result.Output).To(ContainSubstring("max instructions reached"))
	})

	Describe("reports", func() {
		var results []benchmarks.BenchmarkResult

		BeforeEach(func() {
			harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
			results = harness.RunAll()
		})

		It("should print human-readable results", func() {
			harness.PrintResults(results)

			Expect(out.String()).To(ContainSubstring("Benchmark: loop_simulation [PASS]"))
			Expect(out.String()).To(ContainSubstring("Output: \"5050\""))
		})

		It("should print CSV", func() {
			harness.PrintCSV(results)

			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			Expect(lines).To(HaveLen(4))
			Expect(lines[0]).To(HavePrefix("name,instructions"))
			Expect(lines[1]).To(HavePrefix("loop_simulation,306,"))
		})

		It("should print JSON", func() {
			Expect(harness.PrintJSON(results)).To(Succeed())

			var decoded []benchmarks.BenchmarkResult
			Expect(json.Unmarshal(out.Bytes(), &decoded)).To(Succeed())
			Expect(decoded).To(HaveLen(3))
			Expect(decoded[0].Output).To(Equal("5050"))
		})
	})
})
