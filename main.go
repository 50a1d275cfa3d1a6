// Package main provides the entry point for RV32Sim.
// RV32Sim is an instruction-level RV32IM simulator and disassembler.
//
// For the full CLI, use: go run ./cmd/rv32sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("RV32Sim - RV32IM Instruction-Level Simulator")
	fmt.Println("")
	fmt.Println("Usage: rv32sim [options] <program>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -d         Disassemble the text segments instead of executing")
	fmt.Println("  -trace     Log every retired instruction")
	fmt.Println("  -digest    Print the Keccak-256 digest of the execution trace")
	fmt.Println("  -config    Path to simulator configuration JSON file")
	fmt.Println("  -align     Enforce natural alignment on memory accesses")
	fmt.Println("  -raw       Treat the program as a flat binary image")
	fmt.Println("  -base      Load address of a raw image")
	fmt.Println("  -max       Maximum number of instructions to execute")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rv32sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rv32sim' instead.")
	}
}
