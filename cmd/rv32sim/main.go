// Package main provides the entry point for RV32Sim.
// RV32Sim is an instruction-level RV32IM simulator and disassembler.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rv32sim/config"
	"github.com/sarchlab/rv32sim/disasm"
	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/loader"
	"github.com/sarchlab/rv32sim/trace"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	disassemble bool
	trace       bool
	digest      bool
	verbose     bool
	configPath  string
	align       bool
	raw         bool
	base        uint
	max         uint64
}

// run executes the command line and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rv32sim", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.BoolVar(&opts.disassemble, "d", false, "Disassemble the program instead of running it")
	fs.BoolVar(&opts.trace, "trace", false, "Log every executed instruction")
	fs.BoolVar(&opts.digest, "digest", false, "Report a Keccak-256 digest of the execution trace")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose output")
	fs.StringVar(&opts.configPath, "config", "", "Path to simulator configuration JSON file")
	fs.BoolVar(&opts.align, "align", false, "Fault on misaligned memory accesses")
	fs.BoolVar(&opts.raw, "raw", false, "Treat the program as a flat binary image")
	fs.UintVar(&opts.base, "base", 0, "Load address of a raw image")
	fs.Uint64Var(&opts.max, "max", 0, "Maximum number of instructions to execute (0 = no limit)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: rv32sim [options] <program>\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return 1
	}

	log := logrus.New()
	log.SetOutput(stderr)
	if opts.trace {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg, err := loadConfig(fs, &opts)
	if err != nil {
		log.WithError(err).Error("invalid configuration")
		return 1
	}

	programPath := fs.Arg(0)
	prog, err := loadProgram(programPath, &opts, cfg)
	if err != nil {
		log.WithError(err).Error("failed to load program")
		return 1
	}

	if opts.verbose {
		log.WithFields(logrus.Fields{
			"program":  programPath,
			"entry":    fmt.Sprintf("0x%08x", prog.EntryPoint),
			"segments": len(prog.Segments),
			"size":     prog.Size(),
		}).Info("loaded")
	}

	if opts.disassemble {
		return runDisassembly(prog, cfg, stdout, log)
	}

	return runEmulation(prog, cfg, &opts, stdout, log)
}

// loadConfig reads the configuration file, if any, and applies the flags
// that were set explicitly on top of it.
func loadConfig(fs *flag.FlagSet, opts *options) (*config.SimConfig, error) {
	cfg := config.DefaultSimConfig()
	if opts.configPath != "" {
		var err error
		cfg, err = config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "align":
			cfg.CheckAlignment = opts.align
		case "max":
			cfg.MaxInstructions = opts.max
		case "base":
			cfg.LoadAddress = uint32(opts.base)
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadProgram(path string, opts *options, cfg *config.SimConfig) (*loader.Program, error) {
	if opts.raw {
		return loader.LoadRaw(path, cfg.LoadAddress)
	}
	return loader.Load(path)
}

// runDisassembly prints the executable segments of the program, one line
// per instruction word.
func runDisassembly(
	prog *loader.Program,
	cfg *config.SimConfig,
	stdout io.Writer,
	log *logrus.Logger,
) int {
	memory := cfg.NewMemory()
	if err := prog.Install(memory); err != nil {
		log.WithError(err).Error("failed to install program")
		return 1
	}

	d := disasm.NewDisassembler()
	for _, seg := range prog.ExecutableSegments() {
		invalid, err := d.Program(memory, seg.VirtAddr, len(seg.Data)/4, stdout)
		if err != nil {
			log.WithError(err).Error("failed to disassemble segment")
			return 1
		}
		if invalid > 0 {
			log.WithFields(logrus.Fields{
				"segment": fmt.Sprintf("0x%08x", seg.VirtAddr),
				"invalid": invalid,
			}).Warn("segment contains invalid instructions")
		}
		if tail := len(seg.Data) % 4; tail != 0 {
			log.WithFields(logrus.Fields{
				"segment": fmt.Sprintf("0x%08x", seg.VirtAddr),
				"bytes":   tail,
			}).Warn("segment ends with a partial instruction word")
		}
	}

	return 0
}

// runEmulation runs the program in functional emulation mode.
func runEmulation(
	prog *loader.Program,
	cfg *config.SimConfig,
	opts *options,
	stdout io.Writer,
	log *logrus.Logger,
) int {
	emulator := emu.NewEmulator(
		append(cfg.EmulatorOptions(), emu.WithStdout(stdout))...,
	)

	if err := prog.Install(emulator.Memory()); err != nil {
		log.WithError(err).Error("failed to install program")
		return 1
	}
	emulator.RegFile().PC = prog.EntryPoint

	if opts.trace {
		emulator.AcceptHook(trace.NewLogger(log))
	}

	var collector *trace.Collector
	if opts.digest {
		collector = trace.NewCollector()
		emulator.AcceptHook(collector)
	}

	exitCode := emulator.Run()

	if collector != nil {
		digest := collector.Digest()
		log.WithFields(logrus.Fields{
			"steps":  collector.Len(),
			"digest": hex.EncodeToString(digest[:]),
		}).Info("trace")
	}

	if opts.verbose {
		log.WithFields(logrus.Fields{
			"exit_code":    exitCode,
			"instructions": emulator.InstructionCount(),
		}).Info("finished")
	}

	return int(exitCode)
}
