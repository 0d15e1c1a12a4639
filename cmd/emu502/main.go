package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/emu502/emu502/assembler6502"
	"github.com/emu502/emu502/cpu6502"
	"github.com/emu502/emu502/emu"
)

var rootCmd = &cobra.Command{
	Use:   "emu502",
	Short: "emu502 assembles and runs 6502 programs",
}

var verbose bool

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(asmCmd, runCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

var asmOutput string

var asmCmd = &cobra.Command{
	Use:   "asm <source.s>",
	Short: "assemble a source file to a flat binary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := assembleFile(args[0])
		if err != nil {
			return err
		}

		out := os.Stdout
		if asmOutput != "" {
			f, err := os.Create(asmOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		return prog.WriteBinary(out)
	},
}

var (
	runConfigFile string
	runOrigin     uint16
	runAsBinary   bool
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "assemble (or load) and run a 6502 program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadRunConfig(runConfigFile)
		if err != nil {
			return err
		}
		if runOrigin != 0 {
			cfg.Origin = runOrigin
		}

		var prog *emu.Program
		if runAsBinary {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			prog = emu.NewProgram()
			if err := prog.ReadBinary(f, emu.Address(cfg.Origin)); err != nil {
				return err
			}
		} else {
			prog, err = assembleFile(args[0])
			if err != nil {
				return err
			}
		}

		halt, err := runProgram(prog, cfg)
		if err != nil {
			return err
		}
		fmt.Println(halt)
		return nil
	},
}

func init() {
	asmCmd.Flags().StringVarP(&asmOutput, "output", "o", "", "output binary file (defaults to stdout)")

	runCmd.Flags().StringVarP(&runConfigFile, "config", "c", "", "memory-map/run-profile YAML file")
	runCmd.Flags().Uint16VarP(&runOrigin, "origin", "O", 0, "override the load origin")
	runCmd.Flags().BoolVarP(&runAsBinary, "binary", "b", false, "treat the input file as a flat binary, not source")
}

func assembleFile(path string) (*emu.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	asm := assembler6502.NewAssembler()
	asm.Verbose = verbose
	return asm.Parse(f)
}

// runProgram wires the assembled program into a Mapper-backed machine
// (RAM plus an optional ROM region) and runs it to a halt.
func runProgram(prog *emu.Program, cfg *RunConfig) (cpu6502.Halt, error) {
	var clock emu.Clock
	if cfg.ClockHz > 0 {
		clock = emu.NewPacingClock(cfg.ClockHz)
	} else {
		clock = emu.NewFreeRunningClock()
	}

	ram := emu.NewRAM(clock)
	ram.Write(emu.Address(cfg.Origin), prog.Binary())

	var mem emu.Memory = ram
	if cfg.Rom != nil {
		rom, err := loadRom(cfg.Rom, clock)
		if err != nil {
			return nil, err
		}
		mapper := emu.NewMapper()
		lo, hi := emu.Address(cfg.Rom.Lo), emu.Address(cfg.Rom.Hi)
		if lo > 0 {
			if err := mapper.Map("ram-low", 0x0000, lo-1, ram); err != nil {
				return nil, err
			}
		}
		if err := mapper.Map("rom", lo, hi, rom); err != nil {
			return nil, err
		}
		if hi < 0xffff {
			if err := mapper.Map("ram-high", hi+1, 0xffff, ram); err != nil {
				return nil, err
			}
		}
		mem = mapper
	}

	cpu := cpu6502.NewCpu(mem, clock)
	cpu.Verbose = verbose
	cpu.DecimalMode = cfg.DecimalMode
	cpu.StrictStack = cfg.StrictStack
	cpu.Reg.PC = emu.Address(cfg.Origin)

	ctx := context.Background()
	halt, err := cpu.RunFor(ctx, time.Duration(cfg.TimeoutMS)*time.Millisecond)
	if err != nil {
		return halt, err
	}
	log.Printf("emu502: %s", cpu)
	return halt, nil
}

// romRegion is a read-only Memory backed by a flat file, for a ROM region
// mapped alongside RAM.
type romRegion struct {
	clock emu.Clock
	data  []byte
	base  emu.Address
}

func loadRom(r *RomRegion, clock emu.Clock) (emu.Memory, error) {
	data, err := os.ReadFile(r.File)
	if err != nil {
		return nil, err
	}
	return &romRegion{clock: clock, data: data, base: emu.Address(r.Lo)}, nil
}

func (r *romRegion) Load(address emu.Address) (byte, error) {
	r.clock.WaitForNextCycle()
	i := int(address - r.base)
	if i < 0 || i >= len(r.data) {
		return emu.DenseFill, nil
	}
	return r.data[i], nil
}

func (r *romRegion) Store(address emu.Address, value byte) error {
	r.clock.WaitForNextCycle()
	return nil
}
