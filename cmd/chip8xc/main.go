// Package main implements chip8xc, a static CHIP-8 to Z80 cross
// compiler for RetroShield-class bare-metal hardware.
package main

import (
	"fmt"
	"os"

	"github.com/chip8xc/chip8xc/internal/cli"
	"github.com/chip8xc/chip8xc/internal/compiler"
	"github.com/chip8xc/chip8xc/internal/compileerr"
	"github.com/chip8xc/chip8xc/internal/config"
	"github.com/chip8xc/chip8xc/internal/disasm"
	"github.com/retroenv/retrogolib/log"
)

func main() {
	opts, err := cli.ParseFlags()
	if err != nil {
		if usageErr, ok := err.(*cli.UsageError); ok {
			usageErr.ShowUsage()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)

	rom, err := os.ReadFile(opts.Input)
	if err != nil {
		ioErr := &compileerr.IoError{Op: "reading " + opts.Input, Err: err}
		logger.Error("Reading input ROM failed", ioErr, log.String("file", opts.Input))
		os.Exit(1)
	}
	logger.Debug("Loaded ROM", log.String("file", opts.Input), log.Int("bytes", len(rom)))

	if len(rom) == 0 {
		logger.Error("Input ROM is empty", &compileerr.EmptyInputError{}, log.String("file", opts.Input))
		os.Exit(1)
	}

	if opts.Disasm {
		if err := disasm.Disassemble(os.Stdout, rom); err != nil {
			logger.Error("Disassembling ROM failed", err, log.String("file", opts.Input))
			os.Exit(1)
		}
		return
	}

	if err := run(logger, opts, rom); err != nil {
		logger.Error("Compilation failed", err)
		os.Exit(1)
	}
}

func run(logger *log.Logger, opts cli.Options, rom []byte) error {
	image, err := compiler.Compile(rom)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.Output, image, 0o644); err != nil {
		return &compileerr.IoError{Op: "writing " + opts.Output, Err: err}
	}
	logger.Info("Compiled Chip-8 ROM",
		log.String("input", opts.Input),
		log.String("output", opts.Output),
		log.Int("bytes", len(image)),
	)
	return nil
}

