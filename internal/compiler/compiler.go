// Package compiler wires the scanner, emitter, runtime library and
// opcode templates together into the single Compile entry point the
// CLI calls.
package compiler

import (
	"github.com/chip8xc/chip8xc/internal/codegen"
	"github.com/chip8xc/chip8xc/internal/compileerr"
	"github.com/chip8xc/chip8xc/internal/emit"
	"github.com/chip8xc/chip8xc/internal/image"
	"github.com/chip8xc/chip8xc/internal/label"
	"github.com/chip8xc/chip8xc/internal/romscan"
	"github.com/chip8xc/chip8xc/internal/runtime"
)

// romDataLabel is where the raw CHIP-8 ROM bytes are embedded in the
// output image. The boot code copies them into the memmap.RAM mirror;
// the [I]-addressed templates (FX33/FX55/FX65 and DXYN's non-font
// sprite fetch) go through that mirror, not through this copy.
const romDataLabel = "chip8_rom_data"

// Compile translates a raw CHIP-8 ROM into a 32 KiB Z80 machine code
// image for the target hardware.
func Compile(rom []byte) ([]byte, error) {
	if len(rom) == 0 {
		return nil, &compileerr.EmptyInputError{}
	}

	instructions := romscan.Scan(rom)

	// A ROM too short to hold a single opcode scans to nothing; the
	// dispatcher then has no entry instruction and parks at halt.
	entry := "halt"
	if len(instructions) > 0 {
		entry = label.ChipLabel(instructions[0].Address)
	}

	e := emit.New()
	runtime.GenerateHeader(e)
	if err := runtime.GenerateMain(e, uint16(len(rom)), entry); err != nil {
		return nil, err
	}

	jumpTable, err := codegen.Compile(e, instructions)
	if err != nil {
		return nil, err
	}

	if err := runtime.GenerateRoutines(e, jumpTable); err != nil {
		return nil, err
	}

	if err := e.DefLabel(romDataLabel); err != nil {
		return nil, err
	}
	e.Raw(rom)

	return image.Build(e)
}
