// Package romscan walks a raw CHIP-8 ROM image and produces the linear
// instruction stream the rest of the compiler works from.
package romscan

import "github.com/chip8xc/chip8xc/internal/decode"

// ProgramStart is the CHIP-8 address the ROM is loaded at by every
// known interpreter, including this target's runtime.
const ProgramStart = 0x200

// Scan decodes every 16-bit word in rom, starting at ProgramStart and
// advancing two bytes at a time. It stops early if it encounters a
// self-targeting unconditional jump (1NNN where NNN equals the jump's
// own address), the idiomatic "halt" pattern CHIP-8 programs end on,
// so that trailing padding bytes in the ROM are not decoded as bogus
// instructions.
func Scan(rom []byte) []decode.Instruction {
	var out []decode.Instruction
	for i := 0; i+1 < len(rom); i += 2 {
		addr := ProgramStart + uint16(i)
		word := uint16(rom[i])<<8 | uint16(rom[i+1])
		ins := decode.Decode(word, addr)
		out = append(out, ins)
		if ins.TargetsSelf() {
			break
		}
	}
	return out
}
