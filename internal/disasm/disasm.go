// Package disasm renders a decoded CHIP-8 instruction stream as text,
// one "%03X: %04X  %s" line per instruction.
package disasm

import (
	"fmt"
	"io"

	"github.com/chip8xc/chip8xc/internal/decode"
	"github.com/chip8xc/chip8xc/internal/romscan"
)

// Mnemonic formats a single decoded instruction, one case per opcode
// family, falling back to a raw hex placeholder for anything
// unrecognized.
func Mnemonic(ins decode.Instruction) string {
	n0, x, y, n := ins.Nibbles()
	nn := ins.NN()
	nnn := ins.NNN()

	switch n0 {
	case 0x0:
		switch ins.Opcode {
		case 0x00E0:
			return "CLS"
		case 0x00EE:
			return "RET"
		default:
			return fmt.Sprintf("SYS  %03X", nnn)
		}
	case 0x1:
		return fmt.Sprintf("JP   %03X", nnn)
	case 0x2:
		return fmt.Sprintf("CALL %03X", nnn)
	case 0x3:
		return fmt.Sprintf("SE   V%X, %02X", x, nn)
	case 0x4:
		return fmt.Sprintf("SNE  V%X, %02X", x, nn)
	case 0x5:
		if n != 0 {
			return fmt.Sprintf("??? %04X", ins.Opcode)
		}
		return fmt.Sprintf("SE   V%X, V%X", x, y)
	case 0x6:
		return fmt.Sprintf("LD   V%X, %02X", x, nn)
	case 0x7:
		return fmt.Sprintf("ADD  V%X, %02X", x, nn)
	case 0x8:
		switch n {
		case 0x0:
			return fmt.Sprintf("LD   V%X, V%X", x, y)
		case 0x1:
			return fmt.Sprintf("OR   V%X, V%X", x, y)
		case 0x2:
			return fmt.Sprintf("AND  V%X, V%X", x, y)
		case 0x3:
			return fmt.Sprintf("XOR  V%X, V%X", x, y)
		case 0x4:
			return fmt.Sprintf("ADD  V%X, V%X", x, y)
		case 0x5:
			return fmt.Sprintf("SUB  V%X, V%X", x, y)
		case 0x6:
			return fmt.Sprintf("SHR  V%X", x)
		case 0x7:
			return fmt.Sprintf("SUBN V%X, V%X", x, y)
		case 0xE:
			return fmt.Sprintf("SHL  V%X", x)
		default:
			return fmt.Sprintf("??? %04X", ins.Opcode)
		}
	case 0x9:
		if n != 0 {
			return fmt.Sprintf("??? %04X", ins.Opcode)
		}
		return fmt.Sprintf("SNE  V%X, V%X", x, y)
	case 0xA:
		return fmt.Sprintf("LD   I, %03X", nnn)
	case 0xB:
		return fmt.Sprintf("JP   V0, %03X", nnn)
	case 0xC:
		return fmt.Sprintf("RND  V%X, %02X", x, nn)
	case 0xD:
		return fmt.Sprintf("DRW  V%X, V%X, %X", x, y, n)
	case 0xE:
		switch nn {
		case 0x9E:
			return fmt.Sprintf("SKP  V%X", x)
		case 0xA1:
			return fmt.Sprintf("SKNP V%X", x)
		default:
			return fmt.Sprintf("??? %04X", ins.Opcode)
		}
	case 0xF:
		switch nn {
		case 0x07:
			return fmt.Sprintf("LD   V%X, DT", x)
		case 0x0A:
			return fmt.Sprintf("LD   V%X, K", x)
		case 0x15:
			return fmt.Sprintf("LD   DT, V%X", x)
		case 0x18:
			return fmt.Sprintf("LD   ST, V%X", x)
		case 0x1E:
			return fmt.Sprintf("ADD  I, V%X", x)
		case 0x29:
			return fmt.Sprintf("LD   F, V%X", x)
		case 0x33:
			return fmt.Sprintf("LD   B, V%X", x)
		case 0x55:
			return fmt.Sprintf("LD   [I], V%X", x)
		case 0x65:
			return fmt.Sprintf("LD   V%X, [I]", x)
		default:
			return fmt.Sprintf("??? %04X", ins.Opcode)
		}
	default:
		return fmt.Sprintf("??? %04X", ins.Opcode)
	}
}

// Disassemble scans rom and writes one "address: opcode  mnemonic"
// line per instruction to w.
func Disassemble(w io.Writer, rom []byte) error {
	for _, ins := range romscan.Scan(rom) {
		_, err := fmt.Fprintf(w, "%03X: %04X  %s\n", ins.Address, ins.Opcode, Mnemonic(ins))
		if err != nil {
			return err
		}
	}
	return nil
}
