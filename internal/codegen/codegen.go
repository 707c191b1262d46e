// Package codegen expands the scanned CHIP-8 instruction stream into
// Z80 machine code, one template per opcode family. Each template is
// fixed size for a given opcode and addresses its operand
// registers directly, since X/Y/N come from the opcode byte and are
// therefore compile-time constants, not values that need runtime
// register indexing.
//
// Every template that needs a label private to itself (a branch target
// that only makes sense inside that one instruction's expansion)
// suffixes the label with the instruction's own CHIP-8 address. A
// ROM that uses the same opcode more than once, which is the common
// case, would otherwise collide on a bare name like "no_borrow".
package codegen

import (
	"fmt"

	"github.com/chip8xc/chip8xc/internal/compileerr"
	"github.com/chip8xc/chip8xc/internal/decode"
	"github.com/chip8xc/chip8xc/internal/emit"
	"github.com/chip8xc/chip8xc/internal/label"
	"github.com/chip8xc/chip8xc/internal/memmap"
	"github.com/chip8xc/chip8xc/internal/runtime"
)

// Compile expands every scanned instruction in order, defining its
// c8_XXX label before emitting its template, and returns the address
// table the BNNN dispatcher needs.
func Compile(e *emit.Emitter, instructions []decode.Instruction) ([]runtime.JumpEntry, error) {
	scanned := make(map[uint16]bool, len(instructions))
	for _, ins := range instructions {
		scanned[ins.Address] = true
	}
	var lastAddr uint16
	if len(instructions) > 0 {
		lastAddr = instructions[len(instructions)-1].Address
	}

	table := make([]runtime.JumpEntry, 0, len(instructions))
	for _, ins := range instructions {
		name := label.ChipLabel(ins.Address)
		if err := e.DefLabel(name); err != nil {
			return nil, err
		}
		table = append(table, runtime.JumpEntry{Address: ins.Address, Label: name})
		if err := compileOne(e, ins, scanned, lastAddr); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// fallthroughLabel returns the label the given address's successor
// resolves to, or "halt" if the scanner never reached that far. Used
// by skip-style opcodes (3XNN/4XNN/5XY0/9XY0/EX9E/EXA1), whose
// UnknownBranchTarget case the taxonomy treats as non-fatal: the skip
// target is only ever synthesized by this compiler, never written by
// the CHIP-8 program, so falling back to halt is always safe rather
// than failing the whole compile.
func fallthroughLabel(addr uint16, lastAddr uint16) string {
	if addr <= lastAddr {
		return label.ChipLabel(addr)
	}
	return "halt"
}

// branchTarget resolves a JP/CALL direct branch target. BNNN does not
// use it; its target is only known at run time and goes through
// bnnn_dispatch.
// Unlike fallthroughLabel, landing outside the scanned program here is
// a real error: the CHIP-8 program itself named an address the
// scanner never reached, the UnknownBranchTargetError case.
func branchTarget(from, to uint16, scanned map[uint16]bool) (string, error) {
	if !scanned[to] {
		return "", &compileerr.UnknownBranchTargetError{From: from, To: to}
	}
	return label.ChipLabel(to), nil
}

func compileOne(e *emit.Emitter, ins decode.Instruction, scanned map[uint16]bool, lastAddr uint16) error {
	n0, x, y, n := ins.Nibbles()
	nn := ins.NN()
	nnn := ins.NNN()
	addr := ins.Address
	vx := uint16(memmap.V0) + uint16(x)
	vy := uint16(memmap.V0) + uint16(y)

	switch n0 {
	case 0x0:
		switch ins.Opcode {
		case 0x00E0: // CLS
			e.Call("cls")
			e.Call("refresh_display")
		case 0x00EE: // RET
			e.JP("chip8_pop_stack")
		default: // 0NNN, SYS call, ignored on this target
			e.Nop()
		}

	case 0x1: // JP NNN
		target, err := branchTarget(addr, nnn, scanned)
		if err != nil {
			return err
		}
		e.JP(target)

	case 0x2: // CALL NNN
		target, err := branchTarget(addr, nnn, scanned)
		if err != nil {
			return err
		}
		e.LD16ImmLabel(emit.RegDE, fallthroughLabel(addr+2, lastAddr))
		e.Call("chip8_push_stack")
		e.JP(target)

	case 0x3: // SE Vx, NN
		e.LDAFromAddr(vx)
		e.CpImm(nn)
		e.JPCond(emit.CondZ, fallthroughLabel(addr+4, lastAddr))

	case 0x4: // SNE Vx, NN
		e.LDAFromAddr(vx)
		e.CpImm(nn)
		e.JPCond(emit.CondNZ, fallthroughLabel(addr+4, lastAddr))

	case 0x5: // SE Vx, Vy (5XY0 only; other N values are undefined, emit nothing)
		if n != 0 {
			break
		}
		e.LDAFromAddr(vy)
		e.LD8Reg(emit.RegB, emit.RegA)
		e.LDAFromAddr(vx)
		e.CpReg(emit.RegB)
		e.JPCond(emit.CondZ, fallthroughLabel(addr+4, lastAddr))

	case 0x6: // LD Vx, NN
		e.LD8Imm(emit.RegA, nn)
		e.LDAddrFromA(vx)

	case 0x7: // ADD Vx, NN (no carry)
		e.LDAFromAddr(vx)
		e.AddAImm(nn)
		e.LDAddrFromA(vx)

	case 0x8:
		if err := compileALU(e, n, vx, vy, addr); err != nil {
			return err
		}

	case 0x9: // SNE Vx, Vy (9XY0 only; other N values are undefined, emit nothing)
		if n != 0 {
			break
		}
		e.LDAFromAddr(vy)
		e.LD8Reg(emit.RegB, emit.RegA)
		e.LDAFromAddr(vx)
		e.CpReg(emit.RegB)
		e.JPCond(emit.CondNZ, fallthroughLabel(addr+4, lastAddr))

	case 0xA: // LD I, NNN
		e.LD16Imm(emit.RegHL, nnn)
		e.LDAddrFromHL(memmap.I)

	case 0xB: // JP V0, NNN
		e.LDAFromAddr(memmap.V0)
		e.LD8Imm(emit.RegH, 0)
		e.LD8Reg(emit.RegL, emit.RegA)
		e.LD16Imm(emit.RegDE, nnn)
		e.AddHL(emit.RegDE)
		e.JP("bnnn_dispatch")

	case 0xC: // RND Vx, NN
		e.Call("rng")
		e.AndImm(nn)
		e.LDAddrFromA(vx)

	case 0xD: // DRW Vx, Vy, N
		if err := compileDraw(e, n, vx, vy, addr); err != nil {
			return err
		}

	case 0xE:
		switch nn {
		case 0x9E: // SKP Vx
			e.Call("get_key")
			e.LD8Reg(emit.RegB, emit.RegA)
			e.LDAFromAddr(vx)
			e.CpReg(emit.RegB)
			e.JPCond(emit.CondZ, fallthroughLabel(addr+4, lastAddr))
		case 0xA1: // SKNP Vx
			e.Call("get_key")
			e.LD8Reg(emit.RegB, emit.RegA)
			e.LDAFromAddr(vx)
			e.CpReg(emit.RegB)
			e.JPCond(emit.CondNZ, fallthroughLabel(addr+4, lastAddr))
		default:
			e.Nop()
		}

	case 0xF:
		compileFVariant(e, nn, vx, addr)

	default:
		e.Nop()
	}
	return nil
}

func compileALU(e *emit.Emitter, n uint8, vx, vy uint16, addr uint16) error {
	switch n {
	case 0x0: // LD Vx, Vy
		e.LDAFromAddr(vy)
		e.LDAddrFromA(vx)
	case 0x1: // OR
		e.LDAFromAddr(vy)
		e.LD8Reg(emit.RegB, emit.RegA)
		e.LDAFromAddr(vx)
		e.OrReg(emit.RegB)
		e.LDAddrFromA(vx)
	case 0x2: // AND
		e.LDAFromAddr(vy)
		e.LD8Reg(emit.RegB, emit.RegA)
		e.LDAFromAddr(vx)
		e.AndReg(emit.RegB)
		e.LDAddrFromA(vx)
	case 0x3: // XOR
		e.LDAFromAddr(vy)
		e.LD8Reg(emit.RegB, emit.RegA)
		e.LDAFromAddr(vx)
		e.XorReg(emit.RegB)
		e.LDAddrFromA(vx)
	case 0x4: // ADD, VF = carry
		e.LDAFromAddr(vy)
		e.LD8Reg(emit.RegB, emit.RegA)
		e.LDAFromAddr(vx)
		e.AddAReg(emit.RegB)
		e.LDAddrFromA(vx)
		e.LD8Imm(emit.RegA, 0)
		e.AdcAImm(0)
		e.LDAddrFromA(memmap.VF)
	case 0x5: // SUB, VF = NOT borrow
		noBorrow := fmt.Sprintf("sub_no_borrow_%03x", addr)
		e.LDAFromAddr(vy)
		e.LD8Reg(emit.RegB, emit.RegA)
		e.LDAFromAddr(vx)
		e.SubReg(emit.RegB)
		e.LDAddrFromA(vx)
		e.LD8Imm(emit.RegA, 1)
		e.JPCond(emit.CondNC, noBorrow)
		e.DecR8(emit.RegA)
		if err := e.DefLabel(noBorrow); err != nil {
			return err
		}
		e.LDAddrFromA(memmap.VF)
	case 0x6: // SHR, VF = old bit0
		e.LDAFromAddr(vx)
		e.SrlR(emit.RegA)
		e.LDAddrFromA(vx)
		e.LD8Imm(emit.RegA, 0)
		e.AdcAImm(0)
		e.LDAddrFromA(memmap.VF)
	case 0x7: // SUBN, VF = NOT borrow
		noBorrow := fmt.Sprintf("subn_no_borrow_%03x", addr)
		e.LDAFromAddr(vx)
		e.LD8Reg(emit.RegB, emit.RegA)
		e.LDAFromAddr(vy)
		e.SubReg(emit.RegB)
		e.LDAddrFromA(vx)
		e.LD8Imm(emit.RegA, 1)
		e.JPCond(emit.CondNC, noBorrow)
		e.DecR8(emit.RegA)
		if err := e.DefLabel(noBorrow); err != nil {
			return err
		}
		e.LDAddrFromA(memmap.VF)
	case 0xE: // SHL, VF = old bit7
		e.LDAFromAddr(vx)
		e.SlaR(emit.RegA)
		e.LDAddrFromA(vx)
		e.LD8Imm(emit.RegA, 0)
		e.AdcAImm(0)
		e.LDAddrFromA(memmap.VF)
	default:
		e.Nop()
	}
	return nil
}

// compileDraw computes the screen pointer (from Vy*8+Vx/8), the sprite
// data pointer (from I, distinguishing the built-in font from a
// custom in-ROM sprite the same way FX29 publishes its digit pointer),
// and the horizontal shift (Vx mod 8), then hands off to draw_sprite.
func compileDraw(e *emit.Emitter, n uint8, vx, vy uint16, addr uint16) error {
	notFont := fmt.Sprintf("draw_not_font_%03x", addr)
	haveSprite := fmt.Sprintf("draw_have_sprite_%03x", addr)

	e.LDAFromAddr(vx)
	e.AndImm(63)
	e.LD8Reg(emit.RegC, emit.RegA)
	e.AndImm(7)
	e.LDAddrFromA(memmap.DrawShiftScratch)
	e.LD8Reg(emit.RegA, emit.RegC)
	e.SrlR(emit.RegA)
	e.SrlR(emit.RegA)
	e.SrlR(emit.RegA)
	e.LD8Reg(emit.RegB, emit.RegA) // B = column byte (0-7)

	e.LDAFromAddr(vy)
	e.AndImm(31)
	e.LD8Imm(emit.RegH, 0)
	e.LD8Reg(emit.RegL, emit.RegA)
	e.AddHL(emit.RegHL)
	e.AddHL(emit.RegHL)
	e.AddHL(emit.RegHL) // HL = row*8
	e.LD8Imm(emit.RegD, 0)
	e.LD8Reg(emit.RegE, emit.RegB)
	e.AddHL(emit.RegDE) // HL = row*8 + column
	e.LD16Imm(emit.RegDE, memmap.Display)
	e.AddHL(emit.RegDE) // HL = screen pointer
	e.PushReg(emit.PairHL)

	// I below 0x50 is a font offset published by FX29; anything else is
	// a CHIP-8 virtual address into the RAM mirror.
	e.LDHLFromAddr(memmap.I)
	e.LD16Imm(emit.RegDE, 0x0050)
	e.OrReg(emit.RegA)
	e.SbcHL(emit.RegDE)
	e.JPCond(emit.CondNC, notFont)

	e.LDHLFromAddr(memmap.I)
	e.LD16Imm(emit.RegDE, memmap.Font)
	e.AddHL(emit.RegDE)
	e.JP(haveSprite)

	if err := e.DefLabel(notFont); err != nil {
		return err
	}
	e.LDHLFromAddr(memmap.I)
	e.LD16Imm(emit.RegDE, memmap.RAMBias)
	e.AddHL(emit.RegDE)

	if err := e.DefLabel(haveSprite); err != nil {
		return err
	}
	e.PopReg(emit.PairDE)
	e.LD8Imm(emit.RegA, n)
	e.Call("draw_sprite")
	e.LDAFromAddr(memmap.DrawCollideScratch)
	e.LDAddrFromA(memmap.VF)
	e.Call("refresh_display")
	return nil
}

// compileFVariant expands a single FX.. opcode, the timers, key wait,
// BCD, I arithmetic, font pointer, and block register transfer family.
func compileFVariant(e *emit.Emitter, nn byte, vx uint16, addr uint16) {
	switch nn {
	case 0x07: // LD Vx, DT
		e.LDAFromAddr(memmap.DT)
		e.LDAddrFromA(vx)
	case 0x0A: // LD Vx, K (blocking)
		e.Call("wait_key")
		e.LDAddrFromA(vx)
	case 0x15: // LD DT, Vx
		e.LDAFromAddr(vx)
		e.LDAddrFromA(memmap.DT)
	case 0x18: // LD ST, Vx
		e.LDAFromAddr(vx)
		e.LDAddrFromA(memmap.ST)
	case 0x1E: // ADD I, Vx
		e.LDHLFromAddr(memmap.I)
		e.LDAFromAddr(vx)
		e.LD8Imm(emit.RegD, 0)
		e.LD8Reg(emit.RegE, emit.RegA)
		e.AddHL(emit.RegDE)
		e.LDAddrFromHL(memmap.I)
	case 0x29: // LD F, Vx: I = 5 * low nibble of Vx, a byte offset from the font base.
		// Staying below 0x50 is what routes the next DRW through the
		// font table instead of the RAM mirror.
		e.LDAFromAddr(vx)
		e.AndImm(0x0F)
		e.LD8Imm(emit.RegH, 0)
		e.LD8Reg(emit.RegL, emit.RegA)
		e.LD8Reg(emit.RegD, emit.RegH)
		e.LD8Reg(emit.RegE, emit.RegL)
		e.AddHL(emit.RegHL)
		e.AddHL(emit.RegHL)
		e.AddHL(emit.RegDE)
		e.LDAddrFromHL(memmap.I)
	case 0x33: // LD B, Vx: BCD of Vx into (I),(I+1),(I+2)
		e.LDAFromAddr(vx)
		e.Call("bcd_store")
	case 0x55: // LD [I], V0..Vx
		e.LDHLFromAddr(memmap.I)
		e.LD16Imm(emit.RegDE, memmap.RAMBias)
		e.AddHL(emit.RegDE)
		e.ExDEHL()
		e.LD16Imm(emit.RegHL, memmap.V0)
		e.LD16Imm(emit.RegBC, uint16(vx-memmap.V0)+1)
		e.LDIR()
	case 0x65: // LD V0..Vx, [I]
		e.LDHLFromAddr(memmap.I)
		e.LD16Imm(emit.RegDE, memmap.RAMBias)
		e.AddHL(emit.RegDE) // HL = source = I + RAMBias
		e.LD16Imm(emit.RegDE, memmap.V0)
		e.LD16Imm(emit.RegBC, uint16(vx-memmap.V0)+1)
		e.LDIR()
	default:
		e.Nop()
	}
}
