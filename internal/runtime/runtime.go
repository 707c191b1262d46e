// Package runtime generates the fixed Z80 code every compiled image
// carries regardless of what CHIP-8 program it wraps: the cold boot
// header, VM state initialization, and the small library of routines
// (display refresh, font copy, pseudo-random source, serial I/O,
// sprite drawing) the opcode templates in internal/codegen call into.
//
// Every routine here is emitted exactly once per image and referenced
// by name through the shared label table, the same way the opcode
// templates reference c8_XXX instruction labels.
//
// The delay and sound timers (memmap.DT, memmap.ST) are storage only:
// FX07/FX15/FX18 read and write them, but no routine here decrements
// them, so they hold whatever was last written.
package runtime

import (
	"github.com/chip8xc/chip8xc/internal/emit"
	"github.com/chip8xc/chip8xc/internal/memmap"
)

// Banner is the text printed once at boot, before control passes to
// the translated CHIP-8 program.
const Banner = "CHIP-8 on Z80\r\n"

// cursorHome is the ANSI escape sequence that homes the cursor before
// each display refresh, so frames overwrite in place instead of
// scrolling the terminal.
const cursorHome = "\x1b[2;1H"

// GenerateHeader emits the cold boot vector at memmap.CodeStart and
// pads the image with zero bytes up to bootPad, leaving the low
// memory region conventionally reserved for RST vectors on Z80
// hardware untouched by runtime code.
func GenerateHeader(e *emit.Emitter) {
	e.JP("main")
	for e.Offset() < bootPad {
		e.Byte(0x00)
	}
}

const bootPad = 0x0100

// GenerateMain emits the "main" label: stack setup, VM state
// initialization, and the jump to entry, the label of the translated
// program's first instruction ("halt" when the scanner produced no
// instructions at all). romLen is the size of the embedded ROM, copied
// into the memmap.RAM mirror so FX33/FX55/FX65 and DXYN's non-font
// sprite fetch have live, writable memory to address through I.
func GenerateMain(e *emit.Emitter, romLen uint16, entry string) error {
	if err := e.DefLabel("main"); err != nil {
		return err
	}

	// SP = 0x0000 wraps to the top of the 64K address space on the
	// first push, giving the runtime the entire space above the image
	// as its machine stack.
	e.LD16Imm(emit.RegSP, 0x0000)
	e.Call("acia_init")

	// Zero every CHIP-8 register, I, SP, the timers, the key and RNG
	// scratch bytes, and the sprite shift scratch byte in one pass: they
	// sit in one contiguous range from V0 through DrawShiftScratch. The
	// remaining draw/refresh scratch bytes are not cleared here; the
	// routines that use them write them before reading.
	e.LD16Imm(emit.RegHL, memmap.V0)
	e.LD8Imm(emit.RegIndHL, 0)
	e.LD16Imm(emit.RegDE, memmap.V0+1)
	e.LD16Imm(emit.RegBC, (memmap.DrawShiftScratch - memmap.V0))
	e.LDIR()

	// Seed the LFSR with a fixed, non-zero state. An all-zero state is
	// a fixed point of the feedback function and never produces another
	// value.
	e.LD8Imm(emit.RegA, 0xAC)
	e.LDAddrFromA(memmap.RNG)
	e.LD8Imm(emit.RegA, 0xE1)
	e.LDAddrFromA(memmap.RNG + 1)

	e.Call("cls")
	e.Call("copy_font")
	e.Call("print_banner")

	// Seed the RAM mirror from the embedded ROM so every [I]-addressed
	// opcode has real memory to read and write.
	e.LD16ImmLabel(emit.RegHL, "chip8_rom_data")
	e.LD16Imm(emit.RegDE, memmap.RAM)
	e.LD16Imm(emit.RegBC, romLen)
	e.LDIR()

	e.JP(entry)
	return nil
}

// GenerateRoutines emits the fixed runtime library: serial I/O, the
// font table and copy routine, display clear/refresh, the
// pseudo-random source, keyboard polling, the sub-byte sprite drawer,
// and the BNNN computed-jump dispatcher. It must run after every
// CHIP-8 instruction has been emitted and labeled, because the BNNN
// dispatch table it embeds needs the final set of c8_XXX labels.
func GenerateRoutines(e *emit.Emitter, jumpTable []JumpEntry) error {
	for _, gen := range []func(*emit.Emitter) error{
		genAciaInit,
		genPrintChar,
		genPrintString,
		genPrintBanner,
		genCls,
		genCopyFont,
		genFontROM,
		genRNG,
		genAsciiToHex,
		genGetKey,
		genWaitKey,
		genChip8PushStack,
		genChip8PopStack,
		genBcdStore,
		genDrawSprite,
		genRefreshDisplay,
	} {
		if err := gen(e); err != nil {
			return err
		}
	}
	if err := GenerateBnnnDispatch(e, jumpTable); err != nil {
		return err
	}
	return genHalt(e)
}

func genHalt(e *emit.Emitter) error {
	if err := e.DefLabel("halt"); err != nil {
		return err
	}
	e.Halt()
	e.JP("halt")
	return nil
}

// genAciaInit resets the 6850 ACIA and configures it for 8 data bits,
// one stop bit, a /16 clock divider and interrupts disabled.
func genAciaInit(e *emit.Emitter) error {
	if err := e.DefLabel("acia_init"); err != nil {
		return err
	}
	e.LD8Imm(emit.RegA, 0x03) // master reset
	e.OutPortA(memmap.AciaCtrl)
	e.LD8Imm(emit.RegA, 0x15) // /16, 8N1, no interrupt
	e.OutPortA(memmap.AciaCtrl)
	e.Ret()
	return nil
}

// genPrintChar blocks until the ACIA's transmit register is empty
// (status bit 1) then writes the character in A.
func genPrintChar(e *emit.Emitter) error {
	if err := e.DefLabel("print_char"); err != nil {
		return err
	}
	e.PushReg(emit.PairAF)
	if err := e.DefLabel("print_char_wait"); err != nil {
		return err
	}
	e.InAPort(memmap.AciaCtrl)
	e.AndImm(0x02)
	e.JPCond(emit.CondZ, "print_char_wait")
	e.PopReg(emit.PairAF)
	e.OutPortA(memmap.AciaData)
	e.Ret()
	return nil
}

// genPrintString prints the null-terminated string pointed to by HL.
func genPrintString(e *emit.Emitter) error {
	if err := e.DefLabel("print_string"); err != nil {
		return err
	}
	e.LD8Reg(emit.RegA, emit.RegIndHL)
	e.OrReg(emit.RegA)
	e.RetCond(emit.CondZ)
	e.Call("print_char")
	e.IncR16(emit.RegHL)
	e.JP("print_string")
	return nil
}

func genPrintBanner(e *emit.Emitter) error {
	if err := e.DefLabel("print_banner"); err != nil {
		return err
	}
	e.LD16ImmLabel(emit.RegHL, "banner_str")
	e.JP("print_string")

	if err := e.DefLabel("banner_str"); err != nil {
		return err
	}
	e.Raw(append([]byte(Banner), 0))

	if err := e.DefLabel("cursor_home_str"); err != nil {
		return err
	}
	e.Raw(append([]byte(cursorHome), 0))
	return nil
}

// genCls clears the 256 byte display buffer using the classic
// self-propagating LDIR fill: write one zero byte, then let LDIR copy
// it forward one position at a time.
func genCls(e *emit.Emitter) error {
	if err := e.DefLabel("cls"); err != nil {
		return err
	}
	e.LD16Imm(emit.RegHL, memmap.Display)
	e.LD8Imm(emit.RegIndHL, 0)
	e.LD16Imm(emit.RegDE, memmap.Display+1)
	e.LD16Imm(emit.RegBC, 255)
	e.LDIR()
	e.Ret()
	return nil
}

// fontGlyphs is the built-in 4x5 hex digit font, one row of five
// bytes per digit 0-F.
var fontGlyphs = []byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

func genFontROM(e *emit.Emitter) error {
	if err := e.DefLabel("font_rom"); err != nil {
		return err
	}
	e.Raw(fontGlyphs)
	return nil
}

func genCopyFont(e *emit.Emitter) error {
	if err := e.DefLabel("copy_font"); err != nil {
		return err
	}
	e.LD16ImmLabel(emit.RegHL, "font_rom")
	e.LD16Imm(emit.RegDE, memmap.Font)
	e.LD16Imm(emit.RegBC, uint16(len(fontGlyphs)))
	e.LDIR()
	e.Ret()
	return nil
}

// genRNG advances a 16-bit Galois LFSR stored at memmap.RNG and
// returns its new low byte in A. The feedback taps (0xB400) give a
// maximal-length sequence through all 65535 non-zero states. This is a
// source of varying bytes for CXNN, not a cryptographic generator.
func genRNG(e *emit.Emitter) error {
	if err := e.DefLabel("rng"); err != nil {
		return err
	}
	e.LDHLFromAddr(memmap.RNG)
	e.SrlR(emit.RegH)
	e.RrR(emit.RegL)
	e.JPCond(emit.CondNC, "rng_no_feedback")
	e.LD8Reg(emit.RegA, emit.RegH)
	e.XorImm(0xB4)
	e.LD8Reg(emit.RegH, emit.RegA)
	if err := e.DefLabel("rng_no_feedback"); err != nil {
		return err
	}
	e.LDAddrFromHL(memmap.RNG)
	e.LD8Reg(emit.RegA, emit.RegL)
	e.Ret()
	return nil
}

// genAsciiToHex maps an ASCII '0'-'9'/'a'-'f'/'A'-'F' character in A to
// its 4-bit value, or 0xFF if it is not a hex digit.
func genAsciiToHex(e *emit.Emitter) error {
	if err := e.DefLabel("ascii_to_hex"); err != nil {
		return err
	}
	e.CpImm('0')
	e.JPCond(emit.CondC, "ascii_to_hex_bad")
	e.CpImm('9' + 1)
	e.JPCond(emit.CondNC, "ascii_to_hex_alpha")
	e.SubImm('0')
	e.Ret()

	// Both letter cases are accepted; terminals differ on what they
	// send for the same keypress.
	if err := e.DefLabel("ascii_to_hex_alpha"); err != nil {
		return err
	}
	e.CpImm('a')
	e.JPCond(emit.CondC, "ascii_to_hex_upper")
	e.CpImm('f' + 1)
	e.JPCond(emit.CondNC, "ascii_to_hex_bad")
	e.SubImm('a' - 10)
	e.Ret()

	if err := e.DefLabel("ascii_to_hex_upper"); err != nil {
		return err
	}
	e.CpImm('A')
	e.JPCond(emit.CondC, "ascii_to_hex_bad")
	e.CpImm('F' + 1)
	e.JPCond(emit.CondNC, "ascii_to_hex_bad")
	e.SubImm('A' - 10)
	e.Ret()

	if err := e.DefLabel("ascii_to_hex_bad"); err != nil {
		return err
	}
	e.LD8Imm(emit.RegA, 0xFF)
	e.Ret()
	return nil
}

// genGetKey polls the ACIA for a pending character without blocking,
// mapping it to a hex digit. It returns 0xFF in A (and stores that to
// memmap.Key) when nothing is waiting. Because the target has a serial
// terminal standing in for the 16-key keypad, "is this key currently
// held" is approximated as "was this the most recently received key",
// which is what EX9E/EXA1 below rely on.
func genGetKey(e *emit.Emitter) error {
	if err := e.DefLabel("get_key"); err != nil {
		return err
	}
	e.InAPort(memmap.AciaCtrl)
	e.AndImm(0x01)
	e.JPCond(emit.CondZ, "get_key_none")
	e.InAPort(memmap.AciaData)
	e.Call("ascii_to_hex")
	e.JP("get_key_store")

	if err := e.DefLabel("get_key_none"); err != nil {
		return err
	}
	e.LD8Imm(emit.RegA, 0xFF)

	if err := e.DefLabel("get_key_store"); err != nil {
		return err
	}
	e.LDAddrFromA(memmap.Key)
	e.Ret()
	return nil
}

func genWaitKey(e *emit.Emitter) error {
	if err := e.DefLabel("wait_key"); err != nil {
		return err
	}
	e.Call("get_key")
	e.CpImm(0xFF)
	e.JPCond(emit.CondZ, "wait_key")
	e.Ret()
	return nil
}

// genChip8PushStack pushes the native return address in DE onto the
// software CHIP-8 call stack at memmap.Stack, indexed by the one-byte
// depth counter at memmap.SP. It is a normal CALL/RET subroutine: the
// 2NNN template calls it, then jumps straight to the callee.
func genChip8PushStack(e *emit.Emitter) error {
	if err := e.DefLabel("chip8_push_stack"); err != nil {
		return err
	}
	e.LDAFromAddr(memmap.SP)
	e.LD8Imm(emit.RegH, 0)
	e.LD8Reg(emit.RegL, emit.RegA)
	e.AddHL(emit.RegHL)
	e.LD16Imm(emit.RegBC, memmap.Stack)
	e.AddHL(emit.RegBC)
	e.LD8Reg(emit.RegA, emit.RegE)
	e.LD8Reg(emit.RegIndHL, emit.RegA)
	e.IncR16(emit.RegHL)
	e.LD8Reg(emit.RegA, emit.RegD)
	e.LD8Reg(emit.RegIndHL, emit.RegA)
	e.LDAFromAddr(memmap.SP)
	e.IncR8(emit.RegA)
	e.LDAddrFromA(memmap.SP)
	e.Ret()
	return nil
}

// genChip8PopStack loads the most recently pushed return address into
// DE and jumps to it via PUSH DE; RET. The 00EE template reaches this
// with JP, never CALL: a CALL here would leave its own return address
// sitting under the popped one and grow the hardware stack forever.
func genChip8PopStack(e *emit.Emitter) error {
	if err := e.DefLabel("chip8_pop_stack"); err != nil {
		return err
	}
	e.LDAFromAddr(memmap.SP)
	e.DecR8(emit.RegA)
	e.LDAddrFromA(memmap.SP)
	e.LD8Imm(emit.RegH, 0)
	e.LD8Reg(emit.RegL, emit.RegA)
	e.AddHL(emit.RegHL)
	e.LD16Imm(emit.RegBC, memmap.Stack)
	e.AddHL(emit.RegBC)
	e.LD8Reg(emit.RegA, emit.RegIndHL)
	e.LD8Reg(emit.RegE, emit.RegA)
	e.IncR16(emit.RegHL)
	e.LD8Reg(emit.RegA, emit.RegIndHL)
	e.LD8Reg(emit.RegD, emit.RegA)
	e.PushReg(emit.PairDE)
	e.Ret()
	return nil
}

// genBcdStore writes the binary-coded-decimal digits of the value in A
// to (I), (I+1), (I+2), most significant first. The target has no
// divide instruction, so each digit falls out of a repeated-subtract
// loop against its place value.
func genBcdStore(e *emit.Emitter) error {
	if err := e.DefLabel("bcd_store"); err != nil {
		return err
	}
	e.LDHLFromAddr(memmap.I)
	e.LD16Imm(emit.RegDE, memmap.RAMBias)
	e.AddHL(emit.RegDE)
	e.LD8Imm(emit.RegB, 0)
	if err := e.DefLabel("bcd_hundreds_loop"); err != nil {
		return err
	}
	e.CpImm(100)
	e.JPCond(emit.CondC, "bcd_hundreds_done")
	e.SubImm(100)
	e.IncR8(emit.RegB)
	e.JP("bcd_hundreds_loop")

	if err := e.DefLabel("bcd_hundreds_done"); err != nil {
		return err
	}
	e.LD8Reg(emit.RegIndHL, emit.RegB)
	e.IncR16(emit.RegHL)

	e.LD8Imm(emit.RegC, 0)
	if err := e.DefLabel("bcd_tens_loop"); err != nil {
		return err
	}
	e.CpImm(10)
	e.JPCond(emit.CondC, "bcd_tens_done")
	e.SubImm(10)
	e.IncR8(emit.RegC)
	e.JP("bcd_tens_loop")

	if err := e.DefLabel("bcd_tens_done"); err != nil {
		return err
	}
	e.LD8Reg(emit.RegIndHL, emit.RegC)
	e.IncR16(emit.RegHL)
	e.LD8Reg(emit.RegIndHL, emit.RegA)
	e.Ret()
	return nil
}

// genDrawSprite emits the sub-byte accurate sprite blitter. On entry,
// A holds the sprite height, HL the sprite data pointer, DE the
// address of the first display byte in the target row, and
// memmap.DrawShiftScratch the horizontal bit shift (Vx mod 8). It
// leaves 1 in memmap.DrawCollideScratch if any lit pixel was erased.
//
// It does not clip at the right edge of the display: a sprite drawn
// against the last byte of a row will bleed its second, shifted byte
// into the following row's first byte.
func genDrawSprite(e *emit.Emitter) error {
	if err := e.DefLabel("draw_sprite"); err != nil {
		return err
	}
	e.LDAddrFromA(memmap.DrawRowScratch)
	e.XorReg(emit.RegA)
	e.LDAddrFromA(memmap.DrawCollideScratch)

	// Zero-height sprites draw nothing; without this the row counter
	// would wrap to 255 on its first decrement.
	e.LDAFromAddr(memmap.DrawRowScratch)
	e.OrReg(emit.RegA)
	e.RetCond(emit.CondZ)

	if err := e.DefLabel("draw_sprite_row"); err != nil {
		return err
	}
	e.LD8Reg(emit.RegA, emit.RegIndHL) // A = sprite byte
	e.PushReg(emit.PairHL)             // save sprite ptr
	e.PushReg(emit.PairDE)             // save row-start screen ptr
	e.LD8Reg(emit.RegH, emit.RegA)
	e.LD8Imm(emit.RegL, 0) // HL = sprite byte : 0, the shift window
	e.LDAFromAddr(memmap.DrawShiftScratch)
	e.OrReg(emit.RegA)
	e.JPCond(emit.CondZ, "draw_sprite_shifted")
	e.LD8Reg(emit.RegB, emit.RegA)
	if err := e.DefLabel("draw_sprite_shift_loop"); err != nil {
		return err
	}
	e.SrlR(emit.RegH)
	e.RrR(emit.RegL)
	e.DecR8(emit.RegB)
	e.JPCond(emit.CondNZ, "draw_sprite_shift_loop")

	// H = sprite byte >> shift (goes into the row's first screen byte),
	// L = the bits shifted out, left justified (goes into the second).
	if err := e.DefLabel("draw_sprite_shifted"); err != nil {
		return err
	}
	e.LDAIndDE()
	e.AndReg(emit.RegH)
	e.JPCond(emit.CondZ, "draw_sprite_skip_hi")
	e.LD8Imm(emit.RegA, 1)
	e.LDAddrFromA(memmap.DrawCollideScratch)
	if err := e.DefLabel("draw_sprite_skip_hi"); err != nil {
		return err
	}
	e.LDAIndDE()
	e.XorReg(emit.RegH)
	e.LDIndDEA()
	e.IncR16(emit.RegDE)
	e.LDAIndDE()
	e.AndReg(emit.RegL)
	e.JPCond(emit.CondZ, "draw_sprite_skip_lo")
	e.LD8Imm(emit.RegA, 1)
	e.LDAddrFromA(memmap.DrawCollideScratch)
	if err := e.DefLabel("draw_sprite_skip_lo"); err != nil {
		return err
	}
	e.LDAIndDE()
	e.XorReg(emit.RegL)
	e.LDIndDEA()

	e.PopReg(emit.PairDE) // restore row-start screen ptr
	e.PopReg(emit.PairHL) // restore sprite ptr
	e.IncR16(emit.RegHL)  // advance to next sprite row byte

	// DE += 8, the row stride, via 8-bit add-with-carry since Z80 has
	// no add-immediate-to-DE.
	e.LD8Reg(emit.RegA, emit.RegE)
	e.AddAImm(8)
	e.LD8Reg(emit.RegE, emit.RegA)
	e.LD8Reg(emit.RegA, emit.RegD)
	e.AdcAImm(0)
	e.LD8Reg(emit.RegD, emit.RegA)

	e.LDAFromAddr(memmap.DrawRowScratch)
	e.DecR8(emit.RegA)
	e.LDAddrFromA(memmap.DrawRowScratch)
	e.JPCond(emit.CondNZ, "draw_sprite_row")
	e.Ret()
	return nil
}

// genRefreshDisplay renders the 256 byte framebuffer to the serial
// terminal as '#'/space glyphs, homing the cursor first so each frame
// overwrites the last instead of scrolling. Each byte's eight pixels
// are peeled off with RLC, which conveniently copies the bit rotated
// out into the carry flag.
func genRefreshDisplay(e *emit.Emitter) error {
	if err := e.DefLabel("refresh_display"); err != nil {
		return err
	}
	e.LD16ImmLabel(emit.RegHL, "cursor_home_str")
	e.Call("print_string")

	e.LD16Imm(emit.RegHL, memmap.Display)
	e.LD8Imm(emit.RegA, 32)
	e.LDAddrFromA(memmap.DispRowScratch)

	if err := e.DefLabel("refresh_row"); err != nil {
		return err
	}
	e.LD8Imm(emit.RegC, 8)

	if err := e.DefLabel("refresh_byte"); err != nil {
		return err
	}
	e.LD8Reg(emit.RegA, emit.RegIndHL)
	e.LD8Reg(emit.RegE, emit.RegA)
	e.LD8Imm(emit.RegB, 8)

	if err := e.DefLabel("refresh_bit"); err != nil {
		return err
	}
	e.RlcR(emit.RegE)
	e.JPCond(emit.CondC, "refresh_bit_set")
	e.LD8Imm(emit.RegA, ' ')
	e.JP("refresh_bit_print")

	if err := e.DefLabel("refresh_bit_set"); err != nil {
		return err
	}
	e.LD8Imm(emit.RegA, '#')

	if err := e.DefLabel("refresh_bit_print"); err != nil {
		return err
	}
	e.Call("print_char")
	e.DecR8(emit.RegB)
	e.JPCond(emit.CondNZ, "refresh_bit")

	e.IncR16(emit.RegHL)
	e.DecR8(emit.RegC)
	e.JPCond(emit.CondNZ, "refresh_byte")

	e.LD8Imm(emit.RegA, 13)
	e.Call("print_char")
	e.LD8Imm(emit.RegA, 10)
	e.Call("print_char")

	e.LDAFromAddr(memmap.DispRowScratch)
	e.DecR8(emit.RegA)
	e.LDAddrFromA(memmap.DispRowScratch)
	e.JPCond(emit.CondNZ, "refresh_row")
	e.Ret()
	return nil
}

// JumpEntry is one row of the BNNN computed-jump dispatch table: the
// CHIP-8 address of a scanned instruction and the native label that
// implements it.
type JumpEntry struct {
	Address uint16
	Label   string
}

// bnnnTableTerminator marks the end of the dispatch table; 0xFFFF is
// never a valid CHIP-8 instruction address (the address space tops
// out at 0xFFF).
const bnnnTableTerminator = 0xFFFF

// GenerateBnnnDispatch emits the jump table BNNN (JP V0,NNN) needs:
// CHIP-8 addresses do not map linearly onto native ones, so a computed
// jump has to go through a table of (address, native label) pairs and
// a linear-scan routine that lands on the matching label or falls
// through to halt. CHIP-8 ROMs are small enough, and this table is
// built once per image, that a linear scan over it is preferred over
// the bookkeeping a binary search would add.
func GenerateBnnnDispatch(e *emit.Emitter, table []JumpEntry) error {
	if err := e.DefLabel("bnnn_table"); err != nil {
		return err
	}
	for _, ent := range table {
		e.Word16(ent.Address)
		e.RefWord(ent.Label)
	}
	e.Word16(bnnnTableTerminator)
	e.Word16(0)

	// bnnn_dispatch: HL = target CHIP-8 address (V0 + NNN, computed by
	// the BNNN template), copied into BC so HL and DE are free to walk
	// the table.
	if err := e.DefLabel("bnnn_dispatch"); err != nil {
		return err
	}
	e.LD8Reg(emit.RegB, emit.RegH)
	e.LD8Reg(emit.RegC, emit.RegL)
	e.LD16ImmLabel(emit.RegDE, "bnnn_table")

	if err := e.DefLabel("bnnn_scan_loop"); err != nil {
		return err
	}
	e.LDAIndDE()
	e.LD8Reg(emit.RegL, emit.RegA)
	e.IncR16(emit.RegDE)
	e.LDAIndDE()
	e.LD8Reg(emit.RegH, emit.RegA)
	e.IncR16(emit.RegDE)
	e.CpImm(0xFF)
	e.JPCond(emit.CondNZ, "bnnn_scan_check")
	e.LD8Reg(emit.RegA, emit.RegL)
	e.CpImm(0xFF)
	e.JPCond(emit.CondZ, "bnnn_miss")

	if err := e.DefLabel("bnnn_scan_check"); err != nil {
		return err
	}
	e.LD8Reg(emit.RegA, emit.RegH)
	e.CpReg(emit.RegB)
	e.JPCond(emit.CondNZ, "bnnn_scan_next")
	e.LD8Reg(emit.RegA, emit.RegL)
	e.CpReg(emit.RegC)
	e.JPCond(emit.CondZ, "bnnn_scan_found")

	if err := e.DefLabel("bnnn_scan_next"); err != nil {
		return err
	}
	e.IncR16(emit.RegDE)
	e.IncR16(emit.RegDE)
	e.JP("bnnn_scan_loop")

	if err := e.DefLabel("bnnn_scan_found"); err != nil {
		return err
	}
	e.LDAIndDE()
	e.LD8Reg(emit.RegL, emit.RegA)
	e.IncR16(emit.RegDE)
	e.LDAIndDE()
	e.LD8Reg(emit.RegH, emit.RegA)
	e.JPIndHL()

	if err := e.DefLabel("bnnn_miss"); err != nil {
		return err
	}
	e.JP("halt")
	return nil
}
