// Package memmap defines the fixed memory layout of the compiled Z80
// image. Every address here is part of the target's contract with the
// runtime routines in internal/runtime and the opcode templates in
// internal/codegen; none of it is negotiable at compile time.
package memmap

// Fixed addresses in the 32 KiB output image.
const (
	CodeStart = 0x0000 // cold boot vector, jumps to Main
	ImageSize = 0x8000 // full ROM image size written to disk

	// CHIP-8 virtual machine state, mapped into RAM above the code area.
	V0    = 0x8000 // V0..VF, 16 bytes
	VF    = V0 + 0xF // collision/carry/borrow flag register
	I     = 0x8010 // 16-bit index register
	SP    = 0x8012 // CHIP-8 call stack pointer (byte count, 0..16)
	DT    = 0x8013 // delay timer, storage only
	ST    = 0x8014 // sound timer, storage only
	Key   = 0x8015 // last polled key, 0xFF for none
	RNG   = 0x8016 // 2 byte LFSR state

	// Scratch bytes used by the sub-byte sprite drawer and the display
	// refresh routine. These sit in the gap between the LFSR state and
	// the CHIP-8 call stack; the memory map only pins the ranges below,
	// it does not reserve this gap for anything else. draw_sprite and
	// refresh_display never run concurrently, but each gets its own byte
	// rather than aliasing for clarity.
	DrawShiftScratch   = 0x8018
	DrawRowScratch     = 0x8019
	DrawCollideScratch = 0x801A
	DispRowScratch     = 0x801B

	Stack   = 0x8100 // CHIP-8 return address stack, 16 entries * 2 bytes
	Display = 0x8200 // 64x32 1bpp framebuffer, 256 bytes
	Font    = 0x8300 // built-in hex digit font, 16 glyphs * 5 bytes

	// RAM mirrors the CHIP-8 program's own address space (0x200 upward)
	// for every [I]-addressed access: FX33/FX55/FX65 and DXYN's
	// non-font sprite fetch all translate a CHIP-8 virtual address into
	// this region rather than treating I as a literal host pointer,
	// since I can point anywhere in the conceptual 4 KiB CHIP-8 memory,
	// not only at the bytes the ROM file actually supplied. GenerateMain
	// seeds it from the embedded ROM at boot; writes after that are
	// real, live RAM.
	RAM = 0x8400

	// RAMBias converts a CHIP-8 virtual address A (A >= 0x200) into its
	// host pointer: host = A + RAMBias. Chosen so CHIP-8 address 0x200,
	// the first byte of any ROM, lands exactly on RAM.
	RAMBias = RAM - 0x0200

	AciaCtrl = 0x80 // 6850 ACIA control/status port
	AciaData = 0x81 // 6850 ACIA data port
)
