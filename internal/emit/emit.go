// Package emit is the byte-level Z80 encoder every runtime routine and
// opcode template writes through. It owns the growing image buffer and
// delegates label bookkeeping to internal/label.
//
// Every branch helper here takes a label name and emits an absolute
// JP/CALL, never a relative JR or DJNZ. That is deliberate: emitting
// only absolute branches means the emitter never needs a second pass
// to check whether a jump target is still in range after other code
// shifts it, which a relative-branch encoding would require.
package emit

import "github.com/chip8xc/chip8xc/internal/label"

// Reg8 identifies an 8-bit register in the standard Z80 bit pattern.
type Reg8 uint8

const (
	RegB Reg8 = 0
	RegC Reg8 = 1
	RegD Reg8 = 2
	RegE Reg8 = 3
	RegH Reg8 = 4
	RegL Reg8 = 5
	// RegIndHL addresses (HL) wherever an 8-bit register slot accepts it.
	RegIndHL Reg8 = 6
	RegA     Reg8 = 7
)

// Reg16 identifies a 16-bit register pair for the dd-coded instruction
// forms (LD rr,nn / INC rr / DEC rr / ADD HL,rr).
type Reg16 uint8

const (
	RegBC Reg16 = 0
	RegDE Reg16 = 1
	RegHL Reg16 = 2
	RegSP Reg16 = 3
)

// RegPair identifies a 16-bit register pair for PUSH/POP, which use AF
// instead of SP in the fourth slot.
type RegPair uint8

const (
	PairBC RegPair = 0
	PairDE RegPair = 1
	PairHL RegPair = 2
	PairAF RegPair = 3
)

// Cond identifies a Z80 condition code for conditional jumps, calls
// and returns.
type Cond uint8

const (
	CondNZ Cond = 0
	CondZ  Cond = 1
	CondNC Cond = 2
	CondC  Cond = 3
)

// Emitter appends Z80 machine code to an in-memory image and tracks
// labels and forward references against it through Labels.
type Emitter struct {
	buf    []byte
	Labels *label.Table
}

// New returns an emitter with an empty image and a fresh label table.
func New() *Emitter {
	return &Emitter{Labels: label.New()}
}

// Offset returns the current write position, the offset the next
// emitted byte will land at.
func (e *Emitter) Offset() uint16 {
	return uint16(len(e.buf))
}

// Bytes returns the image emitted so far.
func (e *Emitter) Bytes() []byte {
	return e.buf
}

// Byte appends a single raw byte.
func (e *Emitter) Byte(b byte) {
	e.buf = append(e.buf, b)
}

// Raw appends raw bytes verbatim, used for embedding tables and the
// CHIP-8 ROM itself.
func (e *Emitter) Raw(bs []byte) {
	e.buf = append(e.buf, bs...)
}

// Word16 appends a literal 16-bit little-endian value with no label
// involved.
func (e *Emitter) Word16(nn uint16) {
	e.buf = append(e.buf, byte(nn), byte(nn>>8))
}

// DefLabel defines name at the current offset.
func (e *Emitter) DefLabel(name string) error {
	return e.Labels.Define(name, e.Offset())
}

// RefWord appends a two-byte placeholder that will be patched during
// fixup with the resolved address of name.
func (e *Emitter) RefWord(name string) {
	e.Labels.AddRef(e.Offset(), name)
	e.Word16(0)
}

// --- loads ---

// LD8Imm emits LD r,n. r may be RegIndHL for LD (HL),n.
func (e *Emitter) LD8Imm(r Reg8, n byte) {
	e.Byte(0x06 + uint8(r)<<3)
	e.Byte(n)
}

// LD8Reg emits LD dst,src. Both may not simultaneously be RegIndHL
// (that slot is HALT).
func (e *Emitter) LD8Reg(dst, src Reg8) {
	e.Byte(0x40 + uint8(dst)<<3 + uint8(src))
}

// LD16Imm emits LD rr,nn.
func (e *Emitter) LD16Imm(rr Reg16, nn uint16) {
	e.Byte(0x01 + uint8(rr)<<4)
	e.Word16(nn)
}

// LD16ImmLabel emits LD rr,label, the address resolved at fixup time.
func (e *Emitter) LD16ImmLabel(rr Reg16, name string) {
	e.Byte(0x01 + uint8(rr)<<4)
	e.RefWord(name)
}

// LDAFromAddr emits LD A,(nn).
func (e *Emitter) LDAFromAddr(nn uint16) {
	e.Byte(0x3A)
	e.Word16(nn)
}

// LDAddrFromA emits LD (nn),A.
func (e *Emitter) LDAddrFromA(nn uint16) {
	e.Byte(0x32)
	e.Word16(nn)
}

// LDAIndBC emits LD A,(BC).
func (e *Emitter) LDAIndBC() { e.Byte(0x0A) }

// LDAIndDE emits LD A,(DE).
func (e *Emitter) LDAIndDE() { e.Byte(0x1A) }

// LDIndBCA emits LD (BC),A.
func (e *Emitter) LDIndBCA() { e.Byte(0x02) }

// LDIndDEA emits LD (DE),A.
func (e *Emitter) LDIndDEA() { e.Byte(0x12) }

// ExDEHL emits EX DE,HL.
func (e *Emitter) ExDEHL() { e.Byte(0xEB) }

// LDHLFromAddr emits LD HL,(nn), the direct 16-bit load.
func (e *Emitter) LDHLFromAddr(nn uint16) {
	e.Byte(0x2A)
	e.Word16(nn)
}

// LDAddrFromHL emits LD (nn),HL, the direct 16-bit store.
func (e *Emitter) LDAddrFromHL(nn uint16) {
	e.Byte(0x22)
	e.Word16(nn)
}

// LDIR emits the block-copy instruction: copies BC bytes from (HL) to
// (DE), incrementing both pointers, until BC reaches zero.
func (e *Emitter) LDIR() {
	e.Byte(0xED)
	e.Byte(0xB0)
}

// LD16FromAddr emits the ED-prefixed LD rr,(nn) direct load, valid for
// any of BC/DE/HL/SP (HL has a shorter unprefixed form too, see
// LDHLFromAddr, but this one is uniform across all four).
func (e *Emitter) LD16FromAddr(rr Reg16, nn uint16) {
	e.Byte(0xED)
	e.Byte(0x4B + uint8(rr)<<4)
	e.Word16(nn)
}

// LD16ToAddr emits the ED-prefixed LD (nn),rr direct store.
func (e *Emitter) LD16ToAddr(rr Reg16, nn uint16) {
	e.Byte(0xED)
	e.Byte(0x43 + uint8(rr)<<4)
	e.Word16(nn)
}

// SbcHL emits SBC HL,rr (16-bit subtract with borrow).
func (e *Emitter) SbcHL(rr Reg16) {
	e.Byte(0xED)
	e.Byte(0x42 + uint8(rr)<<4)
}

// AdcHL emits ADC HL,rr (16-bit add with carry).
func (e *Emitter) AdcHL(rr Reg16) {
	e.Byte(0xED)
	e.Byte(0x4A + uint8(rr)<<4)
}

// --- increment/decrement ---

// IncR8 emits INC r (r may be RegIndHL).
func (e *Emitter) IncR8(r Reg8) { e.Byte(0x04 + uint8(r)<<3) }

// DecR8 emits DEC r (r may be RegIndHL).
func (e *Emitter) DecR8(r Reg8) { e.Byte(0x05 + uint8(r)<<3) }

// IncR16 emits INC rr.
func (e *Emitter) IncR16(rr Reg16) { e.Byte(0x03 + uint8(rr)<<4) }

// DecR16 emits DEC rr.
func (e *Emitter) DecR16(rr Reg16) { e.Byte(0x0B + uint8(rr)<<4) }

// AddHL emits ADD HL,rr.
func (e *Emitter) AddHL(rr Reg16) { e.Byte(0x09 + uint8(rr)<<4) }

// --- accumulator ALU ---

const (
	aluAdd = 0
	aluAdc = 1
	aluSub = 2
	aluSbc = 3
	aluAnd = 4
	aluXor = 5
	aluOr  = 6
	aluCp  = 7
)

func (e *Emitter) aluReg(op uint8, r Reg8) { e.Byte(0x80 + op<<3 + uint8(r)) }
func (e *Emitter) aluImm(op uint8, n byte) { e.Byte(0xC6 + op<<3); e.Byte(n) }

func (e *Emitter) AddAReg(r Reg8) { e.aluReg(aluAdd, r) }
func (e *Emitter) AddAImm(n byte) { e.aluImm(aluAdd, n) }
func (e *Emitter) AdcAReg(r Reg8) { e.aluReg(aluAdc, r) }
func (e *Emitter) AdcAImm(n byte) { e.aluImm(aluAdc, n) }
func (e *Emitter) SubReg(r Reg8)  { e.aluReg(aluSub, r) }
func (e *Emitter) SubImm(n byte)  { e.aluImm(aluSub, n) }
func (e *Emitter) SbcAReg(r Reg8) { e.aluReg(aluSbc, r) }
func (e *Emitter) SbcAImm(n byte) { e.aluImm(aluSbc, n) }
func (e *Emitter) AndReg(r Reg8)  { e.aluReg(aluAnd, r) }
func (e *Emitter) AndImm(n byte)  { e.aluImm(aluAnd, n) }
func (e *Emitter) XorReg(r Reg8)  { e.aluReg(aluXor, r) }
func (e *Emitter) XorImm(n byte)  { e.aluImm(aluXor, n) }
func (e *Emitter) OrReg(r Reg8)   { e.aluReg(aluOr, r) }
func (e *Emitter) OrImm(n byte)   { e.aluImm(aluOr, n) }
func (e *Emitter) CpReg(r Reg8)   { e.aluReg(aluCp, r) }
func (e *Emitter) CpImm(n byte)   { e.aluImm(aluCp, n) }

// --- rotates and shifts ---

func (e *Emitter) cb(op uint8, r Reg8) { e.Byte(0xCB); e.Byte(op + uint8(r)) }

func (e *Emitter) RlcR(r Reg8) { e.cb(0x00, r) }
func (e *Emitter) RrcR(r Reg8) { e.cb(0x08, r) }
func (e *Emitter) RlR(r Reg8)  { e.cb(0x10, r) }
func (e *Emitter) RrR(r Reg8)  { e.cb(0x18, r) }
func (e *Emitter) SlaR(r Reg8) { e.cb(0x20, r) }
func (e *Emitter) SrlR(r Reg8) { e.cb(0x38, r) }

// RlcA emits the fast non-CB-prefixed RLCA.
func (e *Emitter) RlcA() { e.Byte(0x07) }

// --- stack ---

func (e *Emitter) PushReg(p RegPair) { e.Byte(0xC5 + uint8(p)<<4) }
func (e *Emitter) PopReg(p RegPair)  { e.Byte(0xC1 + uint8(p)<<4) }

// --- branches (absolute only, see package doc) ---

func (e *Emitter) JP(name string) {
	e.Byte(0xC3)
	e.RefWord(name)
}

func (e *Emitter) JPCond(cc Cond, name string) {
	e.Byte(0xC2 + uint8(cc)<<3)
	e.RefWord(name)
}

// JPIndHL emits JP (HL), the only computed jump form used, by the
// BNNN dispatch routine.
func (e *Emitter) JPIndHL() { e.Byte(0xE9) }

func (e *Emitter) Call(name string) {
	e.Byte(0xCD)
	e.RefWord(name)
}

func (e *Emitter) Ret() { e.Byte(0xC9) }

func (e *Emitter) RetCond(cc Cond) { e.Byte(0xC0 + uint8(cc)<<3) }

// --- I/O and control ---

func (e *Emitter) OutPortA(port byte) { e.Byte(0xD3); e.Byte(port) }
func (e *Emitter) InAPort(port byte)  { e.Byte(0xDB); e.Byte(port) }
func (e *Emitter) Halt()              { e.Byte(0x76) }
func (e *Emitter) Nop()               { e.Byte(0x00) }
