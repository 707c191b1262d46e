package emit

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestOffsetTracksEmission(t *testing.T) {
	t.Parallel()

	e := New()
	assert.Equal(t, uint16(0), e.Offset())

	e.Byte(0x00)
	assert.Equal(t, uint16(1), e.Offset())

	e.Word16(0x1234)
	assert.Equal(t, uint16(3), e.Offset())

	e.Raw([]byte{1, 2, 3})
	assert.Equal(t, uint16(6), e.Offset())
}

func TestWord16IsLittleEndian(t *testing.T) {
	t.Parallel()

	e := New()
	e.Word16(0x0100)
	assert.Equal(t, []byte{0x00, 0x01}, e.Bytes())
}

func TestLoadEncodings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		emit func(e *Emitter)
		want []byte
	}{
		{"LD A,n", func(e *Emitter) { e.LD8Imm(RegA, 0x42) }, []byte{0x3E, 0x42}},
		{"LD B,n", func(e *Emitter) { e.LD8Imm(RegB, 0x07) }, []byte{0x06, 0x07}},
		{"LD (HL),n", func(e *Emitter) { e.LD8Imm(RegIndHL, 0x00) }, []byte{0x36, 0x00}},
		{"LD A,B", func(e *Emitter) { e.LD8Reg(RegA, RegB) }, []byte{0x78}},
		{"LD E,A", func(e *Emitter) { e.LD8Reg(RegE, RegA) }, []byte{0x5F}},
		{"LD A,(HL)", func(e *Emitter) { e.LD8Reg(RegA, RegIndHL) }, []byte{0x7E}},
		{"LD HL,nn", func(e *Emitter) { e.LD16Imm(RegHL, 0x8200) }, []byte{0x21, 0x00, 0x82}},
		{"LD SP,nn", func(e *Emitter) { e.LD16Imm(RegSP, 0x0000) }, []byte{0x31, 0x00, 0x00}},
		{"LD A,(nn)", func(e *Emitter) { e.LDAFromAddr(0x8000) }, []byte{0x3A, 0x00, 0x80}},
		{"LD (nn),A", func(e *Emitter) { e.LDAddrFromA(0x8013) }, []byte{0x32, 0x13, 0x80}},
		{"LD HL,(nn)", func(e *Emitter) { e.LDHLFromAddr(0x8010) }, []byte{0x2A, 0x10, 0x80}},
		{"LD (nn),HL", func(e *Emitter) { e.LDAddrFromHL(0x8010) }, []byte{0x22, 0x10, 0x80}},
		{"LD A,(DE)", func(e *Emitter) { e.LDAIndDE() }, []byte{0x1A}},
		{"LD (DE),A", func(e *Emitter) { e.LDIndDEA() }, []byte{0x12}},
		{"EX DE,HL", func(e *Emitter) { e.ExDEHL() }, []byte{0xEB}},
		{"LDIR", func(e *Emitter) { e.LDIR() }, []byte{0xED, 0xB0}},
		{"LD BC,(nn)", func(e *Emitter) { e.LD16FromAddr(RegBC, 0x8100) }, []byte{0xED, 0x4B, 0x00, 0x81}},
		{"LD (nn),BC", func(e *Emitter) { e.LD16ToAddr(RegBC, 0x8100) }, []byte{0xED, 0x43, 0x00, 0x81}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := New()
			tt.emit(e)
			assert.Equal(t, tt.want, e.Bytes())
		})
	}
}

func TestALUEncodings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		emit func(e *Emitter)
		want []byte
	}{
		{"ADD A,B", func(e *Emitter) { e.AddAReg(RegB) }, []byte{0x80}},
		{"ADC A,n", func(e *Emitter) { e.AdcAImm(0) }, []byte{0xCE, 0x00}},
		{"SUB B", func(e *Emitter) { e.SubReg(RegB) }, []byte{0x90}},
		{"SUB n", func(e *Emitter) { e.SubImm(100) }, []byte{0xD6, 0x64}},
		{"AND n", func(e *Emitter) { e.AndImm(0x0F) }, []byte{0xE6, 0x0F}},
		{"XOR A", func(e *Emitter) { e.XorReg(RegA) }, []byte{0xAF}},
		{"OR A", func(e *Emitter) { e.OrReg(RegA) }, []byte{0xB7}},
		{"CP n", func(e *Emitter) { e.CpImm(0xFF) }, []byte{0xFE, 0xFF}},
		{"CP B", func(e *Emitter) { e.CpReg(RegB) }, []byte{0xB8}},
		{"INC A", func(e *Emitter) { e.IncR8(RegA) }, []byte{0x3C}},
		{"DEC B", func(e *Emitter) { e.DecR8(RegB) }, []byte{0x05}},
		{"INC HL", func(e *Emitter) { e.IncR16(RegHL) }, []byte{0x23}},
		{"DEC DE", func(e *Emitter) { e.DecR16(RegDE) }, []byte{0x1B}},
		{"ADD HL,DE", func(e *Emitter) { e.AddHL(RegDE) }, []byte{0x19}},
		{"ADD HL,HL", func(e *Emitter) { e.AddHL(RegHL) }, []byte{0x29}},
		{"SBC HL,DE", func(e *Emitter) { e.SbcHL(RegDE) }, []byte{0xED, 0x52}},
		{"SRL H", func(e *Emitter) { e.SrlR(RegH) }, []byte{0xCB, 0x3C}},
		{"RR L", func(e *Emitter) { e.RrR(RegL) }, []byte{0xCB, 0x1D}},
		{"SLA A", func(e *Emitter) { e.SlaR(RegA) }, []byte{0xCB, 0x27}},
		{"RLC E", func(e *Emitter) { e.RlcR(RegE) }, []byte{0xCB, 0x03}},
		{"RLCA", func(e *Emitter) { e.RlcA() }, []byte{0x07}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := New()
			tt.emit(e)
			assert.Equal(t, tt.want, e.Bytes())
		})
	}
}

func TestControlFlowEncodings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		emit func(e *Emitter)
		want []byte
	}{
		{"JP (HL)", func(e *Emitter) { e.JPIndHL() }, []byte{0xE9}},
		{"RET", func(e *Emitter) { e.Ret() }, []byte{0xC9}},
		{"RET Z", func(e *Emitter) { e.RetCond(CondZ) }, []byte{0xC8}},
		{"RET NC", func(e *Emitter) { e.RetCond(CondNC) }, []byte{0xD0}},
		{"PUSH AF", func(e *Emitter) { e.PushReg(PairAF) }, []byte{0xF5}},
		{"POP HL", func(e *Emitter) { e.PopReg(PairHL) }, []byte{0xE1}},
		{"PUSH DE", func(e *Emitter) { e.PushReg(PairDE) }, []byte{0xD5}},
		{"OUT (n),A", func(e *Emitter) { e.OutPortA(0x80) }, []byte{0xD3, 0x80}},
		{"IN A,(n)", func(e *Emitter) { e.InAPort(0x81) }, []byte{0xDB, 0x81}},
		{"HALT", func(e *Emitter) { e.Halt() }, []byte{0x76}},
		{"NOP", func(e *Emitter) { e.Nop() }, []byte{0x00}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := New()
			tt.emit(e)
			assert.Equal(t, tt.want, e.Bytes())
		})
	}
}

func TestBranchesPatchThroughLabelTable(t *testing.T) {
	t.Parallel()

	e := New()
	e.JP("target")              // 3 bytes, placeholder at offset 1
	e.JPCond(CondNZ, "target")  // 3 bytes, placeholder at offset 4
	e.Call("target")            // 3 bytes, placeholder at offset 7
	assert.NoError(t, e.DefLabel("target"))
	e.Ret()

	img := make([]byte, 16)
	copy(img, e.Bytes())
	assert.NoError(t, e.Labels.Resolve(img))

	assert.Equal(t, byte(0xC3), img[0])
	assert.Equal(t, byte(0x09), img[1])
	assert.Equal(t, byte(0x00), img[2])
	assert.Equal(t, byte(0xC2), img[3])
	assert.Equal(t, byte(0x09), img[4])
	assert.Equal(t, byte(0xCD), img[6])
	assert.Equal(t, byte(0x09), img[7])
	assert.Equal(t, byte(0xC9), img[9])
}

func TestLD16ImmLabelPatches(t *testing.T) {
	t.Parallel()

	e := New()
	e.LD16ImmLabel(RegHL, "data")
	assert.NoError(t, e.DefLabel("data"))
	e.Byte(0xAA)

	img := make([]byte, 8)
	copy(img, e.Bytes())
	assert.NoError(t, e.Labels.Resolve(img))

	assert.Equal(t, byte(0x21), img[0])
	assert.Equal(t, byte(0x03), img[1])
	assert.Equal(t, byte(0x00), img[2])
}
