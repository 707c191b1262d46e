package disasm

import (
	"bytes"
	"testing"

	"github.com/chip8xc/chip8xc/internal/decode"
	"github.com/retroenv/retrogolib/assert"
)

func TestDisassembleTrivialHalt(t *testing.T) {
	t.Parallel()

	rom := []byte{0x12, 0x00}
	var buf bytes.Buffer
	assert.NoError(t, Disassemble(&buf, rom))
	assert.Equal(t, "200: 1200  JP   200\n", buf.String())
}

func TestDisassembleIsIdempotent(t *testing.T) {
	t.Parallel()

	rom := []byte{0x60, 0x05, 0x70, 0x03, 0x12, 0x04}

	var first, second bytes.Buffer
	assert.NoError(t, Disassemble(&first, rom))
	assert.NoError(t, Disassemble(&second, rom))
	assert.Equal(t, first.String(), second.String())
}

func TestMnemonicUnknownFFamilyByte(t *testing.T) {
	t.Parallel()

	ins := decode.Decode(0xF099, 0x200) // NN=0x99 is not a defined FX.. variant
	assert.Equal(t, "??? F099", Mnemonic(ins))
}
