package runtime

import (
	"testing"

	"github.com/chip8xc/chip8xc/internal/emit"
	"github.com/retroenv/retrogolib/assert"
)

func TestFontGlyphTable(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 16*5, len(fontGlyphs))

	// Glyph 0 and glyph F pin both ends of the table against the
	// standard CHIP-8 bitmaps.
	assert.Equal(t, []byte{0xF0, 0x90, 0x90, 0x90, 0xF0}, fontGlyphs[:5])
	assert.Equal(t, []byte{0xF0, 0x80, 0xF0, 0x80, 0x80}, fontGlyphs[15*5:])
}

func TestGenerateHeaderPadsBootArea(t *testing.T) {
	t.Parallel()

	e := emit.New()
	GenerateHeader(e)

	assert.Equal(t, uint16(0x0100), e.Offset())
	assert.Equal(t, byte(0xC3), e.Bytes()[0])
	for _, b := range e.Bytes()[3:] {
		assert.Equal(t, byte(0x00), b)
	}
}

func TestGenerateMainDefinesEntryLabel(t *testing.T) {
	t.Parallel()

	e := emit.New()
	GenerateHeader(e)
	assert.NoError(t, GenerateMain(e, 2, "halt"))

	off, ok := e.Labels.Lookup("main")
	assert.True(t, ok)
	assert.Equal(t, uint16(0x0100), off)
}

func TestGenerateRoutinesDefinesAllEntryPoints(t *testing.T) {
	t.Parallel()

	e := emit.New()
	assert.NoError(t, GenerateRoutines(e, nil))

	for _, name := range []string{
		"acia_init",
		"print_char",
		"print_string",
		"print_banner",
		"banner_str",
		"cls",
		"copy_font",
		"font_rom",
		"rng",
		"ascii_to_hex",
		"get_key",
		"wait_key",
		"chip8_push_stack",
		"chip8_pop_stack",
		"bcd_store",
		"draw_sprite",
		"refresh_display",
		"bnnn_table",
		"bnnn_dispatch",
		"halt",
	} {
		_, ok := e.Labels.Lookup(name)
		assert.True(t, ok, "label not defined: "+name)
	}
}

func TestGenerateRoutinesIsEmittedOnceOnly(t *testing.T) {
	t.Parallel()

	// A second emission must collide on every label; the image carries
	// exactly one copy of the runtime.
	e := emit.New()
	assert.NoError(t, GenerateRoutines(e, nil))
	assert.True(t, GenerateRoutines(e, nil) != nil)
}

func TestGenerateBnnnDispatchEmbedsTable(t *testing.T) {
	t.Parallel()

	e := emit.New()
	table := []JumpEntry{
		{Address: 0x200, Label: "c8_200"},
		{Address: 0x202, Label: "c8_202"},
	}
	assert.NoError(t, GenerateBnnnDispatch(e, table))
	assert.NoError(t, e.Labels.Define("c8_200", 0x1234))
	assert.NoError(t, e.Labels.Define("c8_202", 0x5678))
	assert.NoError(t, e.Labels.Define("halt", 0x0040))

	img := make([]byte, 0x8000)
	copy(img, e.Bytes())
	assert.NoError(t, e.Labels.Resolve(img))

	off, ok := e.Labels.Lookup("bnnn_table")
	assert.True(t, ok)

	// Entry rows are (chip8 address, native address), little-endian,
	// terminated by 0xFFFF.
	assert.Equal(t, byte(0x00), img[off])
	assert.Equal(t, byte(0x02), img[off+1])
	assert.Equal(t, byte(0x34), img[off+2])
	assert.Equal(t, byte(0x12), img[off+3])
	assert.Equal(t, byte(0x02), img[off+4])
	assert.Equal(t, byte(0x02), img[off+5])
	assert.Equal(t, byte(0x78), img[off+6])
	assert.Equal(t, byte(0x56), img[off+7])
	assert.Equal(t, byte(0xFF), img[off+8])
	assert.Equal(t, byte(0xFF), img[off+9])
}
