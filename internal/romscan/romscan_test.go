package romscan

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestScanStopsAtSelfJump(t *testing.T) {
	t.Parallel()

	rom := []byte{0x12, 0x00} // JP 0x200, self-jump
	instructions := Scan(rom)

	assert.Equal(t, 1, len(instructions))
	assert.Equal(t, uint16(0x200), instructions[0].Address)
	assert.True(t, instructions[0].TargetsSelf())
}

func TestScanMultipleInstructions(t *testing.T) {
	t.Parallel()

	rom := []byte{0x60, 0x05, 0x70, 0x03, 0x12, 0x04} // LD V0,5; ADD V0,3; JP 0x204
	instructions := Scan(rom)

	assert.Equal(t, 3, len(instructions))
	assert.Equal(t, uint16(0x200), instructions[0].Address)
	assert.Equal(t, uint16(0x202), instructions[1].Address)
	assert.Equal(t, uint16(0x204), instructions[2].Address)
	assert.True(t, instructions[2].TargetsSelf())
}

func TestScanOddLengthIgnoresLastByte(t *testing.T) {
	t.Parallel()

	rom := []byte{0x12, 0x00, 0xFF} // trailing byte has no pair
	instructions := Scan(rom)

	assert.Equal(t, 1, len(instructions))
}

func TestScanEmptyROM(t *testing.T) {
	t.Parallel()

	instructions := Scan(nil)
	assert.Equal(t, 0, len(instructions))
}
