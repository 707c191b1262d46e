package cli

import (
	"os"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Options
	}{
		{
			name: "defaults",
			args: []string{"prog", "game.ch8"},
			want: Options{Input: "game.ch8", Output: "game.bin"},
		},
		{
			name: "explicit output",
			args: []string{"prog", "-o", "out.bin", "game.ch8"},
			want: Options{Input: "game.ch8", Output: "out.bin"},
		},
		{
			name: "explicit output after input file",
			args: []string{"prog", "game.ch8", "-o", "out.bin"},
			want: Options{Input: "game.ch8", Output: "out.bin"},
		},
		{
			name: "disasm flag after input file",
			args: []string{"prog", "game.ch8", "-disasm"},
			want: Options{Input: "game.ch8", Output: "game.bin", Disasm: true},
		},
		{
			name: "disasm flag",
			args: []string{"prog", "-disasm", "game.ch8"},
			want: Options{Input: "game.ch8", Output: "game.bin", Disasm: true},
		},
		{
			name: "d shorthand merges into disasm",
			args: []string{"prog", "-d", "game.ch8"},
			want: Options{Input: "game.ch8", Output: "game.bin", Disasm: true, Disasm2: true},
		},
		{
			name: "debug and quiet flags",
			args: []string{"prog", "-debug", "-q", "game.ch8"},
			want: Options{Input: "game.ch8", Output: "game.bin", Debug: true, Quiet: true},
		},
		{
			name: "input without ch8 suffix appends bin",
			args: []string{"prog", "game"},
			want: Options{Input: "game", Output: "game.bin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })
			os.Args = tt.args

			got, err := ParseFlags()
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlagsMissingInput(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"prog"}

	_, err := ParseFlags()
	assert.True(t, err != nil)

	_, ok := err.(*UsageError)
	assert.True(t, ok)
}

func TestParseFlagsUnexpectedArgument(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"prog", "game.ch8", "extra.ch8"}

	_, err := ParseFlags()
	assert.True(t, err != nil)

	_, ok := err.(*UsageError)
	assert.True(t, ok)
}

func TestDeriveOutputPath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "ch8 suffix", input: "game.ch8", want: "game.bin"},
		{name: "no suffix", input: "game", want: "game.bin"},
		{name: "nested path", input: "roms/game.ch8", want: "roms/game.bin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveOutputPath(tt.input))
		})
	}
}
