// Package image assembles the emitter's growing byte buffer into the
// fixed-size output the target hardware expects: every resolvable
// label patched in, padded or rejected against the 32 KiB ceiling.
package image

import (
	"github.com/chip8xc/chip8xc/internal/compileerr"
	"github.com/chip8xc/chip8xc/internal/emit"
	"github.com/chip8xc/chip8xc/internal/memmap"
)

// Build resolves every pending label reference against e's buffer and
// returns a zero-padded memmap.ImageSize byte image ready to write to
// the output ROM file.
func Build(e *emit.Emitter) ([]byte, error) {
	buf := e.Bytes()
	if len(buf) > memmap.ImageSize {
		return nil, &compileerr.ImageTooLargeError{Size: len(buf), Limit: memmap.ImageSize}
	}

	img := make([]byte, memmap.ImageSize)
	copy(img, buf)

	if err := e.Labels.Resolve(img); err != nil {
		return nil, err
	}
	return img, nil
}
