package label

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestChipLabel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "c8_200", ChipLabel(0x200))
	assert.Equal(t, "c8_fff", ChipLabel(0xFFF))
}

func TestDefineAndLookup(t *testing.T) {
	t.Parallel()

	table := New()
	assert.NoError(t, table.Define("main", 0x0100))

	off, ok := table.Lookup("main")
	assert.True(t, ok)
	assert.Equal(t, uint16(0x0100), off)

	_, ok = table.Lookup("missing")
	assert.True(t, !ok)
}

func TestDefineDuplicate(t *testing.T) {
	t.Parallel()

	table := New()
	assert.NoError(t, table.Define("halt", 0x10))

	err := table.Define("halt", 0x20)
	assert.True(t, err != nil)

	var dupErr *DuplicateLabelError
	assert.True(t, asDuplicateLabelError(err, &dupErr))
	assert.Equal(t, "halt", dupErr.Name)
}

func TestResolvePatchesReferences(t *testing.T) {
	t.Parallel()

	table := New()
	img := make([]byte, 8)
	table.AddRef(2, "target")
	assert.NoError(t, table.Define("target", 0x1234))

	assert.NoError(t, table.Resolve(img))
	assert.Equal(t, byte(0x34), img[2])
	assert.Equal(t, byte(0x12), img[3])
}

func TestResolveUnknownLabel(t *testing.T) {
	t.Parallel()

	table := New()
	img := make([]byte, 4)
	table.AddRef(0, "nowhere")

	err := table.Resolve(img)
	assert.True(t, err != nil)

	var unknownErr *UnknownLabelError
	assert.True(t, asUnknownLabelError(err, &unknownErr))
	assert.Equal(t, "nowhere", unknownErr.Name)
}

func asDuplicateLabelError(err error, target **DuplicateLabelError) bool {
	e, ok := err.(*DuplicateLabelError)
	if ok {
		*target = e
	}
	return ok
}

func asUnknownLabelError(err error, target **UnknownLabelError) bool {
	e, ok := err.(*UnknownLabelError)
	if ok {
		*target = e
	}
	return ok
}
