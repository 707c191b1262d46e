// Package label tracks two things for the emitter: a table of named
// offsets into the emitted image, and a queue of forward references
// waiting on labels that have not been defined yet at the point they
// were used.
package label

import "fmt"

// ChipLabel returns the deterministic label name the compiler assigns
// to a scanned CHIP-8 instruction at the given address.
func ChipLabel(address uint16) string {
	return fmt.Sprintf("c8_%03x", address)
}

// Ref is a pending patch: two little-endian bytes at Offset in the
// image need to be overwritten with the resolved address of Name.
type Ref struct {
	Offset uint16
	Name   string
}

// Table tracks label definitions and the forward references against
// them, to be resolved once the whole image has been emitted.
type Table struct {
	defs map[string]uint16
	refs []Ref
}

// New returns an empty label table.
func New() *Table {
	return &Table{defs: make(map[string]uint16)}
}

// DuplicateLabelError is returned by Define when a label name has
// already been assigned an offset.
type DuplicateLabelError struct {
	Name string
}

func (e *DuplicateLabelError) Error() string {
	return fmt.Sprintf("duplicate label: %s", e.Name)
}

// Define records that name resolves to offset. It is an error to
// define the same name twice; every label, whether a per-instruction
// c8_XXX name or a runtime routine name, must be unique across the
// whole image.
func (t *Table) Define(name string, offset uint16) error {
	if _, exists := t.defs[name]; exists {
		return &DuplicateLabelError{Name: name}
	}
	t.defs[name] = offset
	return nil
}

// Lookup returns the offset name was defined at, if any.
func (t *Table) Lookup(name string) (uint16, bool) {
	off, ok := t.defs[name]
	return off, ok
}

// AddRef queues a forward reference: the two bytes at offset should be
// patched with the final address of name once it is known.
func (t *Table) AddRef(offset uint16, name string) {
	t.refs = append(t.refs, Ref{Offset: offset, Name: name})
}

// UnknownLabelError is returned by Resolve when a referenced label was
// never defined anywhere in the image.
type UnknownLabelError struct {
	Name   string
	Offset uint16
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("unknown label %q referenced at offset $%04X", e.Name, e.Offset)
}

// Resolve patches every queued reference into img, writing the
// resolved address little-endian as the Z80 expects 16-bit immediates.
// It returns the first UnknownLabelError encountered.
func (t *Table) Resolve(img []byte) error {
	for _, ref := range t.refs {
		addr, ok := t.defs[ref.Name]
		if !ok {
			return &UnknownLabelError{Name: ref.Name, Offset: ref.Offset}
		}
		img[ref.Offset] = byte(addr)
		img[ref.Offset+1] = byte(addr >> 8)
	}
	return nil
}
