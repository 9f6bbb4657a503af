package resource

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-gl/common"
)

// Handle is an opaque resource identifier, independent of the native object name. Handles are
// issued from one counter shared by every resource kind and are never reused within a registry.
type Handle int

const (
	// None means "nothing bound".
	None Handle = 0

	// FirstHandle is the first handle a registry issues. Values below it are reserved sentinels.
	FirstHandle Handle = 1024
)

// Resource kind names used in InvalidHandleError.
const (
	KindBuffer       = "buffer"
	KindProgram      = "program"
	KindVertexArray  = "vertex array"
	KindTexture      = "texture"
	KindFramebuffer  = "framebuffer"
	KindRenderbuffer = "renderbuffer"
)

// Table holds the records of one resource kind.
type Table[T any] struct {
	kind    string
	records map[Handle]*T
}

func newTable[T any](kind string) *Table[T] {
	return &Table[T]{kind: kind, records: map[Handle]*T{}}
}

// Has reports whether h names a live record of this kind.
func (t *Table[T]) Has(h Handle) bool {
	_, ok := t.records[h]
	return ok
}

// Get returns the record for h.
//
// Parameters:
//   - h: the handle
//
// Returns:
//   - *T: the record
//   - error: a *common.InvalidHandleError naming this kind if h is absent
func (t *Table[T]) Get(h Handle) (*T, error) {
	rec, ok := t.records[h]
	if !ok {
		return nil, &common.InvalidHandleError{Kind: t.kind, Handle: int(h)}
	}
	return rec, nil
}

// Insert stores rec under h, replacing any previous record.
func (t *Table[T]) Insert(h Handle, rec *T) {
	t.records[h] = rec
}

// Remove deletes the record for h and returns it.
//
// Returns:
//   - *T: the removed record
//   - error: a *common.InvalidHandleError if h is absent
func (t *Table[T]) Remove(h Handle) (*T, error) {
	rec, err := t.Get(h)
	if err != nil {
		return nil, err
	}
	delete(t.records, h)
	return rec, nil
}

// Handles returns the live handles in ascending order.
func (t *Table[T]) Handles() []Handle {
	out := make([]Handle, 0, len(t.records))
	for h := range t.records {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of live records.
func (t *Table[T]) Len() int {
	return len(t.records)
}

// Kind returns the kind name used in errors.
func (t *Table[T]) Kind() string {
	return t.kind
}
