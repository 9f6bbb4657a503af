package resource

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/native"
)

// Payload is a typed buffer upload.
type Payload struct {
	Bytes  []byte
	Type   native.Enum
	Length int

	// Data is the payload as uploaded. []float64 input is held as the narrowed []float32.
	Data any
}

// InferPayload derives the element type and byte view of data for upload to target. Vertex
// targets accept the float, byte, short and int families; index targets accept unsigned byte,
// short and int only, and 32-bit indices require index32.
//
// Parameters:
//   - target: native.ARRAY_BUFFER or native.ELEMENT_ARRAY_BUFFER
//   - data: a typed slice
//   - index32: whether 32-bit indices are supported
//
// Returns:
//   - Payload: the typed payload
//   - error: wraps common.ErrUnsupported for a type the target does not accept
func InferPayload(target native.Enum, data any, index32 bool) (Payload, error) {
	var p Payload
	switch v := data.(type) {
	case []float32:
		p = Payload{Bytes: common.SliceToBytes(v), Type: native.FLOAT, Length: len(v), Data: v}
	case []float64:
		narrowed := make([]float32, len(v))
		for i, f := range v {
			narrowed[i] = float32(f)
		}
		p = Payload{Bytes: common.SliceToBytes(narrowed), Type: native.FLOAT, Length: len(v), Data: narrowed}
	case []int8:
		p = Payload{Bytes: common.SliceToBytes(v), Type: native.BYTE, Length: len(v), Data: v}
	case []uint8:
		p = Payload{Bytes: v, Type: native.UNSIGNED_BYTE, Length: len(v), Data: v}
	case []int16:
		p = Payload{Bytes: common.SliceToBytes(v), Type: native.SHORT, Length: len(v), Data: v}
	case []uint16:
		p = Payload{Bytes: common.SliceToBytes(v), Type: native.UNSIGNED_SHORT, Length: len(v), Data: v}
	case []int32:
		p = Payload{Bytes: common.SliceToBytes(v), Type: native.INT, Length: len(v), Data: v}
	case []uint32:
		p = Payload{Bytes: common.SliceToBytes(v), Type: native.UNSIGNED_INT, Length: len(v), Data: v}
	default:
		return Payload{}, fmt.Errorf("buffer payload of type %T: %w", data, common.ErrUnsupported)
	}

	if target == native.ELEMENT_ARRAY_BUFFER {
		switch p.Type {
		case native.UNSIGNED_BYTE, native.UNSIGNED_SHORT:
		case native.UNSIGNED_INT:
			if !index32 {
				return Payload{}, fmt.Errorf("32-bit indices: %w", common.ErrUnsupported)
			}
		default:
			return Payload{}, fmt.Errorf("index buffer payload of type %T: %w", data, common.ErrUnsupported)
		}
	}
	return p, nil
}

// TypeSize returns the size in bytes of one element of a native data type.
func TypeSize(t native.Enum) int {
	switch t {
	case native.BYTE, native.UNSIGNED_BYTE:
		return 1
	case native.SHORT, native.UNSIGNED_SHORT, native.HALF_FLOAT:
		return 2
	}
	return 4
}

// clonePayload copies the caller's slice so later mutation by the caller does not alter the
// retained copy.
func clonePayload(data any) any {
	switch v := data.(type) {
	case []float32:
		return append([]float32(nil), v...)
	case []int8:
		return append([]int8(nil), v...)
	case []uint8:
		return append([]uint8(nil), v...)
	case []int16:
		return append([]int16(nil), v...)
	case []uint16:
		return append([]uint16(nil), v...)
	case []int32:
		return append([]int32(nil), v...)
	case []uint32:
		return append([]uint32(nil), v...)
	}
	return data
}

// Apply records p as the last upload of b.
//
// Parameters:
//   - b: the buffer record
//   - p: the payload that was uploaded
func (p Payload) Apply(b *Buffer) {
	b.Type = p.Type
	b.Length = p.Length
	b.ByteLength = len(p.Bytes)
	if b.Retain {
		b.Data = clonePayload(p.Data)
	}
}

// ApplyAt records p as a partial upload at byte offset into b. The retained copy, if any, is
// patched in place; sizes are unchanged.
//
// Parameters:
//   - b: the buffer record, whose Type matches p.Type
//   - offset: the byte offset of the upload
func (p Payload) ApplyAt(b *Buffer, offset int) {
	if !b.Retain || b.Data == nil {
		return
	}
	at := offset / TypeSize(p.Type)
	switch dst := b.Data.(type) {
	case []float32:
		patch(dst, p.Data, at)
	case []int8:
		patch(dst, p.Data, at)
	case []uint8:
		patch(dst, p.Data, at)
	case []int16:
		patch(dst, p.Data, at)
	case []uint16:
		patch(dst, p.Data, at)
	case []int32:
		patch(dst, p.Data, at)
	case []uint32:
		patch(dst, p.Data, at)
	}
}

func patch[T any](dst []T, src any, at int) {
	if s, ok := src.([]T); ok && at >= 0 && at <= len(dst) {
		copy(dst[at:], s)
	}
}
