package vertexarray

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/resource"
)

const floatSize = 4

// Block is one attribute's float data, packed with others into a single buffer by Pack.
type Block struct {
	Data       []float32
	Size       int
	Location   int
	Normalized bool
	Divisor    int
}

// Packed is the result of Pack.
type Packed struct {
	// Data is the combined buffer contents.
	Data []float32

	// Stride is the byte stride shared by every block: 0 for batched layouts.
	Stride int

	// Offsets holds each block's byte offset, parallel to the input blocks.
	Offsets []int
}

// Pack combines attribute blocks into one float buffer. Batched packing appends the blocks one
// after another; interleaved packing writes one vertex of every block in turn, which requires all
// blocks to hold the same number of vertices.
//
// Parameters:
//   - blocks: the attribute blocks
//   - interleaved: select the interleaved layout
//
// Returns:
//   - Packed: the combined data, stride and offsets
//   - error: wraps common.ErrArgumentShape for ragged or mismatched blocks
func Pack(blocks []Block, interleaved bool) (Packed, error) {
	vertices := -1
	for i, b := range blocks {
		if b.Size < 1 || b.Size > 4 || len(b.Data)%b.Size != 0 {
			return Packed{}, fmt.Errorf("block %d: %d values with component count %d: %w", i, len(b.Data), b.Size, common.ErrArgumentShape)
		}
		n := len(b.Data) / b.Size
		if interleaved && vertices >= 0 && n != vertices {
			return Packed{}, fmt.Errorf("block %d: %d vertices, expected %d: %w", i, n, vertices, common.ErrArgumentShape)
		}
		vertices = n
	}

	p := Packed{Offsets: make([]int, len(blocks))}
	if !interleaved {
		offset := 0
		for i, b := range blocks {
			p.Offsets[i] = offset
			p.Data = append(p.Data, b.Data...)
			offset += len(b.Data) * floatSize
		}
		return p, nil
	}

	components := 0
	for i, b := range blocks {
		p.Offsets[i] = components * floatSize
		components += b.Size
	}
	p.Stride = components * floatSize
	p.Data = make([]float32, 0, components*max(vertices, 0))
	for v := 0; v < vertices; v++ {
		for _, b := range blocks {
			p.Data = append(p.Data, b.Data[v*b.Size:(v+1)*b.Size]...)
		}
	}
	return p, nil
}

// Descriptors returns the attribute descriptors that read the packed blocks back from buf.
//
// Parameters:
//   - buf: the buffer holding p.Data
//   - blocks: the blocks passed to Pack
//
// Returns:
//   - []Descriptor: one descriptor per block
func (p Packed) Descriptors(buf resource.Handle, blocks []Block) []Descriptor {
	out := make([]Descriptor, len(blocks))
	for i, b := range blocks {
		out[i] = Descriptor{
			Location:   b.Location,
			Buffer:     buf,
			Size:       b.Size,
			Normalized: b.Normalized,
			Stride:     p.Stride,
			Offset:     p.Offsets[i],
			Divisor:    b.Divisor,
		}
	}
	return out
}
