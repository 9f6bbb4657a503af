package engine

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/native"
	"github.com/Carmen-Shannon/oxy-gl/engine/resource"
	"github.com/Carmen-Shannon/oxy-gl/engine/state"
	"github.com/Carmen-Shannon/oxy-gl/engine/vertexarray"
)

func (e *engine) CreatePackedVertexArray(blocks []vertexarray.Block, interleaved bool, indexBuffer resource.Handle) (resource.Handle, resource.Handle, error) {
	packed, err := vertexarray.Pack(blocks, interleaved)
	if err != nil {
		return resource.None, resource.None, err
	}
	// Batched layouts mix component counts, so only an interleaved buffer has a vertex size.
	size := 1
	if interleaved {
		size = packed.Stride / 4
	}
	buf, err := e.shadow.CreateBuffer(native.ARRAY_BUFFER, packed.Data, state.WithComponentSize(max(size, 1)))
	if err != nil {
		return resource.None, resource.None, err
	}
	va, err := e.shadow.CreateVertexArray(packed.Descriptors(buf, blocks), indexBuffer)
	if err != nil {
		_ = e.shadow.DeleteBuffer(buf)
		return resource.None, resource.None, err
	}
	return va, buf, nil
}

// buffer looks up h and checks it was created for target.
func (e *engine) buffer(h resource.Handle, target native.Enum) (*resource.Buffer, error) {
	buf, err := e.reg.Buffers.Get(h)
	if err != nil {
		return nil, err
	}
	if buf.Target != target {
		return nil, fmt.Errorf("buffer %d has target 0x%04x, not 0x%04x: %w", h, uint32(buf.Target), uint32(target), common.ErrInvalidHandle)
	}
	return buf, nil
}

func (e *engine) VertexBufferDataLength(h resource.Handle) (int, error) {
	buf, err := e.buffer(h, native.ARRAY_BUFFER)
	if err != nil {
		return 0, err
	}
	return buf.DataLength(), nil
}

func (e *engine) VertexBufferDataByteLength(h resource.Handle) (int, error) {
	buf, err := e.buffer(h, native.ARRAY_BUFFER)
	if err != nil {
		return 0, err
	}
	return buf.ByteLength, nil
}

func (e *engine) IndexBufferDataLength(h resource.Handle) (int, error) {
	buf, err := e.buffer(h, native.ELEMENT_ARRAY_BUFFER)
	if err != nil {
		return 0, err
	}
	return buf.DataLength(), nil
}

func (e *engine) IndexBufferDataByteLength(h resource.Handle) (int, error) {
	buf, err := e.buffer(h, native.ELEMENT_ARRAY_BUFFER)
	if err != nil {
		return 0, err
	}
	return buf.ByteLength, nil
}
