package engine

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/capability"
	"github.com/Carmen-Shannon/oxy-gl/engine/logging"
	"github.com/Carmen-Shannon/oxy-gl/engine/native"
	"github.com/Carmen-Shannon/oxy-gl/engine/resource"
)

// indexSize is the byte size of each index type.
var indexSize = map[native.Enum]int{
	native.UNSIGNED_BYTE:  1,
	native.UNSIGNED_SHORT: 2,
	native.UNSIGNED_INT:   4,
}

// elements resolves the bound index buffer into a native index type, count and byte offset.
func (e *engine) elements(count, first int) (native.Enum, int32, int, error) {
	h := e.shadow.Buffers().Index
	if h == resource.None {
		return 0, 0, 0, fmt.Errorf("draw elements: no index buffer bound: %w", common.ErrInvalidHandle)
	}
	buf, err := e.reg.Buffers.Get(h)
	if err != nil {
		return 0, 0, 0, err
	}
	size, ok := indexSize[buf.Type]
	if !ok {
		return 0, 0, 0, fmt.Errorf("draw elements: index buffer %d holds no indices: %w", h, common.ErrArgumentShape)
	}
	if count == 0 {
		count = buf.Length - first
	}
	if first < 0 || count < 0 || first+count > buf.Length {
		return 0, 0, 0, fmt.Errorf("draw elements: range [%d, %d) outside %d indices: %w", first, first+count, buf.Length, common.ErrArgumentShape)
	}
	return buf.Type, int32(count), first * size, nil
}

// instanced checks instancing support and warns when no attribute of the active vertex array
// advances per instance.
func (e *engine) instanced(instances int) error {
	if e.caps.Strategies.Instancing == capability.InstancingUnavailable {
		return fmt.Errorf("instanced draw: %w", common.ErrUnsupported)
	}
	if instances < 0 {
		return fmt.Errorf("instanced draw: %d instances: %w", instances, common.ErrArgumentShape)
	}
	if va := e.shadow.VertexArray(); va != resource.None {
		if rec, err := e.reg.VertexArrays.Get(va); err == nil && !rec.HasDivisor {
			logging.Logger().Warn("engine: instanced draw without per-instance attributes", "vertexArray", va, "instances", instances)
		}
	}
	return nil
}

func (e *engine) DrawArrays(mode native.Enum, first, count int) error {
	if first < 0 || count < 0 {
		return fmt.Errorf("draw arrays: first %d count %d: %w", first, count, common.ErrArgumentShape)
	}
	if err := e.matrices.Sync(); err != nil {
		return err
	}
	e.ctx.DrawArrays(mode, int32(first), int32(count))
	return nil
}

func (e *engine) DrawElements(mode native.Enum, count, first int) error {
	typ, n, offset, err := e.elements(count, first)
	if err != nil {
		return err
	}
	if err := e.matrices.Sync(); err != nil {
		return err
	}
	e.ctx.DrawElements(mode, n, typ, offset)
	return nil
}

func (e *engine) DrawArraysInstanced(mode native.Enum, first, count, instances int) error {
	if err := e.instanced(instances); err != nil {
		return err
	}
	if first < 0 || count < 0 {
		return fmt.Errorf("draw arrays: first %d count %d: %w", first, count, common.ErrArgumentShape)
	}
	if err := e.matrices.Sync(); err != nil {
		return err
	}
	return e.caps.Functions.DrawArraysInstanced(mode, int32(first), int32(count), int32(instances))
}

func (e *engine) DrawElementsInstanced(mode native.Enum, count, first, instances int) error {
	if err := e.instanced(instances); err != nil {
		return err
	}
	typ, n, offset, err := e.elements(count, first)
	if err != nil {
		return err
	}
	if err := e.matrices.Sync(); err != nil {
		return err
	}
	return e.caps.Functions.DrawElementsInstanced(mode, n, typ, offset, int32(instances))
}

func (e *engine) Clear(mask native.Enum) {
	e.ctx.Clear(mask)
}

func (e *engine) ReadPixels(x, y, width, height int) ([]byte, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("read pixels: %dx%d: %w", width, height, common.ErrArgumentShape)
	}
	dst := make([]byte, width*height*4)
	e.ctx.ReadPixels(dst, int32(x), int32(y), int32(width), int32(height), native.RGBA, native.UNSIGNED_BYTE)
	if code := e.ctx.GetError(); code != native.NO_ERROR {
		return nil, fmt.Errorf("read pixels: native error 0x%04x: %w", uint32(code), common.ErrUnsupported)
	}
	return dst, nil
}
