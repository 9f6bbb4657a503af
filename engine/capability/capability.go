// Package capability probes a native context once at startup and resolves, for every optional
// feature, whether it is available and which implementation strategy the engine uses for it.
package capability

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/logging"
	"github.com/Carmen-Shannon/oxy-gl/engine/native"
)

// VertexArrayStrategy selects how vertex arrays are realized.
type VertexArrayStrategy int

const (
	// VertexArraysNative wraps native vertex array objects.
	VertexArraysNative VertexArrayStrategy = iota
	// VertexArraysShim re-issues attribute pointers on every bind.
	VertexArraysShim
)

func (s VertexArrayStrategy) String() string {
	if s == VertexArraysNative {
		return "native"
	}
	return "shim"
}

// DrawBuffersStrategy selects how multiple render targets are selected.
type DrawBuffersStrategy int

const (
	DrawBuffersNative DrawBuffersStrategy = iota
	DrawBuffersExtension
	// DrawBuffersSingle renders to the first color attachment only.
	DrawBuffersSingle
)

func (s DrawBuffersStrategy) String() string {
	switch s {
	case DrawBuffersNative:
		return "native"
	case DrawBuffersExtension:
		return "extension"
	}
	return "single"
}

// InstancingStrategy selects how instanced draws are issued.
type InstancingStrategy int

const (
	InstancingNative InstancingStrategy = iota
	InstancingExtension
	// InstancingUnavailable installs stubs that return common.ErrUnsupported.
	InstancingUnavailable
)

func (s InstancingStrategy) String() string {
	switch s {
	case InstancingNative:
		return "native"
	case InstancingExtension:
		return "extension"
	}
	return "unavailable"
}

// Record is the immutable set of detected features and limits.
type Record struct {
	Major, Minor int

	NativeVertexArrays  bool
	Instancing          bool
	DrawBuffers         bool
	MaxDrawBuffers      int
	MaxColorAttachments int
	DepthTexture        bool
	FloatTexture        bool
	Index32             bool
	MaxTextureUnits     int
	MaxVertexAttribs    int
}

// Strategies holds the implementation chosen for every capability-gated component.
type Strategies struct {
	VertexArrays VertexArrayStrategy
	DrawBuffers  DrawBuffersStrategy
	Instancing   InstancingStrategy
}

// Capabilities is the result of Detect. It is created once and never mutated.
type Capabilities struct {
	Record     Record
	Strategies Strategies

	// Functions holds the normalized entry points for every capability-gated call.
	Functions native.Functions
}

// Detect probes ctx for every optional capability. For each one it prefers the core entry point,
// then the named extension, otherwise it records the capability as absent.
//
// Parameters:
//   - ctx: the native context; it must be current
//   - options: functional options controlling the version policy
//
// Returns:
//   - *Capabilities: the detected capabilities
//   - error: wraps common.ErrUnsupported if the required version is unavailable and fallback is disallowed
func Detect(ctx native.Context, options ...DetectorOption) (*Capabilities, error) {
	d := &detector{}
	for _, opt := range options {
		opt(d)
	}

	major, minor := ctx.Version()
	if d.requiredMajor > 0 && major < d.requiredMajor {
		if !d.allowFallback {
			return nil, fmt.Errorf("context version %d.%d is below required major version %d and fallback is disabled: %w",
				major, minor, d.requiredMajor, common.ErrUnsupported)
		}
		logging.Logger().Warn("capability: context version below preferred, falling back",
			"preferred", d.requiredMajor, "major", major, "minor", minor)
	}

	caps := &Capabilities{
		Record: Record{
			Major:               major,
			Minor:               minor,
			MaxDrawBuffers:      1,
			MaxColorAttachments: 1,
			MaxTextureUnits:     getInt(ctx, native.MAX_TEXTURE_IMAGE_UNITS),
			MaxVertexAttribs:    getInt(ctx, native.MAX_VERTEX_ATTRIBS),
		},
	}
	modern := major >= 3

	detectVertexArrays(ctx, caps)
	detectInstancing(ctx, caps)
	detectDrawBuffers(ctx, caps)

	caps.Record.DepthTexture = modern || ctx.Extension(native.ExtDepthTexture) != nil
	caps.Record.FloatTexture = modern || ctx.Extension(native.ExtTextureFloat) != nil
	caps.Record.Index32 = modern || ctx.Extension(native.ExtElementIndexUint) != nil

	logging.Logger().Info("capability: detected",
		"version", fmt.Sprintf("%d.%d", major, minor),
		"vertexArrays", caps.Strategies.VertexArrays,
		"instancing", caps.Strategies.Instancing,
		"drawBuffers", caps.Strategies.DrawBuffers,
		"maxDrawBuffers", caps.Record.MaxDrawBuffers,
		"depthTexture", caps.Record.DepthTexture,
		"floatTexture", caps.Record.FloatTexture,
		"index32", caps.Record.Index32)
	return caps, nil
}

func detectVertexArrays(ctx native.Context, caps *Capabilities) {
	if core, ok := ctx.(native.VertexArrayContext); ok {
		caps.Record.NativeVertexArrays = true
		caps.Strategies.VertexArrays = VertexArraysNative
		caps.Functions.CreateVertexArray = core.CreateVertexArray
		caps.Functions.BindVertexArray = core.BindVertexArray
		caps.Functions.DeleteVertexArray = core.DeleteVertexArray
		return
	}
	if ext, ok := ctx.Extension(native.ExtVertexArrayObject).(native.OESVertexArrayObject); ok {
		caps.Record.NativeVertexArrays = true
		caps.Strategies.VertexArrays = VertexArraysNative
		caps.Functions.CreateVertexArray = ext.CreateVertexArrayOES
		caps.Functions.BindVertexArray = ext.BindVertexArrayOES
		caps.Functions.DeleteVertexArray = ext.DeleteVertexArrayOES
		return
	}
	caps.Strategies.VertexArrays = VertexArraysShim
}

func detectInstancing(ctx native.Context, caps *Capabilities) {
	if core, ok := ctx.(native.InstancedContext); ok {
		caps.Record.Instancing = true
		caps.Strategies.Instancing = InstancingNative
		caps.Functions.DrawArraysInstanced = func(mode native.Enum, first, count, instances int32) error {
			core.DrawArraysInstanced(mode, first, count, instances)
			return nil
		}
		caps.Functions.DrawElementsInstanced = func(mode native.Enum, count int32, typ native.Enum, offset int, instances int32) error {
			core.DrawElementsInstanced(mode, count, typ, offset, instances)
			return nil
		}
		caps.Functions.VertexAttribDivisor = func(index, divisor uint32) error {
			core.VertexAttribDivisor(index, divisor)
			return nil
		}
		return
	}
	if ext, ok := ctx.Extension(native.ExtInstancedArrays).(native.ANGLEInstancedArrays); ok {
		caps.Record.Instancing = true
		caps.Strategies.Instancing = InstancingExtension
		caps.Functions.DrawArraysInstanced = func(mode native.Enum, first, count, instances int32) error {
			ext.DrawArraysInstancedANGLE(mode, first, count, instances)
			return nil
		}
		caps.Functions.DrawElementsInstanced = func(mode native.Enum, count int32, typ native.Enum, offset int, instances int32) error {
			ext.DrawElementsInstancedANGLE(mode, count, typ, offset, instances)
			return nil
		}
		caps.Functions.VertexAttribDivisor = func(index, divisor uint32) error {
			ext.VertexAttribDivisorANGLE(index, divisor)
			return nil
		}
		return
	}
	caps.Strategies.Instancing = InstancingUnavailable
	caps.Functions.DrawArraysInstanced = native.UnsupportedDrawArraysInstanced
	caps.Functions.DrawElementsInstanced = native.UnsupportedDrawElementsInstanced
	caps.Functions.VertexAttribDivisor = native.UnsupportedVertexAttribDivisor
}

func detectDrawBuffers(ctx native.Context, caps *Capabilities) {
	if core, ok := ctx.(native.DrawBuffersContext); ok {
		caps.Record.DrawBuffers = true
		caps.Strategies.DrawBuffers = DrawBuffersNative
		caps.Functions.DrawBuffers = func(bufs []native.Enum) error {
			core.DrawBuffers(bufs)
			return nil
		}
	} else if ext, ok := ctx.Extension(native.ExtDrawBuffers).(native.WEBGLDrawBuffers); ok {
		caps.Record.DrawBuffers = true
		caps.Strategies.DrawBuffers = DrawBuffersExtension
		caps.Functions.DrawBuffers = func(bufs []native.Enum) error {
			ext.DrawBuffersWEBGL(bufs)
			return nil
		}
	} else {
		caps.Strategies.DrawBuffers = DrawBuffersSingle
		caps.Functions.DrawBuffers = native.SingleDrawBuffer
		return
	}
	caps.Record.MaxDrawBuffers = max(1, getInt(ctx, native.MAX_DRAW_BUFFERS))
	caps.Record.MaxColorAttachments = max(1, getInt(ctx, native.MAX_COLOR_ATTACHMENTS))
}

func getInt(ctx native.Context, pname native.Enum) int {
	var v [1]int32
	ctx.GetIntegerv(pname, v[:])
	return int(v[0])
}
