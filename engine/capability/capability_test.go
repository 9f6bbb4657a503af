package capability

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/native"
	"github.com/Carmen-Shannon/oxy-gl/engine/native/nativetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCoreContext(t *testing.T) {
	ctx := nativetest.NewCore()
	caps, err := Detect(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, caps.Record.Major)
	assert.True(t, caps.Record.NativeVertexArrays)
	assert.True(t, caps.Record.Instancing)
	assert.True(t, caps.Record.DrawBuffers)
	assert.Equal(t, 4, caps.Record.MaxDrawBuffers)
	assert.Equal(t, 8, caps.Record.MaxColorAttachments)
	assert.True(t, caps.Record.DepthTexture)
	assert.True(t, caps.Record.FloatTexture)
	assert.True(t, caps.Record.Index32)
	assert.Equal(t, 16, caps.Record.MaxTextureUnits)

	assert.Equal(t, VertexArraysNative, caps.Strategies.VertexArrays)
	assert.Equal(t, InstancingNative, caps.Strategies.Instancing)
	assert.Equal(t, DrawBuffersNative, caps.Strategies.DrawBuffers)

	v := caps.Functions.CreateVertexArray()
	caps.Functions.BindVertexArray(v)
	assert.Equal(t, 1, ctx.Calls("CreateVertexArray"))
	assert.Equal(t, 1, ctx.Calls("BindVertexArray"))
}

func TestDetectBaselineWithoutExtensions(t *testing.T) {
	ctx := nativetest.New()
	caps, err := Detect(ctx)
	require.NoError(t, err)

	assert.False(t, caps.Record.NativeVertexArrays)
	assert.False(t, caps.Record.Instancing)
	assert.False(t, caps.Record.DrawBuffers)
	assert.False(t, caps.Record.DepthTexture)
	assert.False(t, caps.Record.Index32)
	assert.Equal(t, 1, caps.Record.MaxDrawBuffers)

	assert.Equal(t, VertexArraysShim, caps.Strategies.VertexArrays)
	assert.Equal(t, InstancingUnavailable, caps.Strategies.Instancing)
	assert.Equal(t, DrawBuffersSingle, caps.Strategies.DrawBuffers)
	assert.Nil(t, caps.Functions.CreateVertexArray)

	assert.ErrorIs(t, caps.Functions.DrawArraysInstanced(native.TRIANGLES, 0, 3, 2), common.ErrUnsupported)
	assert.ErrorIs(t, caps.Functions.DrawElementsInstanced(native.TRIANGLES, 3, native.UNSIGNED_SHORT, 0, 2), common.ErrUnsupported)
	assert.ErrorIs(t, caps.Functions.VertexAttribDivisor(0, 1), common.ErrUnsupported)
	assert.NoError(t, caps.Functions.VertexAttribDivisor(0, 0))
	assert.NoError(t, caps.Functions.DrawBuffers([]native.Enum{native.COLOR_ATTACHMENT0}))
	assert.ErrorIs(t, caps.Functions.DrawBuffers([]native.Enum{native.COLOR_ATTACHMENT0, native.COLOR_ATTACHMENT0 + 1}), common.ErrUnsupported)
	assert.Empty(t, ctx.Draws())
}

func TestDetectBaselineWithExtensions(t *testing.T) {
	ctx := nativetest.New(
		nativetest.WithExtensions(
			native.ExtVertexArrayObject,
			native.ExtInstancedArrays,
			native.ExtDrawBuffers,
			native.ExtDepthTexture,
			native.ExtElementIndexUint,
		),
		nativetest.WithLimits(4, 4),
	)
	caps, err := Detect(ctx)
	require.NoError(t, err)

	assert.Equal(t, VertexArraysNative, caps.Strategies.VertexArrays)
	assert.Equal(t, InstancingExtension, caps.Strategies.Instancing)
	assert.Equal(t, DrawBuffersExtension, caps.Strategies.DrawBuffers)
	assert.True(t, caps.Record.DepthTexture)
	assert.False(t, caps.Record.FloatTexture)
	assert.True(t, caps.Record.Index32)
	assert.Equal(t, 4, caps.Record.MaxDrawBuffers)

	caps.Functions.CreateVertexArray()
	assert.Equal(t, 1, ctx.Calls("CreateVertexArrayOES"))

	require.NoError(t, caps.Functions.DrawArraysInstanced(native.TRIANGLES, 0, 3, 5))
	assert.Equal(t, 1, ctx.Calls("DrawArraysInstancedANGLE"))
	require.Len(t, ctx.Draws(), 1)
	assert.Equal(t, int32(5), ctx.Draws()[0].Instances)

	bufs := []native.Enum{native.COLOR_ATTACHMENT0, native.COLOR_ATTACHMENT0 + 1}
	require.NoError(t, caps.Functions.DrawBuffers(bufs))
	assert.Equal(t, bufs, ctx.DrawBufferList())
}

func TestDetectVersionPolicy(t *testing.T) {
	ctx := nativetest.New()

	_, err := Detect(ctx, WithRequiredVersion(3))
	assert.ErrorIs(t, err, common.ErrUnsupported)
	assert.Contains(t, err.Error(), "2.0")

	caps, err := Detect(ctx, WithRequiredVersion(3), WithVersionFallback(true))
	require.NoError(t, err)
	assert.Equal(t, 2, caps.Record.Major)

	_, err = Detect(nativetest.NewCore(), WithRequiredVersion(3))
	assert.NoError(t, err)
}

func TestStrategyStrings(t *testing.T) {
	assert.Equal(t, "shim", VertexArraysShim.String())
	assert.Equal(t, "extension", DrawBuffersExtension.String())
	assert.Equal(t, "unavailable", InstancingUnavailable.String())
}
