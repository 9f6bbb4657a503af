package matrix

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/capability"
	"github.com/Carmen-Shannon/oxy-gl/engine/native/nativetest"
	"github.com/Carmen-Shannon/oxy-gl/engine/resource"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx *nativetest.Core
	reg *resource.Registry
	e   Engine
}

func newFixture(t *testing.T, options ...EngineBuilderOption) *fixture {
	t.Helper()
	ctx := nativetest.NewCore()
	caps, err := capability.Detect(ctx)
	require.NoError(t, err)
	reg := resource.NewRegistry(ctx, caps)
	return &fixture{ctx: ctx, reg: reg, e: NewEngine(reg, options...)}
}

// use links a program from vertex and activates it both natively and in the engine.
func (f *fixture) use(t *testing.T, vertex string) *resource.Program {
	t.Helper()
	h, err := f.reg.CreateProgram(resource.ProgramSource{Vertex: vertex, Fragment: nativetest.ColorFragment})
	require.NoError(t, err)
	p, err := f.reg.Programs.Get(h)
	require.NoError(t, err)
	f.ctx.UseProgram(p.Native)
	f.e.ProgramChanged(p)
	return p
}

func (f *fixture) count(k Kind) int {
	return len(f.ctx.Uploads(f.e.UniformName(k)))
}

func TestSyncUploadsOnlyDeclaredMatrices(t *testing.T) {
	f := newFixture(t)
	f.use(t, nativetest.ProjectionOnlyVertex)
	f.ctx.ResetCalls()

	f.e.Perspective(math.Pi/4, 4.0/3.0, 0.1, 100)
	f.e.Translate(View, 0, 0, -5)
	f.e.Scale(Model, 2, 2, 2)
	require.NoError(t, f.e.Sync())
	require.NoError(t, f.e.Sync())

	assert.Equal(t, 1, f.count(Projection))
	assert.Len(t, f.ctx.AllUploads(), 1)
	assert.True(t, f.e.Dirty(View))
	assert.False(t, f.e.Dirty(Projection))
}

func TestSyncUploadsOnlyChangedMatrices(t *testing.T) {
	f := newFixture(t)
	p := f.use(t, nativetest.LitVertex)

	require.NoError(t, f.e.Sync())
	for _, k := range Kinds {
		assert.Equal(t, 1, f.count(k), k.String())
	}
	assert.Equal(t, 5, f.e.Uploads())

	f.ctx.ResetCalls()
	f.e.Scale(Model, 2, 2, 2)
	require.NoError(t, f.e.Sync())

	assert.Equal(t, 1, f.count(Model))
	assert.Equal(t, 1, f.count(Normal))
	assert.Zero(t, f.count(Projection))
	assert.Zero(t, f.count(View))
	assert.Zero(t, f.count(InverseView))

	normal := f.ctx.UniformValue(p.Native, DefaultNormalUniform)
	require.Len(t, normal, 9)
	assert.InDeltaSlice(t, []float32{0.5, 0, 0, 0, 0.5, 0, 0, 0, 0.5}, normal, 1e-6)
}

func TestInverseViewFollowsView(t *testing.T) {
	f := newFixture(t)
	p := f.use(t, nativetest.LitVertex)
	require.NoError(t, f.e.Sync())
	f.ctx.ResetCalls()

	f.e.LookAt(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
	require.NoError(t, f.e.Sync())

	assert.Equal(t, 1, f.count(View))
	assert.Equal(t, 1, f.count(InverseView))
	assert.Equal(t, 1, f.count(Normal))
	assert.Zero(t, f.count(Model))

	inv := f.ctx.UniformValue(p.Native, DefaultInverseViewUniform)
	require.Len(t, inv, 16)
	assert.InDelta(t, 5, inv[14], 1e-6)
}

func TestSetEqualValueIsNotDirty(t *testing.T) {
	f := newFixture(t)
	f.use(t, nativetest.LitVertex)
	require.NoError(t, f.e.Sync())

	f.e.Set(Model, mgl64.Ident4())
	f.e.Identity(View)
	assert.False(t, f.e.Dirty(Model))
	assert.False(t, f.e.Dirty(View))
}

func TestPushPop(t *testing.T) {
	f := newFixture(t)
	f.use(t, nativetest.LitVertex)
	require.NoError(t, f.e.Sync())

	require.NoError(t, f.e.Push(Model))
	f.e.Translate(Model, 1, 2, 3)
	f.e.RotateEuler(Model, 0.1, 0.2, 0.3)
	require.NoError(t, f.e.Sync())
	require.NoError(t, f.e.Pop(Model))

	assert.Equal(t, mgl64.Ident4(), f.e.Get(Model))
	assert.True(t, f.e.Dirty(Model))

	assert.ErrorIs(t, f.e.Pop(Model), common.ErrStackUnderflow)
	assert.ErrorIs(t, f.e.Push(Normal), common.ErrUnsupported)
	assert.ErrorIs(t, f.e.Pop(InverseView), common.ErrUnsupported)
}

func TestAutoUpload(t *testing.T) {
	f := newFixture(t)
	f.use(t, nativetest.ProjectionOnlyVertex)
	assert.ErrorIs(t, f.e.SetAutoUpload(View, false), common.ErrUnsupported)
	require.NoError(t, f.e.SetAutoUpload(View, true))

	f.use(t, nativetest.LitVertex)
	require.NoError(t, f.e.SetAutoUpload(Normal, false))
	f.ctx.ResetCalls()

	f.e.Rotate(Model, math.Pi/2, mgl64.Vec3{0, 0, 2})
	require.NoError(t, f.e.Sync())
	assert.Equal(t, 1, f.count(Model))
	assert.Zero(t, f.count(Normal))

	require.NoError(t, f.e.SetAutoUpload(Normal, true))
	require.NoError(t, f.e.Sync())
	assert.Equal(t, 1, f.count(Normal))
}

func TestProgramChangeMarksDeclaredMatrices(t *testing.T) {
	f := newFixture(t)
	lit := f.use(t, nativetest.LitVertex)
	require.NoError(t, f.e.Sync())

	f.use(t, nativetest.ProjectionOnlyVertex)
	for _, k := range []Kind{View, Model, Normal, InverseView} {
		assert.False(t, f.e.Declared(k))
		assert.False(t, f.e.Dirty(k))
	}
	assert.True(t, f.e.Dirty(Projection))

	f.ctx.UseProgram(lit.Native)
	f.e.ProgramChanged(lit)
	f.ctx.ResetCalls()
	require.NoError(t, f.e.Sync())
	assert.Len(t, f.ctx.AllUploads(), 5)

	f.e.ProgramChanged(nil)
	f.e.Translate(Model, 1, 0, 0)
	f.ctx.ResetCalls()
	require.NoError(t, f.e.Sync())
	assert.Empty(t, f.ctx.AllUploads())
}

func TestDerivedKindsCannotBeSet(t *testing.T) {
	f := newFixture(t)
	assert.Panics(t, func() { f.e.Translate(Normal, 1, 0, 0) })
	assert.Panics(t, func() { f.e.Set(InverseView, mgl64.Ident4()) })
	assert.False(t, Normal.Mutable())
	assert.True(t, Model.Mutable())
}

func TestUniformNameOptions(t *testing.T) {
	f := newFixture(t,
		WithUniformName(Projection, "uProj"),
		WithUniformNames(map[Kind]string{Model: "uWorld"}),
		WithAutoUpload(View, false),
	)
	assert.Equal(t, "uProj", f.e.UniformName(Projection))
	assert.Equal(t, "uWorld", f.e.UniformName(Model))
	assert.Equal(t, DefaultViewUniform, f.e.UniformName(View))
	assert.False(t, f.e.AutoUpload(View))

	f.use(t, nativetest.ProjectionOnlyVertex)
	assert.False(t, f.e.Declared(Projection))
}
