// Package matrix maintains the projection, view and model matrices, derives the normal and
// inverse-view matrices from them, and uploads to the active program only the matrices it declares
// that changed since their last upload.
package matrix

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/resource"
	"github.com/go-gl/mathgl/mgl64"
)

// Kind identifies a matrix. Projection, View and Model are mutable; Normal and InverseView are
// derived.
type Kind int

const (
	Projection Kind = iota
	View
	Model
	Normal
	InverseView

	kindCount
)

// Kinds lists every matrix kind in upload order.
var Kinds = []Kind{Projection, View, Model, Normal, InverseView}

func (k Kind) String() string {
	switch k {
	case Projection:
		return "projection"
	case View:
		return "view"
	case Model:
		return "model"
	case Normal:
		return "normal"
	case InverseView:
		return "inverseView"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Mutable reports whether k can be set directly.
func (k Kind) Mutable() bool {
	return k >= Projection && k <= Model
}

// Default uniform names, overridable with WithUniformName.
const (
	DefaultProjectionUniform  = "uProjectionMatrix"
	DefaultViewUniform        = "uViewMatrix"
	DefaultModelUniform       = "uModelMatrix"
	DefaultNormalUniform      = "uNormalMatrix"
	DefaultInverseViewUniform = "uInverseViewMatrix"
)

// Engine holds the logical matrices and their upload state.
type Engine interface {
	// Get returns the current value of a matrix. The normal matrix is returned in the upper 3x3 of
	// a 4x4 with an identity last row and column; derived matrices are computed on demand.
	//
	// Parameters:
	//   - k: the matrix kind
	//
	// Returns:
	//   - mgl64.Mat4: the matrix
	Get(k Kind) mgl64.Mat4

	// NormalMatrix returns the transpose of the inverse of view*model, restricted to 3x3.
	//
	// Returns:
	//   - mgl64.Mat3: the normal matrix
	NormalMatrix() mgl64.Mat3

	// Set replaces a mutable matrix. Setting an equal value changes nothing.
	//
	// Parameters:
	//   - k: a mutable kind
	//   - m: the new value
	Set(k Kind, m mgl64.Mat4)

	// Identity resets a mutable matrix to identity.
	Identity(k Kind)

	// Translate post-multiplies a mutable matrix by a translation.
	Translate(k Kind, x, y, z float64)

	// Scale post-multiplies a mutable matrix by a scale.
	Scale(k Kind, x, y, z float64)

	// Rotate post-multiplies a mutable matrix by a rotation of angle radians around axis.
	Rotate(k Kind, angle float64, axis mgl64.Vec3)

	// RotateEuler post-multiplies a mutable matrix by rotations around X, then Y, then Z.
	RotateEuler(k Kind, x, y, z float64)

	// RotateQuat post-multiplies a mutable matrix by the rotation of q.
	RotateQuat(k Kind, q mgl64.Quat)

	// Multiply post-multiplies a mutable matrix by m.
	Multiply(k Kind, m mgl64.Mat4)

	// Ortho sets the projection matrix to an orthographic projection.
	Ortho(left, right, bottom, top, near, far float64)

	// Perspective sets the projection matrix to a perspective projection.
	//
	// Parameters:
	//   - fovy: vertical field of view in radians
	//   - aspect: width / height
	//   - near, far: clip plane distances
	Perspective(fovy, aspect, near, far float64)

	// LookAt sets the view matrix to look from eye towards center.
	LookAt(eye, center, up mgl64.Vec3)

	// Push saves a copy of a mutable matrix on its stack.
	//
	// Parameters:
	//   - k: a mutable kind
	//
	// Returns:
	//   - error: wraps common.ErrUnsupported for a derived kind
	Push(k Kind) error

	// Pop restores a mutable matrix from its stack and marks it for upload.
	//
	// Parameters:
	//   - k: a mutable kind
	//
	// Returns:
	//   - error: wraps common.ErrStackUnderflow on an empty stack
	Pop(k Kind) error

	// Depth returns the number of saved entries on the stack of a mutable kind.
	Depth(k Kind) int

	// ProgramChanged records the newly active program. Every matrix the program declares is marked
	// for upload; every other matrix is cleared, since upload state is not tracked per program.
	//
	// Parameters:
	//   - p: the active program, or nil
	ProgramChanged(p *resource.Program)

	// SetAutoUpload toggles whether Sync uploads a matrix kind.
	//
	// Parameters:
	//   - k: the matrix kind
	//   - enabled: the new eligibility
	//
	// Returns:
	//   - error: wraps common.ErrUnsupported when disabling a kind the active program does not declare
	SetAutoUpload(k Kind, enabled bool) error

	// AutoUpload reports whether Sync uploads a matrix kind.
	AutoUpload(k Kind) bool

	// Declared reports whether the active program declares the uniform for k.
	Declared(k Kind) bool

	// Dirty reports whether k is pending upload.
	Dirty(k Kind) bool

	// UniformName returns the uniform name bound to k.
	UniformName(k Kind) string

	// Sync derives stale normal and inverse-view matrices and uploads every declared, eligible,
	// dirty matrix to the active program in float32.
	//
	// Returns:
	//   - error: the first upload error
	Sync() error

	// Uploads returns the number of matrix uploads issued since construction.
	Uploads() int
}

type engine struct {
	reg *resource.Registry

	names [kindCount]string

	mats   [Model + 1]mgl64.Mat4
	stacks [Model + 1][]mgl64.Mat4

	normal      mgl64.Mat3
	inverseView mgl64.Mat4

	normalStale      bool
	inverseViewStale bool

	program    *resource.Program
	declared   [kindCount]bool
	dirty      [kindCount]bool
	autoUpload [kindCount]bool

	uploads int
}

var _ Engine = &engine{}

// NewEngine creates a matrix engine with identity matrices and auto-upload enabled for every kind.
//
// Parameters:
//   - reg: the registry whose uniform setters perform uploads
//   - options: functional options
//
// Returns:
//   - Engine: the matrix engine
func NewEngine(reg *resource.Registry, options ...EngineBuilderOption) Engine {
	e := &engine{
		reg: reg,
		names: [kindCount]string{
			DefaultProjectionUniform,
			DefaultViewUniform,
			DefaultModelUniform,
			DefaultNormalUniform,
			DefaultInverseViewUniform,
		},
		normal:      mgl64.Ident3(),
		inverseView: mgl64.Ident4(),
	}
	for k := range e.mats {
		e.mats[k] = mgl64.Ident4()
	}
	for k := range e.autoUpload {
		e.autoUpload[k] = true
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

func mustMutable(k Kind) {
	if !k.Mutable() {
		panic(fmt.Sprintf("matrix: %s matrix is derived and cannot be set", k))
	}
}

func (e *engine) touch(k Kind) {
	e.dirty[k] = true
	if k == View || k == Model {
		e.normalStale = true
	}
	if k == View {
		e.inverseViewStale = true
	}
}

func (e *engine) Get(k Kind) mgl64.Mat4 {
	switch k {
	case Normal:
		return e.NormalMatrix().Mat4()
	case InverseView:
		return e.mats[View].Inv()
	}
	mustMutable(k)
	return e.mats[k]
}

func (e *engine) NormalMatrix() mgl64.Mat3 {
	return common.NormalMatrix(e.mats[View], e.mats[Model])
}

func (e *engine) Set(k Kind, m mgl64.Mat4) {
	mustMutable(k)
	if e.mats[k] == m {
		return
	}
	e.mats[k] = m
	e.touch(k)
}

func (e *engine) Identity(k Kind) {
	e.Set(k, mgl64.Ident4())
}

func (e *engine) Translate(k Kind, x, y, z float64) {
	e.Multiply(k, mgl64.Translate3D(x, y, z))
}

func (e *engine) Scale(k Kind, x, y, z float64) {
	e.Multiply(k, mgl64.Scale3D(x, y, z))
}

func (e *engine) Rotate(k Kind, angle float64, axis mgl64.Vec3) {
	e.Multiply(k, mgl64.HomogRotate3D(angle, axis.Normalize()))
}

func (e *engine) RotateEuler(k Kind, x, y, z float64) {
	e.Multiply(k, common.EulerRotation(x, y, z))
}

func (e *engine) RotateQuat(k Kind, q mgl64.Quat) {
	e.Multiply(k, q.Normalize().Mat4())
}

func (e *engine) Multiply(k Kind, m mgl64.Mat4) {
	mustMutable(k)
	e.mats[k] = e.mats[k].Mul4(m)
	e.touch(k)
}

func (e *engine) Ortho(left, right, bottom, top, near, far float64) {
	e.Set(Projection, mgl64.Ortho(left, right, bottom, top, near, far))
}

func (e *engine) Perspective(fovy, aspect, near, far float64) {
	e.Set(Projection, mgl64.Perspective(fovy, aspect, near, far))
}

func (e *engine) LookAt(eye, center, up mgl64.Vec3) {
	e.Set(View, mgl64.LookAtV(eye, center, up))
}

func (e *engine) Push(k Kind) error {
	if !k.Mutable() {
		return fmt.Errorf("push %s matrix: %w", k, common.ErrUnsupported)
	}
	e.stacks[k] = append(e.stacks[k], e.mats[k])
	return nil
}

func (e *engine) Pop(k Kind) error {
	if !k.Mutable() {
		return fmt.Errorf("pop %s matrix: %w", k, common.ErrUnsupported)
	}
	n := len(e.stacks[k])
	if n == 0 {
		return fmt.Errorf("pop %s matrix: %w", k, common.ErrStackUnderflow)
	}
	e.mats[k] = e.stacks[k][n-1]
	e.stacks[k] = e.stacks[k][:n-1]
	e.touch(k)
	return nil
}

func (e *engine) Depth(k Kind) int {
	if !k.Mutable() {
		return 0
	}
	return len(e.stacks[k])
}

func (e *engine) ProgramChanged(p *resource.Program) {
	e.program = p
	for _, k := range Kinds {
		e.declared[k] = p != nil && p.HasUniform(e.names[k])
		e.dirty[k] = e.declared[k]
	}
	e.normalStale = e.declared[Normal]
	e.inverseViewStale = e.declared[InverseView]
}

func (e *engine) SetAutoUpload(k Kind, enabled bool) error {
	if !enabled && !e.declared[k] {
		return fmt.Errorf("disable auto-upload of %s matrix: uniform %q is not declared by the active program: %w",
			k, e.names[k], common.ErrUnsupported)
	}
	if enabled && !e.autoUpload[k] {
		e.dirty[k] = e.declared[k]
		switch k {
		case Normal:
			e.normalStale = true
		case InverseView:
			e.inverseViewStale = true
		}
	}
	e.autoUpload[k] = enabled
	return nil
}

func (e *engine) AutoUpload(k Kind) bool {
	return e.autoUpload[k]
}

func (e *engine) Declared(k Kind) bool {
	return e.declared[k]
}

func (e *engine) Dirty(k Kind) bool {
	return e.dirty[k]
}

func (e *engine) UniformName(k Kind) string {
	return e.names[k]
}

func (e *engine) Uploads() int {
	return e.uploads
}

func (e *engine) eligible(k Kind) bool {
	return e.declared[k] && e.autoUpload[k]
}

func (e *engine) Sync() error {
	if e.program == nil {
		return nil
	}
	if e.eligible(Normal) && e.normalStale {
		e.normal = e.NormalMatrix()
		e.normalStale = false
		e.dirty[Normal] = true
	}
	if e.eligible(InverseView) && e.inverseViewStale {
		e.inverseView = e.mats[View].Inv()
		e.inverseViewStale = false
		e.dirty[InverseView] = true
	}
	for _, k := range Kinds {
		if !e.eligible(k) || !e.dirty[k] {
			continue
		}
		if err := e.reg.Upload(e.program, e.names[k], e.values(k)); err != nil {
			return fmt.Errorf("upload %s matrix: %w", k, err)
		}
		e.dirty[k] = false
		e.uploads++
	}
	return nil
}

func (e *engine) values(k Kind) []float32 {
	switch k {
	case Normal:
		m := common.ToFloat32Mat3(e.normal)
		return m[:]
	case InverseView:
		m := common.ToFloat32Mat4(e.inverseView)
		return m[:]
	}
	m := common.ToFloat32Mat4(e.mats[k])
	return m[:]
}
