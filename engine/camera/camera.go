package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/engine/matrix"
	"github.com/go-gl/mathgl/mgl64"
)

type cameraImpl struct {
	mu *sync.Mutex

	up mgl64.Vec3

	fov    float64
	aspect float64
	near   float64
	far    float64

	view           mgl64.Mat4
	projection     mgl64.Mat4
	viewProjection mgl64.Mat4

	controller CameraController
}

// Camera holds perspective settings and computes view and projection matrices from an attached
// CameraController. Apply hands the result to a matrix engine, which uploads it on the next draw.
type Camera interface {
	// Up returns the camera's up vector.
	Up() mgl64.Vec3

	// Fov returns the vertical field of view in radians.
	Fov() float64

	// Aspect returns the aspect ratio (width / height).
	Aspect() float64

	// Near returns the near clipping plane distance.
	Near() float64

	// Far returns the far clipping plane distance.
	Far() float64

	// View returns the current view matrix.
	//
	// Returns:
	//   - mgl64.Mat4: the view matrix
	View() mgl64.Mat4

	// Projection returns the current perspective projection matrix.
	//
	// Returns:
	//   - mgl64.Mat4: the projection matrix
	Projection() mgl64.Mat4

	// ViewProjection returns Projection * View.
	//
	// Returns:
	//   - mgl64.Mat4: the combined matrix
	ViewProjection() mgl64.Mat4

	// Controller returns the attached CameraController, or nil.
	Controller() CameraController

	// Update reads position and target from the controller and recomputes the matrices.
	// Does nothing without a controller.
	Update()

	// Apply recomputes the matrices and sets the projection and view matrices of m. Matrices equal
	// to the ones m already holds are not marked for upload.
	//
	// Parameters:
	//   - m: the matrix engine
	Apply(m matrix.Engine)

	// SetUp sets the camera's up vector.
	SetUp(up mgl64.Vec3)

	// SetFov sets the field of view in radians and recomputes matrices.
	SetFov(fov float64)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio; values <= 0 are ignored
	SetAspect(aspect float64)

	// SetNear sets the near clipping plane distance and recomputes matrices.
	SetNear(near float64)

	// SetFar sets the far clipping plane distance and recomputes matrices.
	SetFar(far float64)

	// SetController attaches a CameraController to the camera.
	SetController(ctrl CameraController)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with default perspective settings.
// Without a controller the view matrix stays at identity.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		up:     mgl64.Vec3{0, 1, 0},
		fov:    45.0 * (math.Pi / 180.0),
		aspect: 1.0,
		near:   0.1,
		far:    100.0,
		view:   mgl64.Ident4(),
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Up() mgl64.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Fov() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) View() mgl64.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *cameraImpl) Projection() mgl64.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) ViewProjection() mgl64.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjection
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return
	}
	c.updateMatrices()
}

func (c *cameraImpl) Apply(m matrix.Engine) {
	c.mu.Lock()
	c.updateMatrices()
	projection, view := c.projection, c.view
	c.mu.Unlock()

	m.Set(matrix.Projection, projection)
	m.Set(matrix.View, view)
}

func (c *cameraImpl) SetUp(up mgl64.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = up
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float64) {
	if aspect <= 0 || math.IsNaN(aspect) || math.IsInf(aspect, 0) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

// updateMatrices recalculates the projection and, with a controller attached, the view matrix.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	c.projection = mgl64.Perspective(c.fov, c.aspect, c.near, c.far)
	if c.controller != nil {
		c.view = mgl64.LookAtV(c.controller.Position(), c.controller.Target(), c.up)
	}
	c.viewProjection = c.projection.Mul4(c.view)
}
