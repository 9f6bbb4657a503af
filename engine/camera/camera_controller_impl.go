package camera

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

type cameraControllerImpl struct {
	mu *sync.Mutex

	position mgl64.Vec3
	target   mgl64.Vec3

	// Spherical coordinates of position around target.
	radius    float64
	azimuth   float64
	elevation float64

	minRadius    float64
	maxRadius    float64
	minElevation float64
	maxElevation float64

	orbitSpeed float64
	zoomSpeed  float64
	panSpeed   float64
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a controller orbiting the origin.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:        &sync.Mutex{},
		radius:    10.0,
		elevation: math.Pi / 6,

		minRadius:    0.5,
		maxRadius:    1000.0,
		minElevation: -math.Pi/2 + 0.05,
		maxElevation: math.Pi/2 - 0.05,

		orbitSpeed: 0.03,
		zoomSpeed:  1.0,
		panSpeed:   1.0,
	}
	for _, option := range options {
		option(cc)
	}
	cc.radius = mgl64.Clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.elevation = mgl64.Clamp(cc.elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
	return cc
}

// updatePosition recomputes the position from the spherical coordinates. Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	cosElev, sinElev := math.Cos(cc.elevation), math.Sin(cc.elevation)
	sinAzim, cosAzim := math.Sin(cc.azimuth), math.Cos(cc.azimuth)
	cc.position = cc.target.Add(mgl64.Vec3{
		cc.radius * cosElev * sinAzim,
		cc.radius * sinElev,
		cc.radius * cosElev * cosAzim,
	})
}

// localAxes returns the right, up and forward axes matching mgl64.LookAtV with a +Y world up.
// All three are zero when position and target coincide. Caller must hold the mutex.
func (cc *cameraControllerImpl) localAxes() (right, up, forward mgl64.Vec3) {
	back := cc.position.Sub(cc.target)
	if back.Len() < 1e-8 {
		return
	}
	back = back.Normalize()
	right = mgl64.Vec3{0, 1, 0}.Cross(back)
	if right.Len() < 1e-8 {
		return mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{}
	}
	right = right.Normalize()
	return right, back.Cross(right), back.Mul(-1)
}

func (cc *cameraControllerImpl) pan(axis mgl64.Vec3, delta float64) {
	offset := axis.Mul(delta * cc.panSpeed)
	cc.target = cc.target.Add(offset)
	cc.position = cc.position.Add(offset)
}

func (cc *cameraControllerImpl) Position() mgl64.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Target() mgl64.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(target mgl64.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = target
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Zoom(delta float64) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = mgl64.Clamp(cc.radius-delta*cc.zoomSpeed, cc.minRadius, cc.maxRadius)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) OrbitLeft() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth -= cc.orbitSpeed
	cc.updatePosition()
}

func (cc *cameraControllerImpl) OrbitRight() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth += cc.orbitSpeed
	cc.updatePosition()
}

func (cc *cameraControllerImpl) OrbitUp() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.elevation = min(cc.elevation+cc.orbitSpeed, cc.maxElevation)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) OrbitDown() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.elevation = max(cc.elevation-cc.orbitSpeed, cc.minElevation)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Radius() float64 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) SetRadius(radius float64) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = mgl64.Clamp(radius, cc.minRadius, cc.maxRadius)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Azimuth() float64 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) SetAzimuth(azimuth float64) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth = azimuth
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Elevation() float64 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) SetElevation(elevation float64) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.elevation = mgl64.Clamp(elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) PanRight(delta float64) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	right, _, _ := cc.localAxes()
	cc.pan(right, delta)
}

func (cc *cameraControllerImpl) PanUp(delta float64) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	_, up, _ := cc.localAxes()
	cc.pan(up, delta)
}

func (cc *cameraControllerImpl) PanForward(delta float64) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	_, _, forward := cc.localAxes()
	cc.pan(forward, delta)
}
