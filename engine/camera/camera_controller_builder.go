package camera

import "github.com/go-gl/mathgl/mgl64"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithRadius sets the initial distance from the target.
//
// Parameters:
//   - radius: distance from the orbit target
//
// Returns:
//   - CameraControllerOption: functional option to set the radius
func WithRadius(radius float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.radius = radius
	}
}

// WithAzimuth sets the initial horizontal angle around the Y axis.
//
// Parameters:
//   - azimuth: horizontal angle in radians (0 = +Z axis)
//
// Returns:
//   - CameraControllerOption: functional option to set the azimuth
func WithAzimuth(azimuth float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.azimuth = azimuth
	}
}

// WithElevation sets the initial vertical angle above the horizontal plane.
func WithElevation(elevation float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.elevation = elevation
	}
}

// WithTarget sets the look-at point.
func WithTarget(target mgl64.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = target
	}
}

// WithRadiusBounds sets the minimum and maximum distance from the target.
func WithRadiusBounds(lo, hi float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minRadius, cc.maxRadius = lo, hi
	}
}

// WithElevationBounds sets the minimum and maximum elevation angles in radians.
func WithElevationBounds(lo, hi float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minElevation, cc.maxElevation = lo, hi
	}
}

// WithSpeeds sets the orbit step in radians and the zoom and pan multipliers.
//
// Parameters:
//   - orbit: radians per orbit call
//   - zoom: multiplier for zoom input
//   - pan: multiplier for pan input
//
// Returns:
//   - CameraControllerOption: functional option to set the speeds
func WithSpeeds(orbit, zoom, pan float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.orbitSpeed, cc.zoomSpeed, cc.panSpeed = orbit, zoom, pan
	}
}
