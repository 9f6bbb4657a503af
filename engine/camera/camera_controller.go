package camera

import "github.com/go-gl/mathgl/mgl64"

// CameraController owns the camera position and look-at target. Orbit controls move the position
// over a sphere around the target; planar controls translate position and target together along
// the camera's local axes, preserving the orbit.
type CameraController interface {
	orbitCameraController
	planarCameraController

	// Position returns the camera's world-space position.
	Position() mgl64.Vec3

	// Target returns the look-at point.
	Target() mgl64.Vec3

	// SetTarget sets the look-at point and recomputes the position from the orbit angles.
	//
	// Parameters:
	//   - target: world-space coordinates
	SetTarget(target mgl64.Vec3)

	// Zoom moves the camera toward the target by delta times the zoom speed, within the radius
	// bounds.
	//
	// Parameters:
	//   - delta: zoom amount; positive zooms in
	Zoom(delta float64)
}

type orbitCameraController interface {
	// OrbitLeft and OrbitRight rotate around the target by one orbit speed step.
	OrbitLeft()
	OrbitRight()

	// OrbitUp and OrbitDown tilt by one orbit speed step, clamped to the elevation bounds.
	OrbitUp()
	OrbitDown()

	// Radius returns the distance from the target.
	Radius() float64

	// SetRadius sets the distance from the target, clamped to the radius bounds.
	SetRadius(radius float64)

	// Azimuth returns the horizontal angle around the Y axis in radians.
	Azimuth() float64

	// SetAzimuth sets the horizontal angle and recomputes the position.
	SetAzimuth(azimuth float64)

	// Elevation returns the vertical angle above the horizontal plane in radians.
	Elevation() float64

	// SetElevation sets the vertical angle, clamped to the elevation bounds.
	SetElevation(elevation float64)
}

type planarCameraController interface {
	// PanRight translates along the local right axis. Negative delta moves left.
	PanRight(delta float64)

	// PanUp translates along the local up axis. Negative delta moves down.
	PanUp(delta float64)

	// PanForward translates toward the target. Negative delta moves away.
	PanForward(delta float64)
}
