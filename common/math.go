package common

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// ToFloat32Mat4 narrows a double precision 4x4 matrix to the float32 layout uploaded to uniforms.
// Both types are column-major, so no transposition happens.
//
// Parameters:
//   - m: the source matrix
//
// Returns:
//   - mgl32.Mat4: the narrowed matrix
func ToFloat32Mat4(m mgl64.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i := range m {
		out[i] = float32(m[i])
	}
	return out
}

// ToFloat32Mat3 narrows a double precision 3x3 matrix to float32.
//
// Parameters:
//   - m: the source matrix
//
// Returns:
//   - mgl32.Mat3: the narrowed matrix
func ToFloat32Mat3(m mgl64.Mat3) mgl32.Mat3 {
	var out mgl32.Mat3
	for i := range m {
		out[i] = float32(m[i])
	}
	return out
}

// NormalMatrix computes the transpose of the inverse of view*model restricted to its upper 3x3.
// A singular model-view yields the zero matrix, matching mgl64's Inv contract.
//
// Parameters:
//   - view: the view matrix
//   - model: the model matrix
//
// Returns:
//   - mgl64.Mat3: the normal matrix
func NormalMatrix(view, model mgl64.Mat4) mgl64.Mat3 {
	return view.Mul4(model).Inv().Transpose().Mat3()
}

// EulerRotation builds a rotation applying the X, then Y, then Z axis angles (radians) in the
// same post-multiplied order used by the matrix engine's Rotate.
//
// Parameters:
//   - x, y, z: rotation angles in radians around each axis
//
// Returns:
//   - mgl64.Mat4: the composed rotation
func EulerRotation(x, y, z float64) mgl64.Mat4 {
	return mgl64.HomogRotate3DX(x).Mul4(mgl64.HomogRotate3DY(y)).Mul4(mgl64.HomogRotate3DZ(z))
}
