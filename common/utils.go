package common

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Ref returns a pointer to a copy of v. It is used to fill the optional fields of the state
// update structs, where a nil field means "leave unchanged".
//
// Parameters:
//   - v: the value to point at
//
// Returns:
//   - *T: a pointer to a fresh copy of v
func Ref[T any](v T) *T {
	return &v
}
