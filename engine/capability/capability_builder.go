package capability

type detector struct {
	requiredMajor int
	allowFallback bool
}

// DetectorOption is a functional option for configuring Detect.
type DetectorOption func(d *detector)

// WithRequiredVersion sets the context major version the caller requires. A value <= 0 accepts
// any version.
//
// Parameters:
//   - major: the required major version
//
// Returns:
//   - DetectorOption: option function to apply
func WithRequiredVersion(major int) DetectorOption {
	return func(d *detector) {
		d.requiredMajor = major
	}
}

// WithVersionFallback allows Detect to accept a context below the required version. The downgrade
// is logged at warn level.
//
// Parameters:
//   - allow: if true, a lower version is accepted
//
// Returns:
//   - DetectorOption: option function to apply
func WithVersionFallback(allow bool) DetectorOption {
	return func(d *detector) {
		d.allowFallback = allow
	}
}
