package resource

// RegistryBuilderOption is a functional option for configuring a Registry.
type RegistryBuilderOption func(r *Registry)

// WithAttributeLocations replaces the default attribute name to location table.
//
// Parameters:
//   - locations: the table; nil keeps DefaultAttributeLocations
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithAttributeLocations(locations map[string]uint32) RegistryBuilderOption {
	return func(r *Registry) {
		if locations == nil {
			return
		}
		r.defaultLocations = make(map[string]uint32, len(locations))
		for name, loc := range locations {
			r.defaultLocations[name] = loc
		}
	}
}
