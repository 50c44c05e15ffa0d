package shader

import "github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"

// ShaderBuilderOption is a functional option applied to a shader during construction.
type ShaderBuilderOption func(*shader)

// WithEntryPoints overrides the default vs_main / fs_main entry points.
//
// Parameters:
//   - vertex: the @vertex function name
//   - fragment: the @fragment function name
//
// Returns:
//   - ShaderBuilderOption: a function that sets the entry points
func WithEntryPoints(vertex, fragment string) ShaderBuilderOption {
	return func(s *shader) {
		s.vertexEntry = vertex
		s.fragmentEntry = fragment
	}
}

// WithBindGroupLayouts sets the bind group layouts, one per group in group order.
//
// Parameters:
//   - layouts: the layouts
//
// Returns:
//   - ShaderBuilderOption: a function that sets the layouts
func WithBindGroupLayouts(layouts ...gpu.BindGroupLayout) ShaderBuilderOption {
	return func(s *shader) {
		s.layouts = layouts
	}
}
