package shader

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"
)

//go:embed assets/sprite.wgsl
var spriteSource string

// SpriteKey is the key of the built-in sprite shader.
const SpriteKey = "sprite"

// shader is the implementation of the Shader interface.
type shader struct {
	key           string
	source        string
	vertexEntry   string
	fragmentEntry string
	layouts       []gpu.BindGroupLayout
}

// Shader is a WGSL module with a vertex and a fragment entry point and the explicit
// bind group layouts its resources are declared with.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// VertexEntryPoint returns the name of the @vertex function.
	//
	// Returns:
	//   - string: the entry point
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the @fragment function.
	//
	// Returns:
	//   - string: the entry point
	FragmentEntryPoint() string

	// BindGroupLayouts returns the layouts indexed by group number.
	//
	// Returns:
	//   - []gpu.BindGroupLayout: one layout per group, in group order
	BindGroupLayouts() []gpu.BindGroupLayout
}

var _ Shader = &shader{}

// NewShader creates a shader from WGSL source.
//
// Parameters:
//   - key: the unique shader key
//   - source: the WGSL source
//   - options: entry points and layouts
//
// Returns:
//   - Shader: the shader
func NewShader(key, source string, options ...ShaderBuilderOption) Shader {
	if source == "" {
		panic(fmt.Sprintf("shader: %s must have a non-empty source", key))
	}
	s := &shader{
		key:           key,
		source:        source,
		vertexEntry:   "vs_main",
		fragmentEntry: "fs_main",
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// NewShaderFromPath reads WGSL source from disk. See NewShader.
//
// Parameters:
//   - key: the unique shader key
//   - path: the WGSL file
//   - options: entry points and layouts
//
// Returns:
//   - Shader: the shader
//   - error: an error if the file could not be read
func NewShaderFromPath(key, path string, options ...ShaderBuilderOption) (Shader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shader: failed to read %s: %w", path, err)
	}
	return NewShader(key, string(data), options...), nil
}

// SpriteLayouts are the bind group layouts of the sprite record format:
// group 0 holds the view-projection uniform and the static and dynamic storage arrays,
// group 1 holds one texture and its sampler.
func SpriteLayouts() []gpu.BindGroupLayout {
	return []gpu.BindGroupLayout{
		{
			Label: "sprite records",
			Entries: []gpu.BindGroupLayoutEntry{
				{Binding: 0, Type: gpu.BindingUniformBuffer, Visibility: gpu.ShaderStageVertex, MinBindingSize: 64},
				{Binding: 1, Type: gpu.BindingReadOnlyStorageBuffer, Visibility: gpu.ShaderStageVertex},
				{Binding: 2, Type: gpu.BindingReadOnlyStorageBuffer, Visibility: gpu.ShaderStageVertex},
			},
		},
		{
			Label: "sprite texture",
			Entries: []gpu.BindGroupLayoutEntry{
				{Binding: 0, Type: gpu.BindingTexture, Visibility: gpu.ShaderStageFragment},
				{Binding: 1, Type: gpu.BindingSampler, Visibility: gpu.ShaderStageFragment},
			},
		},
	}
}

// Sprite returns the built-in instanced sprite shader.
func Sprite() Shader {
	return NewShader(SpriteKey, spriteSource, WithBindGroupLayouts(SpriteLayouts()...))
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntry
}

func (s *shader) FragmentEntryPoint() string {
	return s.fragmentEntry
}

func (s *shader) BindGroupLayouts() []gpu.BindGroupLayout {
	return s.layouts
}
