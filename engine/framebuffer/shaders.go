package framebuffer

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-gl/engine/resource"
)

// BlitVertex330 and BlitFragment330 draw a full-screen quad sampling uTexture on core contexts.
//
//go:embed assets/blit_330.vert
var BlitVertex330 string

//go:embed assets/blit_330.frag
var BlitFragment330 string

// BlitVertex100 and BlitFragment100 are the GLSL ES 1.00 equivalents for baseline contexts.
//
//go:embed assets/blit_100.vert
var BlitVertex100 string

//go:embed assets/blit_100.frag
var BlitFragment100 string

// BlitSamplerUniform is the sampler uniform every blit program must declare.
const BlitSamplerUniform = "uTexture"

// blitSource picks the blit shaders matching the context's major version.
func blitSource(major int) resource.ProgramSource {
	if major >= 3 {
		return resource.ProgramSource{Vertex: BlitVertex330, Fragment: BlitFragment330}
	}
	return resource.ProgramSource{Vertex: BlitVertex100, Fragment: BlitFragment100}
}

// quad is a triangle strip covering clip space.
var quad = []float32{
	-1, -1,
	1, -1,
	-1, 1,
	1, 1,
}
