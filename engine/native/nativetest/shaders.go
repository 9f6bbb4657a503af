package nativetest

// Shader sources shared by tests. Every matrix the engine uploads is declared by LitVertex.
const (
	LitVertex = `#version 330 core
in vec3 aPosition;
in vec3 aNormal;
in vec2 aTexCoord;
uniform mat4 uProjectionMatrix;
uniform mat4 uViewMatrix;
uniform mat4 uModelMatrix;
uniform mat3 uNormalMatrix;
uniform mat4 uInverseViewMatrix;
out vec3 vNormal;
void main() {
	vNormal = uNormalMatrix * aNormal;
	gl_Position = uProjectionMatrix * uViewMatrix * uModelMatrix * vec4(aPosition, 1.0);
}
`

	ProjectionOnlyVertex = `#version 330 core
in vec3 aPosition;
uniform mat4 uProjectionMatrix;
void main() {
	gl_Position = uProjectionMatrix * vec4(aPosition, 1.0);
}
`

	ColorFragment = `#version 330 core
uniform vec4 uColor;
uniform float uAlpha;
uniform int uMode;
uniform vec3 uLights[4];
out vec4 fragColor;
void main() {
	fragColor = vec4(uColor.rgb, uColor.a * uAlpha);
}
`

	BrokenVertex = `#version 330 core
#error missing semicolon near gl_Position
void main() {}
`

	NoMainFragment = `#version 330 core
out vec4 fragColor;
`
)
