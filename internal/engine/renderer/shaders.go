package renderer

const terrainVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexCoord;

uniform mat4 uViewProj;

out vec3 vNormal;
out float vHeight;
out vec2 vTexCoord;

void main() {
	vNormal = aNormal;
	vHeight = aPosition.y;
	vTexCoord = aTexCoord;
	gl_Position = uViewProj * vec4(aPosition, 1.0);
}
`

const terrainFragmentShader = `
#version 410 core

in vec3 vNormal;
in float vHeight;
in vec2 vTexCoord;

uniform vec3 uLightDir;
uniform vec2 uHeightRange;
uniform int uWireframe;

out vec4 FragColor;

void main() {
	if (uWireframe == 1) {
		FragColor = vec4(0.85, 0.9, 0.85, 1.0);
		return;
	}

	float span = max(uHeightRange.y - uHeightRange.x, 0.0001);
	float t = clamp((vHeight - uHeightRange.x) / span, 0.0, 1.0);

	vec3 low = vec3(0.22, 0.42, 0.18);
	vec3 mid = vec3(0.52, 0.46, 0.32);
	vec3 high = vec3(0.92, 0.92, 0.95);
	vec3 base = t < 0.6 ? mix(low, mid, t / 0.6) : mix(mid, high, (t - 0.6) / 0.4);

	float diffuse = max(dot(normalize(vNormal), normalize(-uLightDir)), 0.0);
	FragColor = vec4(base * (0.3 + 0.7 * diffuse), 1.0);
}
`

const lineVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aColor;

uniform mat4 uViewProj;

out vec3 vColor;

void main() {
	vColor = aColor;
	gl_Position = uViewProj * vec4(aPosition, 1.0);
}
`

const lineFragmentShader = `
#version 410 core

in vec3 vColor;
out vec4 FragColor;

void main() {
	FragColor = vec4(vColor, 1.0);
}
`
