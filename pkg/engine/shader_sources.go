package engine

// GLSL sources for the pass catalog. Every post-processing program shares
// the same vertex stage, which synthesizes the screen quad corners from the
// vertex index alone; no vertex or index buffer is ever bound.

const fullscreenVertexShader = `
#version 410 core
out vec2 sceneUV;

void main() {
    const vec2 corners[4] = vec2[](
        vec2(-1.0, -1.0),
        vec2( 1.0, -1.0),
        vec2(-1.0,  1.0),
        vec2( 1.0,  1.0)
    );
    vec2 p = corners[gl_VertexID];
    sceneUV = p * 0.5 + 0.5;
    gl_Position = vec4(p, 0.0, 1.0);
}
`

const copyFragmentShader = `
#version 410 core
in vec2 sceneUV;
out vec4 FragColor;

uniform sampler2D sourceImage;

void main() {
    FragColor = texture(sourceImage, sceneUV);
}
`

const tintFragmentShader = `
#version 410 core
in vec2 sceneUV;
out vec4 FragColor;

uniform sampler2D sourceImage;
uniform vec3 tintColor;
uniform vec3 tintColor2;

void main() {
    vec4 color = texture(sourceImage, sceneUV);
    vec3 tint = mix(tintColor, tintColor2, sceneUV.y);
    FragColor = vec4(color.rgb * tint, color.a);
}
`

// Square-neighborhood blur with a linear falloff: weight = radius - distance
const boxBlurFragmentShader = `
#version 410 core
in vec2 sceneUV;
out vec4 FragColor;

uniform sampler2D sourceImage;
uniform float blurRadius;
uniform vec2 viewportSize;

void main() {
    int radius = int(blurRadius);
    vec2 texel = 1.0 / viewportSize;

    vec3 sum = vec3(0.0);
    float weightSum = 0.0;
    for (int y = -radius; y <= radius; y++) {
        for (int x = -radius; x <= radius; x++) {
            float w = max(blurRadius - length(vec2(x, y)), 0.0);
            sum += texture(sourceImage, sceneUV + vec2(x, y) * texel).rgb * w;
            weightSum += w;
        }
    }
    FragColor = vec4(sum / weightSum, 1.0);
}
`

const gaussianHFragmentShader = `
#version 410 core
in vec2 sceneUV;
out vec4 FragColor;

uniform sampler2D sourceImage;
uniform float blurRadius;
uniform float blurCurve;
uniform vec2 viewportSize;

void main() {
    int radius = int(blurRadius);
    float sigma = max(blurRadius * blurCurve / 3.0, 1.0);
    float texel = 1.0 / viewportSize.x;

    vec3 sum = vec3(0.0);
    float weightSum = 0.0;
    for (int x = -radius; x <= radius; x++) {
        float w = exp(-float(x * x) / (2.0 * sigma * sigma));
        sum += texture(sourceImage, sceneUV + vec2(float(x) * texel, 0.0)).rgb * w;
        weightSum += w;
    }
    FragColor = vec4(sum / weightSum, 1.0);
}
`

const gaussianVFragmentShader = `
#version 410 core
in vec2 sceneUV;
out vec4 FragColor;

uniform sampler2D sourceImage;
uniform float blurRadius;
uniform float blurCurve;
uniform vec2 viewportSize;

void main() {
    int radius = int(blurRadius);
    float sigma = max(blurRadius * blurCurve / 3.0, 1.0);
    float texel = 1.0 / viewportSize.y;

    vec3 sum = vec3(0.0);
    float weightSum = 0.0;
    for (int y = -radius; y <= radius; y++) {
        float w = exp(-float(y * y) / (2.0 * sigma * sigma));
        sum += texture(sourceImage, sceneUV + vec2(0.0, float(y) * texel)).rgb * w;
        weightSum += w;
    }
    FragColor = vec4(sum / weightSum, 1.0);
}
`

// Pixels whose summed channels fall below the threshold are zeroed; the
// rest pass through unchanged
const brightFragmentShader = `
#version 410 core
in vec2 sceneUV;
out vec4 FragColor;

uniform sampler2D sourceImage;
uniform float bloomThreshold;

void main() {
    vec4 color = texture(sourceImage, sceneUV);
    if (color.r + color.g + color.b < bloomThreshold) {
        FragColor = vec4(0.0, 0.0, 0.0, 1.0);
    } else {
        FragColor = color;
    }
}
`

const combineFragmentShader = `
#version 410 core
in vec2 sceneUV;
out vec4 FragColor;

uniform sampler2D sourceImage; // blurred highlights
uniform sampler2D sceneImage;

void main() {
    vec3 highlights = texture(sourceImage, sceneUV).rgb;
    vec3 scene = texture(sceneImage, sceneUV).rgb;
    FragColor = vec4(scene + highlights, 1.0);
}
`

// Snaps sampling onto a coarse grain grid and layers animated static on top
const pixelateFragmentShader = `
#version 410 core
in vec2 sceneUV;
out vec4 FragColor;

uniform sampler2D sourceImage;
uniform sampler2D noiseImage;
uniform float grainSize;
uniform vec2 noiseScale;
uniform vec2 noiseOffset;
uniform vec2 viewportSize;

void main() {
    vec2 cell = vec2(grainSize) / viewportSize;
    vec2 snapped = (floor(sceneUV / cell) + 0.5) * cell;
    vec4 color = texture(sourceImage, snapped);

    float grain = texture(noiseImage, snapped * noiseScale + noiseOffset).r;
    color.rgb += (grain - 0.5) * 0.15;

    FragColor = color;
}
`

const posterizeFragmentShader = `
#version 410 core
in vec2 sceneUV;
out vec4 FragColor;

uniform sampler2D sourceImage;
uniform float bitStep;

void main() {
    vec4 color = texture(sourceImage, sceneUV);
    color.rgb = round(color.rgb * 256.0 / bitStep) * bitStep / 256.0;
    FragColor = color;
}
`

// Sine-wave UV wobble on two independent phase channels, tinted toward the
// two water colors
const underwaterFragmentShader = `
#version 410 core
in vec2 sceneUV;
out vec4 FragColor;

uniform sampler2D sourceImage;
uniform vec3 waterColor;
uniform vec3 waterColor2;
uniform float hWave;
uniform float vWave;

void main() {
    vec2 uv = sceneUV;
    uv.x += sin(uv.y * 20.0 + hWave * 3.0) * 0.01;
    uv.y += sin(uv.x * 15.0 + vWave * 3.0) * 0.01;

    vec4 color = texture(sourceImage, uv);
    vec3 tint = mix(waterColor, waterColor2, sceneUV.y);
    FragColor = vec4(mix(color.rgb, color.rgb * tint, 0.6), color.a);
}
`

// Rotates each sample around screen center by an angle growing with the
// distance from center and the animated spiral level
const spiralFragmentShader = `
#version 410 core
in vec2 sceneUV;
out vec4 FragColor;

uniform sampler2D sourceImage;
uniform float spiralLevel;

void main() {
    vec2 offset = sceneUV - 0.5;
    float dist = length(offset);
    float angle = dist * spiralLevel;
    float s = sin(angle);
    float c = cos(angle);
    vec2 rotated = vec2(offset.x * c - offset.y * s,
                        offset.x * s + offset.y * c);
    FragColor = texture(sourceImage, rotated + 0.5);
}
`

// Shifts UVs by a vector field stored in the distortion texture and adds a
// cheap directional light term derived from the same vector
const distortFragmentShader = `
#version 410 core
in vec2 sceneUV;
out vec4 FragColor;

uniform sampler2D sourceImage;
uniform sampler2D distortImage;

void main() {
    const float distortLevel = 0.03;
    const vec2 lightDir = normalize(vec2(0.707, 0.707));

    vec2 d = texture(distortImage, sceneUV).rg - 0.5;
    vec4 color = texture(sourceImage, sceneUV + d * distortLevel);

    float light = clamp(dot(normalize(d + vec2(0.0001)), lightDir), 0.0, 1.0);
    color.rgb += light * 0.15;

    FragColor = color;
}
`

// Procedural lit scene: checkered ground plane, sky gradient and two point
// lights, raycast from the camera. Stands in for the mesh-based scene pass,
// which lives outside this module.
const sceneFragmentShader = `
#version 410 core
in vec2 sceneUV;
out vec4 FragColor;

uniform vec3 cameraPos;
uniform float cameraYaw;
uniform float cameraPitch;
uniform vec3 light1Pos;
uniform vec3 light1Color;
uniform vec3 light2Pos;
uniform vec3 light2Color;
uniform vec3 ambientColor;
uniform float specularPower;
uniform vec2 viewportSize;
uniform float time;
uniform vec3 objectColor;

vec3 shade(vec3 pos, vec3 normal, vec3 viewDir, vec3 albedo) {
    vec3 color = albedo * ambientColor;
    vec3 lights[2] = vec3[](light1Pos, light2Pos);
    vec3 colors[2] = vec3[](light1Color, light2Color);
    for (int i = 0; i < 2; i++) {
        vec3 toLight = lights[i] - pos;
        float d2 = dot(toLight, toLight);
        vec3 l = normalize(toLight);
        float diff = max(dot(normal, l), 0.0);
        vec3 h = normalize(l + viewDir);
        float spec = pow(max(dot(normal, h), 0.0), specularPower);
        color += (albedo * diff + spec) * colors[i] / d2 * 50.0;
    }
    return color;
}

void main() {
    float aspect = viewportSize.x / viewportSize.y;
    vec2 ndc = (sceneUV - 0.5) * 2.0;
    ndc.x *= aspect;

    float cy = cos(cameraYaw), sy = sin(cameraYaw);
    float cp = cos(cameraPitch), sp = sin(cameraPitch);
    vec3 forward = vec3(sy * cp, -sp, cy * cp);
    vec3 right = vec3(cy, 0.0, -sy);
    vec3 up = cross(right, forward);
    vec3 rd = normalize(forward + ndc.x * right + ndc.y * up);
    vec3 ro = cameraPos;

    vec3 color;
    if (rd.y < 0.0) {
        float t = -ro.y / rd.y;
        vec3 pos = ro + rd * t;
        float checker = mod(floor(pos.x / 10.0) + floor(pos.z / 10.0), 2.0);
        vec3 albedo = mix(vec3(0.25, 0.35, 0.2), vec3(0.35, 0.45, 0.3), checker);
        color = shade(pos, vec3(0.0, 1.0, 0.0), -rd, albedo);
        // fade the ground into the horizon
        color = mix(color, ambientColor, clamp(t / 600.0, 0.0, 1.0));
    } else {
        color = mix(ambientColor, ambientColor * 0.4, rd.y);
    }

    // light flares
    vec3 lights[2] = vec3[](light1Pos, light2Pos);
    vec3 colors[2] = vec3[](light1Color, light2Color);
    for (int i = 0; i < 2; i++) {
        vec3 toLight = normalize(lights[i] - ro);
        float glow = pow(max(dot(rd, toLight), 0.0), 600.0);
        color += colors[i] * glow * 0.2;
    }

    FragColor = vec4(color * objectColor, 1.0);
}
`

// fragmentSources maps each catalog entry to its program source
var fragmentSources = [shaderKindCount]string{
	ShaderCopy:       copyFragmentShader,
	ShaderTint:       tintFragmentShader,
	ShaderBoxBlur:    boxBlurFragmentShader,
	ShaderGaussianH:  gaussianHFragmentShader,
	ShaderGaussianV:  gaussianVFragmentShader,
	ShaderBright:     brightFragmentShader,
	ShaderCombine:    combineFragmentShader,
	ShaderPixelate:   pixelateFragmentShader,
	ShaderPosterize:  posterizeFragmentShader,
	ShaderUnderwater: underwaterFragmentShader,
	ShaderSpiral:     spiralFragmentShader,
	ShaderDistort:    distortFragmentShader,
}
