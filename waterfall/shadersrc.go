package waterfall

// DefaultVertexShader passes the quad corners through and hands the fragment
// stage a [0,1] texture coordinate.
const DefaultVertexShader = `#version 410 core
in vec2 in_coord;
out vec2 frag_uv;
void main() {
    frag_uv = in_coord * 0.5 + 0.5;
    gl_Position = vec4(in_coord, 0.0, 1.0);
}
`

// DefaultFragmentShader samples the data texture at a vertically rotated
// coordinate and maps the stored intensity through the color lookup strip.
// The vertical REPEAT wrap on u_texture makes the "+ u_voffset" read wrap
// around the ring buffer without any data movement; u_scale and u_offset
// keep the lookup centered on texels so linear filtering never bleeds
// across the strip's edges.
const DefaultFragmentShader = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
uniform sampler2D u_colorMap;
uniform float u_scale;
uniform float u_offset;
uniform float u_voffset;
void main() {
    float v = texture(u_texture, vec2(frag_uv.x, frag_uv.y + u_voffset)).r;
    fragColor = texture(u_colorMap, vec2(v * u_scale + u_offset, 0.5));
}
`
