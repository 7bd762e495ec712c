package shaderparam

import "github.com/cogentcore/webgpu/wgpu"

// formatNames maps the texture formats the engine actually emits read-write storage-texture bindings for
// to the HLSL vk::image_format string the shader compiler expects.
var formatNames = map[wgpu.TextureFormat]string{
	wgpu.TextureFormatR32Float:         "r32f",
	wgpu.TextureFormatR32Sint:          "r32i",
	wgpu.TextureFormatR32Uint:          "r32ui",
	wgpu.TextureFormatRG32Float:        "rg32f",
	wgpu.TextureFormatRG32Sint:         "rg32i",
	wgpu.TextureFormatRG32Uint:         "rg32ui",
	wgpu.TextureFormatRGBA8Unorm:       "rgba8",
	wgpu.TextureFormatRGBA8UnormSrgb:   "rgba8",
	wgpu.TextureFormatRGBA8Snorm:       "rgba8snorm",
	wgpu.TextureFormatRGBA8Uint:        "rgba8ui",
	wgpu.TextureFormatRGBA8Sint:        "rgba8i",
	wgpu.TextureFormatRGBA16Float:      "rgba16f",
	wgpu.TextureFormatRGBA16Uint:       "rgba16ui",
	wgpu.TextureFormatRGBA16Sint:       "rgba16i",
	wgpu.TextureFormatRGBA32Float:      "rgba32f",
	wgpu.TextureFormatRGBA32Uint:       "rgba32ui",
	wgpu.TextureFormatRGBA32Sint:       "rgba32i",
}
