package graphicsmanager

import (
	"github.com/aurora-render/forge/gpuresource"
	"github.com/aurora-render/forge/rendergraph"
	"github.com/aurora-render/forge/rhi"
	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuBufferUsage translates the render graph's backend-neutral usage bitflags into the concrete wgpu usage
// flags CreateBuffer needs, the same translation engine/renderer/wgpu_renderer_backend.go performs inline
// at each of its own CreateBuffer call sites.
func wgpuBufferUsage(u rhi.BufferUsage) wgpu.BufferUsage {
	var out wgpu.BufferUsage
	if u.Has(rhi.BufferUsageUniform) {
		out |= wgpu.BufferUsageUniform
	}
	if u.Has(rhi.BufferUsageIndirect) {
		out |= wgpu.BufferUsageIndirect
	}
	if u.Has(rhi.BufferUsageStorageRead) || u.Has(rhi.BufferUsageStorageReadWrite) {
		out |= wgpu.BufferUsageStorage
	}
	if u.Has(rhi.BufferUsageVertex) {
		out |= wgpu.BufferUsageVertex
	}
	if u.Has(rhi.BufferUsageIndex) {
		out |= wgpu.BufferUsageIndex
	}
	if u.Has(rhi.BufferUsageCopySrc) {
		out |= wgpu.BufferUsageCopySrc
	}
	if u.Has(rhi.BufferUsageCopyDst) {
		out |= wgpu.BufferUsageCopyDst
	}
	return out
}

func wgpuTextureUsage(u rhi.TextureUsage) wgpu.TextureUsage {
	var out wgpu.TextureUsage
	if u.Has(rhi.TextureUsageSampled) {
		out |= wgpu.TextureUsageTextureBinding
	}
	if u.Has(rhi.TextureUsageStorageRead) || u.Has(rhi.TextureUsageStorageReadWrite) {
		out |= wgpu.TextureUsageStorageBinding
	}
	if u.Has(rhi.TextureUsageColorAttachment) || u.Has(rhi.TextureUsageDepthStencilAttachment) {
		out |= wgpu.TextureUsageRenderAttachment
	}
	if u.Has(rhi.TextureUsageCopySrc) {
		out |= wgpu.TextureUsageCopySrc
	}
	if u.Has(rhi.TextureUsageCopyDst) {
		out |= wgpu.TextureUsageCopyDst
	}
	return out
}

// newDeviceAllocators builds the allocate callbacks rendergraph.NewBufferPool/NewTexturePool need,
// grounded on the CreateBuffer/CreateTexture call shapes in engine/renderer/wgpu_renderer_backend.go. Every
// allocation failure is fatal here: §7 gives the render graph no "out of memory, skip this resource" path,
// only the sub-allocator's absent-on-exhaustion contract, which does not apply to a fresh RHI allocation.
func newDeviceAllocators(device *rhi.Device) (
	allocateGPUBuffer func(gpuresource.BufferDesc) *rhi.Buffer,
	allocateStagingBuffer func(uint64, string) *rhi.Buffer,
	allocateTexture func(rendergraph.TextureSetup) *rhi.Texture,
) {
	allocateGPUBuffer = func(desc gpuresource.BufferDesc) *rhi.Buffer {
		buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            desc.Label,
			Size:             desc.Size,
			Usage:            wgpuBufferUsage(desc.Usages),
			MappedAtCreation: false,
		})
		if err != nil {
			panic("graphicsmanager: buffer allocation failed: " + err.Error())
		}
		return buf
	}

	allocateStagingBuffer = func(size uint64, label string) *rhi.Buffer {
		buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            label,
			Size:             size,
			Usage:            wgpu.BufferUsageCopySrc | wgpu.BufferUsageMapWrite,
			MappedAtCreation: false,
		})
		if err != nil {
			panic("graphicsmanager: staging buffer allocation failed: " + err.Error())
		}
		return buf
	}

	allocateTexture = func(setup rendergraph.TextureSetup) *rhi.Texture {
		tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
			Label: setup.Label,
			Size: wgpu.Extent3D{
				Width:              setup.Width,
				Height:             setup.Height,
				DepthOrArrayLayers: setup.DepthOrLayers,
			},
			MipLevelCount: setup.Levels,
			SampleCount:   1,
			Dimension:     wgpu.TextureDimension2D,
			Format:        setup.Format,
			Usage:         wgpuTextureUsage(setup.Usages),
		})
		if err != nil {
			panic("graphicsmanager: texture allocation failed: " + err.Error())
		}
		return tex
	}

	return allocateGPUBuffer, allocateStagingBuffer, allocateTexture
}
