// Package rhi is the render hardware interface boundary: the abstract capability set the core (render
// graph, graphics manager, GPU scene) is built against. Concretely it is backed by
// github.com/cogentcore/webgpu/wgpu. rhi is not the only importer of wgpu: graphicsmanager, platform/window,
// cmd/demo, rendergraph's command helpers and shaderparam's format table also use wgpu descriptors and
// constants directly.
package rhi

import "github.com/cogentcore/webgpu/wgpu"

// Device, Queue, CommandEncoder, RenderPassEncoder and ComputePassEncoder are re-exported directly: they
// are opaque handles the core only ever forwards to wgpu calls, never inspects.
type (
	Device              = wgpu.Device
	Queue               = wgpu.Queue
	CommandEncoder      = wgpu.CommandEncoder
	RenderPassEncoder    = wgpu.RenderPassEncoder
	ComputePassEncoder  = wgpu.ComputePassEncoder
	Buffer              = wgpu.Buffer
	Texture             = wgpu.Texture
	TextureView         = wgpu.TextureView
	Sampler             = wgpu.Sampler
	BindGroup           = wgpu.BindGroup
	BindGroupLayout     = wgpu.BindGroupLayout
	ShaderModule        = wgpu.ShaderModule
	RenderPipeline      = wgpu.RenderPipeline
	ComputePipeline     = wgpu.ComputePipeline
	Surface             = wgpu.Surface
	Adapter             = wgpu.Adapter
)

// ResourceAccessType is a bitflag describing the last (or required) access to a resource. Unlike wgpu's own
// implicit usage tracking, the render graph tracks this explicitly per §4.9 so it can decide whether a
// barrier is required between two adjacent passes sharing a resource.
type ResourceAccessType uint32

const (
	AccessNone ResourceAccessType = 0
	AccessTransferRead ResourceAccessType = 1 << iota
	AccessTransferWrite
	AccessUniformBufferRead
	AccessIndirectRead
	AccessStorageResourceRead
	AccessStorageResourceWrite
	AccessSampledTextureRead
	AccessColorAttachmentWrite
	AccessDepthStencilAttachmentRead
	AccessDepthStencilAttachmentWrite
)

// Contains reports whether every bit set in other is also set in a.
func (a ResourceAccessType) Contains(other ResourceAccessType) bool {
	return a&other == other
}

// ContainsAny reports whether a and other share at least one set bit.
func (a ResourceAccessType) ContainsAny(other ResourceAccessType) bool {
	return a&other != 0
}

// BufferUsage is a bitflag describing how a buffer will be used, driving both RHI buffer-usage flags and
// the access-type inference in gpuresource.Buffer.SetDataRaw (§4.2).
type BufferUsage uint32

const (
	BufferUsageNone BufferUsage = 0
	BufferUsageUniform BufferUsage = 1 << iota
	BufferUsageIndirect
	BufferUsageStorageRead
	BufferUsageStorageReadWrite
	BufferUsageVertex
	BufferUsageIndex
	BufferUsageCopySrc
	BufferUsageCopyDst
)

func (u BufferUsage) Has(flag BufferUsage) bool { return u&flag != 0 }

// TextureUsage is a bitflag describing how a texture will be used.
type TextureUsage uint32

const (
	TextureUsageNone TextureUsage = 0
	TextureUsageSampled TextureUsage = 1 << iota
	TextureUsageStorageRead
	TextureUsageStorageReadWrite
	TextureUsageColorAttachment
	TextureUsageDepthStencilAttachment
	TextureUsageCopySrc
	TextureUsageCopyDst
)

func (u TextureUsage) Has(flag TextureUsage) bool { return u&flag != 0 }

// BufferMemoryProperty describes whether a buffer is CPU-visible or GPU-only.
type BufferMemoryProperty int

const (
	MemoryGPUOnly BufferMemoryProperty = iota
	MemoryCPUToGPU
)

// DescriptorType names what kind of binding a shader parameter occupies. DescriptorNone marks a value
// parameter that lives only in the uniform buffer, never as its own descriptor binding.
type DescriptorType int

const (
	DescriptorNone DescriptorType = iota
	DescriptorSampler
	DescriptorUniformBuffer
	DescriptorReadOnlyStorageBuffer
	DescriptorReadWriteStorageBuffer
	DescriptorSampledTexture
	DescriptorReadOnlyStorageTexture
	DescriptorReadWriteStorageTexture
	DescriptorAccelerationStructure
)

// ShaderStage is a bitflag of shader stages a binding is visible to.
type ShaderStage uint32

const (
	ShaderStageNone ShaderStage = 0
	ShaderStageVertex ShaderStage = 1 << iota
	ShaderStageFragment
	ShaderStageCompute
)

// Format mirrors the subset of wgpu texture formats the core needs to reason about (e.g. to decide
// whether mipmap generation needs the compute or the graphics path, §4.10).
type Format = wgpu.TextureFormat

// TextureViewType enumerates the dimensionality of a texture view, used as part of the descriptor cache key
// in §4.2.
type TextureViewType int

const (
	ViewType2D TextureViewType = iota
	ViewType2DArray
	ViewTypeCube
	ViewTypeCubeArray
	ViewType3D
)
