package accel

import "github.com/aurora-render/forge/rhi"

// BottomLevelBuildDesc is one entry of a batched BLAS build (§4.11): build-or-update the destination
// acceleration structure from scratch memory at the given offset, optionally emitting a post-build
// compacted-size query into EmitCompactedSizeTo.
type BottomLevelBuildDesc struct {
	BuildInput               GeometryBuildInput
	ScratchBuffer            *rhi.Buffer
	ScratchBufferOffset      uint64
	DstAccelerationStructure any
	SrcAccelerationStructure any // set only when BuildInput.IsUpdate
	EmitCompactedSizeTo      *rhi.Buffer
	EmitCompactedSizeOffset  uint64
}

// TopLevelBuildDesc is the single TLAS build issued by BuildTLAS.
type TopLevelBuildDesc struct {
	BuildInput               InstanceBuildInput
	ScratchBuffer            *rhi.Buffer
	DstAccelerationStructure any
}

// Device is the narrow set of acceleration-structure operations BuildBLAS/BuildTLAS need from a backend.
// A real implementation would wrap whatever ray-tracing extension the running wgpu build exposes; this
// module carries none, the same external-collaborator gap that keeps shadercompiler.Compiler out of scope.
type Device interface {
	AccelerationStructureMemorySize(input GeometryBuildInput) SizeInfo
	InstanceMemorySize(input InstanceBuildInput) SizeInfo
	// CreateBottomLevel and CreateTopLevel each allocate the backing buffer of the given size and create
	// the acceleration structure object over it in one step, mirroring the original's create_buffer (which
	// does both together).
	CreateBottomLevel(size uint64) (handle any, buf *rhi.Buffer)
	CreateTopLevel(size uint64) (handle any, buf *rhi.Buffer)
	CreateScratchBuffer(size uint64) *rhi.Buffer
	CreateReadbackBuffer(size uint64) *rhi.Buffer
	BuildBottomLevel(encoder *rhi.CommandEncoder, builds []BottomLevelBuildDesc)
	BuildTopLevel(encoder *rhi.CommandEncoder, build TopLevelBuildDesc)
	// CompactAccelerationStructure copies src's built data into dst, a freshly created, smaller
	// acceleration structure, and returns dst's GPU reference for use in future TLAS instances.
	CompactAccelerationStructure(encoder *rhi.CommandEncoder, src, dst any) (gpuReference uint64)
	GPUReference(handle any) uint64
	CopyBufferToBuffer(encoder *rhi.CommandEncoder, src, dst *rhi.Buffer, size uint64)
	ReadBuffer(buf *rhi.Buffer, byteLen uint64) []byte
}
