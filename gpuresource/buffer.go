// Package gpuresource wraps RHI buffers and textures with the bookkeeping the rest of the engine needs on
// top of a raw handle: per-view descriptor caching and staged CPU->GPU uploads with barriers inferred from
// declared usage (§4.2).
package gpuresource

import (
	"fmt"

	"github.com/aurora-render/forge/rhi"
)

// TransferRecorder is the minimal command-recording surface Buffer needs to schedule a staging copy. It is
// satisfied by rendergraph's pass execution context, kept as an interface here so gpuresource never imports
// rendergraph (that import would run the other way).
type TransferRecorder interface {
	CopyBufferToBuffer(src rhi.Buffer, srcOffset uint64, dst rhi.Buffer, dstOffset uint64, size uint64)
	ResourceBarrier(srcAccess, dstAccess rhi.ResourceAccessType)
}

// BufferDesc describes a Buffer to be created.
type BufferDesc struct {
	Size           uint64
	Usages         rhi.BufferUsage
	MemoryProperty rhi.BufferMemoryProperty
	FramesInFlight int
	Label          string
}

// descriptorKey identifies a cached view descriptor for a buffer: a CBV has no extra parameters, an
// SRV/UAV is further keyed by the byte range and structured stride it views.
type descriptorKey struct {
	kind    rhi.DescriptorType
	offset  uint64
	size    uint64
	stride  uint32
}

// Buffer wraps either a single GPU-only RHI buffer fronted by a ring of N CPU-visible staging buffers (one
// per frame in flight), or a ring of N CPU-visible buffers directly when no GPU-only copy is needed.
type Buffer struct {
	desc    BufferDesc
	gpu     *rhi.Buffer // nil when there is no dedicated GPU-only buffer
	staging []*rhi.Buffer
	descriptors map[descriptorKey]uint64 // opaque descriptor handle, backend-defined encoding

	allocateStaging func(size uint64, label string) *rhi.Buffer
	allocateGPU     func(desc BufferDesc) *rhi.Buffer
	frameIndex      func() int
}

// NewBuffer constructs a Buffer. allocateGPU/allocateStaging are injected so gpuresource never talks to a
// concrete device type directly; frameIndex returns the current ring slot (0..FramesInFlight).
func NewBuffer(desc BufferDesc, allocateGPU func(BufferDesc) *rhi.Buffer, allocateStaging func(uint64, string) *rhi.Buffer, frameIndex func() int) *Buffer {
	b := &Buffer{
		desc:            desc,
		descriptors:     make(map[descriptorKey]uint64),
		allocateStaging: allocateStaging,
		allocateGPU:     allocateGPU,
		frameIndex:      frameIndex,
	}
	needsGPUOnly := desc.MemoryProperty == rhi.MemoryGPUOnly
	if needsGPUOnly && allocateGPU != nil {
		b.gpu = allocateGPU(desc)
	}
	n := desc.FramesInFlight
	if n <= 0 {
		n = 1
	}
	b.staging = make([]*rhi.Buffer, n)
	for i := 0; i < n; i++ {
		label := fmt.Sprintf("%s.staging[%d]", desc.Label, i)
		if allocateStaging != nil {
			b.staging[i] = allocateStaging(desc.Size, label)
		}
	}
	return b
}

// currentStaging returns the staging buffer for the current frame-in-flight slot.
func (b *Buffer) currentStaging() *rhi.Buffer {
	idx := 0
	if b.frameIndex != nil {
		idx = b.frameIndex() % len(b.staging)
	}
	return b.staging[idx]
}

// RHIBuffer returns the GPU buffer if present, else the staging buffer for the current frame.
func (b *Buffer) RHIBuffer() *rhi.Buffer {
	if b.gpu != nil {
		return b.gpu
	}
	return b.currentStaging()
}

// targetAccess infers the access type a write to this buffer should transition to, from its declared usage
// flags, per the table in §4.2: uniform usage implies uniform-buffer-read, indirect implies indirect-read,
// anything else with storage_read usage implies storage-read (the declared-usages fallback order mirrors
// the original's if/else-if chain exactly).
func (b *Buffer) targetAccess() rhi.ResourceAccessType {
	switch {
	case b.desc.Usages.Has(rhi.BufferUsageUniform):
		return rhi.AccessUniformBufferRead
	case b.desc.Usages.Has(rhi.BufferUsageIndirect):
		return rhi.AccessIndirectRead
	case b.desc.Usages.Has(rhi.BufferUsageStorageRead):
		return rhi.AccessStorageResourceRead
	default:
		return rhi.AccessStorageResourceRead
	}
}

// SetDataRaw stages data at offset within this buffer. When a dedicated GPU buffer is present, data is
// copied into this frame's staging buffer and an in-frame transfer is scheduled via recorder: a
// transfer-dst barrier, the staging->dst copy, then a barrier to the access inferred from declared usage.
// When there is no dedicated GPU buffer, data is written directly into the current staging buffer and no
// transfer is scheduled - the staging buffer already *is* the resource other passes will bind.
func (b *Buffer) SetDataRaw(data []byte, offset uint64, write func(dst *rhi.Buffer, offset uint64, data []byte), recorder TransferRecorder) {
	staging := b.currentStaging()
	if b.gpu == nil {
		if write != nil {
			write(staging, offset, data)
		}
		return
	}
	if write != nil {
		write(staging, 0, data)
	}
	target := b.targetAccess()
	if recorder == nil {
		return
	}
	recorder.ResourceBarrier(rhi.AccessNone, rhi.AccessTransferWrite)
	recorder.CopyBufferToBuffer(*staging, 0, *b.gpu, offset, uint64(len(data)))
	recorder.ResourceBarrier(rhi.AccessTransferWrite, target)
}

// CBV returns (creating if needed) the constant-buffer-view descriptor for the whole buffer.
func (b *Buffer) CBV(create func() uint64) uint64 {
	return b.cachedDescriptor(descriptorKey{kind: rhi.DescriptorUniformBuffer}, create)
}

// SRV returns (creating if needed) a shader-resource-view descriptor over [offset, offset+size) with the
// given structured stride (0 for a raw/byte-address view).
func (b *Buffer) SRV(offset, size uint64, stride uint32, create func() uint64) uint64 {
	return b.cachedDescriptor(descriptorKey{kind: rhi.DescriptorReadOnlyStorageBuffer, offset: offset, size: size, stride: stride}, create)
}

// UAV returns (creating if needed) an unordered-access-view descriptor over [offset, offset+size) with the
// given structured stride.
func (b *Buffer) UAV(offset, size uint64, stride uint32, create func() uint64) uint64 {
	return b.cachedDescriptor(descriptorKey{kind: rhi.DescriptorReadWriteStorageBuffer, offset: offset, size: size, stride: stride}, create)
}

// cachedDescriptor looks up key in the per-buffer descriptor cache, invoking create and memoising the
// result on a miss. Identical keys always reuse the same descriptor.
func (b *Buffer) cachedDescriptor(key descriptorKey, create func() uint64) uint64 {
	if d, ok := b.descriptors[key]; ok {
		return d
	}
	d := create()
	b.descriptors[key] = d
	return d
}
