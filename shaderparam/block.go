package shaderparam

import (
	"github.com/aurora-render/forge/gpuresource"
	"github.com/aurora-render/forge/rhi"
)

// DataSetRange is one entry of a multi-range upload: size bytes starting at cpuOffset within the CPU blob
// are written to gpuOffset within the GPU uniform buffer.
type DataSetRange struct {
	CPUOffset uint32
	GPUOffset uint32
	Size      uint32
}

// Block is a shader parameter block (§3): an opaque CPU byte blob, an optional GPU uniform buffer, the
// coalesced upload ranges computed from its metadata layout, and a dirty counter that tracks how many more
// frames-in-flight still need the latest CPU contents uploaded.
type Block struct {
	metadata       MetadataList
	layout         Layout
	data           []byte
	uniformBuffer  *gpuresource.Buffer
	framesInFlight int

	dirtyCount     int
	lastUpdateFrame int
	haveUpdated     bool
}

// NewBlock computes list's layout and allocates the CPU blob plus (if the layout needs one) a GPU uniform
// buffer. allocateUniformBuffer is only invoked when layout.GPUSize > 0, mirroring the original engine
// skipping uniform-buffer allocation entirely for a block with no value parameters.
func NewBlock(list MetadataList, framesInFlight int, allocateUniformBuffer func(size uint64) *gpuresource.Buffer) *Block {
	layout := ComputeLayout(list)
	b := &Block{
		metadata:       list,
		layout:         layout,
		data:           make([]byte, layout.CPUSize),
		framesInFlight: framesInFlight,
	}
	if layout.GPUSize > 0 && allocateUniformBuffer != nil {
		b.uniformBuffer = allocateUniformBuffer(uint64(layout.GPUSize))
	}
	return b
}

// Layout returns the computed CPU/GPU packing layout.
func (b *Block) Layout() Layout {
	return b.layout
}

// Data returns the CPU blob for read-only access.
func (b *Block) Data() []byte {
	return b.data
}

// MutableData marks the block dirty for every frame in flight and returns the CPU blob for writing.
func (b *Block) MutableData() []byte {
	b.markDirty()
	return b.data
}

// DataOffset returns the CPU blob starting at offset, for read-only access.
func (b *Block) DataOffset(offset uint32) []byte {
	return b.data[offset:]
}

// MutableDataOffset marks the block dirty and returns the CPU blob starting at offset, for writing.
func (b *Block) MutableDataOffset(offset uint32) []byte {
	b.markDirty()
	return b.data[offset:]
}

func (b *Block) markDirty() {
	b.dirtyCount = b.framesInFlight
	b.lastUpdateFrame = 0
	b.haveUpdated = false
}

// UpdateUniformBuffer issues the coalesced multi-range upload to the GPU uniform buffer if the block is
// dirty and this is the first call this frame; otherwise it is a no-op. frameIndex identifies the current
// frame so repeated calls within one frame only upload once (§4.3).
func (b *Block) UpdateUniformBuffer(frameIndex int, write func(gpuOffset uint32, data []byte)) {
	if b.uniformBuffer == nil {
		return
	}
	needsUpdate := !b.haveUpdated || frameIndex != b.lastUpdateFrame
	b.lastUpdateFrame = frameIndex
	b.haveUpdated = true
	if !needsUpdate || b.dirtyCount <= 0 {
		return
	}
	for _, r := range b.layout.Ranges {
		write(r.GPUOffset, b.data[r.CPUOffset:r.CPUOffset+r.Size])
	}
	b.dirtyCount--
}

// UniformBuffer returns the GPU uniform buffer backing this block, or nil if the block has no value
// parameters.
func (b *Block) UniformBuffer() *gpuresource.Buffer {
	return b.uniformBuffer
}

// BindGroupLayout is a convenience forwarder to b.metadata.BindGroupLayout.
func (b *Block) BindGroupLayout(set uint32, visibility rhi.ShaderStage) []BindGroupLayoutEntry {
	return b.metadata.BindGroupLayout(set, visibility)
}

// GeneratedDeclaration is a convenience forwarder to b.metadata.GeneratedDeclaration.
func (b *Block) GeneratedDeclaration(set, samplersSet uint32, separateSamplerHeap bool) string {
	return b.metadata.GeneratedDeclaration(set, samplersSet, separateSamplerHeap)
}
