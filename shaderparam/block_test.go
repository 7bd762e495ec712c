package shaderparam

import (
	"testing"

	"github.com/aurora-render/forge/gpuresource"
	"github.com/aurora-render/forge/rhi"
)

func newTestBlock(t *testing.T) *Block {
	t.Helper()
	list := MetadataList{Params: []ParamMetadata{
		{VarName: "a", DescriptorType: rhi.DescriptorNone, CPUSize: 4, CPUAlignment: 4, GPUSize: 4, GPUAlignment: 4},
	}}
	return NewBlock(list, 3, func(size uint64) *gpuresource.Buffer {
		return gpuresource.NewBuffer(
			gpuresource.BufferDesc{Size: size, Usages: rhi.BufferUsageUniform, MemoryProperty: rhi.MemoryCPUToGPU, FramesInFlight: 3},
			nil,
			func(uint64, string) *rhi.Buffer { return &rhi.Buffer{} },
			func() int { return 0 },
		)
	})
}

func TestBlockDirtyCounterLifecycle(t *testing.T) {
	b := newTestBlock(t)
	copy(b.MutableData(), []byte{1, 2, 3, 4})

	uploads := 0
	b.UpdateUniformBuffer(0, func(uint32, []byte) { uploads++ })
	if uploads != 1 {
		t.Fatalf("uploads after first UpdateUniformBuffer:\nhave %d\nwant 1", uploads)
	}

	// Same frame again: must no-op even though still dirty from the frames-in-flight countdown.
	b.UpdateUniformBuffer(0, func(uint32, []byte) { uploads++ })
	if uploads != 1 {
		t.Fatalf("uploads after repeat call same frame:\nhave %d\nwant 1", uploads)
	}

	// Next frame: countdown still > 0, should upload again.
	b.UpdateUniformBuffer(1, func(uint32, []byte) { uploads++ })
	if uploads != 2 {
		t.Fatalf("uploads after next frame:\nhave %d\nwant 2", uploads)
	}

	// Third frame: dirty counter (initialised to 3) exhausted after frames 0,1,2 — no more uploads.
	b.UpdateUniformBuffer(2, func(uint32, []byte) { uploads++ })
	if uploads != 3 {
		t.Fatalf("uploads after third frame:\nhave %d\nwant 3", uploads)
	}
	b.UpdateUniformBuffer(3, func(uint32, []byte) { uploads++ })
	if uploads != 3 {
		t.Fatalf("uploads after counter exhausted:\nhave %d\nwant 3", uploads)
	}
}

func TestBlockMutableDataResetsDirtyCounter(t *testing.T) {
	b := newTestBlock(t)
	b.MutableData()
	b.UpdateUniformBuffer(0, func(uint32, []byte) {})
	b.UpdateUniformBuffer(1, func(uint32, []byte) {})
	b.UpdateUniformBuffer(2, func(uint32, []byte) {})
	if b.dirtyCount != 0 {
		t.Fatalf("dirtyCount before re-dirtying:\nhave %d\nwant 0", b.dirtyCount)
	}

	b.MutableData()
	if b.dirtyCount != 3 {
		t.Fatalf("dirtyCount after MutableData:\nhave %d\nwant 3", b.dirtyCount)
	}
}

func TestBlockNoUniformBufferWhenNoValueParams(t *testing.T) {
	list := MetadataList{Params: []ParamMetadata{
		{VarName: "tex", DescriptorType: rhi.DescriptorSampledTexture, CPUSize: 16, CPUAlignment: 16},
	}}
	b := NewBlock(list, 3, func(uint64) *gpuresource.Buffer {
		t.Fatalf("allocateUniformBuffer should not be called when layout has no GPU-side size")
		return nil
	})
	if b.UniformBuffer() != nil {
		t.Fatalf("UniformBuffer():\nhave non-nil\nwant nil")
	}
}
