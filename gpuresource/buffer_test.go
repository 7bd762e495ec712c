package gpuresource

import (
	"testing"

	"github.com/aurora-render/forge/rhi"
)

type fakeRecorder struct {
	copies   int
	barriers []rhi.ResourceAccessType
}

func (f *fakeRecorder) CopyBufferToBuffer(src rhi.Buffer, srcOffset uint64, dst rhi.Buffer, dstOffset uint64, size uint64) {
	f.copies++
}

func (f *fakeRecorder) ResourceBarrier(srcAccess, dstAccess rhi.ResourceAccessType) {
	f.barriers = append(f.barriers, dstAccess)
}

func newTestBuffer(memProp rhi.BufferMemoryProperty, usages rhi.BufferUsage) (*Buffer, *int) {
	frame := 0
	var gpuAllocated, stagingAllocated int
	b := NewBuffer(
		BufferDesc{Size: 256, Usages: usages, MemoryProperty: memProp, FramesInFlight: 2, Label: "test"},
		func(BufferDesc) *rhi.Buffer { gpuAllocated++; return &rhi.Buffer{} },
		func(uint64, string) *rhi.Buffer { stagingAllocated++; return &rhi.Buffer{} },
		func() int { return frame },
	)
	return b, &frame
}

func TestBufferSetDataRawWithGPUBufferSchedulesTransfer(t *testing.T) {
	b, _ := newTestBuffer(rhi.MemoryGPUOnly, rhi.BufferUsageUniform)
	rec := &fakeRecorder{}
	wrote := false
	b.SetDataRaw([]byte{1, 2, 3, 4}, 0, func(dst *rhi.Buffer, offset uint64, data []byte) { wrote = true }, rec)

	if !wrote {
		t.Fatalf("expected data to be written into the staging buffer")
	}
	if rec.copies != 1 {
		t.Fatalf("recorder.copies:\nhave %d\nwant 1", rec.copies)
	}
	if len(rec.barriers) != 2 {
		t.Fatalf("len(recorder.barriers):\nhave %d\nwant 2", len(rec.barriers))
	}
	if rec.barriers[0] != rhi.AccessTransferWrite {
		t.Fatalf("first barrier target:\nhave %v\nwant AccessTransferWrite", rec.barriers[0])
	}
	if rec.barriers[1] != rhi.AccessUniformBufferRead {
		t.Fatalf("second barrier target:\nhave %v\nwant AccessUniformBufferRead", rec.barriers[1])
	}
}

func TestBufferSetDataRawWithoutGPUBufferWritesDirectly(t *testing.T) {
	b, _ := newTestBuffer(rhi.MemoryCPUToGPU, rhi.BufferUsageUniform)
	rec := &fakeRecorder{}
	wrote := false
	b.SetDataRaw([]byte{9}, 0, func(dst *rhi.Buffer, offset uint64, data []byte) { wrote = true }, rec)

	if !wrote {
		t.Fatalf("expected data to be written into the staging buffer")
	}
	if rec.copies != 0 {
		t.Fatalf("recorder.copies:\nhave %d\nwant 0 (no dedicated GPU buffer, nothing to transfer)", rec.copies)
	}
	if len(rec.barriers) != 0 {
		t.Fatalf("len(recorder.barriers):\nhave %d\nwant 0", len(rec.barriers))
	}
}

func TestBufferTargetAccessInference(t *testing.T) {
	cases := []struct {
		name   string
		usages rhi.BufferUsage
		want   rhi.ResourceAccessType
	}{
		{"uniform", rhi.BufferUsageUniform, rhi.AccessUniformBufferRead},
		{"indirect", rhi.BufferUsageIndirect, rhi.AccessIndirectRead},
		{"storage-read", rhi.BufferUsageStorageRead, rhi.AccessStorageResourceRead},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b, _ := newTestBuffer(rhi.MemoryGPUOnly, c.usages)
			if got := b.targetAccess(); got != c.want {
				t.Fatalf("targetAccess():\nhave %v\nwant %v", got, c.want)
			}
		})
	}
}

func TestBufferDescriptorCacheReusesIdenticalKeys(t *testing.T) {
	b, _ := newTestBuffer(rhi.MemoryGPUOnly, rhi.BufferUsageStorageRead)
	calls := 0
	create := func() uint64 { calls++; return uint64(calls) }

	d1 := b.SRV(0, 64, 4, create)
	d2 := b.SRV(0, 64, 4, create)
	if d1 != d2 {
		t.Fatalf("SRV with identical keys:\nhave %d, %d\nwant equal", d1, d2)
	}
	if calls != 1 {
		t.Fatalf("create calls:\nhave %d\nwant 1", calls)
	}

	d3 := b.SRV(64, 64, 4, create)
	if d3 == d1 {
		t.Fatalf("SRV with a different offset reused the same descriptor")
	}
	if calls != 2 {
		t.Fatalf("create calls after distinct key:\nhave %d\nwant 2", calls)
	}
}

func TestBufferRHIBufferPrefersGPUBuffer(t *testing.T) {
	b, _ := newTestBuffer(rhi.MemoryGPUOnly, rhi.BufferUsageUniform)
	if b.RHIBuffer() != b.gpu {
		t.Fatalf("RHIBuffer() did not return the dedicated GPU buffer")
	}

	ringOnly, _ := newTestBuffer(rhi.MemoryCPUToGPU, rhi.BufferUsageUniform)
	if ringOnly.RHIBuffer() != ringOnly.currentStaging() {
		t.Fatalf("RHIBuffer() did not fall back to the current staging buffer")
	}
}
