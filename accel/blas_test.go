package accel

import (
	"encoding/binary"
	"testing"

	"github.com/aurora-render/forge/capability"
	"github.com/aurora-render/forge/container"
	"github.com/aurora-render/forge/gpuscene"
	"github.com/aurora-render/forge/rhi"
	"github.com/aurora-render/forge/shadercompiler"
	"github.com/aurora-render/forge/shaderparam"
)

type fakeMesh struct {
	topology capability.PrimitiveTopology
}

func (m fakeMesh) MeshTypeName() string { return "fake" }
func (m fakeMesh) VertexInputDesc(attrs []capability.VertexAttribute) capability.VertexInputDesc {
	return capability.VertexInputDesc{}
}
func (m fakeMesh) TessellationDesc() capability.TessellationDesc   { return capability.TessellationDesc{} }
func (m fakeMesh) PrimitiveTopology() capability.PrimitiveTopology { return m.topology }
func (m fakeMesh) ShaderParamsMetadata() shaderparam.MetadataList  { return shaderparam.MetadataList{} }
func (m fakeMesh) FillShaderParams(drawable container.Handle, block *shaderparam.Block) {}
func (m fakeMesh) BindBuffers(recorder capability.BufferBinder)                         {}
func (m fakeMesh) NumIndices() uint32                                                   { return 0 }
func (m fakeMesh) SourcePath(stage shadercompiler.Stage) string                         { return "" }
func (m fakeMesh) SourceEntry(stage shadercompiler.Stage) string                        { return "" }
func (m fakeMesh) ModifyCompilerEnvironment(env *shadercompiler.Environment)            {}

// fakeDevice is an in-memory stand-in for a ray tracing capable backend: it never touches a real GPU,
// handing out ever-incrementing handles and sizes derived deterministically from the requested geometry.
type fakeDevice struct {
	nextHandle   int
	compactedFor map[any]uint64 // handle -> compacted size to report on readback
	readback     []byte
}

func (d *fakeDevice) AccelerationStructureMemorySize(input GeometryBuildInput) SizeInfo {
	return SizeInfo{BuildScratchSize: 64, UpdateScratchSize: 32, AccelerationStructureSize: 128}
}

func (d *fakeDevice) InstanceMemorySize(input InstanceBuildInput) SizeInfo {
	return SizeInfo{BuildScratchSize: 64, AccelerationStructureSize: 256}
}

func (d *fakeDevice) CreateBottomLevel(size uint64) (any, *rhi.Buffer) {
	d.nextHandle++
	return d.nextHandle, &rhi.Buffer{}
}

func (d *fakeDevice) CreateTopLevel(size uint64) (any, *rhi.Buffer) {
	d.nextHandle++
	return d.nextHandle, &rhi.Buffer{}
}

func (d *fakeDevice) CreateScratchBuffer(size uint64) *rhi.Buffer  { return &rhi.Buffer{} }
func (d *fakeDevice) CreateReadbackBuffer(size uint64) *rhi.Buffer { return &rhi.Buffer{} }

func (d *fakeDevice) BuildBottomLevel(encoder *rhi.CommandEncoder, builds []BottomLevelBuildDesc) {}
func (d *fakeDevice) BuildTopLevel(encoder *rhi.CommandEncoder, build TopLevelBuildDesc)           {}

func (d *fakeDevice) CompactAccelerationStructure(encoder *rhi.CommandEncoder, src, dst any) uint64 {
	return uint64(dst.(int))
}

func (d *fakeDevice) GPUReference(handle any) uint64 { return uint64(handle.(int)) }

func (d *fakeDevice) CopyBufferToBuffer(encoder *rhi.CommandEncoder, src, dst *rhi.Buffer, size uint64) {
}

func (d *fakeDevice) ReadBuffer(buf *rhi.Buffer, byteLen uint64) []byte {
	if d.readback != nil {
		return d.readback
	}
	out := make([]byte, byteLen)
	for i := uint64(0); i*8 < byteLen; i++ {
		binary.LittleEndian.PutUint64(out[i*8:i*8+8], 64) // smaller than the 128-byte AccelerationStructureSize
	}
	return out
}

type fakeSource struct {
	builtAlready map[container.Handle]bool
}

func (s *fakeSource) RequireBLASBuildDesc(handle container.Handle) (GeometryBuildInput, *BLAS, bool, error) {
	if s.builtAlready[handle] {
		return GeometryBuildInput{}, &BLAS{}, false, nil
	}
	return GeometryBuildInput{}, &BLAS{}, true, nil
}

func TestBuildBLASSkipsNonTriangleListMeshes(t *testing.T) {
	sm := container.NewSlotMap[gpuscene.Drawable]()
	lineHandle := sm.Emplace(gpuscene.Drawable{Mesh: fakeMesh{topology: capability.PrimitiveTopologyLineList}})

	drawables := map[container.Handle]gpuscene.Drawable{
		lineHandle: {Mesh: fakeMesh{topology: capability.PrimitiveTopologyLineList}},
	}

	device := &fakeDevice{}
	source := &fakeSource{builtAlready: map[container.Handle]bool{}}
	ranImmediate := false

	result, err := BuildBLAS(drawables, device, source, func(fn func(*rhi.CommandEncoder)) error {
		ranImmediate = true
		fn(nil)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 0 {
		t.Fatalf("non-triangle-list drawables must be excluded entirely, got %d entries", len(result))
	}
	if ranImmediate {
		t.Fatalf("no GPU submission should happen when there is nothing to build")
	}
}

func TestBuildBLASCompactsUndersizedResult(t *testing.T) {
	sm := container.NewSlotMap[gpuscene.Drawable]()
	h := sm.Emplace(gpuscene.Drawable{Mesh: fakeMesh{topology: capability.PrimitiveTopologyTriangleList}})

	drawables := map[container.Handle]gpuscene.Drawable{
		h: {Mesh: fakeMesh{topology: capability.PrimitiveTopologyTriangleList}},
	}

	device := &fakeDevice{}
	source := &fakeSource{builtAlready: map[container.Handle]bool{}}
	submissions := 0

	result, err := BuildBLAS(drawables, device, source, func(fn func(*rhi.CommandEncoder)) error {
		submissions++
		fn(nil)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected one BLAS entry, got %d", len(result))
	}
	if submissions != 2 {
		t.Fatalf("expected a build submission and a compaction submission, got %d", submissions)
	}
	if result[h].Size != 64 {
		t.Fatalf("expected the BLAS to be recompacted down to the reported 64-byte size, got %d", result[h].Size)
	}
}

func TestBuildBLASSkipsAlreadyBuiltDrawables(t *testing.T) {
	sm := container.NewSlotMap[gpuscene.Drawable]()
	h := sm.Emplace(gpuscene.Drawable{Mesh: fakeMesh{topology: capability.PrimitiveTopologyTriangleList}})

	drawables := map[container.Handle]gpuscene.Drawable{
		h: {Mesh: fakeMesh{topology: capability.PrimitiveTopologyTriangleList}},
	}

	device := &fakeDevice{}
	source := &fakeSource{builtAlready: map[container.Handle]bool{h: true}}
	ranImmediate := false

	result, err := BuildBLAS(drawables, device, source, func(fn func(*rhi.CommandEncoder)) error {
		ranImmediate = true
		fn(nil)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected the already-built drawable's BLAS still be returned, got %d", len(result))
	}
	if ranImmediate {
		t.Fatalf("an already-built drawable must not trigger a GPU submission")
	}
}
