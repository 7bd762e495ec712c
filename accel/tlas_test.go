package accel

import (
	"testing"

	"github.com/aurora-render/forge/capability"
	"github.com/aurora-render/forge/container"
	"github.com/aurora-render/forge/gpuscene"
	"github.com/aurora-render/forge/shadercompiler"
	"github.com/aurora-render/forge/shaderparam"
)

type fakeMaterial struct {
	blend capability.BlendMode
}

func (m fakeMaterial) BlendMode() capability.BlendMode                             { return m.blend }
func (m fakeMaterial) BaseMaterial() string                                        { return "fake" }
func (m fakeMaterial) ShaderParamsMetadata() shaderparam.MetadataList               { return nil }
func (m fakeMaterial) ShaderParameters() *shaderparam.Block                        { return nil }
func (m fakeMaterial) GetShaderIdentifier() string                                 { return "fake" }
func (m fakeMaterial) ModifyCompilerEnvironment(env *shadercompiler.Environment)     {}

func TestInstanceTransformTransposes(t *testing.T) {
	// column-major identity with translation (tx, ty, tz) in the last column.
	transform := [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		10, 20, 30, 1,
	}
	out := instanceTransform(transform)
	want := [3][4]float32{
		{1, 0, 0, 10},
		{0, 1, 0, 20},
		{0, 0, 1, 30},
	}
	if out != want {
		t.Fatalf("instanceTransform = %+v, want %+v", out, want)
	}
}

func TestBuildInstanceDescsDerivesFlagsFromBlendMode(t *testing.T) {
	sm := container.NewSlotMap[gpuscene.Drawable]()
	opaque := fakeMaterial{blend: capability.BlendModeOpaque}
	translucent := fakeMaterial{blend: capability.BlendModeAlphaBlend}

	hOpaque := sm.Emplace(gpuscene.Drawable{Material: opaque})
	hTranslucent := sm.Emplace(gpuscene.Drawable{Material: translucent})

	drawables := map[container.Handle]gpuscene.Drawable{
		hOpaque:      {Material: opaque},
		hTranslucent: {Material: translucent},
	}
	blases := map[container.Handle]*BLAS{
		hOpaque:      {GPUReference: 1},
		hTranslucent: {GPUReference: 2},
	}

	descs := BuildInstanceDescs([]container.Handle{hOpaque, hTranslucent}, drawables, blases)
	if len(descs) != 2 {
		t.Fatalf("expected 2 instance descs, got %d", len(descs))
	}
	if descs[0].Flags != InstanceFlagForceOpaque {
		t.Fatalf("opaque material should set InstanceFlagForceOpaque, got %v", descs[0].Flags)
	}
	if descs[1].Flags != InstanceFlagForceNonOpaque {
		t.Fatalf("translucent material should set InstanceFlagForceNonOpaque, got %v", descs[1].Flags)
	}
	if descs[0].Mask != 0xff || descs[1].Mask != 0xff {
		t.Fatalf("instance mask must always be 0xff")
	}
	if descs[0].InstanceID != hOpaque.Index() || descs[0].SBTOffset != hOpaque.Index() {
		t.Fatalf("instance ID and SBT offset must both equal the drawable's handle index")
	}
}

func TestBuildInstanceDescsSkipsDrawablesWithoutMaterial(t *testing.T) {
	sm := container.NewSlotMap[gpuscene.Drawable]()
	h1 := sm.Emplace(gpuscene.Drawable{})
	h2 := sm.Emplace(gpuscene.Drawable{})

	drawables := map[container.Handle]gpuscene.Drawable{h1: {}, h2: {}}
	blases := map[container.Handle]*BLAS{h1: {GPUReference: 7}}

	descs := BuildInstanceDescs([]container.Handle{h1, h2}, drawables, blases)
	if len(descs) != 0 {
		t.Fatalf("expected drawables with nil Material to be skipped entirely, got %d", len(descs))
	}
}
