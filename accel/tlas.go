package accel

import (
	"github.com/aurora-render/forge/container"
	"github.com/aurora-render/forge/gpuscene"
	"github.com/aurora-render/forge/rhi"
)

// instanceTransform writes transform (a column-major 4x4 matrix, as gpuscene.Drawable stores it) into the
// transposed row-major 3x4 form a TLAS instance descriptor carries (§4.11): row r, column c of the
// instance's 3x4 comes from transform's row r, column c (flat index c*4+r), and the bottom row is dropped.
func instanceTransform(transform [16]float32) [3][4]float32 {
	var out [3][4]float32
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			out[row][col] = transform[col*4+row]
		}
	}
	return out
}

// BuildInstanceDescs constructs one InstanceDesc per drawable, in the order given, per §4.11 exactly:
// InstanceID and SBTOffset are the drawable's handle index, Mask is 0xff, Flags reflects the material's
// blend mode, and BLASReference comes from blases (drawables with no BLAS entry, e.g. non-triangle-list
// meshes, are skipped).
func BuildInstanceDescs(order []container.Handle, drawables map[container.Handle]gpuscene.Drawable, blases map[container.Handle]*BLAS) []InstanceDesc {
	descs := make([]InstanceDesc, 0, len(order))
	for _, handle := range order {
		d, ok := drawables[handle]
		if !ok || d.Material == nil {
			continue
		}
		blas, ok := blases[handle]
		if !ok {
			continue
		}

		flags := InstanceFlagForceNonOpaque
		if d.Material.BlendMode().Opaque() {
			flags = InstanceFlagForceOpaque
		}

		descs = append(descs, InstanceDesc{
			InstanceID:    handle.Index(),
			Mask:          0xff,
			SBTOffset:     handle.Index(),
			Flags:         flags,
			BLASReference: blas.GPUReference,
			Transform:     instanceTransform(d.Transform),
		})
	}
	return descs
}

// BuildTLAS builds the scene-wide top-level acceleration structure over instances, sizing the backing
// buffer and scratch buffer from the device's reported memory requirements (§4.11). instanceBuffer must
// already hold instances encoded the way the backend's InstanceBuildInput expects.
func BuildTLAS(
	instances []InstanceDesc,
	instanceBuffer *rhi.Buffer,
	device Device,
	execImmediate func(func(*rhi.CommandEncoder)) error,
) (*TLAS, error) {
	input := InstanceBuildInput{
		IsUpdate:     false,
		NumInstances: uint32(len(instances)),
		Instances:    instanceBuffer,
	}

	sizeInfo := device.InstanceMemorySize(input)
	scratch := device.CreateScratchBuffer(sizeInfo.BuildScratchSize + scratchBufferPadding)
	handle, buf := device.CreateTopLevel(sizeInfo.AccelerationStructureSize)

	build := TopLevelBuildDesc{
		BuildInput:               input,
		ScratchBuffer:            scratch,
		DstAccelerationStructure: handle,
	}

	if err := execImmediate(func(encoder *rhi.CommandEncoder) {
		device.BuildTopLevel(encoder, build)
	}); err != nil {
		return nil, err
	}

	return &TLAS{Handle: handle, Buffer: buf}, nil
}
