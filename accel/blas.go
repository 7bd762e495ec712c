package accel

import (
	"encoding/binary"

	"github.com/aurora-render/forge/capability"
	"github.com/aurora-render/forge/container"
	"github.com/aurora-render/forge/gpuscene"
	"github.com/aurora-render/forge/rhi"
	"go.uber.org/multierr"
)

// DrawableSource supplies the backend-specific geometry build input for a drawable's BLAS, along with the
// BLAS it should build into and whether a build (or update) is required at all - it may already be
// up to date.
type DrawableSource interface {
	RequireBLASBuildDesc(handle container.Handle) (input GeometryBuildInput, blas *BLAS, needsBuild bool, err error)
}

const scratchBufferPadding = 256

// BuildBLAS builds or updates the bottom-level acceleration structure for every triangle-list drawable in
// drawables, batching every pending build into a single immediate submission with a shared scratch buffer
// (sized to the sum of each build's scratch requirement plus padding, §4.11). Non-update builds additionally
// emit a post-build compacted-size query; any BLAS whose compacted size turns out smaller than its current
// buffer is reallocated and compacted in a second submission. Errors from individual drawables' build
// descriptors are aggregated and returned together; a drawable that errored is simply skipped rather than
// aborting the whole batch.
func BuildBLAS(
	drawables map[container.Handle]gpuscene.Drawable,
	device Device,
	source DrawableSource,
	execImmediate func(func(*rhi.CommandEncoder)) error,
) (map[container.Handle]*BLAS, error) {
	result := make(map[container.Handle]*BLAS, len(drawables))

	var (
		builds         []BottomLevelBuildDesc
		buildBLAS      []*BLAS
		scratchOffsets []uint64
		scratchTotal   uint64
		errs           error
	)

	for handle, d := range drawables {
		if d.Mesh == nil || d.Mesh.PrimitiveTopology() != capability.PrimitiveTopologyTriangleList {
			continue
		}

		input, blas, needsBuild, err := source.RequireBLASBuildDesc(handle)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		result[handle] = blas
		if !needsBuild {
			continue
		}

		sizeInfo := device.AccelerationStructureMemorySize(input)
		scratchOffsets = append(scratchOffsets, scratchTotal)
		if input.IsUpdate {
			scratchTotal += sizeInfo.UpdateScratchSize
		} else {
			scratchTotal += sizeInfo.BuildScratchSize
			blas.Handle, blas.Buffer = device.CreateBottomLevel(sizeInfo.AccelerationStructureSize)
			blas.Size = sizeInfo.AccelerationStructureSize
			blas.GPUReference = device.GPUReference(blas.Handle)
		}

		builds = append(builds, BottomLevelBuildDesc{BuildInput: input})
		buildBLAS = append(buildBLAS, blas)
	}

	if len(builds) == 0 {
		return result, errs
	}

	scratchBuffer := device.CreateScratchBuffer(scratchTotal + scratchBufferPadding)

	emitCount := 0
	emitBuffer := device.CreateScratchBuffer(uint64(len(builds)) * 8)
	for i := range builds {
		builds[i].ScratchBuffer = scratchBuffer
		builds[i].ScratchBufferOffset = scratchOffsets[i]
		builds[i].DstAccelerationStructure = buildBLAS[i].Handle
		if builds[i].BuildInput.IsUpdate {
			builds[i].SrcAccelerationStructure = buildBLAS[i].Handle
			continue
		}
		builds[i].EmitCompactedSizeTo = emitBuffer
		builds[i].EmitCompactedSizeOffset = uint64(emitCount) * 8
		emitCount++
	}

	emitDownload := device.CreateReadbackBuffer(uint64(len(builds)) * 8)
	if err := execImmediate(func(encoder *rhi.CommandEncoder) {
		device.BuildBottomLevel(encoder, builds)
		if emitCount > 0 {
			device.CopyBufferToBuffer(encoder, emitBuffer, emitDownload, uint64(emitCount)*8)
		}
	}); err != nil {
		return result, multierr.Append(errs, err)
	}

	if emitCount == 0 {
		return result, errs
	}

	raw := device.ReadBuffer(emitDownload, uint64(emitCount)*8)
	compactedSizes := make([]uint64, emitCount)
	for i := range compactedSizes {
		compactedSizes[i] = binary.LittleEndian.Uint64(raw[i*8 : i*8+8])
	}

	emitIdx := 0
	for i, b := range builds {
		if b.BuildInput.IsUpdate {
			continue
		}
		compacted := compactedSizes[emitIdx]
		emitIdx++

		blas := buildBLAS[i]
		if compacted >= blas.Size {
			continue
		}

		original := blas.Handle
		newHandle, newBuf := device.CreateBottomLevel(compacted)
		if err := execImmediate(func(encoder *rhi.CommandEncoder) {
			blas.GPUReference = device.CompactAccelerationStructure(encoder, original, newHandle)
		}); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		blas.Handle = newHandle
		blas.Buffer = newBuf
		blas.Size = compacted
	}

	return result, errs
}
