package shaderparam

import "github.com/aurora-render/forge/rhi"

// UniformRange is a maximal contiguous slice of a shader parameter block whose CPU-to-GPU offset delta is
// constant, letting a single upload cover it.
type UniformRange struct {
	CPUOffset uint32
	GPUOffset uint32
	Size      uint32
}

// paramOffset records the offsets computed for one uniform-buffer-resident parameter occurrence (a single
// array element), before post-hoc coalescing into UniformRanges.
type paramOffset struct {
	cpuOffset uint32
	gpuOffset uint32
	size      uint32
}

// Layout is the result of computing a MetadataList's CPU/GPU packing: the total sizes/alignments needed to
// allocate the CPU staging blob and the GPU uniform buffer, plus the coalesced upload ranges.
type Layout struct {
	CPUSize      uint32
	CPUAlignment uint32
	GPUSize      uint32
	GPUAlignment uint32
	Ranges       []UniformRange
}

func alignUp(v, alignment uint32) uint32 {
	if alignment == 0 {
		return v
	}
	return (v + alignment - 1) &^ (alignment - 1)
}

// ComputeLayout walks list.Params in order, assigning CPU offsets to every parameter (resource bindings
// occupy CPU space too, to hold a buffer/texture reference record) and GPU uniform-buffer offsets only to
// DescriptorNone parameters, then coalesces the resulting per-element offsets into UniformRanges.
//
// This mirrors ShaderParameter::initialize in the original engine byte for byte: CPU alignment/size
// advances for every parameter occurrence, GPU alignment/size advances only for uniform-buffer-resident
// occurrences, and a contiguous run of occurrences is merged into one range iff cpuOffset-gpuOffset stays
// constant across the run.
func ComputeLayout(list MetadataList) Layout {
	var (
		gpuSize, gpuAlignment uint32
		cpuSize, cpuAlignment uint32
		occurrences           []paramOffset
	)

	for _, p := range list.Params {
		count := p.ArrayCount()
		if p.DescriptorType == rhi.DescriptorNone {
			for i := uint32(0); i < count; i++ {
				gpuSize = alignUp(gpuSize, p.GPUAlignment)
				cpuSize = alignUp(cpuSize, p.CPUAlignment)
				occurrences = append(occurrences, paramOffset{cpuOffset: cpuSize, gpuOffset: gpuSize, size: p.GPUSize})
				gpuSize += p.GPUSize
				cpuSize += p.CPUSize
			}
			if p.GPUAlignment > gpuAlignment {
				gpuAlignment = p.GPUAlignment
			}
		} else {
			for i := uint32(0); i < count; i++ {
				cpuSize = alignUp(cpuSize, p.CPUAlignment) + p.CPUSize
			}
		}
		if p.CPUAlignment > cpuAlignment {
			cpuAlignment = p.CPUAlignment
		}
	}
	gpuSize = alignUp(gpuSize, gpuAlignment)
	cpuSize = alignUp(cpuSize, cpuAlignment)

	return Layout{
		CPUSize:      cpuSize,
		CPUAlignment: cpuAlignment,
		GPUSize:      gpuSize,
		GPUAlignment: gpuAlignment,
		Ranges:       coalesce(occurrences),
	}
}

// coalesce merges consecutive occurrences whose (cpuOffset - gpuOffset) delta stays constant into a single
// UniformRange, matching the two-pointer scan in the original implementation.
func coalesce(occurrences []paramOffset) []UniformRange {
	var ranges []UniformRange
	i := 0
	for i < len(occurrences) {
		j := i + 1
		delta := int64(occurrences[i].cpuOffset) - int64(occurrences[i].gpuOffset)
		for j < len(occurrences) {
			d := int64(occurrences[j].cpuOffset) - int64(occurrences[j].gpuOffset)
			if d != delta {
				break
			}
			j++
		}
		last := occurrences[j-1]
		size := last.cpuOffset + last.size - occurrences[i].cpuOffset
		ranges = append(ranges, UniformRange{
			CPUOffset: occurrences[i].cpuOffset,
			GPUOffset: occurrences[i].gpuOffset,
			Size:      size,
		})
		i = j
	}
	return ranges
}
