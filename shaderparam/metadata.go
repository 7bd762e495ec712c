// Package shaderparam implements the shader parameter block model (§4.3): reflecting an ordered list of
// parameter metadata into a CPU/GPU packing layout, a descriptor set layout, a generated HLSL declaration,
// and the coalesced uniform-buffer upload ranges.
package shaderparam

import "github.com/aurora-render/forge/rhi"

// ParamMetadata describes one shader parameter, either a value that lives in the uniform buffer
// (DescriptorType == rhi.DescriptorNone) or a resource binding (anything else).
type ParamMetadata struct {
	TypeName         string
	VarName          string
	ArraySizes       []uint32
	DescriptorType   rhi.DescriptorType
	Format           rhi.Format
	TextureViewType  rhi.TextureViewType
	CPUSize          uint32
	CPUAlignment     uint32
	GPUSize          uint32
	GPUAlignment     uint32
	StructuredStride uint32
}

// ArrayCount returns the product of ArraySizes, or 1 for a non-array parameter.
func (p ParamMetadata) ArrayCount() uint32 {
	count := uint32(1)
	for _, sz := range p.ArraySizes {
		count *= sz
	}
	return count
}

// MetadataList is the ordered parameter list a shader parameter block is built from. Order is significant:
// it determines both CPU and GPU offset assignment.
type MetadataList struct {
	Params []ParamMetadata
}
