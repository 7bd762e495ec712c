package shaderparam

import (
	"fmt"
	"strings"

	"github.com/aurora-render/forge/rhi"
)

// samplersBindingShift matches the original engine's constant: when samplers are relocated to a dedicated
// set, their binding index is offset by this amount multiplied by the owning set index, to keep bindings
// from colliding across sets that each relocate their own samplers into the shared sampler set.
const samplersBindingShift = 1024

// BindGroupLayoutEntry describes one binding within a generated bind group layout.
type BindGroupLayoutEntry struct {
	Type       rhi.DescriptorType
	Count      uint32
	Set        uint32
	Binding    uint32
	Visibility rhi.ShaderStage
}

// BindGroupLayout builds the descriptor set layout for list: the uniform buffer is always the first entry
// at binding 0 (omitted entirely if no DescriptorNone-typed parameter exists), and every resource parameter
// follows at consecutive bindings incremented by its array count (§4.3).
func (list MetadataList) BindGroupLayout(set uint32, visibility rhi.ShaderStage) []BindGroupLayoutEntry {
	entries := make([]BindGroupLayoutEntry, 0, len(list.Params)+1)
	entries = append(entries, BindGroupLayoutEntry{
		Type:       rhi.DescriptorUniformBuffer,
		Count:      1,
		Set:        set,
		Binding:    0,
		Visibility: visibility,
	})
	uniformBufferEmpty := true

	currBinding := uint32(1)
	for _, p := range list.Params {
		count := p.ArrayCount()
		if p.DescriptorType == rhi.DescriptorNone {
			uniformBufferEmpty = false
			continue
		}
		entries = append(entries, BindGroupLayoutEntry{
			Type:       p.DescriptorType,
			Count:      count,
			Set:        set,
			Binding:    currBinding,
			Visibility: visibility,
		})
		currBinding += count
	}

	if uniformBufferEmpty {
		entries = entries[1:]
	}
	return entries
}

func arraySuffix(sizes []uint32) string {
	var b strings.Builder
	for _, sz := range sizes {
		fmt.Fprintf(&b, "[%d]", sz)
	}
	return b.String()
}

// GeneratedDeclaration emits the HLSL cbuffer + resource-binding declarations for list, exactly per §4.3:
// a cbuffer holding every DescriptorNone field (omitted if none exist), then each resource parameter as a
// [[vk::binding(B, S)]] declaration at the appropriate register class (t/u/b/s). When separateSamplerHeap
// is set, sampler bindings are relocated to samplersSet, offset by samplersBindingShift*set.
func (list MetadataList) GeneratedDeclaration(set, samplersSet uint32, separateSamplerHeap bool) string {
	var uniformBuffer strings.Builder
	var otherBindings strings.Builder

	currBinding := uint32(1)
	for _, p := range list.Params {
		array := arraySuffix(p.ArraySizes)
		count := p.ArrayCount()

		switch p.DescriptorType {
		case rhi.DescriptorNone:
			fmt.Fprintf(&uniformBuffer, "\t%s %s%s;\n", p.TypeName, p.VarName, array)
		case rhi.DescriptorSampler:
			samplerBinding, samplerSet := currBinding, set
			if separateSamplerHeap {
				samplerBinding += samplersBindingShift * set
				samplerSet = samplersSet
			}
			fmt.Fprintf(&otherBindings, "[[vk::binding(%d, %d)]] SamplerState %s%s : register(s%d, space%d);\n",
				samplerBinding, samplerSet, p.VarName, array, samplerBinding, samplerSet)
			currBinding += count
		case rhi.DescriptorUniformBuffer:
			fmt.Fprintf(&otherBindings, "[[vk::binding(%d, %d)]] %s %s%s : register(b%d, space%d);\n",
				currBinding, set, p.TypeName, p.VarName, array, currBinding, set)
			currBinding += count
		case rhi.DescriptorReadOnlyStorageBuffer, rhi.DescriptorSampledTexture,
			rhi.DescriptorReadOnlyStorageTexture, rhi.DescriptorAccelerationStructure:
			fmt.Fprintf(&otherBindings, "[[vk::binding(%d, %d)]] %s %s%s : register(t%d, space%d);\n",
				currBinding, set, p.TypeName, p.VarName, array, currBinding, set)
			currBinding += count
		case rhi.DescriptorReadWriteStorageBuffer:
			fmt.Fprintf(&otherBindings, "[[vk::binding(%d, %d)]] %s %s%s : register(u%d, space%d);\n",
				currBinding, set, p.TypeName, p.VarName, array, currBinding, set)
			currBinding += count
		case rhi.DescriptorReadWriteStorageTexture:
			fmt.Fprintf(&otherBindings, "[[vk::binding(%d, %d), vk::image_format(\"%s\")]] %s %s%s : register(u%d, space%d);\n",
				currBinding, set, formatToString(p.Format), p.TypeName, p.VarName, array, currBinding, set)
			currBinding += count
		}
	}

	if uniformBuffer.Len() == 0 {
		return otherBindings.String()
	}
	return fmt.Sprintf("[[vk::binding(0, %d)]] cbuffer _cbuffer_%d : register(b0, space%d) {\n%s};\n%s",
		set, set, set, uniformBuffer.String(), otherBindings.String())
}

// formatToString renders a texture format as the HLSL vk::image_format string a read-write storage texture
// binding needs. Unknown formats degrade to "unknown" rather than failing declaration generation outright -
// the shader compiler surfaces the real error once it tries to compile the resulting source.
func formatToString(f rhi.Format) string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}
