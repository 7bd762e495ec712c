// Package rendergraph builds and executes a single frame's DAG of transient/imported resources and passes:
// construction (§4.7), compilation (§4.8: cull, topological sort, lifetime planning), and execution (§4.9:
// materialize, barrier-plan, dispatch, release), plus the command helpers in §4.10.
package rendergraph

import (
	"github.com/aurora-render/forge/gpuresource"
	"github.com/aurora-render/forge/rhi"
)

// ResourceHandle addresses a buffer, texture, or acceleration structure node within one graph build. It is
// only valid for the Builder/Graph it was obtained from and is never persisted across frames (§7: "callers
// must only pass handles obtained from the same graph frame").
type ResourceHandle int

// PassHandle addresses a pass node within one graph build.
type PassHandle int

const invalidNode = -1

// BufferSetup describes a transient buffer resource requested via Builder.AddBuffer.
type BufferSetup struct {
	Size           uint64
	Usages         rhi.BufferUsage
	MemoryProperty rhi.BufferMemoryProperty
	Label          string
}

// TextureSetup describes a transient texture resource requested via Builder.AddTexture.
type TextureSetup struct {
	Width, Height, DepthOrLayers, Levels uint32
	Format                               rhi.Format
	Usages                               rhi.TextureUsage
	Label                                string
}

// AccelerationStructureSetup describes a transient acceleration structure requested via
// Builder.AddAccelerationStructure.
type AccelerationStructureSetup struct {
	Label string
	IsTLAS bool
}

// ColorAttachment describes one color render target of a graphics pass.
type ColorAttachment struct {
	Target       ResourceHandle
	ClearValue   [4]float32
	Clear        bool
	Store        bool
	BaseLevel    uint32
	BaseLayer    uint32
	NumLayers    uint32
	GenerateMips bool
}

// DepthAttachment describes the depth/stencil render target of a graphics pass.
type DepthAttachment struct {
	Target     ResourceHandle
	ClearValue float32
	Clear      bool
	Store      bool
	ReadOnly   bool
	BaseLevel  uint32
}

// Barrier records one resource-access transition that Graph.planBarriers decided was needed, i.e. one
// rhi.NeedBarrier(From, To) call that returned true (§4.9 step 2: "emit a batched resource_barriers call
// with any needed transitions"). Label names the node the transition applies to, for logging and tests.
type Barrier struct {
	Label string
	From  rhi.ResourceAccessType
	To    rhi.ResourceAccessType
}

// ExecContext is handed to a pass's execute callback: the recording surface plus the resolved RHI resources
// for every handle the pass declared a read or write for.
type ExecContext struct {
	Encoder           *rhi.CommandEncoder
	RenderPass        *rhi.RenderPassEncoder
	ComputePass       *rhi.ComputePassEncoder
	graph             *Graph

	// Barriers is every transition Graph.planBarriers emitted for this pass, in declaration order: reads,
	// then color targets, then depth target, then writes (blit and present passes populate their own order).
	Barriers []Barrier
}

// Texture resolves a resource handle this pass declared to its gpuresource.Texture, if it is a texture node.
func (c *ExecContext) Texture(h ResourceHandle) *gpuresource.Texture {
	return c.graph.nodes[h].materializedTexture
}

// Buffer resolves a resource handle this pass declared to its gpuresource.Buffer, if it is a buffer node.
func (c *ExecContext) Buffer(h ResourceHandle) *gpuresource.Buffer {
	return c.graph.nodes[h].materializedBuffer
}

// Access returns the resource's current tracked access type, valid after barrier planning has run for the
// pass currently executing.
func (c *ExecContext) Access(h ResourceHandle) rhi.ResourceAccessType {
	return c.graph.nodes[h].access.current
}
