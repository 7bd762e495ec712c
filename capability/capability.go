// Package capability declares the narrow, tag-style interfaces the render core consumes from its host
// application: mesh geometry, material parameters, and the renderer/displayer contract that drives a
// camera's render graph contribution. None of these types are implemented here - the core only depends on
// the interface, never a concrete mesh or material (§6).
package capability

import (
	"github.com/aurora-render/forge/container"
	"github.com/aurora-render/forge/rhi"
	"github.com/aurora-render/forge/shadercompiler"
	"github.com/aurora-render/forge/shaderparam"
)

// BlendMode classifies a material's draw bucket. Opaque and AlphaTest drawables form the opaque bucket;
// everything else forms the transparent bucket (§4.7). Within a bucket, drawables are ordered by mesh type,
// base material and topology; no depth sorting is applied.
type BlendMode int

const (
	BlendModeOpaque BlendMode = iota
	BlendModeAlphaTest
	BlendModeAlphaBlend
	BlendModeAdditive
	BlendModeModulate
)

// Opaque reports whether m belongs in the opaque draw bucket.
func (m BlendMode) Opaque() bool {
	return m == BlendModeOpaque || m == BlendModeAlphaTest
}

// VertexAttribute names a single vertex input channel a mesh can supply.
type VertexAttribute int

const (
	VertexAttributePosition VertexAttribute = iota
	VertexAttributeNormal
	VertexAttributeTangent
	VertexAttributeTexCoord0
	VertexAttributeColor
)

// VertexInputDesc describes one vertex buffer binding's layout for a pipeline.
type VertexInputDesc struct {
	Stride     uint32
	Attributes []VertexAttribute
}

// TessellationDesc describes a mesh's tessellation requirements, if any.
type TessellationDesc struct {
	Enabled   bool
	PatchSize uint32
}

// PrimitiveTopology names the primitive assembly mode a mesh draws with.
type PrimitiveTopology int

const (
	PrimitiveTopologyTriangleList PrimitiveTopology = iota
	PrimitiveTopologyTriangleStrip
	PrimitiveTopologyLineList
	PrimitiveTopologyPointList
)

// Mesh is the per-drawable geometry contract (§6): identity for pipeline caching, vertex/tessellation
// layout, the shader parameter block it contributes, and its compile-time shader source identity.
type Mesh interface {
	// MeshTypeName identifies the mesh's vertex format family for pipeline cache keys (§4.12).
	MeshTypeName() string
	VertexInputDesc(attrs []VertexAttribute) VertexInputDesc
	TessellationDesc() TessellationDesc
	PrimitiveTopology() PrimitiveTopology
	ShaderParamsMetadata() shaderparam.MetadataList
	FillShaderParams(drawable container.Handle, block *shaderparam.Block)
	BindBuffers(recorder BufferBinder)
	NumIndices() uint32
	SourcePath(stage shadercompiler.Stage) string
	SourceEntry(stage shadercompiler.Stage) string
	ModifyCompilerEnvironment(env *shadercompiler.Environment)
}

// BufferBinder is the narrow recording surface Mesh.BindBuffers needs; kept as an interface (rather than a
// concrete rendergraph or rhi encoder type) for the same import-cycle reason documented on
// gpuresource.TransferRecorder.
type BufferBinder interface {
	BindVertexBuffer(slot uint32, buf *rhi.Buffer, offset uint64)
	BindIndexBuffer(buf *rhi.Buffer, offset uint64)
}

// Material is the per-drawable shading contract (§6): blend mode for bucketing, the parameter block it
// contributes, and a stable identifier used in pipeline cache keys.
type Material interface {
	BlendMode() BlendMode
	BaseMaterial() string
	ShaderParamsMetadata() shaderparam.MetadataList
	ShaderParameters() *shaderparam.Block
	GetShaderIdentifier() string
	ModifyCompilerEnvironment(env *shadercompiler.Environment)
}

// StencilState mirrors the stencil fields a fragment shader descriptor carries (§6).
type StencilState struct {
	CompareOp   int
	CompareMask uint32
	WriteMask   uint32
	Reference   uint32
}

// FragmentShaderDescriptor is the full fixed-function + shader-identity contract for a fragment stage (§6).
type FragmentShaderDescriptor struct {
	SourcePath               string
	SourceEntry              string
	ShaderParamsMetadata     shaderparam.MetadataList
	NeededVertexAttributes   []VertexAttribute
	FrontFace                int
	CullMode                 int
	PolygonMode              int
	ConservativeRasterization bool
	DepthWrite               bool
	DepthTest                bool
	StencilTest              bool
	DepthCompareOp           int
	StencilFrontFace         StencilState
	StencilBackFace          StencilState
}

// Renderer is the per-camera contract the graphics manager drives each frame (§6).
type Renderer interface {
	PrepareRendererPerFrameData()
	PrepareRendererPerCameraData(camera container.Handle)
	RenderCamera(camera container.Handle) error
}

// Displayer composes one or more camera outputs onto the swapchain texture (§6).
type Displayer interface {
	Display(encoder *rhi.CommandEncoder, swapchainTexture *rhi.TextureView)
}
