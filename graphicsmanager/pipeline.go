package graphicsmanager

import (
	"fmt"

	"github.com/aurora-render/forge/capability"
	"github.com/aurora-render/forge/gpuscene"

	"github.com/aurora-render/forge/gpucache"
	"github.com/aurora-render/forge/rhi"
	"github.com/aurora-render/forge/shadercompiler"
	"github.com/cogentcore/webgpu/wgpu"
)

// Descriptor set indices a generated pipeline's shader declarations are injected at (§4.12: "mesh, material,
// camera and fragment parameter sets"). Samplers relocate to setSamplers only when the pipeline cache's
// SeparateSamplerHeap reports the backend needs it.
const (
	setMesh = iota
	setMaterial
	setCamera
	setFragment
	setSamplers
)

// GraphicsPipelineDesc is the fully-resolved per-drawable pipeline request a PipelineCache materializes on a
// cache miss (§4.12): one compiled module per populated shader stage, plus the blend state and depth-write
// flag the material's blend mode implies, and the render target formats the pipeline must match.
type GraphicsPipelineDesc struct {
	VertexModule      shadercompiler.Module
	TessControlModule shadercompiler.Module
	TessEvalModule    shadercompiler.Module
	GeometryModule    shadercompiler.Module
	FragmentModule    shadercompiler.Module

	Blend      *wgpu.BlendState
	DepthWrite bool

	ColorFormats []rhi.Format
	DepthFormat  rhi.Format
}

// BlendStateFor derives the color/alpha blend state (nil meaning "blending disabled") and the depth-write
// flag a material's blend mode implies, exactly per the table in §4.12.
func BlendStateFor(mode capability.BlendMode) (blend *wgpu.BlendState, depthWrite bool) {
	switch mode {
	case capability.BlendModeOpaque, capability.BlendModeAlphaTest:
		return nil, true
	case capability.BlendModeAlphaBlend:
		return &wgpu.BlendState{
			Color: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorSrcAlpha, DstFactor: wgpu.BlendFactorOneMinusSrcAlpha, Operation: wgpu.BlendOperationAdd},
			Alpha: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorSrcAlpha, DstFactor: wgpu.BlendFactorOneMinusSrcAlpha, Operation: wgpu.BlendOperationAdd},
		}, false
	case capability.BlendModeAdditive:
		return &wgpu.BlendState{
			Color: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorOne, Operation: wgpu.BlendOperationAdd},
			Alpha: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorZero, DstFactor: wgpu.BlendFactorOne, Operation: wgpu.BlendOperationAdd},
		}, false
	case capability.BlendModeModulate:
		return &wgpu.BlendState{
			Color: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorDst, DstFactor: wgpu.BlendFactorZero, Operation: wgpu.BlendOperationAdd},
			Alpha: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorZero, DstFactor: wgpu.BlendFactorOne, Operation: wgpu.BlendOperationAdd},
		}, false
	default:
		return nil, true
	}
}

// PipelineIdentityFor renders the composite cache key §4.12 specifies, from a drawable's mesh, material,
// fragment descriptor, compilation environment, and target formats.
func PipelineIdentityFor(
	mesh capability.Mesh,
	material capability.Material,
	fragment capability.FragmentShaderDescriptor,
	env *shadercompiler.Environment,
	colorFormats []rhi.Format,
	depthFormat rhi.Format,
) gpucache.PipelineIdentity {
	return gpucache.PipelineIdentity{
		MeshType:       mesh.MeshTypeName(),
		EnvID:          env.ConfigIdentifier(),
		FragmentSource: fragment.SourcePath,
		FragmentEntry:  fragment.SourceEntry,
		MaterialID:     material.GetShaderIdentifier(),
		ColorFormats:   colorFormats,
		DepthFormat:    depthFormat,
	}
}

// CompileGraphicsPipeline resolves id against pipelineCache, and on a miss compiles (or reuses, via
// moduleCache) the vertex/tessellation/geometry/fragment modules the mesh and fragment descriptor declare,
// after injecting the mesh/material/camera/fragment shader-declaration strings into env's replace args
// (§4.12). create turns the fully-resolved GraphicsPipelineDesc into a backend pipeline object. When the
// cache reports a separate sampler heap, the generated declarations already place samplers in setSamplers;
// create receives the same flag for building the pipeline layout.
func CompileGraphicsPipeline(
	id gpucache.PipelineIdentity,
	mesh capability.Mesh,
	material capability.Material,
	fragment capability.FragmentShaderDescriptor,
	env *shadercompiler.Environment,
	pipelineCache *gpucache.PipelineCache,
	moduleCache *gpucache.ShaderModuleCache,
	compiler shadercompiler.Compiler,
	create func(desc GraphicsPipelineDesc, separateSamplerHeap bool) *rhi.RenderPipeline,
) *rhi.RenderPipeline {
	return pipelineCache.GetOrCreate(id, func(gpucache.PipelineIdentity) *rhi.RenderPipeline {
		separateSamplerHeap := pipelineCache.SeparateSamplerHeap()
		samplersSet := uint32(setMaterial)
		if separateSamplerHeap {
			samplersSet = setSamplers
		}

		env.SetReplaceArg("mesh_params", mesh.ShaderParamsMetadata().GeneratedDeclaration(setMesh, samplersSet, separateSamplerHeap))
		env.SetReplaceArg("material_params", material.ShaderParamsMetadata().GeneratedDeclaration(setMaterial, samplersSet, separateSamplerHeap))
		env.SetReplaceArg("camera_params", gpuscene.CameraShaderParamsMetadata().GeneratedDeclaration(setCamera, samplersSet, separateSamplerHeap))
		env.SetReplaceArg("fragment_params", fragment.ShaderParamsMetadata.GeneratedDeclaration(setFragment, samplersSet, separateSamplerHeap))
		mesh.ModifyCompilerEnvironment(env)
		material.ModifyCompilerEnvironment(env)

		compile := func(stage shadercompiler.Stage, path, entry string) shadercompiler.Module {
			if path == "" {
				return shadercompiler.Module{}
			}
			m, err := moduleCache.GetOrCompile(path, entry, stage, env, compiler)
			if err != nil {
				// §7: a shader compile failure at pipeline-build time is a fatal assertion, not a
				// gracefully-degraded path - a broken shader cannot be silently skipped.
				panic(fmt.Sprintf("graphicsmanager: pipeline %q: %v", id.String(), err))
			}
			return m
		}

		desc := GraphicsPipelineDesc{
			VertexModule:      compile(shadercompiler.StageVertex, mesh.SourcePath(shadercompiler.StageVertex), mesh.SourceEntry(shadercompiler.StageVertex)),
			TessControlModule: compile(shadercompiler.StageTessControl, mesh.SourcePath(shadercompiler.StageTessControl), mesh.SourceEntry(shadercompiler.StageTessControl)),
			TessEvalModule:    compile(shadercompiler.StageTessEval, mesh.SourcePath(shadercompiler.StageTessEval), mesh.SourceEntry(shadercompiler.StageTessEval)),
			GeometryModule:    compile(shadercompiler.StageGeometry, mesh.SourcePath(shadercompiler.StageGeometry), mesh.SourceEntry(shadercompiler.StageGeometry)),
			FragmentModule:    compile(shadercompiler.StageFragment, fragment.SourcePath, fragment.SourceEntry),
			ColorFormats:      id.ColorFormats,
			DepthFormat:       id.DepthFormat,
		}
		desc.Blend, desc.DepthWrite = BlendStateFor(material.BlendMode())

		return create(desc, separateSamplerHeap)
	})
}
