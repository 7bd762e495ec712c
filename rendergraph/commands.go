package rendergraph

import (
	"sync"
	"sync/atomic"

	"github.com/aurora-render/forge/gpuresource"
	"github.com/aurora-render/forge/rhi"
	"github.com/cogentcore/webgpu/wgpu"
)

// viewHandles maps the bindless uint64 handles gpuresource.Texture.Descriptor caches into the underlying
// RHI texture views they were created for, so a BlitPipelines/MipmapPipelines bind-group callback can look
// one back up. There is no descriptor heap below this package yet, so this package owns the table.
var (
	viewHandlesMu sync.Mutex
	viewHandles   = map[uint64]*rhi.TextureView{}
	nextHandle    uint64
)

func registerView(v *rhi.TextureView) uint64 {
	h := atomic.AddUint64(&nextHandle, 1)
	viewHandlesMu.Lock()
	viewHandles[h] = v
	viewHandlesMu.Unlock()
	return h
}

func lookupView(h uint64) *rhi.TextureView {
	viewHandlesMu.Lock()
	defer viewHandlesMu.Unlock()
	return viewHandles[h]
}

// createView returns a Descriptor "create" callback that builds a texture view over the given subresource
// range and registers it for lookup via viewHandles.
func createView(tex *gpuresource.Texture, baseLevel, numLevels, baseLayer, numLayers uint32) func() uint64 {
	return func() uint64 {
		view, err := tex.RHITexture().CreateView(&wgpu.TextureViewDescriptor{
			BaseMipLevel:    baseLevel,
			MipLevelCount:   numLevels,
			BaseArrayLayer:  baseLayer,
			ArrayLayerCount: numLayers,
		})
		if err != nil {
			return 0
		}
		return registerView(view)
	}
}

// BlitPipelines resolves the full-screen blit pipeline for a destination format, selecting between the
// depth and color variant (ground truth: command_helpers.cpp's get_blit_pipeline, which keys a pipeline
// cache by destination format and picks the depth-stencil-state vs. color-target-state variant).
type BlitPipelines interface {
	BlitPipeline(dstFormat rhi.Format) (pipeline *rhi.RenderPipeline, srcBindGroup func(srv uint64) *rhi.BindGroup)
}

// MipmapPipelines resolves the down-sample pipeline for a mip generation step: the graphics path for depth
// and compressed/sRGB formats, the compute path for everything else (ground truth: get_mipmap_pipeline /
// mipmap_pipelines_compute_).
type MipmapPipelines interface {
	MipmapGraphicsPipeline(dstFormat rhi.Format, mode gpuresource.MipmapMode) (pipeline *rhi.RenderPipeline, bindGroup func(srv uint64) *rhi.BindGroup)
	MipmapComputePipeline(mode gpuresource.MipmapMode) (pipeline *rhi.ComputePipeline, bindGroup func(srv, uav uint64) *rhi.BindGroup)
}

// Blit2D begins a one-attachment render pass over dst's (dstMip, dstLayer) subresource and draws a
// full-screen triangle sampling src's (srcMip, srcLayer) subresource (§4.10). The caller's pass already
// planned the src/dst barriers (Graph.planBarriers, blit-pass case) before invoking this.
func Blit2D(encoder *rhi.CommandEncoder, src, dst *gpuresource.Texture, srcMip, srcLayer, dstMip, dstLayer uint32, pipelines BlitPipelines) {
	dstHandle := dst.SRV(rhi.Format(0), rhi.ViewType2D, dstMip, 1, dstLayer, 1, createView(dst, dstMip, 1, dstLayer, 1))

	desc := &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       lookupView(dstHandle),
				LoadOp:     wgpu.LoadOpLoad,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{},
			},
		},
	}
	pass := encoder.BeginRenderPass(desc)
	defer pass.End()

	pipeline, srcBindGroup := pipelines.BlitPipeline(dst.Desc().Format)
	pass.SetPipeline(pipeline)

	srcHandle := src.SRV(rhi.Format(0), rhi.ViewType2D, srcMip, 1, srcLayer, 1, createView(src, srcMip, 1, srcLayer, 1))
	if bg := srcBindGroup(srcHandle); bg != nil {
		pass.SetBindGroup(0, bg, nil)
	}
	pass.Draw(3, 1, 0, 0)
}

// GenerateMipmaps2D walks mip levels 0..N-2, emitting the (current level: target->read, next level:
// access->write) barrier pair before each down-sample step, then transitions the last level back to read
// access. access is updated in place to the final read access (§4.10). The returned barriers are every
// transition rhi.NeedBarrier reported as required, in emission order, for the caller to act on or log —
// mirroring Graph.planBarriers rather than discarding the decision.
func GenerateMipmaps2D(encoder *rhi.CommandEncoder, tex *gpuresource.Texture, access *rhi.ResourceAccessType, mode gpuresource.MipmapMode, numLevels uint32, pipelines MipmapPipelines) []Barrier {
	if numLevels <= 1 {
		return nil
	}

	label := tex.Desc().Label
	readAccess := rhi.AccessSampledTextureRead
	var writeAccess rhi.ResourceAccessType
	if mode == gpuresource.MipmapModeGraphics {
		writeAccess = rhi.AccessColorAttachmentWrite
	} else {
		writeAccess = rhi.AccessStorageResourceWrite
	}

	var barriers []Barrier
	for level := uint32(0); level+1 < numLevels; level++ {
		srcAccess := writeAccess
		if level == 0 {
			srcAccess = *access
		}
		if rhi.NeedBarrier(srcAccess, readAccess) {
			barriers = append(barriers, Barrier{Label: label, From: srcAccess, To: readAccess})
		}
		if rhi.NeedBarrier(*access, writeAccess) {
			barriers = append(barriers, Barrier{Label: label, From: *access, To: writeAccess})
		}

		downsampleMip(encoder, tex, level, mode, pipelines)
	}

	if rhi.NeedBarrier(writeAccess, readAccess) {
		barriers = append(barriers, Barrier{Label: label, From: writeAccess, To: readAccess})
	}
	*access = readAccess
	return barriers
}

func downsampleMip(encoder *rhi.CommandEncoder, tex *gpuresource.Texture, level uint32, mode gpuresource.MipmapMode, pipelines MipmapPipelines) {
	srcHandle := tex.SRV(rhi.Format(0), rhi.ViewType2D, level, 1, 0, 1, createView(tex, level, 1, 0, 1))

	if mode == gpuresource.MipmapModeGraphics {
		dstHandle := tex.SRV(rhi.Format(0), rhi.ViewType2D, level+1, 1, 0, 1, createView(tex, level+1, 1, 0, 1))
		desc := &wgpu.RenderPassDescriptor{
			ColorAttachments: []wgpu.RenderPassColorAttachment{
				{
					View:       lookupView(dstHandle),
					LoadOp:     wgpu.LoadOpLoad,
					StoreOp:    wgpu.StoreOpStore,
					ClearValue: wgpu.Color{},
				},
			},
		}
		pass := encoder.BeginRenderPass(desc)
		defer pass.End()

		pipeline, bindGroup := pipelines.MipmapGraphicsPipeline(tex.Desc().Format, mode)
		pass.SetPipeline(pipeline)
		if bg := bindGroup(srcHandle); bg != nil {
			pass.SetBindGroup(0, bg, nil)
		}
		pass.Draw(3, 1, 0, 0)
		return
	}

	dstHandle := tex.UAV(rhi.Format(0), rhi.ViewType2D, level+1, 1, 0, 1, createView(tex, level+1, 1, 0, 1))
	pass := encoder.BeginComputePass(nil)
	defer pass.End()

	pipeline, bindGroup := pipelines.MipmapComputePipeline(mode)
	pass.SetPipeline(pipeline)
	if bg := bindGroup(srcHandle, dstHandle); bg != nil {
		pass.SetBindGroup(0, bg, nil)
	}
	width := tex.Desc().Width >> level
	height := tex.Desc().Height >> level
	pass.DispatchWorkgroups((width+15)/16, (height+15)/16, 1)
}
