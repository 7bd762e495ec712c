package rendergraph

import (
	"github.com/aurora-render/forge/logging"
	"github.com/aurora-render/forge/rhi"
	"go.uber.org/zap"
)

// Resources is the set of pools Graph.Execute materializes transient resources from.
type Resources struct {
	Buffers  *BufferPool
	Textures *TexturePool
}

// targetAccess computes a node's required access for the pass currently touching it, per the table in
// §4.9. role distinguishes a read from a write declaration of the same handle.
type declRole int

const (
	roleRead declRole = iota
	roleWrite
)

func bufferTargetAccess(usages rhi.BufferUsage, role declRole) rhi.ResourceAccessType {
	if role == roleWrite {
		return rhi.AccessStorageResourceWrite
	}
	switch {
	case usages.Has(rhi.BufferUsageUniform):
		return rhi.AccessUniformBufferRead
	case usages.Has(rhi.BufferUsageIndirect):
		return rhi.AccessIndirectRead
	default:
		return rhi.AccessStorageResourceRead
	}
}

func textureTargetAccess(usages rhi.TextureUsage, role declRole) rhi.ResourceAccessType {
	if role == roleWrite {
		return rhi.AccessStorageResourceWrite
	}
	if usages.Has(rhi.TextureUsageSampled) {
		return rhi.AccessSampledTextureRead
	}
	return rhi.AccessStorageResourceRead
}

// transition applies a barrier against n's shared access cell, appending it to barriers whenever
// rhi.NeedBarrier reports one is needed. The access cell is always advanced to target, barrier or not.
func transition(n *node, target rhi.ResourceAccessType, barriers *[]Barrier) {
	from := n.access.current
	if rhi.NeedBarrier(from, target) {
		*barriers = append(*barriers, Barrier{Label: n.name, From: from, To: target})
	}
	n.access.current = target
}

// Execute iterates the compiled topological pass order, materializing scheduled transient resources,
// planning barriers, dispatching each pass's execute callback, and releasing resources scheduled for
// destruction (§4.9). A nil or invalid Graph no-ops.
func (g *Graph) Execute(encoder *rhi.CommandEncoder, res *Resources) {
	if g == nil || !g.Valid {
		return
	}

	for _, passIdx := range g.passOrder {
		pass := g.nodes[passIdx]

		for _, rIdx := range g.resourcesToCreate[pass.index] {
			g.materialize(rIdx, res)
		}

		barriers := g.planBarriers(pass)
		g.barriers[pass.index] = barriers
		if len(barriers) > 0 {
			logging.Named("rendergraph").Debug("emitting resource barriers",
				zap.String("pass", pass.name), zap.Int("count", len(barriers)))
		}

		if pass.execute != nil {
			ctx := &ExecContext{Encoder: encoder, graph: g, Barriers: barriers}
			pass.execute(ctx)
		}

		for _, rIdx := range g.resourcesToDestroy[pass.index] {
			g.release(rIdx, res)
		}
	}
}

func (g *Graph) materialize(idx int, res *Resources) {
	n := g.nodes[idx]

	if n.prevAlias != invalidNode {
		prev := g.nodes[n.prevAlias]
		n.pool = prev.pool
		n.imported = prev.imported
		n.materializedBuffer = prev.materializedBuffer
		n.materializedTexture = prev.materializedTexture
		return
	}

	if n.imported {
		return
	}

	switch n.kind {
	case nodeKindAccel:
		// acceleration structures are built directly by the accel package (§4.11), not pooled here.
	case nodeKindBuffer:
		buf, ref, access := res.Buffers.Acquire(n.bufferSetup)
		n.materializedBuffer = buf
		n.pool = ref
		n.access.current = access
	case nodeKindTexture:
		tex, ref, access := res.Textures.Acquire(n.textureSetup)
		n.materializedTexture = tex
		n.pool = ref
		n.access.current = access
	}
}

func (g *Graph) release(idx int, res *Resources) {
	n := g.nodes[idx]
	if n.imported || n.pool == nil || n.nextAlias != invalidNode {
		return
	}
	switch n.kind {
	case nodeKindBuffer:
		res.Buffers.Release(n.pool, n.access.current)
	case nodeKindTexture:
		res.Textures.Release(n.pool, n.access.current)
	}
}

// planBarriers computes and applies the target access for every resource this pass declared, returning
// every transition rhi.NeedBarrier reported as required (§4.9's barrier-planning table) in declaration
// order. The caller (Execute) is responsible for acting on the result; nothing here discards it.
func (g *Graph) planBarriers(pass *node) []Barrier {
	var barriers []Barrier

	switch pass.kind {
	case nodeKindAliasPass, nodeKindPresentPass:
		if pass.kind == nodeKindPresentPass {
			r := g.nodes[int(pass.presentTarget)]
			transition(r, rhi.AccessSampledTextureRead, &barriers)
		}
		return barriers
	case nodeKindBlitPass:
		src := g.nodes[int(pass.blit.src)]
		dst := g.nodes[int(pass.blit.dst)]
		transition(src, rhi.AccessSampledTextureRead, &barriers)
		if isDepthFormat(dst) {
			transition(dst, rhi.AccessDepthStencilAttachmentWrite, &barriers)
		} else {
			transition(dst, rhi.AccessColorAttachmentWrite, &barriers)
		}
		return barriers
	}

	for _, h := range pass.reads {
		planResourceAccess(g.nodes[int(h)], roleRead, &barriers)
	}
	for _, c := range pass.colorTargets {
		transition(g.nodes[int(c.Target)], rhi.AccessColorAttachmentWrite, &barriers)
	}
	if pass.depthTarget != nil {
		if pass.depthTarget.ReadOnly {
			transition(g.nodes[int(pass.depthTarget.Target)], rhi.AccessDepthStencilAttachmentRead, &barriers)
		} else {
			transition(g.nodes[int(pass.depthTarget.Target)], rhi.AccessDepthStencilAttachmentWrite, &barriers)
		}
	}
	for _, h := range pass.writes {
		planResourceAccess(g.nodes[int(h)], roleWrite, &barriers)
	}

	return barriers
}

func planResourceAccess(n *node, role declRole, barriers *[]Barrier) {
	switch n.kind {
	case nodeKindBuffer:
		transition(n, bufferTargetAccess(n.bufferSetup.Usages, role), barriers)
	case nodeKindTexture:
		transition(n, textureTargetAccess(n.textureSetup.Usages, role), barriers)
	}
}

func isDepthFormat(n *node) bool {
	return n.textureSetup.Usages.Has(rhi.TextureUsageDepthStencilAttachment)
}
