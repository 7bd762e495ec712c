package rendergraph

// GraphicsPassBuilder is the pass-scoped sub-builder returned by AddGraphicsPass: it records read/write
// edges against the graph and the pass's render target configuration (§4.7).
type GraphicsPassBuilder struct {
	b    *Builder
	pass int
}

// Read declares that this pass reads h, adding a resource->pass edge and queuing h for generic
// barrier-planning (distinct from a color/depth attachment, which is planned per its own table entry).
func (pb *GraphicsPassBuilder) Read(h ResourceHandle) ResourceHandle {
	pb.b.declareRead(pb.pass, h)
	pb.b.nodes[pb.pass].reads = append(pb.b.nodes[pb.pass].reads, h)
	return h
}

// Write declares that this pass writes h, applying the write-after-use aliasing split if needed, queuing
// the result for generic barrier-planning, and returning the handle future passes must use to observe the
// write.
func (pb *GraphicsPassBuilder) Write(h ResourceHandle) ResourceHandle {
	out := pb.b.declareWrite(pb.pass, h)
	pb.b.nodes[pb.pass].writes = append(pb.b.nodes[pb.pass].writes, out)
	return out
}

// AddColorTarget records a color attachment, implicitly a write against its Target handle (planned via the
// color-attachment row of §4.9's barrier table, not the generic buffer/texture rows). Returns the
// post-write handle (see Write).
func (pb *GraphicsPassBuilder) AddColorTarget(c ColorAttachment) ResourceHandle {
	c.Target = pb.b.declareWrite(pb.pass, c.Target)
	pb.b.nodes[pb.pass].colorTargets = append(pb.b.nodes[pb.pass].colorTargets, c)
	return c.Target
}

// SetDepthTarget records the depth/stencil attachment. A read-only depth target is declared as a read;
// otherwise it is a write (applying aliasing if needed). Returns the handle to use downstream.
func (pb *GraphicsPassBuilder) SetDepthTarget(d DepthAttachment) ResourceHandle {
	if d.ReadOnly {
		pb.b.declareRead(pb.pass, d.Target)
	} else {
		d.Target = pb.b.declareWrite(pb.pass, d.Target)
	}
	pb.b.nodes[pb.pass].depthTarget = &d
	return d.Target
}

// SetExecute registers the callback invoked when this pass runs during Graph.Execute.
func (pb *GraphicsPassBuilder) SetExecute(fn func(*ExecContext)) {
	pb.b.nodes[pb.pass].execute = fn
}

// AddGraphicsPass declares a graphics pass named name carrying pass-private data, returning data back
// unchanged alongside the pass's sub-builder (Go generics stand in for the "pass data pointer" §4.7 calls
// for, since Go has no template-return-by-reference equivalent).
func AddGraphicsPass[T any](b *Builder, name string, data *T) (*T, *GraphicsPassBuilder) {
	i := b.newPassNode(nodeKindGraphicsPass, name)
	b.nodes[i].data = data
	return data, &GraphicsPassBuilder{b: b, pass: i}
}

// ComputePassBuilder is the pass-scoped sub-builder returned by AddComputePass.
type ComputePassBuilder struct {
	b    *Builder
	pass int
}

// Read declares that this pass reads h.
func (pb *ComputePassBuilder) Read(h ResourceHandle) ResourceHandle {
	pb.b.declareRead(pb.pass, h)
	pb.b.nodes[pb.pass].reads = append(pb.b.nodes[pb.pass].reads, h)
	return h
}

// Write declares that this pass writes h, applying the write-after-use aliasing split if needed.
func (pb *ComputePassBuilder) Write(h ResourceHandle) ResourceHandle {
	out := pb.b.declareWrite(pb.pass, h)
	pb.b.nodes[pb.pass].writes = append(pb.b.nodes[pb.pass].writes, out)
	return out
}

// SetExecute registers the callback invoked when this pass runs during Graph.Execute.
func (pb *ComputePassBuilder) SetExecute(fn func(*ExecContext)) {
	pb.b.nodes[pb.pass].execute = fn
}

// AddComputePass declares a compute pass named name carrying pass-private data.
func AddComputePass[T any](b *Builder, name string, data *T) (*T, *ComputePassBuilder) {
	i := b.newPassNode(nodeKindComputePass, name)
	b.nodes[i].data = data
	return data, &ComputePassBuilder{b: b, pass: i}
}

// AddBlitPass declares a 2D blit from src to dst (§4.10), returning the post-write handle for dst.
func (b *Builder) AddBlitPass(name string, src, dst ResourceHandle, srcMip, srcLayer, dstMip, dstLayer uint32) ResourceHandle {
	i := b.newPassNode(nodeKindBlitPass, name)
	b.declareRead(i, src)
	dst = b.declareWrite(i, dst)
	b.nodes[i].blit = &blitSetup{src: src, dst: dst, srcMip: srcMip, srcLayer: srcLayer, dstMip: dstMip, dstLayer: dstLayer}
	return dst
}

// AddPresentPass marks texture as the frame's presentation target. Compile requires a present pass to mark
// the graph valid (§4.8 step 1); if AddPresentPass is called more than once, Compile culls from the last one.
func (b *Builder) AddPresentPass(texture ResourceHandle) PassHandle {
	i := b.newPassNode(nodeKindPresentPass, "present")
	b.declareRead(i, texture)
	b.nodes[i].presentTarget = texture
	b.presentPass = i
	return PassHandle(i)
}
