package rendergraph

import "github.com/aurora-render/forge/rhi"

// Builder accumulates resource and pass nodes for one frame's render graph. Call Compile to produce an
// executable Graph; the builder's own state is cleared either way (§4.8 step 1).
type Builder struct {
	nodes          []*node
	importedBufs   map[*rhi.Buffer]ResourceHandle
	importedTexs   map[*rhi.Texture]ResourceHandle
	presentPass    int
}

// NewBuilder constructs an empty render graph builder.
func NewBuilder() *Builder {
	return &Builder{
		importedBufs: make(map[*rhi.Buffer]ResourceHandle),
		importedTexs: make(map[*rhi.Texture]ResourceHandle),
		presentPass:  invalidNode,
	}
}

func (b *Builder) newResourceNode(kind nodeKind, name string) int {
	n := &node{kind: kind, name: name, index: invalidNode, prevAlias: invalidNode, nextAlias: invalidNode,
		access: &accessState{current: rhi.AccessNone}}
	b.nodes = append(b.nodes, n)
	return len(b.nodes) - 1
}

func (b *Builder) newPassNode(kind nodeKind, name string) int {
	n := &node{kind: kind, name: name, index: invalidNode, prevAlias: invalidNode, nextAlias: invalidNode}
	b.nodes = append(b.nodes, n)
	return len(b.nodes) - 1
}

// AddBuffer declares a transient buffer resource and returns its handle.
func (b *Builder) AddBuffer(setup BufferSetup) ResourceHandle {
	i := b.newResourceNode(nodeKindBuffer, setup.Label)
	b.nodes[i].bufferSetup = setup
	return ResourceHandle(i)
}

// AddTexture declares a transient texture resource and returns its handle.
func (b *Builder) AddTexture(setup TextureSetup) ResourceHandle {
	i := b.newResourceNode(nodeKindTexture, setup.Label)
	b.nodes[i].textureSetup = setup
	return ResourceHandle(i)
}

// ImportBuffer registers an externally-owned buffer, deduplicated by RHI pointer: importing the same
// *rhi.Buffer twice within one build returns the same handle.
func (b *Builder) ImportBuffer(buf *rhi.Buffer) ResourceHandle {
	if h, ok := b.importedBufs[buf]; ok {
		return h
	}
	i := b.newResourceNode(nodeKindBuffer, "imported-buffer")
	b.nodes[i].imported = true
	b.nodes[i].importedBuf = buf
	h := ResourceHandle(i)
	b.importedBufs[buf] = h
	return h
}

// ImportTexture registers an externally-owned texture with its known initial access, deduplicated by RHI
// pointer.
func (b *Builder) ImportTexture(tex *rhi.Texture, initialAccess rhi.ResourceAccessType) ResourceHandle {
	if h, ok := b.importedTexs[tex]; ok {
		return h
	}
	i := b.newResourceNode(nodeKindTexture, "imported-texture")
	b.nodes[i].imported = true
	b.nodes[i].importedTex = tex
	b.nodes[i].access.current = initialAccess
	h := ResourceHandle(i)
	b.importedTexs[tex] = h
	return h
}

// AddAccelerationStructure declares a transient acceleration structure resource and returns its handle.
func (b *Builder) AddAccelerationStructure(setup AccelerationStructureSetup) ResourceHandle {
	i := b.newResourceNode(nodeKindAccel, setup.Label)
	b.nodes[i].accelSetup = setup
	return ResourceHandle(i)
}

// declareRead adds a read edge (resource -> pass) and records the pass as a consumer of the resource.
func (b *Builder) declareRead(pass int, h ResourceHandle) {
	r := int(h)
	addEdge(b.nodes, r, pass)
	b.nodes[r].consumers = append(b.nodes[r].consumers, pass)
}

// declareWrite adds a write edge for the given pass against resource handle h, applying the write-after-use
// aliasing split (§4.7) when h already has a producer. Returns the handle the write actually landed on: h
// itself for a first write, or the freshly produced alias resource otherwise.
func (b *Builder) declareWrite(pass int, h ResourceHandle) ResourceHandle {
	r := int(h)
	if len(b.nodes[r].producers) == 0 {
		addEdge(b.nodes, pass, r)
		b.nodes[r].producers = append(b.nodes[r].producers, pass)
		return h
	}

	ap := b.newPassNode(nodeKindAliasPass, b.nodes[r].name+"#alias")
	for _, c := range b.nodes[r].consumers {
		addEdge(b.nodes, c, ap)
	}
	for _, pr := range b.nodes[r].producers {
		addEdge(b.nodes, pr, ap)
	}

	next := b.newResourceNode(b.nodes[r].kind, b.nodes[r].name)
	b.nodes[next].bufferSetup = b.nodes[r].bufferSetup
	b.nodes[next].textureSetup = b.nodes[r].textureSetup
	b.nodes[next].access = b.nodes[r].access // shared access cell (Data Model §3)
	b.nodes[next].prevAlias = r
	b.nodes[r].nextAlias = next
	addEdge(b.nodes, ap, next)

	addEdge(b.nodes, r, pass)
	addEdge(b.nodes, ap, pass)
	addEdge(b.nodes, pass, next)
	b.nodes[next].producers = append(b.nodes[next].producers, pass)

	return ResourceHandle(next)
}
