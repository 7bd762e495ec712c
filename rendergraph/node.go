package rendergraph

import (
	"github.com/aurora-render/forge/gpuresource"
	"github.com/aurora-render/forge/rhi"
)

type nodeKind int

const (
	nodeKindBuffer nodeKind = iota
	nodeKindTexture
	nodeKindAccel
	nodeKindGraphicsPass
	nodeKindComputePass
	nodeKindBlitPass
	nodeKindPresentPass
	nodeKindAliasPass
)

func (k nodeKind) isResource() bool {
	return k == nodeKindBuffer || k == nodeKindTexture || k == nodeKindAccel
}

func (k nodeKind) isPass() bool {
	return !k.isResource()
}

// accessState is the shared access-type cell an aliasing chain's members point to in common (Data Model
// §3: "a single shared access-type cell").
type accessState struct {
	current rhi.ResourceAccessType
}

// poolEntryRef identifies a materialised resource's slot within its typed pool, so release can push it back
// onto the right recycle list.
type poolEntryRef struct {
	bucket string
	index  int
}

type node struct {
	kind  nodeKind
	name  string
	index int // topological order index, set by Compile; -1 until compiled

	live bool

	// resource fields
	bufferSetup  BufferSetup
	textureSetup TextureSetup
	accelSetup   AccelerationStructureSetup
	imported     bool
	importedBuf  *rhi.Buffer
	importedTex  *rhi.Texture
	access       *accessState
	prevAlias    int
	nextAlias    int
	producers    []int
	consumers    []int
	pool         *poolEntryRef

	materializedBuffer  *gpuresource.Buffer
	materializedTexture *gpuresource.Texture

	// pass fields
	reads        []ResourceHandle
	writes       []ResourceHandle
	colorTargets []ColorAttachment
	depthTarget  *DepthAttachment
	blit         *blitSetup
	presentTarget ResourceHandle
	execute      func(*ExecContext)
	data         any

	in  []int
	out []int
}

type blitSetup struct {
	src, dst                   ResourceHandle
	srcMip, srcLayer           uint32
	dstMip, dstLayer           uint32
}

func addEdge(nodes []*node, from, to int) {
	nodes[from].out = append(nodes[from].out, to)
	nodes[to].in = append(nodes[to].in, from)
}
