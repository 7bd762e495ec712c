package gpucache

import (
	"fmt"

	"github.com/aurora-render/forge/rhi"
)

// PipelineIdentity is the composite key a per-drawable pipeline is cached under (§4.12): mesh type name,
// material identity, fragment-shader identity, color/depth formats, and the environment's config
// identifier, rendered into the exact string format §4.12 specifies so two independently-constructed
// identities for the same logical pipeline always collide to the same cache entry.
type PipelineIdentity struct {
	MeshType       string
	EnvID          string
	FragmentSource string
	FragmentEntry  string
	MaterialID     string
	ColorFormats   []rhi.Format
	DepthFormat    rhi.Format
}

// String renders the identity per §4.12: "MESH {mesh_type} {env_id} FS '{source}' {entry} {material_id}
// {env_id} FORMAT -{c0:x}...={d:x}".
func (id PipelineIdentity) String() string {
	s := fmt.Sprintf("MESH %s %s FS '%s' %s %s %s FORMAT ", id.MeshType, id.EnvID, id.FragmentSource, id.FragmentEntry, id.MaterialID, id.EnvID)
	for _, c := range id.ColorFormats {
		s += fmt.Sprintf("-%x", uint32(c))
	}
	s += fmt.Sprintf("=%x", uint32(id.DepthFormat))
	return s
}

// PipelineCache caches compiled graphics (render) pipelines keyed by their composite identity string.
type PipelineCache struct {
	entries             map[string]*rhi.RenderPipeline
	separateSamplerHeap bool
}

// NewPipelineCache constructs an empty PipelineCache. separateSamplerHeap is the device property read once
// at construction time per the §9 Open Question on its validity across a frame-in-flight ring: no device in
// this stack exposes it dynamically, so GetOrCreate callers read it back via SeparateSamplerHeap rather than
// the cache re-deriving it per call; a future device that did expose it dynamically would need full cache
// invalidation, not handled here.
func NewPipelineCache(separateSamplerHeap bool) *PipelineCache {
	return &PipelineCache{entries: make(map[string]*rhi.RenderPipeline), separateSamplerHeap: separateSamplerHeap}
}

// GetOrCreate returns the cached pipeline for id, creating one via create on a miss.
func (c *PipelineCache) GetOrCreate(id PipelineIdentity, create func(PipelineIdentity) *rhi.RenderPipeline) *rhi.RenderPipeline {
	k := id.String()
	if p, ok := c.entries[k]; ok {
		return p
	}
	p := create(id)
	c.entries[k] = p
	return p
}

// SeparateSamplerHeap reports whether the backend wants samplers relocated to a dedicated descriptor set.
func (c *PipelineCache) SeparateSamplerHeap() bool {
	return c.separateSamplerHeap
}

// Len reports the number of distinct pipelines currently cached.
func (c *PipelineCache) Len() int {
	return len(c.entries)
}
