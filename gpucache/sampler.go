// Package gpucache implements the content-addressed caches described in §4.4: samplers keyed by
// descriptor equality, compiled shader modules keyed by (source, entry, stage, environment), graphics
// pipelines keyed by a composite per-drawable identity string, and a file-backed shader binary cache with
// time-based eviction.
package gpucache

import (
	"fmt"

	"github.com/aurora-render/forge/rhi"
)

// SamplerDesc mirrors the RHI sampler descriptor fields that participate in cache identity.
type SamplerDesc struct {
	AddressModeU, AddressModeV, AddressModeW int
	MagFilter, MinFilter                     int
	MipmapFilter                             int
	LODMinClamp, LODMaxClamp                  float32
	Compare                                   int
	MaxAnisotropy                             uint16
}

// key renders desc as a stable string so SamplerDesc (which contains float32 fields and is therefore not
// itself comparable-safe as a Go map key across NaN inputs) can be content-addressed as a string key, the
// same way the renderer's pipeline cache is keyed by string identity.
func (d SamplerDesc) key() string {
	return fmt.Sprintf("%d|%d|%d|%d|%d|%d|%f|%f|%d|%d",
		d.AddressModeU, d.AddressModeV, d.AddressModeW,
		d.MagFilter, d.MinFilter, d.MipmapFilter,
		d.LODMinClamp, d.LODMaxClamp, d.Compare, d.MaxAnisotropy)
}

// SamplerCache is a content-addressed cache of RHI samplers keyed by SamplerDesc structural equality.
type SamplerCache struct {
	entries map[string]*rhi.Sampler
}

// NewSamplerCache constructs an empty SamplerCache.
func NewSamplerCache() *SamplerCache {
	return &SamplerCache{entries: make(map[string]*rhi.Sampler)}
}

// GetOrCreate returns the cached sampler for desc, creating one via create on a miss.
func (c *SamplerCache) GetOrCreate(desc SamplerDesc, create func(SamplerDesc) *rhi.Sampler) *rhi.Sampler {
	k := desc.key()
	if s, ok := c.entries[k]; ok {
		return s
	}
	s := create(desc)
	c.entries[k] = s
	return s
}

// Len reports the number of distinct samplers currently cached.
func (c *SamplerCache) Len() int {
	return len(c.entries)
}
