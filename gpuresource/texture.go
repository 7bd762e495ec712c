package gpuresource

import "github.com/aurora-render/forge/rhi"

// TextureDesc describes a Texture to be created.
type TextureDesc struct {
	Width, Height, DepthOrLayers uint32
	Levels                       uint32
	Format                       rhi.Format
	Usages                       rhi.TextureUsage
	Label                        string
}

// textureViewKey is the per-view descriptor cache key from §3: identical keys must reuse the same
// descriptor.
type textureViewKey struct {
	kind       rhi.DescriptorType
	format     rhi.Format
	viewType   rhi.TextureViewType
	baseLevel  uint32
	numLevels  uint32
	baseLayer  uint32
	numLayers  uint32
}

// Texture wraps either an owned RHI texture or an imported non-owned reference, with a per-view descriptor
// cache.
type Texture struct {
	desc     TextureDesc
	owned    *rhi.Texture
	imported *rhi.Texture
	views    map[textureViewKey]uint64

	// generateMipmaps is injected by the render graph command helpers (§4.10) so this package never
	// imports rendergraph - that import would run the other way.
	generateMipmaps func(t *Texture, access *rhi.ResourceAccessType, mode MipmapMode)
}

// MipmapMode selects how GenerateMipmaps downsamples each level: the compute path for ordinary color
// formats, the graphics path for depth and compressed/sRGB formats (§4.10).
type MipmapMode int

const (
	MipmapModeCompute MipmapMode = iota
	MipmapModeGraphics
)

// NewOwnedTexture wraps a texture this wrapper owns and will eventually release.
func NewOwnedTexture(desc TextureDesc, rhiTexture *rhi.Texture) *Texture {
	return &Texture{desc: desc, owned: rhiTexture, views: make(map[textureViewKey]uint64)}
}

// NewImportedTexture wraps a texture owned elsewhere; the graph never creates or destroys it (§3).
func NewImportedTexture(desc TextureDesc, rhiTexture *rhi.Texture) *Texture {
	return &Texture{desc: desc, imported: rhiTexture, views: make(map[textureViewKey]uint64)}
}

// Imported reports whether this texture is a non-owned reference.
func (t *Texture) Imported() bool {
	return t.imported != nil
}

// Desc returns the descriptor this texture was created with.
func (t *Texture) Desc() TextureDesc {
	return t.desc
}

// RHITexture returns the underlying RHI texture, owned or imported.
func (t *Texture) RHITexture() *rhi.Texture {
	if t.owned != nil {
		return t.owned
	}
	return t.imported
}

// SetGenerateMipmapsHook wires the render graph's mipmap command helper into this texture, so
// GenerateMipmaps can be called without gpuresource depending on rendergraph.
func (t *Texture) SetGenerateMipmapsHook(hook func(*Texture, *rhi.ResourceAccessType, MipmapMode)) {
	t.generateMipmaps = hook
}

// GenerateMipmaps walks mip levels 0..N-2, downsampling each into the next, using mode to pick the
// compute or graphics downsample path; access is updated in place to the final read access (§4.10).
func (t *Texture) GenerateMipmaps(access *rhi.ResourceAccessType, mode MipmapMode) {
	if t.generateMipmaps == nil {
		return
	}
	t.generateMipmaps(t, access, mode)
}

// Descriptor returns (creating if needed) the cached view descriptor for the given binding kind/format/view
// parameters. Identical keys always reuse the same descriptor (§4.2).
func (t *Texture) Descriptor(kind rhi.DescriptorType, format rhi.Format, viewType rhi.TextureViewType, baseLevel, numLevels, baseLayer, numLayers uint32, create func() uint64) uint64 {
	key := textureViewKey{
		kind: kind, format: format, viewType: viewType,
		baseLevel: baseLevel, numLevels: numLevels, baseLayer: baseLayer, numLayers: numLayers,
	}
	if d, ok := t.views[key]; ok {
		return d
	}
	d := create()
	t.views[key] = d
	return d
}

// SRV is a convenience wrapper over Descriptor for a sampled-texture view.
func (t *Texture) SRV(format rhi.Format, viewType rhi.TextureViewType, baseLevel, numLevels, baseLayer, numLayers uint32, create func() uint64) uint64 {
	return t.Descriptor(rhi.DescriptorSampledTexture, format, viewType, baseLevel, numLevels, baseLayer, numLayers, create)
}

// UAV is a convenience wrapper over Descriptor for a read-write storage-texture view.
func (t *Texture) UAV(format rhi.Format, viewType rhi.TextureViewType, baseLevel, numLevels, baseLayer, numLayers uint32, create func() uint64) uint64 {
	return t.Descriptor(rhi.DescriptorReadWriteStorageTexture, format, viewType, baseLevel, numLevels, baseLayer, numLayers, create)
}
