package rendergraph

import (
	"fmt"
	"math/bits"

	"github.com/aurora-render/forge/gpuresource"
	"github.com/aurora-render/forge/rhi"
)

// bufferBucketKey groups buffers into recyclable size classes: two requests with the same rounded-up
// log2(size), memory property, and usage set can reuse the same underlying allocation (§4.9 step 1).
func bufferBucketKey(size uint64, memProp rhi.BufferMemoryProperty, usages rhi.BufferUsage) string {
	class := bits.Len64(size - 1)
	if size == 0 {
		class = 0
	}
	return fmt.Sprintf("buf|%d|%d|%d", class, memProp, usages)
}

func textureBucketKey(s TextureSetup) string {
	return fmt.Sprintf("tex|%d|%d|%d|%d|%d|%d", s.Width, s.Height, s.DepthOrLayers, s.Levels, s.Format, s.Usages)
}

type bufferBucketEntry struct {
	buf    *gpuresource.Buffer
	access rhi.ResourceAccessType
}

type textureBucketEntry struct {
	tex    *gpuresource.Texture
	access rhi.ResourceAccessType
}

// BufferPool recycles gpuresource.Buffer allocations across frames, bucketed by size class + memory
// property + usage set. RHI resources are never freed once allocated - only their pool slot is recycled.
type BufferPool struct {
	buckets         map[string][]*bufferBucketEntry
	recycled        map[string][]int
	allocateGPU     func(gpuresource.BufferDesc) *rhi.Buffer
	allocateStaging func(uint64, string) *rhi.Buffer
	framesInFlight  int
	frameIndex      func() int
}

// NewBufferPool constructs an empty buffer pool. allocateGPU/allocateStaging/frameIndex are forwarded
// straight into each gpuresource.Buffer it creates.
func NewBufferPool(framesInFlight int, allocateGPU func(gpuresource.BufferDesc) *rhi.Buffer, allocateStaging func(uint64, string) *rhi.Buffer, frameIndex func() int) *BufferPool {
	return &BufferPool{
		buckets:         make(map[string][]*bufferBucketEntry),
		recycled:        make(map[string][]int),
		allocateGPU:     allocateGPU,
		allocateStaging: allocateStaging,
		framesInFlight:  framesInFlight,
		frameIndex:      frameIndex,
	}
}

// Acquire returns a buffer for setup, reusing a recycled entry from the matching bucket if one is
// available, and the access state it carries forward from its previous life (§4.9 step 1).
func (p *BufferPool) Acquire(setup BufferSetup) (*gpuresource.Buffer, *poolEntryRef, rhi.ResourceAccessType) {
	key := bufferBucketKey(setup.Size, setup.MemoryProperty, setup.Usages)
	if recycled := p.recycled[key]; len(recycled) > 0 {
		idx := recycled[len(recycled)-1]
		p.recycled[key] = recycled[:len(recycled)-1]
		entry := p.buckets[key][idx]
		return entry.buf, &poolEntryRef{bucket: key, index: idx}, entry.access
	}

	desc := gpuresource.BufferDesc{Size: setup.Size, Usages: setup.Usages, MemoryProperty: setup.MemoryProperty, FramesInFlight: p.framesInFlight, Label: setup.Label}
	buf := gpuresource.NewBuffer(desc, p.allocateGPU, p.allocateStaging, p.frameIndex)
	entry := &bufferBucketEntry{buf: buf, access: rhi.AccessNone}
	p.buckets[key] = append(p.buckets[key], entry)
	return entry.buf, &poolEntryRef{bucket: key, index: len(p.buckets[key]) - 1}, rhi.AccessNone
}

// Release returns a pool entry to its bucket's recycle list, recording its final access so the next
// Acquire of the same bucket carries it forward.
func (p *BufferPool) Release(ref *poolEntryRef, finalAccess rhi.ResourceAccessType) {
	p.buckets[ref.bucket][ref.index].access = finalAccess
	p.recycled[ref.bucket] = append(p.recycled[ref.bucket], ref.index)
}

// TexturePool recycles gpuresource.Texture allocations across frames, bucketed by full descriptor.
type TexturePool struct {
	buckets     map[string][]*textureBucketEntry
	recycled    map[string][]int
	allocateTex func(TextureSetup) *rhi.Texture
}

// NewTexturePool constructs an empty texture pool.
func NewTexturePool(allocateTex func(TextureSetup) *rhi.Texture) *TexturePool {
	return &TexturePool{buckets: make(map[string][]*textureBucketEntry), recycled: make(map[string][]int), allocateTex: allocateTex}
}

// Acquire returns a texture for setup, reusing a recycled entry if the bucket has one.
func (p *TexturePool) Acquire(setup TextureSetup) (*gpuresource.Texture, *poolEntryRef, rhi.ResourceAccessType) {
	key := textureBucketKey(setup)
	if recycled := p.recycled[key]; len(recycled) > 0 {
		idx := recycled[len(recycled)-1]
		p.recycled[key] = recycled[:len(recycled)-1]
		entry := p.buckets[key][idx]
		return entry.tex, &poolEntryRef{bucket: key, index: idx}, entry.access
	}

	desc := gpuresource.TextureDesc{Width: setup.Width, Height: setup.Height, DepthOrLayers: setup.DepthOrLayers, Levels: setup.Levels, Format: setup.Format, Usages: setup.Usages, Label: setup.Label}
	tex := gpuresource.NewOwnedTexture(desc, p.allocateTex(setup))
	entry := &textureBucketEntry{tex: tex, access: rhi.AccessNone}
	p.buckets[key] = append(p.buckets[key], entry)
	return entry.tex, &poolEntryRef{bucket: key, index: len(p.buckets[key]) - 1}, rhi.AccessNone
}

// Release returns a pool entry to its bucket's recycle list, recording its final access.
func (p *TexturePool) Release(ref *poolEntryRef, finalAccess rhi.ResourceAccessType) {
	p.buckets[ref.bucket][ref.index].access = finalAccess
	p.recycled[ref.bucket] = append(p.recycled[ref.bucket], ref.index)
}
