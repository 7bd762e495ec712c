package gpuresource

import (
	"testing"

	"github.com/aurora-render/forge/rhi"
)

func TestTextureDescriptorCacheReusesIdenticalKeys(t *testing.T) {
	tex := NewOwnedTexture(TextureDesc{Width: 256, Height: 256, Levels: 8}, &rhi.Texture{})
	calls := 0
	create := func() uint64 { calls++; return uint64(calls) }

	d1 := tex.SRV(rhi.Format(0), rhi.ViewType2D, 0, 1, 0, 1, create)
	d2 := tex.SRV(rhi.Format(0), rhi.ViewType2D, 0, 1, 0, 1, create)
	if d1 != d2 || calls != 1 {
		t.Fatalf("SRV with identical keys:\nhave d1=%d d2=%d calls=%d\nwant d1==d2, calls=1", d1, d2, calls)
	}

	d3 := tex.SRV(rhi.Format(0), rhi.ViewType2D, 1, 1, 0, 1, create)
	if d3 == d1 || calls != 2 {
		t.Fatalf("SRV with a different base level reused the cached descriptor")
	}
}

func TestTextureImportedNeverOwnsResource(t *testing.T) {
	rt := &rhi.Texture{}
	tex := NewImportedTexture(TextureDesc{}, rt)
	if !tex.Imported() {
		t.Fatalf("Imported():\nhave false\nwant true")
	}
	if tex.RHITexture() != rt {
		t.Fatalf("RHITexture() did not return the imported reference")
	}
}

func TestTextureGenerateMipmapsInvokesHookAndUpdatesAccess(t *testing.T) {
	tex := NewOwnedTexture(TextureDesc{Levels: 4}, &rhi.Texture{})
	var gotMode MipmapMode
	tex.SetGenerateMipmapsHook(func(t *Texture, access *rhi.ResourceAccessType, mode MipmapMode) {
		gotMode = mode
		*access = rhi.AccessSampledTextureRead
	})

	access := rhi.AccessColorAttachmentWrite
	tex.GenerateMipmaps(&access, MipmapModeCompute)

	if gotMode != MipmapModeCompute {
		t.Fatalf("mode passed to hook:\nhave %v\nwant MipmapModeCompute", gotMode)
	}
	if access != rhi.AccessSampledTextureRead {
		t.Fatalf("access after GenerateMipmaps:\nhave %v\nwant AccessSampledTextureRead", access)
	}
}
