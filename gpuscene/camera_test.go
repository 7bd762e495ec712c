package gpuscene

import (
	"testing"
	"unsafe"

	"github.com/aurora-render/forge/gpuresource"
	"github.com/aurora-render/forge/rhi"
)

func TestCameraUpdateShaderParamsIsNoopWithoutEnsureShaderParams(t *testing.T) {
	c := &Camera{Name: "main"}
	c.UpdateShaderParams(0, 0) // must not panic
	if c.ShaderParams() != nil {
		t.Fatalf("expected ShaderParams to stay nil without a prior EnsureShaderParams call")
	}
}

func TestCameraUpdateShaderParamsWritesFrameIndexAndTime(t *testing.T) {
	c := &Camera{
		Name: "main",
		Transform: Transform{
			Position:    [3]float32{0, 0, 5},
			Target:      [3]float32{0, 0, 0},
			Up:          [3]float32{0, 1, 0},
			FovYRadians: 1,
			Aspect:      1.5,
			NearZ:       0.1,
			FarZ:        100,
		},
	}

	var allocated uint64
	c.EnsureShaderParams(2, func(size uint64) *gpuresource.Buffer {
		allocated = size
		return gpuresource.NewBuffer(
			gpuresource.BufferDesc{Size: size, FramesInFlight: 2},
			func(gpuresource.BufferDesc) *rhi.Buffer { return &rhi.Buffer{} },
			func(uint64, string) *rhi.Buffer { return &rhi.Buffer{} },
			func() int { return 0 },
		)
	})
	if allocated == 0 {
		t.Fatalf("expected EnsureShaderParams to allocate a non-zero-size uniform buffer")
	}

	c.UpdateShaderParams(7, 1.5)

	var got cameraFrameData
	data := c.ShaderParams().Data()
	if len(data) != int(unsafeSizeofCameraFrameData) {
		t.Fatalf("shader params CPU blob size = %d, want %d", len(data), unsafeSizeofCameraFrameData)
	}
	readStruct(data, &got)
	if got.FrameIndex != 7 {
		t.Fatalf("FrameIndex = %d, want 7", got.FrameIndex)
	}
	if got.TimeSeconds != 1.5 {
		t.Fatalf("TimeSeconds = %v, want 1.5", got.TimeSeconds)
	}
	// An eye displaced along z must leave a written view matrix behind, not the all-zero struct default.
	if got.View == [16]float32{} {
		t.Fatalf("expected a non-zero view matrix to have been written")
	}
}

func TestCameraUpdateShaderParamsDerivesAspectFromTargetTexture(t *testing.T) {
	c := &Camera{
		TargetTexture: gpuresource.NewOwnedTexture(gpuresource.TextureDesc{Width: 1920, Height: 1080}, &rhi.Texture{}),
		Transform:     Transform{FovYRadians: 1, NearZ: 0.1, FarZ: 100},
	}
	c.EnsureShaderParams(1, func(size uint64) *gpuresource.Buffer {
		return gpuresource.NewBuffer(
			gpuresource.BufferDesc{Size: size, FramesInFlight: 1},
			func(gpuresource.BufferDesc) *rhi.Buffer { return &rhi.Buffer{} },
			func(uint64, string) *rhi.Buffer { return &rhi.Buffer{} },
			func() int { return 0 },
		)
	})
	c.UpdateShaderParams(0, 0)

	var got cameraFrameData
	readStruct(c.ShaderParams().Data(), &got)
	if got.ViewportWidth != 1920 || got.ViewportHeight != 1080 {
		t.Fatalf("viewport size = %dx%d, want 1920x1080", got.ViewportWidth, got.ViewportHeight)
	}
}

// readStruct copies a raw byte blob back into a cameraFrameData for assertions, the mirror of
// common.StructToBytes used to write it.
func readStruct(data []byte, out *cameraFrameData) {
	copy(unsafe.Slice((*byte)(unsafe.Pointer(out)), unsafeSizeofCameraFrameData), data)
}
