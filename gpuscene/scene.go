// Package gpuscene holds the render core's view of the world: cameras and drawables kept in
// generation-checked slot maps, queried by the render graph builder to assemble rendered-object lists
// (§4.6). The scene never owns rendering state - drawables only reference mesh and material capabilities
// owned by the host application.
package gpuscene

import (
	"github.com/aurora-render/forge/capability"
	"github.com/aurora-render/forge/common"
	"github.com/aurora-render/forge/container"
	"github.com/aurora-render/forge/gpuresource"
	"github.com/aurora-render/forge/shaderparam"
)

// Transform is the per-camera view/projection state the host keeps updated every frame (§4.12): an eye
// position, a look-at target, an up vector, and either a perspective or orthographic frustum.
type Transform struct {
	Position, Target, Up       [3]float32
	FovYRadians, Aspect        float32
	NearZ, FarZ                float32
	Orthographic               bool
}

// cameraFrameData mirrors the original engine's GraphicsInput uniform struct byte for byte: frame index,
// total elapsed time, viewport size/offset, then the view/projection matrix family (§4.12's
// camera.update_shader_params). Field order is the CPU/GPU layout - do not reorder without re-deriving the
// shader-side declaration that reads it.
type cameraFrameData struct {
	FrameIndex     uint32
	TimeSeconds    float32
	ViewportWidth  uint32
	ViewportHeight uint32
	ViewportOffX   uint32
	ViewportOffY   uint32
	_pad0, _pad1   uint32
	View           [16]float32
	InvView        [16]float32
	Proj           [16]float32
	InvProj        [16]float32
	ProjView       [16]float32
	PrevProjView   [16]float32
}

// cameraShaderParams is the metadata for cameraFrameData as a single opaque uniform-buffer-resident
// parameter: the block model (§4.3) doesn't need per-field reflection here, only the whole struct's size and
// alignment, since no host code ever addresses an individual field of it by name.
func cameraShaderParams() shaderparam.MetadataList {
	return shaderparam.MetadataList{Params: []shaderparam.ParamMetadata{
		{
			TypeName:     "GraphicsInput",
			VarName:      "g_camera",
			CPUSize:      uint32(unsafeSizeofCameraFrameData),
			CPUAlignment: 16,
			GPUSize:      uint32(unsafeSizeofCameraFrameData),
			GPUAlignment: 16,
		},
	}}
}

const unsafeSizeofCameraFrameData = 4*8 + 16*4*6 // six 4x4 matrices plus the leading 8 uint32/float32 fields

// CameraShaderParamsMetadata returns the metadata every camera's shader parameter block shares, so a
// pipeline compile (graphicsmanager) can generate the camera parameter set's shader declaration once per
// pipeline identity rather than needing a live Camera in hand.
func CameraShaderParamsMetadata() shaderparam.MetadataList {
	return cameraShaderParams()
}

// Camera is the per-camera bookkeeping the scene tracks: the host-supplied renderer (capability.Renderer),
// the offscreen target the render graph's back buffer is pointed at each frame (§4.12 step 3), and the
// per-camera shader parameter block update_shader_params fills.
type Camera struct {
	Renderer      capability.Renderer
	Name          string
	TargetTexture *gpuresource.Texture
	Transform     Transform

	shaderParams *shaderparam.Block
	prevProjView [16]float32
}

// EnsureShaderParams lazily constructs the camera's shader parameter block on first use, so a camera added
// before a graphics device exists (e.g. in a test) never allocates a GPU buffer it doesn't need yet.
func (c *Camera) EnsureShaderParams(framesInFlight int, allocate func(size uint64) *gpuresource.Buffer) *shaderparam.Block {
	if c.shaderParams == nil {
		c.shaderParams = shaderparam.NewBlock(cameraShaderParams(), framesInFlight, allocate)
	}
	return c.shaderParams
}

// ShaderParams returns the camera's shader parameter block, or nil if EnsureShaderParams was never called.
func (c *Camera) ShaderParams() *shaderparam.Block {
	return c.shaderParams
}

// UpdateShaderParams recomputes the camera's view/projection matrices from Transform and writes the full
// GraphicsInput uniform struct into the shader parameter block's CPU blob (§4.12: "camera.update_shader_params()",
// called once per camera per frame before renderer.prepare_per_camera_data). A no-op if EnsureShaderParams was
// never called.
func (c *Camera) UpdateShaderParams(frameIndex uint32, totalTimeSeconds float32) {
	if c.shaderParams == nil {
		return
	}

	var width, height uint32
	aspect := c.Transform.Aspect
	if c.TargetTexture != nil {
		d := c.TargetTexture.Desc()
		width, height = d.Width, d.Height
		if height != 0 {
			aspect = float32(width) / float32(height)
		}
	}

	var data cameraFrameData
	data.FrameIndex = frameIndex
	data.TimeSeconds = totalTimeSeconds
	data.ViewportWidth = width
	data.ViewportHeight = height

	common.LookAt(data.View[:],
		c.Transform.Position[0], c.Transform.Position[1], c.Transform.Position[2],
		c.Transform.Target[0], c.Transform.Target[1], c.Transform.Target[2],
		c.Transform.Up[0], c.Transform.Up[1], c.Transform.Up[2],
	)
	if c.Transform.Orthographic {
		orthoHeight := c.Transform.FovYRadians
		orthoWidth := orthoHeight * aspect
		common.Identity(data.Proj[:])
		data.Proj[0] = 1 / orthoWidth
		data.Proj[5] = 1 / orthoHeight
		data.Proj[10] = 1 / (c.Transform.NearZ - c.Transform.FarZ)
		data.Proj[14] = c.Transform.NearZ / (c.Transform.NearZ - c.Transform.FarZ)
	} else {
		common.Perspective(data.Proj[:], c.Transform.FovYRadians, aspect, c.Transform.NearZ, c.Transform.FarZ)
	}
	common.Invert4(data.InvView[:], data.View[:])
	common.Invert4(data.InvProj[:], data.Proj[:])
	common.Mul4(data.ProjView[:], data.Proj[:], data.View[:])
	data.PrevProjView = c.prevProjView
	c.prevProjView = data.ProjView

	copy(c.shaderParams.MutableData(), common.StructToBytes(&data))
}

// Drawable is one renderable instance: a reference to mesh and material capabilities plus the transform
// data the host keeps updated, addressed by a stable slot map handle so render graph passes and
// acceleration structure builds can refer to it across frames (§4.11 uses the handle directly as
// InstanceID/SBTOffset).
type Drawable struct {
	Mesh      capability.Mesh
	Material  capability.Material
	Transform [16]float32
}

// Scene is the generation-checked registry of cameras and drawables queried when building a render graph.
type Scene struct {
	cameras   container.SlotMap[Camera]
	drawables container.SlotMap[Drawable]
}

// NewScene constructs an empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// AddCamera registers a camera and returns its handle.
func (s *Scene) AddCamera(c Camera) container.Handle {
	return s.cameras.Emplace(c)
}

// RemoveCamera removes a camera by handle. A no-op if the handle is stale or already removed.
func (s *Scene) RemoveCamera(h container.Handle) {
	s.cameras.Remove(h)
}

// GetCamera returns the camera for h, or nil if the handle is stale or unknown.
func (s *Scene) GetCamera(h container.Handle) *Camera {
	return s.cameras.Get(h)
}

// EachCamera visits every live camera in unspecified order, stopping early if fn returns false.
func (s *Scene) EachCamera(fn func(container.Handle, *Camera) bool) {
	s.cameras.Each(fn)
}

// AddDrawable registers a drawable and returns its handle.
func (s *Scene) AddDrawable(d Drawable) container.Handle {
	return s.drawables.Emplace(d)
}

// RemoveDrawable removes a drawable by handle. A no-op if the handle is stale or already removed.
func (s *Scene) RemoveDrawable(h container.Handle) {
	s.drawables.Remove(h)
}

// GetDrawable returns the drawable for h, or nil if the handle is stale or unknown.
func (s *Scene) GetDrawable(h container.Handle) *Drawable {
	return s.drawables.Get(h)
}

// EachDrawable visits every live drawable in unspecified order, stopping early if fn returns false.
func (s *Scene) EachDrawable(fn func(container.Handle, *Drawable) bool) {
	s.drawables.Each(fn)
}
