// Package accel builds bottom- and top-level ray tracing acceleration structures from a scene's drawables
// (§4.11). No concrete wgpu backend ships here: github.com/cogentcore/webgpu, the library the rest of this
// module is built against, has no ray-tracing extension surface, so every GPU operation is expressed
// through the injected Device interface rather than called directly.
package accel

import "github.com/aurora-render/forge/rhi"

// InstanceFlag is a bitflag carried on a TLAS instance, derived from the owning drawable's material blend
// mode (§4.11).
type InstanceFlag uint32

const (
	InstanceFlagNone InstanceFlag = 0
	InstanceFlagForceOpaque InstanceFlag = 1 << iota
	InstanceFlagForceNonOpaque
)

// InstanceDesc is one TLAS instance entry. InstanceID and SBTOffset are both the drawable's handle, Mask is
// always 0xff, and Transform is the drawable's column-major 4x4 transform written out transposed into
// row-major 3x4 form (§4.11).
type InstanceDesc struct {
	InstanceID    uint32
	Mask          uint8
	SBTOffset     uint32
	Flags         InstanceFlag
	BLASReference uint64
	Transform     [3][4]float32
}

// SizeInfo is a device's answer to how large a build's scratch and result buffers must be.
type SizeInfo struct {
	BuildScratchSize          uint64
	UpdateScratchSize         uint64
	AccelerationStructureSize uint64
}

// GeometryBuildInput describes one BLAS build or update. The geometry description itself is backend
// specific and carried opaquely; only IsUpdate drives this package's own control flow.
type GeometryBuildInput struct {
	IsUpdate bool
	Geometry any
}

// InstanceBuildInput describes a TLAS build over an instance buffer.
type InstanceBuildInput struct {
	IsUpdate     bool
	NumInstances uint32
	Instances    *rhi.Buffer
}

// BLAS is one drawable's bottom-level acceleration structure: its opaque GPU handle, backing buffer (and
// that buffer's size, tracked here since rhi.Buffer exposes no size accessor of its own), and the GPU
// reference value TLAS instances point at.
type BLAS struct {
	Handle       any
	Buffer       *rhi.Buffer
	Size         uint64
	GPUReference uint64
}

// TLAS is the scene-wide top-level acceleration structure built by BuildTLAS.
type TLAS struct {
	Handle any
	Buffer *rhi.Buffer
}
