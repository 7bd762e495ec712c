// Command demo opens a window, stands up a device against its surface, and drives §4.12's per-frame loop
// until the window closes. It renders nothing on its own — no Renderer is registered on the demo camera — but
// exercises every piece of the frame machinery: acquire, descriptor cache reset, composition, and present.
package main

import (
	"os"
	"runtime"

	"github.com/aurora-render/forge/gpuscene"
	"github.com/aurora-render/forge/graphicsmanager"
	"github.com/aurora-render/forge/logging"
	"github.com/aurora-render/forge/platform/window"
	"github.com/aurora-render/forge/rhi"
	"github.com/aurora-render/forge/shadercompiler"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

func init() {
	runtime.LockOSThread()
}

const defaultFramesInFlight = 3

func main() {
	log := logging.Named("demo")

	win := window.New(
		window.WithTitle("forge demo"),
		window.WithSize(1280, 720),
		window.WithMinSize(320, 240),
	)
	defer win.Close()

	device, queue, surface, adapter := bootstrapDevice(win)
	defer device.Release()
	defer surface.Release()

	scene := gpuscene.NewScene()
	scene.AddCamera(gpuscene.Camera{Name: "main"})

	manager := graphicsmanager.NewManager(
		device, queue, surface, adapter,
		scene,
		defaultFramesInFlight,
		false,
		noopCompiler{},
		func(graphicsmanager.GraphicsPipelineDesc, bool) *rhi.RenderPipeline { return nil },
		nil,
	)
	manager.Resize(uint32(win.Width()), uint32(win.Height()))

	win.SetResizeCallback(func(width, height int) {
		manager.Resize(uint32(width), uint32(height))
	})

	win.SetUpdateCallback(func() {
		if err := manager.Frame(); err != nil {
			log.Error("frame failed", zap.Error(err))
			os.Exit(1)
		}
	})

	win.ProcessMessages()
}

// bootstrapDevice mirrors the instance -> surface -> adapter -> device sequence the renderer backend uses,
// requesting a device with the default WebGPU limits (no bind-group count override: the demo binds nothing).
func bootstrapDevice(win window.Window) (*rhi.Device, *rhi.Queue, *rhi.Surface, *rhi.Adapter) {
	instance := wgpu.CreateInstance(nil)
	surface := instance.CreateSurface(win.SurfaceDescriptor())

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
	})
	if err != nil {
		panic("demo: request adapter: " + err.Error())
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "forge demo device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic("demo: request device: " + err.Error())
	}

	return device, device.GetQueue(), surface, adapter
}

// noopCompiler satisfies shadercompiler.Compiler for a demo that never asks the pipeline cache to build
// anything (no drawables are registered, so CompileGraphicsPipeline is never called on this scene).
type noopCompiler struct{}

func (noopCompiler) Compile(sourcePath, entry string, stage shadercompiler.Stage, env *shadercompiler.Environment) (shadercompiler.Module, error) {
	return shadercompiler.Module{}, nil
}
