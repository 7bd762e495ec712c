package graphicsmanager

import (
	"runtime"
	"time"

	"github.com/aurora-render/forge/logging"
	"go.uber.org/zap"
)

// frameStats samples frame rate and heap statistics once per updateInterval and logs them through the
// structured logger, rather than the stdlib log package.
type frameStats struct {
	frameCount     int
	lastSample     time.Time
	updateInterval time.Duration
	lastGCCount    uint32
	lastTotalAlloc uint64
}

func newFrameStats() *frameStats {
	return &frameStats{lastSample: time.Time{}, updateInterval: time.Second}
}

// tick should be called once per Manager.Frame. It logs at most once per updateInterval, so it is cheap to
// call unconditionally.
func (f *frameStats) tick() {
	f.frameCount++
	if f.lastSample.IsZero() {
		f.lastSample = time.Now()
		return
	}

	now := time.Now()
	elapsed := now.Sub(f.lastSample)
	if elapsed < f.updateInterval {
		return
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	fps := float64(f.frameCount) / elapsed.Seconds()
	allocDelta := mem.TotalAlloc - f.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	var lastPauseUs uint64
	if mem.NumGC > 0 {
		lastPauseUs = mem.PauseNs[(mem.NumGC-1)%256] / 1000
	}

	logging.Named("graphicsmanager").Info("frame stats",
		zap.Float64("fps", fps),
		zap.Float64("heap_mb", float64(mem.Alloc)/1024/1024),
		zap.Float64("sys_mb", float64(mem.Sys)/1024/1024),
		zap.Float64("alloc_rate_mb_s", allocRateMB),
		zap.Uint32("gc_count", mem.NumGC-f.lastGCCount),
		zap.Uint64("last_gc_pause_us", lastPauseUs),
	)

	f.frameCount = 0
	f.lastSample = now
	f.lastGCCount = mem.NumGC
	f.lastTotalAlloc = mem.TotalAlloc
}
