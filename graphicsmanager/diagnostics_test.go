package graphicsmanager

import "testing"

func TestFrameStatsTickDoesNotPanicOnFirstCall(t *testing.T) {
	f := newFrameStats()
	f.tick()
	if f.lastSample.IsZero() {
		t.Fatalf("expected first tick to record a sample time")
	}
	if f.frameCount != 1 {
		t.Fatalf("frameCount = %d, want 1 after first tick", f.frameCount)
	}
}

func TestFrameStatsTickResetsCountAfterInterval(t *testing.T) {
	f := newFrameStats()
	f.updateInterval = 0
	f.tick()
	f.tick()
	if f.frameCount != 0 {
		t.Fatalf("frameCount = %d, want 0 after an interval elapses and stats log", f.frameCount)
	}
}
