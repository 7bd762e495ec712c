package window

import "testing"

func TestClampToBoundsEnforcesMinimum(t *testing.T) {
	w := &coreWindow{minWidth: 100, minHeight: 50}
	width, height := w.clampToBounds(10, 5)
	if width != 100 || height != 50 {
		t.Fatalf("clampToBounds(10, 5) = (%d, %d), want (100, 50)", width, height)
	}
}

func TestClampToBoundsEnforcesMaximum(t *testing.T) {
	w := &coreWindow{maxWidth: 1920, maxHeight: 1080}
	width, height := w.clampToBounds(4000, 3000)
	if width != 1920 || height != 1080 {
		t.Fatalf("clampToBounds(4000, 3000) = (%d, %d), want (1920, 1080)", width, height)
	}
}

func TestClampToBoundsZeroMaxIsUnbounded(t *testing.T) {
	w := &coreWindow{minWidth: 1, minHeight: 1}
	width, height := w.clampToBounds(7680, 4320)
	if width != 7680 || height != 4320 {
		t.Fatalf("clampToBounds with no max bound should pass through, got (%d, %d)", width, height)
	}
}

func TestClampToBoundsPassesThroughWithinRange(t *testing.T) {
	w := &coreWindow{minWidth: 100, minHeight: 100, maxWidth: 2000, maxHeight: 2000}
	width, height := w.clampToBounds(800, 600)
	if width != 800 || height != 600 {
		t.Fatalf("clampToBounds(800, 600) = (%d, %d), want (800, 600)", width, height)
	}
}

func TestBuilderOptionsApplyToCoreWindow(t *testing.T) {
	w := &coreWindow{}
	opts := []WindowBuilderOption{
		WithTitle("demo"),
		WithSize(1280, 720),
		WithMinSize(320, 240),
		WithMaxSize(3840, 2160),
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.title != "demo" {
		t.Errorf("title = %q, want %q", w.title, "demo")
	}
	if w.width != 1280 || w.height != 720 {
		t.Errorf("size = (%d, %d), want (1280, 720)", w.width, w.height)
	}
	if w.minWidth != 320 || w.minHeight != 240 {
		t.Errorf("min size = (%d, %d), want (320, 240)", w.minWidth, w.minHeight)
	}
	if w.maxWidth != 3840 || w.maxHeight != 2160 {
		t.Errorf("max size = (%d, %d), want (3840, 2160)", w.maxWidth, w.maxHeight)
	}
}

func TestResizeCallbackReceivesClampedDimensions(t *testing.T) {
	w := &coreWindow{minWidth: 100, minHeight: 100}
	var gotW, gotH int
	w.SetResizeCallback(func(width, height int) { gotW, gotH = width, height })

	clampedW, clampedH := w.clampToBounds(10, 10)
	w.onResize(clampedW, clampedH)

	if gotW != 100 || gotH != 100 {
		t.Fatalf("resize callback got (%d, %d), want clamped (100, 100)", gotW, gotH)
	}
}
