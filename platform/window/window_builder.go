package window

// WindowBuilderOption is a functional option for configuring a Window before it opens. Use the With*
// functions below to build a list of options to pass to New.
type WindowBuilderOption func(w *coreWindow)

// WithTitle sets the window title displayed in the title bar.
func WithTitle(title string) WindowBuilderOption {
	return func(w *coreWindow) { w.title = title }
}

// WithSize sets the initial framebuffer size in pixels.
func WithSize(width, height int) WindowBuilderOption {
	return func(w *coreWindow) { w.width, w.height = width, height }
}

// WithMinSize sets the lower bound a resize is clamped to (DefaultMinWidth/DefaultMinHeight if unset).
func WithMinSize(minWidth, minHeight int) WindowBuilderOption {
	return func(w *coreWindow) { w.minWidth, w.minHeight = minWidth, minHeight }
}

// WithMaxSize sets the upper bound a resize is clamped to; 0 leaves that dimension unbounded.
func WithMaxSize(maxWidth, maxHeight int) WindowBuilderOption {
	return func(w *coreWindow) { w.maxWidth, w.maxHeight = maxWidth, maxHeight }
}
