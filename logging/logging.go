// Package logging provides the named logger channels referenced throughout the core (§7): every reportable
// error - graph structural errors, asset-load failures, binary-cache corruption - is written to a channel
// named after the subsystem that raised it, never thrown across a subsystem boundary as an exception.
package logging

import "go.uber.org/zap"

var base *zap.Logger = mustNewProduction()

func mustNewProduction() *zap.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		// Fall back to a no-op logger rather than panicking during package init; callers that care can
		// still replace the base logger via SetBase.
		return zap.NewNop()
	}
	return l
}

// SetBase replaces the logger that Named channels are derived from. Intended for tests and for engine
// init to install a development or custom-sink logger before any subsystem is constructed.
func SetBase(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	base = l
}

// Named returns a logger scoped to the given subsystem channel, e.g. Named("rendergraph"),
// Named("assets"), Named("shadercompiler").
func Named(channel string) *zap.Logger {
	return base.Named(channel)
}
