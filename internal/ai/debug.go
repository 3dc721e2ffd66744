package ai

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// debugFrames gates the per-frame debug logs of navigation, perception
// and the frame loop.
var debugFrames atomic.Bool

// EnableDebugLogging turns per-frame debug logs on or off.
func EnableDebugLogging(enabled bool) {
	debugFrames.Store(enabled)
}

// SyncDebugLogging turns per-frame debug logs on exactly when h accepts
// debug records.
func SyncDebugLogging(h slog.Handler) {
	debugFrames.Store(h.Enabled(context.Background(), slog.LevelDebug))
}

// IsDebugEnabled reports whether per-frame debug logs are on. Hot paths
// check it before building log attributes:
//
//	if ai.IsDebugEnabled() {
//		slog.Debug("path computed", "objectID", id, "points", len(points))
//	}
func IsDebugEnabled() bool {
	return debugFrames.Load()
}
