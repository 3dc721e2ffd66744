package ai

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnableDebugLogging(t *testing.T) {
	t.Cleanup(func() { EnableDebugLogging(false) })

	for _, enabled := range []bool{true, false, true} {
		EnableDebugLogging(enabled)
		assert.Equal(t, enabled, IsDebugEnabled())
	}
}

func TestSyncDebugLogging(t *testing.T) {
	t.Cleanup(func() { EnableDebugLogging(false) })

	tests := []struct {
		level slog.Level
		want  bool
	}{
		{slog.LevelDebug, true},
		{slog.LevelInfo, false},
		{slog.LevelError, false},
	}
	for _, tt := range tests {
		SyncDebugLogging(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: tt.level}))
		assert.Equal(t, tt.want, IsDebugEnabled(), "level %s", tt.level)
	}
}

func TestIsDebugEnabled_Concurrent(t *testing.T) {
	t.Cleanup(func() { EnableDebugLogging(false) })

	// The viewer goroutine reads the flag while the frame loop runs.
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				if i == 0 {
					EnableDebugLogging(true)
				}
				_ = IsDebugEnabled()
			}
		}()
	}
	wg.Wait()
	assert.True(t, IsDebugEnabled())
}
