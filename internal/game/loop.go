package game

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/areasim/internal/ai"
)

// maxFrameDelta caps dt after a stall so objects do not jump.
const maxFrameDelta = 250 * time.Millisecond

// Loop drives a Module at a fixed frame interval.
type Loop struct {
	module   *Module
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	frames   atomic.Int64
	onFrame  atomic.Pointer[func()]
}

// NewLoop creates a loop ticking module every interval.
func NewLoop(module *Module, interval time.Duration) *Loop {
	return &Loop{
		module:   module,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start runs frames until ctx is canceled or Stop is called (blocks).
func (l *Loop) Start(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	slog.Info("frame loop started", "interval", l.interval)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			slog.Info("frame loop stopping", "frames", l.frames.Load())
			return ctx.Err()

		case <-l.stopCh:
			slog.Info("frame loop stopped", "frames", l.frames.Load())
			return nil

		case now := <-ticker.C:
			dt := min(now.Sub(last), maxFrameDelta)
			last = now
			l.frame(dt)
		}
	}
}

func (l *Loop) frame(dt time.Duration) {
	l.module.Update(dt.Seconds())
	n := l.frames.Add(1)
	if fn := l.onFrame.Load(); fn != nil {
		(*fn)()
	}
	if ai.IsDebugEnabled() && n%600 == 0 {
		slog.Debug("frame loop", "frames", n)
	}
}

// SetOnFrame installs fn to run after every frame; nil removes it. Safe
// to call while the loop runs.
func (l *Loop) SetOnFrame(fn func()) {
	if fn == nil {
		l.onFrame.Store(nil)
		return
	}
	l.onFrame.Store(&fn)
}

// Stop ends Start. Safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// Frames returns the number of frames run so far.
func (l *Loop) Frames() int64 {
	return l.frames.Load()
}
