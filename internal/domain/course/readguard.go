package course

import (
	"context"
	"sync"
)

// ReadGuard tracks the in-flight read of a user's progress cache so the
// mutation coordinator can cancel it before an optimistic write. This closes
// the race where a slow stale read lands after the fresher optimistic value.
type ReadGuard struct {
	mu     sync.Mutex
	token  uint64
	cancel context.CancelFunc
}

// Begin derives a cancellable context for a cache read and registers it as
// the active read, superseding any previous registration. The returned done
// function must be called when the read settles; it releases the context and
// clears the registration unless a newer read already superseded it.
func (g *ReadGuard) Begin(ctx context.Context) (context.Context, func()) {
	readCtx, cancel := context.WithCancel(ctx)

	g.mu.Lock()
	g.token++
	token := g.token
	g.cancel = cancel
	g.mu.Unlock()

	return readCtx, func() {
		cancel()
		g.mu.Lock()
		if g.token == token {
			g.cancel = nil
		}
		g.mu.Unlock()
	}
}

// CancelActive cancels the in-flight read, if any. Idempotent.
func (g *ReadGuard) CancelActive() {
	g.mu.Lock()
	cancel := g.cancel
	g.cancel = nil
	g.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}
