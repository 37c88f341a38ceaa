package chapter

import (
	"context"
	"sync/atomic"
)

// Token is a cooperative cancellation flag. The owner sets it to abort a
// running parse and resets it before starting the next one; the engine only
// reads it. A Token coordinates exactly one parse at a time.
type Token struct {
	canceled atomic.Bool
}

// Cancel requests that the running parse stop.
func (t *Token) Cancel() { t.canceled.Store(true) }

// Reset clears a previous cancellation.
func (t *Token) Reset() { t.canceled.Store(false) }

// Canceled reports whether cancellation was requested. A nil Token is
// never canceled.
func (t *Token) Canceled() bool {
	return t != nil && t.canceled.Load()
}

// Watch cancels t when ctx is done. The returned stop function releases
// the watcher without canceling.
func (t *Token) Watch(ctx context.Context) (stop func()) {
	if ctx.Err() != nil {
		t.Cancel()
		return func() {}
	}
	release := context.AfterFunc(ctx, t.Cancel)
	return func() { release() }
}
