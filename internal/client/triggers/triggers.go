// Package triggers tracks connectivity state and fans out the events the
// refresh and sync layers react to: transition to online, and login. The
// core stays invokable on demand; this registry is the only event plumbing.
package triggers

import (
	"context"
	"sync"
	"time"
)

// Triggers is a small callback registry plus the online/offline flag.
type Triggers struct {
	mu       sync.Mutex
	online   bool
	onOnline []func()
	onAuth   []func()
}

func New() *Triggers {
	return &Triggers{}
}

// IsOnline reports the last observed connectivity state. Implements
// cache.ConnectivityChecker.
func (t *Triggers) IsOnline() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.online
}

// SetOnline records a connectivity observation. An offline-to-online
// transition fires the registered handlers, outside the lock.
func (t *Triggers) SetOnline(online bool) {
	t.mu.Lock()
	restored := online && !t.online
	t.online = online
	var handlers []func()
	if restored {
		handlers = append(handlers, t.onOnline...)
	}
	t.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

// OnConnectivityRestored registers fn to run on each offline-to-online
// transition.
func (t *Triggers) OnConnectivityRestored(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOnline = append(t.onOnline, fn)
}

// OnAuthenticated registers fn to run after each successful login.
func (t *Triggers) OnAuthenticated(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onAuth = append(t.onAuth, fn)
}

// NotifyAuthenticated fires the login handlers.
func (t *Triggers) NotifyAuthenticated() {
	t.mu.Lock()
	handlers := append([]func(){}, t.onAuth...)
	t.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

// StartOnlineWatcher probes reachability with ping on the given interval and
// feeds the result into SetOnline. Blocks until ctx is done; run with go.
func (t *Triggers) StartOnlineWatcher(ctx context.Context, interval time.Duration, ping func(ctx context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := ping(probeCtx)
			cancel()
			t.SetOnline(err == nil)

		case <-ctx.Done():
			return
		}
	}
}
