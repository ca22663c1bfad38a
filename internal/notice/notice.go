// Package notice holds the transient error notification shown to the
// user. A notice clears itself a fixed time after it was set unless a
// newer notice replaced it first.
package notice

import (
	"sync"
	"time"

	"github.com/mesh-intelligence/todos/internal/clock"
	"github.com/mesh-intelligence/todos/pkg/types"
)

// DefaultTTL is how long a notice stays visible.
const DefaultTTL = 3 * time.Second

// Notice is the single current error. The zero value is not usable; call
// New.
type Notice struct {
	mu         sync.Mutex
	clock      clock.Clock
	ttl        time.Duration
	kind       types.ErrorKind
	generation uint64
	timer      *clock.Timer
	onChange   func()
}

// Option configures a Notice.
type Option func(*Notice)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(n *Notice) { n.ttl = ttl }
}

// WithOnChange registers a callback run after every change, including
// auto-expiry. It is called without the Notice lock held.
func WithOnChange(f func()) Option {
	return func(n *Notice) { n.onChange = f }
}

// New returns an empty Notice timed by c. A nil clock means clock.Real().
func New(c clock.Clock, opts ...Option) *Notice {
	if c == nil {
		c = clock.Real()
	}
	n := &Notice{clock: c, ttl: DefaultTTL}
	for _, opt := range opts {
		opt(n)
	}
	if n.ttl <= 0 {
		n.ttl = DefaultTTL
	}
	return n
}

// Set replaces the current notice and restarts the expiry countdown.
// Setting types.ErrorNone is the same as Clear.
func (n *Notice) Set(kind types.ErrorKind) {
	if kind == types.ErrorNone {
		n.Clear()
		return
	}

	n.mu.Lock()
	n.kind = kind
	n.generation++
	armed := n.generation
	n.timer.Stop()
	n.timer = n.clock.AfterFunc(n.ttl, func() { n.expire(armed) })
	n.mu.Unlock()

	n.changed()
}

// Clear dismisses the current notice and cancels its countdown.
func (n *Notice) Clear() {
	n.mu.Lock()
	wasSet := n.kind != types.ErrorNone
	n.kind = types.ErrorNone
	n.generation++
	n.timer.Stop()
	n.timer = nil
	n.mu.Unlock()

	if wasSet {
		n.changed()
	}
}

// Kind returns the current error kind, or types.ErrorNone.
func (n *Notice) Kind() types.ErrorKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.kind
}

// Text returns the message to display; empty means nothing to show.
func (n *Notice) Text() string {
	return n.Kind().Message()
}

// expire clears the notice if nothing replaced it since the timer for
// generation armed was started.
func (n *Notice) expire(armed uint64) {
	n.mu.Lock()
	if n.generation != armed {
		n.mu.Unlock()
		return
	}
	n.kind = types.ErrorNone
	n.timer = nil
	n.mu.Unlock()

	n.changed()
}

func (n *Notice) changed() {
	if n.onChange != nil {
		n.onChange()
	}
}
