package reconcile

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// command describes one optimistic operation. The apply, confirm,
// rollback, and finally closures run with the state lock held; run is
// called without it. Any closure except run may be nil.
type command struct {
	name string          // used in logs and wrapped errors
	ids  []int64         // marked pending for the duration of run
	kind types.ErrorKind // shown when run fails

	apply    func()
	run      func(ctx context.Context) error
	confirm  func()
	rollback func()
	finally  func()
}

// optimistic executes c: apply, mark pending, await run, then confirm or
// roll back, and always clear the pending marks and run finally.
func (r *Reconciler) optimistic(ctx context.Context, c command) error {
	r.mu.Lock()
	if c.apply != nil {
		c.apply()
	}
	r.markPendingLocked(c.ids)
	r.mu.Unlock()
	r.notify()

	err := c.run(ctx)

	r.mu.Lock()
	if err == nil {
		if c.confirm != nil {
			c.confirm()
		}
	} else if c.rollback != nil {
		c.rollback()
	}
	r.clearPendingLocked(c.ids)
	if c.finally != nil {
		c.finally()
	}
	r.mu.Unlock()

	if err != nil {
		r.logger.Warn(c.name+" failed", "ids", c.ids, "error", err)
		r.notice.Set(c.kind)
		r.notify()
		return fmt.Errorf("%s: %w", c.name, err)
	}

	r.logger.Debug(c.name+" confirmed", "ids", c.ids)
	r.notify()
	return nil
}
