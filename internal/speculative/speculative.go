// Package speculative runs a local change ahead of the remote write that
// confirms it, and undoes the change when that write fails.
package speculative

import (
	"context"
	"sync"
)

type State int

const (
	Pending State = iota
	Committed
	Reverted
)

func (s State) String() string {
	switch s {
	case Committed:
		return "committed"
	case Reverted:
		return "reverted"
	default:
		return "pending"
	}
}

// Op is an applied local change that has not been confirmed yet. Exactly one
// of Commit or Revert takes effect; later calls are ignored.
type Op struct {
	mu     sync.Mutex
	state  State
	revert func(ctx context.Context)
}

// Apply runs apply immediately and returns the pending Op.
func Apply(apply func(), revert func(ctx context.Context)) *Op {
	if apply != nil {
		apply()
	}
	return &Op{revert: revert}
}

func (o *Op) Commit() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != Pending {
		return false
	}
	o.state = Committed
	return true
}

func (o *Op) Revert(ctx context.Context) bool {
	o.mu.Lock()
	if o.state != Pending {
		o.mu.Unlock()
		return false
	}
	o.state = Reverted
	o.mu.Unlock()
	if o.revert != nil {
		o.revert(ctx)
	}
	return true
}

func (o *Op) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Run applies the change, persists it, and commits or reverts depending on
// the persist error, which is returned unchanged.
func Run(ctx context.Context, apply func(), persist func(ctx context.Context) error, revert func(ctx context.Context)) (State, error) {
	op := Apply(apply, revert)
	if err := persist(ctx); err != nil {
		op.Revert(ctx)
		return Reverted, err
	}
	op.Commit()
	return Committed, nil
}
