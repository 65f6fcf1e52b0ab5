package speculative

import (
	"context"
	"errors"
	"testing"
)

func TestRunCommitsOnSuccess(t *testing.T) {
	val := "A"
	state, err := Run(context.Background(),
		func() { val = "B" },
		func(context.Context) error { return nil },
		func(context.Context) { val = "A" },
	)
	if err != nil || state != Committed {
		t.Fatalf("Run: state=%s err=%v", state, err)
	}
	if val != "B" {
		t.Fatalf("value: want=%q got=%q", "B", val)
	}
}

func TestRunRevertsOnFailure(t *testing.T) {
	val := "A"
	var seen string
	boom := errors.New("write failed")
	state, err := Run(context.Background(),
		func() { val = "B" },
		func(context.Context) error {
			seen = val
			return boom
		},
		func(context.Context) { val = "A" },
	)
	if !errors.Is(err, boom) || state != Reverted {
		t.Fatalf("Run: state=%s err=%v", state, err)
	}
	if seen != "B" {
		t.Fatalf("persist should observe applied value: got %q", seen)
	}
	if val != "A" {
		t.Fatalf("value after revert: want=%q got=%q", "A", val)
	}
}

func TestOpSettlesOnce(t *testing.T) {
	reverts := 0
	op := Apply(nil, func(context.Context) { reverts++ })
	if op.State() != Pending {
		t.Fatalf("initial state: want=pending got=%s", op.State())
	}
	if !op.Commit() {
		t.Fatalf("first Commit should take effect")
	}
	if op.Revert(context.Background()) || reverts != 0 {
		t.Fatalf("Revert after Commit must be ignored (reverts=%d)", reverts)
	}

	op2 := Apply(nil, func(context.Context) { reverts++ })
	op2.Revert(context.Background())
	op2.Revert(context.Background())
	if reverts != 1 || op2.Commit() {
		t.Fatalf("revert should run once and block commit: reverts=%d state=%s", reverts, op2.State())
	}
}
