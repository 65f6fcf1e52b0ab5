package taxonomy

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/yungbote/framevault-backend/internal/platform/logger"
	"github.com/yungbote/framevault-backend/internal/speculative"
)

// Source is the authoritative store behind a Board.
type Source interface {
	Load(ctx context.Context) ([]Label, error)
	// Persist records that label now belongs to bucket.
	Persist(ctx context.Context, label Label, bucket string) error
	Delete(ctx context.Context, label Label) error
}

type MoveOutcome string

const (
	MoveApplied  MoveOutcome = "applied"
	MoveReverted MoveOutcome = "reverted"
	MoveNoop     MoveOutcome = "noop"
)

type MoveResult struct {
	Outcome   MoveOutcome `json:"outcome"`
	From      string      `json:"from,omitempty"`
	To        string      `json:"to,omitempty"`
	Partition Partition   `json:"partition"`
}

// Board is the organizer state for one label family: the current partition
// and each caller's working selection.
type Board struct {
	name  string
	rules Rules
	src   Source
	log   *logger.Logger

	mu         sync.Mutex
	partition  Partition
	selections map[string]map[string]bool
}

func NewBoard(name string, rules Rules, src Source, log *logger.Logger) *Board {
	if log == nil {
		log = logger.Nop()
	}
	return &Board{
		name:       name,
		rules:      rules,
		src:        src,
		log:        log.With("board", name),
		partition:  Classify(rules, nil),
		selections: map[string]map[string]bool{},
	}
}

func (b *Board) Rules() Rules { return b.rules }

// Reload re-derives the partition from the source.
func (b *Board) Reload(ctx context.Context) (Partition, error) {
	labels, err := b.src.Load(ctx)
	if err != nil {
		return b.Partition(), fmt.Errorf("load %s labels: %w", b.name, err)
	}
	p := Classify(b.rules, labels)
	b.mu.Lock()
	b.partition = p
	b.mu.Unlock()
	return p.clone(), nil
}

func (b *Board) Partition() Partition {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.partition.clone()
}

// Move places label id into bucket to, optimistically, then persists it.
// Moving to the current bucket, to an unknown bucket, or moving an unknown
// label does nothing. A failed write discards the move and reloads.
func (b *Board) Move(ctx context.Context, id, to string) (MoveResult, error) {
	b.mu.Lock()
	from := b.partition.BucketOf(id)
	label, known := b.partition.Label(id)
	if !known || from == "" || from == to || !b.rules.HasBucket(to) {
		p := b.partition.clone()
		b.mu.Unlock()
		taxonomyMoves.WithLabelValues(b.name, string(MoveNoop)).Inc()
		return MoveResult{Outcome: MoveNoop, From: from, To: to, Partition: p}, nil
	}
	snapshot := b.partition.clone()
	b.mu.Unlock()

	state, err := speculative.Run(ctx,
		func() {
			b.mu.Lock()
			b.partition = moveLabel(b.partition, id, to)
			b.mu.Unlock()
		},
		func(ctx context.Context) error {
			return b.src.Persist(ctx, label, to)
		},
		func(ctx context.Context) {
			if _, rerr := b.Reload(ctx); rerr != nil {
				b.log.Warn("reload after failed move failed; restoring snapshot", "label", id, "error", rerr)
				b.mu.Lock()
				b.partition = snapshot
				b.mu.Unlock()
			}
		},
	)
	res := MoveResult{From: from, To: to, Partition: b.Partition()}
	if state == speculative.Reverted {
		b.log.Warn("move failed; reverted", "label", id, "from", from, "to", to, "error", err)
		taxonomyMoves.WithLabelValues(b.name, string(MoveReverted)).Inc()
		res.Outcome = MoveReverted
		return res, err
	}
	taxonomyMoves.WithLabelValues(b.name, string(MoveApplied)).Inc()
	res.Outcome = MoveApplied
	return res, nil
}

// Delete removes the label's backing document, then drops it from the
// partition and from every selection.
func (b *Board) Delete(ctx context.Context, id string) error {
	b.mu.Lock()
	label, ok := b.partition.Label(id)
	b.mu.Unlock()
	if !ok {
		label = Label{ID: id, Name: id}
	}
	if err := b.src.Delete(ctx, label); err != nil {
		return fmt.Errorf("delete %s label %q: %w", b.name, id, err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.partition = removeLabel(b.partition, id)
	for _, sel := range b.selections {
		delete(sel, id)
	}
	return nil
}

// Toggle flips id in the caller's working selection and returns it sorted.
func (b *Board) Toggle(owner, id string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	sel := b.selections[owner]
	if sel == nil {
		sel = map[string]bool{}
		b.selections[owner] = sel
	}
	if sel[id] {
		delete(sel, id)
	} else {
		sel[id] = true
	}
	return sortedKeys(sel)
}

func (b *Board) Selection(owner string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return sortedKeys(b.selections[owner])
}

func (b *Board) ClearSelection(owner string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.selections, owner)
}

func moveLabel(p Partition, id, to string) Partition {
	out := p.clone()
	var moved Label
	found := false
	for i := range out {
		for j, l := range out[i].Labels {
			if l.ID == id {
				moved = l
				found = true
				out[i].Labels = append(out[i].Labels[:j], out[i].Labels[j+1:]...)
				break
			}
		}
		if found {
			break
		}
	}
	if !found {
		return out
	}
	for i := range out {
		if out[i].Name == to {
			moved.Group = to
			out[i].Labels = append(out[i].Labels, moved)
		}
	}
	return out
}

func removeLabel(p Partition, id string) Partition {
	out := p.clone()
	for i := range out {
		kept := out[i].Labels[:0]
		for _, l := range out[i].Labels {
			if l.ID != id {
				kept = append(kept, l)
			}
		}
		out[i].Labels = kept
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
