// Package paginate loads an unbounded collection one fixed-size page at a
// time, resuming each query after the last key seen.
package paginate

import (
	"context"
	"sync"

	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

// Fetcher returns up to limit items ordered by key, starting strictly after
// the given key ("" for the first page).
type Fetcher[T any] func(ctx context.Context, after string, limit int) ([]T, error)

// KeyFunc returns the stable sort key of an item.
type KeyFunc[T any] func(T) string

type Paginator[T any] struct {
	fetch    Fetcher[T]
	key      KeyFunc[T]
	pageSize int
	name     string
	log      *logger.Logger

	mu      sync.Mutex
	items   []T
	cursor  string
	hasMore bool
	loading bool
	fetches int
}

// New returns a Paginator that has not loaded anything yet. HasMore starts true
// so the first sentinel trigger issues the initial load.
func New[T any](name string, fetch Fetcher[T], key KeyFunc[T], pageSize int, log *logger.Logger) *Paginator[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Paginator[T]{
		fetch:    fetch,
		key:      key,
		pageSize: pageSize,
		name:     name,
		log:      log.With("paginator", name),
		hasMore:  true,
	}
}

const DefaultPageSize = 5

// LoadNextPage issues at most one fetch. It returns false without fetching
// when a load is already in flight or a previous page signalled exhaustion,
// initial or not; call Reset first to start over.
// initial discards the accumulated items and the cursor before fetching.
func (p *Paginator[T]) LoadNextPage(ctx context.Context, initial bool) (bool, error) {
	p.mu.Lock()
	if p.loading || !p.hasMore {
		p.mu.Unlock()
		pageLoads.WithLabelValues(p.name, "skipped").Inc()
		return false, nil
	}
	p.loading = true
	after := p.cursor
	if initial {
		after = ""
	}
	p.fetches++
	p.mu.Unlock()

	page, err := p.fetch(ctx, after, p.pageSize)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	if err != nil {
		pageLoads.WithLabelValues(p.name, "error").Inc()
		p.log.Warn("page load failed", "after", after, "error", err)
		return true, err
	}
	if initial {
		p.items = append([]T(nil), page...)
	} else {
		p.items = append(p.items, page...)
	}
	if len(page) > 0 {
		p.cursor = p.key(page[len(page)-1])
	} else if initial {
		p.cursor = ""
	}
	p.hasMore = len(page) == p.pageSize
	pageLoads.WithLabelValues(p.name, "ok").Inc()
	pageItems.WithLabelValues(p.name).Add(float64(len(page)))
	return true, nil
}

// OnSentinelVisible is the viewport trigger: it loads the next page only when
// nothing is in flight and more data is believed available.
func (p *Paginator[T]) OnSentinelVisible(ctx context.Context) (bool, error) {
	p.mu.Lock()
	ready := !p.loading && p.hasMore
	first := p.fetches == 0
	p.mu.Unlock()
	if !ready {
		return false, nil
	}
	return p.LoadNextPage(ctx, first)
}

// Reset forgets everything so the next trigger starts from the beginning.
func (p *Paginator[T]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = nil
	p.cursor = ""
	p.hasMore = true
	p.fetches = 0
}

func (p *Paginator[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]T(nil), p.items...)
}

func (p *Paginator[T]) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

func (p *Paginator[T]) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

func (p *Paginator[T]) Cursor() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

func (p *Paginator[T]) PageSize() int { return p.pageSize }

// Page is one stateless page: what an HTTP client needs to continue.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

// FetchPage applies the paginator's rule to a single request, for callers that
// keep the cursor themselves.
func FetchPage[T any](ctx context.Context, fetch Fetcher[T], key KeyFunc[T], after string, limit int) (Page[T], error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	items, err := fetch(ctx, after, limit)
	if err != nil {
		return Page[T]{}, err
	}
	if items == nil {
		items = []T{}
	}
	out := Page[T]{Items: items, HasMore: len(items) == limit}
	if len(items) > 0 {
		out.NextCursor = key(items[len(items)-1])
	}
	return out, nil
}
