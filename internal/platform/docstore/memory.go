package docstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Store with Firestore query semantics: inequality,
// ordering and cursor filters skip documents that lack the field.
type Memory struct {
	mu    sync.RWMutex
	colls map[string]map[string]map[string]any
}

func NewMemory() *Memory {
	return &Memory{colls: map[string]map[string]map[string]any{}}
}

func (m *Memory) NewID(string) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
}

func (m *Memory) Close() error { return nil }

func (m *Memory) Get(ctx context.Context, collection, id string) (*Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.colls[collection][id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return &Doc{ID: id, Data: copyData(data)}, nil
}

func (m *Memory) GetAll(ctx context.Context, collection string, ids []string) ([]*Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Doc, 0, len(ids))
	for _, id := range ids {
		if data, ok := m.colls[collection][id]; ok {
			out = append(out, &Doc{ID: id, Data: copyData(data)})
		}
	}
	return out, nil
}

func (m *Memory) Query(ctx context.Context, q Query) ([]*Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(q.StartAfter) > len(q.Orders) && !(len(q.Orders) == 0 && len(q.StartAfter) == 1) {
		return nil, fmt.Errorf("docstore: too many cursor values for %d orders", len(q.Orders))
	}
	orders := q.Orders
	if len(orders) == 0 {
		orders = []Order{{Path: DocumentID}}
	}

	m.mu.RLock()
	docs := make([]*Doc, 0, len(m.colls[q.Collection]))
	for id, data := range m.colls[q.Collection] {
		if !matchesAll(id, data, q.Filters) || !hasOrderFields(data, orders) {
			continue
		}
		docs = append(docs, &Doc{ID: id, Data: copyData(data)})
	}
	m.mu.RUnlock()

	sort.SliceStable(docs, func(i, j int) bool {
		return compareByOrders(docs[i], docs[j], orders) < 0
	})

	if len(q.StartAfter) > 0 {
		cut := 0
		for cut < len(docs) && compareToCursor(docs[cut], orders, q.StartAfter) <= 0 {
			cut++
		}
		docs = docs[cut:]
	}
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

func (m *Memory) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := m.NewID(collection)
	if err := m.Set(ctx, collection, id, data, false); err != nil {
		return "", err
	}
	return id, nil
}

func (m *Memory) Set(ctx context.Context, collection, id string, data map[string]any, merge bool) error {
	return m.Batch(ctx, func(b Batch) error {
		b.Set(collection, id, data, merge)
		return nil
	})
}

func (m *Memory) Update(ctx context.Context, collection, id string, updates []Update) error {
	return m.Batch(ctx, func(b Batch) error {
		b.Update(collection, id, updates)
		return nil
	})
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	return m.Batch(ctx, func(b Batch) error {
		b.Delete(collection, id)
		return nil
	})
}

type memOpKind int

const (
	memSet memOpKind = iota
	memMerge
	memUpdate
	memDelete
)

type memOp struct {
	kind       memOpKind
	collection string
	id         string
	data       map[string]any
	updates    []Update
}

type memBatch struct{ ops []memOp }

func (b *memBatch) Set(collection, id string, data map[string]any, merge bool) {
	kind := memSet
	if merge {
		kind = memMerge
	}
	b.ops = append(b.ops, memOp{kind: kind, collection: collection, id: id, data: data})
}

func (b *memBatch) Update(collection, id string, updates []Update) {
	b.ops = append(b.ops, memOp{kind: memUpdate, collection: collection, id: id, updates: updates})
}

func (b *memBatch) Delete(collection, id string) {
	b.ops = append(b.ops, memOp{kind: memDelete, collection: collection, id: id})
}

// Batch applies every write or none: an Update against a missing document
// aborts the whole batch with ErrNotFound.
func (m *Memory) Batch(ctx context.Context, fn func(b Batch) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b := &memBatch{}
	if err := fn(b); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	staged := map[string]map[string]map[string]any{}
	deleted := map[string]map[string]bool{}
	lookup := func(coll, id string) (map[string]any, bool) {
		if deleted[coll][id] {
			return nil, false
		}
		if d, ok := staged[coll][id]; ok {
			return d, true
		}
		d, ok := m.colls[coll][id]
		return d, ok
	}
	stage := func(coll, id string, data map[string]any) {
		if staged[coll] == nil {
			staged[coll] = map[string]map[string]any{}
		}
		staged[coll][id] = data
		if deleted[coll] != nil {
			delete(deleted[coll], id)
		}
	}

	for _, op := range b.ops {
		if strings.TrimSpace(op.id) == "" || strings.Contains(op.id, "/") {
			return fmt.Errorf("docstore: invalid document id %q", op.id)
		}
		switch op.kind {
		case memSet:
			stage(op.collection, op.id, applyFields(map[string]any{}, op.data))
		case memMerge:
			cur, _ := lookup(op.collection, op.id)
			stage(op.collection, op.id, applyFields(copyData(cur), op.data))
		case memUpdate:
			cur, ok := lookup(op.collection, op.id)
			if !ok {
				return fmt.Errorf("%s/%s: %w", op.collection, op.id, ErrNotFound)
			}
			next := copyData(cur)
			for _, u := range op.updates {
				applyField(next, u.Path, u.Value)
			}
			stage(op.collection, op.id, next)
		case memDelete:
			if deleted[op.collection] == nil {
				deleted[op.collection] = map[string]bool{}
			}
			deleted[op.collection][op.id] = true
			if staged[op.collection] != nil {
				delete(staged[op.collection], op.id)
			}
		}
	}

	for coll, docs := range staged {
		if m.colls[coll] == nil {
			m.colls[coll] = map[string]map[string]any{}
		}
		for id, data := range docs {
			m.colls[coll][id] = data
		}
	}
	for coll, ids := range deleted {
		for id := range ids {
			delete(m.colls[coll], id)
		}
	}
	return nil
}

func applyFields(dst map[string]any, src map[string]any) map[string]any {
	for k, v := range src {
		applyField(dst, k, v)
	}
	return dst
}

func applyField(dst map[string]any, path string, value any) {
	switch t := value.(type) {
	case arrayUnion:
		dst[path] = applyUnion(dst[path], t.elems)
	case arrayRemove:
		dst[path] = applyRemove(dst[path], t.elems)
	case deleteField:
		delete(dst, path)
	default:
		dst[path] = normalize(value)
	}
}

func fieldValue(id string, data map[string]any, path string) (any, bool) {
	if path == DocumentID {
		return id, true
	}
	v, ok := data[path]
	return v, ok
}

func matchesAll(id string, data map[string]any, filters []Filter) bool {
	for _, f := range filters {
		v, ok := fieldValue(id, data, f.Path)
		switch f.Op {
		case OpEqual:
			if !ok || !equalValues(v, f.Value) {
				return false
			}
		case OpNotEqual:
			if !ok || v == nil || equalValues(v, f.Value) {
				return false
			}
		case OpArrayContains:
			arr, isArr := v.([]any)
			if !ok || !isArr || !containsValue(arr, f.Value) {
				return false
			}
		case OpIn:
			if !ok || !containsValue(toSlice(f.Value), v) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func hasOrderFields(data map[string]any, orders []Order) bool {
	for _, o := range orders {
		if o.Path == DocumentID {
			continue
		}
		if _, ok := data[o.Path]; !ok {
			return false
		}
	}
	return true
}

func compareByOrders(a, b *Doc, orders []Order) int {
	for _, o := range orders {
		va, _ := fieldValue(a.ID, a.Data, o.Path)
		vb, _ := fieldValue(b.ID, b.Data, o.Path)
		c := compareValues(va, vb)
		if o.Dir == Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return strings.Compare(a.ID, b.ID)
}

func compareToCursor(d *Doc, orders []Order, cursor []any) int {
	for i, val := range cursor {
		v, _ := fieldValue(d.ID, d.Data, orders[i].Path)
		c := compareValues(v, val)
		if orders[i].Dir == Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}
