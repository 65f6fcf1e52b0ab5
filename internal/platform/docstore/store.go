// Package docstore is the document-database port used by the repositories.
// It mirrors the subset of Firestore the catalogue relies on: point reads and
// writes, filtered queries ordered by a stable key with startAfter cursors,
// atomic array union/remove transforms and batched writes.
package docstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("docstore: document not found")

// DocumentID orders or filters by the document's own id.
const DocumentID = "__name__"

type Op string

const (
	OpEqual         Op = "=="
	OpNotEqual      Op = "!="
	OpArrayContains Op = "array-contains"
	OpIn            Op = "in"
)

type Filter struct {
	Path  string
	Op    Op
	Value any
}

type Direction int

const (
	Asc Direction = iota
	Desc
)

type Order struct {
	Path string
	Dir  Direction
}

// Query selects documents from one collection. StartAfter holds one value per
// Order (a document id string when ordering by DocumentID).
type Query struct {
	Collection string
	Filters    []Filter
	Orders     []Order
	StartAfter []any
	Limit      int
}

func (q Query) Where(path string, op Op, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Path: path, Op: op, Value: value})
	return q
}

func (q Query) OrderBy(path string, dir Direction) Query {
	q.Orders = append(append([]Order(nil), q.Orders...), Order{Path: path, Dir: dir})
	return q
}

type Doc struct {
	ID   string
	Data map[string]any
}

// Update is a single top-level field write. Value may be ArrayUnion,
// ArrayRemove or Delete.
type Update struct {
	Path  string
	Value any
}

// Batch collects writes that are applied atomically when the Batch callback returns nil.
type Batch interface {
	Set(collection, id string, data map[string]any, merge bool)
	Update(collection, id string, updates []Update)
	Delete(collection, id string)
}

type Store interface {
	Get(ctx context.Context, collection, id string) (*Doc, error)
	// GetAll returns the existing documents among ids, in the order given. Missing ids are skipped.
	GetAll(ctx context.Context, collection string, ids []string) ([]*Doc, error)
	Query(ctx context.Context, q Query) ([]*Doc, error)
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	Set(ctx context.Context, collection, id string, data map[string]any, merge bool) error
	// Update fails with ErrNotFound when the document does not exist.
	Update(ctx context.Context, collection, id string, updates []Update) error
	Delete(ctx context.Context, collection, id string) error
	Batch(ctx context.Context, fn func(b Batch) error) error
	NewID(collection string) string
	Close() error
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
