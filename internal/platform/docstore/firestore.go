package docstore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

type firestoreStore struct {
	log    *logger.Logger
	client *firestore.Client
}

// NewFirestore wraps an existing client. The store owns the client and closes it on Close.
func NewFirestore(log *logger.Logger, client *firestore.Client) Store {
	return &firestoreStore{log: log.With("component", "FirestoreStore"), client: client}
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%v: %w", err, ErrNotFound)
	}
	return err
}

func (s *firestoreStore) NewID(collection string) string {
	return s.client.Collection(collection).NewDoc().ID
}

func (s *firestoreStore) Close() error { return s.client.Close() }

func (s *firestoreStore) Get(ctx context.Context, collection, id string) (*Doc, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	return &Doc{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *firestoreStore) GetAll(ctx context.Context, collection string, ids []string) ([]*Doc, error) {
	if len(ids) == 0 {
		return []*Doc{}, nil
	}
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, s.client.Collection(collection).Doc(id))
	}
	snaps, err := s.client.GetAll(ctx, refs)
	if err != nil {
		return nil, mapErr(err)
	}
	out := make([]*Doc, 0, len(snaps))
	for _, snap := range snaps {
		if snap == nil || !snap.Exists() {
			continue
		}
		out = append(out, &Doc{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return out, nil
}

func (s *firestoreStore) Query(ctx context.Context, q Query) ([]*Doc, error) {
	fq := s.client.Collection(q.Collection).Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Path, string(f.Op), f.Value)
	}
	for _, o := range q.Orders {
		dir := firestore.Asc
		if o.Dir == Desc {
			dir = firestore.Desc
		}
		path := o.Path
		if path == DocumentID {
			path = firestore.DocumentID
		}
		fq = fq.OrderBy(path, dir)
	}
	if len(q.StartAfter) > 0 {
		fq = fq.StartAfter(q.StartAfter...)
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}

	it := fq.Documents(ctx)
	defer it.Stop()
	out := []*Doc{}
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, mapErr(err)
		}
		out = append(out, &Doc{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return out, nil
}

func (s *firestoreStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, toFirestoreFields(data))
	if err != nil {
		return "", mapErr(err)
	}
	return ref.ID, nil
}

func (s *firestoreStore) Set(ctx context.Context, collection, id string, data map[string]any, merge bool) error {
	ref := s.client.Collection(collection).Doc(id)
	var err error
	if merge {
		_, err = ref.Set(ctx, toFirestoreFields(data), firestore.MergeAll)
	} else {
		_, err = ref.Set(ctx, toFirestoreFields(data))
	}
	return mapErr(err)
}

func (s *firestoreStore) Update(ctx context.Context, collection, id string, updates []Update) error {
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, toFirestoreUpdates(updates))
	return mapErr(err)
}

func (s *firestoreStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)
	return mapErr(err)
}

type firestoreBatch struct {
	client *firestore.Client
	ops    []func(tx *firestore.Transaction) error
}

func (b *firestoreBatch) Set(collection, id string, data map[string]any, merge bool) {
	ref := b.client.Collection(collection).Doc(id)
	fields := toFirestoreFields(data)
	b.ops = append(b.ops, func(tx *firestore.Transaction) error {
		if merge {
			return tx.Set(ref, fields, firestore.MergeAll)
		}
		return tx.Set(ref, fields)
	})
}

func (b *firestoreBatch) Update(collection, id string, updates []Update) {
	ref := b.client.Collection(collection).Doc(id)
	fu := toFirestoreUpdates(updates)
	b.ops = append(b.ops, func(tx *firestore.Transaction) error {
		return tx.Update(ref, fu)
	})
}

func (b *firestoreBatch) Delete(collection, id string) {
	ref := b.client.Collection(collection).Doc(id)
	b.ops = append(b.ops, func(tx *firestore.Transaction) error {
		return tx.Delete(ref)
	})
}

// Batch commits the collected writes in a single write-only transaction.
func (s *firestoreStore) Batch(ctx context.Context, fn func(b Batch) error) error {
	b := &firestoreBatch{client: s.client}
	if err := fn(b); err != nil {
		return err
	}
	if len(b.ops) == 0 {
		return nil
	}
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, op := range b.ops {
			if err := op(tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Warn("batch write failed", "writes", len(b.ops), "error", err)
	}
	return mapErr(err)
}

func toFirestoreValue(v any) any {
	switch t := v.(type) {
	case arrayUnion:
		return firestore.ArrayUnion(t.elems...)
	case arrayRemove:
		return firestore.ArrayRemove(t.elems...)
	case deleteField:
		return firestore.Delete
	}
	return v
}

func toFirestoreFields(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = toFirestoreValue(v)
	}
	return out
}

func toFirestoreUpdates(updates []Update) []firestore.Update {
	out := make([]firestore.Update, 0, len(updates))
	for _, u := range updates {
		out = append(out, firestore.Update{Path: u.Path, Value: toFirestoreValue(u.Value)})
	}
	return out
}
