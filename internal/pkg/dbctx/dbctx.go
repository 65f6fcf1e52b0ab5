package dbctx

import (
	"context"

	"github.com/yungbote/framevault-backend/internal/platform/docstore"
)

// Context bundles a request context with an optional batch. Repository writes
// made with a non-nil Batch are staged there instead of applied immediately.
type Context struct {
	Ctx   context.Context
	Batch docstore.Batch
}

func New(ctx context.Context) Context { return Context{Ctx: ctx} }

func (c Context) WithBatch(b docstore.Batch) Context {
	c.Batch = b
	return c
}

func Set(dbc Context, store docstore.Store, collection, id string, data map[string]any, merge bool) error {
	if dbc.Batch != nil {
		dbc.Batch.Set(collection, id, data, merge)
		return nil
	}
	return store.Set(dbc.Ctx, collection, id, data, merge)
}

func Update(dbc Context, store docstore.Store, collection, id string, updates []docstore.Update) error {
	if dbc.Batch != nil {
		dbc.Batch.Update(collection, id, updates)
		return nil
	}
	return store.Update(dbc.Ctx, collection, id, updates)
}

func Delete(dbc Context, store docstore.Store, collection, id string) error {
	if dbc.Batch != nil {
		dbc.Batch.Delete(collection, id)
		return nil
	}
	return store.Delete(dbc.Ctx, collection, id)
}
