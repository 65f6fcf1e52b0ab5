package docstore

import (
	"context"
	"errors"
	"testing"
)

func seed(t *testing.T, m *Memory, coll string, docs map[string]map[string]any) {
	t.Helper()
	for id, data := range docs {
		if err := m.Set(context.Background(), coll, id, data, false); err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}
}

func ids(docs []*Doc) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}

func TestMemoryQueryFiltersOrderAndCursor(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	seed(t, m, "videos", map[string]map[string]any{
		"a": {"isShort": false, "tags": []string{"fight"}},
		"b": {"isShort": true, "tags": []string{"fight"}},
		"c": {"isShort": false, "tags": []string{"walk"}},
		"d": {"tags": []string{"fight"}},
		"e": {"isShort": false, "tags": []string{"fight", "fx"}},
	})

	q := Query{Collection: "videos"}.Where("isShort", OpEqual, false).OrderBy(DocumentID, Asc)
	got, err := m.Query(ctx, q)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if want := []string{"a", "c", "e"}; !equalIDs(ids(got), want) {
		t.Fatalf("equal filter: want=%v got=%v", want, ids(got))
	}

	notShort, _ := m.Query(ctx, Query{Collection: "videos"}.Where("isShort", OpNotEqual, true))
	if want := []string{"a", "c", "e"}; !equalIDs(ids(notShort), want) {
		t.Fatalf("!= skips missing field: want=%v got=%v", want, ids(notShort))
	}

	q.StartAfter = []any{"a"}
	q.Limit = 1
	page, _ := m.Query(ctx, q)
	if want := []string{"c"}; !equalIDs(ids(page), want) {
		t.Fatalf("cursor: want=%v got=%v", want, ids(page))
	}

	fight, _ := m.Query(ctx, Query{Collection: "videos"}.Where("tags", OpArrayContains, "fight"))
	if want := []string{"a", "b", "d", "e"}; !equalIDs(ids(fight), want) {
		t.Fatalf("array-contains: want=%v got=%v", want, ids(fight))
	}
}

func TestMemoryOrderByFieldSkipsMissing(t *testing.T) {
	m := NewMemory()
	seed(t, m, "categories", map[string]map[string]any{
		"x": {"sortIndex": 2},
		"y": {"sortIndex": 0},
		"z": {"title": "no index"},
	})
	got, _ := m.Query(context.Background(), Query{Collection: "categories"}.OrderBy("sortIndex", Asc))
	if want := []string{"y", "x"}; !equalIDs(ids(got), want) {
		t.Fatalf("want=%v got=%v", want, ids(got))
	}
}

func TestMemoryArrayTransformsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	seed(t, m, "users", map[string]map[string]any{"u1": {"likedVideoIds": []string{"v1"}}})

	for i := 0; i < 2; i++ {
		if err := m.Update(ctx, "users", "u1", []Update{{Path: "likedVideoIds", Value: ArrayUnion("v2")}}); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	doc, _ := m.Get(ctx, "users", "u1")
	if got := doc.Strings("likedVideoIds"); !equalIDs(got, []string{"v1", "v2"}) {
		t.Fatalf("union: got=%v", got)
	}

	_ = m.Update(ctx, "users", "u1", []Update{{Path: "likedVideoIds", Value: ArrayRemove("v1")}})
	doc, _ = m.Get(ctx, "users", "u1")
	if got := doc.Strings("likedVideoIds"); !equalIDs(got, []string{"v2"}) {
		t.Fatalf("remove: got=%v", got)
	}
}

func TestMemoryUpdateMissingIsNotFound(t *testing.T) {
	err := NewMemory().Update(context.Background(), "users", "ghost", []Update{{Path: "role", Value: "admin"}})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound got=%v", err)
	}
}

func TestMemoryBatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	err := m.Batch(ctx, func(b Batch) error {
		b.Set("tags", "fight", map[string]any{"name": "fight"}, false)
		b.Update("categories", "missing", []Update{{Path: "status", Value: "published"}})
		return nil
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound got=%v", err)
	}
	if _, err := m.Get(ctx, "tags", "fight"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("partial batch applied: %v", err)
	}
}

func TestMemoryMergeKeepsFieldsAndDeleteSentinel(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	seed(t, m, "tags", map[string]map[string]any{"smoke": {"name": "smoke", "group": "Action & Combat"}})
	if err := m.Set(ctx, "tags", "smoke", map[string]any{"group": Delete}, true); err != nil {
		t.Fatalf("Set merge: %v", err)
	}
	doc, _ := m.Get(ctx, "tags", "smoke")
	if _, ok := doc.Data["group"]; ok {
		t.Fatalf("group should be deleted")
	}
	if doc.String("name") != "smoke" {
		t.Fatalf("name: want=%q got=%q", "smoke", doc.String("name"))
	}
}

func TestDocDataTo(t *testing.T) {
	d := &Doc{ID: "v1", Data: map[string]any{"title": "Run Cycle", "tags": []any{"run"}, "sortIndex": int64(3)}}
	var out struct {
		Title     string   `json:"title"`
		Tags      []string `json:"tags"`
		SortIndex *int     `json:"sortIndex"`
	}
	if err := d.DataTo(&out); err != nil {
		t.Fatalf("DataTo: %v", err)
	}
	if out.Title != "Run Cycle" || len(out.Tags) != 1 || out.SortIndex == nil || *out.SortIndex != 3 {
		t.Fatalf("decoded: %+v", out)
	}
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
