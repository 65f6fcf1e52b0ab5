package services

import (
	"context"
	"reflect"
	"testing"

	"github.com/yungbote/framevault-backend/internal/data/repos/testutil"
	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/realtime"
	"github.com/yungbote/framevault-backend/internal/taxonomy"
)

func newTestTaxonomyService(t *testing.T, r *testRepos, emit *recordingEmitter) TaxonomyService {
	t.Helper()
	return NewTaxonomyService(testutil.Logger(t), r.tags, r.categories, r.shortCategory, NewCatalogNotifier(emit))
}

func bucketOf(t *testing.T, v *BoardView, id string) string {
	t.Helper()
	return v.Buckets.BucketOf(id)
}

func TestParseBoardKey(t *testing.T) {
	if _, err := ParseBoardKey("tags", "shorts"); err != nil {
		t.Fatalf("tags/shorts: %v", err)
	}
	if _, err := ParseBoardKey("genres", "videos"); err == nil {
		t.Fatalf("unknown kind accepted")
	}
	if _, err := ParseBoardKey("tags", ""); err == nil {
		t.Fatalf("empty scope accepted")
	}
}

func TestTagBoardMovePersistsGroup(t *testing.T) {
	r := newTestRepos(t)
	emit := &recordingEmitter{}
	svc := newTestTaxonomyService(t, r, emit)
	ctx := adminCtx()
	testutil.SeedTag(t, ctx, r.store, types.KindVideos, "sakuga fight", "")
	testutil.SeedTag(t, ctx, r.store, types.KindVideos, "misc", "")
	key, _ := ParseBoardKey("tags", "videos")

	view, err := svc.Board(ctx, key)
	if err != nil {
		t.Fatalf("Board: %v", err)
	}
	if got := bucketOf(t, view, "sakuga fight"); got != "Action & Combat" {
		t.Fatalf("sakuga fight: got=%q", got)
	}
	if got := bucketOf(t, view, "misc"); got != "Uncategorized" {
		t.Fatalf("misc: got=%q", got)
	}

	res, err := svc.Move(ctx, key, "misc", "Effects & Technical")
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if res.Outcome != taxonomy.MoveApplied {
		t.Fatalf("outcome: want=%q got=%q", taxonomy.MoveApplied, res.Outcome)
	}
	tags, _ := r.tags.List(ctx, types.KindVideos)
	for _, tg := range tags {
		if tg.ID == "misc" && tg.Group != "Effects & Technical" {
			t.Fatalf("persisted group: got=%q", tg.Group)
		}
	}
	view, _ = svc.Board(ctx, key)
	if got := bucketOf(t, view, "misc"); got != "Effects & Technical" {
		t.Fatalf("after reload: got=%q", got)
	}

	res, _ = svc.Move(ctx, key, "misc", "Effects & Technical")
	if res.Outcome != taxonomy.MoveNoop {
		t.Fatalf("same-bucket move: want noop got=%q", res.Outcome)
	}
	if ev := emit.events(); len(ev) != 1 || ev[0] != realtime.SSEEventTaxonomyChanged {
		t.Fatalf("events: got=%v", ev)
	}
}

func TestCategoryBoardMoveSwapsMarkers(t *testing.T) {
	r := newTestRepos(t)
	svc := newTestTaxonomyService(t, r, &recordingEmitter{})
	ctx := adminCtx()
	testutil.SeedCategory(t, ctx, r.store, &types.Category{ID: "c1", Title: "Ghibli", Tags: []string{"Studio", "2d"}})
	key, _ := ParseBoardKey("categories", "videos")

	if _, err := svc.Board(ctx, key); err != nil {
		t.Fatalf("Board: %v", err)
	}
	if _, err := svc.Move(ctx, key, "c1", "Medium"); err != nil {
		t.Fatalf("Move: %v", err)
	}
	c, _ := r.categories.Get(ctx, "c1")
	if !reflect.DeepEqual(c.Tags, []string{"2d", "Medium"}) {
		t.Fatalf("tags after move: got=%v", c.Tags)
	}
	if _, err := svc.Move(ctx, key, "c1", "Other"); err != nil {
		t.Fatalf("Move to fallback: %v", err)
	}
	c, _ = r.categories.Get(ctx, "c1")
	if !reflect.DeepEqual(c.Tags, []string{"2d"}) {
		t.Fatalf("tags after fallback move: got=%v", c.Tags)
	}
}

func TestShortCategoryBoardUsesTitleFallback(t *testing.T) {
	r := newTestRepos(t)
	svc := newTestTaxonomyService(t, r, &recordingEmitter{})
	ctx := adminCtx()
	testutil.SeedShortCategory(t, ctx, r.store, "Action")
	testutil.SeedShortCategory(t, ctx, r.store, "Smears")
	key, _ := ParseBoardKey("categories", "shorts")

	view, err := svc.Board(ctx, key)
	if err != nil {
		t.Fatalf("Board: %v", err)
	}
	if got := bucketOf(t, view, "Action"); got != "Action" {
		t.Fatalf("Action by title: got=%q", got)
	}
	if got := bucketOf(t, view, "Smears"); got != "Other" {
		t.Fatalf("Smears: got=%q", got)
	}
	if _, err := svc.Move(ctx, key, "Smears", "Medium"); err != nil {
		t.Fatalf("Move: %v", err)
	}
	cats, _ := r.shortCategory.List(ctx)
	for _, c := range cats {
		if c.ID == "Smears" && !reflect.DeepEqual(c.Tags, []string{"Medium"}) {
			t.Fatalf("short category tags: got=%v", c.Tags)
		}
	}
}

func TestShortCategoryMoveToFallbackSurvivesReload(t *testing.T) {
	r := newTestRepos(t)
	svc := newTestTaxonomyService(t, r, &recordingEmitter{})
	ctx := adminCtx()
	testutil.SeedShortCategory(t, ctx, r.store, "Action")
	key, _ := ParseBoardKey("categories", "shorts")

	view, err := svc.Board(ctx, key)
	if err != nil {
		t.Fatalf("Board: %v", err)
	}
	if got := bucketOf(t, view, "Action"); got != "Action" {
		t.Fatalf("before move: want=%q got=%q", "Action", got)
	}
	res, err := svc.Move(ctx, key, "Action", "Other")
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if res.Outcome != taxonomy.MoveApplied {
		t.Fatalf("outcome: want=%q got=%q", taxonomy.MoveApplied, res.Outcome)
	}

	view, err = svc.Board(ctx, key)
	if err != nil {
		t.Fatalf("Board after move: %v", err)
	}
	if got := bucketOf(t, view, "Action"); got != "Other" {
		t.Fatalf("after reload: want=%q got=%q", "Other", got)
	}
	doc := testutil.MustGet(t, r.store, types.CollectionShortFilmCategories, "Action")
	if !doc.Has("tags") || len(doc.Strings("tags")) != 0 {
		t.Fatalf("stored tags: want explicit empty list got=%v", doc.Data["tags"])
	}
}

func TestSelectAndDelete(t *testing.T) {
	r := newTestRepos(t)
	emit := &recordingEmitter{}
	svc := newTestTaxonomyService(t, r, emit)
	ctx := adminCtx()
	testutil.SeedTag(t, ctx, r.store, types.KindShorts, "smoke", "")
	testutil.SeedTag(t, ctx, r.store, types.KindShorts, "walk", "")
	key, _ := ParseBoardKey("tags", "shorts")
	if _, err := svc.Board(ctx, key); err != nil {
		t.Fatalf("Board: %v", err)
	}

	sel, _ := svc.Select(ctx, key, "smoke")
	sel, _ = svc.Select(ctx, key, "walk")
	if !reflect.DeepEqual(sel, []string{"smoke", "walk"}) {
		t.Fatalf("selection: got=%v", sel)
	}
	if err := svc.Delete(ctx, key, "smoke"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	view, _ := svc.Board(ctx, key)
	if !reflect.DeepEqual(view.Selection, []string{"walk"}) {
		t.Fatalf("selection after delete: got=%v", view.Selection)
	}
	if view.Buckets.BucketOf("smoke") != "" {
		t.Fatalf("deleted tag still classified")
	}
	if _, err := r.store.Get(context.Background(), types.CollectionShortFilmTags, "smoke"); err == nil {
		t.Fatalf("tag document not deleted")
	}
	if ev := emit.events(); len(ev) != 1 || ev[0] != realtime.SSEEventTaxonomyChanged {
		t.Fatalf("events: got=%v", ev)
	}
}
