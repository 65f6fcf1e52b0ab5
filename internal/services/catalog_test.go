package services

import (
	"context"
	"net/http"
	"reflect"
	"testing"

	"github.com/yungbote/framevault-backend/internal/data/repos/testutil"
	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/platform/apierr"
	"github.com/yungbote/framevault-backend/internal/realtime"
)

func newTestCatalogService(t *testing.T, r *testRepos, emit *recordingEmitter) CatalogService {
	t.Helper()
	return NewCatalogService(testutil.Logger(t), r.store, r.videos, r.categories, r.tags, r.shortCategory, nil, NewCatalogNotifier(emit))
}

func TestCreateVideoDefaultsAndTagDocs(t *testing.T) {
	r := newTestRepos(t)
	emit := &recordingEmitter{}
	svc := newTestCatalogService(t, r, emit)
	ctx := adminCtx()
	testutil.SeedCategory(t, ctx, r.store, &types.Category{ID: "c1", Title: "Walk Cycles", Status: types.CategoryPublished})

	v, err := svc.Create(ctx, VideoInput{
		Title:       "Heavy Walk",
		VideoURL:    "https://cdn.example.com/walk.mp4",
		Tags:        []string{" Acting ", "acting", "Weight"},
		CategoryIDs: []string{"c1", "missing"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if v.Description != "Heavy Walk animation reference" {
		t.Fatalf("description: got=%q", v.Description)
	}
	if want := []string{"acting", "weight", "walk-cycles"}; !reflect.DeepEqual(v.Tags, want) {
		t.Fatalf("tags: want=%v got=%v", want, v.Tags)
	}
	if !reflect.DeepEqual(v.CategoryIDs, []string{"c1"}) {
		t.Fatalf("category ids: got=%v", v.CategoryIDs)
	}
	if v.ThumbnailURL != "https://placehold.co/1280x720.png" || v.PosterURL != "https://placehold.co/400x600.png" {
		t.Fatalf("placeholders: thumb=%q poster=%q", v.ThumbnailURL, v.PosterURL)
	}

	tags, err := r.tags.List(ctx, types.KindVideos)
	if err != nil {
		t.Fatalf("List tags: %v", err)
	}
	if len(tags) != 3 {
		t.Fatalf("tag docs: want=3 got=%d", len(tags))
	}
	stored, err := r.videos.Get(ctx, v.ID)
	if err != nil || stored.Title != "Heavy Walk" {
		t.Fatalf("stored video: %+v err=%v", stored, err)
	}
	if ev := emit.events(); len(ev) != 1 || ev[0] != realtime.SSEEventCatalogChanged {
		t.Fatalf("events: got=%v", ev)
	}
}

func TestCreateShortWritesShortCategories(t *testing.T) {
	r := newTestRepos(t)
	svc := newTestCatalogService(t, r, &recordingEmitter{})
	ctx := adminCtx()
	testutil.SeedCategory(t, ctx, r.store, &types.Category{ID: "c1", Title: "Smears"})

	v, err := svc.Create(ctx, VideoInput{
		Title:      "Smear frame",
		VideoURL:   "https://cdn.example.com/s.mp4",
		Tags:       []string{"fx"},
		Categories: []string{"smears", "Impact Frames"},
		IsShort:    true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !reflect.DeepEqual(v.CategoryIDs, []string{"c1"}) {
		t.Fatalf("resolved ids: got=%v", v.CategoryIDs)
	}
	if !reflect.DeepEqual(v.Tags, []string{"fx"}) {
		t.Fatalf("short tags are not merged with category slugs: got=%v", v.Tags)
	}
	cats, err := r.shortCategory.List(ctx)
	if err != nil {
		t.Fatalf("short categories: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("short category docs: want=2 got=%d", len(cats))
	}
	if tags, _ := r.tags.List(ctx, types.KindShorts); len(tags) != 1 {
		t.Fatalf("shortFilmTags docs: want=1 got=%d", len(tags))
	}
}

func TestUpdateAndDeleteVideo(t *testing.T) {
	r := newTestRepos(t)
	svc := newTestCatalogService(t, r, &recordingEmitter{})
	ctx := adminCtx()

	if _, err := svc.Update(ctx, "nope", VideoInput{Title: "x", VideoURL: "y"}); err == nil {
		t.Fatalf("update of missing video should fail")
	}
	testutil.SeedVideo(t, ctx, r.store, &types.Video{ID: "v1", Title: "Old", ThumbnailURL: "t.jpg", PosterURL: "p.jpg"})
	v, err := svc.Update(ctx, "v1", VideoInput{Title: "New", VideoURL: "n.mp4", ThumbnailURL: "t2.jpg", PosterURL: "p2.jpg", Description: "kept"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if v.Title != "New" || v.Description != "kept" || v.ThumbnailURL != "t2.jpg" {
		t.Fatalf("updated video: %+v", v)
	}
	if err := svc.Delete(ctx, "v1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	err = svc.Delete(ctx, "v1")
	if ae, ok := apierr.As(err); !ok || ae.Status != http.StatusNotFound {
		t.Fatalf("second delete: want 404 got %v", err)
	}
}

func TestListVideosFilters(t *testing.T) {
	r := newTestRepos(t)
	svc := newTestCatalogService(t, r, &recordingEmitter{})
	ctx := adminCtx()
	testutil.SeedVideo(t, ctx, r.store, &types.Video{ID: "v1", Title: "Heavy Walk", Tags: []string{"acting"}, CategoryIDs: []string{"c1"}})
	testutil.SeedVideo(t, ctx, r.store, &types.Video{ID: "v2", Title: "Explosion", Tags: []string{"fx"}})
	testutil.SeedVideo(t, ctx, r.store, &types.Video{ID: "s1", Title: "Walk short", IsShort: true, Categories: []string{"Walks"}})

	cases := []struct {
		name string
		f    VideoFilter
		want []string
	}{
		{"all long-form", VideoFilter{}, []string{"v1", "v2"}},
		{"query", VideoFilter{Query: "walk"}, []string{"v1"}},
		{"tag", VideoFilter{Tag: "FX"}, []string{"v2"}},
		{"category id", VideoFilter{Category: "c1"}, []string{"v1"}},
		{"short by title", VideoFilter{Kind: types.KindShorts, Category: "walks"}, []string{"s1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.List(ctx, tc.f)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			ids := make([]string, 0, len(got))
			for _, v := range got {
				ids = append(ids, v.ID)
			}
			if !reflect.DeepEqual(ids, tc.want) {
				t.Fatalf("ids: want=%v got=%v", tc.want, ids)
			}
		})
	}

	if _, err := svc.List(context.Background(), VideoFilter{}); err == nil {
		t.Fatalf("anonymous list should fail")
	}
}

func TestSaveRejectsKeysWithSlash(t *testing.T) {
	r := newTestRepos(t)
	svc := newTestCatalogService(t, r, &recordingEmitter{})
	ctx := adminCtx()

	cases := []struct {
		name string
		in   VideoInput
		code string
	}{
		{"tag", VideoInput{Title: "Turnaround", Tags: []string{"2D/3D"}}, "invalid_tag"},
		{"short category", VideoInput{Title: "Blink", IsShort: true, Categories: []string{"Faces/Eyes"}}, "invalid_category"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			ae, ok := apierr.As(err)
			if !ok || ae.Status != http.StatusBadRequest || ae.Code != tc.code {
				t.Fatalf("error: want 400 %s got=%v", tc.code, err)
			}
		})
	}
	if vs, _ := r.videos.Page(ctx, types.KindVideos, "", 10); len(vs) != 0 {
		t.Fatalf("videos written after rejected saves: %d", len(vs))
	}
}
