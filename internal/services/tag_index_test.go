package services

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/yungbote/framevault-backend/internal/data/repos/testutil"
	types "github.com/yungbote/framevault-backend/internal/domain"
)

func TestReindexWalksEveryPage(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	for i := 1; i <= 7; i++ {
		testutil.SeedVideo(t, ctx, r.store, &types.Video{
			ID:   fmt.Sprintf("v%02d", i),
			Tags: []string{"Shared", fmt.Sprintf("tag%d", i%3)},
		})
	}
	testutil.SeedVideo(t, ctx, r.store, &types.Video{ID: "s01", IsShort: true, Tags: []string{"short-only"}})
	ix := NewTagIndexer(testutil.Logger(t), r.store, r.videos, r.tags, 3)

	dry, err := ix.Reindex(ctx, types.KindVideos, true)
	if err != nil {
		t.Fatalf("Reindex dry-run: %v", err)
	}
	if dry.Videos != 7 || dry.Pages != 3 {
		t.Fatalf("walk: want videos=7 pages=3 got videos=%d pages=%d", dry.Videos, dry.Pages)
	}
	if want := []string{"shared", "tag0", "tag1", "tag2"}; !reflect.DeepEqual(dry.Tags, want) {
		t.Fatalf("tags: want=%v got=%v", want, dry.Tags)
	}
	if tags, _ := r.tags.List(ctx, types.KindVideos); len(tags) != 0 {
		t.Fatalf("dry run wrote %d tag docs", len(tags))
	}

	if _, err := ix.Reindex(ctx, types.KindVideos, false); err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	if tags, _ := r.tags.List(ctx, types.KindVideos); len(tags) != 4 {
		t.Fatalf("tag docs: want=4 got=%d", len(tags))
	}
	if tags, _ := r.tags.List(ctx, types.KindShorts); len(tags) != 0 {
		t.Fatalf("shorts index must be untouched, got %d", len(tags))
	}
}

func TestReindexEmptyCollection(t *testing.T) {
	r := newTestRepos(t)
	ix := NewTagIndexer(testutil.Logger(t), r.store, r.videos, r.tags, 5)
	res, err := ix.Reindex(context.Background(), types.KindShorts, false)
	if err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	if res.Videos != 0 || res.Pages != 1 || len(res.Tags) != 0 {
		t.Fatalf("empty reindex: %+v", res)
	}
}

func TestReindexSkipsTagsWithSlash(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	testutil.SeedVideo(t, ctx, r.store, &types.Video{ID: "v01", Tags: []string{"2D/3D", "smears"}})
	ix := NewTagIndexer(testutil.Logger(t), r.store, r.videos, r.tags, 5)

	res, err := ix.Reindex(ctx, types.KindVideos, false)
	if err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	if !reflect.DeepEqual(res.Tags, []string{"smears"}) || !reflect.DeepEqual(res.Skipped, []string{"2d/3d"}) {
		t.Fatalf("tags=%v skipped=%v", res.Tags, res.Skipped)
	}
	if tags, _ := r.tags.List(ctx, types.KindVideos); len(tags) != 1 {
		t.Fatalf("tag docs: want=1 got=%d", len(tags))
	}
}
