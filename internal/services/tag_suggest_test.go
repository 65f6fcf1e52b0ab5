package services

import (
	"context"
	"testing"

	"github.com/yungbote/framevault-backend/internal/data/repos/testutil"
	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/platform/gcp"
)

type fakeVision struct {
	labels  []gcp.Label
	lastURI string
}

func (f *fakeVision) LabelImage(_ context.Context, _ []byte, _ int) ([]gcp.Label, error) {
	return f.labels, nil
}

func (f *fakeVision) LabelImageURI(_ context.Context, uri string, _ int) ([]gcp.Label, error) {
	f.lastURI = uri
	return f.labels, nil
}

func (f *fakeVision) Close() error { return nil }

type fakeVideo struct {
	labels  []gcp.Label
	lastURI string
}

func (f *fakeVideo) LabelVideoGCS(_ context.Context, uri string) ([]gcp.Label, error) {
	f.lastURI = uri
	return f.labels, nil
}

func (f *fakeVideo) Close() error { return nil }

func TestSuggestTagsMergesAndGroups(t *testing.T) {
	r := newTestRepos(t)
	ctx := adminCtx()
	testutil.SeedVideo(t, ctx, r.store, &types.Video{
		ID:           "v1",
		ThumbnailURL: testBucketBase + "thumbnails/1_v1.png",
		VideoURL:     testBucketBase + "videos/1_v1.mp4",
		Tags:         []string{"explosion"},
	})
	vis := &fakeVision{labels: []gcp.Label{
		{Name: "Explosion", Score: 0.9, Source: "vision"},
		{Name: "Cartoon", Score: 0.8, Source: "vision"},
		{Name: "Blur", Score: 0.2, Source: "vision"},
	}}
	vid := &fakeVideo{labels: []gcp.Label{
		{Name: "explosion", Score: 0.95, Source: "video"},
		{Name: "Walk", Score: 0.7, Source: "video"},
	}}
	svc := NewTagSuggestService(testutil.Logger(t), r.videos, newFakeBucket(), vis, vid)

	got, err := svc.Suggest(ctx, "v1", nil)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if vis.lastURI != "gs://test-bucket/thumbnails/1_v1.png" {
		t.Fatalf("vision uri: got=%q", vis.lastURI)
	}
	if vid.lastURI != "gs://test-bucket/videos/1_v1.mp4" {
		t.Fatalf("video uri: got=%q", vid.lastURI)
	}
	if len(got.Tags) != 3 {
		t.Fatalf("tags: want=3 got=%+v", got.Tags)
	}
	top := got.Tags[0]
	if top.Tag != "explosion" || top.Score != 0.95 || top.Source != "video" || !top.Existing {
		t.Fatalf("top tag: %+v", top)
	}
	if b := got.Groups.BucketOf("explosion"); b != "Action & Combat" {
		t.Fatalf("explosion bucket: got=%q", b)
	}
	if b := got.Groups.BucketOf("walk"); b != "Character & Movement" {
		t.Fatalf("walk bucket: got=%q", b)
	}
	if b := got.Groups.BucketOf("cartoon"); b != "Uncategorized" {
		t.Fatalf("cartoon bucket: got=%q", b)
	}
}

func TestSuggestTagsExternalVideoSkipsVideoLabels(t *testing.T) {
	r := newTestRepos(t)
	ctx := adminCtx()
	testutil.SeedVideo(t, ctx, r.store, &types.Video{ID: "v1", VideoURL: "https://youtube.example/v"})
	vis := &fakeVision{labels: []gcp.Label{{Name: "Smoke", Score: 0.9}}}
	vid := &fakeVideo{}
	svc := NewTagSuggestService(testutil.Logger(t), r.videos, newFakeBucket(), vis, vid)

	got, err := svc.Suggest(ctx, "v1", []byte("png"))
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if vid.lastURI != "" {
		t.Fatalf("video labeling should be skipped, got uri %q", vid.lastURI)
	}
	if len(got.Tags) != 1 || got.Tags[0].Tag != "smoke" {
		t.Fatalf("tags: %+v", got.Tags)
	}
}
