package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/yungbote/framevault-backend/internal/data/repos/testutil"
	types "github.com/yungbote/framevault-backend/internal/domain"
)

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return cfg.Width, cfg.Height
}

func TestFromFrameRenditions(t *testing.T) {
	svc, err := NewArtworkService(testutil.Logger(t), nil)
	if err != nil {
		t.Fatalf("NewArtworkService: %v", err)
	}
	imgs, err := svc.FromFrame(encodeTestPNG(t, 320, 200))
	if err != nil {
		t.Fatalf("FromFrame: %v", err)
	}
	if w, h := decodeSize(t, imgs.Thumbnail); w != ThumbnailWidth || h != ThumbnailHeight {
		t.Fatalf("thumbnail: want=%dx%d got=%dx%d", ThumbnailWidth, ThumbnailHeight, w, h)
	}
	if w, h := decodeSize(t, imgs.Poster); w != PosterWidth || h != PosterHeight {
		t.Fatalf("poster: want=%dx%d got=%dx%d", PosterWidth, PosterHeight, w, h)
	}
	if _, err := svc.FromFrame([]byte("not an image")); err == nil {
		t.Fatalf("garbage frame accepted")
	}
}

func TestPlaceholder(t *testing.T) {
	ctx := context.Background()
	hosted, _ := NewArtworkService(testutil.Logger(t), nil)
	url, err := hosted.Placeholder(ctx, types.FolderCategories, "Smears", CategoryWidth, CategoryHeight)
	if err != nil || url != "https://placehold.co/400x300.png" {
		t.Fatalf("hosted placeholder: url=%q err=%v", url, err)
	}

	bucket := newFakeBucket()
	rendered, _ := NewArtworkService(testutil.Logger(t), bucket)
	url, err = rendered.Placeholder(ctx, types.FolderCategories, "Walk Cycles", CategoryWidth, CategoryHeight)
	if err != nil {
		t.Fatalf("Placeholder: %v", err)
	}
	if !strings.HasPrefix(url, testBucketBase+"categories/") || !strings.HasSuffix(url, "placeholder-walk-cycles.png") {
		t.Fatalf("placeholder url: got=%q", url)
	}
	key, _ := bucket.KeyFromURL(url)
	if w, h := decodeSize(t, bucket.objects[key]); w != CategoryWidth || h != CategoryHeight {
		t.Fatalf("placeholder size: got=%dx%d", w, h)
	}
}

func TestGradientIsStablePerTitle(t *testing.T) {
	a1, b1 := gradientFor("Smears")
	a2, b2 := gradientFor("smears")
	if a1 != a2 || b1 != b2 {
		t.Fatalf("gradient should ignore case")
	}
}

func TestCaptureFrameUpdatesVideo(t *testing.T) {
	r := newTestRepos(t)
	bucket := newFakeBucket()
	art, _ := NewArtworkService(testutil.Logger(t), bucket)
	svc := NewCatalogService(testutil.Logger(t), r.store, r.videos, r.categories, r.tags, r.shortCategory, art, nil)
	ctx := adminCtx()
	testutil.SeedVideo(t, ctx, r.store, &types.Video{ID: "v1", Title: "Walk"})

	v, err := svc.CaptureFrame(ctx, "v1", encodeTestPNG(t, 64, 64))
	if err != nil {
		t.Fatalf("CaptureFrame: %v", err)
	}
	stored, _ := r.videos.Get(ctx, "v1")
	if stored.ThumbnailURL != v.ThumbnailURL || !strings.Contains(stored.ThumbnailURL, "thumbnails/") {
		t.Fatalf("thumbnail url: %q", stored.ThumbnailURL)
	}
	if !strings.Contains(stored.PosterURL, "posters/") {
		t.Fatalf("poster url: %q", stored.PosterURL)
	}
	if len(bucket.keys()) != 2 {
		t.Fatalf("uploaded objects: want=2 got=%v", bucket.keys())
	}
}
