package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/platform/docstore"
)

func SeedVideo(tb testing.TB, ctx context.Context, s docstore.Store, v *types.Video) *types.Video {
	tb.Helper()
	if v.ID == "" {
		v.ID = s.NewID(types.CollectionVideos)
	}
	now := time.Now().UTC()
	fields := map[string]any{
		"title":        v.Title,
		"description":  v.Description,
		"thumbnailUrl": v.ThumbnailURL,
		"posterUrl":    v.PosterURL,
		"videoUrl":     v.VideoURL,
		"tags":         orEmpty(v.Tags),
		"categoryIds":  orEmpty(v.CategoryIDs),
		"isShort":      v.IsShort,
		"createdAt":    now,
		"updatedAt":    now,
	}
	if v.IsShort {
		fields["categories"] = orEmpty(v.Categories)
	}
	if err := s.Set(ctx, types.CollectionVideos, v.ID, fields, false); err != nil {
		tb.Fatalf("seed video: %v", err)
	}
	return v
}

// SeedVideos writes n videos with ids v01..vNN so document-id order is predictable.
func SeedVideos(tb testing.TB, ctx context.Context, s docstore.Store, n int, short bool) []*types.Video {
	tb.Helper()
	out := make([]*types.Video, 0, n)
	prefix := "v"
	if short {
		prefix = "s"
	}
	for i := 1; i <= n; i++ {
		out = append(out, SeedVideo(tb, ctx, s, &types.Video{
			ID:           fmt.Sprintf("%s%02d", prefix, i),
			Title:        fmt.Sprintf("Clip %d", i),
			ThumbnailURL: fmt.Sprintf("https://cdn.example.com/%s%02d.jpg", prefix, i),
			VideoURL:     fmt.Sprintf("https://cdn.example.com/%s%02d.mp4", prefix, i),
			IsShort:      short,
		}))
	}
	return out
}

func SeedCategory(tb testing.TB, ctx context.Context, s docstore.Store, c *types.Category) *types.Category {
	tb.Helper()
	if c.ID == "" {
		c.ID = s.NewID(types.CollectionCategories)
	}
	fields := map[string]any{
		"title":       c.Title,
		"description": c.Description,
		"tags":        orEmpty(c.Tags),
		"status":      string(c.Status),
		"imageUrl":    c.ImageURL,
		"href":        c.Href,
	}
	if c.VideoURL != "" {
		fields["videoUrl"] = c.VideoURL
	}
	if c.FeaturedVideoID != "" {
		fields["featuredVideoId"] = c.FeaturedVideoID
	}
	if c.SortIndex != nil {
		fields["sortIndex"] = *c.SortIndex
	}
	if err := s.Set(ctx, types.CollectionCategories, c.ID, fields, false); err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return c
}

func SeedTag(tb testing.TB, ctx context.Context, s docstore.Store, kind types.Kind, name, group string) {
	tb.Helper()
	fields := map[string]any{"name": name}
	if group != "" {
		fields["group"] = group
	}
	if err := s.Set(ctx, types.TagCollection(kind), name, fields, false); err != nil {
		tb.Fatalf("seed tag: %v", err)
	}
}

// SeedShortCategory writes a short category; with no tags the document has no
// tags field, like categories created before the organizer existed.
func SeedShortCategory(tb testing.TB, ctx context.Context, s docstore.Store, title string, tags ...string) {
	tb.Helper()
	fields := map[string]any{"name": title}
	if len(tags) > 0 {
		fields["tags"] = tags
	}
	if err := s.Set(ctx, types.CollectionShortFilmCategories, title, fields, false); err != nil {
		tb.Fatalf("seed short category: %v", err)
	}
}

func SeedProfile(tb testing.TB, ctx context.Context, s docstore.Store, uid string, role types.Role) {
	tb.Helper()
	if err := s.Set(ctx, types.CollectionUsers, uid, map[string]any{
		"uid":                              uid,
		"role":                             string(role),
		string(types.LikedVideos):          []string{},
		string(types.LikedCategories):      []string{},
		string(types.SavedShorts):          []string{},
		string(types.RecentlyViewedShorts): []string{},
	}, false); err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
}

func IntPtr(i int) *int { return &i }

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
