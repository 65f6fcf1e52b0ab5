package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/framevault-backend/internal/data/repos"
	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/pkg/dbctx"
	"github.com/yungbote/framevault-backend/internal/platform/apierr"
	"github.com/yungbote/framevault-backend/internal/platform/docstore"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

type VideoFilter struct {
	Kind     types.Kind
	Query    string
	Tag      string
	Category string
}

// VideoInput is the admin edit form. CategoryIDs selects long-form
// categories; Categories holds short category titles.
type VideoInput struct {
	Title        string   `json:"title" binding:"required,notblank"`
	Description  string   `json:"description"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	PosterURL    string   `json:"posterUrl"`
	VideoURL     string   `json:"videoUrl" binding:"required,notblank"`
	Tags         []string `json:"tags"`
	CategoryIDs  []string `json:"categoryIds"`
	Categories   []string `json:"categories"`
	IsShort      bool     `json:"isShort"`
}

type CatalogService interface {
	List(ctx context.Context, f VideoFilter) ([]*types.Video, error)
	Create(ctx context.Context, in VideoInput) (*types.Video, error)
	Update(ctx context.Context, id string, in VideoInput) (*types.Video, error)
	Delete(ctx context.Context, id string) error
	// CaptureFrame turns a captured frame into the video's thumbnail and poster.
	CaptureFrame(ctx context.Context, id string, frame []byte) (*types.Video, error)
}

type catalogService struct {
	log               *logger.Logger
	store             docstore.Store
	videoRepo         repos.VideoRepo
	categoryRepo      repos.CategoryRepo
	tagRepo           repos.TagRepo
	shortCategoryRepo repos.ShortCategoryRepo
	artwork           ArtworkService
	notifier          CatalogNotifier
}

func NewCatalogService(
	log *logger.Logger,
	store docstore.Store,
	videoRepo repos.VideoRepo,
	categoryRepo repos.CategoryRepo,
	tagRepo repos.TagRepo,
	shortCategoryRepo repos.ShortCategoryRepo,
	artwork ArtworkService,
	notifier CatalogNotifier,
) CatalogService {
	if notifier == nil {
		notifier = NewCatalogNotifier(nil)
	}
	return &catalogService{
		log:               log.With("service", "CatalogService"),
		store:             store,
		videoRepo:         videoRepo,
		categoryRepo:      categoryRepo,
		tagRepo:           tagRepo,
		shortCategoryRepo: shortCategoryRepo,
		artwork:           artwork,
		notifier:          notifier,
	}
}

func (cs *catalogService) List(ctx context.Context, f VideoFilter) ([]*types.Video, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	kind := f.Kind
	if kind == "" {
		kind = types.KindVideos
	}
	all, err := cs.videoRepo.ListByKind(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	tag := strings.TrimSpace(f.Tag)
	category := strings.TrimSpace(f.Category)

	out := make([]*types.Video, 0, len(all))
	for _, v := range all {
		if q != "" && !strings.Contains(strings.ToLower(v.Title), q) && !strings.Contains(strings.ToLower(v.Description), q) {
			continue
		}
		if tag != "" && !v.HasTag(tag) {
			continue
		}
		if category != "" && !v.InCategory(category) && !containsFold(v.Categories, category) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (cs *catalogService) Create(ctx context.Context, in VideoInput) (*types.Video, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	v := &types.Video{ID: cs.videoRepo.NewID()}
	if err := cs.save(ctx, v, in); err != nil {
		return nil, err
	}
	cs.notifier.CatalogChanged(ctx, "video", v.ID, "created")
	return v, nil
}

func (cs *catalogService) Update(ctx context.Context, id string, in VideoInput) (*types.Video, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	v, err := cs.videoRepo.Get(ctx, id)
	if err != nil {
		if docstore.IsNotFound(err) {
			return nil, apierr.NotFound("video_not_found", "video %q not found", id)
		}
		return nil, err
	}
	if err := cs.save(ctx, v, in); err != nil {
		return nil, err
	}
	cs.notifier.CatalogChanged(ctx, "video", v.ID, "updated")
	return v, nil
}

// save fills defaults, then writes the video with its tag and short category
// documents in one batch.
func (cs *catalogService) save(ctx context.Context, v *types.Video, in VideoInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return apierr.BadRequest("missing_title", "title is required")
	}
	v.Title = title
	v.Description = strings.TrimSpace(in.Description)
	if v.Description == "" {
		v.Description = title + " animation reference"
	}
	v.VideoURL = strings.TrimSpace(in.VideoURL)
	v.IsShort = in.IsShort
	tags := normalizeTags(in.Tags)

	if v.IsShort {
		titles := normalizeTitles(in.Categories)
		for _, t := range titles {
			if !types.ValidKey(t) {
				return apierr.BadRequest("invalid_category", "short category %q cannot be stored; titles may not contain \"/\"", t)
			}
		}
		ids, err := cs.resolveShortCategories(ctx, titles)
		if err != nil {
			return err
		}
		v.Categories = titles
		v.CategoryIDs = mergeStrings(ids, in.CategoryIDs)
	} else {
		cats, err := cs.categoryRepo.GetByIDs(ctx, in.CategoryIDs)
		if err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		v.Categories = nil
		v.CategoryIDs = make([]string, 0, len(cats))
		for _, c := range cats {
			v.CategoryIDs = append(v.CategoryIDs, c.ID)
			tags = mergeStrings(tags, []string{types.Slugify(c.Title)})
		}
	}
	for _, t := range tags {
		if !types.ValidKey(t) {
			return apierr.BadRequest("invalid_tag", "tag %q cannot be stored; tags may not contain \"/\"", t)
		}
	}
	v.Tags = tags

	v.ThumbnailURL = strings.TrimSpace(in.ThumbnailURL)
	if v.ThumbnailURL == "" {
		v.ThumbnailURL = cs.placeholder(ctx, types.FolderThumbnails, title, ThumbnailWidth, ThumbnailHeight)
	}
	v.PosterURL = strings.TrimSpace(in.PosterURL)
	if v.PosterURL == "" {
		v.PosterURL = cs.placeholder(ctx, types.FolderPosters, title, PosterWidth, PosterHeight)
	}

	kind := v.Kind()
	err := cs.store.Batch(ctx, func(b docstore.Batch) error {
		dbc := dbctx.New(ctx).WithBatch(b)
		if err := cs.videoRepo.Save(dbc, v); err != nil {
			return err
		}
		for _, t := range v.Tags {
			if err := cs.tagRepo.Upsert(dbc, kind, t); err != nil {
				return err
			}
		}
		if v.IsShort {
			for _, title := range v.Categories {
				if err := cs.shortCategoryRepo.Upsert(dbc, title); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		cs.log.Error("video save failed", "video_id", v.ID, "error", err)
		return fmt.Errorf("save video %s: %w", v.ID, err)
	}
	return nil
}

// resolveShortCategories maps short category titles onto category ids where a
// category with the same title exists.
func (cs *catalogService) resolveShortCategories(ctx context.Context, titles []string) ([]string, error) {
	ids := []string{}
	for _, t := range titles {
		c, err := cs.categoryRepo.FindByTitle(ctx, t)
		if err != nil {
			if docstore.IsNotFound(err) {
				continue
			}
			return nil, fmt.Errorf("resolve category %q: %w", t, err)
		}
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func (cs *catalogService) placeholder(ctx context.Context, folder, title string, w, h int) string {
	if cs.artwork == nil {
		return PlaceholderURL(w, h)
	}
	url, err := cs.artwork.Placeholder(ctx, folder, title, w, h)
	if err != nil {
		cs.log.Warn("placeholder render failed; using hosted placeholder", "folder", folder, "error", err)
		return PlaceholderURL(w, h)
	}
	return url
}

func (cs *catalogService) Delete(ctx context.Context, id string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	if _, err := cs.videoRepo.Get(ctx, id); err != nil {
		if docstore.IsNotFound(err) {
			return apierr.NotFound("video_not_found", "video %q not found", id)
		}
		return err
	}
	if err := cs.videoRepo.Delete(dbctx.New(ctx), id); err != nil {
		return fmt.Errorf("delete video %s: %w", id, err)
	}
	cs.notifier.CatalogChanged(ctx, "video", id, "deleted")
	return nil
}

func (cs *catalogService) CaptureFrame(ctx context.Context, id string, frame []byte) (*types.Video, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if len(frame) == 0 {
		return nil, apierr.BadRequest("missing_frame", "frame image is required")
	}
	if cs.artwork == nil {
		return nil, fmt.Errorf("artwork service not configured")
	}
	v, err := cs.videoRepo.Get(ctx, id)
	if err != nil {
		if docstore.IsNotFound(err) {
			return nil, apierr.NotFound("video_not_found", "video %q not found", id)
		}
		return nil, err
	}
	imgs, err := cs.artwork.FromFrame(frame)
	if err != nil {
		return nil, apierr.BadRequest("invalid_frame", "could not decode frame: %v", err)
	}
	thumb, poster, err := cs.artwork.UploadFrame(ctx, id, imgs)
	if err != nil {
		return nil, err
	}
	if err := cs.videoRepo.UpdateFields(dbctx.New(ctx), id, []docstore.Update{
		{Path: "thumbnailUrl", Value: thumb},
		{Path: "posterUrl", Value: poster},
	}); err != nil {
		return nil, fmt.Errorf("update frame urls: %w", err)
	}
	v.ThumbnailURL, v.PosterURL = thumb, poster
	cs.notifier.CatalogChanged(ctx, "video", id, "updated")
	return v, nil
}

func normalizeTags(in []string) []string {
	out := []string{}
	for _, t := range in {
		if t = types.NormalizeTag(t); t != "" {
			out = mergeStrings(out, []string{t})
		}
	}
	return out
}

func normalizeTitles(in []string) []string {
	out := []string{}
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t != "" && !containsFold(out, t) {
			out = append(out, t)
		}
	}
	return out
}

// mergeStrings appends the values of b missing from a, keeping order.
func mergeStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string{}, a...), b...) {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), s) {
			return true
		}
	}
	return false
}
