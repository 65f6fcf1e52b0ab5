package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/yungbote/framevault-backend/internal/data/repos"
	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/platform/apierr"
	"github.com/yungbote/framevault-backend/internal/platform/docstore"
	"github.com/yungbote/framevault-backend/internal/platform/gcp"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
	"github.com/yungbote/framevault-backend/internal/taxonomy"
)

const (
	suggestMaxLabels = 20
	suggestMinScore  = 0.5
)

type SuggestedTag struct {
	Tag    string  `json:"tag"`
	Score  float64 `json:"score"`
	Source string  `json:"source"`
	// Existing is true when the video already carries the tag.
	Existing bool `json:"existing"`
}

type TagSuggestions struct {
	VideoID string             `json:"videoId"`
	Tags    []SuggestedTag     `json:"tags"`
	Groups  taxonomy.Partition `json:"groups"`
}

type TagSuggestService interface {
	// Suggest labels the video's thumbnail (or image, when given) and, for
	// bucket-hosted videos, the video itself.
	Suggest(ctx context.Context, videoID string, image []byte) (*TagSuggestions, error)
}

type tagSuggestService struct {
	log           *logger.Logger
	videoRepo     repos.VideoRepo
	bucketService gcp.BucketService
	vision        gcp.Vision
	video         gcp.Video
}

func NewTagSuggestService(log *logger.Logger, videoRepo repos.VideoRepo, bucketService gcp.BucketService, vision gcp.Vision, video gcp.Video) TagSuggestService {
	return &tagSuggestService{
		log:           log.With("service", "TagSuggestService"),
		videoRepo:     videoRepo,
		bucketService: bucketService,
		vision:        vision,
		video:         video,
	}
}

func (ts *tagSuggestService) Suggest(ctx context.Context, videoID string, image []byte) (*TagSuggestions, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	v, err := ts.videoRepo.Get(ctx, videoID)
	if err != nil {
		if docstore.IsNotFound(err) {
			return nil, apierr.NotFound("video_not_found", "video %q not found", videoID)
		}
		return nil, err
	}

	var labels []gcp.Label
	if ts.vision != nil {
		var imgLabels []gcp.Label
		switch {
		case len(image) > 0:
			imgLabels, err = ts.vision.LabelImage(ctx, image, suggestMaxLabels)
		case v.ThumbnailURL != "":
			imgLabels, err = ts.vision.LabelImageURI(ctx, ts.objectURI(v.ThumbnailURL), suggestMaxLabels)
		}
		if err != nil {
			return nil, fmt.Errorf("label image: %w", err)
		}
		labels = append(labels, imgLabels...)
	}
	if ts.video != nil && ts.bucketService != nil {
		if key, ok := ts.bucketService.KeyFromURL(v.VideoURL); ok {
			vidLabels, err := ts.video.LabelVideoGCS(ctx, ts.bucketService.ObjectURI(key))
			if err != nil {
				// image labels are still useful on their own
				ts.log.Warn("video labeling failed", "video_id", v.ID, "error", err)
			} else {
				labels = append(labels, vidLabels...)
			}
		}
	}

	rules, err := taxonomy.DefaultRules(taxonomy.KindTags)
	if err != nil {
		return nil, err
	}
	out := &TagSuggestions{VideoID: v.ID, Tags: rankLabels(labels, v)}
	items := make([]taxonomy.Label, 0, len(out.Tags))
	for _, t := range out.Tags {
		items = append(items, taxonomy.Label{ID: t.Tag, Name: t.Tag})
	}
	out.Groups = taxonomy.Classify(rules, items)
	return out, nil
}

// objectURI prefers the gs:// form for bucket-hosted images so Vision reads them directly.
func (ts *tagSuggestService) objectURI(rawURL string) string {
	if ts.bucketService != nil {
		if key, ok := ts.bucketService.KeyFromURL(rawURL); ok {
			return ts.bucketService.ObjectURI(key)
		}
	}
	return rawURL
}

// rankLabels normalizes label names into tags, keeps the best score per tag
// and drops low-confidence ones.
func rankLabels(labels []gcp.Label, v *types.Video) []SuggestedTag {
	best := map[string]SuggestedTag{}
	for _, l := range labels {
		tag := types.NormalizeTag(l.Name)
		if tag == "" || l.Score < suggestMinScore {
			continue
		}
		if cur, ok := best[tag]; ok && cur.Score >= l.Score {
			continue
		}
		best[tag] = SuggestedTag{Tag: tag, Score: l.Score, Source: l.Source, Existing: v.HasTag(tag)}
	}
	out := make([]SuggestedTag, 0, len(best))
	for _, t := range best {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return strings.Compare(out[i].Tag, out[j].Tag) < 0
	})
	if len(out) > suggestMaxLabels {
		out = out[:suggestMaxLabels]
	}
	return out
}
