package gcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/yungbote/framevault-backend/internal/platform/ctxutil"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

type Vision interface {
	LabelImage(ctx context.Context, img []byte, maxResults int) ([]Label, error)
	LabelImageURI(ctx context.Context, uri string, maxResults int) ([]Label, error)
	Close() error
}

type visionService struct {
	log    *logger.Logger
	client *vision.ImageAnnotatorClient
	cfg    LabelConfig
	sleep  func(time.Duration)
}

func NewVision(log *logger.Logger, cfg LabelConfig) (Vision, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	c, err := vision.NewImageAnnotatorClient(context.Background(), ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &visionService{log: log.With("service", "gcp.Vision"), client: c, cfg: cfg, sleep: time.Sleep}, nil
}

func (s *visionService) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *visionService) LabelImage(ctx context.Context, img []byte, maxResults int) ([]Label, error) {
	if len(img) == 0 {
		return nil, fmt.Errorf("empty image")
	}
	return s.annotate(ctx, &visionpb.Image{Content: img}, maxResults)
}

// LabelImageURI accepts gs:// object URIs or public http(s) image URLs.
func (s *visionService) LabelImageURI(ctx context.Context, uri string, maxResults int) ([]Label, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, fmt.Errorf("empty image uri")
	}
	src := &visionpb.ImageSource{ImageUri: uri}
	if strings.HasPrefix(uri, "gs://") {
		src = &visionpb.ImageSource{GcsImageUri: uri}
	}
	return s.annotate(ctx, &visionpb.Image{Source: src}, maxResults)
}

func (s *visionService) annotate(ctx context.Context, image *visionpb.Image, maxResults int) ([]Label, error) {
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), s.cfg.ImageTimeout)
	defer cancel()
	if maxResults <= 0 {
		maxResults = 15
	}
	req := &visionpb.AnnotateImageRequest{
		Image: image,
		Features: []*visionpb.Feature{
			{Type: visionpb.Feature_LABEL_DETECTION, MaxResults: int32(maxResults)},
		},
	}
	resp, err := retryTransient(ctx, s.log, "annotate_image", s.cfg.MaxRetries, s.sleep, func() (*visionpb.BatchAnnotateImagesResponse, error) {
		return s.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
			Requests: []*visionpb.AnnotateImageRequest{req},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return []Label{}, nil
	}
	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return nil, fmt.Errorf("vision label detection: %s", r0.Error.Message)
	}

	out := make([]Label, 0, len(r0.LabelAnnotations))
	for _, ann := range r0.LabelAnnotations {
		out = append(out, Label{Name: ann.GetDescription(), Score: float64(ann.GetScore()), Source: LabelSourceVision})
	}
	out = rankLabels(out, s.cfg.MinScore)
	s.log.Debug("vision labels", "count", len(out))
	return out, nil
}
