package gcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	videointelligence "cloud.google.com/go/videointelligence/apiv1"
	vipb "cloud.google.com/go/videointelligence/apiv1/videointelligencepb"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/yungbote/framevault-backend/internal/platform/ctxutil"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

type Video interface {
	// LabelVideoGCS runs label detection over a gs:// object, per shot and per segment.
	LabelVideoGCS(ctx context.Context, gcsURI string) ([]Label, error)
	Close() error
}

type videoService struct {
	log    *logger.Logger
	client *videointelligence.Client
	cfg    LabelConfig
	sleep  func(time.Duration)
}

func NewVideo(log *logger.Logger, cfg LabelConfig) (Video, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	c, err := videointelligence.NewClient(context.Background(), ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("videointelligence client: %w", err)
	}
	return &videoService{log: log.With("service", "gcp.Video"), client: c, cfg: cfg, sleep: time.Sleep}, nil
}

func (s *videoService) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *videoService) LabelVideoGCS(ctx context.Context, gcsURI string) ([]Label, error) {
	if !strings.HasPrefix(gcsURI, "gs://") {
		return nil, fmt.Errorf("video labels need a gs:// uri, got %q", gcsURI)
	}
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), s.cfg.VideoTimeout)
	defer cancel()

	req := &vipb.AnnotateVideoRequest{
		InputUri: gcsURI,
		Features: []vipb.Feature{vipb.Feature_LABEL_DETECTION},
		VideoContext: &vipb.VideoContext{
			LabelDetectionConfig: &vipb.LabelDetectionConfig{
				LabelDetectionMode: vipb.LabelDetectionMode_SHOT_AND_FRAME_MODE,
			},
		},
	}
	started := time.Now()
	resp, err := retryTransient(ctx, s.log, "annotate_video", s.cfg.MaxRetries, s.sleep, func() (*vipb.AnnotateVideoResponse, error) {
		op, err := s.client.AnnotateVideo(ctx, req)
		if err != nil {
			return nil, err
		}
		return op.Wait(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("annotate %s: %w", gcsURI, err)
	}
	labels := s.collect(resp)
	s.log.Debug("video labels", "uri", gcsURI, "count", len(labels), "duration_ms", time.Since(started).Milliseconds())
	return labels, nil
}

func (s *videoService) collect(resp *vipb.AnnotateVideoResponse) []Label {
	var all []Label
	for _, ar := range resp.GetAnnotationResults() {
		if ar == nil {
			continue
		}
		if e := ar.GetError(); e != nil && e.GetMessage() != "" {
			s.log.Warn("partial annotation failure", "uri", ar.GetInputUri(), "error", e.GetMessage())
		}
		all = append(all, bestSegments(ar.GetSegmentLabelAnnotations())...)
		all = append(all, bestSegments(ar.GetShotLabelAnnotations())...)
	}
	return rankLabels(all, s.cfg.MinScore)
}

// bestSegments turns each annotation into one label located at its most
// confident segment.
func bestSegments(anns []*vipb.LabelAnnotation) []Label {
	out := make([]Label, 0, len(anns))
	for _, ann := range anns {
		name := strings.TrimSpace(ann.GetEntity().GetDescription())
		if name == "" {
			continue
		}
		l := Label{Name: name, Source: LabelSourceVideo}
		for _, seg := range ann.GetSegments() {
			if c := float64(seg.GetConfidence()); c > l.Score {
				l.Score = c
				l.StartSec = seconds(seg.GetSegment().GetStartTimeOffset())
				l.EndSec = seconds(seg.GetSegment().GetEndTimeOffset())
			}
		}
		out = append(out, l)
	}
	return out
}

func seconds(d *durationpb.Duration) float64 {
	if d == nil {
		return 0
	}
	return d.AsDuration().Seconds()
}
