package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/platform/gcp"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

const (
	ThumbnailWidth  = 1280
	ThumbnailHeight = 720
	PosterWidth     = 400
	PosterHeight    = 600
	CategoryWidth   = 400
	CategoryHeight  = 300
)

// FrameImages are the two renditions cut from one captured frame.
type FrameImages struct {
	Thumbnail []byte
	Poster    []byte
}

type ArtworkService interface {
	// Placeholder renders a titled gradient card, uploads it under folder and returns its public URL.
	Placeholder(ctx context.Context, folder, title string, w, h int) (string, error)
	// FromFrame centre-crops raw into a 16:9 thumbnail and a 2:3 poster.
	FromFrame(raw []byte) (*FrameImages, error)
	// UploadFrame stores both renditions and returns their public URLs.
	UploadFrame(ctx context.Context, videoID string, imgs *FrameImages) (thumbURL, posterURL string, err error)
}

type artworkService struct {
	log           *logger.Logger
	bucketService gcp.BucketService
	font          *truetype.Font
	now           func() time.Time
}

func NewArtworkService(log *logger.Logger, bucketService gcp.BucketService) (ArtworkService, error) {
	serviceLog := log.With("service", "ArtworkService")
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("could not load artwork font: %w", err)
	}
	return &artworkService{
		log:           serviceLog,
		bucketService: bucketService,
		font:          f,
		now:           time.Now,
	}, nil
}

func (as *artworkService) Placeholder(ctx context.Context, folder, title string, w, h int) (string, error) {
	if as.bucketService == nil {
		return PlaceholderURL(w, h), nil
	}
	buf, err := as.render(title, w, h)
	if err != nil {
		return "", err
	}
	key := types.ObjectKey(folder, "placeholder-"+types.Slugify(title)+".png", as.now())
	if err := as.bucketService.Upload(ctx, key, bytes.NewReader(buf.Bytes()), "image/png"); err != nil {
		return "", fmt.Errorf("upload placeholder: %w", err)
	}
	if err := as.bucketService.MakePublic(ctx, key); err != nil {
		as.log.Warn("make placeholder public failed (continuing)", "key", key, "error", err)
	}
	return as.bucketService.GetPublicURL(key), nil
}

// PlaceholderURL is the hosted fallback when no bucket is configured.
func PlaceholderURL(w, h int) string {
	return fmt.Sprintf("https://placehold.co/%dx%d.png", w, h)
}

func (as *artworkService) render(title string, w, h int) (bytes.Buffer, error) {
	var buf bytes.Buffer
	if w <= 0 || h <= 0 {
		return buf, fmt.Errorf("invalid placeholder size %dx%d", w, h)
	}
	top, bottom := gradientFor(title)

	dc := gg.NewContext(w, h)
	grad := gg.NewLinearGradient(0, 0, float64(w), float64(h))
	grad.AddColorStop(0, top)
	grad.AddColorStop(1, bottom)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()

	label := strings.TrimSpace(title)
	if label != "" {
		dc.SetFontFace(as.face(float64(h) / 8))
		dc.SetColor(color.White)
		dc.DrawStringWrapped(label, float64(w)/2, float64(h)/2, 0.5, 0.5, float64(w)*0.85, 1.3, gg.AlignCenter)
	}
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

func (as *artworkService) face(size float64) font.Face {
	if size < 12 {
		size = 12
	}
	return truetype.NewFace(as.font, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
}

// gradientFor derives two stable colours from the title so a card keeps its look across renders.
func gradientFor(title string) (color.NRGBA, color.NRGBA) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(title)))
	sum := h.Sum32()
	top := color.NRGBA{R: uint8(sum >> 24), G: uint8(sum >> 16), B: uint8(sum >> 8), A: 255}
	bottom := color.NRGBA{R: top.B / 3, G: top.R / 3, B: top.G / 3, A: 255}
	return top, bottom
}

func (as *artworkService) FromFrame(raw []byte) (*FrameImages, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	thumb, err := cropScalePNG(img, ThumbnailWidth, ThumbnailHeight)
	if err != nil {
		return nil, err
	}
	poster, err := cropScalePNG(img, PosterWidth, PosterHeight)
	if err != nil {
		return nil, err
	}
	return &FrameImages{Thumbnail: thumb, Poster: poster}, nil
}

func (as *artworkService) UploadFrame(ctx context.Context, videoID string, imgs *FrameImages) (string, string, error) {
	if as.bucketService == nil {
		return "", "", fmt.Errorf("object storage not configured")
	}
	at := as.now()
	thumbKey := types.ObjectKey(types.FolderThumbnails, videoID+"-frame.png", at)
	posterKey := types.ObjectKey(types.FolderPosters, videoID+"-frame.png", at)
	for _, item := range []struct {
		key  string
		data []byte
	}{{thumbKey, imgs.Thumbnail}, {posterKey, imgs.Poster}} {
		if err := as.bucketService.Upload(ctx, item.key, bytes.NewReader(item.data), "image/png"); err != nil {
			return "", "", fmt.Errorf("upload %s: %w", item.key, err)
		}
		if err := as.bucketService.MakePublic(ctx, item.key); err != nil {
			as.log.Warn("make frame public failed (continuing)", "key", item.key, "error", err)
		}
	}
	return as.bucketService.GetPublicURL(thumbKey), as.bucketService.GetPublicURL(posterKey), nil
}

// cropScalePNG centre-crops img to the w:h aspect ratio, then scales it to w x h.
func cropScalePNG(img image.Image, w, h int) ([]byte, error) {
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW == 0 || srcH == 0 {
		return nil, fmt.Errorf("empty image")
	}
	cropW, cropH := srcW, srcW*h/w
	if cropH > srcH {
		cropH = srcH
		cropW = srcH * w / h
	}
	x0 := b.Min.X + (srcW-cropW)/2
	y0 := b.Min.Y + (srcH-cropH)/2
	cropRect := image.Rect(x0, y0, x0+cropW, y0+cropH)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, cropRect, draw.Over, nil)

	dc := gg.NewContextForRGBA(dst)
	var out bytes.Buffer
	if err := dc.EncodePNG(&out); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return out.Bytes(), nil
}
