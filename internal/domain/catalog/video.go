package catalog

import (
	"strings"
	"time"
)

// Video is either long-form or a short. CategoryIDs is canonical for both;
// shorts also carry the denormalized category titles they were filed under.
type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	PosterURL    string    `json:"posterUrl"`
	VideoURL     string    `json:"videoUrl"`
	Tags         []string  `json:"tags"`
	CategoryIDs  []string  `json:"categoryIds"`
	Categories   []string  `json:"categories,omitempty"`
	IsShort      bool      `json:"isShort"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}

// Kind is the admin-facing split between long-form videos and shorts.
type Kind string

const (
	KindVideos Kind = "videos"
	KindShorts Kind = "shorts"
)

func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindVideos, "":
		return KindVideos, true
	case KindShorts:
		return KindShorts, true
	}
	return "", false
}

func (k Kind) IsShort() bool { return k == KindShorts }

func (v *Video) Kind() Kind {
	if v.IsShort {
		return KindShorts
	}
	return KindVideos
}

func (v *Video) HasTag(tag string) bool {
	for _, t := range v.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func (v *Video) InCategory(id string) bool {
	for _, c := range v.CategoryIDs {
		if c == id {
			return true
		}
	}
	return false
}

// FirstCategoryTitle is the grouping key for related shorts.
func (v *Video) FirstCategoryTitle() string {
	if len(v.Categories) == 0 {
		return ""
	}
	return v.Categories[0]
}
