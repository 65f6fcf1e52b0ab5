package catalog

import "time"

type CategoryStatus string

const (
	CategoryDraft     CategoryStatus = "draft"
	CategoryPublished CategoryStatus = "published"
)

type Category struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Tags            []string       `json:"tags"`
	Status          CategoryStatus `json:"status"`
	ImageURL        string         `json:"imageUrl"`
	VideoURL        string         `json:"videoUrl,omitempty"`
	FeaturedVideoID string         `json:"featuredVideoId,omitempty"`
	SortIndex       *int           `json:"sortIndex,omitempty"`
	Href            string         `json:"href,omitempty"`
	CreatedAt       time.Time      `json:"createdAt,omitempty"`
	UpdatedAt       time.Time      `json:"updatedAt,omitempty"`
	// TagsUnset is true when the stored document has no tags field at all,
	// as opposed to an explicitly empty list.
	TagsUnset bool `json:"-"`
}

func (c *Category) IsPublished() bool { return c.Status == CategoryPublished }

// ApplyFeatured replaces the category's media with the featured video's, field by field.
func (c *Category) ApplyFeatured(v *Video) {
	if v == nil {
		return
	}
	if v.ThumbnailURL != "" {
		c.ImageURL = v.ThumbnailURL
	}
	if v.VideoURL != "" {
		c.VideoURL = v.VideoURL
	}
}

func (c *Category) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// BrowseHref is the consumer route for a category.
func BrowseHref(id string) string { return "/browse/" + id }
