package catalog

import "strings"

// Tag documents are keyed by the tag name. Group is only read by the admin organizer.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Group string `json:"group,omitempty"`
}

// NormalizeTag trims and lower-cases a free-text tag.
func NormalizeTag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidKey reports whether s can key a tag or short category document:
// non-empty, no "/", not "." or "..", not a reserved __name__, at most 1500 bytes.
func ValidKey(s string) bool {
	switch {
	case s == "" || s == "." || s == "..":
		return false
	case strings.Contains(s, "/"):
		return false
	case len(s) > 4 && strings.HasPrefix(s, "__") && strings.HasSuffix(s, "__"):
		return false
	}
	return len(s) <= 1500
}

// Slugify lower-cases and replaces whitespace runs with "-", the form category titles take as tags.
func Slugify(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
