package uploads

import (
	"strconv"
	"strings"
	"time"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

type Upload struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	FileName   string     `json:"fileName"`
	Folder     string     `json:"folder"`
	Status     Status     `json:"status"`
	URL        string     `json:"url,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

const (
	FolderVideos     = "videos"
	FolderShorts     = "shorts"
	FolderThumbnails = "thumbnails"
	FolderPosters    = "posters"
	FolderCategories = "categories"
	FolderReferences = "Admin Videos/References"
	FolderDefault    = "uploads"
)

var allowedFolders = map[string]bool{
	FolderVideos:     true,
	FolderShorts:     true,
	FolderThumbnails: true,
	FolderPosters:    true,
	FolderCategories: true,
	FolderReferences: true,
	FolderDefault:    true,
}

// ResolveFolder returns the destination folder, falling back to "uploads" for
// empty or unknown hints.
func ResolveFolder(hint string) string {
	hint = strings.Trim(strings.TrimSpace(hint), "/")
	if allowedFolders[hint] {
		return hint
	}
	return FolderDefault
}

// ObjectKey builds "<folder>/<unixMillis>_<name>" with path separators stripped from name.
func ObjectKey(folder, name string, at time.Time) string {
	name = strings.TrimSpace(name)
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	if name == "" {
		name = "file"
	}
	return folder + "/" + strconv.FormatInt(at.UnixMilli(), 10) + "_" + name
}
