package domain

import (
	"github.com/yungbote/framevault-backend/internal/domain/catalog"
	"github.com/yungbote/framevault-backend/internal/domain/uploads"
	"github.com/yungbote/framevault-backend/internal/domain/user"
)

// Document collections.
const (
	CollectionVideos              = "videos"
	CollectionCategories          = "categories"
	CollectionUsers               = "users"
	CollectionCustomers           = "customers"
	CollectionTags                = "tags"
	CollectionShortFilmTags       = "shortFilmTags"
	CollectionShortFilmCategories = "shortFilmCategories"
)

type (
	Video          = catalog.Video
	Category       = catalog.Category
	CategoryStatus = catalog.CategoryStatus
	Tag            = catalog.Tag
	Kind           = catalog.Kind

	UserProfile  = user.Profile
	Role         = user.Role
	AffinityList = user.AffinityList

	Upload       = uploads.Upload
	UploadStatus = uploads.Status
)

const (
	KindVideos = catalog.KindVideos
	KindShorts = catalog.KindShorts

	CategoryDraft     = catalog.CategoryDraft
	CategoryPublished = catalog.CategoryPublished

	RoleUser  = user.RoleUser
	RoleAdmin = user.RoleAdmin

	LikedVideos          = user.LikedVideos
	LikedCategories      = user.LikedCategories
	SavedShorts          = user.SavedShorts
	RecentlyViewedShorts = user.RecentlyViewedShorts

	FolderVideos     = uploads.FolderVideos
	FolderShorts     = uploads.FolderShorts
	FolderThumbnails = uploads.FolderThumbnails
	FolderPosters    = uploads.FolderPosters
	FolderCategories = uploads.FolderCategories
	FolderDefault    = uploads.FolderDefault

	UploadPending = uploads.StatusPending
	UploadSuccess = uploads.StatusSuccess
	UploadError   = uploads.StatusError
)

// TagCollection returns the tag collection for a video kind.
func TagCollection(k Kind) string {
	if k.IsShort() {
		return CollectionShortFilmTags
	}
	return CollectionTags
}

var (
	ParseKind    = catalog.ParseKind
	ParseRole    = user.ParseRole
	NormalizeTag = catalog.NormalizeTag
	ValidKey     = catalog.ValidKey
	Slugify      = catalog.Slugify
	BrowseHref   = catalog.BrowseHref

	ResolveFolder = uploads.ResolveFolder
	ObjectKey     = uploads.ObjectKey
)
