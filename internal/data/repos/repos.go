package repos

import (
	"github.com/yungbote/framevault-backend/internal/data/repos/catalog"
	"github.com/yungbote/framevault-backend/internal/data/repos/user"
	"github.com/yungbote/framevault-backend/internal/platform/docstore"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

type VideoRepo = catalog.VideoRepo
type CategoryRepo = catalog.CategoryRepo
type TagRepo = catalog.TagRepo
type ShortCategoryRepo = catalog.ShortCategoryRepo

type ProfileRepo = user.ProfileRepo

func NewVideoRepo(store docstore.Store, baseLog *logger.Logger) VideoRepo {
	return catalog.NewVideoRepo(store, baseLog)
}
func NewCategoryRepo(store docstore.Store, baseLog *logger.Logger) CategoryRepo {
	return catalog.NewCategoryRepo(store, baseLog)
}
func NewTagRepo(store docstore.Store, baseLog *logger.Logger) TagRepo {
	return catalog.NewTagRepo(store, baseLog)
}
func NewShortCategoryRepo(store docstore.Store, baseLog *logger.Logger) ShortCategoryRepo {
	return catalog.NewShortCategoryRepo(store, baseLog)
}

func NewProfileRepo(store docstore.Store, baseLog *logger.Logger) ProfileRepo {
	return user.NewProfileRepo(store, baseLog)
}
