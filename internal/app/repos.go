package app

import (
	"github.com/yungbote/framevault-backend/internal/data/repos"
	"github.com/yungbote/framevault-backend/internal/platform/docstore"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

type Repos struct {
	Video         repos.VideoRepo
	Category      repos.CategoryRepo
	Tag           repos.TagRepo
	ShortCategory repos.ShortCategoryRepo
	Profile       repos.ProfileRepo
}

func wireRepos(store docstore.Store, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Video:         repos.NewVideoRepo(store, log),
		Category:      repos.NewCategoryRepo(store, log),
		Tag:           repos.NewTagRepo(store, log),
		ShortCategory: repos.NewShortCategoryRepo(store, log),
		Profile:       repos.NewProfileRepo(store, log),
	}
}
