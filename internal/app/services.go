package app

import (
	"fmt"

	"github.com/yungbote/framevault-backend/internal/platform/docstore"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
	"github.com/yungbote/framevault-backend/internal/realtime"
	"github.com/yungbote/framevault-backend/internal/services"
)

type Services struct {
	Session  services.SessionService
	Feed     services.FeedService
	Browse   services.BrowseService
	Profile  services.ProfileService
	Catalog  services.CatalogService
	Category services.CategoryService
	Taxonomy services.TaxonomyService
	Indexer  services.TagIndexer

	// Nil when no bucket is configured.
	Artwork services.ArtworkService
	Upload  services.UploadService
	Media   services.MediaService

	// Nil unless TAG_SUGGESTIONS_ENABLED.
	Suggest services.TagSuggestService
}

func wireServices(log *logger.Logger, cfg Config, store docstore.Store, clients Clients, r Repos, hub *realtime.SSEHub) (Services, error) {
	log.Info("Wiring services...")

	session, err := services.NewSessionService(log, r.Profile, cfg.SessionSecret, cfg.SessionIssuer)
	if err != nil {
		return Services{}, fmt.Errorf("init session service: %w", err)
	}

	notifier := services.NewCatalogNotifier(services.NewSSEEmitter(log, hub, clients.SSEBus))

	s := Services{
		Session: session,
		Feed:    services.NewFeedService(log, r.Video, cfg.FeedPageSize, cfg.FeedMaxPageSize),
		Browse:  services.NewBrowseService(log, r.Video, r.Category),
		Profile: services.NewProfileService(log, r.Profile, r.Video, r.Category),
		Indexer: services.NewTagIndexer(log, store, r.Video, r.Tag, cfg.FeedMaxPageSize),
	}

	var artwork services.ArtworkService
	if clients.GcpBucket != nil {
		artwork, err = services.NewArtworkService(log, clients.GcpBucket)
		if err != nil {
			return Services{}, fmt.Errorf("init artwork service: %w", err)
		}
		tracker := services.NewMemoryUploadTracker()
		if clients.Redis != nil {
			tracker = services.NewRedisUploadTracker(clients.Redis)
		}
		s.Artwork = artwork
		s.Upload = services.NewUploadService(log, clients.GcpBucket, tracker, notifier)
		s.Media = services.NewMediaService(log, clients.GcpBucket, cfg.SignedURLTTL)
	}

	s.Catalog = services.NewCatalogService(log, store, r.Video, r.Category, r.Tag, r.ShortCategory, artwork, notifier)
	s.Category = services.NewCategoryService(log, store, r.Category, artwork, notifier)
	s.Taxonomy = services.NewTaxonomyService(log, r.Tag, r.Category, r.ShortCategory, notifier)

	if clients.GcpVision != nil {
		s.Suggest = services.NewTagSuggestService(log, r.Video, clients.GcpBucket, clients.GcpVision, clients.GcpVideo)
	}
	return s, nil
}
