package app

import (
	"context"

	"github.com/yungbote/framevault-backend/internal/authz"
	"github.com/yungbote/framevault-backend/internal/http"
	httpH "github.com/yungbote/framevault-backend/internal/http/handlers"
	httpMW "github.com/yungbote/framevault-backend/internal/http/middleware"
	"github.com/yungbote/framevault-backend/internal/observability"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
	"github.com/yungbote/framevault-backend/internal/realtime"
)

type Middleware struct {
	Auth     *httpMW.AuthMiddleware
	Enforcer *authz.Enforcer
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Feed     *httpH.FeedHandler
	Browse   *httpH.BrowseHandler
	Profile  *httpH.ProfileHandler
	Media    *httpH.MediaHandler
	Realtime *httpH.RealtimeHandler
	Catalog  *httpH.CatalogHandler
	Category *httpH.CategoryHandler
	Taxonomy *httpH.TaxonomyHandler
	Upload   *httpH.UploadHandler
}

func wireHandlers(log *logger.Logger, cfg Config, s Services, clients Clients, sseHub *realtime.SSEHub, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	checks := map[string]httpH.Pinger{}
	if clients.Redis != nil {
		rdb := clients.Redis
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	h := Handlers{
		Health:   httpH.NewHealthHandler(checks),
		Feed:     httpH.NewFeedHandler(log, s.Feed),
		Browse:   httpH.NewBrowseHandler(log, s.Browse),
		Profile:  httpH.NewProfileHandler(log, s.Profile),
		Realtime: httpH.NewRealtimeHandler(log, sseHub, metrics),
		Catalog:  httpH.NewCatalogHandler(log, s.Catalog, s.Suggest),
		Category: httpH.NewCategoryHandler(log, s.Category),
		Taxonomy: httpH.NewTaxonomyHandler(log, s.Taxonomy, s.Indexer),
	}
	if s.Media != nil {
		h.Media = httpH.NewMediaHandler(log, s.Media)
	}
	if s.Upload != nil {
		h.Upload = httpH.NewUploadHandler(log, s.Upload, int64(cfg.MaxUploadMB)<<20)
	}
	return h
}

func wireMiddleware(log *logger.Logger, cfg Config, s Services, metrics *observability.Metrics) (Middleware, error) {
	log.Info("Wiring middleware...")
	enforcer, err := authz.NewEnforcer(log, authz.Config{PolicyPath: cfg.AuthzPolicyPath})
	if err != nil {
		return Middleware{}, err
	}
	return Middleware{
		Auth:     httpMW.NewAuthMiddleware(log, s.Session, metrics),
		Enforcer: enforcer,
	}, nil
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *http.Server {
	return http.NewServer(routerConfig(log, cfg, handlers, middleware, metrics))
}

func routerConfig(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) http.RouterConfig {
	return http.RouterConfig{
		Log:             log,
		ServiceName:     cfg.ServiceName,
		TracingEnabled:  cfg.OtelEnabled,
		AllowedOrigins:  cfg.AllowedOrigins,
		Metrics:         metrics,
		Enforcer:        middleware.Enforcer,
		AuthMiddleware:  middleware.Auth,
		HealthHandler:   handlers.Health,
		FeedHandler:     handlers.Feed,
		BrowseHandler:   handlers.Browse,
		ProfileHandler:  handlers.Profile,
		MediaHandler:    handlers.Media,
		RealtimeHandler: handlers.Realtime,
		CatalogHandler:  handlers.Catalog,
		CategoryHandler: handlers.Category,
		TaxonomyHandler: handlers.Taxonomy,
		UploadHandler:   handlers.Upload,
	}
}
