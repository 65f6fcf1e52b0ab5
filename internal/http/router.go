package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/framevault-backend/internal/authz"
	types "github.com/yungbote/framevault-backend/internal/domain"
	httpH "github.com/yungbote/framevault-backend/internal/http/handlers"
	httpMW "github.com/yungbote/framevault-backend/internal/http/middleware"
	"github.com/yungbote/framevault-backend/internal/observability"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	TracingEnabled bool
	AllowedOrigins []string
	Metrics        *observability.Metrics
	Enforcer       *authz.Enforcer
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler   *httpH.HealthHandler
	FeedHandler     *httpH.FeedHandler
	BrowseHandler   *httpH.BrowseHandler
	ProfileHandler  *httpH.ProfileHandler
	MediaHandler    *httpH.MediaHandler
	RealtimeHandler *httpH.RealtimeHandler

	CatalogHandler  *httpH.CatalogHandler
	CategoryHandler *httpH.CategoryHandler
	TaxonomyHandler *httpH.TaxonomyHandler
	UploadHandler   *httpH.UploadHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	httpH.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		name := cfg.ServiceName
		if name == "" {
			name = "framevault"
		}
		r.Use(otelgin.Middleware(name))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log, "/healthcheck", "/readyz"))
	r.Use(httpMW.Metrics(cfg.Metrics, "/api/realtime/stream"))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.OptionalAuth())
	}
	api.Use(httpMW.Authorize(cfg.Enforcer, cfg.Metrics))

	// Consumer
	if cfg.FeedHandler != nil {
		api.GET("/feed", cfg.FeedHandler.ListVideos)
		api.GET("/shorts", cfg.FeedHandler.ListShorts)
		api.GET("/shorts/:id", cfg.FeedHandler.GetShort)
		api.GET("/videos/:id", cfg.FeedHandler.GetVideo)
	}
	if cfg.BrowseHandler != nil {
		api.GET("/browse", cfg.BrowseHandler.Browse)
		api.GET("/categories/:id", cfg.BrowseHandler.GetCategory)
	}
	if cfg.MediaHandler != nil {
		api.GET("/media/*path", cfg.MediaHandler.Redirect)
	}

	// Signed-in
	if cfg.ProfileHandler != nil {
		h := cfg.ProfileHandler
		api.GET("/me", h.GetMe)
		api.POST("/me/profile", h.Ensure)
		api.GET("/me/list", h.MyList)
		api.PUT("/me/liked-videos/:id", h.Affinity(types.LikedVideos, "id", true))
		api.DELETE("/me/liked-videos/:id", h.Affinity(types.LikedVideos, "id", false))
		api.PUT("/me/liked-categories/:title", h.Affinity(types.LikedCategories, "title", true))
		api.DELETE("/me/liked-categories/:title", h.Affinity(types.LikedCategories, "title", false))
		api.PUT("/me/saved-shorts/:id", h.Affinity(types.SavedShorts, "id", true))
		api.DELETE("/me/saved-shorts/:id", h.Affinity(types.SavedShorts, "id", false))
		api.POST("/me/recently-viewed/:id", h.Affinity(types.RecentlyViewedShorts, "id", true))
	}
	if cfg.RealtimeHandler != nil {
		api.GET("/realtime/stream", cfg.RealtimeHandler.SSEStream)
	}

	// Admin
	admin := api.Group("/admin")
	if cfg.CatalogHandler != nil {
		h := cfg.CatalogHandler
		admin.GET("/videos", h.List)
		admin.POST("/videos", h.Create)
		admin.PUT("/videos/:id", h.Update)
		admin.DELETE("/videos/:id", h.Delete)
		admin.POST("/videos/:id/frame", h.CaptureFrame)
		if h.SuggestionsEnabled() {
			admin.POST("/videos/:id/suggest-tags", h.SuggestTags)
		}
	}
	if cfg.CategoryHandler != nil {
		h := cfg.CategoryHandler
		admin.GET("/categories", h.List)
		admin.POST("/categories", h.Create)
		admin.POST("/categories/draft", h.CreateDraft)
		admin.POST("/categories/publish-all", h.PublishAll)
		admin.PUT("/categories/order", h.Reorder)
		admin.PUT("/categories/:id", h.Update)
		admin.DELETE("/categories/:id", h.Delete)
		admin.POST("/categories/:id/publish", h.Publish)
		admin.PUT("/categories/:id/tags", h.SetTags)
	}
	if cfg.TaxonomyHandler != nil {
		h := cfg.TaxonomyHandler
		admin.GET("/taxonomy/:kind/:scope", h.Board)
		admin.POST("/taxonomy/:kind/:scope/move", h.Move)
		admin.POST("/taxonomy/:kind/:scope/select", h.Select)
		admin.DELETE("/taxonomy/:kind/:scope/:label", h.Delete)
		admin.POST("/tags/reindex", h.Reindex)
	}
	if cfg.UploadHandler != nil {
		admin.GET("/uploads", cfg.UploadHandler.List)
		admin.POST("/uploads", cfg.UploadHandler.Upload)
	}

	return r
}
