package app

import (
	"strings"
	"time"

	"github.com/yungbote/framevault-backend/internal/platform/envutil"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
	"github.com/yungbote/framevault-backend/internal/realtime/bus"
	"github.com/yungbote/framevault-backend/internal/services"
)

const (
	DocstoreFirestore = "firestore"
	DocstoreMemory    = "memory"
)

type Config struct {
	Port        string
	LogMode     string
	ServiceName string
	Environment string

	SessionSecret string
	SessionIssuer string

	DocstoreMode string
	BucketName   string
	SignedURLTTL time.Duration
	MaxUploadMB  int

	FeedPageSize    int
	FeedMaxPageSize int

	TagSuggestionsEnabled bool
	OtelEnabled           bool
	MetricsEnabled        bool
	MetricsAddr           string

	AllowedOrigins  []string
	AuthzPolicyPath string
	RedisChannel    string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		LogMode:     envutil.String("LOG_MODE", "development"),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", "framevault"),
		Environment: envutil.String("APP_ENV", "development"),

		SessionSecret: envutil.String("SESSION_JWT_SECRET", ""),
		SessionIssuer: envutil.String("SESSION_JWT_ISSUER", ""),

		DocstoreMode: strings.ToLower(envutil.String("DOCSTORE_MODE", DocstoreFirestore)),
		BucketName:   envutil.String("GCS_BUCKET_NAME", ""),
		SignedURLTTL: envutil.Duration("SIGNED_URL_TTL", services.DefaultSignedURLTTL),
		MaxUploadMB:  envutil.Int("MAX_UPLOAD_MB", 512),

		FeedPageSize:    envutil.Int("FEED_PAGE_SIZE", 5),
		FeedMaxPageSize: envutil.Int("FEED_MAX_PAGE_SIZE", 50),

		TagSuggestionsEnabled: envutil.Bool("TAG_SUGGESTIONS_ENABLED", false),
		OtelEnabled:           envutil.Bool("OTEL_ENABLED", false),
		MetricsEnabled:        envutil.Bool("METRICS_ENABLED", false),
		MetricsAddr:           envutil.String("METRICS_ADDR", ""),

		AllowedOrigins:  envutil.CSV("CORS_ALLOWED_ORIGINS", nil),
		AuthzPolicyPath: envutil.String("AUTHZ_POLICY_PATH", ""),
		RedisChannel:    envutil.String("REDIS_CHANNEL", bus.DefaultChannel),
	}
	if cfg.DocstoreMode != DocstoreMemory {
		cfg.DocstoreMode = DocstoreFirestore
	}
	if log != nil {
		log.Info("config loaded",
			"port", cfg.Port,
			"docstore_mode", cfg.DocstoreMode,
			"bucket", cfg.BucketName,
			"feed_page_size", cfg.FeedPageSize,
			"tag_suggestions", cfg.TagSuggestionsEnabled,
			"metrics", cfg.MetricsEnabled,
			"otel", cfg.OtelEnabled,
		)
	}
	return cfg
}
