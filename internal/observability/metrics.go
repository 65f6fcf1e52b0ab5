package observability

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/yungbote/framevault-backend/internal/platform/envutil"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

type MetricsConfig struct {
	Enabled bool
	// LatencySLO splits API requests into good and slow for the SLO ratio.
	LatencySLO time.Duration
	// RedisPingInterval paces the redis health collector.
	RedisPingInterval time.Duration
}

func MetricsConfigFromEnv(enabled bool) MetricsConfig {
	cfg := MetricsConfig{
		Enabled:           enabled,
		LatencySLO:        envutil.Duration("SLO_API_LATENCY", 500*time.Millisecond),
		RedisPingInterval: envutil.Duration("METRICS_REDIS_PING_INTERVAL", 10*time.Second),
	}
	if cfg.LatencySLO <= 0 {
		cfg.LatencySLO = 500 * time.Millisecond
	}
	if cfg.RedisPingInterval <= 0 {
		cfg.RedisPingInterval = 10 * time.Second
	}
	return cfg
}

// Metrics holds the HTTP, realtime and dependency collectors. Collectors owned
// by other packages (paginate, taxonomy, uploads, authz) register on the same
// default registry and are served by the same handler.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	cfg MetricsConfig

	apiRequests    *prometheus.CounterVec
	apiLatency     *prometheus.HistogramVec
	apiInflight    prometheus.Gauge
	apiServerError prometheus.Counter
	apiWithinSLO   prometheus.Counter
	securityEvents *prometheus.CounterVec
	sseConnections *prometheus.GaugeVec
	redisUp        prometheus.Gauge
	redisPing      prometheus.Gauge

	handler http.Handler
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init registers the collectors once per process and returns nil when
// metrics are disabled.
func Init(log *logger.Logger, cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = newMetrics(cfg)
		if log != nil {
			log.Info("metrics enabled", "latency_slo", cfg.LatencySLO.String())
		}
	})
	return instance
}

func newMetrics(cfg MetricsConfig) *Metrics {
	labels := []string{"method", "route", "status"}
	return &Metrics{
		cfg: cfg,
		apiRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "framevault_api_requests_total",
			Help: "API requests by method, route pattern and status.",
		}, labels),
		apiLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "framevault_api_request_duration_seconds",
			Help:    "API request latency by method, route pattern and status.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15, 60},
		}, labels),
		apiInflight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "framevault_api_inflight_requests",
			Help: "API requests currently being served, SSE streams included.",
		}),
		apiServerError: promauto.NewCounter(prometheus.CounterOpts{
			Name: "framevault_api_requests_error_total",
			Help: "API requests answered with a 5xx status.",
		}),
		apiWithinSLO: promauto.NewCounter(prometheus.CounterOpts{
			Name: "framevault_api_requests_good_total",
			Help: "API requests answered without a 5xx inside the latency SLO.",
		}),
		securityEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "framevault_security_events_total",
			Help: "Rejected sessions and denied routes by event.",
		}, []string{"event"}),
		sseConnections: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "framevault_sse_connections",
			Help: "Open realtime streams by caller role.",
		}, []string{"role"}),
		redisUp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "framevault_redis_up",
			Help: "1 when the last redis ping succeeded.",
		}),
		redisPing: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "framevault_redis_ping_seconds",
			Help: "Latency of the last successful redis ping.",
		}),
		handler: promhttp.Handler(),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	m.handler.ServeHTTP(w, r)
}

// StartServer serves /metrics on its own listener until ctx ends.
func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	addr = strings.TrimSpace(addr)
	if m == nil || addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", m.WriteHTTP)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) && log != nil {
			log.Error("metrics server failed", "error", err, "addr", addr)
		}
	}()
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
	if strings.HasPrefix(status, "5") {
		m.apiServerError.Inc()
		return
	}
	if dur <= m.cfg.LatencySLO {
		m.apiWithinSLO.Inc()
	}
}

func (m *Metrics) ApiInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) ApiInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

func (m *Metrics) IncSecurityEvent(event string) {
	if m == nil {
		return
	}
	if event = strings.TrimSpace(event); event == "" {
		event = "unknown"
	}
	m.securityEvents.WithLabelValues(event).Inc()
}

// SSEOpened counts a realtime stream; call the returned func when it closes.
func (m *Metrics) SSEOpened(role string) func() {
	if m == nil {
		return func() {}
	}
	if role == "" {
		role = "user"
	}
	g := m.sseConnections.WithLabelValues(role)
	g.Inc()
	var once sync.Once
	return func() { once.Do(g.Dec) }
}

// StartRedisCollector pings rdb until ctx ends.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb *redis.Client) {
	if m == nil || rdb == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.cfg.RedisPingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil && ctx.Err() == nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
