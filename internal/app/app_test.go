package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNewWithMemoryStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("LOG_MODE", "development")
	t.Setenv("DOCSTORE_MODE", "memory")
	t.Setenv("SESSION_JWT_SECRET", "app-test-secret")
	t.Setenv("GCS_BUCKET_NAME", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("TAG_SUGGESTIONS_ENABLED", "false")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("OTEL_ENABLED", "false")

	a, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)
	if err := a.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if a.Services.Upload != nil || a.Services.Media != nil {
		t.Fatalf("storage services should be nil without a bucket")
	}

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthcheck: want=200 got=%d", rec.Code)
	}
	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/feed", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("feed: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestNewRequiresSessionSecret(t *testing.T) {
	t.Setenv("DOCSTORE_MODE", "memory")
	t.Setenv("SESSION_JWT_SECRET", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("GCS_BUCKET_NAME", "")
	if _, err := New(); err == nil {
		t.Fatalf("expected error without SESSION_JWT_SECRET")
	}
}
