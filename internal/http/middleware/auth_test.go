package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/framevault-backend/internal/authz"
	"github.com/yungbote/framevault-backend/internal/platform/ctxutil"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
	"github.com/yungbote/framevault-backend/internal/services"
)

const testSecret = "middleware-test-secret"

func signToken(t *testing.T, uid, role string) string {
	t.Helper()
	claims := services.SessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Nop()
	sessions, err := services.NewSessionService(log, nil, testSecret, "")
	if err != nil {
		t.Fatalf("NewSessionService: %v", err)
	}
	enforcer, err := authz.NewEnforcer(log, authz.Config{})
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	am := NewAuthMiddleware(log, sessions, nil)

	r := gin.New()
	api := r.Group("/api")
	api.Use(am.OptionalAuth(), Authorize(enforcer, nil))
	whoami := func(c *gin.Context) {
		uid := ""
		if id := ctxutil.GetIdentity(c.Request.Context()); id != nil {
			uid = id.UID
		}
		c.String(http.StatusOK, uid)
	}
	api.GET("/feed", whoami)
	api.GET("/me", whoami)
	api.GET("/admin/videos", whoami)
	return r
}

func TestAuthorizeByRole(t *testing.T) {
	r := newTestRouter(t)
	cases := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"anonymous feed", "/api/feed", "", http.StatusOK},
		{"anonymous me", "/api/me", "", http.StatusUnauthorized},
		{"user me", "/api/me", signToken(t, "u1", "user"), http.StatusOK},
		{"user admin", "/api/admin/videos", signToken(t, "u1", "user"), http.StatusForbidden},
		{"admin admin", "/api/admin/videos", signToken(t, "a1", "admin"), http.StatusOK},
		{"bad token", "/api/feed", "not-a-jwt", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status: want=%d got=%d body=%s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestQueryTokenIsAccepted(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/me?token="+signToken(t, "u9", "user"), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "u9" {
		t.Fatalf("query token: want=200/u9 got=%d/%s", rec.Code, rec.Body.String())
	}
}

func TestAttachTraceContextEchoesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/x", func(c *gin.Context) {
		td := ctxutil.GetTraceData(c.Request.Context())
		c.String(http.StatusOK, td.RequestID)
	})
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "req-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get(headerRequestID); got != "req-42" {
		t.Fatalf("request id header: want=%q got=%q", "req-42", got)
	}
	if rec.Body.String() != "req-42" {
		t.Fatalf("request id in context: want=%q got=%q", "req-42", rec.Body.String())
	}
}

func TestAttachTraceContextRejectsUnsafeRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "bad id\twith spaces")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	got := rec.Header().Get(headerRequestID)
	if got == "" || got == "bad id\twith spaces" {
		t.Fatalf("request id: want generated id got=%q", got)
	}
	if trace := rec.Header().Get(headerTraceID); trace != got {
		t.Fatalf("trace id falls back to request id: want=%q got=%q", got, trace)
	}
}
