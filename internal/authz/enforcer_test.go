package authz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

func setupEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	e, err := NewEnforcer(logger.Nop(), Config{})
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	return e
}

func TestEmbeddedPolicy(t *testing.T) {
	e := setupEnforcer(t)
	cases := []struct {
		role, path, method string
		want               bool
	}{
		{"", "/api/feed", "GET", true},
		{"", "/api/media/videos/1_a.mp4", "GET", true},
		{"", "/api/me", "GET", false},
		{"user", "/api/me/liked-videos/v1", "PUT", true},
		{"user", "/api/me/liked-videos/v1", "DELETE", true},
		{"user", "/api/browse", "GET", true},
		{"user", "/api/admin/videos", "GET", false},
		{"admin", "/api/admin/videos/v1", "DELETE", true},
		{"admin", "/api/admin/taxonomy/tags/videos/move", "POST", true},
		{"admin", "/api/me", "GET", true},
		{"admin", "/api/feed", "PATCH", false},
	}
	for _, tc := range cases {
		if got := e.Allow(tc.role, tc.path, tc.method); got != tc.want {
			t.Fatalf("Allow(%q, %q, %q): want=%v got=%v", tc.role, tc.path, tc.method, tc.want, got)
		}
	}
}

func TestPolicyFileOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.csv")
	if err := os.WriteFile(path, []byte("p, editor, /api/admin/*, GET\n"), 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}
	e, err := NewEnforcer(logger.Nop(), Config{PolicyPath: path})
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	if !e.Allow("editor", "/api/admin/videos", "GET") {
		t.Fatalf("editor should read admin routes under the file policy")
	}
	if e.Allow("admin", "/api/admin/videos", "GET") {
		t.Fatalf("file policy replaces the embedded one")
	}
}
