// Package testutil builds memory-backed stores, seeded documents and caller
// identities for package tests.
package testutil

import (
	"context"
	"os"
	"sync"
	"testing"

	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/platform/ctxutil"
	"github.com/yungbote/framevault-backend/internal/platform/docstore"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

// Test output stays quiet unless FRAMEVAULT_TEST_LOG is set.
var sharedLogger = sync.OnceValues(func() (*logger.Logger, error) {
	if os.Getenv("FRAMEVAULT_TEST_LOG") == "" {
		return logger.Nop(), nil
	}
	return logger.New("development")
})

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := sharedLogger()
	if err != nil {
		tb.Fatalf("init logger: %v", err)
	}
	return log
}

// Store returns a fresh in-memory document store closed at test cleanup.
func Store(tb testing.TB) docstore.Store {
	tb.Helper()
	s := docstore.NewMemory()
	tb.Cleanup(func() { _ = s.Close() })
	return s
}

// MustGet fails the test when collection/id is missing.
func MustGet(tb testing.TB, s docstore.Store, collection, id string) *docstore.Doc {
	tb.Helper()
	doc, err := s.Get(context.Background(), collection, id)
	if err != nil {
		tb.Fatalf("get %s/%s: %v", collection, id, err)
	}
	return doc
}

// AdminContext carries a signed-in admin, as the auth middleware would set it.
func AdminContext(uid string) context.Context {
	return identity(uid, types.RoleAdmin)
}

func UserContext(uid string) context.Context {
	return identity(uid, types.RoleUser)
}

func identity(uid string, role types.Role) context.Context {
	return ctxutil.WithIdentity(context.Background(), &ctxutil.Identity{UID: uid, Role: string(role)})
}
