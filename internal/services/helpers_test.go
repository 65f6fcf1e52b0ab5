package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/framevault-backend/internal/data/repos"
	"github.com/yungbote/framevault-backend/internal/data/repos/testutil"
	"github.com/yungbote/framevault-backend/internal/platform/docstore"
	"github.com/yungbote/framevault-backend/internal/platform/gcp"
	"github.com/yungbote/framevault-backend/internal/realtime"
)

const testBucketBase = "https://storage.googleapis.com/test-bucket/"

func adminCtx() context.Context { return testutil.AdminContext("admin-1") }

func userCtx(uid string) context.Context { return testutil.UserContext(uid) }

// testRepos bundles every repository over one memory store.
type testRepos struct {
	store         docstore.Store
	videos        repos.VideoRepo
	categories    repos.CategoryRepo
	tags          repos.TagRepo
	shortCategory repos.ShortCategoryRepo
	profiles      repos.ProfileRepo
}

func newTestRepos(t *testing.T) *testRepos {
	t.Helper()
	s := testutil.Store(t)
	log := testutil.Logger(t)
	return &testRepos{
		store:         s,
		videos:        repos.NewVideoRepo(s, log),
		categories:    repos.NewCategoryRepo(s, log),
		tags:          repos.NewTagRepo(s, log),
		shortCategory: repos.NewShortCategoryRepo(s, log),
		profiles:      repos.NewProfileRepo(s, log),
	}
}

type fakeBucket struct {
	mu        sync.Mutex
	objects   map[string][]byte
	public    map[string]bool
	uploadErr error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}, public: map[string]bool{}}
}

func (b *fakeBucket) Upload(_ context.Context, key string, r io.Reader, _ string) error {
	if b.uploadErr != nil {
		return b.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	return nil
}

func (b *fakeBucket) MakePublic(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[key]; !ok {
		return gcp.ErrObjectNotFound
	}
	b.public[key] = true
	return nil
}

func (b *fakeBucket) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	return nil
}

func (b *fakeBucket) Exists(_ context.Context, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[key]
	return ok, nil
}

func (b *fakeBucket) Download(_ context.Context, key string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	if !ok {
		return nil, gcp.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *fakeBucket) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("%s%s?ttl=%s", testBucketBase, key, ttl), nil
}

func (b *fakeBucket) ListKeys(_ context.Context, prefix string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for k := range b.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (b *fakeBucket) GetPublicURL(key string) string { return testBucketBase + key }

func (b *fakeBucket) KeyFromURL(rawURL string) (string, bool) {
	if !strings.HasPrefix(rawURL, testBucketBase) {
		return "", false
	}
	return strings.TrimPrefix(rawURL, testBucketBase), true
}

func (b *fakeBucket) ObjectURI(key string) string { return "gs://test-bucket/" + key }

func (b *fakeBucket) Close() error { return nil }

func (b *fakeBucket) keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.objects))
	for k := range b.objects {
		out = append(out, k)
	}
	return out
}

type recordingEmitter struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (e *recordingEmitter) Emit(_ context.Context, msg realtime.SSEMessage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.msgs = append(e.msgs, msg)
}

func (e *recordingEmitter) events() []realtime.SSEEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]realtime.SSEEvent, 0, len(e.msgs))
	for _, m := range e.msgs {
		out = append(out, m.Event)
	}
	return out
}

var errBoom = errors.New("boom")
