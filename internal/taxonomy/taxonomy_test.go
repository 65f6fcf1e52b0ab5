package taxonomy

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

func mustRules(t *testing.T, kind Kind) Rules {
	t.Helper()
	r, err := DefaultRules(kind)
	if err != nil {
		t.Fatalf("DefaultRules(%s): %v", kind, err)
	}
	return r
}

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func tagLabels(names ...string) []Label {
	out := make([]Label, 0, len(names))
	for _, n := range names {
		out = append(out, Label{ID: n, Name: n})
	}
	return out
}

func TestClassifyTagsFirstMatchWins(t *testing.T) {
	r := mustRules(t, KindTags)
	cases := map[string]string{
		"sakuga":            "Action & Combat",
		"fire-fight":        "Action & Combat",
		"smoke fx":          "Effects & Technical",
		"walk cycle":        "Character & Movement",
		"mecha":             "Subject & Genre",
		"background colour": "Uncategorized",
		"Explosion":         "Action & Combat",
	}
	for name, want := range cases {
		if got := BucketFor(r, Label{ID: name, Name: name}); got != want {
			t.Fatalf("BucketFor(%q): want=%q got=%q", name, want, got)
		}
	}
}

func TestClassifyPersistedGroupWins(t *testing.T) {
	r := mustRules(t, KindTags)
	l := Label{ID: "sakuga", Name: "sakuga", Group: "Subject & Genre"}
	if got := BucketFor(r, l); got != "Subject & Genre" {
		t.Fatalf("persisted group: want=%q got=%q", "Subject & Genre", got)
	}
	l.Group = "Not A Bucket"
	if got := BucketFor(r, l); got != "Action & Combat" {
		t.Fatalf("unknown group falls back to rules: got %q", got)
	}
}

func TestClassifyCategoriesByMarker(t *testing.T) {
	r := mustRules(t, KindCategories)
	labels := []Label{
		{ID: "c1", Name: "Ghibli", Tags: []string{"Studio"}},
		{ID: "c2", Name: "2D", Tags: []string{"Medium", "Action"}},
		{ID: "c3", Name: "Fights", Tags: []string{"Action"}},
		{ID: "c4", Name: "Misc"},
	}
	p := Classify(r, labels)
	want := map[string]string{"c1": "Studio", "c2": "Medium", "c3": "Action", "c4": "Other"}
	for id, bucket := range want {
		if got := p.BucketOf(id); got != bucket {
			t.Fatalf("BucketOf(%s): want=%q got=%q", id, bucket, got)
		}
	}
	names := make([]string, 0, len(p))
	for _, b := range p {
		names = append(names, b.Name)
	}
	if !reflect.DeepEqual(names, []string{"Studio", "Medium", "Action", "Other"}) {
		t.Fatalf("bucket order: %v", names)
	}
}

func TestClassifyIdempotentAndExhaustive(t *testing.T) {
	r := mustRules(t, KindTags)
	labels := tagLabels("sakuga", "water", "acting", "robot", "misc", "camera shake", "running", "abstract fx", "")
	first := Classify(r, labels)
	second := Classify(r, labels)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("classification not idempotent:\n%v\n%v", first, second)
	}
	if first.Len() != len(labels) {
		t.Fatalf("label count: want=%d got=%d", len(labels), first.Len())
	}
	seen := map[string]int{}
	for _, b := range first {
		for _, l := range b.Labels {
			seen[l.ID]++
		}
	}
	for _, l := range labels {
		if seen[l.ID] != 1 {
			t.Fatalf("label %q appears %d times", l.ID, seen[l.ID])
		}
	}
}

func TestRetagForBucket(t *testing.T) {
	r := mustRules(t, KindCategories)
	got := RetagForBucket(r, []string{"featured", "Studio", "Action"}, "Medium")
	if !reflect.DeepEqual(got, []string{"featured", "Medium"}) {
		t.Fatalf("retag to Medium: %v", got)
	}
	got = RetagForBucket(r, []string{"Studio"}, "Other")
	if len(got) != 0 {
		t.Fatalf("retag to Other should strip markers: %v", got)
	}
}

func TestParseRulesRejectsInvalid(t *testing.T) {
	bad := []string{
		"tags: {buckets: [{name: A, keywords: [a]}]}\ncategories: {fallback: Other}",
		"tags: {fallback: U, buckets: [{name: A}]}\ncategories: {fallback: Other}",
		"tags: {fallback: U, buckets: [{name: A, keywords: [a]}, {name: A, keywords: [b]}]}\ncategories: {fallback: Other}",
	}
	for i, doc := range bad {
		if _, err := ParseRules([]byte(doc)); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

type fakeSource struct {
	mu      sync.Mutex
	labels  map[string]Label
	fail    error
	gate    chan struct{}
	entered chan struct{}
}

func newFakeSource(labels ...Label) *fakeSource {
	s := &fakeSource{labels: map[string]Label{}}
	for _, l := range labels {
		s.labels[l.ID] = l
	}
	return s
}

func (s *fakeSource) Load(context.Context) ([]Label, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Label, 0, len(s.labels))
	for _, l := range s.labels {
		out = append(out, l)
	}
	return out, nil
}

func (s *fakeSource) Persist(_ context.Context, l Label, bucket string) error {
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	l.Group = bucket
	s.labels[l.ID] = l
	return nil
}

func (s *fakeSource) Delete(_ context.Context, l Label) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.labels, l.ID)
	return nil
}

func TestBoardMoveAppliesAndPersists(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource(tagLabels("sakuga", "water")...)
	b := NewBoard("tags/videos", mustRules(t, KindTags), src, mustTestLogger(t))
	if _, err := b.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	res, err := b.Move(ctx, "sakuga", "Subject & Genre")
	if err != nil || res.Outcome != MoveApplied {
		t.Fatalf("Move: outcome=%s err=%v", res.Outcome, err)
	}
	if res.From != "Action & Combat" || res.Partition.BucketOf("sakuga") != "Subject & Genre" {
		t.Fatalf("move result: %+v", res)
	}

	p, _ := b.Reload(ctx)
	if got := p.BucketOf("sakuga"); got != "Subject & Genre" {
		t.Fatalf("after reload: want=%q got=%q", "Subject & Genre", got)
	}
}

func TestBoardMoveIsVisibleBeforePersistCompletes(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource(tagLabels("sakuga")...)
	src.gate = make(chan struct{})
	src.entered = make(chan struct{}, 1)
	b := NewBoard("tags/videos", mustRules(t, KindTags), src, nil)
	b.Reload(ctx)

	done := make(chan MoveResult)
	go func() {
		res, _ := b.Move(ctx, "sakuga", "Uncategorized")
		done <- res
	}()
	<-src.entered
	if got := b.Partition().BucketOf("sakuga"); got != "Uncategorized" {
		t.Fatalf("optimistic state: want=%q got=%q", "Uncategorized", got)
	}
	close(src.gate)
	if res := <-done; res.Outcome != MoveApplied {
		t.Fatalf("outcome: want=%s got=%s", MoveApplied, res.Outcome)
	}
}

func TestBoardMoveFailureRevertsToAuthoritativeBucket(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource(tagLabels("sakuga", "water")...)
	b := NewBoard("tags/shorts", mustRules(t, KindTags), src, mustTestLogger(t))
	b.Reload(ctx)

	boom := errors.New("permission denied")
	src.fail = boom
	res, err := b.Move(ctx, "water", "Character & Movement")
	if !errors.Is(err, boom) || res.Outcome != MoveReverted {
		t.Fatalf("Move: outcome=%s err=%v", res.Outcome, err)
	}
	if got := b.Partition().BucketOf("water"); got != "Effects & Technical" {
		t.Fatalf("after failed move: want=%q got=%q", "Effects & Technical", got)
	}
}

func TestBoardMoveNoops(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource(tagLabels("sakuga")...)
	b := NewBoard("tags/videos", mustRules(t, KindTags), src, nil)
	b.Reload(ctx)

	for _, tc := range []struct{ id, to string }{
		{"sakuga", "Action & Combat"},
		{"sakuga", "Nowhere"},
		{"ghost", "Uncategorized"},
	} {
		res, err := b.Move(ctx, tc.id, tc.to)
		if err != nil || res.Outcome != MoveNoop {
			t.Fatalf("Move(%q,%q): outcome=%s err=%v", tc.id, tc.to, res.Outcome, err)
		}
	}
	if got := b.Partition().BucketOf("sakuga"); got != "Action & Combat" {
		t.Fatalf("no-op moved the label to %q", got)
	}
}

func TestBoardSelectionAndDelete(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource(tagLabels("sakuga", "water")...)
	b := NewBoard("tags/videos", mustRules(t, KindTags), src, nil)
	b.Reload(ctx)

	b.Toggle("admin1", "sakuga")
	sel := b.Toggle("admin1", "water")
	if !reflect.DeepEqual(sel, []string{"sakuga", "water"}) {
		t.Fatalf("selection: %v", sel)
	}
	if sel := b.Toggle("admin1", "water"); !reflect.DeepEqual(sel, []string{"sakuga"}) {
		t.Fatalf("toggle off: %v", sel)
	}
	if other := b.Selection("admin2"); len(other) != 0 {
		t.Fatalf("selections must be per owner: %v", other)
	}

	if err := b.Delete(ctx, "sakuga"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if b.Partition().BucketOf("sakuga") != "" {
		t.Fatalf("deleted label still in partition")
	}
	if sel := b.Selection("admin1"); len(sel) != 0 {
		t.Fatalf("deleted label still selected: %v", sel)
	}
	if labels, _ := src.Load(ctx); len(labels) != 1 {
		t.Fatalf("backing document not deleted: %v", labels)
	}
}
