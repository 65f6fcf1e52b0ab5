package user

import (
	"context"
	"testing"

	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/data/repos/testutil"
	"github.com/yungbote/framevault-backend/internal/platform/docstore"
)

func TestProfileRepoCreateWritesCustomer(t *testing.T) {
	ctx := context.Background()
	store := testutil.Store(t)
	repo := NewProfileRepo(store, testutil.Logger(t))

	if err := repo.Create(ctx, &types.UserProfile{UID: "u1", Email: "a@example.com"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	p, err := repo.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Role != types.RoleUser || p.LikedVideos == nil {
		t.Fatalf("profile defaults: %+v", p)
	}
	cust, err := store.Get(ctx, types.CollectionCustomers, "u1")
	if err != nil {
		t.Fatalf("customer doc: %v", err)
	}
	if got := cust.String("email"); got != "a@example.com" {
		t.Fatalf("customer email: want=%q got=%q", "a@example.com", got)
	}
}

func TestProfileRepoLikeThenUnlikeRestoresMembership(t *testing.T) {
	ctx := context.Background()
	store := testutil.Store(t)
	testutil.SeedProfile(t, ctx, store, "u1", types.RoleUser)
	repo := NewProfileRepo(store, testutil.Logger(t))

	if err := repo.AddToList(ctx, "u1", types.LikedVideos, "v1"); err != nil {
		t.Fatalf("AddToList: %v", err)
	}
	if err := repo.AddToList(ctx, "u1", types.LikedVideos, "v1"); err != nil {
		t.Fatalf("AddToList twice: %v", err)
	}
	p, _ := repo.Get(ctx, "u1")
	if len(p.LikedVideos) != 1 {
		t.Fatalf("liked after double add: want=1 got=%v", p.LikedVideos)
	}
	if err := repo.RemoveFromList(ctx, "u1", types.LikedVideos, "v1"); err != nil {
		t.Fatalf("RemoveFromList: %v", err)
	}
	p, _ = repo.Get(ctx, "u1")
	if len(p.LikedVideos) != 0 {
		t.Fatalf("liked after remove: want empty got=%v", p.LikedVideos)
	}
}

func TestProfileRepoAddToListCreatesMissingProfile(t *testing.T) {
	ctx := context.Background()
	store := testutil.Store(t)
	repo := NewProfileRepo(store, testutil.Logger(t))

	if err := repo.AddToList(ctx, "u2", types.SavedShorts, "s1"); err != nil {
		t.Fatalf("AddToList: %v", err)
	}
	p, err := repo.Get(ctx, "u2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(p.SavedShorts) != 1 || p.SavedShorts[0] != "s1" {
		t.Fatalf("saved shorts: got %v", p.SavedShorts)
	}
	if err := repo.RemoveFromList(ctx, "nobody", types.SavedShorts, "s1"); err != nil {
		t.Fatalf("RemoveFromList on missing profile: %v", err)
	}
	if _, err := repo.Get(ctx, "nobody"); !docstore.IsNotFound(err) {
		t.Fatalf("RemoveFromList must not create a profile, got %v", err)
	}
}

func TestProfileRepoSetRole(t *testing.T) {
	ctx := context.Background()
	store := testutil.Store(t)
	testutil.SeedProfile(t, ctx, store, "u1", types.RoleUser)
	repo := NewProfileRepo(store, testutil.Logger(t))

	if err := repo.SetRole(ctx, "u1", types.RoleAdmin); err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	p, _ := repo.Get(ctx, "u1")
	if !p.IsAdmin() {
		t.Fatalf("role: want=admin got=%s", p.Role)
	}
}
