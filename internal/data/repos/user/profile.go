package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/platform/docstore"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

type ProfileRepo interface {
	Get(ctx context.Context, uid string) (*types.UserProfile, error)
	// Create writes users/{uid} and the matching customers/{uid} record in one batch.
	Create(ctx context.Context, p *types.UserProfile) error
	// AddToList unions value into the list, creating the document with a merge when it is missing.
	AddToList(ctx context.Context, uid string, list types.AffinityList, value string) error
	// RemoveFromList is a no-op when the profile does not exist.
	RemoveFromList(ctx context.Context, uid string, list types.AffinityList, value string) error
	SetRole(ctx context.Context, uid string, role types.Role) error
}

type profileRepo struct {
	store docstore.Store
	log   *logger.Logger
}

func NewProfileRepo(store docstore.Store, baseLog *logger.Logger) ProfileRepo {
	return &profileRepo{store: store, log: baseLog.With("repo", "ProfileRepo")}
}

func (r *profileRepo) Get(ctx context.Context, uid string) (*types.UserProfile, error) {
	doc, err := r.store.Get(ctx, types.CollectionUsers, uid)
	if err != nil {
		return nil, err
	}
	var p types.UserProfile
	if err := doc.DataTo(&p); err != nil {
		return nil, err
	}
	p.UID = doc.ID
	if p.Role == "" {
		p.Role = types.RoleUser
	}
	return &p, nil
}

func (r *profileRepo) Create(ctx context.Context, p *types.UserProfile) error {
	if p == nil || p.UID == "" {
		return fmt.Errorf("profile uid required")
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.Role == "" {
		p.Role = types.RoleUser
	}
	fields := map[string]any{
		"uid":                              p.UID,
		"displayName":                      p.DisplayName,
		"email":                            p.Email,
		"photoURL":                         p.PhotoURL,
		"role":                             string(p.Role),
		string(types.LikedVideos):          nonNil(p.LikedVideos),
		string(types.LikedCategories):      nonNil(p.LikedCategories),
		string(types.SavedShorts):          nonNil(p.SavedShorts),
		string(types.RecentlyViewedShorts): nonNil(p.RecentlyViewedShorts),
		"createdAt":                        p.CreatedAt,
	}
	return r.store.Batch(ctx, func(b docstore.Batch) error {
		b.Set(types.CollectionUsers, p.UID, fields, false)
		b.Set(types.CollectionCustomers, p.UID, map[string]any{"email": p.Email}, true)
		return nil
	})
}

func (r *profileRepo) AddToList(ctx context.Context, uid string, list types.AffinityList, value string) error {
	err := r.store.Update(ctx, types.CollectionUsers, uid, []docstore.Update{
		{Path: string(list), Value: docstore.ArrayUnion(value)},
	})
	if errors.Is(err, docstore.ErrNotFound) {
		r.log.Debug("profile missing; creating with merge", "uid", uid, "list", list)
		return r.store.Set(ctx, types.CollectionUsers, uid, map[string]any{
			"uid":        uid,
			string(list): docstore.ArrayUnion(value),
		}, true)
	}
	return err
}

func (r *profileRepo) RemoveFromList(ctx context.Context, uid string, list types.AffinityList, value string) error {
	err := r.store.Update(ctx, types.CollectionUsers, uid, []docstore.Update{
		{Path: string(list), Value: docstore.ArrayRemove(value)},
	})
	if errors.Is(err, docstore.ErrNotFound) {
		return nil
	}
	return err
}

func (r *profileRepo) SetRole(ctx context.Context, uid string, role types.Role) error {
	return r.store.Set(ctx, types.CollectionUsers, uid, map[string]any{"role": string(role)}, true)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
