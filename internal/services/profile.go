package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/framevault-backend/internal/data/repos"
	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/platform/apierr"
	"github.com/yungbote/framevault-backend/internal/platform/ctxutil"
	"github.com/yungbote/framevault-backend/internal/platform/docstore"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

// MyList is the "My List" page: every affinity resolved to documents.
type MyList struct {
	LikedVideos     []*types.Video    `json:"likedVideos"`
	LikedCategories []*types.Category `json:"likedCategories"`
	RecentlyViewed  []*types.Video    `json:"recentlyViewed"`
	SavedShorts     []*types.Video    `json:"savedShorts"`
}

type ProfileService interface {
	// Ensure creates the caller's profile and customer record on first sign-in.
	Ensure(ctx context.Context) (*types.UserProfile, error)
	Get(ctx context.Context) (*types.UserProfile, error)
	MyList(ctx context.Context) (*MyList, error)
	// SetAffinity adds value to (on) or removes it from one of the caller's lists.
	SetAffinity(ctx context.Context, list types.AffinityList, value string, on bool) (*types.UserProfile, error)
}

type profileService struct {
	log          *logger.Logger
	profileRepo  repos.ProfileRepo
	videoRepo    repos.VideoRepo
	categoryRepo repos.CategoryRepo
}

func NewProfileService(log *logger.Logger, profileRepo repos.ProfileRepo, videoRepo repos.VideoRepo, categoryRepo repos.CategoryRepo) ProfileService {
	return &profileService{
		log:          log.With("service", "ProfileService"),
		profileRepo:  profileRepo,
		videoRepo:    videoRepo,
		categoryRepo: categoryRepo,
	}
}

func callerUID(ctx context.Context) (*ctxutil.Identity, error) {
	id := ctxutil.GetIdentity(ctx)
	if id == nil || strings.TrimSpace(id.UID) == "" {
		return nil, apierr.Unauthorized("unauthenticated")
	}
	return id, nil
}

func (ps *profileService) Ensure(ctx context.Context) (*types.UserProfile, error) {
	id, err := callerUID(ctx)
	if err != nil {
		return nil, err
	}
	existing, err := ps.profileRepo.Get(ctx, id.UID)
	if err == nil {
		return existing, nil
	}
	if !docstore.IsNotFound(err) {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	p := &types.UserProfile{
		UID:                  id.UID,
		DisplayName:          id.DisplayName,
		Email:                id.Email,
		Role:                 types.RoleUser,
		LikedVideos:          []string{},
		LikedCategories:      []string{},
		SavedShorts:          []string{},
		RecentlyViewedShorts: []string{},
	}
	if err := ps.profileRepo.Create(ctx, p); err != nil {
		ps.log.Error("create profile failed", "uid", id.UID, "error", err)
		return nil, fmt.Errorf("create profile: %w", err)
	}
	ps.log.Info("profile created", "uid", id.UID)
	return p, nil
}

func (ps *profileService) Get(ctx context.Context) (*types.UserProfile, error) {
	id, err := callerUID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := ps.profileRepo.Get(ctx, id.UID)
	if err != nil {
		if docstore.IsNotFound(err) {
			return nil, apierr.NotFound("profile_not_found", "profile not found")
		}
		return nil, err
	}
	return p, nil
}

func (ps *profileService) SetAffinity(ctx context.Context, list types.AffinityList, value string, on bool) (*types.UserProfile, error) {
	id, err := callerUID(ctx)
	if err != nil {
		return nil, err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, apierr.BadRequest("invalid_reference", "empty %s reference", list)
	}
	if on {
		err = ps.profileRepo.AddToList(ctx, id.UID, list, value)
	} else {
		err = ps.profileRepo.RemoveFromList(ctx, id.UID, list, value)
	}
	if err != nil {
		ps.log.Warn("affinity update failed", "uid", id.UID, "list", list, "on", on, "error", err)
		return nil, fmt.Errorf("update %s: %w", list, err)
	}
	p, err := ps.profileRepo.Get(ctx, id.UID)
	if docstore.IsNotFound(err) {
		return &types.UserProfile{UID: id.UID, Role: types.RoleUser}, nil
	}
	return p, err
}

func (ps *profileService) MyList(ctx context.Context) (*MyList, error) {
	p, err := ps.Get(ctx)
	if err != nil {
		return nil, err
	}
	out := &MyList{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vs, err := ps.videoRepo.GetByIDs(gctx, p.LikedVideos)
		out.LikedVideos = vs
		return err
	})
	g.Go(func() error {
		vs, err := ps.videoRepo.GetByIDs(gctx, p.RecentlyViewedShorts)
		out.RecentlyViewed = vs
		return err
	})
	g.Go(func() error {
		vs, err := ps.videoRepo.GetByIDs(gctx, p.SavedShorts)
		out.SavedShorts = vs
		return err
	})
	g.Go(func() error {
		all, err := ps.categoryRepo.ListByStatus(gctx, types.CategoryPublished)
		if err != nil {
			return err
		}
		out.LikedCategories = []*types.Category{}
		for _, c := range all {
			for _, title := range p.LikedCategories {
				if strings.EqualFold(c.Title, title) {
					out.LikedCategories = append(out.LikedCategories, c)
					break
				}
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("my list: %w", err)
	}
	return out, nil
}
