package services

import (
	"context"
	"fmt"

	"github.com/yungbote/framevault-backend/internal/data/repos"
	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/pkg/dbctx"
	"github.com/yungbote/framevault-backend/internal/platform/docstore"
	"github.com/yungbote/framevault-backend/internal/taxonomy"
)

// tagSource backs a tag board with tags or shortFilmTags; the bucket is the tag's group field.
type tagSource struct {
	kind    types.Kind
	tagRepo repos.TagRepo
}

func (s *tagSource) Load(ctx context.Context) ([]taxonomy.Label, error) {
	tags, err := s.tagRepo.List(ctx, s.kind)
	if err != nil {
		return nil, err
	}
	out := make([]taxonomy.Label, 0, len(tags))
	for _, t := range tags {
		out = append(out, taxonomy.Label{ID: t.ID, Name: t.Name, Group: t.Group})
	}
	return out, nil
}

func (s *tagSource) Persist(ctx context.Context, l taxonomy.Label, bucket string) error {
	return s.tagRepo.SetGroup(dbctx.New(ctx), s.kind, l.ID, bucket)
}

func (s *tagSource) Delete(ctx context.Context, l taxonomy.Label) error {
	return s.tagRepo.Delete(dbctx.New(ctx), s.kind, l.ID)
}

// categorySource backs the long-form category board; buckets are marker tags.
type categorySource struct {
	rules        taxonomy.Rules
	categoryRepo repos.CategoryRepo
}

func (s *categorySource) Load(ctx context.Context) ([]taxonomy.Label, error) {
	cats, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]taxonomy.Label, 0, len(cats))
	for _, c := range cats {
		out = append(out, taxonomy.Label{ID: c.ID, Name: c.Title, Tags: append([]string(nil), c.Tags...)})
	}
	return out, nil
}

func (s *categorySource) Persist(ctx context.Context, l taxonomy.Label, bucket string) error {
	c, err := s.categoryRepo.Get(ctx, l.ID)
	if err != nil {
		return err
	}
	tags := taxonomy.RetagForBucket(s.rules, c.Tags, bucket)
	return s.categoryRepo.UpdateFields(dbctx.New(ctx), l.ID, []docstore.Update{{Path: "tags", Value: tags}})
}

func (s *categorySource) Delete(ctx context.Context, l taxonomy.Label) error {
	return s.categoryRepo.Delete(dbctx.New(ctx), l.ID)
}

// shortCategorySource backs the shorts category board. A short category
// document with no tags field classifies by its own title; once a move has
// written tags, even an empty list, the title no longer counts.
type shortCategorySource struct {
	rules             taxonomy.Rules
	shortCategoryRepo repos.ShortCategoryRepo
}

func (s *shortCategorySource) Load(ctx context.Context) ([]taxonomy.Label, error) {
	cats, err := s.shortCategoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]taxonomy.Label, 0, len(cats))
	for _, c := range cats {
		tags := append([]string(nil), c.Tags...)
		if c.TagsUnset {
			tags = []string{c.Title}
		}
		out = append(out, taxonomy.Label{ID: c.ID, Name: c.Title, Tags: tags})
	}
	return out, nil
}

func (s *shortCategorySource) Persist(ctx context.Context, l taxonomy.Label, bucket string) error {
	cats, err := s.shortCategoryRepo.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range cats {
		if c.ID == l.ID {
			tags := taxonomy.RetagForBucket(s.rules, c.Tags, bucket)
			return s.shortCategoryRepo.SetTags(dbctx.New(ctx), c.ID, tags)
		}
	}
	return fmt.Errorf("short category %q: %w", l.ID, docstore.ErrNotFound)
}

func (s *shortCategorySource) Delete(ctx context.Context, l taxonomy.Label) error {
	return s.shortCategoryRepo.Delete(dbctx.New(ctx), l.ID)
}
