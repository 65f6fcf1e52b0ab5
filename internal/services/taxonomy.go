package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/yungbote/framevault-backend/internal/data/repos"
	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/platform/apierr"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
	"github.com/yungbote/framevault-backend/internal/taxonomy"
)

// BoardKey identifies one organizer board: a label family within a video kind.
type BoardKey struct {
	Kind  taxonomy.Kind
	Scope types.Kind
}

func (k BoardKey) String() string { return string(k.Kind) + "/" + string(k.Scope) }

// ParseBoardKey validates the kind and scope path segments.
func ParseBoardKey(kind, scope string) (BoardKey, error) {
	k, ok := taxonomy.ParseKind(kind)
	if !ok {
		return BoardKey{}, apierr.BadRequest("invalid_kind", "kind must be tags or categories")
	}
	if strings.TrimSpace(scope) == "" {
		return BoardKey{}, apierr.BadRequest("invalid_scope", "scope must be videos or shorts")
	}
	s, ok := types.ParseKind(scope)
	if !ok {
		return BoardKey{}, apierr.BadRequest("invalid_scope", "scope must be videos or shorts")
	}
	return BoardKey{Kind: k, Scope: s}, nil
}

type BoardView struct {
	Board     string             `json:"board"`
	Buckets   taxonomy.Partition `json:"buckets"`
	Selection []string           `json:"selection"`
}

type TaxonomyService interface {
	// Board reloads the board from the store and returns its partition.
	Board(ctx context.Context, key BoardKey) (*BoardView, error)
	Move(ctx context.Context, key BoardKey, label, to string) (taxonomy.MoveResult, error)
	Select(ctx context.Context, key BoardKey, label string) ([]string, error)
	Delete(ctx context.Context, key BoardKey, label string) error
}

type taxonomyService struct {
	log               *logger.Logger
	tagRepo           repos.TagRepo
	categoryRepo      repos.CategoryRepo
	shortCategoryRepo repos.ShortCategoryRepo
	notifier          CatalogNotifier

	mu     sync.Mutex
	boards map[BoardKey]*taxonomy.Board
}

func NewTaxonomyService(
	log *logger.Logger,
	tagRepo repos.TagRepo,
	categoryRepo repos.CategoryRepo,
	shortCategoryRepo repos.ShortCategoryRepo,
	notifier CatalogNotifier,
) TaxonomyService {
	if notifier == nil {
		notifier = NewCatalogNotifier(nil)
	}
	return &taxonomyService{
		log:               log.With("service", "TaxonomyService"),
		tagRepo:           tagRepo,
		categoryRepo:      categoryRepo,
		shortCategoryRepo: shortCategoryRepo,
		notifier:          notifier,
		boards:            map[BoardKey]*taxonomy.Board{},
	}
}

func (ts *taxonomyService) board(key BoardKey) (*taxonomy.Board, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if b, ok := ts.boards[key]; ok {
		return b, nil
	}
	rules, err := taxonomy.DefaultRules(key.Kind)
	if err != nil {
		return nil, fmt.Errorf("load %s rules: %w", key.Kind, err)
	}
	var src taxonomy.Source
	switch {
	case key.Kind == taxonomy.KindTags:
		src = &tagSource{kind: key.Scope, tagRepo: ts.tagRepo}
	case key.Scope.IsShort():
		src = &shortCategorySource{rules: rules, shortCategoryRepo: ts.shortCategoryRepo}
	default:
		src = &categorySource{rules: rules, categoryRepo: ts.categoryRepo}
	}
	b := taxonomy.NewBoard(key.String(), rules, src, ts.log)
	ts.boards[key] = b
	return b, nil
}

func (ts *taxonomyService) Board(ctx context.Context, key BoardKey) (*BoardView, error) {
	id, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	b, err := ts.board(key)
	if err != nil {
		return nil, err
	}
	p, err := b.Reload(ctx)
	if err != nil {
		return nil, err
	}
	return &BoardView{Board: key.String(), Buckets: p, Selection: b.Selection(id.UID)}, nil
}

func (ts *taxonomyService) Move(ctx context.Context, key BoardKey, label, to string) (taxonomy.MoveResult, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return taxonomy.MoveResult{}, err
	}
	b, err := ts.board(key)
	if err != nil {
		return taxonomy.MoveResult{}, err
	}
	if b.Partition().Len() == 0 {
		if _, err := b.Reload(ctx); err != nil {
			return taxonomy.MoveResult{}, err
		}
	}
	res, err := b.Move(ctx, label, to)
	if res.Outcome != taxonomy.MoveNoop {
		ts.notifier.TaxonomyChanged(ctx, key.String(), map[string]any{
			"label":   label,
			"from":    res.From,
			"to":      res.To,
			"outcome": res.Outcome,
		})
	}
	if err != nil {
		return res, fmt.Errorf("move %q to %q: %w", label, to, err)
	}
	return res, nil
}

func (ts *taxonomyService) Select(ctx context.Context, key BoardKey, label string) ([]string, error) {
	id, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(label) == "" {
		return nil, apierr.BadRequest("missing_label", "label is required")
	}
	b, err := ts.board(key)
	if err != nil {
		return nil, err
	}
	return b.Toggle(id.UID, label), nil
}

func (ts *taxonomyService) Delete(ctx context.Context, key BoardKey, label string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	b, err := ts.board(key)
	if err != nil {
		return err
	}
	if err := b.Delete(ctx, label); err != nil {
		return err
	}
	ts.notifier.TaxonomyChanged(ctx, key.String(), map[string]any{"label": label, "outcome": "deleted"})
	return nil
}
