package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"

	"github.com/jask/rangmanch/internal/catalog"
	"github.com/jask/rangmanch/internal/config"
	"github.com/jask/rangmanch/internal/database/repository"
	"github.com/jask/rangmanch/internal/library"
)

// suggestLimit caps "did you mean" titles shown for an empty view.
const suggestLimit = 3

// LibraryService serves content library views over the stored catalog.
type LibraryService struct {
	Content *repository.ContentRepo
	Engine  *library.Engine
}

// LibraryView is one computed page of the content library.
type LibraryView struct {
	Items       []library.ContentItem
	Options     library.FilterOptions
	Total       int
	Suggestions []string
}

// NewEngine builds the query engine for cfg, falling back to English for an
// unparseable collation tag.
func NewEngine(cfg config.LibraryConfig, opts ...library.Option) *library.Engine {
	tag, err := language.Parse(cfg.Collation)
	if err != nil {
		tag = language.English
	}
	return library.NewEngine(append([]library.Option{library.WithLanguage(tag)}, opts...)...)
}

// DefaultQuery is the opening query for cfg. Invalid values fall back to
// newest first.
func DefaultQuery(cfg config.LibraryConfig) library.QueryState {
	q := library.DefaultQuery()
	key, ok := library.ParseSortKey(cfg.DefaultSort)
	if !ok {
		return q
	}
	dir, ok := library.ParseSortDirection(cfg.DefaultDirection)
	if !ok {
		return q
	}
	return q.WithSort(key, dir)
}

func (s *LibraryService) engine() *library.Engine {
	if s.Engine == nil {
		return library.NewEngine()
	}
	return s.Engine
}

// Catalog returns the full stored catalog.
func (s *LibraryService) Catalog(ctx context.Context) ([]library.ContentItem, error) {
	items, err := s.Content.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	return items, nil
}

// View computes q over the stored catalog.
func (s *LibraryService) View(ctx context.Context, q library.QueryState) (LibraryView, error) {
	items, err := s.Catalog(ctx)
	if err != nil {
		return LibraryView{}, err
	}
	return s.ViewOf(items, q), nil
}

// ViewOf computes q over an already loaded catalog.
func (s *LibraryService) ViewOf(items []library.ContentItem, q library.QueryState) LibraryView {
	v := LibraryView{
		Items:   s.engine().ComputeView(items, q),
		Options: library.Options(items),
		Total:   len(items),
	}
	if len(v.Items) == 0 && strings.TrimSpace(q.SearchText) != "" {
		v.Suggestions = library.Suggest(items, q.SearchText, suggestLimit)
	}
	return v
}

// Get returns one item, or nil when it does not exist.
func (s *LibraryService) Get(ctx context.Context, id int) (*library.ContentItem, error) {
	return s.Content.Get(ctx, id)
}

// Duplicate copies id into a new draft.
func (s *LibraryService) Duplicate(ctx context.Context, id int) (*library.ContentItem, error) {
	cp, err := s.Content.Duplicate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("duplicate %d: %w", id, err)
	}
	return cp, nil
}

// Delete removes id and reports whether it existed.
func (s *LibraryService) Delete(ctx context.Context, id int) (bool, error) {
	ok, err := s.Content.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete %d: %w", id, err)
	}
	return ok, nil
}

// Replace swaps the stored catalog for items.
func (s *LibraryService) Replace(ctx context.Context, items []library.ContentItem) error {
	if err := s.Content.ReplaceAll(ctx, items); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}

// Export writes the stored catalog as YAML.
func (s *LibraryService) Export(ctx context.Context, w io.Writer) error {
	items, err := s.Catalog(ctx)
	if err != nil {
		return err
	}
	return catalog.Encode(w, items)
}
