package library

import (
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Engine computes views over a catalog. It holds no per-query state and is
// safe for concurrent use.
type Engine struct {
	lang   language.Tag
	logger *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLanguage sets the collation language used for title ordering.
func WithLanguage(tag language.Tag) Option {
	return func(e *Engine) { e.lang = tag }
}

// WithLogger routes engine warnings to l.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine returns an engine collating titles in English unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{lang: language.English, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// ComputeView runs the pipeline with the default engine.
func ComputeView(catalog []ContentItem, q QueryState) []ContentItem {
	return defaultEngine.ComputeView(catalog, q)
}

// ComputeView filters catalog by search text, type and status, then stable
// sorts the survivors. The catalog is never modified.
func (e *Engine) ComputeView(catalog []ContentItem, q QueryState) []ContentItem {
	needle := strings.ToLower(q.SearchText)
	out := make([]ContentItem, 0, len(catalog))
	for _, item := range catalog {
		if !matchesSearch(item, needle) {
			continue
		}
		if !matchesSelection(item.Type, q.Types) {
			continue
		}
		if !matchesSelection(item.Status, q.Statuses) {
			continue
		}
		out = append(out, item)
	}
	e.sortItems(out, q.SortKey, q.SortDirection)
	return out
}

func matchesSearch(item ContentItem, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Title), needle)
}

func matchesSelection(value string, sel Selection) bool {
	if sel.IsEmpty() {
		return true // no filter = show all
	}
	return sel.Has(value)
}

func (e *Engine) sortItems(items []ContentItem, key SortKey, dir SortDirection) {
	cmp := e.comparator(key)
	if cmp == nil {
		e.logger.Warn("unknown sort key, leaving order unchanged", "key", key)
		return
	}
	if dir == Descending {
		asc := cmp
		cmp = func(a, b ContentItem) int { return -asc(a, b) }
	}
	slices.SortStableFunc(items, cmp)
}

// comparator returns the ascending comparison for key, or nil when the key is
// not recognized. A collator is built per call since collators keep scratch
// buffers and must not be shared between goroutines.
func (e *Engine) comparator(key SortKey) func(a, b ContentItem) int {
	switch key {
	case SortByDate:
		return func(a, b ContentItem) int { return a.Date.Compare(b.Date) }
	case SortByTitle:
		c := collate.New(e.lang)
		return func(a, b ContentItem) int { return c.CompareString(a.Title, b.Title) }
	case SortByViews:
		return func(a, b ContentItem) int {
			switch {
			case a.Views < b.Views:
				return -1
			case a.Views > b.Views:
				return 1
			}
			return 0
		}
	}
	return nil
}
