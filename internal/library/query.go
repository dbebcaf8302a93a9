package library

import (
	"slices"
	"strings"
)

// SortKey names the field the view is ordered by.
type SortKey string

const (
	SortByDate  SortKey = "date"
	SortByTitle SortKey = "title"
	SortByViews SortKey = "views"
)

// SortDirection is the ordering direction.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// ParseSortKey accepts the canonical key names, case-insensitively.
func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortByDate:
		return SortByDate, true
	case SortByTitle:
		return SortByTitle, true
	case SortByViews:
		return SortByViews, true
	}
	return "", false
}

// ParseSortDirection accepts asc/desc and the long forms.
func ParseSortDirection(s string) (SortDirection, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, true
	case "desc", "descending":
		return Descending, true
	}
	return "", false
}

// Selection is an immutable set of filter values. The zero value is the empty
// set, which means "no filter". Toggle returns a new Selection so that query
// snapshots never share mutable state.
type Selection struct {
	m map[string]struct{}
}

// NewSelection builds a set from values; duplicates collapse.
func NewSelection(values ...string) Selection {
	if len(values) == 0 {
		return Selection{}
	}
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return Selection{m: m}
}

// Has reports membership.
func (s Selection) Has(v string) bool {
	_, ok := s.m[v]
	return ok
}

// Len returns the number of selected values.
func (s Selection) Len() int { return len(s.m) }

// IsEmpty reports whether the selection filters nothing.
func (s Selection) IsEmpty() bool { return len(s.m) == 0 }

// Toggle removes v if present and adds it otherwise.
func (s Selection) Toggle(v string) Selection {
	m := make(map[string]struct{}, len(s.m)+1)
	for k := range s.m {
		m[k] = struct{}{}
	}
	if _, ok := m[v]; ok {
		delete(m, v)
	} else {
		m[v] = struct{}{}
	}
	return Selection{m: m}
}

// Values returns the members in sorted order.
func (s Selection) Values() []string {
	out := make([]string, 0, len(s.m))
	for k := range s.m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Equal compares membership.
func (s Selection) Equal(o Selection) bool {
	if len(s.m) != len(o.m) {
		return false
	}
	for k := range s.m {
		if !o.Has(k) {
			return false
		}
	}
	return true
}

// QueryState is the library view state owned by the host UI.
type QueryState struct {
	SearchText    string
	Types         Selection
	Statuses      Selection
	SortKey       SortKey
	SortDirection SortDirection
}

// DefaultQuery is the state the library opens with: newest first, no filters.
func DefaultQuery() QueryState {
	return QueryState{SortKey: SortByDate, SortDirection: Descending}
}

func (q QueryState) WithSearch(text string) QueryState {
	q.SearchText = text
	return q
}

func (q QueryState) ToggleType(t string) QueryState {
	q.Types = q.Types.Toggle(t)
	return q
}

func (q QueryState) ToggleStatus(s string) QueryState {
	q.Statuses = q.Statuses.Toggle(s)
	return q
}

func (q QueryState) WithSort(key SortKey, dir SortDirection) QueryState {
	q.SortKey = key
	q.SortDirection = dir
	return q
}

// ClearFilters drops both filter sets, keeping search and sort.
func (q QueryState) ClearFilters() QueryState {
	q.Types = Selection{}
	q.Statuses = Selection{}
	return q
}
