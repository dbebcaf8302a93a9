package library

// FilterOptions lists the values offered by the filter menu.
type FilterOptions struct {
	Types    []string `json:"types"`
	Statuses []string `json:"statuses"`
}

// Options derives the distinct types and statuses of the full catalog, in
// first-appearance order. It must be fed the unfiltered catalog so that the
// menu never shrinks while filters are active.
func Options(catalog []ContentItem) FilterOptions {
	opts := FilterOptions{Types: []string{}, Statuses: []string{}}
	seenType := map[string]struct{}{}
	seenStatus := map[string]struct{}{}
	for _, item := range catalog {
		if _, ok := seenType[item.Type]; !ok {
			seenType[item.Type] = struct{}{}
			opts.Types = append(opts.Types, item.Type)
		}
		if _, ok := seenStatus[item.Status]; !ok {
			seenStatus[item.Status] = struct{}{}
			opts.Statuses = append(opts.Statuses, item.Status)
		}
	}
	return opts
}

// SortPreset is one entry of the sort menu.
type SortPreset struct {
	Label     string
	Key       SortKey
	Direction SortDirection
}

var presets = []SortPreset{
	{Label: "Newest First", Key: SortByDate, Direction: Descending},
	{Label: "Oldest First", Key: SortByDate, Direction: Ascending},
	{Label: "Title (A-Z)", Key: SortByTitle, Direction: Ascending},
	{Label: "Most Views", Key: SortByViews, Direction: Descending},
}

// Presets returns the sort menu entries in display order.
func Presets() []SortPreset {
	out := make([]SortPreset, len(presets))
	copy(out, presets)
	return out
}

// ActivePreset returns the preset matching q's sort, if any.
func (q QueryState) ActivePreset() (SortPreset, bool) {
	for _, p := range presets {
		if p.Key == q.SortKey && p.Direction == q.SortDirection {
			return p, true
		}
	}
	return SortPreset{}, false
}

// ApplyPreset sets the sort from p.
func (q QueryState) ApplyPreset(p SortPreset) QueryState {
	return q.WithSort(p.Key, p.Direction)
}
