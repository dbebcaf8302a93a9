package library

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// maxSuggestRatio is the largest edit-distance/length ratio still offered as
// a "did you mean" candidate.
const maxSuggestRatio = 0.5

// Suggest returns up to n catalog titles close to text, best first. It is
// meant for an empty view: titles that already contain text are skipped.
func Suggest(catalog []ContentItem, text string, n int) []string {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" || n <= 0 {
		return nil
	}
	type candidate struct {
		title string
		ratio float64
	}
	var cands []candidate
	for _, item := range catalog {
		title := strings.ToLower(item.Title)
		if strings.Contains(title, needle) {
			continue
		}
		best := ratio(needle, title)
		for _, word := range strings.Fields(title) {
			if r := ratio(needle, word); r < best {
				best = r
			}
		}
		if best < maxSuggestRatio {
			cands = append(cands, candidate{title: item.Title, ratio: best})
		}
	}
	slices.SortStableFunc(cands, func(a, b candidate) int {
		switch {
		case a.ratio < b.ratio:
			return -1
		case a.ratio > b.ratio:
			return 1
		}
		return 0
	})
	out := make([]string, 0, min(n, len(cands)))
	for _, c := range cands {
		if len(out) == n {
			break
		}
		out = append(out, c.title)
	}
	return out
}

func ratio(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 0
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}
