// Package catalog reads and writes content catalogs as YAML files.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jask/rangmanch/internal/library"
)

// ErrInvalidCatalog wraps every validation failure.
var ErrInvalidCatalog = errors.New("invalid catalog")

// entry is the file form of a content item; dates are YYYY-MM-DD strings.
type entry struct {
	ID        int    `yaml:"id"`
	Title     string `yaml:"title"`
	Type      string `yaml:"type"`
	Date      string `yaml:"date"`
	Status    string `yaml:"status"`
	Views     int    `yaml:"views"`
	Thumbnail string `yaml:"thumbnail,omitempty"`
}

// Decode parses a YAML list of items and validates it as a whole. All
// problems are reported together.
func Decode(r io.Reader) ([]library.ContentItem, error) {
	var entries []entry
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return []library.ContentItem{}, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	items := make([]library.ContentItem, 0, len(entries))
	seen := make(map[int]int, len(entries))
	var problems []string
	for i, e := range entries {
		at := fmt.Sprintf("item %d", i+1)
		if e.ID <= 0 {
			problems = append(problems, fmt.Sprintf("%s: id must be positive", at))
		} else if prev, dup := seen[e.ID]; dup {
			problems = append(problems, fmt.Sprintf("%s: id %d already used by item %d", at, e.ID, prev))
		} else {
			seen[e.ID] = i + 1
		}
		if strings.TrimSpace(e.Title) == "" {
			problems = append(problems, fmt.Sprintf("%s: title is required", at))
		}
		if e.Type == "" {
			problems = append(problems, fmt.Sprintf("%s: type is required", at))
		}
		if e.Status == "" {
			problems = append(problems, fmt.Sprintf("%s: status is required", at))
		}
		if e.Views < 0 {
			problems = append(problems, fmt.Sprintf("%s: views must not be negative", at))
		}
		date, err := library.ParseDate(e.Date)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", at, err))
		}
		items = append(items, library.ContentItem{
			ID:        e.ID,
			Title:     e.Title,
			Type:      e.Type,
			Date:      date,
			Status:    e.Status,
			Views:     e.Views,
			Thumbnail: e.Thumbnail,
		})
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(problems, "; "))
	}
	return items, nil
}

// Encode writes items as a YAML list.
func Encode(w io.Writer, items []library.ContentItem) error {
	entries := make([]entry, 0, len(items))
	for _, it := range items {
		entries = append(entries, entry{
			ID:        it.ID,
			Title:     it.Title,
			Type:      it.Type,
			Date:      it.DateISO(),
			Status:    it.Status,
			Views:     it.Views,
			Thumbnail: it.Thumbnail,
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return enc.Close()
}

// LoadFile decodes the catalog at path.
func LoadFile(path string) ([]library.ContentItem, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	items, err := Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}
