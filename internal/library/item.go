// Package library holds the content catalog model and the query engine that
// turns a catalog plus the current search/filter/sort state into a view.
package library

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date layout used for catalog dates.
const DateLayout = "2006-01-02"

// Known content types. The set is open; catalogs may carry others.
const (
	TypeBlogPost    = "Blog Post"
	TypeVideo       = "Video"
	TypeInfographic = "Infographic"
	TypeCaseStudy   = "Case Study"
)

// Known lifecycle states. The set is open.
const (
	StatusPublished = "Published"
	StatusDraft     = "Draft"
	StatusScheduled = "Scheduled"
)

// ContentItem is one entry of the catalog. Items are treated as read-only.
type ContentItem struct {
	ID        int       `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Type      string    `json:"type" yaml:"type"`
	Date      time.Time `json:"date" yaml:"-"`
	Status    string    `json:"status" yaml:"status"`
	Views     int       `json:"views" yaml:"views"`
	Thumbnail string    `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
}

// ShowsViews reports whether the view count is meaningful for display.
func (c ContentItem) ShowsViews() bool {
	return c.Status == StatusPublished
}

// DateISO returns the item date as YYYY-MM-DD.
func (c ContentItem) DateISO() string {
	return c.Date.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// MustDate is ParseDate for literals in seeds and tests.
func MustDate(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}
