// Package testdata builds synthetic content catalogs for load tests and demos.
package testdata

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jask/rangmanch/internal/database/repository"
	"github.com/jask/rangmanch/internal/library"
)

var (
	topics = []string{
		"SEO", "Email Campaigns", "Brand Voice", "Audience Growth", "Video Editing",
		"Analytics", "Social Media", "Product Launch", "Storytelling", "Newsletter",
		"Influencer Outreach", "Content Calendar", "Conversion", "Retention",
	}
	formats = []string{
		"Guide to %s", "%s Checklist", "%s in Practice", "Rethinking %s",
		"%s for Beginners", "Advanced %s", "%s Myths", "The State of %s",
	}
	types    = []string{library.TypeBlogPost, library.TypeVideo, library.TypeInfographic, library.TypeCaseStudy, "Podcast"}
	statuses = []string{library.StatusPublished, library.StatusPublished, library.StatusDraft, library.StatusScheduled}
	epoch    = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Catalog returns n synthetic items with ids 1..n. The same seed always
// yields the same catalog. Titles repeat, so sorts exercise their tie rules.
func Catalog(n int, seed int64) []library.ContentItem {
	r := rand.New(rand.NewSource(seed))
	items := make([]library.ContentItem, 0, max(n, 0))
	for i := 0; i < n; i++ {
		topic := topics[r.Intn(len(topics))]
		item := library.ContentItem{
			ID:     i + 1,
			Title:  fmt.Sprintf(formats[r.Intn(len(formats))], topic),
			Type:   types[r.Intn(len(types))],
			Date:   epoch.AddDate(0, 0, r.Intn(365)),
			Status: statuses[r.Intn(len(statuses))],
		}
		if item.Status == library.StatusPublished {
			item.Views = r.Intn(20000)
		}
		item.Thumbnail = "https://source.unsplash.com/random/300x200?" + topicSlug(topic)
		items = append(items, item)
	}
	return items
}

func topicSlug(topic string) string {
	return strings.ReplaceAll(strings.ToLower(topic), " ", "-")
}

// Seed replaces the stored catalog with Catalog(n, seed).
func Seed(ctx context.Context, content *repository.ContentRepo, n int, seed int64) error {
	if n <= 0 {
		return fmt.Errorf("catalog size must be positive, got %d", n)
	}
	if err := content.ReplaceAll(ctx, Catalog(n, seed)); err != nil {
		return fmt.Errorf("seed synthetic catalog: %w", err)
	}
	return nil
}
