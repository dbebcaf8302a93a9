//go:build loadtest

package library_test

import (
	"sort"
	"testing"
	"time"

	"github.com/jask/rangmanch/internal/library"
	"github.com/jask/rangmanch/internal/testdata"
)

func TestComputeView10kP95(t *testing.T) {
	items := testdata.Catalog(10_000, 42)
	engine := library.NewEngine()
	q := library.DefaultQuery().
		WithSearch("seo").
		ToggleType(library.TypeBlogPost).
		ToggleType(library.TypeVideo).
		ToggleStatus(library.StatusPublished)

	runs := 60
	durations := make([]time.Duration, 0, runs)
	for i := 0; i < runs; i++ {
		key := []library.SortKey{library.SortByDate, library.SortByTitle, library.SortByViews}[i%3]
		start := time.Now()
		_ = engine.ComputeView(items, q.WithSort(key, library.Descending))
		durations = append(durations, time.Since(start))
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	p95 := durations[int(float64(len(durations)-1)*0.95)]
	if p95 > 100*time.Millisecond {
		t.Fatalf("compute view p95=%s exceeds 100ms target", p95)
	}
}

func BenchmarkComputeViewTitleSort(b *testing.B) {
	items := testdata.Catalog(10_000, 42)
	engine := library.NewEngine()
	q := library.DefaultQuery().WithSort(library.SortByTitle, library.Ascending)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = engine.ComputeView(items, q)
	}
}
