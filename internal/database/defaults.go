package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/rangmanch/internal/database/repository"
	"github.com/jask/rangmanch/internal/library"
)

var (
	analyticsPeriods = []string{"2023-01", "2023-02", "2023-03", "2023-04", "2023-05", "2023-06", "2023-07"}
	dashboardPeriods = analyticsPeriods[:6]
)

var seedSeries = []struct {
	series  string
	periods []string
	values  []float64
}{
	{repository.SeriesPageViews, analyticsPeriods, []float64{3500, 5200, 4800, 6500, 8200, 7800, 9500}},
	{repository.SeriesUniqueVisitors, analyticsPeriods, []float64{2200, 3100, 2800, 4000, 5100, 4900, 6200}},
	{repository.SeriesAvgTime, analyticsPeriods, []float64{2.5, 2.8, 3.2, 3.5, 4.0, 3.8, 4.2}},
	{repository.SeriesBounceRate, analyticsPeriods, []float64{65, 60, 55, 50, 45, 48, 42}},
	{repository.SeriesBlogPosts, analyticsPeriods, []float64{12, 19, 15, 22, 25, 28, 30}},
	{repository.SeriesVideos, analyticsPeriods, []float64{8, 12, 18, 15, 22, 25, 28}},
	{repository.SeriesInfographics, analyticsPeriods, []float64{5, 8, 10, 12, 15, 18, 20}},
	{repository.SeriesNewsletter, analyticsPeriods, []float64{150, 220, 185, 280, 320, 350, 420}},
	{repository.SeriesPurchases, analyticsPeriods, []float64{45, 65, 80, 95, 110, 130, 150}},
	{repository.SeriesContentViews, dashboardPeriods, []float64{1200, 1900, 1600, 2500, 2200, 2800}},
	{repository.SeriesEngagement, dashboardPeriods, []float64{4000, 3000, 5000, 4800, 5600, 6200}},
	{repository.SeriesSEO, dashboardPeriods, []float64{2400, 2800, 3200, 3800, 4200, 4600}},
}

var seedBreakdowns = []struct {
	dimension string
	labels    []string
	values    []float64
}{
	{repository.DimensionAge, []string{"18-24", "25-34", "35-44", "45-54", "55-64", "65+"}, []float64{15, 35, 25, 15, 7, 3}},
	{repository.DimensionGender, []string{"Male", "Female", "Other"}, []float64{42, 56, 2}},
	{repository.DimensionLocation, []string{"United States", "India", "United Kingdom", "Canada", "Australia", "Germany", "Others"}, []float64{35, 15, 12, 8, 6, 5, 19}},
	{repository.DimensionDevice, []string{"Mobile", "Desktop", "Tablet"}, []float64{65, 30, 5}},
	{repository.DimensionReferrer, []string{"Organic Search", "Social Media", "Direct", "Email", "Referral", "Other"}, []float64{45, 25, 15, 8, 5, 2}},
	{repository.DimensionSocial, []string{"Instagram", "Facebook", "Twitter", "LinkedIn", "YouTube", "TikTok", "Pinterest"}, []float64{35, 25, 15, 12, 8, 3, 2}},
}

var seedSummary = []repository.SummaryStat{
	{Title: "Total Views", Value: "175,320", Change: 15.2},
	{Title: "Avg. Engagement", Value: "3:45", Change: 8.7},
	{Title: "Conversion Rate", Value: "3.2%", Change: 2.1},
	{Title: "Bounce Rate", Value: "42%", Change: -5.3},
}

var seedTopContent = []repository.TopContent{
	{Title: "How to Optimize Your Content Strategy", Type: library.TypeBlogPost, Views: 12500, Engagement: "4:25", Conversion: 3.2, TrendUp: true},
	{Title: "Social Media Marketing in 2023", Type: library.TypeVideo, Views: 9800, Engagement: "5:15", Conversion: 4.5, TrendUp: true},
	{Title: "SEO Techniques for Higher Rankings", Type: library.TypeBlogPost, Views: 8200, Engagement: "3:45", Conversion: 2.8},
	{Title: "Content Creation Tools Review", Type: library.TypeInfographic, Views: 7500, Engagement: "2:30", Conversion: 2.1, TrendUp: true},
	{Title: "Email Marketing Best Practices", Type: library.TypeBlogPost, Views: 6900, Engagement: "3:10", Conversion: 3.7},
}

var seedSegments = []repository.Segment{
	{Name: "Tech Enthusiasts", Share: 32, Engagement: "High", Interests: []string{"Technology", "Gadgets", "Software"}, Behaviors: []string{"Early adopters", "High research before purchase"}},
	{Name: "Content Creators", Share: 28, Engagement: "Very High", Interests: []string{"Social Media", "Design", "Video Production"}, Behaviors: []string{"Active commenters", "Share frequently"}},
	{Name: "Marketing Professionals", Share: 18, Engagement: "Medium", Interests: []string{"Marketing", "SEO", "Analytics"}, Behaviors: []string{"Downloaders of resources", "Return visitors"}},
	{Name: "Small Business Owners", Share: 15, Engagement: "High", Interests: []string{"Business Growth", "Entrepreneurship", "Strategy"}, Behaviors: []string{"Long reading time", "Multiple page views"}},
	{Name: "Students", Share: 7, Engagement: "Medium", Interests: []string{"Education", "Career Development", "Budget Solutions"}, Behaviors: []string{"Late night browsing", "Resource downloaders"}},
}

// SeedDefaults fills an empty database with the starter catalog and the mock
// analytics. It is idempotent and safe to run on every startup: each part is
// seeded only while its table is empty.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	content := repository.NewContentRepo(db)
	n, err := content.Count(ctx)
	if err != nil {
		return fmt.Errorf("count content: %w", err)
	}
	if n == 0 {
		if err := content.ReplaceAll(ctx, library.SampleCatalog()); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
	}

	insights := repository.NewInsightRepo(db)
	n, err = insights.CountPoints(ctx)
	if err != nil {
		return fmt.Errorf("count metrics: %w", err)
	}
	if n > 0 {
		return nil
	}
	return SeedInsights(ctx, insights)
}

// SeedInsights writes the mock analytics, overwriting existing values.
func SeedInsights(ctx context.Context, r *repository.InsightRepo) error {
	for _, s := range seedSeries {
		for i, period := range s.periods {
			if err := r.UpsertPoint(ctx, repository.MetricPoint{Series: s.series, Period: period, Value: s.values[i]}); err != nil {
				return fmt.Errorf("seed %s: %w", s.series, err)
			}
		}
	}
	for _, b := range seedBreakdowns {
		for i, label := range b.labels {
			if err := r.UpsertBreakdown(ctx, repository.Breakdown{Dimension: b.dimension, Label: label, Value: b.values[i], Position: i}); err != nil {
				return fmt.Errorf("seed %s: %w", b.dimension, err)
			}
		}
	}
	for i, s := range seedSummary {
		s.Position = i
		if err := r.UpsertSummary(ctx, s); err != nil {
			return fmt.Errorf("seed summary: %w", err)
		}
	}
	for i, c := range seedTopContent {
		c.Position = i
		if err := r.UpsertTopContent(ctx, c); err != nil {
			return fmt.Errorf("seed top content: %w", err)
		}
	}
	for i, s := range seedSegments {
		s.Position = i
		if err := r.UpsertSegment(ctx, s); err != nil {
			return fmt.Errorf("seed segments: %w", err)
		}
	}
	return nil
}
