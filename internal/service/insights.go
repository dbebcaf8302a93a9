package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jask/rangmanch/internal/database/repository"
)

// Range is the analytics date range selector.
type Range string

const (
	RangeLast7Days  Range = "7d"
	RangeLast30Days Range = "30d"
	RangeLast90Days Range = "90d"
)

// Ranges lists the selectable ranges in display order.
func Ranges() []Range { return []Range{RangeLast7Days, RangeLast30Days, RangeLast90Days} }

// ParseRange accepts 7d/30d/90d and the long last7days forms.
func ParseRange(s string) (Range, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "7d", "last7days":
		return RangeLast7Days, true
	case "30d", "last30days", "":
		return RangeLast30Days, true
	case "90d", "last90days":
		return RangeLast90Days, true
	}
	return "", false
}

func (r Range) Label() string {
	switch r {
	case RangeLast7Days:
		return "Last 7 days"
	case RangeLast90Days:
		return "Last 90 days"
	}
	return "Last 30 days"
}

// points is how many trailing monthly points a range shows. The mock data is
// monthly, so short ranges keep two points to still draw a line.
func (r Range) points() int {
	switch r {
	case RangeLast7Days:
		return 2
	case RangeLast90Days:
		return 0
	}
	return 4
}

// Series is a labelled metric series ready for charting.
type Series struct {
	Key    string                   `json:"key"`
	Label  string                   `json:"label"`
	Points []repository.MetricPoint `json:"points"`
}

// Last returns the latest value and its change from the previous point in
// percent. ok is false for series with fewer than one point.
func (s Series) Last() (value, change float64, ok bool) {
	n := len(s.Points)
	if n == 0 {
		return 0, 0, false
	}
	value = s.Points[n-1].Value
	if n > 1 && s.Points[n-2].Value != 0 {
		prev := s.Points[n-2].Value
		change = (value - prev) / prev * 100
	}
	return value, change, true
}

// Chart groups series drawn on one chart.
type Chart struct {
	Title  string   `json:"title"`
	Series []Series `json:"series"`
}

// MetricCard is a headline number on the dashboard.
type MetricCard struct {
	Title  string  `json:"title"`
	Value  float64 `json:"value"`
	Change float64 `json:"change"`
}

type Dashboard struct {
	Cards  []MetricCard `json:"cards"`
	Charts []Chart      `json:"charts"`
}

type Analytics struct {
	Range      Range                    `json:"range"`
	Summary    []repository.SummaryStat `json:"summary"`
	Tabs       []Chart                  `json:"tabs"`
	TopContent []repository.TopContent  `json:"topContent"`
}

type Audience struct {
	Breakdowns []BreakdownSet       `json:"breakdowns"`
	Segments   []repository.Segment `json:"segments"`
}

// BreakdownSet is one audience dimension.
type BreakdownSet struct {
	Dimension string                 `json:"dimension"`
	Title     string                 `json:"title"`
	Values    []repository.Breakdown `json:"values"`
}

var seriesLabels = map[string]string{
	repository.SeriesPageViews:      "Page Views",
	repository.SeriesUniqueVisitors: "Unique Visitors",
	repository.SeriesAvgTime:        "Avg. Time on Page (min)",
	repository.SeriesBounceRate:     "Bounce Rate (%)",
	repository.SeriesBlogPosts:      "Blog Posts",
	repository.SeriesVideos:         "Videos",
	repository.SeriesInfographics:   "Infographics",
	repository.SeriesNewsletter:     "Newsletter Signups",
	repository.SeriesPurchases:      "Product Purchases",
	repository.SeriesContentViews:   "Content Views",
	repository.SeriesEngagement:     "Engagement",
	repository.SeriesSEO:            "SEO Performance",
}

var dimensionTitles = []struct{ key, title string }{
	{repository.DimensionAge, "Age"},
	{repository.DimensionGender, "Gender"},
	{repository.DimensionLocation, "Location"},
	{repository.DimensionDevice, "Devices"},
	{repository.DimensionReferrer, "Referrer Sources"},
	{repository.DimensionSocial, "Social Media Traffic"},
}

// InsightsService assembles the dashboard, analytics and audience screens.
type InsightsService struct {
	Insights *repository.InsightRepo
}

// loadSeries fetches keys concurrently, keeping the order of keys.
func (s *InsightsService) loadSeries(ctx context.Context, keys []string, window int) ([]Series, error) {
	out := make([]Series, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		g.Go(func() error {
			pts, err := s.Insights.Series(gctx, key)
			if err != nil {
				return fmt.Errorf("load series %s: %w", key, err)
			}
			if window > 0 && len(pts) > window {
				pts = pts[len(pts)-window:]
			}
			out[i] = Series{Key: key, Label: seriesLabels[key], Points: pts}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *InsightsService) Dashboard(ctx context.Context) (Dashboard, error) {
	series, err := s.loadSeries(ctx, []string{
		repository.SeriesContentViews,
		repository.SeriesEngagement,
		repository.SeriesSEO,
	}, 0)
	if err != nil {
		return Dashboard{}, err
	}
	var d Dashboard
	for _, sr := range series {
		if v, ch, ok := sr.Last(); ok {
			d.Cards = append(d.Cards, MetricCard{Title: sr.Label, Value: v, Change: ch})
		}
	}
	d.Charts = []Chart{
		{Title: "Content Performance", Series: series[:1]},
		{Title: "Engagement Overview", Series: series[1:]},
	}
	return d, nil
}

func (s *InsightsService) Analytics(ctx context.Context, r Range) (Analytics, error) {
	a := Analytics{Range: r}
	tabs := []struct {
		title string
		keys  []string
	}{
		{"Traffic", []string{repository.SeriesPageViews, repository.SeriesUniqueVisitors}},
		{"Engagement", []string{repository.SeriesAvgTime, repository.SeriesBounceRate}},
		{"Content", []string{repository.SeriesBlogPosts, repository.SeriesVideos, repository.SeriesInfographics}},
		{"Conversions", []string{repository.SeriesNewsletter, repository.SeriesPurchases}},
	}
	a.Tabs = make([]Chart, len(tabs))

	g, gctx := errgroup.WithContext(ctx)
	for i, tab := range tabs {
		g.Go(func() error {
			series, err := s.loadSeries(gctx, tab.keys, r.points())
			if err != nil {
				return err
			}
			a.Tabs[i] = Chart{Title: tab.title, Series: series}
			return nil
		})
	}
	g.Go(func() error {
		stats, err := s.Insights.SummaryStats(gctx)
		if err != nil {
			return fmt.Errorf("load summary: %w", err)
		}
		a.Summary = stats
		return nil
	})
	g.Go(func() error {
		top, err := s.Insights.TopContent(gctx)
		if err != nil {
			return fmt.Errorf("load top content: %w", err)
		}
		a.TopContent = top
		return nil
	})
	if err := g.Wait(); err != nil {
		return Analytics{}, err
	}
	return a, nil
}

func (s *InsightsService) Audience(ctx context.Context) (Audience, error) {
	var a Audience
	a.Breakdowns = make([]BreakdownSet, len(dimensionTitles))

	g, gctx := errgroup.WithContext(ctx)
	for i, dim := range dimensionTitles {
		g.Go(func() error {
			values, err := s.Insights.Breakdown(gctx, dim.key)
			if err != nil {
				return fmt.Errorf("load %s: %w", dim.key, err)
			}
			a.Breakdowns[i] = BreakdownSet{Dimension: dim.key, Title: dim.title, Values: values}
			return nil
		})
	}
	g.Go(func() error {
		segs, err := s.Insights.Segments(gctx)
		if err != nil {
			return fmt.Errorf("load segments: %w", err)
		}
		a.Segments = segs
		return nil
	})
	if err := g.Wait(); err != nil {
		return Audience{}, err
	}
	return a, nil
}
