package repository

import "time"

// Metric series keys stored in metric_points.
const (
	SeriesPageViews      = "page_views"
	SeriesUniqueVisitors = "unique_visitors"
	SeriesAvgTime        = "avg_time_on_page"
	SeriesBounceRate     = "bounce_rate"
	SeriesBlogPosts      = "blog_posts"
	SeriesVideos         = "videos"
	SeriesInfographics   = "infographics"
	SeriesNewsletter     = "newsletter_signups"
	SeriesPurchases      = "product_purchases"
	SeriesContentViews   = "content_views"
	SeriesEngagement     = "engagement"
	SeriesSEO            = "seo_performance"
)

// Breakdown dimensions stored in breakdowns.
const (
	DimensionAge      = "age"
	DimensionGender   = "gender"
	DimensionLocation = "location"
	DimensionDevice   = "device"
	DimensionReferrer = "referrer"
	DimensionSocial   = "social"
)

// MetricPoint is one monthly value of a series. Period is YYYY-MM.
type MetricPoint struct {
	Series string  `json:"series"`
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// Breakdown is one share of an audience dimension, in percent.
type Breakdown struct {
	Dimension string  `json:"dimension"`
	Label     string  `json:"label"`
	Value     float64 `json:"value"`
	Position  int     `json:"position"`
}

// SummaryStat is a headline number with its period-over-period change in percent.
type SummaryStat struct {
	Title    string  `json:"title"`
	Value    string  `json:"value"`
	Change   float64 `json:"change"`
	Position int     `json:"position"`
}

// TopContent is a row of the best-performing content table.
type TopContent struct {
	Title      string  `json:"title"`
	Type       string  `json:"type"`
	Views      int     `json:"views"`
	Engagement string  `json:"engagement"`
	Conversion float64 `json:"conversion"`
	TrendUp    bool    `json:"trendUp"`
	Position   int     `json:"position"`
}

// Segment is an audience segment.
type Segment struct {
	Name       string   `json:"name"`
	Share      float64  `json:"share"`
	Engagement string   `json:"engagement"`
	Interests  []string `json:"interests"`
	Behaviors  []string `json:"behaviors"`
	Position   int      `json:"position"`
}

// Draft is a saved generator result.
type Draft struct {
	ID          string    `json:"id"`
	ContentType string    `json:"contentType"`
	Tone        string    `json:"tone"`
	Length      int       `json:"length"`
	Brief       string    `json:"brief"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"createdAt"`
}
