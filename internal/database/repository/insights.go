package repository

import (
	"context"
	"database/sql"
	"strings"
)

// InsightRepo handles the mock analytics tables: metric series, audience
// breakdowns, summary stats, top content and segments.
type InsightRepo struct {
	db *sql.DB
}

func NewInsightRepo(db *sql.DB) *InsightRepo { return &InsightRepo{db: db} }

func (r *InsightRepo) UpsertPoint(ctx context.Context, p MetricPoint) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO metric_points(series, period, value) VALUES (?, ?, ?)
	ON CONFLICT(series, period) DO UPDATE SET value=excluded.value;
	`, p.Series, p.Period, p.Value)
	return err
}

// Series returns the points of one series in period order.
func (r *InsightRepo) Series(ctx context.Context, series string) ([]MetricPoint, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT series, period, value FROM metric_points WHERE series = ? ORDER BY period`, series)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MetricPoint
	for rows.Next() {
		var p MetricPoint
		if err := rows.Scan(&p.Series, &p.Period, &p.Value); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *InsightRepo) CountPoints(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM metric_points`).Scan(&n)
	return n, err
}

func (r *InsightRepo) UpsertBreakdown(ctx context.Context, b Breakdown) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO breakdowns(dimension, label, value, position) VALUES (?, ?, ?, ?)
	ON CONFLICT(dimension, label) DO UPDATE SET value=excluded.value, position=excluded.position;
	`, b.Dimension, b.Label, b.Value, b.Position)
	return err
}

// Breakdown returns the shares of one dimension in display order.
func (r *InsightRepo) Breakdown(ctx context.Context, dimension string) ([]Breakdown, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT dimension, label, value, position FROM breakdowns WHERE dimension = ? ORDER BY position, label`, dimension)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Breakdown
	for rows.Next() {
		var b Breakdown
		if err := rows.Scan(&b.Dimension, &b.Label, &b.Value, &b.Position); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *InsightRepo) UpsertSummary(ctx context.Context, s SummaryStat) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO summary_stats(title, value, change, position) VALUES (?, ?, ?, ?)
	ON CONFLICT(title) DO UPDATE SET value=excluded.value, change=excluded.change, position=excluded.position;
	`, s.Title, s.Value, s.Change, s.Position)
	return err
}

func (r *InsightRepo) SummaryStats(ctx context.Context) ([]SummaryStat, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT title, value, change, position FROM summary_stats ORDER BY position, title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SummaryStat
	for rows.Next() {
		var s SummaryStat
		if err := rows.Scan(&s.Title, &s.Value, &s.Change, &s.Position); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *InsightRepo) UpsertTopContent(ctx context.Context, c TopContent) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO top_content(title, type, views, engagement, conversion, trend_up, position) VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(title) DO UPDATE SET
	 type=excluded.type,
	 views=excluded.views,
	 engagement=excluded.engagement,
	 conversion=excluded.conversion,
	 trend_up=excluded.trend_up,
	 position=excluded.position;
	`, c.Title, c.Type, c.Views, c.Engagement, c.Conversion, c.TrendUp, c.Position)
	return err
}

func (r *InsightRepo) TopContent(ctx context.Context) ([]TopContent, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT title, type, views, engagement, conversion, trend_up, position FROM top_content ORDER BY position, title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TopContent
	for rows.Next() {
		var c TopContent
		if err := rows.Scan(&c.Title, &c.Type, &c.Views, &c.Engagement, &c.Conversion, &c.TrendUp, &c.Position); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const listSep = ";"

func (r *InsightRepo) UpsertSegment(ctx context.Context, s Segment) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO segments(name, share, engagement, interests, behaviors, position) VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
	 share=excluded.share,
	 engagement=excluded.engagement,
	 interests=excluded.interests,
	 behaviors=excluded.behaviors,
	 position=excluded.position;
	`, s.Name, s.Share, s.Engagement, strings.Join(s.Interests, listSep), strings.Join(s.Behaviors, listSep), s.Position)
	return err
}

func (r *InsightRepo) Segments(ctx context.Context) ([]Segment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, share, engagement, interests, behaviors, position FROM segments ORDER BY position, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Segment
	for rows.Next() {
		var (
			s                   Segment
			interests, behaviors string
		)
		if err := rows.Scan(&s.Name, &s.Share, &s.Engagement, &interests, &behaviors, &s.Position); err != nil {
			return nil, err
		}
		s.Interests = splitList(interests)
		s.Behaviors = splitList(behaviors)
		out = append(out, s)
	}
	return out, rows.Err()
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, listSep)
}
