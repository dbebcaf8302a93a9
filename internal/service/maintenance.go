package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/rangmanch/internal/database"
)

// MaintenanceService houses destructive/ops actions surfaced through the CLI.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset wipes all data and reseeds the sample catalog and mock analytics.
// It keeps the schema intact so the app can continue running.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		tables := []string{
			"drafts",
			"segments",
			"top_content",
			"summary_stats",
			"breakdowns",
			"metric_points",
			"content_items",
		}
		for _, t := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	if err := database.SeedDefaults(ctx, s.DB); err != nil {
		return fmt.Errorf("reseed: %w", err)
	}
	return nil
}
