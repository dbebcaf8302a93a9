package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/rangmanch/internal/database/repository"
	"github.com/jask/rangmanch/internal/library"
)

func TestOpenAndMigrateSeedsOnce(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	db, err := OpenAndMigrate(ctx, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	content := repository.NewContentRepo(db)
	items, err := content.List(ctx)
	require.NoError(t, err)
	require.Equal(t, library.SampleCatalog(), items)

	require.NoError(t, RunMigrationsWithDB(db))
	require.NoError(t, SeedDefaults(ctx, db))
	n, err := content.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 6, n)

	insights := repository.NewInsightRepo(db)
	views, err := insights.Series(ctx, repository.SeriesPageViews)
	require.NoError(t, err)
	require.Len(t, views, 7)
	require.Equal(t, "2023-01", views[0].Period)
	require.Equal(t, 9500.0, views[6].Value)

	dash, err := insights.Series(ctx, repository.SeriesContentViews)
	require.NoError(t, err)
	require.Len(t, dash, 6)
}

func TestRunMigrationsOnPath(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, RunMigrations(dbPath))
	require.NoError(t, RunMigrations(dbPath))

	db, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	var one int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) + 1 FROM content_items").Scan(&one))
	require.Equal(t, 1, one)
}
