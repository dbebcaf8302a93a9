package testdata

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/jask/rangmanch/internal/database"
	"github.com/jask/rangmanch/internal/database/repository"
	"github.com/jask/rangmanch/internal/library"
)

func TestCatalogIsDeterministic(t *testing.T) {
	a, b := Catalog(200, 7), Catalog(200, 7)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("same seed produced different catalogs (-a +b):\n%s", diff)
	}
	require.NotEqual(t, a, Catalog(200, 8))
}

func TestCatalogShape(t *testing.T) {
	items := Catalog(500, 1)
	require.Len(t, items, 500)
	for i, it := range items {
		require.Equal(t, i+1, it.ID)
		require.NotEmpty(t, it.Title)
		require.False(t, it.Date.IsZero())
		if !it.ShowsViews() {
			require.Zero(t, it.Views, "item %d", it.ID)
		}
	}
	opts := library.Options(items)
	require.Contains(t, opts.Types, "Podcast")
	require.Len(t, opts.Statuses, 3)
	require.Empty(t, Catalog(0, 1))
}

func TestSeedReplacesStoredCatalog(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := database.OpenAndMigrate(ctx, filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := repository.NewContentRepo(db)
	require.NoError(t, Seed(ctx, repo, 50, 3))
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 50, n)

	require.Error(t, Seed(ctx, repo, 0, 3))
}
