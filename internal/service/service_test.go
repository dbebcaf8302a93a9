package service

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jask/rangmanch/internal/config"
	"github.com/jask/rangmanch/internal/database"
	"github.com/jask/rangmanch/internal/database/repository"
	"github.com/jask/rangmanch/internal/library"
)

func setupDB(t *testing.T) (*sql.DB, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	db, err := database.OpenAndMigrate(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, ctx
}

func titles(items []library.ContentItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func TestLibraryViewOverStoredCatalog(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	svc := &LibraryService{Content: repository.NewContentRepo(db), Engine: NewEngine(config.LibraryConfig{Collation: "en"})}

	v, err := svc.View(ctx, library.DefaultQuery().ToggleStatus(library.StatusPublished))
	require.NoError(t, err)
	require.Equal(t, 6, v.Total)
	require.Equal(t, []string{"Creating Engaging Reels", "Understanding Your Audience", "SEO Best Practices"}, titles(v.Items))
	require.Len(t, v.Options.Types, 4, "options come from the full catalog")
	require.Empty(t, v.Suggestions)

	v, err = svc.View(ctx, library.DefaultQuery().WithSearch("analitics"))
	require.NoError(t, err)
	require.Empty(t, v.Items)
	require.Equal(t, "Analytics Deep Dive", v.Suggestions[0])
}

func TestDefaultQueryFromConfig(t *testing.T) {
	q := DefaultQuery(config.LibraryConfig{DefaultSort: "views", DefaultDirection: "asc"})
	require.Equal(t, library.SortByViews, q.SortKey)
	require.Equal(t, library.Ascending, q.SortDirection)

	q = DefaultQuery(config.LibraryConfig{DefaultSort: "bogus", DefaultDirection: "asc"})
	require.Equal(t, library.DefaultQuery(), q)
}

func TestLibraryDuplicateDeleteExport(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	svc := &LibraryService{Content: repository.NewContentRepo(db)}

	cp, err := svc.Duplicate(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Understanding Your Audience (Copy)", cp.Title)

	ok, err := svc.Delete(ctx, cp.ID)
	require.NoError(t, err)
	require.True(t, ok)

	var buf strings.Builder
	require.NoError(t, svc.Export(ctx, &buf))
	require.Contains(t, buf.String(), "title: SEO Best Practices")
	require.NotContains(t, buf.String(), "(Copy)")
}

func TestIngestCSVMergesRows(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	content := repository.NewContentRepo(db)
	svc := &IngestService{Content: content}

	data := strings.Join([]string{
		"id,title,type,date,status,views",
		"1,Understanding Your Audience,Blog Post,2023-05-15,Published,\"2,000\"",
		"7,Podcast Launch,Podcast,2023-08-01,Scheduled,0,https://example.test/p.png",
		"7,Podcast Launch Again,Podcast,2023-08-01,Scheduled,0",
		"8,Bad Date,Video,2023-02-30,Draft,0",
		"9,,Video,2023-02-01,Draft,0",
		"10,Short",
	}, "\n")
	res, err := svc.ImportCSV(ctx, strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 2, res.Imported)
	require.Equal(t, 1, res.Skipped)
	require.Len(t, res.Errors, 3)

	one, err := content.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 2000, one.Views)

	all, err := content.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 7)
	require.Equal(t, "Podcast Launch", all[6].Title)
	require.Equal(t, "https://example.test/p.png", all[6].Thumbnail)
}

func TestIngestFileYAMLReplaces(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	content := repository.NewContentRepo(db)
	svc := &IngestService{Content: content}

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- id: 3
  title: Only One
  type: Video
  date: "2024-01-02"
  status: Draft
  views: 0
`), 0o644))
	res, err := svc.ImportFile(ctx, path)
	require.NoError(t, err)
	require.Equal(t, 1, res.Imported)
	all, err := content.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Only One"}, titles(all))

	_, err = svc.ImportFile(ctx, filepath.Join(t.TempDir(), "catalog.json"))
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestInsightsDashboardCards(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	svc := &InsightsService{Insights: repository.NewInsightRepo(db)}

	d, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	require.Len(t, d.Cards, 3)
	require.Equal(t, "Content Views", d.Cards[0].Title)
	require.Equal(t, 2800.0, d.Cards[0].Value)
	require.InDelta(t, 27.27, d.Cards[0].Change, 0.01)
	require.Len(t, d.Charts, 2)
	require.Len(t, d.Charts[1].Series, 2)
}

func TestInsightsAnalyticsRanges(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	svc := &InsightsService{Insights: repository.NewInsightRepo(db)}

	cases := map[Range]int{RangeLast7Days: 2, RangeLast30Days: 4, RangeLast90Days: 7}
	for r, want := range cases {
		a, err := svc.Analytics(ctx, r)
		require.NoError(t, err)
		require.Len(t, a.Tabs, 4)
		require.Equal(t, "Traffic", a.Tabs[0].Title)
		require.Len(t, a.Tabs[0].Series[0].Points, want, string(r))
		require.Equal(t, "2023-07", a.Tabs[0].Series[0].Points[want-1].Period)
		require.Len(t, a.Summary, 4)
		require.Len(t, a.TopContent, 5)
	}

	r, ok := ParseRange("last90days")
	require.True(t, ok)
	require.Equal(t, RangeLast90Days, r)
	_, ok = ParseRange("1y")
	require.False(t, ok)
}

func TestInsightsAudience(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	svc := &InsightsService{Insights: repository.NewInsightRepo(db)}

	a, err := svc.Audience(ctx)
	require.NoError(t, err)
	require.Len(t, a.Breakdowns, 6)
	require.Equal(t, "Age", a.Breakdowns[0].Title)
	require.Equal(t, "25-34", a.Breakdowns[0].Values[1].Label)
	require.Len(t, a.Segments, 5)
	require.Equal(t, []string{"Technology", "Gadgets", "Software"}, a.Segments[0].Interests)
}

func TestGenerateRequestValidation(t *testing.T) {
	require.NoError(t, withBrief(DefaultRequest(), "x").Validate())

	bad := []GenerateRequest{
		{ContentType: "poem", Tone: "casual", Length: 500, Brief: "x"},
		{ContentType: "blog", Tone: "angry", Length: 500, Brief: "x"},
		{ContentType: "blog", Tone: "casual", Length: 50, Brief: "x"},
		{ContentType: "blog", Tone: "casual", Length: 2100, Brief: "x"},
		{ContentType: "blog", Tone: "casual", Length: 550, Brief: "x"},
		{ContentType: "blog", Tone: "casual", Length: 500, Brief: "  "},
	}
	for _, req := range bad {
		require.ErrorIs(t, req.Validate(), ErrInvalidRequest, "%+v", req)
	}
}

func withBrief(r GenerateRequest, b string) GenerateRequest {
	r.Brief = b
	return r
}

func TestGenerateHonorsCancellation(t *testing.T) {
	svc := &GeneratorService{Delay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Generate(ctx, withBrief(DefaultRequest(), "launch"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestGenerateAndSaveDraft(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	fixed := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	svc := &GeneratorService{Drafts: repository.NewDraftRepo(db), Now: func() time.Time { return fixed }}

	req := GenerateRequest{ContentType: "email", Tone: "friendly", Length: 800, Brief: "Spring launch"}
	res, err := svc.Generate(ctx, req)
	require.NoError(t, err)
	require.Contains(t, res.Body, "Email draft (friendly tone, ~800 words)")
	require.Contains(t, res.Body, "Brief: Spring launch")

	d, err := svc.SaveDraft(ctx, req, res.Body)
	require.NoError(t, err)
	require.NotEmpty(t, d.ID)

	drafts, err := svc.RecentDrafts(ctx, 5)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	require.Equal(t, d.ID, drafts[0].ID)
	require.True(t, drafts[0].CreatedAt.Equal(fixed))
}

func TestTaskTracker(t *testing.T) {
	defer goleak.VerifyNone(t)

	tr := NewTaskTracker()
	okID := tr.Start("ok", func(context.Context) (any, error) { return 42, nil })
	failID := tr.Start("fail", func(context.Context) (any, error) { return nil, errors.New("boom") })
	waitID := tr.Start("wait", func(ctx context.Context) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	require.Less(t, okID, waitID, "ids sort by start order")

	require.Eventually(t, func() bool {
		a, _ := tr.Get(okID)
		b, _ := tr.Get(failID)
		return a.State == TaskDone && b.State == TaskFailed
	}, time.Second, 5*time.Millisecond)

	task, ok := tr.Get(okID)
	require.True(t, ok)
	require.Equal(t, 42, task.Result)
	failed, _ := tr.Get(failID)
	require.Equal(t, "boom", failed.Error)

	running, _ := tr.Get(waitID)
	require.Equal(t, TaskRunning, running.State)
	tr.Close()
	cancelled, _ := tr.Get(waitID)
	require.Equal(t, TaskCancelled, cancelled.State)

	_, ok = tr.Get("missing")
	require.False(t, ok)
}

func TestTaskTrackerEvictsFinishedTasks(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	tr := NewTaskTracker(WithTaskTTL(time.Minute))
	tr.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return clock
	}
	advance := func(d time.Duration) {
		mu.Lock()
		clock = clock.Add(d)
		mu.Unlock()
	}
	defer tr.Close()

	release := make(chan struct{})
	doneID := tr.Start("done", func(context.Context) (any, error) { return 1, nil })
	slowID := tr.Start("slow", func(ctx context.Context) (any, error) {
		<-release
		return 2, nil
	})
	require.Eventually(t, func() bool {
		task, _ := tr.Get(doneID)
		return task.State == TaskDone
	}, time.Second, 5*time.Millisecond)

	advance(30 * time.Second)
	_, ok := tr.Get(doneID)
	require.True(t, ok, "kept within the ttl")

	advance(31 * time.Second)
	_, ok = tr.Get(doneID)
	require.False(t, ok, "finished task evicted after the ttl")
	slow, ok := tr.Get(slowID)
	require.True(t, ok, "running tasks are never evicted")
	require.Equal(t, TaskRunning, slow.State)
	require.Equal(t, 1, tr.Len())

	close(release)
	require.Eventually(t, func() bool {
		task, _ := tr.Get(slowID)
		return task.State == TaskDone
	}, time.Second, 5*time.Millisecond)
	advance(2 * time.Minute)
	require.Zero(t, tr.Len())
}

func TestMaintenanceResetReseeds(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	content := repository.NewContentRepo(db)
	require.NoError(t, content.ReplaceAll(ctx, nil))
	require.NoError(t, repository.NewDraftRepo(db).Insert(ctx, repository.Draft{ID: "d", ContentType: "blog", Tone: "casual", Length: 100, Brief: "b", Body: "x", CreatedAt: database.Now()}))

	svc := &MaintenanceService{DB: db}
	require.NoError(t, svc.Reset(ctx))

	n, err := content.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 6, n)
	drafts, err := repository.NewDraftRepo(db).List(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, drafts)

	require.Error(t, (&MaintenanceService{}).Reset(ctx))
}
