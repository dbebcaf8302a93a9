package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/rangmanch/internal/catalog"
	"github.com/jask/rangmanch/internal/config"
	"github.com/jask/rangmanch/internal/database"
	"github.com/jask/rangmanch/internal/database/repository"
	"github.com/jask/rangmanch/internal/library"
	"github.com/jask/rangmanch/internal/logging"
	"github.com/jask/rangmanch/internal/service"
	"github.com/jask/rangmanch/internal/tui"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	dbPath     string
	verbose    bool
}

// runtime is the opened database plus the services built on it.
type runtime struct {
	cfg         config.Config
	db          *sql.DB
	library     *service.LibraryService
	insights    *service.InsightsService
	generator   *service.GeneratorService
	ingest      *service.IngestService
	maintenance *service.MaintenanceService
}

func openRuntime(ctx context.Context, g *globalFlags) (*runtime, error) {
	if g.configPath != "" {
		if err := os.Setenv("RANGMANCH_CONFIG", g.configPath); err != nil {
			return nil, fmt.Errorf("set config path: %w", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if g.dbPath != "" {
		cfg.Database.Path = g.dbPath
	}
	level := cfg.Log.Level
	if g.verbose {
		level = "debug"
	}
	if err := logging.Init(logging.Options{
		Dir:   filepath.Join(config.DataDir(), "logs"),
		Path:  cfg.Log.Path,
		Level: level,
	}); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	db, err := database.OpenAndMigrate(ctx, cfg.Database.Path)
	if err != nil {
		logging.Close()
		return nil, err
	}
	logging.Info("database ready", "path", cfg.Database.Path)

	content := repository.NewContentRepo(db)
	engine := service.NewEngine(cfg.Library, library.WithLogger(logging.WithPrefix("library")))
	return &runtime{
		cfg:         cfg,
		db:          db,
		library:     &service.LibraryService{Content: content, Engine: engine},
		insights:    &service.InsightsService{Insights: repository.NewInsightRepo(db)},
		generator:   &service.GeneratorService{Drafts: repository.NewDraftRepo(db), Delay: cfg.Generator.Delay},
		ingest:      &service.IngestService{Content: content},
		maintenance: &service.MaintenanceService{DB: db},
	}, nil
}

func (r *runtime) Close() {
	if err := r.db.Close(); err != nil {
		logging.Warn("close database", "err", err)
	}
	logging.Close()
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	var (
		startPath string
		watchPath string
	)
	root := &cobra.Command{
		Use:   "rangmanch",
		Short: "Content analytics dashboard",
		Long: `rangmanch is a terminal dashboard for a content catalog: a searchable,
filterable content library, analytics and audience insights over mock data.

Run without arguments to start the dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), g, startPath, watchPath)
		},
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/rangmanch/config.toml)")
	root.PersistentFlags().StringVar(&g.dbPath, "db", "", "sqlite database path")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "debug logging")
	root.Flags().StringVar(&startPath, "path", "/", "route to open first, e.g. /content-library")
	root.Flags().StringVar(&watchPath, "watch", "", "YAML catalog file to reload into the library on change")

	root.AddCommand(
		newLibraryCmd(g),
		newServeCmd(g),
		newImportCmd(g),
		newExportCmd(g),
		newResetCmd(g),
		newSeedCmd(g),
	)
	return root
}

func runTUI(ctx context.Context, g *globalFlags, startPath, watchPath string) error {
	rt, err := openRuntime(ctx, g)
	if err != nil {
		return err
	}
	defer rt.Close()

	svc := tui.Services{
		Library:     rt.library,
		Insights:    rt.insights,
		Generator:   rt.generator,
		Maintenance: rt.maintenance,
	}
	if watchPath != "" {
		svc.Watcher = catalog.NewWatcher(watchPath, logging.WithPrefix("catalog"))
	}
	app := tui.New(ctx, rt.cfg, svc,
		tui.WithLogger(logging.WithPrefix("tui")),
		tui.WithInitialPath(startPath),
	)
	defer app.Close()

	if _, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
