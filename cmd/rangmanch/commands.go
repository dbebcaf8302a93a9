package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jask/rangmanch/internal/api"
	"github.com/jask/rangmanch/internal/database/repository"
	"github.com/jask/rangmanch/internal/library"
	"github.com/jask/rangmanch/internal/logging"
	"github.com/jask/rangmanch/internal/service"
	"github.com/jask/rangmanch/internal/testdata"
)

type libraryFlags struct {
	search   string
	types    []string
	statuses []string
	sort     string
	dir      string
	asJSON   bool
}

// query builds the view query on top of the configured default sort.
func (f libraryFlags) query(base library.QueryState) (library.QueryState, error) {
	q := base.WithSearch(f.search)
	for _, t := range f.types {
		if !q.Types.Has(t) {
			q = q.ToggleType(t)
		}
	}
	for _, s := range f.statuses {
		if !q.Statuses.Has(s) {
			q = q.ToggleStatus(s)
		}
	}
	key, dir := q.SortKey, q.SortDirection
	if f.sort != "" {
		k, ok := library.ParseSortKey(f.sort)
		if !ok {
			return q, fmt.Errorf("unknown sort key %q (want date, title or views)", f.sort)
		}
		key = k
	}
	if f.dir != "" {
		d, ok := library.ParseSortDirection(f.dir)
		if !ok {
			return q, fmt.Errorf("unknown sort direction %q (want asc or desc)", f.dir)
		}
		dir = d
	}
	return q.WithSort(key, dir), nil
}

func newLibraryCmd(g *globalFlags) *cobra.Command {
	f := libraryFlags{}
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Print the content library view",
		Long: `Prints the content library after search, type and status filters and sort.

Example:
  rangmanch library --type Video --type "Blog Post" --sort views --dir desc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer rt.Close()

			q, err := f.query(service.DefaultQuery(rt.cfg.Library))
			if err != nil {
				return err
			}
			v, err := rt.library.View(cmd.Context(), q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if f.asJSON {
				items := make([]api.ContentItemResponse, 0, len(v.Items))
				for _, it := range v.Items {
					items = append(items, api.NewContentItemResponse(it))
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}
			fmt.Fprintln(out, renderLibrary(v))
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "case-insensitive title search")
	cmd.Flags().StringArrayVar(&f.types, "type", nil, "content type to include (repeatable)")
	cmd.Flags().StringArrayVar(&f.statuses, "status", nil, "status to include (repeatable)")
	cmd.Flags().StringVar(&f.sort, "sort", "", "sort key: date, title or views")
	cmd.Flags().StringVar(&f.dir, "dir", "", "sort direction: asc or desc")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print JSON")
	return cmd
}

func renderLibrary(v service.LibraryView) string {
	if len(v.Items) == 0 {
		msg := fmt.Sprintf("No content matches (0 of %d items).", v.Total)
		if len(v.Suggestions) > 0 {
			msg += fmt.Sprintf("\nDid you mean: %q?", v.Suggestions[0])
		}
		return msg
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Title", "Type", "Date", "Status", "Views")
	for _, it := range v.Items {
		views := "-"
		if it.ShowsViews() {
			views = strconv.Itoa(it.Views)
		}
		t.Row(strconv.Itoa(it.ID), it.Title, it.Type, it.DateISO(), it.Status, views)
	}
	return fmt.Sprintf("%s\n%d of %d items", t.Render(), len(v.Items), v.Total)
}

func newServeCmd(g *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard data as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer rt.Close()
			if addr != "" {
				rt.cfg.Server.Addr = addr
			}
			srv := &api.Server{
				Library:   rt.library,
				Insights:  rt.insights,
				Generator: rt.generator,
				Tasks:     service.NewTaskTracker(service.WithTaskTTL(rt.cfg.Server.TaskTTL)),
				Config:    rt.cfg,
				Logger:    logging.WithPrefix("api"),
			}
			fmt.Fprintf(cmd.OutOrStdout(), "serving on http://%s\n", rt.cfg.Server.Addr)
			return srv.ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func newImportCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a catalog file",
		Long: `Imports content items. A .yaml file replaces the whole catalog;
a .csv file (id,title,type,date,status,views[,thumbnail]) merges rows by id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer rt.Close()
			res, err := rt.ingest.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, rowErr := range res.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %v\n", rowErr)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d items, skipped %d\n", res.Imported, res.Skipped)
			return nil
		},
	}
}

func newExportCmd(g *globalFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer rt.Close()
			if output == "" || output == "-" {
				return rt.library.Export(cmd.Context(), cmd.OutOrStdout())
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := rt.library.Export(cmd.Context(), f); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file")
	return cmd
}

func newResetCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the sample catalog and mock analytics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer rt.Close()
			if err := rt.maintenance.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "mock data restored")
			return nil
		},
	}
}

func newSeedCmd(g *globalFlags) *cobra.Command {
	var (
		count int
		seed  int64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the catalog with a synthetic one",
		Long: `Replaces the catalog with generated items, for trying the library on a
large catalog. The same --seed always produces the same catalog. Run
"rangmanch reset" to go back to the sample data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer rt.Close()
			if err := testdata.Seed(cmd.Context(), repository.NewContentRepo(rt.db), count, seed); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog replaced with %d generated items\n", count)
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1000, "number of items")
	cmd.Flags().Int64Var(&seed, "seed", 1, "generator seed")
	return cmd
}
