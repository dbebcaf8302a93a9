package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/rangmanch/internal/api"
	"github.com/jask/rangmanch/internal/library"
)

func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("RANGMANCH_CONFIG", filepath.Join(dir, "config.toml"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--db", filepath.Join(dir, "cli.db")}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLibraryCommandTable(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "library", "--status", "Published", "--sort", "views")
	require.NoError(t, err)
	require.Contains(t, out, "Creating Engaging Reels")
	require.Contains(t, out, "3 of 6 items")
	require.NotContains(t, out, "Social Media Growth Hacks")
}

func TestLibraryCommandJSON(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "library", "--type", "Video", "--type", "Blog Post", "--status", "Published",
		"--sort", "views", "--dir", "desc", "--json")
	require.NoError(t, err)

	var items []api.ContentItemResponse
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	ids := make([]int, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	require.Equal(t, []int{5, 1}, ids)
}

func TestLibraryCommandRepeatedFilterStaysSelected(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "library", "--type", "Video", "--type", "Video", "--json")
	require.NoError(t, err)

	var items []api.ContentItemResponse
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 2)
	for _, it := range items {
		require.Equal(t, "Video", it.Type)
	}

	q, err := libraryFlags{statuses: []string{"Draft", "Draft"}}.query(library.DefaultQuery())
	require.NoError(t, err)
	require.Equal(t, []string{"Draft"}, q.Statuses.Values())
}

func TestLibraryCommandRejectsBadSort(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "library", "--sort", "rating")
	require.ErrorContains(t, err, "unknown sort key")
}

func TestLibraryCommandSuggests(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "library", "--search", "analitics")
	require.NoError(t, err)
	require.Contains(t, out, "0 of 6 items")
	require.Contains(t, out, `Did you mean: "Analytics Deep Dive"?`)
}

func TestImportExportReset(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "catalog.yaml")
	body := "- id: 10\n  title: Launch Recap\n  type: Video\n  date: 2024-03-01\n  status: Published\n  views: 42\n"
	require.NoError(t, os.WriteFile(file, []byte(body), 0o644))

	out, err := runCLI(t, dir, "import", file)
	require.NoError(t, err)
	require.Contains(t, out, "imported 1 items")

	out, err = runCLI(t, dir, "export")
	require.NoError(t, err)
	require.Contains(t, out, "Launch Recap")
	require.Equal(t, 1, strings.Count(out, "title:"))

	out, err = runCLI(t, dir, "reset")
	require.NoError(t, err)
	require.Contains(t, out, "mock data restored")

	out, err = runCLI(t, dir, "library")
	require.NoError(t, err)
	require.Contains(t, out, "6 of 6 items")
}

func TestImportRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "catalog.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err := runCLI(t, dir, "import", file)
	require.ErrorContains(t, err, "unsupported catalog format")
}

func TestSeedCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "seed", "--count", "250", "--seed", "9")
	require.NoError(t, err)
	require.Contains(t, out, "250 generated items")

	out, err = runCLI(t, dir, "library", "--json")
	require.NoError(t, err)
	var items []api.ContentItemResponse
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 250)

	_, err = runCLI(t, dir, "seed", "--count", "0")
	require.Error(t, err)
}
