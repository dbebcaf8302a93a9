package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFilePathIsDated(t *testing.T) {
	day := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	require.Equal(t, filepath.Join("logs", "rangmanch-2024-03-09.log"), FilePath(Options{Dir: "logs"}, day))
	require.Equal(t, "/tmp/x.log", FilePath(Options{Dir: "logs", Path: "/tmp/x.log"}, day))
}

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	require.NoError(t, Init(Options{Path: path, Level: "debug"}))
	WithPrefix("test").Debug("hello", "k", 1)
	Close()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "hello")
	require.Contains(t, string(raw), "test")
	require.Contains(t, string(raw), "shutting down")
}
