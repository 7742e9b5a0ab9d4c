package combine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFiles creates files below dir from a map of slash-separated relative paths.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func mustFilter(t *testing.T, include, exclude []string, maxSize int64, includeBinary bool) *FilterConfig {
	t.Helper()
	fc, err := NewFilterConfig(include, exclude, maxSize, includeBinary)
	require.NoError(t, err)
	return fc
}

func relPaths(tasks []FileTask) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.RelPath
	}
	return out
}
