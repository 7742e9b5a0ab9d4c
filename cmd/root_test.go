package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"filefusion/pkg/combine"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCombineWritesOutputFile(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.go":      "package main\n",
		"lib/util.go":  "package lib\n",
		"README.md":    "# readme\n",
		"assets/a.bin": "\x00\x01",
	})
	out := filepath.Join(t.TempDir(), "out", "combined.md")

	_, stderr, err := execute(t, root, "-o", out, "-i", "go,md", "-f", "md", "--reproducible", "--no-progress", "-q")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	doc := string(data)
	assert.Contains(t, doc, "## README.md\n")
	assert.Contains(t, doc, "## lib/util.go\n")
	assert.Contains(t, doc, "## main.go\n")
	assert.NotContains(t, doc, "a.bin")
	assert.NotContains(t, doc, "Generated on")

	assert.Contains(t, stderr, "Files processed: 3")
	assert.Contains(t, stderr, "All files combined into "+out)
}

func TestCombineToStdout(t *testing.T) {
	root := writeTree(t, map[string]string{"a.txt": "alpha\n"})

	stdout, _, err := execute(t, "--path", root, "-o", "-", "--no-progress", "-q", "--comment-style", "slash")
	require.NoError(t, err)
	assert.Contains(t, stdout, "// File: a.txt\n")
	assert.Contains(t, stdout, "alpha\n")
}

func TestCombineReadsEnvironment(t *testing.T) {
	root := writeTree(t, map[string]string{"a.txt": "alpha\n"})
	t.Setenv("FILEFUSION_FORMAT", "html")

	stdout, _, err := execute(t, root, "-o", "-", "--no-progress", "-q")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "<!DOCTYPE html>"))
}

func TestCombineWritesReport(t *testing.T) {
	root := writeTree(t, map[string]string{"a.txt": "alpha\n", "b.log": "beta\n"})
	report := filepath.Join(t.TempDir(), "report.yaml")

	_, _, err := execute(t, root, "-o", "-", "-e", "log", "--report", report, "--no-progress", "-q")
	require.NoError(t, err)

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, 2, got["discovered"])
	assert.Equal(t, 1, got["included"])
	assert.Equal(t, 1, got["excluded"])
	assert.NotContains(t, got, "errors")
}

func TestCombinePartialFailure(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	root := writeTree(t, map[string]string{"a.txt": "alpha\n", "locked.txt": "secret\n"})
	locked := filepath.Join(root, "locked.txt")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o644) })

	stdout, stderr, err := execute(t, root, "-o", "-", "--no-progress", "-q")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errPartial))
	assert.Contains(t, stdout, "alpha\n")
	assert.Contains(t, stderr, "Some files had errors:")
	assert.Contains(t, stderr, "locked.txt")
}

func TestCombineInvalidRoot(t *testing.T) {
	_, _, err := execute(t, filepath.Join(t.TempDir(), "missing"), "-o", "-", "-q")
	var dirErr *combine.DirectoryError
	require.True(t, errors.As(err, &dirErr))
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)

	stdout, _, err = execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "filefusion version dev"))
}

func TestBuildConfigValidation(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name  string
		set   map[string]any
		field string
	}{
		{name: "missing path", set: map[string]any{}, field: "path"},
		{name: "overlapping extensions", set: map[string]any{"path": dir, "include": []string{"go,md"}, "exclude": []string{"md"}}, field: "include/exclude"},
		{name: "negative size", set: map[string]any{"path": dir, "max_size": -1}, field: "max-size"},
		{name: "negative workers", set: map[string]any{"path": dir, "workers": -2}, field: "workers"},
		{name: "unknown format", set: map[string]any{"path": dir, "format": "pdf"}, field: "format"},
		{name: "unknown comment style", set: map[string]any{"path": dir, "comment_style": "--"}, field: "comment-style"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := buildConfig(v)
			var cfgErr *combine.ConfigError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestBuildConfigOutputPath(t *testing.T) {
	v := viper.New()
	v.Set("path", t.TempDir())
	v.Set("output", "combined.txt")
	v.Set("recursive", true)
	v.Set("max_size", 2)

	cfg, err := buildConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "combined.txt", cfg.OutputPath)
	assert.True(t, cfg.Recursive)
	assert.Equal(t, int64(2048), cfg.Filter.MaxSize())

	v.Set("output", "-")
	cfg, err = buildConfig(v)
	require.NoError(t, err)
	assert.Empty(t, cfg.OutputPath)

	v.Set("no_recursive", true)
	cfg, err = buildConfig(v)
	require.NoError(t, err)
	assert.False(t, cfg.Recursive)
}
