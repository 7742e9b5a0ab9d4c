package combine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"filefusion/pkg/ignore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkDeterministicOrder(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"c.md":         "c",
		"b.txt":        "b",
		"a/y.go":       "y",
		"a/x.go":       "x",
		"a/deep/z.py":  "z",
		"Upper.TXT":    "u",
		".hidden":      "h",
		"nested/n.txt": "n",
	})

	first, err := Walk(root, true, WalkOptions{})
	require.NoError(t, err)

	want := []string{".hidden", "Upper.TXT", "a/deep/z.py", "a/x.go", "a/y.go", "b.txt", "c.md", "nested/n.txt"}
	assert.Equal(t, want, relPaths(first))
	for i, task := range first {
		assert.Equal(t, i, task.Index)
		assert.True(t, filepath.IsAbs(task.Path))
	}

	second, err := Walk(root, true, WalkOptions{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWalkNonRecursive(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"top.txt":     "t",
		"sub/low.txt": "l",
	})

	tasks, err := Walk(root, false, WalkOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"top.txt"}, relPaths(tasks))
}

func TestWalkExtensions(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		".bashrc":        "",
		"Makefile":       "",
		"archive.TAR.GZ": "",
	})

	tasks, err := Walk(root, true, WalkOptions{})
	require.NoError(t, err)

	exts := map[string]string{}
	for _, task := range tasks {
		exts[task.RelPath] = task.Ext
	}
	assert.Equal(t, "", exts[".bashrc"])
	assert.Equal(t, "", exts["Makefile"])
	assert.Equal(t, "gz", exts["archive.TAR.GZ"])
}

func TestWalkSymlinkCycle(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.txt":     "a",
		"sub/b.txt": "b",
	})
	if err := os.Symlink(root, filepath.Join(root, "sub", "loop")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	tasks, err := Walk(root, true, WalkOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "sub/b.txt"}, relPaths(tasks))
}

func TestWalkFollowsSymlinkedDirectoryOnce(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeFiles(t, outside, map[string]string{"shared.txt": "s"})
	if err := os.Symlink(outside, filepath.Join(root, "link1")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "link2")))

	tasks, err := Walk(root, true, WalkOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"link1/shared.txt"}, relPaths(tasks))
}

func TestWalkDanglingSymlinkIsReported(t *testing.T) {
	root := t.TempDir()
	if err := os.Symlink(filepath.Join(root, "gone.txt"), filepath.Join(root, "dangling.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	tasks, err := Walk(root, true, WalkOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"dangling.txt"}, relPaths(tasks))
}

func TestWalkInvalidRoot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := Walk(filepath.Join(dir, "missing"), true, WalkOptions{})
	var dirErr *DirectoryError
	require.True(t, errors.As(err, &dirErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = Walk(file, true, WalkOptions{})
	require.True(t, errors.As(err, &dirErr))
	assert.True(t, errors.Is(err, ErrNotDirectory))
}

func TestWalkSkipsListedPaths(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.txt":              "a",
		"combined_files.txt": "previous output",
	})

	tasks, err := Walk(root, true, WalkOptions{Skip: []string{filepath.Join(root, "combined_files.txt")}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, relPaths(tasks))
}

func TestWalkAppliesIgnoreMatcher(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"keep.go":          "k",
		"debug.log":        "d",
		"vendor/lib.go":    "v",
		"src/vendor.go":    "s",
		"src/notes.log":    "n",
		"src/keep/main.go": "m",
	})

	ps := ignore.NewPatternSet(nil)
	ps.CompileIgnoreLines("*.log", "vendor/")

	tasks, err := Walk(root, true, WalkOptions{Ignore: ps})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.go", "src/keep/main.go", "src/vendor.go"}, relPaths(tasks))
}

func TestExtensionOf(t *testing.T) {
	assert.Equal(t, "go", extensionOf("main.go"))
	assert.Equal(t, "md", extensionOf("README.MD"))
	assert.Equal(t, "", extensionOf(".gitignore"))
	assert.Equal(t, "", extensionOf("LICENSE"))
}
