// File: pkg/combine/traversal.go
package combine

import (
	"os"
	"path/filepath"
	"strings"

	"filefusion/pkg/ignore"

	"go.uber.org/zap"
)

// WalkOptions tunes discovery.
type WalkOptions struct {
	Skip   []string       // Absolute paths never reported (e.g. the output file)
	Ignore ignore.Matcher // Optional ignore rules, matched on root-relative paths
	Logger *zap.Logger    // Defaults to a no-op logger
}

// walker carries the state of one traversal.
type walker struct {
	root      string
	recursive bool
	skip      map[string]struct{}
	ignore    ignore.Matcher
	visited   map[string]struct{}
	tasks     []FileTask
	logger    *zap.Logger
}

// Walk enumerates the files below root in a deterministic depth-first order:
// entries of each directory are visited sorted by name, and a subdirectory is
// fully walked before its next sibling. Symlinked directories are followed
// once; a link that leads back into an already visited directory is skipped.
func Walk(root string, recursive bool, opts WalkOptions) ([]FileTask, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, &DirectoryError{Path: root, Err: err}
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, &DirectoryError{Path: absRoot, Err: err}
	}
	if !info.IsDir() {
		return nil, &DirectoryError{Path: absRoot, Err: ErrNotDirectory}
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, &DirectoryError{Path: absRoot, Err: err}
	}

	w := &walker{
		root:      absRoot,
		recursive: recursive,
		skip:      make(map[string]struct{}, len(opts.Skip)),
		ignore:    opts.Ignore,
		visited:   map[string]struct{}{realRoot: {}},
		logger:    logger,
	}
	for _, p := range opts.Skip {
		if abs, err := filepath.Abs(p); err == nil {
			w.skip[abs] = struct{}{}
		}
	}

	logger.Debug("Starting file traversal", zap.String("root", absRoot), zap.Bool("recursive", recursive))
	if err := w.walkDir(absRoot); err != nil {
		return nil, &DirectoryError{Path: absRoot, Err: err}
	}
	logger.Debug("Completed file traversal", zap.Int("files", len(w.tasks)))
	return w.tasks, nil
}

// walkDir visits one directory. Only a failure to read the root is returned;
// unreadable subdirectories are logged and skipped.
func (w *walker) walkDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if dir == w.root {
			return err
		}
		w.logger.Warn("Failed to read directory, skipping", zap.String("directory", dir), zap.Error(err))
		return nil
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if _, ok := w.skip[path]; ok {
			w.logger.Debug("Skipping excluded path", zap.String("path", path))
			continue
		}

		isDir, isLink := entry.IsDir(), entry.Type()&os.ModeSymlink != 0
		if isLink {
			// Resolve the link target; a dangling link is reported as a file so
			// the read failure shows up in the summary.
			if target, err := os.Stat(path); err == nil {
				isDir = target.IsDir()
			}
		}
		if !isDir && !entry.Type().IsRegular() && !isLink {
			w.logger.Debug("Skipping non-regular file", zap.String("path", path))
			continue
		}

		relPath := w.rel(path)
		if w.ignore != nil && w.ignore.Match(relPath, isDir) {
			w.logger.Debug("Skipping ignored path", zap.String("path", relPath))
			continue
		}

		if isDir {
			if !w.recursive {
				continue
			}
			if !w.enter(path) {
				w.logger.Warn("Skipping directory already visited through a symlink", zap.String("directory", path))
				continue
			}
			if err := w.walkDir(path); err != nil {
				return err
			}
			continue
		}

		w.tasks = append(w.tasks, FileTask{
			Path:    path,
			RelPath: relPath,
			Index:   len(w.tasks),
			Ext:     extensionOf(entry.Name()),
		})
	}
	return nil
}

// enter marks the real path of dir as visited and reports whether it was new.
func (w *walker) enter(dir string) bool {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		w.logger.Warn("Failed to resolve directory", zap.String("directory", dir), zap.Error(err))
		return false
	}
	if _, seen := w.visited[resolved]; seen {
		return false
	}
	w.visited[resolved] = struct{}{}
	return true
}

func (w *walker) rel(path string) string {
	relPath, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(relPath)
}

// extensionOf returns the lower-cased extension of name without its dot.
// Dotfiles such as ".bashrc" have no extension.
func extensionOf(name string) string {
	ext := filepath.Ext(name)
	if ext == "" || ext == name {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
