// File: pkg/combine/config.go
package combine

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"
)

const maxDefaultWorkers = 32

// FilterConfig decides which discovered files end up in the output.
// It is immutable after NewFilterConfig and safe for concurrent use.
type FilterConfig struct {
	include       map[string]struct{}
	exclude       map[string]struct{}
	maxSize       int64
	includeBinary bool
}

// NewFilterConfig normalizes the extension lists and rejects overlapping sets.
// maxSize is in bytes; zero or negative disables the size limit.
func NewFilterConfig(include, exclude []string, maxSize int64, includeBinary bool) (*FilterConfig, error) {
	fc := &FilterConfig{
		include:       extensionSet(include),
		exclude:       extensionSet(exclude),
		maxSize:       maxSize,
		includeBinary: includeBinary,
	}

	var overlap []string
	for ext := range fc.include {
		if _, ok := fc.exclude[ext]; ok {
			overlap = append(overlap, ext)
		}
	}
	if len(overlap) > 0 {
		sort.Strings(overlap)
		return nil, &ConfigError{
			Field:  "include/exclude",
			Reason: fmt.Sprintf("extensions listed in both sets: %s", strings.Join(overlap, ",")),
		}
	}
	return fc, nil
}

// MaxSize returns the size limit in bytes, or 0 when unlimited.
func (fc *FilterConfig) MaxSize() int64 {
	if fc.maxSize <= 0 {
		return 0
	}
	return fc.maxSize
}

// IncludeBinary reports whether binary files are kept.
func (fc *FilterConfig) IncludeBinary() bool {
	return fc.includeBinary
}

// extensionSet builds a lookup set of normalized extensions.
func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		set[normalizeExt(e)] = struct{}{}
	}
	return set
}

// normalizeExt lower-cases an extension and strips a leading dot.
func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Config holds everything a single run needs.
type Config struct {
	Root             string        // Directory to process
	Recursive        bool          // Descend into subdirectories
	Filter           *FilterConfig // Inclusion rules, required
	Workers          int           // Worker count; <= 0 selects DefaultWorkers
	Render           RenderOptions // Output format selection
	OutputPath       string        // Skipped during discovery when it lives under Root
	IgnoreFiles      []string      // Extra ignore-pattern files
	IgnorePatterns   []string      // Extra ignore patterns from the command line
	RespectGitignore bool          // Honour the root .gitignore
	Clock            func() time.Time
}

// DefaultWorkers returns the worker count used when none is configured.
func DefaultWorkers() int {
	n := runtime.GOMAXPROCS(0) * 4
	if n > maxDefaultWorkers {
		n = maxDefaultWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return &ConfigError{Field: "root", Reason: "a directory path is required"}
	}
	if c.Filter == nil {
		return &ConfigError{Field: "filter", Reason: "filter configuration is required"}
	}
	if _, err := ParseFormat(string(c.Render.Format)); err != nil {
		return err
	}
	return nil
}
