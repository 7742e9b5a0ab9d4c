// Package ignore decides which paths are hidden from discovery. It supports
// gitignore-style pattern files (".fusionignore" by default) and, optionally,
// the root ".gitignore".
package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
	"go.uber.org/zap"
)

// DefaultFileName is the ignore file looked up in the root directory.
const DefaultFileName = ".fusionignore"

// Matcher reports whether a path relative to the root should be skipped.
type Matcher interface {
	Match(relPath string, isDir bool) bool
}

// IgnorePattern encapsulates a compiled regular expression pattern,
// a negation flag, and metadata about the pattern's origin.
type IgnorePattern struct {
	Pattern *regexp.Regexp // Compiled regular expression for the pattern.
	Negate  bool           // Indicates if the pattern is a negation (starts with '!').
	Line    string         // Original pattern line.
	Source  string         // File the pattern came from, empty for command-line patterns.
	LineNo  int            // Line number in the source (1-based).
}

// PatternSet represents an ordered collection of ignore patterns. The last
// matching pattern decides.
type PatternSet struct {
	Patterns []*IgnorePattern
	logger   *zap.Logger
}

// NewPatternSet initializes a PatternSet with an optional logger.
func NewPatternSet(logger *zap.Logger) *PatternSet {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PatternSet{logger: logger}
}

// CompileIgnoreLines compiles pattern lines and appends them to the set.
func (ps *PatternSet) CompileIgnoreLines(lines ...string) {
	ps.compile("", lines)
}

// CompileIgnoreFile reads an ignore file and appends its patterns.
// A missing file is not an error.
func (ps *PatternSet) CompileIgnoreFile(fpath string) error {
	content, err := os.ReadFile(fpath)
	if err != nil {
		if os.IsNotExist(err) {
			ps.logger.Debug("Ignore file does not exist and will be skipped", zap.String("filePath", fpath))
			return nil
		}
		return fmt.Errorf("failed to read ignore file %s: %w", fpath, err)
	}

	lines := strings.Split(string(content), "\n")
	ps.compile(fpath, lines)
	ps.logger.Debug("Compiled ignore patterns", zap.String("filePath", fpath), zap.Int("lineCount", len(lines)))
	return nil
}

func (ps *PatternSet) compile(source string, lines []string) {
	for i, line := range lines {
		pattern, negate := parsePatternLine(line)
		if pattern == nil {
			continue
		}
		ps.Patterns = append(ps.Patterns, &IgnorePattern{
			Pattern: pattern,
			Negate:  negate,
			Line:    strings.TrimSpace(line),
			Source:  source,
			LineNo:  i + 1,
		})
	}
}

// Len returns the number of compiled patterns.
func (ps *PatternSet) Len() int {
	return len(ps.Patterns)
}

// Match implements Matcher.
func (ps *PatternSet) Match(relPath string, isDir bool) bool {
	matches, _ := ps.MatchesPathWithPattern(relPath, isDir)
	return matches
}

// MatchesPathWithPattern checks a path against every pattern and returns the
// decisive one, if any.
func (ps *PatternSet) MatchesPathWithPattern(relPath string, isDir bool) (bool, *IgnorePattern) {
	normalizedPath := normalizePath(relPath, isDir)

	var matchedPattern *IgnorePattern
	matches := false
	for _, pattern := range ps.Patterns {
		if pattern.Pattern.MatchString(normalizedPath) {
			matchedPattern = pattern
			matches = !pattern.Negate
		}
	}
	return matches, matchedPattern
}

// normalizePath converts separators to forward slashes and marks directories
// with a trailing slash.
func normalizePath(path string, isDir bool) string {
	path = strings.TrimPrefix(filepath.ToSlash(path), "./")
	if isDir && !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path
}

// parsePatternLine turns one ignore line into a compiled regex and a negation flag.
// It returns nil for blank lines, comments and patterns that fail to compile.
func parsePatternLine(line string) (*regexp.Regexp, bool) {
	trimmedLine := strings.TrimSpace(line)

	// Ignore empty lines and comments.
	if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") {
		return nil, false
	}

	negate := false
	if strings.HasPrefix(trimmedLine, "!") {
		negate = true
		trimmedLine = strings.TrimPrefix(trimmedLine, "!")
	}

	// Handle escaped characters for `#` and `!`.
	if strings.HasPrefix(trimmedLine, `\#`) || strings.HasPrefix(trimmedLine, `\!`) {
		trimmedLine = trimmedLine[1:]
	}

	dirOnly := strings.HasSuffix(trimmedLine, "/")
	body := strings.TrimSuffix(trimmedLine, "/")
	rooted := strings.Contains(body, "/") && !strings.HasPrefix(body, "**/")
	body = strings.TrimPrefix(body, "/")
	if body == "" {
		return nil, false
	}

	expr := escapeSpecialChars(body)
	expr = handleDoubleStarPatterns(expr)
	expr = wildcardToRegex(expr)
	expr = anchorPattern(expr, dirOnly, rooted)

	compiledRegex, err := regexp.Compile(expr)
	if err != nil {
		return nil, false
	}
	return compiledRegex, negate
}

// gitIgnoreMatcher adapts go-gitignore, which expects paths it can relate to
// the directory holding the .gitignore file.
type gitIgnoreMatcher struct {
	root    string
	matcher gitignore.IgnoreMatcher
}

func (g *gitIgnoreMatcher) Match(relPath string, isDir bool) bool {
	return g.matcher.Match(filepath.Join(g.root, filepath.FromSlash(relPath)), isDir)
}

// chain ignores a path when any member does.
type chain []Matcher

func (c chain) Match(relPath string, isDir bool) bool {
	for _, m := range c {
		if m.Match(relPath, isDir) {
			return true
		}
	}
	return false
}

// Options selects the ignore sources for a root directory.
type Options struct {
	Files            []string // Extra pattern files
	Patterns         []string // Extra pattern lines
	RespectGitignore bool     // Honour <root>/.gitignore
}

// Load builds the matcher for root. It returns nil when nothing can be ignored.
func Load(root string, opts Options, logger *zap.Logger) (Matcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ps := NewPatternSet(logger)
	if err := ps.CompileIgnoreFile(filepath.Join(root, DefaultFileName)); err != nil {
		return nil, err
	}
	for _, f := range opts.Files {
		absPath, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve ignore file %s: %w", f, err)
		}
		if _, err := os.Stat(absPath); err != nil {
			return nil, fmt.Errorf("ignore file %s: %w", absPath, err)
		}
		if err := ps.CompileIgnoreFile(absPath); err != nil {
			return nil, err
		}
	}
	if len(opts.Patterns) > 0 {
		ps.CompileIgnoreLines(opts.Patterns...)
	}

	var matchers chain
	if ps.Len() > 0 {
		logger.Debug("Loaded ignore patterns", zap.Int("totalPatterns", ps.Len()))
		matchers = append(matchers, ps)
	}

	if opts.RespectGitignore {
		gitIgnorePath := filepath.Join(root, ".gitignore")
		if _, err := os.Stat(gitIgnorePath); err == nil {
			m, err := gitignore.NewGitIgnore(gitIgnorePath)
			if err != nil {
				return nil, fmt.Errorf("could not parse %s: %w", gitIgnorePath, err)
			}
			matchers = append(matchers, &gitIgnoreMatcher{root: root, matcher: m})
			logger.Debug("Loaded .gitignore", zap.String("file", gitIgnorePath))
		}
	}

	if len(matchers) == 0 {
		return nil, nil
	}
	return matchers, nil
}
