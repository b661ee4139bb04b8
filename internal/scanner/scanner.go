// Package scanner discovers test files under a directory tree. It walks
// the tree skipping the usual build and dependency directories, honors a
// .flakelintignore file with simple glob patterns, and classifies which
// files are test sources worth analyzing.
package scanner

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExcludes are directory names never descended into.
var DefaultExcludes = []string{
	"node_modules",
	".git",
	"dist",
	"build",
	"coverage",
	".next",
	".nuxt",
	"vendor",
	".idea",
	".vscode",
	".hg",
	".svn",
}

// ignoreFileName holds extra glob patterns, one per line, # for comments.
const ignoreFileName = ".flakelintignore"

// Options configures the scanner.
type Options struct {
	// Excludes are directory names to skip. Nil means DefaultExcludes.
	Excludes []string
	// SkipHidden skips dot-files and dot-directories.
	SkipHidden bool
	// AllSources includes non-test JS/TS sources too. The default scans
	// test files only.
	AllSources bool
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{SkipHidden: true}
}

// Scanner walks directory trees for analyzable files.
type Scanner struct {
	opts     Options
	excludes map[string]bool
}

// New creates a Scanner.
func New(opts Options) *Scanner {
	excludes := opts.Excludes
	if excludes == nil {
		excludes = DefaultExcludes
	}
	set := make(map[string]bool, len(excludes))
	for _, name := range excludes {
		set[name] = true
	}
	return &Scanner{opts: opts, excludes: set}
}

// Scan returns the analyzable files under root in deterministic walk
// order. Files directly named by root are returned as-is when they
// qualify.
func (s *Scanner) Scan(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	if !info.IsDir() {
		if s.qualifies(root) {
			return []string{root}, nil
		}
		return nil, nil
	}

	patterns, err := loadIgnorePatterns(filepath.Join(root, ignoreFileName))
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal.
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		name := info.Name()
		if info.IsDir() {
			if s.excludes[name] {
				return filepath.SkipDir
			}
			if s.opts.SkipHidden && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if s.opts.SkipHidden && strings.HasPrefix(name, ".") {
			return nil
		}
		if ignored(patterns, filepath.ToSlash(rel)) {
			return nil
		}
		if s.qualifies(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return files, nil
}

// qualifies reports whether a path should be analyzed.
func (s *Scanner) qualifies(path string) bool {
	if !hasSourceExtension(path) {
		return false
	}
	if s.opts.AllSources {
		return true
	}
	return IsTestFile(path)
}

// loadIgnorePatterns reads glob patterns from an ignore file; a missing
// file means no patterns.
func loadIgnorePatterns(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	var patterns []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, sc.Err()
}

// ignored matches a slash-separated relative path against the loaded
// patterns: full-path match, basename match, or directory-prefix match.
func ignored(patterns []string, rel string) bool {
	base := rel
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		base = rel[i+1:]
	}
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
		if strings.HasPrefix(rel, strings.TrimSuffix(p, "/")+"/") {
			return true
		}
	}
	return false
}
