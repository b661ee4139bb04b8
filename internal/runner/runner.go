// Package runner wires the scanner, parser, detection engine, result
// cache and report model together for the CLI commands. One Runner
// analyzes files sequentially; callers wanting parallelism run one
// Runner per goroutine, since every engine instance is file-scoped.
package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tigredonorte/flakelint/internal/config"
	"github.com/tigredonorte/flakelint/internal/log"
	"github.com/tigredonorte/flakelint/internal/scanner"
	"github.com/tigredonorte/flakelint/pkg/analysis"
	"github.com/tigredonorte/flakelint/pkg/cache"
	"github.com/tigredonorte/flakelint/pkg/fixer"
	"github.com/tigredonorte/flakelint/pkg/report"
	"github.com/tigredonorte/flakelint/pkg/rules"
	"github.com/tigredonorte/flakelint/pkg/syntax"
)

// cacheFileName under the configured cache directory.
const cacheFileName = "results.msgpack"

// Runner analyzes test files and assembles reports.
type Runner struct {
	cfg    *config.Config
	parser *syntax.Parser
	engine *analysis.Engine
	cache  *cache.ResultCache
	logger *log.Logger
}

// New builds a Runner from configuration. The detector set is filtered by
// the config's rule severities.
func New(cfg *config.Config, logger *log.Logger) *Runner {
	detectors := rules.Select(cfg.EnabledRules(rules.Names()))
	r := &Runner{
		cfg:    cfg,
		parser: syntax.NewParser(),
		engine: analysis.NewEngine(detectors...),
		logger: logger,
	}
	if cfg.CacheDir != "" {
		r.cache = cache.New()
		if err := r.cache.LoadFile(r.cachePath()); err != nil {
			logger.Warn("ignoring unreadable cache", "path", r.cachePath(), "err", err)
		}
	}
	return r
}

func (r *Runner) cachePath() string {
	return filepath.Join(r.cfg.CacheDir, cacheFileName)
}

// Check scans the given paths, analyzes every test file and returns the
// assembled report. File order, and therefore report order, is the
// scanner's deterministic walk order.
func (r *Runner) Check(paths []string) (*report.Report, error) {
	files, err := r.discover(paths)
	if err != nil {
		return nil, err
	}

	var entries []report.Entry
	for _, file := range files {
		fileEntries, err := r.checkFile(file)
		if err != nil {
			// One broken file must not fail the run.
			r.logger.Warn("skipping file", "path", file, "err", err)
			continue
		}
		entries = append(entries, fileEntries...)
	}

	if r.cache != nil {
		if err := r.cache.SaveFile(r.cachePath()); err != nil {
			r.logger.Warn("could not persist cache", "err", err)
		}
	}
	return report.New(entries, len(files)), nil
}

// checkFile analyzes one file, consulting the cache first.
func (r *Runner) checkFile(path string) ([]report.Entry, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	hash := cache.HashContent(source)
	if r.cache != nil {
		if cached, err := r.cache.Get(path, hash); err == nil {
			r.logger.Debug("cache hit", "path", path)
			return cached, nil
		}
	}

	findings, err := r.analyze(path, source)
	if err != nil {
		return nil, err
	}
	entries := report.FromFindings(path, findings)
	if r.cache != nil {
		r.cache.Put(path, hash, entries)
	}
	return entries, nil
}

// analyze parses and runs the engine over one file.
func (r *Runner) analyze(path string, source []byte) ([]analysis.Finding, error) {
	file, err := r.parser.Parse(path, source)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	ctx := analysis.NewContext(path, source, file.Root())
	if r.cfg.Framework != "" {
		ctx.Framework = syntax.Framework(r.cfg.Framework)
	}
	return r.engine.Analyze(ctx), nil
}

// FixResult summarizes one file's fix application.
type FixResult struct {
	Path    string
	Applied int
	Skipped int
}

// Fix analyzes the given paths and applies every finding's fix,
// highest offset first. Fixes whose edits overlap an already applied
// fix in the same file are skipped, never merged. When write is false
// the file is left untouched and only the counts are reported.
func (r *Runner) Fix(paths []string, write bool) ([]FixResult, error) {
	files, err := r.discover(paths)
	if err != nil {
		return nil, err
	}

	var results []FixResult
	for _, file := range files {
		res, err := r.fixFile(file, write)
		if err != nil {
			r.logger.Warn("skipping file", "path", file, "err", err)
			continue
		}
		if res.Applied > 0 || res.Skipped > 0 {
			results = append(results, res)
		}
	}
	return results, nil
}

func (r *Runner) fixFile(path string, write bool) (FixResult, error) {
	res := FixResult{Path: path}
	source, err := os.ReadFile(path)
	if err != nil {
		return res, err
	}
	findings, err := r.analyze(path, source)
	if err != nil {
		return res, err
	}

	var fixable []analysis.Finding
	for _, f := range findings {
		if len(f.Fix) > 0 {
			fixable = append(fixable, f)
		}
	}
	// Highest offset first so earlier ranges stay valid.
	sort.SliceStable(fixable, func(i, j int) bool {
		return fixable[i].Offset() > fixable[j].Offset()
	})

	patched := source
	var applied []fixer.Edit
	for _, f := range fixable {
		if overlapsAny(f.Fix, applied) {
			res.Skipped++
			continue
		}
		patched = fixer.Apply(patched, f.Fix)
		applied = append(applied, f.Fix...)
		res.Applied++
	}

	if res.Applied > 0 && write {
		info, err := os.Stat(path)
		if err != nil {
			return res, err
		}
		if err := os.WriteFile(path, patched, info.Mode()); err != nil {
			return res, fmt.Errorf("writing %s: %w", path, err)
		}
		// The file changed on disk; its cached result is stale.
		if r.cache != nil {
			r.cache.Put(path, cache.HashContent(patched), nil)
		}
	}
	return res, nil
}

// overlapsAny reports whether any edit in next overlaps any in done.
func overlapsAny(next, done []fixer.Edit) bool {
	for _, n := range next {
		for _, d := range done {
			if n.Start < d.End && d.Start < n.End {
				return true
			}
		}
	}
	return false
}

// discover expands the given paths into the test files to analyze.
func (r *Runner) discover(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	sc := scanner.New(scanner.Options{
		Excludes:   r.cfg.Excludes,
		SkipHidden: true,
	})
	var files []string
	seen := map[string]bool{}
	for _, p := range paths {
		found, err := sc.Scan(p)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	return files, nil
}
