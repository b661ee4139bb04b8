// Package report turns the engine's findings into serializable, renderable
// output: a flat entry list plus aggregate totals, grouped per file.
package report

import (
	"time"

	"github.com/tigredonorte/flakelint/pkg/analysis"
)

// FixEntry is one textual edit of a finding's fix.
type FixEntry struct {
	Start       int    `json:"start" msgpack:"start"`
	End         int    `json:"end" msgpack:"end"`
	Replacement string `json:"replacement" msgpack:"replacement"`
}

// Entry is one finding detached from its syntax tree, safe to cache and
// serialize after the tree is released.
type Entry struct {
	File     string     `json:"file" msgpack:"file"`
	Category string     `json:"category" msgpack:"category"`
	Message  string     `json:"message" msgpack:"message"`
	Line     int        `json:"line" msgpack:"line"`
	Column   int        `json:"column" msgpack:"column"`
	Priority int        `json:"priority" msgpack:"priority"`
	Fixes    []FixEntry `json:"fixes,omitempty" msgpack:"fixes"`
}

// Fixable reports whether the entry carries a fix.
func (e Entry) Fixable() bool { return len(e.Fixes) > 0 }

// Totals aggregates a run.
type Totals struct {
	Files           int `json:"filesChecked"`
	FilesWithIssues int `json:"filesWithIssues"`
	Issues          int `json:"totalIssues"`
	Fixable         int `json:"fixable"`
}

// Report is the final artifact of one run.
type Report struct {
	Entries   []Entry   `json:"findings"`
	Totals    Totals    `json:"summary"`
	Timestamp time.Time `json:"timestamp"`
}

// FromFindings converts one file's ordered findings into entries. The
// findings' order is preserved.
func FromFindings(path string, findings []analysis.Finding) []Entry {
	entries := make([]Entry, 0, len(findings))
	for _, f := range findings {
		pos := f.Position()
		e := Entry{
			File:     path,
			Category: f.Category,
			Message:  f.Message(),
			Line:     pos.Line,
			Column:   pos.Column,
			Priority: analysis.PriorityOf(f.Category),
		}
		for _, edit := range f.Fix {
			e.Fixes = append(e.Fixes, FixEntry{
				Start:       edit.Start,
				End:         edit.End,
				Replacement: edit.Replacement,
			})
		}
		entries = append(entries, e)
	}
	return entries
}

// New assembles a report from per-file entries. filesChecked counts every
// analyzed file, including clean ones.
func New(entries []Entry, filesChecked int) *Report {
	r := &Report{Entries: entries, Timestamp: time.Now()}
	r.Totals.Files = filesChecked
	withIssues := map[string]bool{}
	for _, e := range entries {
		withIssues[e.File] = true
		r.Totals.Issues++
		if e.Fixable() {
			r.Totals.Fixable++
		}
	}
	r.Totals.FilesWithIssues = len(withIssues)
	return r
}
