package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	fileStyle     = color.New(color.Bold, color.FgCyan)
	categoryStyle = color.New(color.FgYellow)
	urgentStyle   = color.New(color.FgRed)
	okStyle       = color.New(color.FgGreen)
	fixableStyle  = color.New(color.Faint)
)

// RenderText writes the human-readable report. Entries are grouped by
// file in their existing order; shared-state and placement findings are
// highlighted since they should be fixed first.
func RenderText(w io.Writer, r *Report) {
	currentFile := ""
	for _, e := range r.Entries {
		if e.File != currentFile {
			if currentFile != "" {
				fmt.Fprintln(w)
			}
			currentFile = e.File
			fileStyle.Fprintln(w, currentFile)
		}
		style := categoryStyle
		if e.Priority < 2 {
			style = urgentStyle
		}
		fmt.Fprintf(w, "  %d:%d  %s  %s", e.Line, e.Column, style.Sprint(e.Category), e.Message)
		if e.Fixable() {
			fmt.Fprintf(w, " %s", fixableStyle.Sprint("(fixable)"))
		}
		fmt.Fprintln(w)
	}

	if r.Totals.Issues == 0 {
		okStyle.Fprintf(w, "✓ %d files checked, no flakiness patterns found\n", r.Totals.Files)
		return
	}
	fmt.Fprintf(w, "\n%d issues in %d of %d files (%d fixable)\n",
		r.Totals.Issues, r.Totals.FilesWithIssues, r.Totals.Files, r.Totals.Fixable)
}

// RenderJSON writes the report as indented JSON.
func RenderJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
