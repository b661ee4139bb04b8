// Package fixer synthesizes mechanical fixes for findings as sets of
// textual edits. A fix is composed from independently vetoable sub-steps;
// if any step vetoes, the whole fix is withheld and the finding is
// reported without one.
package fixer

import "sort"

// Group labels which sub-step contributed an edit, so composed fixes
// (wrap + asyncify + import) stay traceable inside one atomic edit set.
type Group int

const (
	// GroupWrap replaces the flagged statement with a polling wrapper.
	GroupWrap Group = iota
	// GroupAsync marks the enclosing function async.
	GroupAsync
	// GroupImport binds the polling helper in the file.
	GroupImport
)

// Edit is a single text replacement over byte offsets [Start, End).
type Edit struct {
	Start       int
	End         int
	Replacement string
	Group       Group
}

// sortDescending orders edits by descending start offset, the safe
// application order: applying from the back never shifts earlier offsets.
func sortDescending(edits []Edit) []Edit {
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start > sorted[j].Start
	})
	return sorted
}

// Overlapping reports whether any two edits in the set overlap. Edits for
// one finding must never overlap; this guards the invariant in tests and
// before application.
func Overlapping(edits []Edit) bool {
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start < sorted[i-1].End {
			return true
		}
	}
	return false
}

// Apply applies an edit set to source text, highest offset first, and
// returns the edited text. The input slice is not modified.
func Apply(source []byte, edits []Edit) []byte {
	out := make([]byte, len(source))
	copy(out, source)
	for _, e := range sortDescending(edits) {
		if e.Start < 0 || e.End > len(out) || e.Start > e.End {
			continue
		}
		patched := make([]byte, 0, len(out)-(e.End-e.Start)+len(e.Replacement))
		patched = append(patched, out[:e.Start]...)
		patched = append(patched, e.Replacement...)
		patched = append(patched, out[e.End:]...)
		out = patched
	}
	return out
}
