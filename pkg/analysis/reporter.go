package analysis

import "sort"

// Reporter collects findings for one file, deduplicates them by
// (location, category) and flushes them in deterministic order.
type Reporter struct {
	findings []Finding
	seen     map[findingKey]bool
}

type findingKey struct {
	offset   int
	category string
}

// NewReporter creates an empty reporter buffer.
func NewReporter() *Reporter {
	return &Reporter{seen: make(map[findingKey]bool)}
}

// Report buffers a finding. A second finding with the same location and
// category is dropped.
func (r *Reporter) Report(f Finding) {
	key := findingKey{offset: f.Offset(), category: f.Category}
	if r.seen[key] {
		return
	}
	r.seen[key] = true
	r.findings = append(r.findings, f)
}

// Len returns the number of buffered findings.
func (r *Reporter) Len() int { return len(r.findings) }

// Flush sorts the buffered findings by (category priority, line, column)
// and returns them, clearing the buffer. Priority is a property of the
// category, never of discovery order, so identical input always yields an
// identically ordered list.
func (r *Reporter) Flush() []Finding {
	out := r.findings
	r.findings = nil
	r.seen = make(map[findingKey]bool)

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := PriorityOf(out[i].Category), PriorityOf(out[j].Category)
		if pi != pj {
			return pi < pj
		}
		li, lj := out[i].Position(), out[j].Position()
		if li.Line != lj.Line {
			return li.Line < lj.Line
		}
		if li.Column != lj.Column {
			return li.Column < lj.Column
		}
		return out[i].Category < out[j].Category
	})
	return out
}
