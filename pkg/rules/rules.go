// Package rules implements the built-in flakiness detectors. Each detector
// is an independent pattern matcher registered with the analysis engine;
// detectors keep all state file-scoped and reset it before every file.
package rules

import (
	"sort"

	"github.com/tigredonorte/flakelint/pkg/analysis"
)

// Default returns every built-in detector in registration order. The
// order is fixed so dispatch (and therefore finding discovery) is
// deterministic; emission order is decided by the reporter, not by this
// list.
func Default() []analysis.Detector {
	return []analysis.Detector{
		NewSharedState(),
		NewRemovalRace(),
		NewHardWait(),
		NewImmediateAssert(),
		NewUnmockedNetwork(),
		NewUnmockedFS(),
		NewRandomData(),
		NewFocusedTest(),
	}
}

// Select returns the default detectors filtered by an enabled-set. A nil
// map selects everything; otherwise a detector runs only when its name
// maps to true.
func Select(enabled map[string]bool) []analysis.Detector {
	all := Default()
	if enabled == nil {
		return all
	}
	var out []analysis.Detector
	for _, d := range all {
		if enabled[d.Name()] {
			out = append(out, d)
		}
	}
	return out
}

// Names returns the names of all built-in detectors, sorted.
func Names() []string {
	all := Default()
	names := make([]string, 0, len(all))
	for _, d := range all {
		names = append(names, d.Name())
	}
	sort.Strings(names)
	return names
}
