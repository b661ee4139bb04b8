package scope

import (
	"regexp"
	"sync"
)

// setupHookCallRe matches the opening of a setup hook call anywhere in the
// file's text.
var setupHookCallRe = regexp.MustCompile(`\b(?:beforeEach|beforeAll|before|setup)\s*\(`)

var (
	assignReMu    sync.Mutex
	assignReCache = map[string]*regexp.Regexp{}
)

// assignRe builds (and caches) the pattern matching a write to name:
// plain or compound assignment, or increment/decrement.
func assignRe(name string) *regexp.Regexp {
	assignReMu.Lock()
	defer assignReMu.Unlock()
	if re, ok := assignReCache[name]; ok {
		return re
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\s*(?:=[^=]|[+\-*/|&]=|\+\+|--)`)
	assignReCache[name] = re
	return re
}

// HookAssigns reports whether the file's text contains a setup hook call
// followed (anywhere later in the file) by a write to the named variable.
//
// This is a deliberate textual heuristic, not data flow: it can over-match
// (a hook in an unrelated suite block counts) and under-match (writes
// through aliases are invisible). Changing it to a flow-sensitive check
// would change which shared-state findings are suppressed, so the
// observable behavior is kept as-is.
func HookAssigns(source []byte, name string) bool {
	hook := setupHookCallRe.FindIndex(source)
	if hook == nil {
		return false
	}
	return assignRe(name).Match(source[hook[1]:])
}
