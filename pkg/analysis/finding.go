// Package analysis contains the detection engine core: the per-file
// analysis context, the tree walker that dispatches nodes to detectors,
// and the reporter that orders findings deterministically.
package analysis

import (
	"os"

	"github.com/tigredonorte/flakelint/pkg/fixer"
	"github.com/tigredonorte/flakelint/pkg/syntax"
)

// Violation categories. Category is part of a finding's identity: the
// reporter deduplicates by (location, category) and orders output by the
// category's priority.
const (
	CategorySharedState     = "shared-state"
	CategoryInitInSetup     = "init-in-setup"
	CategoryInterdependence = "test-interdependence"
	CategoryRemovalRace     = "removal-race"
	CategoryHardWait        = "hard-wait"
	CategoryImmediateAssert = "immediate-assertion"
	CategoryUnmockedNetwork = "unmocked-network"
	CategoryUnmockedFS      = "unmocked-fs"
	CategoryRandomData      = "random-data"
)

// categoryPriority orders categories for emission. Fixing a higher
// priority finding can make lower priority ones moot, so tooling that
// applies fixes one at a time should walk the list in this order.
// Shared-state first, then placement advice, then cleanup advice, then
// everything else.
var categoryPriority = map[string]int{
	CategorySharedState:     0,
	CategoryInitInSetup:     1,
	CategoryInterdependence: 2,
}

const defaultPriority = 3

// PriorityOf returns the emission priority for a category. Unlisted
// categories share the lowest priority.
func PriorityOf(category string) int {
	if p, ok := categoryPriority[category]; ok {
		return p
	}
	return defaultPriority
}

// Finding is one reported instance of a detected anti-pattern. It is
// immutable once created and owned by the reporter until flush.
type Finding struct {
	// Node locates the violation in the syntax tree.
	Node *syntax.Node
	// Category identifies the violation family.
	Category string
	// MessageKey selects the message template; MessageData fills it.
	MessageKey  string
	MessageData map[string]string
	// Fix is the atomic edit set resolving the finding, or nil when no
	// safe fix exists.
	Fix []fixer.Edit

	pos    syntax.Position
	offset int
}

// NewFinding captures the node's position eagerly so findings stay
// sortable after the tree is released.
func NewFinding(n *syntax.Node, category, messageKey string, data map[string]string) Finding {
	f := Finding{
		Node:        n,
		Category:    category,
		MessageKey:  messageKey,
		MessageData: data,
	}
	if n != nil {
		f.pos = syntax.PositionOf(n)
		f.offset = int(n.StartByte())
	}
	return f
}

// WithFix returns a copy of the finding carrying the given edit set.
func (f Finding) WithFix(edits []fixer.Edit) Finding {
	f.Fix = edits
	return f
}

// Position returns the finding's 1-based line and column.
func (f Finding) Position() syntax.Position { return f.pos }

// Offset returns the finding's start byte offset.
func (f Finding) Offset() int { return f.offset }

// Message renders the finding's message from its template and data.
func (f Finding) Message() string {
	tmpl, ok := messageCatalog[f.MessageKey]
	if !ok {
		return f.MessageKey
	}
	return os.Expand(tmpl, func(key string) string {
		return f.MessageData[key]
	})
}
