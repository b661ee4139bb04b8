// Package scope tracks variable declarations across one test file and
// classifies them by binding scope: module top level, suite block,
// lifecycle hook, or individual test. Mutations are recorded against the
// declaration so cross-test mutation of shared state can be reported.
package scope

import (
	"github.com/tigredonorte/flakelint/pkg/syntax"
)

// Kind is a variable's binding scope. It is fixed when the declaration is
// visited and never changes afterwards.
type Kind int

const (
	Module Kind = iota
	Suite
	Hook
	Test
)

func (k Kind) String() string {
	switch k {
	case Suite:
		return "suite"
	case Hook:
		return "hook"
	case Test:
		return "test"
	default:
		return "module"
	}
}

// Record is the lifetime record of one declared variable.
type Record struct {
	Name string
	// Scope is determined solely by the lexical nesting of the
	// declaration, never by later usage.
	Scope       Kind
	Declaration *syntax.Node
	// HasInitializer is true when the declaration carries a value.
	HasInitializer bool
	// Constant marks an immutable binding with a constant initializer,
	// exempt from shared-state tracking.
	Constant bool
	// Mutations accumulates every recorded mutation site.
	Mutations []*syntax.Node

	hookMutation  bool
	setupMutation bool
	firstTestSite *syntax.Node
}

// mutatingMethods is the closed catalog of method names treated as
// mutations of their receiver.
var mutatingMethods = map[string]bool{
	"push": true, "pop": true, "shift": true, "unshift": true,
	"splice": true, "sort": true, "reverse": true, "fill": true,
	"copyWithin": true, "set": true, "delete": true, "clear": true,
	"add": true,
}

// Tracker classifies declarations and records mutations for one file.
type Tracker struct {
	source  []byte
	records map[string]*Record
	order   []string
}

// NewTracker creates an empty tracker for one file's source.
func NewTracker(source []byte) *Tracker {
	return &Tracker{
		source:  source,
		records: make(map[string]*Record),
	}
}

// OnDeclaration registers a variable_declarator node. Destructuring
// patterns and malformed declarators are ignored. The returned record is
// nil when nothing was tracked.
func (t *Tracker) OnDeclaration(decl *syntax.Node) *Record {
	if syntax.KindOf(decl) != syntax.KindVariableDeclarator {
		return nil
	}
	nameNode := decl.ChildByFieldName("name")
	if syntax.KindOf(nameNode) != syntax.KindIdentifier {
		return nil
	}
	name := syntax.Text(nameNode, t.source)
	if name == "" {
		return nil
	}
	// Redeclaration in a nested scope shadows; keep the first record, the
	// tracker is deliberately not a full symbol table.
	if _, exists := t.records[name]; exists {
		return t.records[name]
	}

	value := decl.ChildByFieldName("value")
	rec := &Record{
		Name:           name,
		Scope:          scopeKindOf(decl, t.source),
		Declaration:    decl,
		HasInitializer: value != nil,
		Constant:       isConstBinding(decl, t.source) && syntax.IsConstantInitializer(value),
	}
	t.records[name] = rec
	t.order = append(t.order, name)
	return rec
}

// OnMutation records a mutation site: an assignment, an increment or
// decrement, or a call to a catalogued mutating method. Nodes that do not
// target a tracked variable are ignored.
func (t *Tracker) OnMutation(n *syntax.Node) {
	name := t.mutationTarget(n)
	if name == "" {
		return
	}
	rec, ok := t.records[name]
	if !ok || rec.Constant {
		return
	}
	rec.Mutations = append(rec.Mutations, n)

	switch syntax.ClassifyContext(n, t.source) {
	case syntax.ContextHook:
		rec.hookMutation = true
		if syntax.InSetupHook(n, t.source) {
			rec.setupMutation = true
		}
	case syntax.ContextTest:
		if rec.firstTestSite == nil {
			rec.firstTestSite = n
		}
	}
}

// Lookup returns the record for a variable name, or nil.
func (t *Tracker) Lookup(name string) *Record {
	return t.records[name]
}

// Records returns all records in declaration order.
func (t *Tracker) Records() []*Record {
	out := make([]*Record, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.records[name])
	}
	return out
}

// Issue is the tracker's verdict for one variable after the whole file
// has been seen.
type Issue struct {
	Record *Record
	// Site is the node the finding should point at.
	Site *syntax.Node
	// InitInSetup is true for the init-placement warning, false for the
	// shared-state warning. The two are mutually exclusive per variable.
	InitInSetup bool
}

// Issues evaluates every tracked variable and returns at most one issue
// per variable, in declaration order.
//
// Rules: constants are exempt. A variable initialized at its declaration
// and reassigned in a setup hook gets init-in-setup (pointing at the
// declaration). Otherwise, a module- or suite-scoped variable mutated
// inside a test gets shared-state (pointing at the first test mutation),
// unless a setup hook writes it earlier in the file, as established by
// the textual heuristic in HookAssigns, not by data flow.
func (t *Tracker) Issues() []Issue {
	var out []Issue
	for _, rec := range t.Records() {
		if rec.Constant {
			continue
		}
		if rec.hookMutation && rec.HasInitializer {
			out = append(out, Issue{Record: rec, Site: rec.Declaration, InitInSetup: true})
			continue
		}
		if rec.firstTestSite == nil {
			continue
		}
		if rec.Scope != Module && rec.Scope != Suite {
			continue
		}
		if rec.setupMutation || HookAssigns(t.source, rec.Name) {
			continue
		}
		out = append(out, Issue{Record: rec, Site: rec.firstTestSite})
	}
	return out
}

// scopeKindOf maps a declaration's lexical test context to a scope kind.
func scopeKindOf(decl *syntax.Node, source []byte) Kind {
	switch syntax.ClassifyContext(decl, source) {
	case syntax.ContextHook:
		return Hook
	case syntax.ContextTest:
		return Test
	case syntax.ContextSuite:
		return Suite
	}
	return Module
}

// isConstBinding reports whether a declarator belongs to a const
// declaration.
func isConstBinding(decl *syntax.Node, source []byte) bool {
	parent := decl.Parent()
	if syntax.KindOf(parent) != syntax.KindLexicalDeclaration {
		return false
	}
	first := parent.Child(0)
	return first != nil && first.Type() == "const"
}

// mutationTarget extracts the tracked variable name a mutation node
// targets, or "" when none can be identified.
func (t *Tracker) mutationTarget(n *syntax.Node) string {
	switch syntax.KindOf(n) {
	case syntax.KindAssignmentExpression, syntax.KindAugmentedAssignmentExpression:
		return t.baseIdentifier(n.ChildByFieldName("left"))
	case syntax.KindUpdateExpression:
		return t.baseIdentifier(n.ChildByFieldName("argument"))
	case syntax.KindCallExpression:
		callee := syntax.Callee(n)
		if syntax.KindOf(callee) != syntax.KindMemberExpression {
			return ""
		}
		prop := syntax.Text(callee.ChildByFieldName("property"), t.source)
		if !mutatingMethods[prop] {
			return ""
		}
		return t.baseIdentifier(callee.ChildByFieldName("object"))
	}
	return ""
}

// baseIdentifier resolves an lvalue to its leading identifier: `counter`
// for counter++, `state` for state.items.push(...).
func (t *Tracker) baseIdentifier(n *syntax.Node) string {
	for syntax.KindOf(n) == syntax.KindMemberExpression {
		n = n.ChildByFieldName("object")
	}
	if syntax.KindOf(n) != syntax.KindIdentifier {
		return ""
	}
	return syntax.Text(n, t.source)
}
