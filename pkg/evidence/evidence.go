// Package evidence gathers facts from the statements preceding a candidate
// violation. The absence-assertion detectors use it to decide whether an
// absence check is ordinary control flow (nothing was ever shown present)
// or a race (something was shown present and then acted on).
package evidence

import (
	"strings"

	"github.com/tigredonorte/flakelint/pkg/syntax"
)

// Window is an ordered view of one block's statements with a cursor at the
// statement containing the candidate node. It lives only for the duration
// of one detector's evaluation of one candidate.
type Window struct {
	Statements []*syntax.Node
	// Index is the cursor position of the candidate's statement.
	Index int
}

// EnclosingStatementList locates the statement list holding the candidate
// and the candidate's index within it. ok is false when the node has no
// enclosing statement container (malformed trees decline to match).
func EnclosingStatementList(n *syntax.Node) (Window, bool) {
	stmt := syntax.EnclosingStatement(n)
	if stmt == nil {
		return Window{}, false
	}
	block := stmt.Parent()
	if block == nil {
		return Window{}, false
	}
	var stmts []*syntax.Node
	index := -1
	for i := 0; i < int(block.NamedChildCount()); i++ {
		child := block.NamedChild(i)
		if child == nil {
			continue
		}
		if child.StartByte() == stmt.StartByte() && child.EndByte() == stmt.EndByte() {
			index = len(stmts)
		}
		stmts = append(stmts, child)
	}
	if index < 0 {
		return Window{}, false
	}
	return Window{Statements: stmts, Index: index}, true
}

// Facts are the independent observations gathered from the statements
// before the cursor.
type Facts struct {
	// Trigger is true when an earlier statement performed a simulated
	// user interaction.
	Trigger bool
	// PriorPresence is true when an earlier statement positively asserted
	// or retrieved the same named target.
	PriorPresence bool
}

// Sufficient reports whether the gathered facts prove the race scenario.
// When the target could be syntactically identified, both the trigger and
// the prior presence are required; otherwise the trigger alone suffices
// as a deliberate, more permissive fallback.
func (f Facts) Sufficient(targetIdentified bool) bool {
	if targetIdentified {
		return f.Trigger && f.PriorPresence
	}
	return f.Trigger
}

// interactionCallees are the dotted-callee prefixes recognized as
// simulated user interactions.
var interactionCallees = []string{
	"userEvent.",
	"fireEvent.",
	"fireEvent(",
}

// interactionMethods are trailing method names recognized as interactions
// regardless of receiver (page.click, element.click, wrapper.trigger).
var interactionMethods = map[string]bool{
	"click": true, "dblclick": true, "type": true, "press": true,
	"keyboard": true, "hover": true, "tap": true, "trigger": true,
	"submit": true, "focus": true, "blur": true, "selectOptions": true,
	"upload": true, "paste": true, "drag": true,
}

// Collect scans every statement before the window's cursor for the trigger
// fact and, when target is non-empty, for a prior positive assertion or
// retrieval of that target. If the window cursor is at the first
// statement there is nothing to scan and the zero Facts value is returned.
func Collect(w Window, source []byte, target string) Facts {
	var facts Facts
	for i := 0; i < w.Index; i++ {
		stmt := w.Statements[i]
		if !facts.Trigger && containsInteraction(stmt, source) {
			facts.Trigger = true
		}
		if target != "" && !facts.PriorPresence && assertsPresence(stmt, source, target) {
			facts.PriorPresence = true
		}
	}
	return facts
}

// IsInteraction reports whether a single call is a simulated user
// interaction.
func IsInteraction(call *syntax.Node, source []byte) bool {
	name := syntax.CalleeName(call, source)
	for _, prefix := range interactionCallees {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return interactionMethods[syntax.CalleeProperty(call, source)]
}

// containsInteraction reports whether any call inside stmt is a simulated
// user interaction.
func containsInteraction(stmt *syntax.Node, source []byte) bool {
	found := false
	walkCalls(stmt, func(call *syntax.Node) {
		if !found && IsInteraction(call, source) {
			found = true
		}
	})
	return found
}

// queryCallees match the query-style retrieval calls whose first argument
// names a target.
var queryPrefixes = []string{"getBy", "getAllBy", "findBy", "findAllBy", "queryBy", "queryAllBy"}

// assertsPresence reports whether stmt positively asserts or retrieves the
// named target: a get/find/query-style call whose first argument is the
// same literal, not negated into an absence check.
func assertsPresence(stmt *syntax.Node, source []byte, target string) bool {
	// A statement that itself asserts absence is not presence evidence.
	text := syntax.Text(stmt, source)
	if strings.Contains(text, ".not.") || strings.Contains(text, "not.toBeInTheDocument") {
		return false
	}
	found := false
	walkCalls(stmt, func(call *syntax.Node) {
		if found || !isQueryCall(call, source) {
			return
		}
		if arg, ok := syntax.StringValue(syntax.FirstArgument(call), source); ok && arg == target {
			found = true
		}
	})
	return found
}

// QueryTarget extracts the literal or simple-regex first argument of a
// query-style call inside the candidate statement. ok is false when the
// target comes from a variable, template or computed expression; callers
// then fall back to the trigger-only evidence rule.
func QueryTarget(n *syntax.Node, source []byte) (string, bool) {
	var target string
	found := false
	walkCalls(n, func(call *syntax.Node) {
		if found || !isQueryCall(call, source) {
			return
		}
		if arg, ok := syntax.StringValue(syntax.FirstArgument(call), source); ok {
			target = arg
			found = true
		}
	})
	return target, found
}

// isQueryCall reports whether a call's final callee segment is one of the
// query-style retrieval families.
func isQueryCall(call *syntax.Node, source []byte) bool {
	name := syntax.CalleeName(call, source)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	for _, prefix := range queryPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// walkCalls visits every call_expression under n in source order.
func walkCalls(n *syntax.Node, visit func(call *syntax.Node)) {
	if n == nil {
		return
	}
	if syntax.KindOf(n) == syntax.KindCallExpression {
		visit(n)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		walkCalls(n.NamedChild(i), visit)
	}
}
