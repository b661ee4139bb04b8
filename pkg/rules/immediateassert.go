package rules

import (
	"github.com/tigredonorte/flakelint/pkg/analysis"
	"github.com/tigredonorte/flakelint/pkg/evidence"
	"github.com/tigredonorte/flakelint/pkg/syntax"
)

// ImmediateAssert flags an assertion whose directly preceding statement
// fires a simulated interaction without awaiting it. The interaction's
// effects may not have settled when the assertion runs.
type ImmediateAssert struct {
	seen analysis.LocationSet
}

// NewImmediateAssert creates the detector with empty state.
func NewImmediateAssert() *ImmediateAssert {
	return &ImmediateAssert{}
}

func (d *ImmediateAssert) Name() string { return "no-immediate-assertion" }

func (d *ImmediateAssert) Kinds() []syntax.Kind {
	return []syntax.Kind{syntax.KindCallExpression}
}

func (d *ImmediateAssert) Reset(_ *analysis.Context) {
	d.seen = make(analysis.LocationSet)
}

func (d *ImmediateAssert) Enter(n *syntax.Node, ctx *analysis.Context) {
	// Outermost expect(...) chain only: the matcher call, not the nested
	// expect call itself.
	if syntax.CalleeBase(n, ctx.Source) != "expect" {
		return
	}
	if parentCallOfSameChain(n) {
		return
	}
	window, ok := evidence.EnclosingStatementList(n)
	if !ok || window.Index == 0 {
		return
	}
	prev := window.Statements[window.Index-1]
	trigger := unawaitedInteraction(prev, ctx)
	if trigger == "" {
		return
	}
	if d.seen.Seen(n) {
		return
	}
	ctx.Report(analysis.NewFinding(n, analysis.CategoryImmediateAssert,
		analysis.MsgImmediateAssert, map[string]string{"trigger": trigger}))
}

// parentCallOfSameChain reports whether n is nested inside another call of
// the same expect chain (so only the outermost call reports).
func parentCallOfSameChain(n *syntax.Node) bool {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		switch syntax.KindOf(cur) {
		case syntax.KindCallExpression, syntax.KindMemberExpression:
			if syntax.KindOf(cur) == syntax.KindCallExpression {
				return true
			}
		default:
			return false
		}
	}
	return false
}

// unawaitedInteraction returns the callee text of an interaction call in
// stmt that is not awaited, or "".
func unawaitedInteraction(stmt *syntax.Node, ctx *analysis.Context) string {
	// An awaited statement settles before the next one runs.
	if containsKind(stmt, syntax.KindAwaitExpression) {
		return ""
	}
	var trigger string
	walk(stmt, func(cur *syntax.Node) {
		if trigger != "" || syntax.KindOf(cur) != syntax.KindCallExpression {
			return
		}
		if evidence.IsInteraction(cur, ctx.Source) {
			trigger = syntax.CalleeName(cur, ctx.Source)
		}
	})
	return trigger
}

// containsKind reports whether any descendant of n has the given kind.
func containsKind(n *syntax.Node, kind syntax.Kind) bool {
	found := false
	walk(n, func(cur *syntax.Node) {
		if syntax.KindOf(cur) == kind {
			found = true
		}
	})
	return found
}

// walk visits n and every named descendant in source order.
func walk(n *syntax.Node, visit func(*syntax.Node)) {
	if n == nil {
		return
	}
	visit(n)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		walk(n.NamedChild(i), visit)
	}
}
