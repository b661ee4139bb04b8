package rules

import (
	"strings"

	"github.com/tigredonorte/flakelint/pkg/analysis"
	"github.com/tigredonorte/flakelint/pkg/evidence"
	"github.com/tigredonorte/flakelint/pkg/fixer"
	"github.com/tigredonorte/flakelint/pkg/syntax"
)

// RemovalRace flags synchronous assertions that an element or resource is
// absent when the surrounding statements show it was present and acted on.
// Disappearance after an interaction is asynchronous, so its assertion
// must poll; a bare absence check with no such history is ordinary control
// flow and only earns a low-confidence advisory.
type RemovalRace struct {
	seen analysis.LocationSet
}

// NewRemovalRace creates the detector with empty state.
func NewRemovalRace() *RemovalRace {
	return &RemovalRace{}
}

func (d *RemovalRace) Name() string { return "no-removal-race" }

func (d *RemovalRace) Kinds() []syntax.Kind {
	return []syntax.Kind{syntax.KindCallExpression}
}

func (d *RemovalRace) Reset(_ *analysis.Context) {
	d.seen = make(analysis.LocationSet)
}

// absenceMatchers assert that their subject is gone.
var absenceMatchers = map[string]bool{
	"toBeNull":      true,
	"toBeFalsy":     true,
	"toBeUndefined": true,
}

// negatedPresenceMatchers assert absence when reached through .not.
var negatedPresenceMatchers = map[string]bool{
	"toBeInTheDocument": true,
	"toBeVisible":       true,
	"toExist":           true,
	"toBeTruthy":        true,
}

func (d *RemovalRace) Enter(n *syntax.Node, ctx *analysis.Context) {
	subject, ok := d.absenceAssertionSubject(n, ctx)
	if !ok || d.seen.Seen(n) {
		return
	}
	// Already polling: nothing to flag.
	if insideWaitHelper(n, ctx) {
		return
	}

	stmt := syntax.EnclosingStatement(n)
	window, haveWindow := evidence.EnclosingStatementList(n)
	if !haveWindow {
		// No enclosing statement list; decline rather than guess.
		return
	}
	if window.Index == 0 {
		// First statement of its block: there can be no prior evidence.
		d.reportAdvisory(n, ctx)
		return
	}

	target, identified := evidence.QueryTarget(subject, ctx.Source)
	facts := evidence.Collect(window, ctx.Source, target)
	if !facts.Sufficient(identified) {
		d.reportAdvisory(n, ctx)
		return
	}

	data := map[string]string{"target": target}
	if !identified {
		data["target"] = ctx.Text(subject)
	}
	f := analysis.NewFinding(n, analysis.CategoryRemovalRace, analysis.MsgRemovalRace, data)
	edits := fixer.New(ctx.Root, ctx.Source, ctx.Framework).Synthesize(stmt)
	if edits == nil {
		f.MessageKey = analysis.MsgRemovalRaceNoFix
		ctx.Report(f)
		return
	}
	ctx.Report(f.WithFix(edits))
}

// reportAdvisory emits the lower-confidence variant. Rewriting an unproven
// scenario synchronously is unsafe, so no fix is attached.
func (d *RemovalRace) reportAdvisory(n *syntax.Node, ctx *analysis.Context) {
	ctx.Report(analysis.NewFinding(n, analysis.CategoryRemovalRace,
		analysis.MsgRemovalRaceNoProof, nil))
}

// absenceAssertionSubject decides whether a call is an absence assertion
// over a query-style retrieval, and returns the expect() argument holding
// the queried subject.
func (d *RemovalRace) absenceAssertionSubject(n *syntax.Node, ctx *analysis.Context) (*syntax.Node, bool) {
	prop := syntax.CalleeProperty(n, ctx.Source)
	calleeText := syntax.CalleeName(n, ctx.Source)
	negated := strings.Contains(calleeText, ".not.")

	switch {
	case absenceMatchers[prop] && !negated:
	case negatedPresenceMatchers[prop] && negated:
	default:
		return nil, false
	}

	expectCall := baseExpectCall(n, ctx.Source)
	if expectCall == nil {
		return nil, false
	}
	subject := syntax.FirstArgument(expectCall)
	if subject == nil {
		return nil, false
	}
	// Only the element/resource retrieval family is in scope; a null
	// check on an arbitrary expression is not a removal race.
	if _, isQuery := evidence.QueryTarget(subject, ctx.Source); !isQuery {
		if !looksLikeQuery(subject, ctx.Source) {
			return nil, false
		}
	}
	return subject, true
}

// looksLikeQuery matches query-style retrievals whose target is not a
// literal (variable, template or computed argument).
func looksLikeQuery(n *syntax.Node, source []byte) bool {
	text := syntax.Text(n, source)
	for _, prefix := range []string{"getBy", "getAllBy", "findBy", "findAllBy", "queryBy", "queryAllBy"} {
		if strings.Contains(text, prefix) {
			return true
		}
	}
	return false
}

// baseExpectCall descends the callee chain of a matcher call to the
// expect(...) call it hangs off, or nil.
func baseExpectCall(n *syntax.Node, source []byte) *syntax.Node {
	cur := syntax.Callee(n)
	for cur != nil {
		switch syntax.KindOf(cur) {
		case syntax.KindMemberExpression:
			cur = cur.ChildByFieldName("object")
		case syntax.KindCallExpression:
			if syntax.CalleeName(cur, source) == "expect" {
				return cur
			}
			cur = syntax.Callee(cur)
		default:
			return nil
		}
	}
	return nil
}

// insideWaitHelper reports whether the assertion already runs inside a
// polling wrapper (waitFor, waitForElementToBeRemoved, eventually).
func insideWaitHelper(n *syntax.Node, ctx *analysis.Context) bool {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		if syntax.KindOf(cur) != syntax.KindCallExpression {
			continue
		}
		name := syntax.CalleeBase(cur, ctx.Source)
		switch name {
		case "waitFor", "waitForElementToBeRemoved", "eventually", "poll":
			return true
		}
	}
	return false
}
