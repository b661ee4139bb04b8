package rules

import (
	"github.com/tigredonorte/flakelint/pkg/analysis"
	"github.com/tigredonorte/flakelint/pkg/scope"
	"github.com/tigredonorte/flakelint/pkg/syntax"
)

// SharedState flags module- and suite-scoped variables mutated inside test
// callbacks, and initializers that belong in setup hooks. It feeds every
// declaration and mutation it sees into a per-file scope tracker and
// decides per variable once the whole file has been walked.
type SharedState struct {
	tracker *scope.Tracker
	seen    analysis.LocationSet
}

// NewSharedState creates the detector with empty state.
func NewSharedState() *SharedState {
	return &SharedState{}
}

func (d *SharedState) Name() string { return "no-shared-state" }

func (d *SharedState) Kinds() []syntax.Kind {
	return []syntax.Kind{
		syntax.KindVariableDeclarator,
		syntax.KindAssignmentExpression,
		syntax.KindAugmentedAssignmentExpression,
		syntax.KindUpdateExpression,
		syntax.KindCallExpression,
	}
}

func (d *SharedState) Reset(ctx *analysis.Context) {
	d.tracker = scope.NewTracker(ctx.Source)
	d.seen = make(analysis.LocationSet)
}

func (d *SharedState) Enter(n *syntax.Node, ctx *analysis.Context) {
	if d.seen.Seen(n) {
		return
	}
	if syntax.KindOf(n) == syntax.KindVariableDeclarator {
		d.tracker.OnDeclaration(n)
		return
	}
	d.tracker.OnMutation(n)
}

// Exit turns the tracker's per-variable verdicts into findings. At most
// one finding is raised per variable: init-in-setup when the declaration
// carries an initializer that a hook overwrites, shared-state otherwise.
func (d *SharedState) Exit(ctx *analysis.Context) {
	for _, issue := range d.tracker.Issues() {
		if issue.InitInSetup {
			ctx.Report(analysis.NewFinding(issue.Site, analysis.CategoryInitInSetup,
				analysis.MsgInitInSetup, map[string]string{
					"name": issue.Record.Name,
				}))
			continue
		}
		ctx.Report(analysis.NewFinding(issue.Site, analysis.CategorySharedState,
			analysis.MsgSharedState, map[string]string{
				"name":  issue.Record.Name,
				"scope": issue.Record.Scope.String(),
			}))
	}
}
