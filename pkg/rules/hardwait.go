package rules

import (
	"regexp"

	"github.com/tigredonorte/flakelint/pkg/analysis"
	"github.com/tigredonorte/flakelint/pkg/syntax"
)

// HardWait flags fixed-duration sleeps in tests. A hard-coded delay is
// either longer than needed (slow suite) or occasionally shorter than the
// condition it papers over (flaky failure).
type HardWait struct {
	seen analysis.LocationSet
}

// NewHardWait creates the detector with empty state.
func NewHardWait() *HardWait {
	return &HardWait{}
}

func (d *HardWait) Name() string { return "no-hard-wait" }

func (d *HardWait) Kinds() []syntax.Kind {
	return []syntax.Kind{syntax.KindCallExpression}
}

func (d *HardWait) Reset(_ *analysis.Context) {
	d.seen = make(analysis.LocationSet)
}

var numberRe = regexp.MustCompile(`^[0-9_]+$`)

// sleepCallees take a duration as their first argument.
var sleepCallees = map[string]bool{
	"sleep": true,
	"delay": true,
	"pause": true,
}

// sleepMethods take a duration as their first argument regardless of
// receiver: cy.wait(3000), page.waitForTimeout(500).
var sleepMethods = map[string]bool{
	"wait":           true,
	"waitForTimeout": true,
}

func (d *HardWait) Enter(n *syntax.Node, ctx *analysis.Context) {
	ms, ok := d.durationArg(n, ctx)
	if !ok || d.seen.Seen(n) {
		return
	}
	ctx.Report(analysis.NewFinding(n, analysis.CategoryHardWait, analysis.MsgHardWait,
		map[string]string{"ms": ms}))
}

// durationArg matches the wait-call shapes and returns the literal
// duration. setTimeout counts only with a numeric second argument, the
// promise-wrapped sleep idiom.
func (d *HardWait) durationArg(n *syntax.Node, ctx *analysis.Context) (string, bool) {
	callee := syntax.CalleeName(n, ctx.Source)
	prop := syntax.CalleeProperty(n, ctx.Source)

	switch {
	case callee == "setTimeout":
		args := n.ChildByFieldName("arguments")
		if args == nil || args.NamedChildCount() < 2 {
			return "", false
		}
		second := args.NamedChild(1)
		if syntax.KindOf(second) != syntax.KindNumber {
			return "", false
		}
		return ctx.Text(second), true
	case sleepCallees[callee], sleepMethods[prop]:
		first := syntax.FirstArgument(n)
		if syntax.KindOf(first) != syntax.KindNumber {
			return "", false
		}
		value := ctx.Text(first)
		if !numberRe.MatchString(value) {
			return "", false
		}
		return value, true
	}
	return "", false
}
