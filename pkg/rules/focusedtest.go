package rules

import (
	"strings"

	"github.com/tigredonorte/flakelint/pkg/analysis"
	"github.com/tigredonorte/flakelint/pkg/syntax"
)

// FocusedTest flags .only modifiers left on suites and tests. A focused
// test silently skips the rest of the suite, so passing CI stops meaning
// the suite passes. Reported as cleanup advice.
type FocusedTest struct {
	seen analysis.LocationSet
}

// NewFocusedTest creates the detector with empty state.
func NewFocusedTest() *FocusedTest {
	return &FocusedTest{}
}

func (d *FocusedTest) Name() string { return "no-focused-test" }

func (d *FocusedTest) Kinds() []syntax.Kind {
	return []syntax.Kind{syntax.KindCallExpression}
}

func (d *FocusedTest) Reset(_ *analysis.Context) {
	d.seen = make(analysis.LocationSet)
}

func (d *FocusedTest) Enter(n *syntax.Node, ctx *analysis.Context) {
	name := syntax.CalleeName(n, ctx.Source)
	base, _, found := strings.Cut(name, ".")
	if !found {
		return
	}
	if !syntax.IsSuiteName(base) && !syntax.IsTestName(base) {
		return
	}
	if !strings.HasSuffix(name, ".only") {
		return
	}
	if d.seen.Seen(n) {
		return
	}
	ctx.Report(analysis.NewFinding(n, analysis.CategoryInterdependence,
		analysis.MsgFocusedTest, map[string]string{"callee": name}))
}
