package rules

import (
	"github.com/tigredonorte/flakelint/pkg/analysis"
	"github.com/tigredonorte/flakelint/pkg/syntax"
)

// RandomData flags non-deterministic value sources used inside tests:
// Math.random, Date.now and argument-less new Date(). A test asserting on
// such values fails unreproducibly.
type RandomData struct {
	seen analysis.LocationSet
}

// NewRandomData creates the detector with empty state.
func NewRandomData() *RandomData {
	return &RandomData{}
}

func (d *RandomData) Name() string { return "no-random-data" }

func (d *RandomData) Kinds() []syntax.Kind {
	return []syntax.Kind{syntax.KindCallExpression, syntax.KindNewExpression}
}

func (d *RandomData) Reset(_ *analysis.Context) {
	d.seen = make(analysis.LocationSet)
}

func (d *RandomData) Enter(n *syntax.Node, ctx *analysis.Context) {
	source := d.randomSource(n, ctx)
	if source == "" {
		return
	}
	if syntax.ClassifyContext(n, ctx.Source) == syntax.ContextModule {
		return
	}
	if d.seen.Seen(n) {
		return
	}
	ctx.Report(analysis.NewFinding(n, analysis.CategoryRandomData,
		analysis.MsgRandomData, map[string]string{"source": source}))
}

func (d *RandomData) randomSource(n *syntax.Node, ctx *analysis.Context) string {
	if syntax.KindOf(n) == syntax.KindNewExpression {
		ctor := n.ChildByFieldName("constructor")
		if syntax.Text(ctor, ctx.Source) != "Date" {
			return ""
		}
		args := n.ChildByFieldName("arguments")
		if args != nil && args.NamedChildCount() > 0 {
			// new Date(fixed) is deterministic.
			return ""
		}
		return "new Date()"
	}
	switch syntax.CalleeName(n, ctx.Source) {
	case "Math.random":
		return "Math.random()"
	case "Date.now":
		return "Date.now()"
	}
	return ""
}
