package analysis

import (
	"testing"

	"github.com/tigredonorte/flakelint/pkg/syntax"
)

// recordingDetector notes every dispatch it receives.
type recordingDetector struct {
	name   string
	kinds  []syntax.Kind
	resets int
	visits []string
	log    *[]string
}

func (d *recordingDetector) Name() string         { return d.name }
func (d *recordingDetector) Kinds() []syntax.Kind { return d.kinds }
func (d *recordingDetector) Reset(_ *Context) {
	d.resets++
	d.visits = nil
}
func (d *recordingDetector) Enter(n *syntax.Node, ctx *Context) {
	text := ctx.Text(n)
	d.visits = append(d.visits, text)
	if d.log != nil {
		*d.log = append(*d.log, d.name+":"+text)
	}
}

func parseContext(t *testing.T, source string) *Context {
	t.Helper()
	f, err := syntax.NewParser().Parse("walker.test.ts", []byte(source))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	t.Cleanup(f.Close)
	return NewContext(f.Path, f.Source, f.Root())
}

func TestEngineDispatchesSubscribedKindsOnly(t *testing.T) {
	d := &recordingDetector{name: "ids", kinds: []syntax.Kind{syntax.KindIdentifier}}
	engine := NewEngine(d)

	engine.Analyze(parseContext(t, "foo(bar);"))

	want := map[string]bool{"foo": true, "bar": true}
	if len(d.visits) != 2 {
		t.Fatalf("visits = %v, want exactly foo and bar", d.visits)
	}
	for _, v := range d.visits {
		if !want[v] {
			t.Errorf("unexpected visit %q", v)
		}
	}
}

func TestEngineDispatchOrderFollowsRegistration(t *testing.T) {
	var log []string
	first := &recordingDetector{name: "first", kinds: []syntax.Kind{syntax.KindCallExpression}, log: &log}
	second := &recordingDetector{name: "second", kinds: []syntax.Kind{syntax.KindCallExpression}, log: &log}
	engine := NewEngine(first, second)

	engine.Analyze(parseContext(t, "foo();"))

	if len(log) != 2 || log[0] != "first:foo()" || log[1] != "second:foo()" {
		t.Errorf("dispatch log = %v, want first before second", log)
	}
}

func TestEngineResetsEveryDetectorPerFile(t *testing.T) {
	d := &recordingDetector{name: "d", kinds: []syntax.Kind{syntax.KindCallExpression}}
	engine := NewEngine(d)

	engine.Analyze(parseContext(t, "a();"))
	engine.Analyze(parseContext(t, "b();"))

	if d.resets != 2 {
		t.Errorf("resets = %d, want 2", d.resets)
	}
	// State from the first file must be gone.
	if len(d.visits) != 1 || d.visits[0] != "b()" {
		t.Errorf("visits after second file = %v", d.visits)
	}
}

// exitingDetector reports one finding from its exit hook.
type exitingDetector struct {
	recordingDetector
	walkDone bool
}

func (d *exitingDetector) Exit(ctx *Context) {
	d.walkDone = true
	ctx.Report(NewFinding(ctx.Root, CategoryHardWait, MsgHardWait, map[string]string{"ms": "500"}))
}

func TestEngineRunsExitHooksAfterTraversal(t *testing.T) {
	d := &exitingDetector{recordingDetector: recordingDetector{name: "exit", kinds: []syntax.Kind{syntax.KindCallExpression}}}
	engine := NewEngine(d)

	findings := engine.Analyze(parseContext(t, "foo();"))

	if !d.walkDone {
		t.Fatal("exit hook never ran")
	}
	if len(findings) != 1 || findings[0].Category != CategoryHardWait {
		t.Errorf("findings = %v", findings)
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	src := `
it('a', () => { foo(); bar(); });
it('b', () => { baz(); });
`
	var logA, logB []string
	run := func(log *[]string) {
		d := &recordingDetector{name: "d", kinds: []syntax.Kind{syntax.KindCallExpression}, log: log}
		NewEngine(d).Analyze(parseContext(t, src))
	}
	run(&logA)
	run(&logB)

	if len(logA) != len(logB) {
		t.Fatalf("run lengths differ: %d vs %d", len(logA), len(logB))
	}
	for i := range logA {
		if logA[i] != logB[i] {
			t.Errorf("dispatch %d differs: %q vs %q", i, logA[i], logB[i])
		}
	}
}
