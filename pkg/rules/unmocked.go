package rules

import (
	"regexp"
	"strings"

	"github.com/tigredonorte/flakelint/pkg/analysis"
	"github.com/tigredonorte/flakelint/pkg/syntax"
)

// mockSetupRe matches the library-specific mock setup calls that make real
// I/O impossible. Scanning the whole file's text for them is a deliberate
// heuristic fallback: precise tree matching of every mocking style is not
// worth the grammar coverage it would need.
var mockSetupRe = regexp.MustCompile(
	`\b(?:jest|vi)\.mock\s*\(|\bnock\s*\(|\bfetchMock\b|\bfetch-mock\b|\bmsw\b|\bsetupServer\s*\(|\bmock-fs\b|\bmockFs\b|\bmemfs\b`)

// UnmockedNetwork flags real network calls made from inside a test or
// hook when the file shows no mock setup.
type UnmockedNetwork struct {
	mocked bool
	seen   analysis.LocationSet
}

// NewUnmockedNetwork creates the detector with empty state.
func NewUnmockedNetwork() *UnmockedNetwork {
	return &UnmockedNetwork{}
}

func (d *UnmockedNetwork) Name() string { return "no-unmocked-network" }

func (d *UnmockedNetwork) Kinds() []syntax.Kind {
	return []syntax.Kind{syntax.KindCallExpression, syntax.KindNewExpression}
}

func (d *UnmockedNetwork) Reset(ctx *analysis.Context) {
	d.mocked = mockSetupRe.Match(ctx.Source)
	d.seen = make(analysis.LocationSet)
}

var networkBases = map[string]bool{
	"fetch":      true,
	"axios":      true,
	"http":       true,
	"https":      true,
	"superagent": true,
}

func (d *UnmockedNetwork) Enter(n *syntax.Node, ctx *analysis.Context) {
	if d.mocked {
		return
	}
	callee := d.networkCallee(n, ctx)
	if callee == "" {
		return
	}
	if syntax.ClassifyContext(n, ctx.Source) == syntax.ContextModule {
		return
	}
	if d.seen.Seen(n) {
		return
	}
	ctx.Report(analysis.NewFinding(n, analysis.CategoryUnmockedNetwork,
		analysis.MsgUnmockedNetwork, map[string]string{"callee": callee}))
}

func (d *UnmockedNetwork) networkCallee(n *syntax.Node, ctx *analysis.Context) string {
	if syntax.KindOf(n) == syntax.KindNewExpression {
		ctor := n.ChildByFieldName("constructor")
		if syntax.Text(ctor, ctx.Source) == "XMLHttpRequest" {
			return "new XMLHttpRequest"
		}
		return ""
	}
	name := syntax.CalleeName(n, ctx.Source)
	base := syntax.CalleeBase(n, ctx.Source)
	if !networkBases[base] {
		return ""
	}
	// http/https need a requesting property; bare fetch()/axios() do not.
	if base == "http" || base == "https" {
		prop := syntax.CalleeProperty(n, ctx.Source)
		if prop != "request" && prop != "get" && prop != "post" {
			return ""
		}
	}
	return name
}

// UnmockedFS flags real filesystem access from inside a test or hook when
// the file shows no mock setup.
type UnmockedFS struct {
	mocked bool
	seen   analysis.LocationSet
}

// NewUnmockedFS creates the detector with empty state.
func NewUnmockedFS() *UnmockedFS {
	return &UnmockedFS{}
}

func (d *UnmockedFS) Name() string { return "no-unmocked-fs" }

func (d *UnmockedFS) Kinds() []syntax.Kind {
	return []syntax.Kind{syntax.KindCallExpression}
}

func (d *UnmockedFS) Reset(ctx *analysis.Context) {
	d.mocked = mockSetupRe.Match(ctx.Source)
	d.seen = make(analysis.LocationSet)
}

var fsMethods = map[string]bool{
	"readFile": true, "readFileSync": true,
	"writeFile": true, "writeFileSync": true,
	"appendFile": true, "appendFileSync": true,
	"unlink": true, "unlinkSync": true,
	"mkdir": true, "mkdirSync": true,
	"rm": true, "rmSync": true, "rmdir": true, "rmdirSync": true,
	"copyFile": true, "copyFileSync": true,
	"rename": true, "renameSync": true,
}

func (d *UnmockedFS) Enter(n *syntax.Node, ctx *analysis.Context) {
	if d.mocked {
		return
	}
	base := syntax.CalleeBase(n, ctx.Source)
	if base != "fs" && !strings.HasPrefix(syntax.CalleeName(n, ctx.Source), "fs.promises.") {
		return
	}
	if !fsMethods[syntax.CalleeProperty(n, ctx.Source)] {
		return
	}
	if syntax.ClassifyContext(n, ctx.Source) == syntax.ContextModule {
		return
	}
	if d.seen.Seen(n) {
		return
	}
	ctx.Report(analysis.NewFinding(n, analysis.CategoryUnmockedFS,
		analysis.MsgUnmockedFS, map[string]string{"callee": syntax.CalleeName(n, ctx.Source)}))
}
