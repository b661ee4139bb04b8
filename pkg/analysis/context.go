package analysis

import "github.com/tigredonorte/flakelint/pkg/syntax"

// Context carries everything a detector may consult while one file is
// analyzed. A fresh Context is constructed per file; that construction is
// the only reset operation, so no state can leak between files.
type Context struct {
	// Path of the file under analysis.
	Path string
	// Source is the file's raw text; detectors read node text from it.
	Source []byte
	// Root of the parsed tree.
	Root *syntax.Node
	// Framework is the detected test framework, used for message variants
	// and fix vetoes.
	Framework syntax.Framework

	reporter *Reporter
}

// NewContext builds the per-file context.
func NewContext(path string, source []byte, root *syntax.Node) *Context {
	return &Context{
		Path:      path,
		Source:    source,
		Root:      root,
		Framework: syntax.DetectFramework(path, source),
		reporter:  NewReporter(),
	}
}

// Text returns the verbatim source of a node.
func (c *Context) Text(n *syntax.Node) string {
	return syntax.Text(n, c.Source)
}

// Report buffers a finding for emission at flush time.
func (c *Context) Report(f Finding) {
	c.reporter.Report(f)
}
