package analysis

import "github.com/tigredonorte/flakelint/pkg/syntax"

// Engine runs a fixed detector set over one file at a time. It is
// single-threaded; analyze multiple files concurrently by constructing one
// Engine per goroutine.
type Engine struct {
	detectors []Detector
	table     map[syntax.Kind][]Detector
}

// NewEngine builds an engine from detectors in registration order. The
// dispatch table maps each subscribed kind to the detectors interested in
// it, preserving registration order per kind.
func NewEngine(detectors ...Detector) *Engine {
	table := make(map[syntax.Kind][]Detector)
	for _, d := range detectors {
		for _, k := range d.Kinds() {
			table[k] = append(table[k], d)
		}
	}
	return &Engine{detectors: detectors, table: table}
}

// Detectors returns the registered detectors in registration order.
func (e *Engine) Detectors() []Detector { return e.detectors }

// Analyze performs exactly one depth-first, pre-order traversal of the
// file's tree, dispatching each node to the detectors subscribed to its
// kind, then runs exit hooks and flushes the ordered findings. All
// per-file state is reset up front.
func (e *Engine) Analyze(ctx *Context) []Finding {
	for _, d := range e.detectors {
		d.Reset(ctx)
	}

	e.walk(ctx.Root, ctx)

	for _, d := range e.detectors {
		if exit, ok := d.(ExitDetector); ok {
			exit.Exit(ctx)
		}
	}
	return ctx.reporter.Flush()
}

// walk visits nodes in source order. Detectors only read the tree; they
// never mutate it.
func (e *Engine) walk(n *syntax.Node, ctx *Context) {
	if n == nil {
		return
	}
	if interested := e.table[syntax.KindOf(n)]; len(interested) > 0 {
		for _, d := range interested {
			d.Enter(n, ctx)
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		e.walk(n.Child(i), ctx)
	}
}
