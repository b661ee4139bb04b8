package analysis

import "github.com/tigredonorte/flakelint/pkg/syntax"

// Detector is one independent unit of pattern matching. Implementations
// subscribe to node kinds and may report findings while a file is walked.
//
// Detectors must be pure with respect to each other (never read another
// detector's state), must keep all state file-scoped, and must be
// idempotent per node: observing the same node twice must not duplicate a
// finding. Each detector owns its own dedup set for that.
type Detector interface {
	// Name is the stable rule identifier, e.g. "no-hard-wait".
	Name() string
	// Kinds lists the node kinds this detector subscribes to.
	Kinds() []syntax.Kind
	// Reset clears all file-scoped state. Called once per file before the
	// traversal; detectors must not retain nodes from a previous file
	// past this call.
	Reset(ctx *Context)
	// Enter is invoked for every visited node of a subscribed kind.
	Enter(n *syntax.Node, ctx *Context)
}

// ExitDetector is implemented by detectors that defer decisions until the
// whole file has been seen.
type ExitDetector interface {
	Detector
	// Exit runs once after the traversal completes.
	Exit(ctx *Context)
}

// LocationSet is the per-file self-deduplication set detectors use when a
// pattern can be matched through more than one code path.
type LocationSet map[uint32]bool

// Seen records the node's start offset and reports whether it was already
// present.
func (s LocationSet) Seen(n *syntax.Node) bool {
	if n == nil {
		return true
	}
	key := n.StartByte()
	if s[key] {
		return true
	}
	s[key] = true
	return false
}
