package fixer

import (
	"strings"

	"github.com/tigredonorte/flakelint/pkg/syntax"
)

// helperName is the polling helper every synthesized fix wraps flagged
// code in.
const helperName = "waitFor"

// helperModulePrefix matches the assertion-library modules that export the
// polling helper.
const helperModulePrefix = "@testing-library/"

// defaultHelperModule is imported when no compatible import exists yet.
const defaultHelperModule = "@testing-library/dom"

// Synthesizer converts a flagged statement into an atomic edit set. One
// Synthesizer serves one file; it holds no cross-file state.
type Synthesizer struct {
	source    []byte
	root      *syntax.Node
	framework syntax.Framework
}

// New creates a Synthesizer for one parsed file.
func New(root *syntax.Node, source []byte, framework syntax.Framework) *Synthesizer {
	return &Synthesizer{source: source, root: root, framework: framework}
}

// Synthesize builds the fix for wrapping stmt in the polling helper. It
// returns nil when any sub-step vetoes; the caller still reports the
// finding, just without a fix.
func (s *Synthesizer) Synthesize(stmt *syntax.Node) []Edit {
	if stmt == nil {
		return nil
	}

	wrap := s.wrapInWaitFor(stmt)
	if wrap == nil {
		return nil
	}

	async, ok := s.ensureAsyncFunction(stmt)
	if !ok {
		return nil
	}

	imports, ok := s.ensureHelperImport()
	if !ok {
		return nil
	}

	edits := append(wrap, async...)
	edits = append(edits, imports...)
	return edits
}

// wrapInWaitFor replaces the statement with an awaited polling wrapper
// around the same expression text, byte-for-byte preserved.
func (s *Synthesizer) wrapInWaitFor(stmt *syntax.Node) []Edit {
	start, end := int(stmt.StartByte()), int(stmt.EndByte())
	if start < 0 || end > len(s.source) || start >= end {
		return nil
	}
	original := string(s.source[start:end])
	indent := s.lineIndent(start)

	var b strings.Builder
	b.WriteString("await " + helperName + "(() => {\n")
	b.WriteString(indent + "  " + original + "\n")
	b.WriteString(indent + "});")
	return []Edit{{Start: start, End: end, Replacement: b.String(), Group: GroupWrap}}
}

// lineIndent returns the leading whitespace of the line containing offset.
func (s *Synthesizer) lineIndent(offset int) string {
	lineStart := offset
	for lineStart > 0 && s.source[lineStart-1] != '\n' {
		lineStart--
	}
	i := lineStart
	for i < offset && (s.source[i] == ' ' || s.source[i] == '\t') {
		i++
	}
	return string(s.source[lineStart:i])
}

// ensureAsyncFunction contributes the edit that marks the nearest enclosing
// function async. Already-async functions need no edit. Getters, setters
// and constructors cannot be async, so they veto the fix (ok=false).
// A statement at module top level needs no edit either: top-level await.
func (s *Synthesizer) ensureAsyncFunction(stmt *syntax.Node) ([]Edit, bool) {
	fn := syntax.EnclosingFunction(stmt)
	if fn == nil {
		return nil, true
	}
	if hasAsyncKeyword(fn) {
		return nil, true
	}

	if syntax.KindOf(fn) == syntax.KindMethodDefinition {
		if isUnasyncableMethod(fn, s.source) {
			return nil, false
		}
		// Insert before the method name so static/visibility modifiers
		// keep their position.
		name := fn.ChildByFieldName("name")
		if name == nil {
			return nil, false
		}
		return []Edit{{
			Start:       int(name.StartByte()),
			End:         int(name.StartByte()),
			Replacement: "async ",
			Group:       GroupAsync,
		}}, true
	}

	return []Edit{{
		Start:       int(fn.StartByte()),
		End:         int(fn.StartByte()),
		Replacement: "async ",
		Group:       GroupAsync,
	}}, true
}

// hasAsyncKeyword reports whether a function-like node already carries the
// async modifier.
func hasAsyncKeyword(fn *syntax.Node) bool {
	for i := 0; i < int(fn.ChildCount()); i++ {
		child := fn.Child(i)
		if child != nil && child.Type() == "async" {
			return true
		}
	}
	return false
}

// isUnasyncableMethod reports whether a method definition is a getter,
// setter or constructor, none of which may be marked async.
func isUnasyncableMethod(fn *syntax.Node, source []byte) bool {
	for i := 0; i < int(fn.ChildCount()); i++ {
		child := fn.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "get", "set":
			return true
		}
	}
	name := fn.ChildByFieldName("name")
	return syntax.Text(name, source) == "constructor"
}

// ensureHelperImport contributes the edit binding waitFor in the file.
// No edit when already bound; veto (ok=false) when the detected framework
// does not expose the helper.
func (s *Synthesizer) ensureHelperImport() ([]Edit, bool) {
	if !s.framework.SupportsWaitFor() {
		return nil, false
	}
	if s.helperAlreadyBound() {
		return nil, true
	}

	// Merge into an existing Testing Library import when one has named
	// bindings to extend.
	if named := s.compatibleNamedImports(); named != nil {
		if specs := collectDescendants(named, syntax.KindImportSpecifier); len(specs) > 0 {
			at := int(specs[len(specs)-1].EndByte())
			return []Edit{{
				Start:       at,
				End:         at,
				Replacement: ", " + helperName,
				Group:       GroupImport,
			}}, true
		}
		at := int(named.EndByte()) - 1 // before the closing brace of {}
		return []Edit{{
			Start:       at,
			End:         at,
			Replacement: " " + helperName + " ",
			Group:       GroupImport,
		}}, true
	}

	line := "import { " + helperName + " } from '" + defaultHelperModule + "';\n"
	return []Edit{{Start: 0, End: 0, Replacement: line, Group: GroupImport}}, true
}

// helperAlreadyBound reports whether waitFor is reachable in the file via a
// direct import, a qualified require binding, or destructuring from one.
func (s *Synthesizer) helperAlreadyBound() bool {
	if s.root == nil {
		return false
	}
	for i := 0; i < int(s.root.NamedChildCount()); i++ {
		stmt := s.root.NamedChild(i)
		switch syntax.KindOf(stmt) {
		case syntax.KindImportStatement:
			if s.importBindsHelper(stmt) {
				return true
			}
		case syntax.KindLexicalDeclaration, syntax.KindVariableDeclaration:
			if s.requireBindsHelper(stmt) {
				return true
			}
		}
	}
	return false
}

// importBindsHelper checks one import statement for a waitFor binding.
func (s *Synthesizer) importBindsHelper(stmt *syntax.Node) bool {
	for _, spec := range collectDescendants(stmt, syntax.KindImportSpecifier) {
		if syntax.Text(spec.ChildByFieldName("name"), s.source) == helperName {
			return true
		}
	}
	return false
}

// requireBindsHelper checks a top-level const/let/var declaration for
// `const x = require('@testing-library/...')` or a destructuring of
// waitFor from such a call.
func (s *Synthesizer) requireBindsHelper(stmt *syntax.Node) bool {
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		decl := stmt.NamedChild(i)
		if syntax.KindOf(decl) != syntax.KindVariableDeclarator {
			continue
		}
		value := decl.ChildByFieldName("value")
		if !isHelperModuleRequire(value, s.source) {
			continue
		}
		name := decl.ChildByFieldName("name")
		switch syntax.KindOf(name) {
		case syntax.KindIdentifier:
			// Qualified binding: helper reachable as x.waitFor.
			return true
		default:
			// Destructuring pattern: only counts when waitFor is named.
			if strings.Contains(syntax.Text(name, s.source), helperName) {
				return true
			}
		}
	}
	return false
}

// isHelperModuleRequire matches require('<assertion-library module>').
func isHelperModuleRequire(n *syntax.Node, source []byte) bool {
	if syntax.KindOf(n) != syntax.KindCallExpression {
		return false
	}
	if syntax.CalleeName(n, source) != "require" {
		return false
	}
	module, ok := syntax.StringValue(syntax.FirstArgument(n), source)
	return ok && strings.HasPrefix(module, helperModulePrefix)
}

// compatibleNamedImports returns the named_imports node of the first
// Testing Library import in the file, or nil.
func (s *Synthesizer) compatibleNamedImports() *syntax.Node {
	if s.root == nil {
		return nil
	}
	for i := 0; i < int(s.root.NamedChildCount()); i++ {
		stmt := s.root.NamedChild(i)
		if syntax.KindOf(stmt) != syntax.KindImportStatement {
			continue
		}
		module, ok := syntax.StringValue(stmt.ChildByFieldName("source"), s.source)
		if !ok || !strings.HasPrefix(module, helperModulePrefix) {
			continue
		}
		named := collectDescendants(stmt, syntax.KindNamedImports)
		if len(named) > 0 {
			return named[0]
		}
	}
	return nil
}

// collectDescendants returns every descendant of n with the given kind, in
// source order.
func collectDescendants(n *syntax.Node, kind syntax.Kind) []*syntax.Node {
	var out []*syntax.Node
	var walk func(cur *syntax.Node)
	walk = func(cur *syntax.Node) {
		if cur == nil {
			return
		}
		if syntax.KindOf(cur) == kind {
			out = append(out, cur)
		}
		for i := 0; i < int(cur.NamedChildCount()); i++ {
			walk(cur.NamedChild(i))
		}
	}
	walk(n)
	return out
}
