// Package syntax wraps the tree-sitter parser boundary for JavaScript and
// TypeScript test sources. It exposes node kind, child, parent, byte-range
// and line/column information to the analysis engine, which never touches
// tree-sitter internals beyond what this package re-exports.
package syntax

import (
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Node is the syntax-tree node consumed by detectors. It is a direct alias
// of the tree-sitter node: kind via Type(), children via Child/NamedChild,
// parent via Parent(), byte range via StartByte/EndByte.
type Node = sitter.Node

// Dialect selects the grammar used to parse a file.
type Dialect string

const (
	// DialectTypeScript parses .js, .mjs, .cjs and .ts files. JavaScript is
	// parsed with the TypeScript grammar, which is a superset.
	DialectTypeScript Dialect = "typescript"
	// DialectTSX parses .tsx and .jsx files (JSX needs the TSX grammar).
	DialectTSX Dialect = "tsx"
)

// DialectForPath returns the grammar dialect for a file path.
func DialectForPath(path string) Dialect {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx", ".jsx":
		return DialectTSX
	default:
		return DialectTypeScript
	}
}

// File is one parsed source file. The tree owns every node; callers must
// not retain nodes past Close.
type File struct {
	Path   string
	Source []byte
	tree   *sitter.Tree
}

// Parser parses JavaScript/TypeScript sources into syntax trees.
type Parser struct {
	ts  *sitter.Parser
	tsx *sitter.Parser
}

// NewParser creates a parser with both grammars initialized.
func NewParser() *Parser {
	ts := sitter.NewParser()
	ts.SetLanguage(typescript.GetLanguage())
	tx := sitter.NewParser()
	tx.SetLanguage(tsx.GetLanguage())
	return &Parser{ts: ts, tsx: tx}
}

// Parse parses source into a File. The dialect is chosen from the path.
func (p *Parser) Parse(path string, source []byte) (*File, error) {
	parser := p.ts
	if DialectForPath(path) == DialectTSX {
		parser = p.tsx
	}
	tree := parser.Parse(nil, source)
	if tree == nil {
		return nil, fmt.Errorf("parsing %s failed", path)
	}
	return &File{Path: path, Source: source, tree: tree}, nil
}

// Root returns the root node of the parsed tree.
func (f *File) Root() *Node {
	return f.tree.RootNode()
}

// Close releases the underlying tree. Nodes become invalid afterwards.
func (f *File) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

// Text returns the verbatim source text covered by a node.
func Text(n *Node, source []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(source)
}

// Position is a 1-based line and column for diagnostics.
type Position struct {
	Line   int
	Column int
}

// PositionOf resolves a node's start position.
func PositionOf(n *Node) Position {
	p := n.StartPoint()
	return Position{Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

// Callee returns the function child of a call_expression, or nil when the
// node is malformed or not a call.
func Callee(n *Node) *Node {
	if n == nil || Kind(n.Type()) != KindCallExpression {
		return nil
	}
	return n.ChildByFieldName("function")
}

// CalleeName returns the full dotted callee text of a call ("userEvent.click",
// "expect", "screen.getByText"), or "" when unavailable.
func CalleeName(n *Node, source []byte) string {
	return Text(Callee(n), source)
}

// CalleeBase returns the leading identifier of a dotted callee: "userEvent"
// for userEvent.click(...), "expect" for expect(...).
func CalleeBase(n *Node, source []byte) string {
	name := CalleeName(n, source)
	if i := strings.IndexAny(name, ".("); i >= 0 {
		name = name[:i]
	}
	return name
}

// CalleeProperty returns the final property of a dotted callee: "click" for
// userEvent.click(...), "" for a bare identifier call.
func CalleeProperty(n *Node, source []byte) string {
	callee := Callee(n)
	if callee == nil || Kind(callee.Type()) != KindMemberExpression {
		return ""
	}
	return Text(callee.ChildByFieldName("property"), source)
}

// FirstArgument returns the first argument node of a call, or nil.
func FirstArgument(n *Node) *Node {
	if n == nil {
		return nil
	}
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		if arg := args.NamedChild(i); arg != nil {
			return arg
		}
	}
	return nil
}

// StringValue unwraps a string literal node to its unquoted value. The ok
// result is false for non-literal nodes (identifiers, templates, calls).
func StringValue(n *Node, source []byte) (string, bool) {
	if n == nil {
		return "", false
	}
	switch Kind(n.Type()) {
	case KindString:
		text := Text(n, source)
		if len(text) >= 2 {
			return text[1 : len(text)-1], true
		}
		return "", true
	case KindRegex:
		return Text(n, source), true
	}
	return "", false
}

// EnclosingOfKind walks the parent chain from n (exclusive) and returns the
// first ancestor of one of the given kinds, or nil.
func EnclosingOfKind(n *Node, kinds ...Kind) *Node {
	if n == nil {
		return nil
	}
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		for _, k := range kinds {
			if Kind(cur.Type()) == k {
				return cur
			}
		}
	}
	return nil
}

// EnclosingFunction returns the nearest enclosing function-like ancestor:
// arrow function, function declaration/expression, or method definition.
func EnclosingFunction(n *Node) *Node {
	return EnclosingOfKind(n,
		KindArrowFunction,
		KindFunctionDeclaration,
		KindFunctionExpression,
		KindGeneratorFunction,
		KindMethodDefinition,
	)
}

// EnclosingStatement returns the ancestor (or n itself) whose parent is a
// statement container (statement_block or program), or nil.
func EnclosingStatement(n *Node) *Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		parent := cur.Parent()
		if parent == nil {
			return nil
		}
		switch Kind(parent.Type()) {
		case KindStatementBlock, KindProgram:
			return cur
		}
	}
	return nil
}
