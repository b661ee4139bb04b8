package syntax

import "strings"

// TestContext classifies where a node sits relative to the test DSL:
// at module top level, inside a suite-grouping callback, inside a
// lifecycle-hook callback, or inside an individual test callback.
type TestContext int

const (
	ContextModule TestContext = iota
	ContextSuite
	ContextHook
	ContextTest
)

func (c TestContext) String() string {
	switch c {
	case ContextSuite:
		return "suite"
	case ContextHook:
		return "hook"
	case ContextTest:
		return "test"
	default:
		return "module"
	}
}

var suiteNames = map[string]bool{
	"describe": true,
	"context":  true,
	"suite":    true,
}

var testNames = map[string]bool{
	"it":    true,
	"test":  true,
	"xit":   true,
	"fit":   true,
	"xtest": true,
}

var hookNames = map[string]bool{
	"beforeEach": true,
	"beforeAll":  true,
	"before":     true,
	"afterEach":  true,
	"afterAll":   true,
	"after":      true,
	"setup":      true,
	"teardown":   true,
}

var setupHookNames = map[string]bool{
	"beforeEach": true,
	"beforeAll":  true,
	"before":     true,
	"setup":      true,
}

// baseCallName strips DSL modifiers: describe.only, it.each, test.skip.
func baseCallName(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// IsSuiteName reports whether a callee names a suite-grouping call.
func IsSuiteName(name string) bool { return suiteNames[baseCallName(name)] }

// IsTestName reports whether a callee names an individual test call.
func IsTestName(name string) bool { return testNames[baseCallName(name)] }

// IsHookName reports whether a callee names a lifecycle hook.
func IsHookName(name string) bool { return hookNames[baseCallName(name)] }

// IsSetupHookName reports whether a callee names a setup (not teardown) hook.
func IsSetupHookName(name string) bool { return setupHookNames[baseCallName(name)] }

// callKindOf classifies a call_expression node by its callee name.
// Returns ContextModule when the call is not part of the test DSL.
func callKindOf(call *Node, source []byte) TestContext {
	name := CalleeName(call, source)
	switch {
	case IsHookName(name):
		return ContextHook
	case IsTestName(name):
		return ContextTest
	case IsSuiteName(name):
		return ContextSuite
	}
	return ContextModule
}

// isFunctionKind reports whether a node is a callback-shaped function.
func isFunctionKind(k Kind) bool {
	switch k {
	case KindArrowFunction, KindFunctionExpression, KindFunctionDeclaration,
		KindGeneratorFunction, KindMethodDefinition:
		return true
	}
	return false
}

// ClassifyContext determines the test context of a node from its lexical
// nesting alone. Hook wins over test, test over suite, suite over module,
// regardless of nesting depth.
func ClassifyContext(n *Node, source []byte) TestContext {
	var inHook, inTest, inSuite bool
	for cur := n; cur != nil; cur = cur.Parent() {
		if !isFunctionKind(KindOf(cur)) {
			continue
		}
		call := enclosingDSLCall(cur)
		if call == nil {
			continue
		}
		switch callKindOf(call, source) {
		case ContextHook:
			inHook = true
		case ContextTest:
			inTest = true
		case ContextSuite:
			inSuite = true
		}
	}
	switch {
	case inHook:
		return ContextHook
	case inTest:
		return ContextTest
	case inSuite:
		return ContextSuite
	}
	return ContextModule
}

// InSetupHook reports whether a node is lexically inside a setup-hook
// callback (beforeEach and friends, not teardown).
func InSetupHook(n *Node, source []byte) bool {
	for cur := n; cur != nil; cur = cur.Parent() {
		if !isFunctionKind(KindOf(cur)) {
			continue
		}
		call := enclosingDSLCall(cur)
		if call == nil {
			continue
		}
		if IsSetupHookName(CalleeName(call, source)) {
			return true
		}
	}
	return false
}

// enclosingDSLCall returns the call_expression that receives fn as a direct
// argument, or nil when fn is not a call argument.
func enclosingDSLCall(fn *Node) *Node {
	parent := fn.Parent()
	if parent == nil || KindOf(parent) != KindArguments {
		return nil
	}
	call := parent.Parent()
	if KindOf(call) != KindCallExpression {
		return nil
	}
	return call
}
