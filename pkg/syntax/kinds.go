package syntax

// Kind is a tree-sitter node kind tag. The grammar's kind vocabulary is
// closed, so detectors subscribe to these constants and the dispatcher keys
// its handler table on them.
type Kind string

// Node kinds the engine dispatches on. Names follow the tree-sitter
// TypeScript grammar.
const (
	KindProgram             Kind = "program"
	KindStatementBlock      Kind = "statement_block"
	KindExpressionStatement Kind = "expression_statement"

	KindCallExpression   Kind = "call_expression"
	KindArguments        Kind = "arguments"
	KindMemberExpression Kind = "member_expression"
	KindAwaitExpression  Kind = "await_expression"
	KindNewExpression    Kind = "new_expression"

	KindIdentifier         Kind = "identifier"
	KindPropertyIdentifier Kind = "property_identifier"

	KindString         Kind = "string"
	KindTemplateString Kind = "template_string"
	KindRegex          Kind = "regex"
	KindNumber         Kind = "number"
	KindTrue           Kind = "true"
	KindFalse          Kind = "false"
	KindNull           Kind = "null"
	KindUndefined      Kind = "undefined"
	KindObject         Kind = "object"
	KindArray          Kind = "array"
	KindPair           Kind = "pair"

	KindLexicalDeclaration  Kind = "lexical_declaration"
	KindVariableDeclaration Kind = "variable_declaration"
	KindVariableDeclarator  Kind = "variable_declarator"

	KindAssignmentExpression          Kind = "assignment_expression"
	KindAugmentedAssignmentExpression Kind = "augmented_assignment_expression"
	KindUpdateExpression              Kind = "update_expression"

	KindArrowFunction       Kind = "arrow_function"
	KindFunctionDeclaration Kind = "function_declaration"
	KindFunctionExpression  Kind = "function_expression"
	KindGeneratorFunction   Kind = "generator_function"
	KindMethodDefinition    Kind = "method_definition"
	KindClassDeclaration    Kind = "class_declaration"

	KindImportStatement Kind = "import_statement"
	KindImportClause    Kind = "import_clause"
	KindNamedImports    Kind = "named_imports"
	KindImportSpecifier Kind = "import_specifier"

	KindUnaryExpression Kind = "unary_expression"
)

// KindOf returns the kind tag of a node, or "" for nil.
func KindOf(n *Node) Kind {
	if n == nil {
		return ""
	}
	return Kind(n.Type())
}

// IsLiteral reports whether a node is a plain literal: string, number,
// boolean, null, undefined, or a regex. Template strings are not plain
// literals because they may interpolate.
func IsLiteral(n *Node) bool {
	switch KindOf(n) {
	case KindString, KindNumber, KindTrue, KindFalse, KindNull, KindUndefined, KindRegex:
		return true
	case KindUnaryExpression:
		// -1 and !0 style literals
		return n.NamedChildCount() == 1 && IsLiteral(n.NamedChild(0))
	}
	return false
}

// IsConstantInitializer reports whether an initializer keeps an immutable
// binding truly constant: a plain literal, or a non-empty object literal
// whose every property value is itself a plain literal. Empty collections
// and arrays stay mutable through the binding, so they do not qualify.
func IsConstantInitializer(n *Node) bool {
	if IsLiteral(n) {
		return true
	}
	if KindOf(n) != KindObject || n.NamedChildCount() == 0 {
		return false
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		pair := n.NamedChild(i)
		if KindOf(pair) != KindPair {
			return false
		}
		if !IsLiteral(pair.ChildByFieldName("value")) {
			return false
		}
	}
	return true
}
