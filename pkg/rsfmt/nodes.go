package rsfmt

import (
	"github.com/vito/rsfmt/pkg/layout"
	"github.com/vito/rsfmt/pkg/syntax"
)

// formatter appends a node of a particular kind to sg.
type formatter func(st *State, n *syntax.Node, base layout.Alignment, sg *layout.Builder)

// formatters maps node kinds to their formatter. Kinds without an entry are
// emitted verbatim.
var formatters map[string]formatter

func init() {
	formatters = map[string]formatter{
		"source_file":      formatSourceFile,
		"block":            formatBody,
		"declaration_list": formatBody,
		"match_block":      formatBody,

		"arguments":                      formatList(listStyle{suffix: trailingPunct}),
		"parameters":                     formatList(listStyle{suffix: trailingPunct}),
		"type_parameters":                formatList(listStyle{suffix: trailingPunct}),
		"type_arguments":                 formatList(listStyle{suffix: trailingPunct}),
		"ordered_field_declaration_list": formatList(listStyle{suffix: trailingPunct}),
		"tuple_struct_pattern":           formatList(listStyle{suffix: trailingPunct}),
		"slice_pattern":                  formatList(listStyle{suffix: trailingPunct}),
		"use_list":                       formatList(listStyle{suffix: trailingPunct}),
		"closure_parameters":             formatList(listStyle{suffix: trailingNone}),
		"tuple_expression":               formatList(listStyle{suffix: trailingTuple}),
		"tuple_type":                     formatList(listStyle{suffix: trailingTuple}),
		"tuple_pattern":                  formatList(listStyle{suffix: trailingTuple}),
		"field_declaration_list":         formatList(listStyle{curly: true, suffix: trailingPunct}),
		"enum_variant_list":              formatList(listStyle{curly: true, suffix: trailingPunct}),
		"field_initializer_list":         formatList(listStyle{curly: true, suffix: trailingPunct, extra: "base_field_initializer"}),
		"struct_pattern":                 formatList(listStyle{curly: true, suffix: trailingPunct, extra: "remaining_field_pattern"}),
		"array_expression":               formatArray,

		"where_clause":     formatWhere,
		"macro_invocation": formatMacro,
		"token_tree":       formatTokenTree,

		"binary_expression": formatBinary,
		"bounded_type":      formatBinary,
		"trait_bounds":      formatBounds,

		"call_expression":  formatChain,
		"field_expression": formatChain,
		"try_expression":   formatChain,
		"await_expression": formatChain,
	}
	for _, kind := range sequenceKinds {
		if _, ok := formatters[kind]; !ok {
			formatters[kind] = formatSequence
		}
	}
	for kind := range tightKinds {
		if _, ok := formatters[kind]; !ok {
			formatters[kind] = formatSequence
		}
	}
}

// sequenceKinds are laid out as their children separated by spaces where
// Rust conventionally has them.
var sequenceKinds = []string{
	"function_item",
	"function_signature_item",
	"struct_item",
	"union_item",
	"enum_item",
	"enum_variant",
	"impl_item",
	"trait_item",
	"mod_item",
	"foreign_mod_item",
	"extern_crate_declaration",
	"const_item",
	"static_item",
	"type_item",
	"associated_type",
	"use_declaration",
	"use_as_clause",
	"let_declaration",
	"let_condition",
	"let_chain",
	"expression_statement",
	"return_expression",
	"break_expression",
	"continue_expression",
	"yield_expression",
	"assignment_expression",
	"compound_assignment_expr",
	"type_cast_expression",
	"call_expression",
	"index_expression",
	"await_expression",
	"parenthesized_expression",
	"reference_expression",
	"reference_type",
	"reference_pattern",
	"pointer_type",
	"generic_type",
	"generic_type_with_turbofish",
	"generic_function",
	"array_type",
	"function_type",
	"abstract_type",
	"dynamic_type",
	"bounded_type",
	"trait_bounds",
	"higher_ranked_trait_bound",
	"qualified_type",
	"mut_pattern",
	"ref_pattern",
	"captured_pattern",
	"or_pattern",
	"if_expression",
	"else_clause",
	"while_expression",
	"loop_expression",
	"for_expression",
	"match_expression",
	"match_arm",
	"match_pattern",
	"closure_expression",
	"unsafe_block",
	"async_block",
	"const_block",
	"struct_expression",
	"attribute",
	"visibility_modifier",
	"function_modifiers",
	"self_parameter",
	"parameter",
	"variadic_parameter",
	"constrained_type_parameter",
	"optional_type_parameter",
	"type_binding",
	"where_predicate",
	"field_declaration",
	"field_initializer",
	"field_pattern",
}

// tightKinds are laid out as their children with no spaces between them.
var tightKinds = map[string]bool{
	"scoped_identifier":      true,
	"scoped_type_identifier": true,
	"scoped_use_list":        true,
	"use_wildcard":           true,
	"field_expression":       true,
	"lifetime":               true,
	"label":                  true,
	"unary_expression":       true,
	"negative_literal":       true,
	"try_expression":         true,
	"range_expression":       true,
	"range_pattern":          true,
	"removed_trait_bound":    true,
	"base_field_initializer": true,
	"bracketed_type":         true,
	"unit_expression":        true,
	"unit_type":              true,
	"attribute_item":         true,
	"inner_attribute_item":   true,
}

func formatSequence(st *State, n *syntax.Node, base layout.Alignment, sg *layout.Builder) {
	st.sequence(n.Children, n.Kind, base, sg)
}

// sequence appends nodes in order. Attributes are followed by a break,
// other neighbours by a space when spaced says so.
func (st *State) sequence(nodes []*syntax.Node, parent string, base layout.Alignment, sg *layout.Builder) {
	for i, n := range nodes {
		if i > 0 {
			prev := nodes[i-1]
			switch {
			case prev.Is("attribute_item"):
				st.attributeBreak(base, sg)
			case spaced(parent, prev, n):
				sg.Seg(" ")
			}
		}
		if n.Is("where_clause") {
			body := i+1 < len(nodes) && nodes[i+1].Is(bodyKinds...)
			sg.Child(st.arena.Build(func(sg *layout.Builder) {
				st.whereClause(n, base, sg, body)
			}))
			continue
		}
		st.child(n, base, sg)
	}
}

var bodyKinds = []string{"block", "declaration_list", "field_declaration_list", "enum_variant_list"}

func (st *State) attributeBreak(base layout.Alignment, sg *layout.Builder) {
	if st.cfg.SplitAttributes {
		sg.SplitAlways(base, true)
	} else {
		sg.Split(base, true)
		sg.SegFlat(" ")
	}
}

var (
	// noSpaceBefore holds tokens that attach to whatever precedes them.
	noSpaceBefore = set(",", ";", ":", "::", ".", ")", "]")
	// noSpaceAfter holds tokens that attach to whatever follows them.
	noSpaceAfter = set("::", ".", "(", "[", "#", "'", "&", "..", "..=", "...")
	// noSpaceBeforeKinds are nodes that attach to whatever precedes them.
	noSpaceBeforeKinds = set(
		"arguments",
		"parameters",
		"type_arguments",
		"type_parameters",
		"field_declaration_list",
		"enum_variant_list",
		"field_initializer_list",
	)
	// tightAfterIn holds tokens that attach to what follows them only
	// within a particular parent.
	tightAfterIn = map[string]map[string]bool{
		"pointer_type":        set("*"),
		"impl_item":           set("!"),
		"visibility_modifier": set("pub"),
	}
	// callees are leaf kinds a following ( or [ attaches to.
	callees = set(
		"identifier",
		"type_identifier",
		"field_identifier",
		"primitive_type",
		"self",
		"super",
		"crate",
		"metavariable",
	)
)

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

// spaced reports whether a space separates two neighbouring children of a
// node of kind parent.
func spaced(parent string, prev, next *syntax.Node) bool {
	last, first := prev.LastLeaf(), next.FirstLeaf()
	if glues(last.Text, first.Text) {
		return true
	}
	if tightKinds[parent] {
		return false
	}
	if noSpaceBeforeKinds[next.Kind] {
		return false
	}
	if !first.Named && noSpaceBefore[first.Text] {
		return false
	}
	if next.Token("?") {
		return false
	}
	if prev.Leaf() && !prev.Named {
		if noSpaceAfter[prev.Text] || tightAfterIn[parent][prev.Text] {
			return false
		}
	}
	if first.Token("(") || first.Token("[") {
		if (last.Named && callees[last.Kind]) || last.Token(")") || last.Token("]") || last.Token(">") {
			return false
		}
	}
	return true
}

// glued holds character pairs that would lex as a different token, or
// start a comment, if written without a space between them.
var glued = set(
	"&&", "&=", "||", "|=", "::", "..", "==", "=>", "->", "-=", "--",
	"++", "+=", "<<", "<=", "<-", ">>", ">=", "!=", "*=", "/=", "//",
	"/*", "%=", "^=",
)

func glues(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	// `&&` reads as two references wherever a lone `&` can start one.
	if a == "&" && b[0] == '&' {
		return false
	}
	return glued[a[len(a)-1:]+b[:1]]
}

// formatBinary lays out a run of the same operator with a break before
// each operator, so `a + b + c` splits into one operand per line.
func formatBinary(st *State, n *syntax.Node, base layout.Alignment, sg *layout.Builder) {
	if len(n.Children) != 3 {
		st.verbatim(n, base, sg)
		return
	}
	operands, ops := operatorChain(n)
	indent := base.Indent()
	st.child(operands[0], base, sg)
	for i, op := range ops {
		sg.Split(indent, true)
		sg.SegFlat(" ")
		st.token(op, indent, sg)
		sg.Seg(" ")
		st.child(operands[i+1], indent, sg)
	}
}

// operatorChain flattens left-nested nodes of n's kind that share its
// operator.
func operatorChain(n *syntax.Node) (operands, ops []*syntax.Node) {
	left, op, right := n.Children[0], n.Children[1], n.Children[2]
	if left.Kind == n.Kind && len(left.Children) == 3 && left.Children[1].Text == op.Text {
		operands, ops = operatorChain(left)
	} else {
		operands = []*syntax.Node{left}
	}
	return append(operands, right), append(ops, op)
}

// formatBounds lays out `: A + B + C` with a break before each `+`.
func formatBounds(st *State, n *syntax.Node, base layout.Alignment, sg *layout.Builder) {
	indent := base.Indent()
	for i, c := range n.Children {
		switch {
		case i == 0 && c.Token(":"):
			st.token(c, base, sg)
			sg.Seg(" ")
		case c.Token("+"):
			sg.Split(indent, true)
			sg.SegFlat(" ")
			st.token(c, indent, sg)
			sg.Seg(" ")
		default:
			st.child(c, indent, sg)
		}
	}
}

func formatSourceFile(st *State, n *syntax.Node, base layout.Alignment, sg *layout.Builder) {
	st.statements(n.Children, base, sg)
	st.appendComments(base, sg, len(st.src)+1)
}

// statements appends each node on its own line at align, keeping an
// attribute run together with the item that follows it and preserving
// single blank lines from the source.
func (st *State) statements(nodes []*syntax.Node, align layout.Alignment, sg *layout.Builder) bool {
	emitted := false
	for _, unit := range units(nodes) {
		st.appendComments(align, sg, unit[0].Span.Start.Byte)
		st.breakBefore(unit[0].Span.Start.Row, align, sg)
		sg.Child(st.Make(element(unit), align))
		emitted = true
	}
	return emitted
}

// units groups each run of outer attributes with the node after it.
func units(nodes []*syntax.Node) [][]*syntax.Node {
	var out [][]*syntax.Node
	var run []*syntax.Node
	for _, n := range nodes {
		run = append(run, n)
		if n.Is("attribute_item") {
			continue
		}
		out = append(out, run)
		run = nil
	}
	if len(run) > 0 {
		out = append(out, run)
	}
	return out
}

// formatBody lays out a brace-delimited statement list, always split when
// it holds anything.
func formatBody(st *State, n *syntax.Node, base layout.Alignment, sg *layout.Builder) {
	open := -1
	for i, c := range n.Children {
		if c.Token("{") {
			open = i
			break
		}
	}
	last := len(n.Children) - 1
	if open < 0 || !n.Children[last].Token("}") {
		st.verbatim(n, base, sg)
		return
	}

	if open > 0 {
		st.sequence(n.Children[:open], n.Kind, base, sg)
		sg.Seg(" ")
	}
	st.token(n.Children[open], base, sg)
	st.noBlank()

	indent := base.Indent()
	emitted := st.statements(n.Children[open+1:last], indent, sg)
	if st.appendComments(indent, sg, n.Children[last].Span.Start.Byte) {
		emitted = true
	}
	if emitted {
		sg.SplitAlways(base, false)
	}
	st.token(n.Children[last], base, sg)
}
