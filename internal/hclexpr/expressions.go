package hclexpr

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// analyzeExpressions returns the unique root traversals and called function
// names of exprs, both sorted.
func analyzeExpressions(exprs ...hcl.Expression) ([]hcl.Traversal, []string) {
	traversals := make(map[string]hcl.Traversal)
	functions := make(map[string]struct{})

	for _, expr := range exprs {
		for _, tr := range expr.Variables() {
			traversals[TraversalKey(tr)] = tr
		}
		// Variables does not report calls, so syntax trees are walked for them.
		if node, ok := expr.(hclsyntax.Node); ok {
			collectCalls(node, functions)
		}
	}

	keys := make([]string, 0, len(traversals))
	for k := range traversals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	refs := make([]hcl.Traversal, len(keys))
	for i, k := range keys {
		refs[i] = traversals[k]
	}

	calls := make([]string, 0, len(functions))
	for name := range functions {
		calls = append(calls, name)
	}
	sort.Strings(calls)

	return refs, calls
}

func collectCalls(node hclsyntax.Node, into map[string]struct{}) {
	hclsyntax.VisitAll(node, func(n hclsyntax.Node) hcl.Diagnostics {
		if call, ok := n.(*hclsyntax.FunctionCallExpr); ok {
			into[call.Name] = struct{}{}
		}
		return nil
	})
}
