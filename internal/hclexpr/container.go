// Package hclexpr collects HCL expressions from a definition and reports
// what they reference: root variable names and called functions. The
// description loader uses it to reject references to undeclared parameters
// and unknown functions before anything is elaborated.
package hclexpr

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// Container gathers HCL expressions and caches the analysis of them.
// It is not safe for concurrent use.
type Container struct {
	expressions []hcl.Expression

	analyzed        bool
	references      []hcl.Traversal
	calledFunctions []string
}

// NewContainer creates a new, empty expression container.
func NewContainer() *Container {
	return &Container{}
}

// Add adds one or more expressions to the container for analysis.
// It safely ignores any nil expressions.
func (c *Container) Add(exprs ...hcl.Expression) {
	for _, expr := range exprs {
		if expr != nil {
			c.expressions = append(c.expressions, expr)
			c.analyzed = false
		}
	}
}

// Len returns the number of collected expressions.
func (c *Container) Len() int {
	return len(c.expressions)
}

func (c *Container) analyze() {
	if c.analyzed {
		return
	}
	c.references, c.calledFunctions = analyzeExpressions(c.expressions...)
	c.analyzed = true
}

// References returns all unique variable traversals, sorted by their
// canonical text.
func (c *Container) References() []hcl.Traversal {
	c.analyze()
	return c.references
}

// CalledFunctions returns all unique function names, sorted.
func (c *Container) CalledFunctions() []string {
	c.analyze()
	return c.calledFunctions
}

// UndeclaredReferences returns the traversals whose root name is not in
// declared.
func (c *Container) UndeclaredReferences(declared map[string]struct{}) []hcl.Traversal {
	var out []hcl.Traversal
	for _, tr := range c.References() {
		if _, ok := declared[tr.RootName()]; !ok {
			out = append(out, tr)
		}
	}
	return out
}

// UnknownFunctions returns the called function names not present in known.
func (c *Container) UnknownFunctions(known map[string]struct{}) []string {
	var out []string
	for _, name := range c.CalledFunctions() {
		if _, ok := known[name]; !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// TraversalKey generates a stable, canonical string representation for an
// hcl.Traversal, suitable for use as a map key.
func TraversalKey(t hcl.Traversal) string {
	return string(hclwrite.TokensForTraversal(t).Bytes())
}
