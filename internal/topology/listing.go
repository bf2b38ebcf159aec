package topology

import "github.com/vk/socgen/internal/source"

// EnumerateSubsystems returns every node tagged as a subsystem, root
// included, in depth-first pre-order.
func EnumerateSubsystems(root source.Node) []source.Node {
	var out []source.Node
	source.Walk(root, func(n source.Node) bool {
		if n.Kind() == source.KindBlock && source.BoolProperty(n, "subsystem") {
			out = append(out, n)
		}
		return true
	})
	return out
}
