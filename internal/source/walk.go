package source

// Signals returns the signal children of n in declaration order.
func Signals(n Node) []Node {
	return childrenOfKind(n, KindSignal)
}

// Blocks returns the structural children of n in declaration order.
func Blocks(n Node) []Node {
	return childrenOfKind(n, KindBlock)
}

func childrenOfKind(n Node, kind Kind) []Node {
	var out []Node
	for _, c := range n.Children() {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// Walk visits n and its structural descendants depth-first, parents before
// children. Returning false from fn skips the node's subtree.
func Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range Blocks(n) {
		Walk(c, fn)
	}
}
