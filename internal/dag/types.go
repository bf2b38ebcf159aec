package dag

import "sync"

// Graph is a collection of nodes and their directed edges.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using string IDs).
type node struct {
	id string
	// deps holds the nodes that point at this node (predecessors).
	deps map[string]*node
	// dependents holds the nodes this node points at (successors).
	dependents map[string]*node
}
