package dag

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is returned (wrapped in a CycleError) when the graph is not acyclic.
var ErrCycle = errors.New("cycle detected")

// CycleError reports the nodes forming a cycle, in edge order, with the first
// node repeated at the end (`a -> b -> a`).
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %s", ErrCycle, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// Graph is a collection of nodes and their directed edges. It is built and
// queried by a single goroutine.
type Graph struct {
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
	// order records insertion order so traversals and errors are deterministic.
	order []string
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using string IDs),
// not by direct struct manipulation.
type node struct {
	// id is the unique identifier for the node.
	id string
	// deps holds the set of nodes with an edge into this node (predecessors).
	deps map[string]*node
	// dependents holds the set of nodes this node has an edge to (successors).
	dependents map[string]*node
	// out keeps successor IDs in the order the edges were added.
	out []string
}
