// Package deps builds and analyzes the dependency graph between processes.
// Edges are inferred from the models' declared variables (an input of one
// process matched against an output of another) and from explicit
// capability requirements. The result is a cycle-free forest whose shared
// producer nodes are deduplicated by process identity.
package deps

import (
	"fmt"
	"strings"

	"github.com/vk/plantsimgo/internal/model"
	"github.com/vk/plantsimgo/internal/variable"
)

// External marks an input variable no declared process produces; the user
// must supply it at initialization.
const External = ""

// Node wraps one (process, model) pair in the resolved graph.
type Node struct {
	// Process is the name of the simulated process.
	Process string
	// Model is the instance the graph was built from. It serves the
	// structural queries only; execution always goes through the owning
	// collection's mapping, since a cached graph may be shared between
	// collections holding different instances of the same model types.
	Model model.Model
	// Inputs and Outputs are the model's declarations, queried once at
	// build time.
	Inputs  *variable.Declaration
	Outputs *variable.Declaration
	// Sources maps each input variable name to the process producing it,
	// or External when no declared process does.
	Sources map[string]string
	// Children are the nodes this node depends on, in deterministic
	// (process-sorted) order. A child may be shared with other parents.
	Children []*Node

	childSet map[string]struct{}
	parents  int
}

// addChild links a dependency edge once per child process.
func (n *Node) addChild(child *Node) {
	if _, ok := n.childSet[child.Process]; ok {
		return
	}
	if n.childSet == nil {
		n.childSet = make(map[string]struct{})
	}
	n.childSet[child.Process] = struct{}{}
	n.Children = append(n.Children, child)
	child.parents++
}

// Graph is the resolved forest: one tree per root process, with producer
// nodes shared between trees.
type Graph struct {
	// Nodes holds every node, keyed by process name.
	Nodes map[string]*Node
	// Roots are the processes no other declared process depends on,
	// sorted by name.
	Roots []*Node
	// Mapping is the process assignment the graph was built from.
	Mapping model.Mapping
}

// For returns the tree rooted at the named process: that node together
// with its transitive dependencies.
func (g *Graph) For(process string) (*Node, error) {
	n, ok := g.Nodes[process]
	if !ok {
		return nil, fmt.Errorf("process %q is not part of the resolved graph", process)
	}
	return n, nil
}

// CyclicDependencyError reports two or more processes that mutually
// require each other's outputs.
type CyclicDependencyError struct {
	Processes []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency between processes: %s", strings.Join(e.Processes, " -> "))
}
