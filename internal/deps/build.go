package deps

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/plantsimgo/internal/ctxlog"
	"github.com/vk/plantsimgo/internal/model"
)

// Build constructs a complete, validated dependency graph from a process
// assignment.
func Build(ctx context.Context, mapping model.Mapping) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: starting graph construction.", "process_count", len(mapping))

	graph := &Graph{Nodes: make(map[string]*Node, len(mapping)), Mapping: mapping}
	processes := sortedProcesses(mapping)

	// First pass: create one node per process, querying the declaration
	// protocol once.
	for _, process := range processes {
		m := mapping[process]
		graph.Nodes[process] = &Node{
			Process: process,
			Model:   m,
			Inputs:  model.InputsOf(m),
			Outputs: model.OutputsOf(m),
			Sources: make(map[string]string),
		}
	}
	logger.Debug("Build: node creation complete.", "node_count", len(graph.Nodes))

	// Second pass: link data and capability dependencies.
	for _, process := range processes {
		linkNode(ctx, graph, graph.Nodes[process], processes)
	}
	logger.Debug("Build: node linking complete.")

	if err := graph.detectCycles(); err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}
	logger.Debug("Build: cycle detection passed.")

	// Roots are the processes nothing else depends on.
	for _, process := range processes {
		if n := graph.Nodes[process]; n.parents == 0 {
			graph.Roots = append(graph.Roots, n)
		}
	}
	logger.Debug("Build: graph construction successful.", "root_count", len(graph.Roots))
	return graph, nil
}

// linkNode records, for every input of the node, which other process
// produces it, and links any capability requirements the model declares.
func linkNode(ctx context.Context, graph *Graph, n *Node, processes []string) {
	logger := ctxlog.FromContext(ctx)

	for _, input := range n.Inputs.Names() {
		n.Sources[input] = External
		for _, other := range processes {
			if other == n.Process {
				continue
			}
			producer := graph.Nodes[other]
			if !producer.Outputs.Has(input) {
				continue
			}
			logger.Debug("Linking data dependency.", "from", n.Process, "to", other, "variable", input)
			n.Sources[input] = other
			n.addChild(producer)
			break
		}
	}

	hard, ok := n.Model.(model.HardDependent)
	if !ok {
		return
	}
	for _, required := range hard.RequiredProcesses() {
		dep, found := graph.Nodes[required]
		if !found || model.IsNone(dep.Model) {
			// A capability requirement without a model is not fatal
			// here; the initialization analysis surfaces any missing
			// variable it causes.
			logger.Debug("Capability dependency unsatisfied.", "from", n.Process, "required", required)
			continue
		}
		logger.Debug("Linking capability dependency.", "from", n.Process, "to", required)
		n.addChild(dep)
	}
}

// detectCycles checks for circular dependencies using depth-first search
// with visiting/visited color marking. A back-edge to a node still being
// visited is a cycle.
func (g *Graph) detectCycles() error {
	visiting := make(map[string]bool)
	visited := make(map[string]bool)
	var stack []string

	var visit func(n *Node) error
	visit = func(n *Node) error {
		visiting[n.Process] = true
		stack = append(stack, n.Process)
		for _, child := range n.Children {
			if visiting[child.Process] {
				return &CyclicDependencyError{Processes: cyclePath(stack, child.Process)}
			}
			if !visited[child.Process] {
				if err := visit(child); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		delete(visiting, n.Process)
		visited[n.Process] = true
		return nil
	}

	for _, process := range sortedNodeKeys(g.Nodes) {
		n := g.Nodes[process]
		if !visited[n.Process] {
			if err := visit(n); err != nil {
				return err
			}
		}
	}
	return nil
}

// cyclePath trims the DFS stack to the segment forming the cycle and
// closes the loop for reporting.
func cyclePath(stack []string, repeated string) []string {
	for i, process := range stack {
		if process == repeated {
			path := append([]string(nil), stack[i:]...)
			return append(path, repeated)
		}
	}
	return append([]string(nil), repeated)
}

func sortedProcesses(mapping model.Mapping) []string {
	out := make([]string, 0, len(mapping))
	for process := range mapping {
		out = append(out, process)
	}
	sort.Strings(out)
	return out
}

func sortedNodeKeys(nodes map[string]*Node) []string {
	out := make([]string, 0, len(nodes))
	for process := range nodes {
		out = append(out, process)
	}
	sort.Strings(out)
	return out
}
