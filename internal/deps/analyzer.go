package deps

import (
	"context"
	"sort"

	"github.com/vk/plantsimgo/internal/ctxlog"
	"github.com/vk/plantsimgo/internal/status"
	"github.com/vk/plantsimgo/internal/variable"
)

// CollectVariables traverses every node once and accumulates the union of
// all declared inputs and all declared outputs across the graph. Diverging
// kind declarations are reconciled by numeric promotion; each affected
// variable is reported exactly once.
func CollectVariables(g *Graph) (inputs, outputs *variable.Declaration, conflicts []variable.TypeConflict) {
	inputs = variable.NewDeclaration()
	outputs = variable.NewDeclaration()
	seen := make(map[string]struct{})

	for _, process := range sortedNodeKeys(g.Nodes) {
		n := g.Nodes[process]
		for _, c := range inputs.Merge(n.Inputs) {
			if _, dup := seen[c.Name]; !dup {
				seen[c.Name] = struct{}{}
				conflicts = append(conflicts, c)
			}
		}
		for _, c := range outputs.Merge(n.Outputs) {
			if _, dup := seen[c.Name]; !dup {
				seen[c.Name] = struct{}{}
				conflicts = append(conflicts, c)
			}
		}
	}
	return inputs, outputs, conflicts
}

// Variables returns the full set of variables the graph touches: the union
// of every input and output, first-seen in process-sorted order.
func Variables(g *Graph) (*variable.Declaration, []variable.TypeConflict) {
	inputs, outputs, conflicts := CollectVariables(g)
	union := inputs.Clone()
	for _, c := range union.Merge(outputs) {
		conflicts = append(conflicts, c)
	}
	return union, conflicts
}

// ToInitialize computes, per process, the variables that are inputs
// somewhere in the graph but outputs nowhere: the caller must supply them.
// Processes with nothing to initialize are absent from the result.
func ToInitialize(g *Graph) map[string]*variable.Declaration {
	_, outputs, _ := CollectVariables(g)

	out := make(map[string]*variable.Declaration)
	for process, n := range g.Nodes {
		missing := n.Inputs.Sub(outputs)
		if missing.Len() > 0 {
			out[process] = missing
		}
	}
	return out
}

// Uninitialized reports the user-supplied variables whose current value in
// the store still equals the declaring model's default placeholder. Every
// step is inspected: an external input is read at each step, so a default
// left in any row counts as uninitialized. A legitimate value that happens
// to equal the default sentinel is indistinguishable from an uninitialized
// one; the check is documented as comparing against the declared default.
func Uninitialized(ctx context.Context, g *Graph, store status.Store) []string {
	logger := ctxlog.FromContext(ctx)

	pending := make(map[string]struct{})
	for _, decl := range ToInitialize(g) {
		for _, name := range decl.Names() {
			v, _ := decl.Get(name)
			for step := 0; step < store.Steps(); step++ {
				current, err := store.Row(step).Get(name)
				if err != nil {
					break
				}
				if equalValues(current, v.Default) {
					pending[name] = struct{}{}
					break
				}
			}
		}
	}

	out := make([]string, 0, len(pending))
	for name := range pending {
		out = append(out, name)
	}
	sort.Strings(out)
	if len(out) > 0 {
		logger.Warn("Variables still at their declared default.", "variables", out)
	}
	return out
}

func equalValues(a, b any) bool {
	if variable.KindOf(a) == variable.KindInvalid || variable.KindOf(b) == variable.KindInvalid {
		return false
	}
	return a == b
}
