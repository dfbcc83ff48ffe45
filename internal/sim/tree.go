package sim

import (
	"context"
	"fmt"

	"github.com/vk/plantsimgo/internal/ctxlog"
	"github.com/vk/plantsimgo/internal/mtg"
	"github.com/vk/plantsimgo/internal/weather"
)

// collectionAttr is the tree attribute holding each node's collection.
const collectionAttr = "__collection"

// CollectionFactory builds the per-node collection during tree
// initialization. Returning (nil, nil) leaves the node without a
// collection; traversal skips it.
type CollectionFactory func(ctx context.Context, node *mtg.Node) (*Collection, error)

// InitTree attaches an independent single-step collection to every node of
// the tree. Each node owns its store; the mapping and resolved graph may
// be shared through the factory (typically via Collection.Copy or a shared
// deps.Cache).
func (r *Runner) InitTree(ctx context.Context, root *mtg.Node, factory CollectionFactory) error {
	logger := ctxlog.FromContext(ctx)
	var initErr error
	count := 0
	root.Traverse(func(node *mtg.Node) bool {
		col, err := factory(ctx, node)
		if err != nil {
			initErr = fmt.Errorf("node %q: %w", node.Name(), err)
			return false
		}
		if col == nil {
			return true
		}
		if col.Steps() != 1 {
			initErr = fmt.Errorf("node %q: tree nodes keep one in-flight step, got a %d-step store", node.Name(), col.Steps())
			return false
		}
		node.SetAttribute(collectionAttr, col)
		count++
		return true
	})
	if initErr != nil {
		return initErr
	}
	logger.Debug("Tree initialized.", "nodes", count)
	return nil
}

// NodeCollection returns the collection attached to a tree node, if any.
func NodeCollection(node *mtg.Node) (*Collection, bool) {
	v, ok := node.Attribute(collectionAttr)
	if !ok {
		return nil, false
	}
	col, ok := v.(*Collection)
	return col, ok
}

// RunTree executes one computation per tree node per driver record. Every
// node keeps a single in-flight step of working storage regardless of the
// total step count: per-step attribute slices are preallocated up front,
// and after each step the just-computed values are pulled from the node's
// working store into those slices.
//
// Step k of a node's computation reads whatever step k-1 left in the
// node's working store, which is how state carries across steps.
func (r *Runner) RunTree(ctx context.Context, root *mtg.Node, seq weather.Sequence) error {
	logger := ctxlog.FromContext(ctx)
	steps := seq.Len()
	if steps == 0 {
		return fmt.Errorf("tree run requires at least one driver record")
	}

	// Preallocate per-node per-step storage before any computation.
	root.Traverse(func(node *mtg.Node) bool {
		col, ok := NodeCollection(node)
		if !ok {
			return true
		}
		for _, name := range col.Store().Names() {
			node.SetAttribute(name, make([]any, steps))
		}
		return true
	})

	for step := 0; step < steps; step++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec := seq.At(step)
		var stepErr error
		root.Traverse(func(node *mtg.Node) bool {
			col, ok := NodeCollection(node)
			if !ok {
				return true
			}
			if err := r.runStep(ctx, col, 0, &rec); err != nil {
				stepErr = fmt.Errorf("node %q, step %d: %w", node.Name(), step, err)
				return false
			}
			pullStep(node, col, step)
			return true
		})
		if stepErr != nil {
			return stepErr
		}
	}
	logger.Debug("Tree run finished.", "steps", steps)
	return nil
}

// pullStep copies the node's just-computed single-step values into the
// preallocated per-step attribute slices.
func pullStep(node *mtg.Node, col *Collection, step int) {
	row := col.Store().Row(0)
	for _, name := range row.Names() {
		attr, ok := node.Attribute(name)
		if !ok {
			continue
		}
		slots, ok := attr.([]any)
		if !ok || step >= len(slots) {
			continue
		}
		value, err := row.Get(name)
		if err != nil {
			continue
		}
		slots[step] = value
	}
}
