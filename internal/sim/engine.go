package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/plantsimgo/internal/ctxlog"
	"github.com/vk/plantsimgo/internal/deps"
	"github.com/vk/plantsimgo/internal/model"
	"github.com/vk/plantsimgo/internal/weather"
)

// Metrics receives execution counts from the engine. The prometheus-backed
// implementation lives in internal/observability; a nil Metrics disables
// reporting without changing behavior.
type Metrics interface {
	StepExecuted()
	ComputationExecuted(process string)
	RunObserved(duration time.Duration)
}

// Runner walks a collection's resolved dependency plan. The zero value is
// usable; construct with NewRunner to attach metrics.
type Runner struct {
	metrics Metrics
}

// RunnerOption adjusts a Runner.
type RunnerOption func(*Runner)

// WithMetrics attaches an execution metrics sink.
func WithMetrics(m Metrics) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// NewRunner constructs a Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// nodeState is the per-call execution state of one graph node.
type nodeState uint8

const (
	stateIdle nodeState = iota
	stateResolving
	stateComputing
	stateDone
)

// Run executes every root process of the collection across all of its
// time steps, paired with the given driver records. The sequence must be
// empty (no driver data), length-matched to the step count, or length 1
// (broadcast); anything else fails with ShapeMismatchError before any
// computation begins. Steps execute strictly in order.
func (r *Runner) Run(ctx context.Context, col *Collection, seq weather.Sequence) error {
	logger := ctxlog.FromContext(ctx)
	steps := col.Steps()
	if seq.Len() != 0 && seq.Len() != steps && seq.Len() != 1 {
		return &ShapeMismatchError{Records: seq.Len(), Steps: steps}
	}

	started := time.Now()
	logger.Debug("Engine starting run.", "steps", steps, "records", seq.Len())
	for step := 0; step < steps; step++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		var met *weather.Record
		if seq.Len() > 0 {
			rec := seq.At(step)
			met = &rec
		}
		if err := r.runStep(ctx, col, step, met); err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
		if r.metrics != nil {
			r.metrics.StepExecuted()
		}
	}
	if r.metrics != nil {
		r.metrics.RunObserved(time.Since(started))
	}
	logger.Debug("Engine run finished.", "steps", steps)
	return nil
}

// RunProcess executes the named process and its transitive dependencies
// for step 0 of the collection, without driver data. An explicit re-call
// recomputes; there is no memoization across calls.
func (r *Runner) RunProcess(ctx context.Context, col *Collection, process string) error {
	node, err := col.graph.For(process)
	if err != nil {
		return err
	}
	sc := r.scope(col, 0, nil)
	return r.runNode(ctx, col, node, sc, make(map[string]nodeState))
}

// RunCopy is the non-mutating variant of Run: it executes against a deep
// copy of the collection, every step included, and returns the copy,
// leaving the original untouched.
func (r *Runner) RunCopy(ctx context.Context, col *Collection, seq weather.Sequence) (*Collection, error) {
	out := col.Copy()
	if err := r.Run(ctx, out, seq); err != nil {
		return nil, err
	}
	return out, nil
}

// runStep executes all roots for one step, sharing one state map so a
// producer shared by several trees computes once per step.
func (r *Runner) runStep(ctx context.Context, col *Collection, step int, met *weather.Record) error {
	sc := r.scope(col, step, met)
	states := make(map[string]nodeState)
	for _, root := range col.graph.Roots {
		if err := r.runNode(ctx, col, root, sc, states); err != nil {
			return err
		}
	}
	return nil
}

// runNode recursively resolves a node's dependencies, then performs its
// own computation. Per call, a node passes Idle -> Resolving -> Computing
// -> Done exactly once.
func (r *Runner) runNode(ctx context.Context, col *Collection, n *deps.Node, sc *model.Scope, states map[string]nodeState) error {
	if states[n.Process] == stateDone {
		return nil
	}

	states[n.Process] = stateResolving
	for _, child := range n.Children {
		if err := r.runNode(ctx, col, child, sc, states); err != nil {
			return err
		}
	}

	states[n.Process] = stateComputing
	// The resolved graph may be shared through a cache between collections
	// holding differently parameterized instances of the same model types;
	// the node carries declarations only, the owning collection's instance
	// computes.
	m := col.mapping[n.Process]
	if model.IsNone(m) {
		return &NoModelError{
			Process:     n.Process,
			Computation: n.Process,
			Bound:       boundTypes(col.mapping),
		}
	}
	if err := m.Compute(ctx, sc); err != nil {
		return fmt.Errorf("process %q: %w", n.Process, err)
	}
	if r.metrics != nil {
		r.metrics.ComputationExecuted(n.Process)
	}

	states[n.Process] = stateDone
	return nil
}

func (r *Runner) scope(col *Collection, step int, met *weather.Record) *model.Scope {
	return &model.Scope{
		Status:    col.store.Row(step),
		Store:     col.store,
		Step:      step,
		Met:       met,
		Models:    col.mapping,
		Constants: col.constants,
	}
}

func boundTypes(mapping model.Mapping) map[string]string {
	out := make(map[string]string, len(mapping))
	for process, m := range mapping {
		out[process] = fmt.Sprintf("%T", m)
	}
	return out
}
