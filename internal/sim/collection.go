// Package sim binds a process assignment to a status store and executes
// the resolved dependency plan across objects, time steps and tree nodes.
// Execution is single-threaded and synchronous; within one object and one
// step, nodes always run in dependency order.
package sim

import (
	"context"
	"fmt"

	"github.com/vk/plantsimgo/internal/ctxlog"
	"github.com/vk/plantsimgo/internal/deps"
	"github.com/vk/plantsimgo/internal/model"
	"github.com/vk/plantsimgo/internal/status"
	"github.com/vk/plantsimgo/internal/variable"
)

// Collection binds a process-to-model mapping to one status store for one
// simulated object. The store is exclusively owned by the collection; the
// mapping and the resolved graph are shared between copies.
type Collection struct {
	mapping   model.Mapping
	graph     *deps.Graph
	store     status.Store
	constants map[string]any
	cache     *deps.Cache

	pendingInitCheck bool
}

// Option adjusts collection construction.
type Option func(*buildOptions)

type buildOptions struct {
	cache     *deps.Cache
	constants map[string]any
	initCheck bool
}

// WithCache resolves the dependency graph through a shared cache, so many
// objects with the same model-type combination reuse one resolved graph.
func WithCache(c *deps.Cache) Option {
	return func(o *buildOptions) { o.cache = c }
}

// WithConstants attaches run-level named constants passed to every
// computation scope.
func WithConstants(constants map[string]any) Option {
	return func(o *buildOptions) { o.constants = constants }
}

// WithInitCheck reports variables still at their declared default right
// after construction. The report never changes values, only logging.
func WithInitCheck() Option {
	return func(o *buildOptions) { o.initCheck = true }
}

// New builds a single-step collection. Construction resolves the
// dependency graph, collects the full variable set across all models,
// merges the user-supplied values over the declared defaults (user values
// win), applies type promotion, and builds the status store.
func New(ctx context.Context, mapping model.Mapping, init map[string]any, opts ...Option) (*Collection, error) {
	col, union, err := newCollection(ctx, mapping, opts...)
	if err != nil {
		return nil, err
	}

	values, err := mergeInit(union, init)
	if err != nil {
		return nil, err
	}
	col.store = status.NewOrdered(union.Names(), values)

	col.finishInit(ctx)
	return col, nil
}

// NewSeries builds a multi-step collection from one init mapping per time
// step. Every mapping merges over the same declared defaults; the rows of
// the resulting table share one field set.
func NewSeries(ctx context.Context, mapping model.Mapping, inits []map[string]any, opts ...Option) (*Collection, error) {
	if len(inits) == 0 {
		return nil, fmt.Errorf("series collection requires at least one init mapping")
	}

	col, union, err := newCollection(ctx, mapping, opts...)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]any, len(inits))
	for step, init := range inits {
		values, err := mergeInit(union, init)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", step, err)
		}
		rows[step] = values
	}
	table, err := status.NewTable(rows)
	if err != nil {
		return nil, err
	}
	col.store = table

	col.finishInit(ctx)
	return col, nil
}

func newCollection(ctx context.Context, mapping model.Mapping, opts ...Option) (*Collection, *variable.Declaration, error) {
	logger := ctxlog.FromContext(ctx)
	options := &buildOptions{}
	for _, opt := range opts {
		opt(options)
	}

	var graph *deps.Graph
	var err error
	if options.cache != nil {
		graph, err = options.cache.Resolve(ctx, mapping)
	} else {
		graph, err = deps.Build(ctx, mapping)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build dependency graph: %w", err)
	}

	union, conflicts := deps.Variables(graph)
	for _, c := range conflicts {
		logger.Warn("Type conflict across model declarations.", "conflict", c.String())
	}

	col := &Collection{
		mapping:   mapping,
		graph:     graph,
		constants: options.constants,
		cache:     options.cache,
	}
	if options.initCheck {
		// Deferred until the store exists.
		col.pendingInitCheck = true
	}
	return col, union, nil
}

func mergeInit(union *variable.Declaration, init map[string]any) (map[string]any, error) {
	values := union.AsMap()
	for name, value := range init {
		declared, ok := union.Get(name)
		if !ok {
			return nil, &status.UnknownVariableError{Name: name, Known: union.Names()}
		}
		values[name] = variable.Convert(value, declared.Kind())
	}
	return values, nil
}

func (c *Collection) finishInit(ctx context.Context) {
	if !c.pendingInitCheck {
		return
	}
	c.pendingInitCheck = false
	deps.Uninitialized(ctx, c.graph, c.store)
}

// Mapping returns the process assignment.
func (c *Collection) Mapping() model.Mapping { return c.mapping }

// Graph returns the resolved dependency graph.
func (c *Collection) Graph() *deps.Graph { return c.graph }

// Store returns the bound status store.
func (c *Collection) Store() status.Store { return c.store }

// Steps returns the number of time steps the store holds.
func (c *Collection) Steps() int { return c.store.Steps() }

// InitStatus writes user values into every step of the store. A name the
// bound models do not declare is a fatal UnknownVariableError; nothing is
// written in that case.
func (c *Collection) InitStatus(values map[string]any) error {
	union, _ := deps.Variables(c.graph)
	for name := range values {
		if !union.Has(name) {
			return &status.UnknownVariableError{Name: name, Known: union.Names()}
		}
	}
	for name, value := range values {
		declared, _ := union.Get(name)
		converted := variable.Convert(value, declared.Kind())
		for step := 0; step < c.store.Steps(); step++ {
			if err := c.store.Row(step).Set(name, converted); err != nil {
				return err
			}
		}
	}
	return nil
}

// IsInitialized reports whether every user-supplied variable differs from
// its declared default. The uninitialized ones, if any, are logged.
func (c *Collection) IsInitialized(ctx context.Context) bool {
	return len(deps.Uninitialized(ctx, c.graph, c.store)) == 0
}

// ToInitialize returns, per process, the variables the user must supply
// because no declared model produces them.
func (c *Collection) ToInitialize() map[string]*variable.Declaration {
	return deps.ToInitialize(c.graph)
}

// Copy replicates the configuration for another simulated object: an
// independent store duplicating the current values of every step, sharing
// the mapping and the resolved graph.
func (c *Collection) Copy() *Collection {
	return &Collection{
		mapping:   c.mapping,
		graph:     c.graph,
		store:     c.store.Clone(),
		constants: c.constants,
		cache:     c.cache,
	}
}

// PreallocateSteps replaces single-step storage with an n-step table in
// place, broadcasting each current value across all n slots.
func (c *Collection) PreallocateSteps(n int) error {
	proto, ok := c.store.(*status.Status)
	if !ok {
		return fmt.Errorf("store already holds %d steps, can only preallocate from a single-step store", c.store.Steps())
	}
	c.store = status.Expand(proto, n)
	return nil
}
