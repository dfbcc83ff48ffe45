// Package registry holds the compiled-in model factories for a single
// application instance, keyed by model type name. Scenario files refer to
// these type names when assigning models to processes.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/plantsimgo/internal/model"
)

// Factory constructs a fresh, unconfigured model instance. The scenario
// loader decodes the model's HCL parameters into the returned value.
type Factory func() model.Model

// Module is the interface every model package implements to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry maps model type names to factories.
type Registry struct {
	factories map[string]Factory
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a model factory under a type name. Registering the same
// name twice is a programmer error.
func (r *Registry) Register(typeName string, f Factory) {
	if _, exists := r.factories[typeName]; exists {
		panic(fmt.Sprintf("model factory with type name '%s' already registered", typeName))
	}
	slog.Debug("Registering model factory.", "type", typeName)
	r.factories[typeName] = f
}

// NewModel instantiates a registered model type.
func (r *Registry) NewModel(typeName string) (model.Model, bool) {
	f, ok := r.factories[typeName]
	if !ok {
		return nil, false
	}
	return f(), true
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
