package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/plantsimgo/internal/ctxlog"
	"github.com/vk/plantsimgo/internal/variable"
)

// Validate performs a well-formedness check on every registered factory:
// the declaration protocol must yield non-nil declarations and every
// declared default must have a representable kind. A model with no outputs
// is legal (a pure sink) but worth flagging.
func (r *Registry) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var errs []string

	for _, typeName := range r.Types() {
		m, _ := r.NewModel(typeName)
		inputs, outputs := m.Inputs(), m.Outputs()

		if inputs == nil || outputs == nil {
			errs = append(errs, fmt.Sprintf("model '%s': declaration protocol returned nil", typeName))
			continue
		}
		if outputs.Len() == 0 {
			logger.Warn("Model declares no outputs, it can never satisfy another model's input.", "model", typeName)
		}
		for _, name := range append(inputs.Names(), outputs.Names()...) {
			v, _ := inputs.Get(name)
			if !inputs.Has(name) {
				v, _ = outputs.Get(name)
			}
			if v.Kind() == variable.KindInvalid {
				errs = append(errs, fmt.Sprintf("model '%s': variable '%s' has default of unsupported type %T", typeName, name, v.Default))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Debug("Registry validation passed.", "model_types", len(r.factories))
	return nil
}
