package scenario

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/plantsimgo/internal/ctxlog"
	"github.com/vk/plantsimgo/internal/fsutil"
	"github.com/vk/plantsimgo/internal/model"
	"github.com/vk/plantsimgo/internal/registry"
	"github.com/vk/plantsimgo/internal/weather"
)

// LoadPath discovers every .hcl file under path (a file or a directory)
// and loads them into one scenario. Model blocks accumulate across files;
// init values merge with later files winning; the last run block wins.
func LoadPath(ctx context.Context, reg *registry.Registry, path string) (*Scenario, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to discover scenario files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl scenario files found under %q", path)
	}
	logger.Debug("Found scenario files.", "files", files)

	return LoadFiles(ctx, reg, files...)
}

// LoadFiles parses and decodes the given scenario files.
func LoadFiles(ctx context.Context, reg *registry.Registry, paths ...string) (*Scenario, error) {
	logger := ctxlog.FromContext(ctx)
	parser := hclparse.NewParser()

	sc := &Scenario{
		Mapping: make(model.Mapping),
		Init:    make(map[string]any),
	}

	for _, path := range paths {
		file, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse scenario file %s: %w", path, diags)
		}
		if err := decodeFile(reg, file, sc); err != nil {
			return nil, fmt.Errorf("failed to decode scenario file %s: %w", path, err)
		}
		logger.Debug("Loaded scenario file.", "file", path)
	}

	logger.Info("Scenario loaded.", "processes", len(sc.Mapping), "init_values", len(sc.Init), "steps", sc.Steps)
	return sc, nil
}

func decodeFile(reg *registry.Registry, file *hcl.File, sc *Scenario) error {
	var config Config
	if diags := gohcl.DecodeBody(file.Body, nil, &config); diags.HasErrors() {
		return diags
	}

	for _, block := range config.Models {
		if _, exists := sc.Mapping[block.Process]; exists {
			return fmt.Errorf("process %q is assigned a model more than once", block.Process)
		}
		m, ok := reg.NewModel(block.Type)
		if !ok {
			return fmt.Errorf("unknown model type %q for process %q, registered types: %v",
				block.Type, block.Process, reg.Types())
		}
		if block.Params != nil {
			if diags := gohcl.DecodeBody(block.Params, nil, m); diags.HasErrors() {
				return fmt.Errorf("invalid parameters for model %q: %w", block.Type, diags)
			}
		}
		sc.Mapping[block.Process] = m
	}

	if config.Init != nil {
		values, err := decodeAttributes(config.Init.Body)
		if err != nil {
			return fmt.Errorf("invalid init block: %w", err)
		}
		for name, value := range values {
			sc.Init[name] = value
		}
	}

	if config.Run != nil {
		sc.Steps = config.Run.Steps
		if config.Run.Constants != nil {
			val, diags := config.Run.Constants.Value(nil)
			if !diags.HasErrors() && !val.IsNull() {
				constants, err := ctyValueToGo(val)
				if err != nil {
					return fmt.Errorf("invalid constants: %w", err)
				}
				asMap, ok := constants.(map[string]any)
				if !ok {
					return fmt.Errorf("constants must be an object, got %T", constants)
				}
				sc.Constants = asMap
			}
		}
	}

	if config.Weather != nil {
		sc.Weather = &weather.Record{
			TMin:      config.Weather.TMin,
			TMax:      config.Weather.TMax,
			Radiation: config.Weather.Radiation,
			PPFD:      config.Weather.PPFD,
		}
	}

	return nil
}

// decodeAttributes converts every attribute of a body into Go values.
func decodeAttributes(body hcl.Body) (map[string]any, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	out := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, valDiags := attr.Expr.Value(nil)
		if valDiags.HasErrors() {
			return nil, fmt.Errorf("attribute %q: %w", name, valDiags)
		}
		converted, err := ctyValueToGo(val)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		out[name] = converted
	}
	return out, nil
}
