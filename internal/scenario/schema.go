// Package scenario loads simulation scenarios from HCL files: process to
// model assignments with their parameters, user-supplied initial variable
// values, and run settings.
package scenario

import (
	"github.com/hashicorp/hcl/v2"

	"github.com/vk/plantsimgo/internal/model"
	"github.com/vk/plantsimgo/internal/weather"
)

// ModelBlock assigns one model type to one process:
//
//	model "growth" "rue" {
//	  efficiency = 0.03
//	}
//
// The remaining body holds the model's parameters and is decoded into the
// concrete model struct registered under the type name.
type ModelBlock struct {
	Process string   `hcl:"process,label"`
	Type    string   `hcl:"model_type,label"`
	Params  hcl.Body `hcl:",remain"`
}

// InitBlock carries the user-supplied initial variable values:
//
//	init {
//	  lai = 0.1
//	}
type InitBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// RunBlock carries run settings.
type RunBlock struct {
	Steps     int            `hcl:"steps,optional"`
	Constants hcl.Expression `hcl:"constants,optional"`
}

// WeatherBlock declares a uniform driver record broadcast over every step
// of the run. Measured driver sequences come in through the library API;
// the scenario surface only covers constant forcing.
type WeatherBlock struct {
	TMin      float64 `hcl:"tmin,optional"`
	TMax      float64 `hcl:"tmax,optional"`
	Radiation float64 `hcl:"radiation,optional"`
	PPFD      float64 `hcl:"ppfd,optional"`
}

// Config is the top-level structure of a scenario file.
type Config struct {
	Models  []*ModelBlock `hcl:"model,block"`
	Init    *InitBlock    `hcl:"init,block"`
	Run     *RunBlock     `hcl:"run,block"`
	Weather *WeatherBlock `hcl:"weather,block"`
	Body    hcl.Body      `hcl:",remain"`
}

// Scenario is the loaded, decoded result of one or more scenario files.
type Scenario struct {
	// Mapping assigns the instantiated, parameterized models to their
	// processes.
	Mapping model.Mapping
	// Init holds the user-supplied initial values, already converted to
	// engine value kinds.
	Init map[string]any
	// Steps is the requested number of time steps; 0 means a single-step
	// run.
	Steps int
	// Constants are run-level named constants passed to every
	// computation.
	Constants map[string]any
	// Weather is the uniform driver record of the run, nil when the
	// scenario declares none.
	Weather *weather.Record
}
