package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ScenarioPath string // hcl files

	LogFormat   string
	LogLevel    string
	MonitorPort int
	CheckInit   bool
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ScenarioPath == "" {
		return nil, errors.New("ScenarioPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
