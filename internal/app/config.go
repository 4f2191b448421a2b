package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ProjectPath is a manifest file or a directory of manifest files.
	ProjectPath string

	// Release selects the release object directory and mode variable;
	// the default is a debug build.
	Release bool

	// Graph exports the dependency graph as Graphviz DOT instead of building.
	Graph bool

	// Plan prints the topologically ordered build plan instead of building.
	Plan bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProjectPath == "" {
		return nil, errors.New("ProjectPath is a required configuration field and cannot be empty")
	}
	if cfg.Graph && cfg.Plan {
		return nil, errors.New("graph and plan are mutually exclusive")
	}
	return &cfg, nil
}

// Mode returns the build mode name used in manifest expressions and logs.
func (c *Config) Mode() string {
	if c.Release {
		return "release"
	}
	return "debug"
}
