package config

import (
	"github.com/kbukum/pipekit/logger"
	"github.com/kbukum/pipekit/pipe"
	"github.com/kbukum/pipekit/validation"
)

var environments = []string{"development", "staging", "production"}

// ServiceConfig contains the fields every pipekit binary needs. Binaries
// extend it by embedding:
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Pipeline config.PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// GetServiceConfig returns the base ServiceConfig. It is promoted through
// embedding.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults applies default values to the base configuration.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Logging.ServiceName == "" && c.Name != "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the base configuration fields.
func (c *ServiceConfig) Validate() error {
	return validation.New().
		Required("name", c.Name).
		Required("environment", c.Environment).
		OneOf("environment", c.Environment, environments).
		Nested("logging", c.Logging.Validate()).
		Err()
}

// PipelineConfig tunes how a job's pipes are built.
type PipelineConfig struct {
	// Mappers are applied in order to every input element.
	Mappers []string `yaml:"mappers" mapstructure:"mappers" validate:"min=1,dive,oneof=lower upper identity trim"`
	// Async runs the map stage on its own goroutine.
	Async bool `yaml:"async" mapstructure:"async"`
	// BufferSize bounds the async hand-off channel.
	BufferSize int `yaml:"buffer_size" mapstructure:"buffer_size" validate:"min=1,max=65536"`
	// LogTransitions logs every pipe status change at info level.
	LogTransitions bool `yaml:"log_transitions" mapstructure:"log_transitions"`
}

// ApplyDefaults fills unset pipeline fields.
func (c *PipelineConfig) ApplyDefaults() {
	if len(c.Mappers) == 0 {
		c.Mappers = []string{"lower", "upper"}
	}
	if c.BufferSize == 0 {
		c.BufferSize = pipe.DefaultBufferSize
	}
}

// Validate checks the pipeline settings against their tags.
func (c *PipelineConfig) Validate() error {
	return validation.Validate(c)
}
