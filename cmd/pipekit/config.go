package main

import (
	"github.com/kbukum/pipekit/config"
	"github.com/kbukum/pipekit/server"
	"github.com/kbukum/pipekit/validation"
)

const serviceName = "pipekit"

// AppConfig is the full pipekit configuration.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Pipeline  config.PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Server    server.Config         `yaml:"server" mapstructure:"server"`
	Telemetry TelemetryConfig       `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills every unset section. Logs go to stderr unless
// configured otherwise, since job output owns stdout.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stderr"
	}
	c.ServiceConfig.ApplyDefaults()
	c.Pipeline.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	return validation.New().
		Nested("service", c.ServiceConfig.Validate()).
		Nested("pipeline", c.Pipeline.Validate()).
		Nested("server", c.Server.Validate()).
		Nested("telemetry", c.Telemetry.Validate()).
		Err()
}

// TelemetryConfig switches OTLP trace and metric export on.
type TelemetryConfig struct {
	Tracing    bool    `yaml:"tracing" mapstructure:"tracing"`
	Metrics    bool    `yaml:"metrics" mapstructure:"metrics"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint" validate:"hostname_port"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"min=0,max=1"`
}

// ApplyDefaults points export at a local collector and samples everything.
func (c *TelemetryConfig) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
		c.Insecure = true
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
}

// Validate checks the telemetry settings against their tags.
func (c *TelemetryConfig) Validate() error {
	return validation.Validate(c)
}
