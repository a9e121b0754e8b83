// Package config loads service configuration with Viper.
//
// LoadConfig looks for ./cmd/<service>/config.yml (and a few parent and
// shared locations), then overlays environment variables and an optional
// .env file loaded with godotenv. Nested keys map to UPPER_SNAKE variables:
// pipeline.buffer_size is set by PIPELINE_BUFFER_SIZE.
//
//	var cfg AppConfig
//	if err := config.LoadConfig("pipekit", &cfg); err != nil {
//	    return err
//	}
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
