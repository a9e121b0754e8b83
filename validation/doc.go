// Package validation checks configuration and request input.
//
// Struct tag validation uses go-playground/validator and names fields by
// their mapstructure or json key:
//
//	type PipelineConfig struct {
//	    BufferSize int `mapstructure:"buffer_size" validate:"min=1"`
//	}
//	err := validation.Validate(cfg)
//
// Checks that tags cannot express go through a Validator:
//
//	v := validation.New()
//	v.Required("name", c.Name).OneOf("environment", c.Environment, envs)
//	err := v.Err()
//
// Both return an INVALID_INPUT *errors.AppError.
package validation
