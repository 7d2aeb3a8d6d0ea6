// Package validation provides input validation for kvrest configuration and
// call arguments.
//
// Struct tag validation (backed by go-playground/validator) checks
// configuration structs:
//
//	type Config struct {
//	    APIKey  string `validate:"required"`
//	    BaseURL string `validate:"required,http_url"`
//	}
//	err := validation.Validate(cfg)
//
// Programmatic validation collects errors for call arguments:
//
//	v := validation.New()
//	v.Required("bucket", bucket)
//	err := v.Validate()
package validation
