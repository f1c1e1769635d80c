// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `Load` calls `validateStruct` immediately after it unmarshals the merged
// Koanf tree.  Any validation error aborts startup, so the binary never
// runs with partial or malformed configuration.
//
// Rules in use: `required`, `hostname_port`, `oneof`, and `min`.

package config

import "github.com/go-playground/validator/v10"

var v = validator.New()

// validateStruct returns the validation errors, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
