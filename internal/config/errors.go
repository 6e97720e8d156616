// internal/config/errors.go
package config

import "fmt"

// ConfigurationError is fatal before any task is planned.
type ConfigurationError struct {
	Field string
	Msg   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Msg)
}

func cfgErr(field, format string, a ...any) error {
	return &ConfigurationError{Field: field, Msg: fmt.Sprintf(format, a...)}
}
