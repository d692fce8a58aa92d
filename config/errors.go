package config

import "fmt"

// ConfigError reports a configuration value that could not be coerced to its
// declared type. It is fatal at startup.
type ConfigError struct {
	Key    string
	Value  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s=%q: %s", e.Key, e.Value, e.Reason)
}
