package anchor

import "fmt"

// ConfigError represents an invalid controller setting.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("anchor config: %s %s", e.Field, e.Message)
}
