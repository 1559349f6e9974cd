package logger

import "os"

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

type Config struct {
	// Level selects the minimum log level. One of the constants above.
	Level string `yaml:"level" envconfig:"ZAP_LOGGER_LEVEL"`
}

// NewConfig reads the logger configuration from environment variables.
func NewConfig() Config {
	return Config{
		Level: os.Getenv("ZAP_LOGGER_LEVEL"),
	}
}
