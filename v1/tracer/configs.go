package tracer

import "os"

// Config controls trace collection and export.
type Config struct {
	// ServiceName identifies this service in exported traces.
	ServiceName string
	// AppEnv tags spans with the deployment environment.
	AppEnv string
	// EnableExport turns on the OTLP HTTP exporter. The exporter endpoint
	// is taken from the standard OTEL_EXPORTER_OTLP_* variables.
	EnableExport bool
}

// NewConfig reads from environment variables.
func NewConfig() Config {
	serviceName := os.Getenv("TRACER_SERVICE_NAME")
	if serviceName == "" {
		serviceName = "rag-backend"
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
	}

	return Config{
		ServiceName:  serviceName,
		AppEnv:       appEnv,
		EnableExport: os.Getenv("TRACER_ENABLE_EXPORT") == "true",
	}
}
