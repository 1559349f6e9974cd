package metrics

import "os"

// Config defines the metrics server configuration.
type Config struct {
	// Address is the listen address of the /metrics HTTP server.
	Address string
	// ServiceName is attached to every metric as a constant `service` label.
	ServiceName string
	// EnableDefaultCollectors registers the Go, process and build-info
	// collectors.
	EnableDefaultCollectors bool
}

// NewConfig reads from environment variables.
func NewConfig() Config {
	address := os.Getenv("METRICS_ADDRESS")
	if address == "" {
		address = ":9090"
	}

	serviceName := os.Getenv("METRICS_SERVICE_NAME")
	if serviceName == "" {
		serviceName = "rag-backend"
	}

	return Config{
		Address:                 address,
		ServiceName:             serviceName,
		EnableDefaultCollectors: os.Getenv("METRICS_DISABLE_DEFAULT_COLLECTORS") != "true",
	}
}
