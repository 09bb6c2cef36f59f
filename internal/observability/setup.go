package observability

import (
	"context"

	"github.com/honeynil/rotrade/internal/config"
	"github.com/honeynil/rotrade/internal/infrastructure/observability"
)

// Setup wires logging, metrics and tracing from config and returns the
// tracer shutdown function.
func Setup(serviceName string, cfg *config.Config) func(context.Context) error {
	observability.InitLogger(cfg.LogLevel, serviceName)
	observability.InitMetrics(cfg.MetricsAddr)
	return observability.InitTracing(serviceName, cfg.OTLPEndpoint)
}
