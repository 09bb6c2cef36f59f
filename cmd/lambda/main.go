package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/honeynil/rotrade/internal/api"
	"github.com/honeynil/rotrade/internal/app"
	"github.com/honeynil/rotrade/internal/config"
	"github.com/honeynil/rotrade/internal/observability"
)

const serviceName = "rotrade-lambda"

func main() {
	cfg := config.FromEnv()
	// Schema changes are applied by the server deployment, never by cold starts.
	cfg.MigrateOnStart = false

	shutdownTracing := observability.Setup(serviceName, cfg)
	defer shutdownTracing(context.Background())

	// A function instance has no lifetime to run a consumer in, so events
	// are off.
	application, err := app.New(context.Background(), cfg, app.Options{DisableEvents: true})
	if err != nil {
		slog.Error("failed to start application", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	lambda.Start(api.GatewayHandler(application.Router))
}
