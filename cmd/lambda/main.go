package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"video-chat-agent/handler"
	"video-chat-agent/internal/app"
	"video-chat-agent/internal/config"
	"video-chat-agent/internal/integrations/backend"
	"video-chat-agent/internal/publisher"
	"video-chat-agent/internal/usecase"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if cfg.Slot.Driver != config.DriverDynamoDB {
		slog.Error("lambda requires the dynamodb slot driver", "driver", cfg.Slot.Driver)
		os.Exit(1)
	}

	// ---- Clients ----
	deps, err := app.Init(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize dependencies", "err", err)
		os.Exit(1)
	}
	backendClient := backend.NewClient(backend.WithBaseURL(deps.BackendURL))

	// ---- Handler ----
	asker, err := usecase.NewOneShot(deps.Slot, backendClient, slog.Default())
	if err != nil {
		slog.Error("failed to create panel", "err", err)
		os.Exit(1)
	}
	pub, err := publisher.NewURLPublisher(deps.Slot, slog.Default())
	if err != nil {
		slog.Error("failed to create publisher", "err", err)
		os.Exit(1)
	}
	h, err := handler.NewHandler(asker, pub)
	if err != nil {
		slog.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}
