package main

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"video-chat-agent/internal/app"
	"video-chat-agent/internal/config"
	"video-chat-agent/internal/integrations/devtools"
	"video-chat-agent/internal/publisher"
)

const pollInterval = time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	deps, err := app.Init(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()

	page := newTerminalPage(os.Stdout)
	pub, err := publisher.New(page, deps.Slot)
	if err != nil {
		slog.Error("failed to create publisher", "err", err)
		os.Exit(1)
	}

	tabs := devtools.NewClient(cfg.DevToolsURL)
	changes := make(chan struct{}, 1)
	go watchActiveTab(ctx, tabs, page, changes)

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			page.click()
		}
	}()

	if err := pub.Run(ctx, changes); err != nil && ctx.Err() == nil {
		slog.Error("publisher stopped", "err", err)
		os.Exit(1)
	}
}

// watchActiveTab polls the browser and signals a page change whenever the
// focused tab's URL differs from the last one seen.
func watchActiveTab(ctx context.Context, tabs *devtools.Client, page *terminalPage, changes chan<- struct{}) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		url, err := tabs.ActiveTabURL(ctx)
		if err != nil {
			slog.Warn("active tab query failed", "err", err)
		} else if page.navigate(url) {
			select {
			case changes <- struct{}{}:
			default:
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
