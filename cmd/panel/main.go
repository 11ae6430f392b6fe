package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"video-chat-agent/internal/app"
	"video-chat-agent/internal/config"
	"video-chat-agent/internal/integrations/backend"
	"video-chat-agent/internal/integrations/devtools"
	"video-chat-agent/internal/usecase"
)

const clearScreen = "\033[H\033[2J"

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

	backendClient := backend.NewClient(backend.WithBaseURL(deps.BackendURL))
	tabs := devtools.NewClient(cfg.DevToolsURL)

	var outMu sync.Mutex
	render := func(v usecase.ViewState) {
		outMu.Lock()
		defer outMu.Unlock()
		fmt.Fprint(os.Stdout, clearScreen+usecase.Render(v, cfg.PanelHeight)+"> ")
	}

	d, err := usecase.NewDispatcher(deps.Slot, tabs, backendClient, usecase.WithOnChange(render))
	if err != nil {
		slog.Error("failed to create panel", "err", err)
		os.Exit(1)
	}
	render(d.Snapshot())

	var wg sync.WaitGroup
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for done := false; !done; {
		select {
		case <-ctx.Done():
			done = true
		case line, ok := <-lines:
			if !ok {
				done = true
				break
			}
			d.SetInput(line)
			question, err := d.Accept()
			if err != nil {
				continue
			}
			// Each question runs on its own; a slow answer does not block typing.
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = d.Dispatch(ctx, question)
			}()
		}
	}
	wg.Wait()
}
