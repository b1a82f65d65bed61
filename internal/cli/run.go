package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aretw0/workplane"
	"github.com/aretw0/workplane/internal/presentation/tui"
	httpAdapter "github.com/aretw0/workplane/pkg/adapters/http"
	mcpAdapter "github.com/aretw0/workplane/pkg/adapters/mcp"
	"github.com/aretw0/workplane/pkg/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ShutdownTimeout bounds how long outstanding HTTP requests may take after a stop signal.
const ShutdownTimeout = 5 * time.Second

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// printSystemMessage prints a message with a distinctive prefix so it stands out from panel output.
func printSystemMessage(w io.Writer, format string, a ...any) {
	fmt.Fprintf(w, ">>> "+format+"\n", a...)
}

// REPL runs the interactive loop, or the line-oriented headless loop, against the app.
// The scene file is saved when the loop ends, even on error.
func REPL(ctx context.Context, app *App, in io.Reader, out io.Writer, headless bool) (err error) {
	defer func() {
		if saveErr := app.SaveScene(); saveErr != nil && err == nil {
			err = saveErr
		}
	}()

	runner := workplane.NewRunner()
	runner.Input = in
	runner.Output = out
	runner.Headless = headless

	if !headless {
		tui.PrintBanner(out, workplane.Version)
		render, rerr := tui.NewPanelRenderer()
		if rerr != nil {
			return fmt.Errorf("failed to create renderer: %w", rerr)
		}
		runner.Renderer = render

		if err := app.Controller.Setup(ctx); err != nil {
			return err
		}
		panel, perr := app.Controller.Panel(ctx)
		if perr == nil {
			if text, rerr := render(panel); rerr == nil {
				fmt.Fprintln(out, text)
			}
		}
	}

	err = runner.Run(ctx, app.Controller)
	if errors.Is(err, context.Canceled) {
		if !headless {
			printSystemMessage(out, "Interrupted")
		}
		return nil
	}
	return err
}

// Exec dispatches a single command, prints the resulting panel as JSON and saves the scene.
func Exec(ctx context.Context, app *App, cmd domain.Command, out io.Writer) error {
	panel, err := app.Controller.Dispatch(ctx, cmd)
	if saveErr := app.SaveScene(); saveErr != nil && err == nil {
		err = saveErr
	}
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(panel)
}

// Serve exposes the controller over HTTP until ctx is cancelled, then shuts down gracefully
// and saves the scene.
func Serve(ctx context.Context, app *App, addr string) error {
	if addr == "" {
		addr = app.Config.HTTP.Addr
	}
	handler := httpAdapter.NewHandler(app.Controller,
		httpAdapter.WithLogger(app.Logger),
		httpAdapter.WithStreams(app.Streams),
		httpAdapter.WithMetrics(promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{})),
	)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("Workplane server listening", "address", addr, "document", app.Config.Document)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return app.SaveScene()
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		app.Logger.Info("Shutdown signal received, stopping server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Error("Graceful shutdown did not complete", "timeout", ShutdownTimeout, "err", err)
			if cerr := srv.Close(); cerr != nil {
				return fmt.Errorf("could not stop server: %w", cerr)
			}
		}
		return app.SaveScene()
	}
}

// ServeMCP exposes the command catalog as MCP tools over stdio or SSE.
func ServeMCP(ctx context.Context, app *App, transport string, port int) error {
	srv := mcpAdapter.NewServer(app.Controller, mcpAdapter.WithLogger(app.Logger))
	defer func() {
		if err := app.SaveScene(); err != nil {
			app.Logger.Error("Failed to save scene", "err", err)
		}
	}()

	switch transport {
	case TransportStdio, "":
		return srv.ServeStdio()
	case TransportSSE:
		return srv.ServeSSE(ctx, port)
	}
	return fmt.Errorf("unknown transport %q (use %s or %s)", transport, TransportStdio, TransportSSE)
}
