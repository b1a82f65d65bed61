// Package cli wires configuration, stores, the scene file and the controller for the
// workplane command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/workplane"
	"github.com/aretw0/workplane/internal/config"
	"github.com/aretw0/workplane/internal/logging"
	"github.com/aretw0/workplane/internal/scenefile"
	httpAdapter "github.com/aretw0/workplane/pkg/adapters/http"
	"github.com/aretw0/workplane/pkg/adapters/memory"
	"github.com/aretw0/workplane/pkg/domain"
	"github.com/aretw0/workplane/pkg/observability"
	"github.com/aretw0/workplane/pkg/persistence/middleware"
	"github.com/aretw0/workplane/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultScenePath is used when neither the config nor a flag names a scene file.
var DefaultScenePath = filepath.Join(".workplane", "scene.yaml")

// Options are the command-line overrides applied on top of the config file.
type Options struct {
	ConfigPath string
	Document   string
	ScenePath  string
	Backend    string
	Debug      bool
	Fresh      bool
}

// App is a fully wired controller with everything needed to persist and observe it.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Scene      *memory.Scene
	ScenePath  string
	Store      ports.SessionStore
	Controller *workplane.Controller
	Registry   *prometheus.Registry
	Metrics    *observability.Metrics
	Streams    *httpAdapter.StreamManager

	closeStore func() error
}

// LoadConfig reads the config file (workplane.yaml by default) and applies the overrides.
func LoadConfig(opts Options) (*config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if opts.Document != "" {
		cfg.Document = opts.Document
	}
	if opts.ScenePath != "" {
		cfg.Scene = opts.ScenePath
	}
	if opts.Backend != "" {
		cfg.Store.Backend = opts.Backend
	}
	if opts.Debug {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Setup loads the configuration, opens the session store and scene file, and builds the
// controller.
func Setup(ctx context.Context, opts Options) (*App, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.New(level)

	app := &App{
		Config:    cfg,
		Logger:    logger,
		ScenePath: cfg.Scene,
		Registry:  prometheus.NewRegistry(),
	}
	if app.ScenePath == "" {
		app.ScenePath = DefaultScenePath
	}

	app.Scene, err = scenefile.Load(app.ScenePath)
	if err != nil {
		return nil, err
	}

	store, locker, closeStore, err := NewStore(cfg.Store)
	if err != nil {
		return nil, err
	}
	app.Store = middleware.Chain(store,
		middleware.NewLoggingMiddleware(logger),
		middleware.NewMetricsMiddleware(middleware.NewStoreMetrics(app.Registry)),
	)
	app.closeStore = closeStore

	if opts.Fresh {
		if err := app.Store.Delete(ctx, cfg.Document); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			app.Close()
			return nil, fmt.Errorf("failed to reset session: %w", err)
		}
		logger.Info("Session reset", "document", cfg.Document)
	}

	app.Metrics = observability.NewMetrics(app.Registry)
	app.Streams = httpAdapter.NewStreamManager(logger)
	hooks := []domain.LifecycleHooks{app.Metrics.Hooks(), app.Streams.Hooks()}
	if level <= slog.LevelDebug {
		hooks = append(hooks, observability.LogHooks(logger))
	}

	ctrlOpts := []workplane.Option{
		workplane.WithLogger(logger),
		workplane.WithStore(app.Store),
		workplane.WithDocumentID(cfg.Document),
		workplane.WithLifecycleHooks(observability.Combine(hooks...)),
	}
	if locker != nil {
		ctrlOpts = append(ctrlOpts, workplane.WithLocker(locker))
	}
	if cfg.Grid != nil {
		ctrlOpts = append(ctrlOpts, workplane.WithDefaultGrid(*cfg.Grid))
	}
	app.Controller, err = workplane.New(app.Scene, ctrlOpts...)
	if err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// SaveScene writes the scene back to its file.
func (a *App) SaveScene() error {
	if err := scenefile.Save(a.ScenePath, a.Scene); err != nil {
		return err
	}
	a.Logger.Debug("Scene saved", "path", a.ScenePath)
	return nil
}

// Close releases the session store.
func (a *App) Close() error {
	if a.closeStore == nil {
		return nil
	}
	return a.closeStore()
}
