package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/taskgen/internal/config"
	"github.com/vk/taskgen/internal/ctxlog"
	"github.com/vk/taskgen/internal/discovery"
	"github.com/vk/taskgen/internal/emit"
	"github.com/vk/taskgen/internal/generator"
	"github.com/vk/taskgen/internal/stats"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader config.Loader
}

// NewApp is the constructor for the main application. It returns an App
// with its own isolated logger writing to outW.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")
	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		loader: loader,
	}
}

// Run executes one generation run and writes its output.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	env, err := LoadEnv(a.config.EnvFile)
	if err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}
	settings, err := LoadSettings(a.config.SettingsPath)
	if err != nil {
		return err
	}
	if a.config.WorkerCount > 0 {
		settings.Generator.Workers = a.config.WorkerCount
	}
	if a.config.Seed >= 0 {
		settings.Generator.Seed = uint64(a.config.Seed)
	}

	project, err := a.loader.Load(ctx, a.config.ProjectPaths...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.logger.Info("Project loaded.", "tasks", len(project.Tasks), "variants", len(project.Variants))

	backend, err := newStatsBackend(ctx, settings, env)
	if err != nil {
		return fmt.Errorf("failed to create stats backend: %w", err)
	}
	lookup, err := stats.NewLookup(backend, settings.Lookup)
	if err != nil {
		return err
	}

	static := discovery.NewStatic(project, settings.Discovery.Root)
	var tests discovery.TestDiscovery = static
	if cmd := settings.Discovery.Command; len(cmd) > 0 {
		tests = &discovery.Command{Path: cmd[0], Args: cmd[1:], Root: settings.Discovery.Root}
	}

	gen, err := generator.New(project, generator.Deps{Stats: lookup, Tests: tests, BurnIn: static}, settings.Generator)
	if err != nil {
		return err
	}
	emitter, err := emit.NewJSONEmitter(a.config.OutputDir)
	if err != nil {
		return err
	}

	g, err := gen.Run(ctx)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	if err := emitter.Emit(ctx, g); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
