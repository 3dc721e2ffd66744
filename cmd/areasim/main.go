package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/areasim/internal/ai"
	"github.com/udisondev/areasim/internal/areaview"
	"github.com/udisondev/areasim/internal/blueprint"
	"github.com/udisondev/areasim/internal/config"
	"github.com/udisondev/areasim/internal/data"
	"github.com/udisondev/areasim/internal/db"
	"github.com/udisondev/areasim/internal/game"
	"github.com/udisondev/areasim/internal/model"
	"github.com/udisondev/areasim/internal/script"
)

const ConfigPath = "config/areasim.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, cancel); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cancel context.CancelFunc) error {
	cfgPath := ConfigPath
	if p := os.Getenv("AREASIM_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadEngine(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logOut, closeLog, err := logOutput(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	logLevel := parseLogLevel(cfg.LogLevel)
	handler := slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
	ai.SyncDebugLogging(handler)

	slog.Info("areasim starting", "config", cfgPath, "log_level", cfg.LogLevel)

	tables, err := loadTables(cfg.TablesPath)
	if err != nil {
		return err
	}

	blueprints, closeDB, err := openBlueprints(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	module := game.NewModule(cfg, game.Services{
		Tables:     tables,
		Blueprints: blueprints,
		Scripts:    script.LogRunner{},
		Conversation: func(speaker *model.Creature, target model.Object, dialog string) {
			slog.Info("conversation",
				"speaker", speaker.ObjectID(),
				"target", target.ObjectID(),
				"dialog", dialog)
		},
	})
	if err := module.LoadArea(ctx, cfg.AreaPath); err != nil {
		return fmt.Errorf("loading area: %w", err)
	}

	loop := game.NewLoop(module, cfg.FrameInterval())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := loop.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("frame loop: %w", err)
		}
		return nil
	})

	if cfg.Viewer {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("creating screen: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("initializing screen: %w", err)
		}
		defer screen.Fini()

		viewer := areaview.New(screen, module)
		loop.SetOnFrame(viewer.Invalidate)
		g.Go(func() error {
			// Quitting the viewer ends the program.
			defer cancel()
			if err := viewer.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("viewer: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("runtime error: %w", err)
	}
	slog.Info("areasim stopped", "frames", loop.Frames())
	return nil
}

// logOutput picks the log destination. Logs would garble the terminal
// viewer, so they are discarded there unless a file is configured.
func logOutput(cfg config.Engine) (io.Writer, func(), error) {
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		return f, func() { f.Close() }, nil
	}
	if cfg.Viewer {
		return io.Discard, func() {}, nil
	}
	return os.Stdout, func() {}, nil
}

func loadTables(path string) (*data.Tables, error) {
	if path == "" {
		tables, err := data.DefaultTables()
		if err != nil {
			return nil, fmt.Errorf("loading built-in tables: %w", err)
		}
		return tables, nil
	}
	tables, err := data.LoadTables(path)
	if err != nil {
		return nil, fmt.Errorf("loading tables: %w", err)
	}
	return tables, nil
}

// openBlueprints loads the YAML blueprints. With the database enabled they
// seed the blueprints table, which then serves lookups.
func openBlueprints(ctx context.Context, cfg config.Engine) (blueprint.Repository, func(), error) {
	mem, err := blueprint.LoadFile(cfg.BlueprintsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading blueprints: %w", err)
	}
	slog.Info("blueprints loaded", "path", cfg.BlueprintsPath, "count", mem.Len())

	if !cfg.Database.Enabled {
		return mem, func() {}, nil
	}

	dsn := cfg.Database.DSN()
	if err := db.RunMigrations(ctx, dsn); err != nil {
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}
	database, err := db.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	repo := database.Blueprints()
	if err := repo.SaveAll(ctx, mem.All()); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("seeding blueprints: %w", err)
	}
	count, err := repo.Count(ctx)
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("counting blueprints: %w", err)
	}
	slog.Info("blueprints stored in database", "count", count)
	return repo, database.Close, nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
