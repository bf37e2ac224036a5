// Package wire provides dependency injection for TabbySpaces.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"

	cliadapter "github.com/example/tabbyspaces/internal/adapters/cli"
	"github.com/example/tabbyspaces/internal/adapters/filesystem"
	"github.com/example/tabbyspaces/internal/adapters/mcp"
	"github.com/example/tabbyspaces/internal/adapters/sqlite"
	"github.com/example/tabbyspaces/internal/adapters/tabby"
	tmuxadapter "github.com/example/tabbyspaces/internal/adapters/tmux"
	"github.com/example/tabbyspaces/internal/app"
	"github.com/example/tabbyspaces/internal/config"
	"github.com/example/tabbyspaces/internal/db"
	"github.com/example/tabbyspaces/internal/logging"
	"github.com/example/tabbyspaces/internal/models"
	"github.com/example/tabbyspaces/internal/ports/primary"
)

var (
	cfg        *config.Config
	logger     *slog.Logger
	verbose    bool
	store      *tabby.ConfigStore
	dispatcher *app.StartupDispatcher

	workspaceService *app.WorkspaceServiceImpl
	profileService   *app.ProfileServiceImpl
	logService       *app.LogServiceImpl
	launchService    *app.LaunchServiceImpl
	launchErr        error

	once       sync.Once
	launchOnce sync.Once
)

// SetVerbose forces debug logging. It must be called before any service
// is first used.
func SetVerbose(v bool) {
	verbose = v
}

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the shared structured logger.
func Logger() *slog.Logger {
	once.Do(initServices)
	return logger
}

// WorkspaceService returns the singleton WorkspaceService instance.
func WorkspaceService() primary.WorkspaceService {
	once.Do(initServices)
	return workspaceService
}

// ProfileService returns the singleton ProfileService instance.
func ProfileService() primary.ProfileService {
	once.Do(initServices)
	return profileService
}

// LogService returns the singleton LogService instance.
func LogService() primary.LogService {
	once.Do(initServices)
	return logService
}

// LaunchService returns the singleton LaunchService instance. It is built
// separately because it needs a tmux binary, which editing does not.
func LaunchService() (primary.LaunchService, error) {
	once.Do(initServices)
	launchOnce.Do(initLaunch)
	if launchErr != nil {
		return nil, launchErr
	}
	return launchService, nil
}

// WatchProfiles keeps the profile catalog fresh until ctx is done.
// Long-running commands call it; one-shot commands read the file once.
func WatchProfiles(ctx context.Context) {
	once.Do(initServices)
	if err := store.Watch(ctx); err != nil {
		logger.Warn("profile watcher unavailable", "error", err)
	}
}

// Shutdown drops pending startup commands and stops the config watcher.
func Shutdown() {
	if dispatcher != nil {
		dispatcher.Close()
	}
	if store != nil {
		_ = store.Close()
	}
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	loaded, err := config.LoadConfig(config.ConfigDir())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg = loaded

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger = logging.New(level, os.Stderr)

	db.SetPath(cfg.DatabasePath)
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Secondary adapters
	workspaceRepo := sqlite.NewWorkspaceRepository(database)
	eventRepo := sqlite.NewEventRepository(database)
	logWriter := sqlite.NewHistoryWriter(eventRepo)
	store = tabby.NewConfigStore(cfg.TabbyConfigPath, logger.With("component", "tabby"))
	codec := filesystem.NewWorkspaceCodec()
	dispatcher = app.NewStartupDispatcher()

	// Primary services
	profileService = app.NewProfileService(workspaceRepo, store, store, logger)

	var syncer app.WorkspaceSyncer
	if cfg.ShouldSync() {
		syncer = profileService
	}
	workspaceService = app.NewWorkspaceService(workspaceRepo, store, codec, logWriter, syncer, logger, app.WorkspaceDefaults{
		Orientation: models.Orientation(cfg.DefaultOrientation),
		ResizeStep:  cfg.ResizeStep,
	})
	logService = app.NewLogService(eventRepo)
}

func initLaunch() {
	tmux, err := tmuxadapter.NewAdapter(logger.With("component", "tmux"))
	if err != nil {
		launchErr = err
		return
	}
	database, err := db.GetDB()
	if err != nil {
		launchErr = err
		return
	}
	executor := app.NewEffectExecutor(tmux, logger)
	launchService = app.NewLaunchService(
		sqlite.NewWorkspaceRepository(database),
		store,
		tmux,
		executor,
		dispatcher,
		cfg.TmuxSessionPrefix,
		logger,
	)
}

// MCPServer builds the MCP tool server over the shared services. Without
// tmux the editing tools still work and launch_workspace reports why not.
func MCPServer() *mcp.Server {
	launcher, err := LaunchService()
	if err != nil {
		logger.Warn("launching disabled", "error", err)
	}
	return mcp.NewServer(mcp.Services{
		Workspaces: workspaceService,
		Profiles:   profileService,
		Launcher:   launcher,
		LaunchErr:  err,
	}, logger.With("component", "mcp"))
}

// WorkspaceAdapter returns a new WorkspaceAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func WorkspaceAdapter() *cliadapter.WorkspaceAdapter {
	return WorkspaceAdapterWithOutput(os.Stdout)
}

// WorkspaceAdapterWithOutput returns a new WorkspaceAdapter writing to the given output.
func WorkspaceAdapterWithOutput(out io.Writer) *cliadapter.WorkspaceAdapter {
	once.Do(initServices)
	return cliadapter.NewWorkspaceAdapter(workspaceService, profileService, out)
}

// ProfileAdapter returns a new ProfileAdapter writing to stdout.
func ProfileAdapter() *cliadapter.ProfileAdapter {
	once.Do(initServices)
	return cliadapter.NewProfileAdapter(profileService, os.Stdout)
}
