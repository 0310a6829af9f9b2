package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/evanschultz/rota/internal/adapters/dataset"
	serveradapter "github.com/evanschultz/rota/internal/adapters/server"
	"github.com/evanschultz/rota/internal/adapters/storage/sqlite"
	"github.com/evanschultz/rota/internal/app"
	"github.com/evanschultz/rota/internal/config"
	"github.com/evanschultz/rota/internal/platform"
)

// version is stamped at build time.
var version = "dev"

// program is the subset of tea.Program the CLI drives.
type program interface {
	Run() (tea.Model, error)
}

// programFactory builds the TUI program; tests swap it out.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// serveCommandRunner starts the HTTP and MCP server; tests swap it out.
var serveCommandRunner = serveradapter.Run

// main handles main.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run executes one CLI invocation.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	env := newCLIEnv(stdout, stderr)
	root := newRootCommand(env)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return fang.Execute(ctx, root, fang.WithVersion(version))
}

// cliEnv carries global flag values and process IO shared by all commands.
type cliEnv struct {
	stdout     io.Writer
	stderr     io.Writer
	configPath string
	dbPath     string
	appName    string
	devMode    bool
	now        func() time.Time
}

// newCLIEnv applies environment defaults for the global flags.
func newCLIEnv(stdout, stderr io.Writer) *cliEnv {
	env := &cliEnv{
		stdout:  stdout,
		stderr:  stderr,
		appName: platform.DefaultAppName,
		devMode: version == "dev",
		now:     time.Now,
	}
	if envDev, ok := parseBoolEnv("ROTA_DEV_MODE"); ok {
		env.devMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("ROTA_APP_NAME")); envApp != "" {
		env.appName = envApp
	}
	return env
}

// resolved holds paths and configuration after flag and env resolution.
type resolved struct {
	paths      platform.Paths
	configPath string
	defaults   config.Config
	cfg        config.Config
}

// resolve computes runtime paths and loads the TOML config.
func (e *cliEnv) resolve() (resolved, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: e.appName,
		DevMode: e.devMode,
	})
	if err != nil {
		return resolved{}, err
	}

	configPath := strings.TrimSpace(e.configPath)
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("ROTA_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	dbPath := strings.TrimSpace(e.dbPath)
	dbOverridden := dbPath != ""
	if !dbOverridden {
		if envPath := strings.TrimSpace(os.Getenv("ROTA_DB_PATH")); envPath != "" {
			dbPath = envPath
			dbOverridden = true
		} else {
			dbPath = paths.DBPath
		}
	}

	defaults := config.Default(dbPath)
	cfg, err := config.Load(configPath, defaults)
	if err != nil {
		return resolved{}, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbOverridden {
		cfg.Database.Path = dbPath
	}
	return resolved{paths: paths, configPath: configPath, defaults: defaults, cfg: cfg}, nil
}

// session bundles the logger, repository, and service for one command.
type session struct {
	resolved
	logger *runtimeLogger
	repo   *sqlite.Repository
	svc    *app.Service
}

// open resolves config, opens the store, and builds the service.
func (e *cliEnv) open(ctx context.Context, command string, console bool) (*session, error) {
	res, err := e.resolve()
	if err != nil {
		return nil, err
	}
	logger, err := newRuntimeLogger(e.stderr, e.appName, e.devMode, res.cfg.Logging, e.now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	logger.SetConsoleEnabled(console)

	logger.Info("startup configuration resolved", "app", e.appName, "dev_mode", e.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", res.configPath, "data_dir", res.paths.DataDir, "db_path", res.cfg.Database.Path)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	repo, err := sqlite.Open(res.cfg.Database.Path)
	if err != nil {
		logger.Error("sqlite open failed", "db_path", res.cfg.Database.Path, "err", err)
		_ = logger.Close()
		return nil, fmt.Errorf("open sqlite repository: %w", err)
	}
	logger.Debug("sqlite repository ready", "db_path", res.cfg.Database.Path)

	svc := app.NewService(repo, uuid.NewString, e.now, app.ServiceConfig{
		SpecialTasks: res.cfg.Rotation.SpecialTasks,
		Weighted:     res.cfg.Assignment.Weighted,
		Randomize:    res.cfg.Assignment.Randomize,
		ShuffleSeed:  res.cfg.Assignment.ShuffleSeed,
		Logger:       logger,
	})
	rt := &session{resolved: res, logger: logger, repo: repo, svc: svc}
	if res.cfg.Seed.UseDefaults {
		seeded, err := svc.EnsureSeeded(ctx, dataset.Defaults())
		if err != nil {
			rt.close()
			return nil, fmt.Errorf("seed default dataset: %w", err)
		}
		if seeded {
			logger.Info("seeded default dataset", "db_path", res.cfg.Database.Path)
		}
	}
	return rt, nil
}

// close releases the store and log file.
func (r *session) close() {
	if r == nil {
		return
	}
	if err := r.repo.Close(); err != nil {
		r.logger.Warn("sqlite close failed", "db_path", r.cfg.Database.Path, "err", err)
	}
	if err := r.logger.Close(); err != nil && r.logger.ConsoleEnabled() {
		r.logger.Warn("close runtime log sink failed", "err", err)
	}
}

// withRuntime wraps one command body with runtime setup and flow logging.
func (e *cliEnv) withRuntime(command string, console bool, body func(context.Context, *session, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		rt, err := e.open(ctx, command, console)
		if err != nil {
			return err
		}
		defer rt.close()

		rt.logger.Info("command flow start", "command", command)
		if err := body(ctx, rt, args); err != nil {
			rt.logger.Error("command flow failed", "command", command, "err", err)
			return fmt.Errorf("run %s command: %w", command, err)
		}
		rt.logger.Info("command flow complete", "command", command)
		return nil
	}
}

// parseBoolEnv parses input into a normalized form.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
