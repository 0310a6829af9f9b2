package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evanschultz/rota/internal/adapters/dataset"
	"github.com/evanschultz/rota/internal/adapters/export"
	serveradapter "github.com/evanschultz/rota/internal/adapters/server"
	servercommon "github.com/evanschultz/rota/internal/adapters/server/common"
	"github.com/evanschultz/rota/internal/app"
	"github.com/evanschultz/rota/internal/config"
	"github.com/evanschultz/rota/internal/domain"
	"github.com/evanschultz/rota/internal/report"
	"github.com/evanschultz/rota/internal/tui"
)

// formatTable renders plans as terminal tables.
const formatTable = "table"

// newRootCommand builds the command tree. The bare command opens the planner TUI.
func newRootCommand(env *cliEnv) *cobra.Command {
	var (
		startDay   string
		autoAssign bool
	)
	root := &cobra.Command{
		Use:   "rota",
		Short: "Weekly special-duty rotation and daily workload assignment",
		Long: `rota splits a catalog of work items across the workers available on a day.

Special duties rotate across the team during the week; everything else goes to
the least-loaded worker. Run without arguments to open the interactive planner.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.RunE = env.withRuntime("tui", false, func(_ context.Context, rt *session, _ []string) error {
		day := domain.DayOf(env.now())
		if strings.TrimSpace(startDay) != "" {
			parsed, err := domain.ParseDay(startDay)
			if err != nil {
				return err
			}
			day = parsed
		}
		m := tui.NewModel(rt.svc, tui.WithDay(day), tui.WithAutoAssign(autoAssign))
		rt.logger.Info("starting tui program loop", "day", day)
		if _, err := programFactory(m).Run(); err != nil {
			return fmt.Errorf("run tui program: %w", err)
		}
		return nil
	})
	root.Flags().StringVar(&startDay, "day", "", "day selected at launch (default: today)")
	root.Flags().BoolVar(&autoAssign, "assign", false, "assign the launch day immediately")

	flags := root.PersistentFlags()
	flags.StringVar(&env.configPath, "config", "", "path to config TOML (env ROTA_CONFIG)")
	flags.StringVar(&env.dbPath, "db", "", "path to sqlite database (env ROTA_DB_PATH)")
	flags.StringVar(&env.appName, "app", env.appName, "application name for config/data path resolution")
	flags.BoolVar(&env.devMode, "dev", env.devMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(
		newAssignCommand(env),
		newExportPlanCommand(env),
		newAvailabilityCommand(env),
		newImportCommand(env),
		newWorkerCommand(env),
		newServeCommand(env),
		newPolicyCommand(env),
		newPathsCommand(env),
		newInitConfigCommand(env),
	)
	return root
}

// assignOptions holds the shared day-selection and ordering flags.
type assignOptions struct {
	day       string
	days      string
	week      bool
	weighted  bool
	randomize bool
}

// bind registers the assignment flags on cmd.
func (o *assignOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.day, "day", "", "day to assign (default: today)")
	cmd.Flags().StringVar(&o.days, "days", "", "comma-separated days assigned in order, sharing one rotation week")
	cmd.Flags().BoolVar(&o.week, "week", false, "assign every day Monday through Sunday")
	cmd.Flags().BoolVar(&o.weighted, "weighted", true, "hand out the heaviest items first")
	cmd.Flags().BoolVar(&o.randomize, "randomize", false, "shuffle items before distribution")
}

// selectedDays resolves the day flags; weekly runs are ordered Monday first.
func (o assignOptions) selectedDays(today domain.Day) ([]domain.Day, error) {
	switch {
	case o.week:
		return domain.Week(), nil
	case strings.TrimSpace(o.days) != "":
		return parseDayList(o.days)
	case strings.TrimSpace(o.day) != "":
		day, err := domain.ParseDay(o.day)
		if err != nil {
			return nil, err
		}
		return []domain.Day{day}, nil
	default:
		return []domain.Day{today}, nil
	}
}

// assignDays runs the selected days through one service, skipping days with
// nothing to assign.
func assignDays(ctx context.Context, cmd *cobra.Command, rt *session, opts assignOptions, today domain.Day) ([]domain.AssignmentPlan, error) {
	days, err := opts.selectedDays(today)
	if err != nil {
		return nil, err
	}
	weighted, randomize := rt.cfg.Assignment.Weighted, rt.cfg.Assignment.Randomize
	if cmd.Flags().Changed("weighted") {
		weighted = opts.weighted
	}
	if cmd.Flags().Changed("randomize") {
		randomize = opts.randomize
	}

	plans := make([]domain.AssignmentPlan, 0, len(days))
	for _, day := range days {
		plan, err := rt.svc.AssignDay(ctx, app.AssignInput{Day: day, Weighted: weighted, Randomize: randomize})
		switch {
		case errors.Is(err, app.ErrNoAvailableWorkers):
			rt.logger.Warn("day skipped", "day", day, "reason", err)
			continue
		case err != nil:
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// newAssignCommand prints plans as tables, JSON, or CSV.
func newAssignCommand(env *cliEnv) *cobra.Command {
	var (
		opts   assignOptions
		format string
	)
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign work items and special duties for one or more days",
		Args:  cobra.NoArgs,
	}
	opts.bind(cmd)
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table, json, or csv")
	cmd.RunE = env.withRuntime("assign", true, func(ctx context.Context, rt *session, _ []string) error {
		var exportFormat export.Format
		if format != formatTable {
			parsed, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			exportFormat = parsed
		}
		plans, err := assignDays(ctx, cmd, rt, opts, domain.DayOf(env.now()))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if exportFormat != "" {
			return export.Write(out, exportFormat, plans...)
		}
		if len(plans) == 0 {
			_, _ = fmt.Fprintln(out, "No workers available on the selected days.")
			return nil
		}
		for idx, plan := range plans {
			if idx > 0 {
				_, _ = fmt.Fprintln(out)
			}
			_, _ = fmt.Fprintln(out, report.Day(plan, historyThrough(rt.svc.History(), plan.Day)))
		}
		return nil
	})
	return cmd
}

// historyThrough keeps records up to and including day.
func historyThrough(records []domain.RotationRecord, day domain.Day) []domain.RotationRecord {
	out := make([]domain.RotationRecord, 0, len(records))
	for _, rec := range records {
		if rec.Day <= day {
			out = append(out, rec)
		}
	}
	return out
}

// newExportPlanCommand writes one file per assigned day.
func newExportPlanCommand(env *cliEnv) *cobra.Command {
	var (
		opts   assignOptions
		format string
		dir    string
	)
	cmd := &cobra.Command{
		Use:   "export-plan",
		Short: "Assign days and write each plan to assignments_<day>.<format>",
		Args:  cobra.NoArgs,
	}
	opts.bind(cmd)
	cmd.Flags().StringVar(&format, "format", string(export.FormatCSV), "file format: csv or json")
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (default: data dir exports/)")
	cmd.RunE = env.withRuntime("export-plan", true, func(ctx context.Context, rt *session, _ []string) error {
		exportFormat, err := export.ParseFormat(format)
		if err != nil {
			return err
		}
		outDir := strings.TrimSpace(dir)
		if outDir == "" {
			outDir = rt.paths.ExportDir
		}
		plans, err := assignDays(ctx, cmd, rt, opts, domain.DayOf(env.now()))
		if err != nil {
			return err
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
		for _, plan := range plans {
			path := filepath.Join(outDir, export.FileName(plan.Day, exportFormat))
			if err := writePlanFile(path, exportFormat, plan); err != nil {
				return err
			}
			rt.logger.Info("plan exported", "day", plan.Day, "path", path)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		return nil
	})
	return cmd
}

// writePlanFile encodes one plan to path.
func writePlanFile(path string, format export.Format, plan domain.AssignmentPlan) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close export file: %w", closeErr)
		}
	}()
	if err := export.Write(f, format, plan); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

// newAvailabilityCommand prints the weekly availability matrix.
func newAvailabilityCommand(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Show every worker's availability for the week",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = env.withRuntime("availability", true, func(ctx context.Context, rt *session, _ []string) error {
		rows, err := rt.svc.AvailabilityMatrix(ctx)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), report.AvailabilityTable(rows))
		return nil
	})
	return cmd
}

// newImportCommand replaces the stored dataset from a CSV directory or YAML file.
func newImportCommand(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <dir|file.yaml>",
		Short: "Replace workers, availability, and the catalog from CSV or YAML",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = env.withRuntime("import", true, func(ctx context.Context, rt *session, args []string) error {
		path := args[0]
		ds, err := dataset.Load(path)
		if err != nil {
			return fmt.Errorf("load dataset %q: %w", path, err)
		}
		if err := rt.svc.ImportDataset(ctx, ds); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d workers, %d availability entries, %d work items\n",
			len(ds.Workers), len(ds.Availability), len(ds.Items))
		return nil
	})
	return cmd
}

// newWorkerCommand groups roster maintenance commands.
func newWorkerCommand(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Manage workers",
	}
	setActive := &cobra.Command{
		Use:   "set-active <id> <true|false>",
		Short: "Mark a worker as eligible or ineligible for assignment",
		Args:  cobra.ExactArgs(2),
	}
	var (
		workerID int
		active   bool
	)
	setActive.PreRunE = func(_ *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("parse worker id %q: %w", args[0], err)
		}
		flag, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("parse active flag %q: %w", args[1], err)
		}
		workerID, active = id, flag
		return nil
	}
	setActive.RunE = env.withRuntime("worker set-active", true, func(ctx context.Context, rt *session, _ []string) error {
		if err := rt.svc.SetWorkerActive(ctx, workerID, active); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(setActive.OutOrStdout(), "worker %d active=%t\n", workerID, active)
		return nil
	})
	cmd.AddCommand(setActive)
	return cmd
}

// newServeCommand exposes the service over HTTP and MCP until interrupted.
func newServeCommand(env *cliEnv) *cobra.Command {
	var (
		httpBind    string
		apiEndpoint string
		mcpEndpoint string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API and MCP tools",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&httpBind, "http", "", "HTTP listen address (default: server.http_bind)")
	cmd.Flags().StringVar(&apiEndpoint, "api-endpoint", "", "HTTP API base endpoint (default: server.api_endpoint)")
	cmd.Flags().StringVar(&mcpEndpoint, "mcp-endpoint", "", "MCP streamable HTTP endpoint (default: server.mcp_endpoint)")
	cmd.RunE = env.withRuntime("serve", true, func(ctx context.Context, rt *session, _ []string) error {
		cfg := serveradapter.Config{
			HTTPBind:      firstNonEmpty(httpBind, rt.cfg.Server.HTTPBind),
			APIEndpoint:   firstNonEmpty(apiEndpoint, rt.cfg.Server.APIEndpoint),
			MCPEndpoint:   firstNonEmpty(mcpEndpoint, rt.cfg.Server.MCPEndpoint),
			ServerName:    env.appName,
			ServerVersion: version,
		}
		rt.logger.Info("serving", "http", cfg.HTTPBind, "api", cfg.APIEndpoint, "mcp", cfg.MCPEndpoint)
		return serveCommandRunner(ctx, cfg, serveradapter.Dependencies{
			Rotation: servercommon.NewAppServiceAdapter(rt.svc),
			Logger:   rt.logger,
		})
	})
	return cmd
}

// newPolicyCommand renders the rotation rules for the configured duties.
func newPolicyCommand(env *cliEnv) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Explain how special duties rotate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := env.resolve()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), report.RenderPolicy(res.cfg.Rotation.SpecialTasks, width))
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "wrap width")
	return cmd
}

// newPathsCommand prints resolved config and data locations.
func newPathsCommand(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config, database, and export paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := env.resolve()
			if err != nil {
				return err
			}
			writePaths(cmd.OutOrStdout(), env, res)
			return nil
		},
	}
}

// writePaths prints one key per line.
func writePaths(out io.Writer, env *cliEnv, res resolved) {
	_, _ = fmt.Fprintf(out, "app: %s\n", env.appName)
	_, _ = fmt.Fprintf(out, "dev_mode: %t\n", env.devMode)
	_, _ = fmt.Fprintf(out, "config: %s\n", res.configPath)
	_, _ = fmt.Fprintf(out, "data_dir: %s\n", res.paths.DataDir)
	_, _ = fmt.Fprintf(out, "db: %s\n", res.cfg.Database.Path)
	_, _ = fmt.Fprintf(out, "exports: %s\n", res.paths.ExportDir)
}

// newInitConfigCommand writes the default config file if none exists.
func newInitConfigCommand(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := env.resolve()
			if err != nil {
				return err
			}
			written, err := config.WriteDefault(res.configPath, res.defaults)
			if err != nil {
				return err
			}
			if !written {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "config already exists: %s\n", res.configPath)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", res.configPath)
			return nil
		},
	}
}

// parseDayList parses comma-separated day names, rejecting repeats.
func parseDayList(raw string) ([]domain.Day, error) {
	seen := map[domain.Day]struct{}{}
	out := make([]domain.Day, 0, 7)
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		day, err := domain.ParseDay(part)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[day]; ok {
			return nil, fmt.Errorf("day %s listed twice", day.Title())
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no days in %q", raw)
	}
	return out, nil
}

// firstNonEmpty returns the first non-blank value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
