package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"todolist/internal/api"
	"todolist/internal/config"
	"todolist/internal/logging"
	"todolist/internal/repository"
	"todolist/internal/services"
	"todolist/internal/sweep"
	"todolist/internal/validation"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd    *cobra.Command
	loader *config.Loader
	config *config.Config
	store  repository.Store
	api    api.API
	app    *App
	logger *log.Logger

	ownsStore bool
	out       io.Writer
	logOut    io.Writer
	now       func() time.Time
}

// RootOption customises a RootCommand
type RootOption func(*RootCommand)

// WithStore makes every command use store instead of the configured driver.
// The caller keeps ownership and must close it.
func WithStore(store repository.Store) RootOption {
	return func(r *RootCommand) { r.store = store }
}

// WithOutput redirects command output, stdout by default
func WithOutput(out io.Writer) RootOption {
	return func(r *RootCommand) { r.out = out }
}

// WithLogOutput redirects log output, stderr by default
func WithLogOutput(w io.Writer) RootOption {
	return func(r *RootCommand) { r.logOut = w }
}

// WithClock replaces time.Now for deadlines, timestamps and the sweep
func WithClock(now func() time.Time) RootOption {
	return func(r *RootCommand) { r.now = now }
}

// WithLoader replaces the default configuration loader
func WithLoader(loader *config.Loader) RootOption {
	return func(r *RootCommand) { r.loader = loader }
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(opts ...RootOption) *RootCommand {
	root := &RootCommand{
		out:    os.Stdout,
		logOut: os.Stderr,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(root)
	}

	root.cmd = &cobra.Command{
		Use:   "todolist",
		Short: "Manage projects and their tasks",
		Long: `todolist keeps projects and their tasks, tracks task status and
closes overdue tasks automatically.

EXAMPLES:
  todolist project create "Alpha" "First project"
  todolist task create 1 "Write docs" "README and guides" --deadline 2d
  todolist task status 3 doing
  todolist task overdue
  todolist sweep --dry-run
  todolist serve --addr :8080

CONFIGURATION:
  Configuration follows this priority order:
  command-line flags > environment variables > .env file > config file > defaults

  Database Configuration:
    TODO_DB_DRIVER                         memory, sqlite or postgres (default: sqlite)
    TODO_DB_DIR                            Database directory (default: ~/.todolist)
    TODO_DB_FILENAME                       Database filename (default: todolist.db)
    DATABASE_URL                           Postgres connection string
    TODO_DB_QUERY_TIMEOUT                  Query timeout (default: 10s)
    TODO_DB_WRITE_TIMEOUT                  Write timeout (default: 5s)

  Limits:
    MAX_NUMBER_OF_PROJECTS                 Maximum number of projects (default: 10)
    MAX_NUMBER_OF_TASKS                    Maximum tasks per project (default: 100)

  Sweep and Server:
    TODO_SWEEP_INTERVAL                    Scheduler interval (default: 15m)
    TODO_SWEEP_DRY_RUN                     Report without closing (default: false)
    TODO_HTTP_ADDR                         HTTP listen address (default: :8080)
    TODO_HTTP_CORS_ORIGINS                 Comma separated origins (default: *)

  Logging and Application:
    TODO_LOG_LEVEL                         Log level (default: info)
    TODO_LOG_FORMAT                        text or json (default: text)
    TODO_DEBUG                             Enable debug logging
    TODO_APP_TIMEOUT                       Per command timeout (default: 60s)
    TODO_CONFIG_FILE                       YAML config file`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup(cmd.Context())
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command and releases the store it opened. System
// failures are logged with their details since the returned message hides
// them.
func (r *RootCommand) Execute() error {
	defer r.close()
	err := r.cmd.Execute()
	if eh := NewErrorHandler(); eh.IsSystemError(err) {
		logger := r.logger
		if logger == nil {
			logger = log.StandardLogger()
		}
		logger.WithFields(eh.LogFields(err)).WithError(errors.Unwrap(err)).Error("command failed")
	}
	return err
}

// ExecuteArgs runs the root command with args instead of os.Args
func (r *RootCommand) ExecuteArgs(args []string) error {
	r.cmd.SetArgs(args)
	return r.Execute()
}

// Command exposes the cobra command, for completion generation
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "YAML config file (overrides TODO_CONFIG_FILE)")

	// Database configuration
	flags.String("db-driver", "", "Storage driver: memory, sqlite or postgres (overrides TODO_DB_DRIVER)")
	flags.String("db-dir", "", "Database directory (overrides TODO_DB_DIR)")
	flags.String("db-filename", "", "Database filename (overrides TODO_DB_FILENAME)")
	flags.String("db-url", "", "Postgres connection string (overrides DATABASE_URL)")
	flags.Duration("db-query-timeout", 0, "Database query timeout (overrides TODO_DB_QUERY_TIMEOUT)")
	flags.Duration("db-write-timeout", 0, "Database write timeout (overrides TODO_DB_WRITE_TIMEOUT)")

	// Limits
	flags.Int("max-projects", 0, "Maximum number of projects (overrides MAX_NUMBER_OF_PROJECTS)")
	flags.Int("max-tasks", 0, "Maximum tasks per project (overrides MAX_NUMBER_OF_TASKS)")

	// Logging and application configuration
	flags.String("log-level", "", "Log level (overrides TODO_LOG_LEVEL)")
	flags.String("log-format", "", "Log format, text or json (overrides TODO_LOG_FORMAT)")
	flags.Bool("debug", false, "Enable debug logging (overrides TODO_DEBUG)")
	flags.Duration("app-timeout", 0, "Per command timeout (overrides TODO_APP_TIMEOUT)")
}

// overridesFromFlags collects the global flags the user actually set
func (r *RootCommand) overridesFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{}

	stringFlag := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	durationFlag := func(name string) *time.Duration {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetDuration(name)
		return &v
	}
	intFlag := func(name string) *int {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetInt(name)
		return &v
	}

	overrides.DBDriver = stringFlag("db-driver")
	overrides.DBDir = stringFlag("db-dir")
	overrides.DBFilename = stringFlag("db-filename")
	overrides.DBURL = stringFlag("db-url")
	overrides.DBQueryTimeout = durationFlag("db-query-timeout")
	overrides.DBWriteTimeout = durationFlag("db-write-timeout")
	overrides.MaxProjects = intFlag("max-projects")
	overrides.MaxTasksPerProject = intFlag("max-tasks")
	overrides.LogLevel = stringFlag("log-level")
	overrides.LogFormat = stringFlag("log-format")
	overrides.Timeout = durationFlag("app-timeout")
	if flags.Changed("debug") {
		debug, _ := flags.GetBool("debug")
		overrides.Debug = &debug
	}
	return overrides
}

// setup loads the configuration and wires logger, store and API
func (r *RootCommand) setup(ctx context.Context) error {
	loader := r.loader
	if loader == nil {
		var loaderOpts []config.LoaderOption
		if path, _ := r.cmd.PersistentFlags().GetString("config"); path != "" {
			loaderOpts = append(loaderOpts, config.WithConfigFile(path))
		}
		loader = config.NewLoader(loaderOpts...)
	}

	cfg, err := loader.LoadWithOverrides(r.overridesFromFlags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	r.config = cfg

	logger, err := logging.New(logging.Settings{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Debug:  cfg.Logging.Debug,
		Output: r.logOut,
	})
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	r.logger = logger

	if r.store == nil {
		store, err := config.CreateStore(ctx, cfg)
		if err != nil {
			return err
		}
		r.store = store
		r.ownsStore = true
	}

	r.api = api.NewFromStore(r.store, cfg, services.WithClock(r.now), services.WithLogger(logger))
	r.app = NewApp(r.api, cfg, r.out, r.now)
	logging.Debugf("using %s storage", cfg.Database.Driver)
	return nil
}

func (r *RootCommand) close() {
	if r.ownsStore && r.store != nil {
		if err := r.store.Close(); err != nil {
			logging.Debugf("failed to close store: %v", err)
		}
		r.store = nil
		r.ownsStore = false
	}
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

// commandContext bounds a one-shot command by the application timeout
func (r *RootCommand) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), r.getAppTimeout())
}

// signalContext lasts until SIGINT or SIGTERM
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(
		r.newProjectCommand(),
		r.newTaskCommand(),
		r.newSweepCommand(),
		r.newSchedulerCommand(),
		r.newServeCommand(),
	)
}

// idArg wraps a RunE that takes the positional ID argument
func idArg(name string, run func(cmd *cobra.Command, id int64) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], name)
		if err != nil {
			return err
		}
		return run(cmd, id)
	}
}

func (r *RootCommand) newProjectCommand() *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Create, inspect and remove projects",
	}

	createCmd := &cobra.Command{
		Use:   "create <name> <description>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewProjectCommand(r.app).Create(ctx, args[0], args[1])
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewProjectCommand(r.app).List(ctx)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: idArg("project id", func(cmd *cobra.Command, id int64) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewProjectCommand(r.app).Show(ctx, id)
		}),
	}

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a project's name or description",
		Long: `Change a project's name or description. Fields without a flag keep
their current value.

Example:
  todolist project update 1 --name "Alpha 2"`,
		Args: cobra.ExactArgs(1),
		RunE: idArg("project id", func(cmd *cobra.Command, id int64) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			var patch api.ProjectPatch
			if cmd.Flags().Changed("name") {
				name, _ := cmd.Flags().GetString("name")
				patch.Name = &name
			}
			if cmd.Flags().Changed("description") {
				description, _ := cmd.Flags().GetString("description")
				patch.Description = &description
			}
			return NewProjectCommand(r.app).Update(ctx, id, patch)
		}),
	}
	updateCmd.Flags().String("name", "", "New project name")
	updateCmd.Flags().String("description", "", "New project description")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project and all of its tasks",
		Long: `Delete a project and all of its tasks.

This operation cannot be undone.`,
		Args: cobra.ExactArgs(1),
		RunE: idArg("project id", func(cmd *cobra.Command, id int64) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewProjectCommand(r.app).Delete(ctx, id)
		}),
	}

	statsCmd := &cobra.Command{
		Use:   "stats <id>",
		Short: "Count a project's tasks by status",
		Args:  cobra.ExactArgs(1),
		RunE: idArg("project id", func(cmd *cobra.Command, id int64) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewProjectCommand(r.app).Stats(ctx, id)
		}),
	}

	projectCmd.AddCommand(createCmd, listCmd, showCmd, updateCmd, deleteCmd, statsCmd)
	return projectCmd
}

func (r *RootCommand) newTaskCommand() *cobra.Command {
	taskCmd := &cobra.Command{
		Use:   "task",
		Short: "Create, update and inspect tasks",
	}

	createCmd := &cobra.Command{
		Use:   "create <project-id> <title> <description>",
		Short: "Create a task in a project",
		Long: `Create a task in a project. New tasks start as todo.

Deadlines accept an offset from now (30m, 2h, 1d, 2w, 3mo, 1y), a date
(2006-01-02), a local time ("2006-01-02 15:04") or an RFC 3339 timestamp.

Example:
  todolist task create 1 "Write docs" "README" --deadline 2d`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project id")
			if err != nil {
				return err
			}
			deadline, _ := cmd.Flags().GetString("deadline")
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewTaskCommand(r.app).Create(ctx, projectID, args[1], args[2], deadline)
		},
	}
	createCmd.Flags().String("deadline", "", "Deadline, e.g. 2d or 2025-06-30")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, optionally by project and status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter api.TaskFilter
			if cmd.Flags().Changed("project-id") {
				projectID, _ := cmd.Flags().GetInt64("project-id")
				filter.ProjectID = &projectID
			}
			if cmd.Flags().Changed("status") {
				raw, _ := cmd.Flags().GetString("status")
				status := domainStatus(raw)
				filter.Status = &status
			}
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewTaskCommand(r.app).List(ctx, filter)
		},
	}
	listCmd.Flags().Int64("project-id", 0, "Only tasks of this project")
	listCmd.Flags().String("status", "", "Only tasks with this status: todo, doing or done")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: idArg("task id", func(cmd *cobra.Command, id int64) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewTaskCommand(r.app).Show(ctx, id)
		}),
	}

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a task's fields",
		Long: `Change a task's fields. Fields without a flag keep their current value.

Example:
  todolist task update 3 --title "Write more docs" --clear-deadline`,
		Args: cobra.ExactArgs(1),
		RunE: idArg("task id", func(cmd *cobra.Command, id int64) error {
			flags := cmd.Flags()
			optional := func(name string) *string {
				if !flags.Changed(name) {
					return nil
				}
				v, _ := flags.GetString(name)
				return &v
			}
			clearDeadline, _ := flags.GetBool("clear-deadline")
			update := TaskUpdate{
				Title:         optional("title"),
				Description:   optional("description"),
				Status:        optional("status"),
				Deadline:      optional("deadline"),
				ClearDeadline: clearDeadline,
			}
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewTaskCommand(r.app).Update(ctx, id, update)
		}),
	}
	updateCmd.Flags().String("title", "", "New title")
	updateCmd.Flags().String("description", "", "New description")
	updateCmd.Flags().String("status", "", "New status: todo, doing or done")
	updateCmd.Flags().String("deadline", "", "New deadline, e.g. 2d or 2025-06-30")
	updateCmd.Flags().Bool("clear-deadline", false, "Remove the deadline")

	statusCmd := &cobra.Command{
		Use:   "status <id> <todo|doing|done>",
		Short: "Change a task's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "task id")
			if err != nil {
				return err
			}
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewTaskCommand(r.app).SetStatus(ctx, id, args[1])
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: idArg("task id", func(cmd *cobra.Command, id int64) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewTaskCommand(r.app).Delete(ctx, id)
		}),
	}

	overdueCmd := &cobra.Command{
		Use:   "overdue",
		Short: "List unfinished tasks past their deadline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := optionalProjectID(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewTaskCommand(r.app).Overdue(ctx, projectID)
		},
	}
	overdueCmd.Flags().Int64("project-id", 0, "Only tasks of this project")

	taskCmd.AddCommand(createCmd, listCmd, showCmd, updateCmd, statusCmd, deleteCmd, overdueCmd)
	return taskCmd
}

func (r *RootCommand) newSweepCommand() *cobra.Command {
	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Close overdue tasks once",
		Long: `Mark every unfinished task whose deadline has passed as done.

Use --dry-run to list the tasks that would be closed without changing them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := r.sweepOptions(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewSweepCommand(r.app, r.logger).Run(ctx, opts)
		},
	}
	sweepCmd.Flags().Int64("project-id", 0, "Only sweep this project")
	sweepCmd.Flags().Bool("dry-run", false, "Report without closing (overrides TODO_SWEEP_DRY_RUN)")
	return sweepCmd
}

func (r *RootCommand) newSchedulerCommand() *cobra.Command {
	schedulerCmd := &cobra.Command{
		Use:   "scheduler",
		Short: "Close overdue tasks now and then on an interval",
		Long: `Run one sweep immediately and then one every interval until
interrupted with Ctrl+C or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := r.sweepOptions(cmd)
			if err != nil {
				return err
			}
			interval := r.config.Sweep.Interval
			if cmd.Flags().Changed("interval") {
				interval, _ = cmd.Flags().GetDuration("interval")
			}
			ctx, cancel := signalContext(cmd)
			defer cancel()
			return NewSweepCommand(r.app, r.logger).Schedule(ctx, interval, opts)
		},
	}
	schedulerCmd.Flags().Duration("interval", sweep.DefaultInterval, "Time between sweeps (overrides TODO_SWEEP_INTERVAL)")
	schedulerCmd.Flags().Int64("project-id", 0, "Only sweep this project")
	schedulerCmd.Flags().Bool("dry-run", false, "Report without closing (overrides TODO_SWEEP_DRY_RUN)")
	return schedulerCmd
}

func (r *RootCommand) newServeCommand() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API",
		Long: `Serve the REST API under /api/v1 and run the overdue sweep scheduler
alongside it unless --no-scheduler is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := r.config.HTTP.Addr
			if cmd.Flags().Changed("addr") {
				addr, _ = cmd.Flags().GetString("addr")
			}
			interval := r.config.Sweep.Interval
			if noScheduler, _ := cmd.Flags().GetBool("no-scheduler"); noScheduler {
				interval = 0
			}
			ctx, cancel := signalContext(cmd)
			defer cancel()
			return NewServeCommand(r.app, r.logger).Run(ctx, addr, interval)
		},
	}
	serveCmd.Flags().String("addr", ":8080", "Listen address (overrides TODO_HTTP_ADDR)")
	serveCmd.Flags().Bool("no-scheduler", false, "Do not run the sweep scheduler")
	return serveCmd
}

// sweepOptions reads --project-id and --dry-run, falling back to config
func (r *RootCommand) sweepOptions(cmd *cobra.Command) (sweep.Options, error) {
	opts := sweep.Options{DryRun: r.config.Sweep.DryRun}
	projectID, err := optionalProjectID(cmd)
	if err != nil {
		return opts, err
	}
	opts.ProjectID = projectID
	if cmd.Flags().Changed("dry-run") {
		opts.DryRun, _ = cmd.Flags().GetBool("dry-run")
	}
	return opts, nil
}

func optionalProjectID(cmd *cobra.Command) (*int64, error) {
	if !cmd.Flags().Changed("project-id") {
		return nil, nil
	}
	id, _ := cmd.Flags().GetInt64("project-id")
	if err := validation.ValidateID("project_id", id); err != nil {
		return nil, fmt.Errorf("invalid project id: %w", err)
	}
	return &id, nil
}
