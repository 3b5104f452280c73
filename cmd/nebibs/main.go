package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"nebibs/internal/bootstrap"
	experimentsdto "nebibs/internal/modules/experiments/dto"
	learningdto "nebibs/internal/modules/learning/dto"
	volunteerdto "nebibs/internal/modules/volunteer/dto"
	"nebibs/internal/platform/config"
	apperrors "nebibs/internal/platform/errors"
	"nebibs/internal/platform/logging"
	dashboardview "nebibs/internal/ui/views/dashboard"
)

// exitInvalid is returned for rejected input; other failures exit 1.
const exitInvalid = 2

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, apperrors.ErrInvalidInput) {
			os.Exit(exitInvalid)
		}
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	overrides  config.Overrides
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "nebibs",
		Short:         "Track learning goals, experiments and service hours",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "path to a yaml config file")
	pf.StringVar(&flags.overrides.BaseURL, "api-url", "", "record service base URL (env "+config.EnvBaseURL+")")
	pf.StringVar(&flags.overrides.DataDir, "data-dir", "", "directory for local snapshots (env "+config.EnvDataDir+")")
	pf.StringVar(&flags.overrides.LogLevel, "log-level", "", "debug|info|warn|error (env "+config.EnvLogLevel+")")

	root.AddCommand(newGoalsCmd(flags))
	root.AddCommand(newExperimentsCmd(flags))
	root.AddCommand(newServiceCmd(flags))
	root.AddCommand(newDashboardCmd(flags))
	root.AddCommand(newTUICmd(flags))
	return root
}

// loadApp builds the application without loading any collection. A nil
// logOut logs to stderr.
func loadApp(flags *rootFlags, logOut io.Writer) (*bootstrap.App, error) {
	cfg, err := config.Load(flags.configPath, flags.overrides)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: logOut})
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logger)
}

// withApp runs fn against a started application and closes it afterwards.
func withApp(cmd *cobra.Command, flags *rootFlags, fn func(ctx context.Context, app *bootstrap.App) error) error {
	ctx := cmd.Context()
	app, err := loadApp(flags, nil)
	if err != nil {
		return err
	}
	defer app.Close()
	if err := app.Start(ctx); err != nil {
		return err
	}
	return fn(ctx, app)
}

// reportError turns a recorded remote failure into a command error, so the
// process exits non-zero after printing whatever state is available.
func reportError(message string) error {
	if message == "" {
		return nil
	}
	return errors.New(message)
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flags.configPath, flags.overrides)
			if err != nil {
				return err
			}
			// The alternate screen owns the terminal, so logs go to a file.
			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return fmt.Errorf("create data dir: %w", err)
			}
			logFile, err := os.OpenFile(filepath.Join(cfg.DataDir, "nebibs.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer logFile.Close()
			app, err := loadApp(flags, logFile)
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(cmd.Context(), app)
		},
	}
}

func newDashboardCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show this week's summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				summary := app.DashboardCLI.Summary(ctx)
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), dashboardview.Render(summary))
				return nil
			})
		},
	}
}

// ─── goals ───────────────────────────────────────────────────────────────────

func newGoalsCmd(flags *rootFlags) *cobra.Command {
	goals := &cobra.Command{Use: "goals", Aliases: []string{"goal", "learning"}, Short: "Learning goals"}

	goals.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List learning goals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(_ context.Context, app *bootstrap.App) error {
				state := app.LearningCLI.State()
				printGoals(cmd.OutOrStdout(), state)
				return reportError(state.Error)
			})
		},
	})

	var target float64
	var notes string
	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a learning goal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				var targetHours *float64
				if cmd.Flags().Changed("target") {
					targetHours = &target
				}
				state, err := app.LearningCLI.Create(ctx, strings.Join(args, " "), targetHours, notes)
				return finishGoals(cmd, state, err)
			})
		},
	}
	addCmd.Flags().Float64Var(&target, "target", 0, "target hours")
	addCmd.Flags().StringVar(&notes, "notes", "", "notes")
	goals.AddCommand(addCmd)

	var title, updNotes string
	var updTarget float64
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a goal's title, target or notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := learningdto.UpdateGoalInput{ID: args[0]}
			if cmd.Flags().Changed("title") {
				input.Title = &title
			}
			if cmd.Flags().Changed("target") {
				input.TargetHours = &updTarget
			}
			if cmd.Flags().Changed("notes") {
				input.Notes = &updNotes
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				state, err := app.LearningCLI.Update(ctx, input)
				return finishGoals(cmd, state, err)
			})
		},
	}
	updateCmd.Flags().StringVar(&title, "title", "", "new title")
	updateCmd.Flags().Float64Var(&updTarget, "target", 0, "new target hours")
	updateCmd.Flags().StringVar(&updNotes, "notes", "", "new notes")
	goals.AddCommand(updateCmd)

	goals.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				state, err := app.LearningCLI.Delete(ctx, args[0])
				return finishGoals(cmd, state, err)
			})
		},
	})

	resource := &cobra.Command{Use: "resource", Short: "Manage a goal's resources"}
	resource.AddCommand(&cobra.Command{
		Use:   "add <goal-id> <resource>",
		Short: "Append a resource",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				state, err := app.LearningCLI.AddResource(ctx, args[0], strings.Join(args[1:], " "))
				return finishGoals(cmd, state, err)
			})
		},
	})
	resource.AddCommand(&cobra.Command{
		Use:   "remove <goal-id> <index>",
		Short: "Remove the resource at index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return apperrors.Invalid("index", "int")
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				state, err := app.LearningCLI.RemoveResource(ctx, args[0], index)
				return finishGoals(cmd, state, err)
			})
		},
	})
	goals.AddCommand(resource)

	var weekKey string
	hoursCmd := &cobra.Command{
		Use:   "hours <goal-id> <hours>",
		Short: "Set the hours logged for a week",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			hours, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return apperrors.Invalid("hours", "number")
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				key := weekKey
				if key == "" {
					key = app.DashboardCLI.Summary(ctx).WeekKey
				}
				state, err := app.LearningCLI.LogHours(ctx, args[0], key, hours)
				return finishGoals(cmd, state, err)
			})
		},
	}
	hoursCmd.Flags().StringVar(&weekKey, "week", "", "any date YYYY-MM-DD in the week (default: current week)")
	goals.AddCommand(hoursCmd)

	goals.AddCommand(&cobra.Command{
		Use:   "progress <goal-id> <percent>",
		Short: "Set progress, clamped to 0..100",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pct, err := strconv.Atoi(args[1])
			if err != nil {
				return apperrors.Invalid("percent", "int")
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				state, err := app.LearningCLI.SetProgress(ctx, args[0], pct)
				return finishGoals(cmd, state, err)
			})
		},
	})
	return goals
}

func finishGoals(cmd *cobra.Command, state learningdto.State, err error) error {
	if err != nil {
		return err
	}
	printGoals(cmd.OutOrStdout(), state)
	return reportError(state.Error)
}

func printGoals(w io.Writer, state learningdto.State) {
	if len(state.Items) == 0 {
		_, _ = fmt.Fprintln(w, "no goals")
		return
	}
	for _, g := range state.Items {
		target := "-"
		if g.TargetHours != nil {
			target = strconv.FormatFloat(*g.TargetHours, 'f', -1, 64) + "h"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d%%\ttarget=%s\tresources=%d\n", g.ID, g.Title, g.ProgressPercent, target, len(g.Resources))
	}
}

// ─── experiments ─────────────────────────────────────────────────────────────

func newExperimentsCmd(flags *rootFlags) *cobra.Command {
	exps := &cobra.Command{Use: "experiments", Aliases: []string{"experiment", "ideas"}, Short: "Experiments and ideas"}

	exps.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List experiments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(_ context.Context, app *bootstrap.App) error {
				state := app.ExperimentsCLI.State()
				printExperiments(cmd.OutOrStdout(), state)
				return reportError(state.Error)
			})
		},
	})

	var create experimentsdto.CreateExperimentInput
	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create an experiment",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			create.Title = strings.Join(args, " ")
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				state, err := app.ExperimentsCLI.Create(ctx, create)
				return finishExperiments(cmd, state, err)
			})
		},
	}
	addCmd.Flags().StringVar(&create.Description, "description", "", "description")
	addCmd.Flags().StringSliceVar(&create.Dependencies, "depends-on", nil, "dependencies")
	addCmd.Flags().StringVar(&create.NextAction, "next", "", "next action")
	addCmd.Flags().StringVar(&create.Status, "status", "", "not_started|in_progress|completed")
	addCmd.Flags().StringVar(&create.Notes, "notes", "", "notes")
	exps.AddCommand(addCmd)

	var title, description, next, status, notes string
	var deps []string
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an experiment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := experimentsdto.UpdateExperimentInput{ID: args[0]}
			changed := cmd.Flags().Changed
			if changed("title") {
				input.Title = &title
			}
			if changed("description") {
				input.Description = &description
			}
			if changed("depends-on") {
				input.Dependencies = &deps
			}
			if changed("next") {
				input.NextAction = &next
			}
			if changed("status") {
				input.Status = &status
			}
			if changed("notes") {
				input.Notes = &notes
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				state, err := app.ExperimentsCLI.Update(ctx, input)
				return finishExperiments(cmd, state, err)
			})
		},
	}
	updateCmd.Flags().StringVar(&title, "title", "", "new title")
	updateCmd.Flags().StringVar(&description, "description", "", "new description")
	updateCmd.Flags().StringSliceVar(&deps, "depends-on", nil, "replace dependencies")
	updateCmd.Flags().StringVar(&next, "next", "", "new next action")
	updateCmd.Flags().StringVar(&status, "status", "", "not_started|in_progress|completed")
	updateCmd.Flags().StringVar(&notes, "notes", "", "new notes")
	exps.AddCommand(updateCmd)

	exps.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an experiment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				state, err := app.ExperimentsCLI.Delete(ctx, args[0])
				return finishExperiments(cmd, state, err)
			})
		},
	})

	exps.AddCommand(&cobra.Command{
		Use:   "status <id> <not_started|in_progress|completed>",
		Short: "Set an experiment's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				state, err := app.ExperimentsCLI.SetStatus(ctx, args[0], args[1])
				return finishExperiments(cmd, state, err)
			})
		},
	})
	return exps
}

func finishExperiments(cmd *cobra.Command, state experimentsdto.State, err error) error {
	if err != nil {
		return err
	}
	printExperiments(cmd.OutOrStdout(), state)
	return reportError(state.Error)
}

func printExperiments(w io.Writer, state experimentsdto.State) {
	if len(state.Items) == 0 {
		_, _ = fmt.Fprintln(w, "no experiments")
		return
	}
	for _, e := range state.Items {
		next := e.NextAction
		if e.Blocked() {
			next = "(blocked)"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\tnext=%s\n", e.ID, e.Status, e.Title, next)
	}
}

// ─── service ─────────────────────────────────────────────────────────────────

func newServiceCmd(flags *rootFlags) *cobra.Command {
	service := &cobra.Command{Use: "service", Aliases: []string{"volunteer"}, Short: "Volunteer service log"}

	service.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List service entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(_ context.Context, app *bootstrap.App) error {
				state := app.ServiceCLI.State()
				printEntries(cmd.OutOrStdout(), state)
				return reportError(state.Error)
			})
		},
	})

	var reflection string
	logCmd := &cobra.Command{
		Use:   "log <date> <hours> <description>",
		Short: "Log a service entry",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			hours, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return apperrors.Invalid("hours", "number")
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				state, err := app.ServiceCLI.Log(ctx, args[0], strings.Join(args[2:], " "), hours, reflection)
				return finishEntries(cmd, state, err)
			})
		},
	}
	logCmd.Flags().StringVar(&reflection, "reflection", "", "reflection")
	service.AddCommand(logCmd)

	var date, description, updReflection string
	var hours float64
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a service entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := volunteerdto.UpdateEntryInput{ID: args[0]}
			changed := cmd.Flags().Changed
			if changed("date") {
				input.Date = &date
			}
			if changed("description") {
				input.Description = &description
			}
			if changed("hours") {
				input.Hours = &hours
			}
			if changed("reflection") {
				input.Reflection = &updReflection
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				state, err := app.ServiceCLI.Update(ctx, input)
				return finishEntries(cmd, state, err)
			})
		},
	}
	updateCmd.Flags().StringVar(&date, "date", "", "new date YYYY-MM-DD")
	updateCmd.Flags().StringVar(&description, "description", "", "new description")
	updateCmd.Flags().Float64Var(&hours, "hours", 0, "new hours")
	updateCmd.Flags().StringVar(&updReflection, "reflection", "", "new reflection")
	service.AddCommand(updateCmd)

	service.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a service entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				state, err := app.ServiceCLI.Delete(ctx, args[0])
				return finishEntries(cmd, state, err)
			})
		},
	})
	return service
}

func finishEntries(cmd *cobra.Command, state volunteerdto.State, err error) error {
	if err != nil {
		return err
	}
	printEntries(cmd.OutOrStdout(), state)
	return reportError(state.Error)
}

func printEntries(w io.Writer, state volunteerdto.State) {
	if len(state.Items) == 0 {
		_, _ = fmt.Fprintln(w, "no service entries")
		return
	}
	for _, e := range state.Items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.1fh\t%s\n", e.ID, e.Date, e.Hours, e.Description)
	}
}
