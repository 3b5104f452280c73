package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	dashboardinadapter "nebibs/internal/modules/dashboard/adapter/in"
	dashboardusecase "nebibs/internal/modules/dashboard/usecase"
	experimentsinadapter "nebibs/internal/modules/experiments/adapter/in"
	experimentsoutadapter "nebibs/internal/modules/experiments/adapter/out"
	experimentsdomain "nebibs/internal/modules/experiments/domain"
	experimentsin "nebibs/internal/modules/experiments/port/in"
	experimentsservice "nebibs/internal/modules/experiments/service"
	experimentsusecase "nebibs/internal/modules/experiments/usecase"
	learninginadapter "nebibs/internal/modules/learning/adapter/in"
	learningoutadapter "nebibs/internal/modules/learning/adapter/out"
	learningdomain "nebibs/internal/modules/learning/domain"
	learningin "nebibs/internal/modules/learning/port/in"
	learningservice "nebibs/internal/modules/learning/service"
	learningusecase "nebibs/internal/modules/learning/usecase"
	volunteerinadapter "nebibs/internal/modules/volunteer/adapter/in"
	volunteeroutadapter "nebibs/internal/modules/volunteer/adapter/out"
	volunteerdomain "nebibs/internal/modules/volunteer/domain"
	volunteerin "nebibs/internal/modules/volunteer/port/in"
	volunteerservice "nebibs/internal/modules/volunteer/service"
	volunteerusecase "nebibs/internal/modules/volunteer/usecase"
	"nebibs/internal/platform/clock"
	"nebibs/internal/platform/config"
	"nebibs/internal/platform/id"
	"nebibs/internal/platform/optimistic"
	"nebibs/internal/platform/remote"
	"nebibs/internal/platform/snapshot"
	"nebibs/internal/platform/week"
	uiapp "nebibs/internal/ui/app"
)

const (
	learningNamespace    = "nebibs-learning"
	experimentsNamespace = "nebibs-experiments"
	serviceNamespace     = "nebibs-service"
	snapshotVersion      = 1
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	LearningCLI    learninginadapter.CLIHandler
	ExperimentsCLI experimentsinadapter.CLIHandler
	ServiceCLI     volunteerinadapter.CLIHandler
	DashboardCLI   dashboardinadapter.CLIHandler

	store       snapshot.Store
	learning    learningin.Usecase
	experiments experimentsin.Usecase
	volunteer   volunteerin.Usecase
}

// Option adjusts wiring; tests use it to swap the clock or transport.
type Option func(*options)

type options struct {
	clock      clock.Clock
	httpClient *http.Client
}

func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func New(cfg config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	o := options{clock: clock.SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}

	start, err := week.ParseStart(cfg.Week.Start)
	if err != nil {
		return nil, err
	}
	calendar := week.Calendar{Start: start}

	client, err := remote.NewClient(remote.Config{
		BaseURL:    cfg.API.BaseURL,
		HTTPClient: o.httpClient,
		Timeout:    cfg.API.Timeout,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("new remote client: %w", err)
	}

	store, err := snapshot.Open(snapshot.Config{
		Backend: snapshot.Backend(cfg.Snapshot.Backend),
		DBPath:  cfg.SnapshotDBPath(),
		Dir:     cfg.SnapshotDir(),
	})
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}

	ids := id.TempUUID{}

	learningUC := learningusecase.NewInteractor(
		learningservice.NewGoalService(o.clock, ids, learningoutadapter.NewHTTPGoalRemote(client)),
		snapshot.NewNamespace[optimistic.Snapshot[learningdomain.Goal]](store, learningNamespace, snapshotVersion, logger),
		calendar,
		logger,
	)
	experimentsUC := experimentsusecase.NewInteractor(
		experimentsservice.NewExperimentService(o.clock, ids, experimentsoutadapter.NewHTTPExperimentRemote(client)),
		snapshot.NewNamespace[optimistic.Snapshot[experimentsdomain.Experiment]](store, experimentsNamespace, snapshotVersion, logger),
		logger,
	)
	volunteerUC := volunteerusecase.NewInteractor(
		volunteerservice.NewEntryService(o.clock, ids, volunteeroutadapter.NewHTTPEntryRemote(client)),
		snapshot.NewNamespace[optimistic.Snapshot[volunteerdomain.Entry]](store, serviceNamespace, snapshotVersion, logger),
		logger,
	)
	dashboardUC := dashboardusecase.NewInteractor(learningUC, experimentsUC, volunteerUC, o.clock, calendar)

	return &App{
		Config:         cfg,
		Logger:         logger,
		LearningCLI:    learninginadapter.NewCLIHandler(learningUC),
		ExperimentsCLI: experimentsinadapter.NewCLIHandler(experimentsUC),
		ServiceCLI:     volunteerinadapter.NewCLIHandler(volunteerUC),
		DashboardCLI:   dashboardinadapter.NewCLIHandler(dashboardUC),
		store:          store,
		learning:       learningUC,
		experiments:    experimentsUC,
		volunteer:      volunteerUC,
	}, nil
}

// Start restores every collection from its snapshot and then refreshes all
// three from the record service.
func (a *App) Start(ctx context.Context) error {
	a.Restore(ctx)
	return a.Refresh(ctx)
}

// Restore loads each collection's snapshot, reporting which ones were found.
func (a *App) Restore(ctx context.Context) map[string]bool {
	restored := map[string]bool{
		"learning":    a.learning.Restore(ctx),
		"experiments": a.experiments.Restore(ctx),
		"service":     a.volunteer.Restore(ctx),
	}
	a.Logger.Debug("snapshots restored", "learning", restored["learning"], "experiments", restored["experiments"], "service", restored["service"])
	return restored
}

// Refresh fetches all three collections concurrently. A failed fetch keeps
// the current items and records the error in that collection's state, so
// Refresh only fails when ctx is cancelled.
func (a *App) Refresh(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { a.learning.Fetch(gctx); return nil })
	g.Go(func() error { a.experiments.Fetch(gctx); return nil })
	g.Go(func() error { a.volunteer.Fetch(gctx); return nil })
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Subscribe registers fn with every collection and returns one function that
// removes all three subscriptions.
func (a *App) Subscribe(fn func()) func() {
	unsubs := []func(){
		a.learning.Subscribe(fn),
		a.experiments.Subscribe(fn),
		a.volunteer.Subscribe(fn),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func (a *App) Close() error {
	return a.store.Close()
}

// RunTUI shows restored snapshots immediately and refreshes in the
// background; every container notification is forwarded to the program.
func RunTUI(ctx context.Context, app *App) error {
	app.Restore(ctx)
	model := uiapp.NewModel(app.LearningCLI, app.ExperimentsCLI, app.ServiceCLI, app.DashboardCLI)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	unsubscribe := app.Subscribe(func() { program.Send(uiapp.StateChangedMsg{}) })
	defer unsubscribe()
	go func() {
		if err := app.Refresh(ctx); err != nil {
			app.Logger.Debug("initial refresh interrupted", "error", err)
		}
	}()
	_, err := program.Run()
	return err
}
