// Package app is the composition root: it builds the backend, one store
// per domain and the services on top, and tears them down in order.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/idilsaglam/mytasks/internal/config"
	"github.com/idilsaglam/mytasks/internal/model"
	"github.com/idilsaglam/mytasks/internal/persist"
	"github.com/idilsaglam/mytasks/internal/scheduler"
	"github.com/idilsaglam/mytasks/internal/service"
	"github.com/idilsaglam/mytasks/internal/store"
)

// habitRefresh is the scheduler job that re-derives today's habit view.
const habitRefresh = "habit-refresh"

// Document names, one per domain.
const (
	TasksFile    = "tasks.json"
	HabitsFile   = "habits.json"
	GoalsFile    = "goals.json"
	ExpensesFile = "expenses.json"
)

// App wires the four domains together.
type App struct {
	Tasks    *service.TaskService
	Habits   *service.HabitService
	Goals    *service.GoalService
	Expenses *service.ExpenseService

	backend   persist.Backend
	log       *slog.Logger
	docs      []document
	sched     *scheduler.Scheduler
	closeBack func() error
}

// document is the part of a store App needs for status and shutdown.
type document interface {
	Name() string
	Outcome() persist.Outcome
	SaveFailures() int
	Close()
}

// Options tune New.
type Options struct {
	Logger *slog.Logger
	Clock  service.Clock
}

// New opens the backend named by cfg and builds the app on it.
func New(cfg config.Config, opts Options) (*App, error) {
	var (
		b         persist.Backend
		closeBack func() error
	)
	switch cfg.Backend {
	case config.BackendMemory:
		b = persist.NewMemoryBackend()
	case config.BackendSQLite:
		db, err := persist.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		b, closeBack = db, db.Close
	default:
		b = persist.NewFileBackend(cfg.DataDir)
	}
	a := NewWithBackend(b, opts)
	a.closeBack = closeBack
	return a, nil
}

// NewWithBackend builds the app on an existing backend.
func NewWithBackend(b persist.Backend, opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	so := store.WithLogger(log)

	tasks := store.New[model.Task](TasksFile, b, so)
	habits := store.New[model.Habit](HabitsFile, b, so)
	goals := store.New[model.Goal](GoalsFile, b, so)
	expenses := store.New[model.Expense](ExpensesFile, b, so)

	return &App{
		Tasks:    service.NewTaskService(tasks),
		Habits:   service.NewHabitService(habits, opts.Clock),
		Goals:    service.NewGoalService(goals),
		Expenses: service.NewExpenseService(expenses, opts.Clock),
		backend:  b,
		log:      log,
		docs:     []document{tasks, habits, goals, expenses},
	}
}

// Backend is the storage the stores write to.
func (a *App) Backend() persist.Backend { return a.backend }

// DocumentStatus describes one store for `mytasks status`.
type DocumentStatus struct {
	Name         string
	Outcome      persist.Outcome
	SaveFailures int
}

// Status reports how each document loaded.
func (a *App) Status() []DocumentStatus {
	out := make([]DocumentStatus, 0, len(a.docs))
	for _, d := range a.docs {
		out = append(out, DocumentStatus{
			Name:         d.Name(),
			Outcome:      d.Outcome(),
			SaveFailures: d.SaveFailures(),
		})
	}
	return out
}

// StartScheduler refreshes the date-dependent habit view at every local
// midnight. Stopped by Close.
func (a *App) StartScheduler(loc *time.Location) error {
	if a.sched != nil {
		return nil
	}
	s := scheduler.New(loc)
	if err := s.Add(habitRefresh, "@midnight", a.Habits.Refresh); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}
	s.Start()
	a.sched = s
	next, _ := s.Next(habitRefresh)
	a.log.Debug("scheduler started", "next_refresh", next.Format(time.RFC3339))
	return nil
}

// Close stops the scheduler and drains every pending save. Saves that
// fail are logged by the stores; Close itself only reports backend
// shutdown errors.
func (a *App) Close() error {
	if a.sched != nil {
		a.sched.Stop()
		a.sched = nil
	}
	for _, d := range a.docs {
		d.Close()
	}
	if a.closeBack != nil {
		return a.closeBack()
	}
	return nil
}
