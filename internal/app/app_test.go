package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/idilsaglam/mytasks/internal/config"
	"github.com/idilsaglam/mytasks/internal/logger"
	"github.com/idilsaglam/mytasks/internal/model"
	"github.com/idilsaglam/mytasks/internal/persist"
	"github.com/idilsaglam/mytasks/internal/service"
)

func testConfig(t *testing.T, backend string) config.Config {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Backend = backend
	cfg.SQLitePath = filepath.Join(cfg.DataDir, "mytasks.db")
	return cfg
}

func TestFileBackendPersistsAllDomains(t *testing.T) {
	cfg := testConfig(t, config.BackendFile)
	a, err := New(cfg, Options{Logger: logger.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	a.Tasks.AddTask("Buy milk", model.PriorityHigh)
	a.Habits.AddHabit("Run", model.Daily, "")
	g, _ := a.Goals.AddGoal("Ship", "")
	a.Goals.AddSubtask(g.ID, "Write docs")
	a.Expenses.AddExpense("Salary", "100", model.Income, model.CategorySalary)
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{TasksFile, HabitsFile, GoalsFile, ExpensesFile} {
		if _, err := os.Stat(filepath.Join(cfg.DataDir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}

	b, err := New(cfg, Options{Logger: logger.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if len(b.Tasks.All()) != 1 || len(b.Habits.Current()) != 1 || len(b.Expenses.Current().Expenses) != 1 {
		t.Fatal("reopened app lost records")
	}
	goals := b.Goals.Current()
	if len(goals) != 1 || goals[0].Total != 1 {
		t.Fatalf("goals = %+v", goals)
	}
	for _, st := range b.Status() {
		if st.Outcome != persist.Loaded {
			t.Errorf("%s outcome = %v", st.Name, st.Outcome)
		}
	}
}

func TestSQLiteBackend(t *testing.T) {
	cfg := testConfig(t, config.BackendSQLite)
	a, err := New(cfg, Options{Logger: logger.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	a.Tasks.AddTask("stored in sqlite", model.PriorityLow)
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}

	b, err := New(cfg, Options{Logger: logger.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if got := b.Tasks.All(); len(got) != 1 || got[0].Title != "stored in sqlite" {
		t.Fatalf("tasks = %+v", got)
	}
}

func TestCorruptDocumentIsReportedAndEmpty(t *testing.T) {
	cfg := testConfig(t, config.BackendFile)
	if err := os.WriteFile(filepath.Join(cfg.DataDir, GoalsFile), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	a, err := New(cfg, Options{Logger: logger.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	if len(a.Goals.Current()) != 0 {
		t.Fatal("corrupt goals should load empty")
	}
	outcomes := map[string]persist.Outcome{}
	for _, st := range a.Status() {
		outcomes[st.Name] = st.Outcome
	}
	if outcomes[GoalsFile] != persist.Corrupt || outcomes[TasksFile] != persist.Missing {
		t.Fatalf("outcomes = %v", outcomes)
	}
}

func TestMidnightRefreshReachesSubscribers(t *testing.T) {
	now := time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC)
	a := NewWithBackend(persist.NewMemoryBackend(), Options{
		Logger: logger.Discard(),
		Clock:  func() time.Time { return now },
	})
	defer a.Close()

	h, _ := a.Habits.AddHabit("Run", model.Daily, "")
	a.Habits.MarkCompleted(h.ID)
	sub := a.Habits.View().Subscribe()
	defer sub.Close()

	next := func() []service.HabitStatus {
		t.Helper()
		select {
		case v := <-sub.C():
			return v
		case <-time.After(2 * time.Second):
			t.Fatal("no habit view received")
			return nil
		}
	}
	if v := next(); len(v) != 1 || !v[0].CompletedToday {
		t.Fatalf("before midnight = %+v", v)
	}

	if err := a.StartScheduler(time.UTC); err != nil {
		t.Fatal(err)
	}
	now = now.Add(6 * time.Hour)
	if !a.sched.Run(habitRefresh) {
		t.Fatal("refresh job not registered")
	}
	v := next()
	if len(v) != 1 || v[0].CompletedToday || !v[0].LastWeek[5] || v[0].LastWeek[6] {
		t.Fatalf("after midnight = %+v", v)
	}
}

func TestSchedulerStartStop(t *testing.T) {
	a := NewWithBackend(persist.NewMemoryBackend(), Options{Logger: logger.Discard()})
	if err := a.StartScheduler(time.UTC); err != nil {
		t.Fatal(err)
	}
	if err := a.StartScheduler(time.UTC); err != nil {
		t.Fatal(err)
	}
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
}
