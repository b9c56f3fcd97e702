// Package scheduler runs named jobs on cron specs.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

type job struct {
	id  cron.EntryID
	run func()
}

// Scheduler keeps a cron clock and the jobs registered on it by name.
type Scheduler struct {
	cron *cron.Cron

	mu   sync.Mutex
	jobs map[string]job
}

// New builds a stopped scheduler that reads specs in loc.
func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
		jobs: make(map[string]job),
	}
}

// Add registers fn under name. spec is a five-field cron line or a
// descriptor such as "@midnight".
func (s *Scheduler) Add(name, spec string, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("job %q already registered", name)
	}
	id, err := s.cron.AddFunc(spec, fn)
	if err != nil {
		return fmt.Errorf("job %q: %w", name, err)
	}
	s.jobs[name] = job{id: id, run: fn}
	return nil
}

// Next reports when name fires next. It is zero until Start.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	j, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(j.id).Next, true
}

// Run calls name's job right away on the calling goroutine.
func (s *Scheduler) Run(name string) bool {
	s.mu.Lock()
	j, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return false
	}
	j.run()
	return true
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
