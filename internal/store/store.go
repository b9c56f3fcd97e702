// Package store owns one domain's canonical collection, publishes every
// new snapshot and mirrors it to a persist.Backend in the background.
package store

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/idilsaglam/mytasks/internal/observable"
	"github.com/idilsaglam/mytasks/internal/persist"
)

// State is Uninitialized until the document has been read once.
type State int

const (
	Uninitialized State = iota
	Loaded
)

func (s State) String() string {
	if s == Loaded {
		return "loaded"
	}
	return "uninitialized"
}

type options struct {
	log *slog.Logger
}

// Option configures a Store.
type Option func(*options)

// WithLogger sets the logger; slog.Default() otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// Store holds the collection of one document. Snapshots handed out are
// never modified: every mutation builds a new slice and publishes it.
type Store[T any] struct {
	name    string
	backend persist.Backend
	writer  *persist.Writer
	log     *slog.Logger
	subject *observable.Subject[[]T]

	mu      sync.Mutex
	state   State
	outcome persist.Outcome
}

// New creates the store for document name. Nothing is read until the
// first access.
func New[T any](name string, backend persist.Backend, opts ...Option) *Store[T] {
	o := options{log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.log.With("store", name)
	return &Store[T]{
		name:    name,
		backend: backend,
		writer:  persist.NewWriter(backend, name, log),
		log:     log,
		subject: observable.New([]T{}),
	}
}

// Name is the document name, e.g. "tasks.json".
func (s *Store[T]) Name() string { return s.name }

// Load reads the document on first call and returns the current snapshot.
// A missing, unreadable or corrupt document yields an empty collection.
func (s *Store[T]) Load() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	return s.subject.Get()
}

func (s *Store[T]) loadLocked() {
	if s.state == Loaded {
		return
	}
	items, outcome, err := persist.Load[T](s.backend, s.name)
	switch outcome {
	case persist.Corrupt:
		s.log.Warn("document corrupt, starting with an empty collection", "err", err)
	case persist.Unreadable:
		s.log.Error("document unreadable, starting with an empty collection", "err", err)
	case persist.Missing:
		s.log.Debug("no document yet")
	default:
		s.log.Debug("loaded", "records", len(items))
	}
	s.state = Loaded
	s.outcome = outcome
	s.subject.Publish(items)
}

// State reports whether the document has been read.
func (s *Store[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Outcome tells how the initial load went.
func (s *Store[T]) Outcome() persist.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	return s.outcome
}

// Snapshot returns the current collection. Callers must not modify it.
func (s *Store[T]) Snapshot() []T { return s.Load() }

// Observable exposes the snapshot stream.
func (s *Store[T]) Observable() *observable.Subject[[]T] {
	s.Load()
	return s.subject
}

// Subscribe is shorthand for Observable().Subscribe().
func (s *Store[T]) Subscribe() *observable.Subscription[[]T] {
	return s.Observable().Subscribe()
}

// Update applies fn to the current snapshot. fn returns the replacement
// collection, which must not share a backing array with the input, and
// whether anything changed. A change is published before Update returns
// and then saved in the background. Update reports the changed flag.
func (s *Store[T]) Update(fn func(cur []T) (next []T, changed bool)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()

	next, changed := fn(s.subject.Get())
	if !changed {
		return false
	}
	s.commitLocked(next)
	return true
}

// Save replaces the whole collection with a copy of items and persists it.
// The document is read first so Outcome still reports how it loaded.
func (s *Store[T]) Save(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	s.commitLocked(slices.Clone(items))
}

func (s *Store[T]) commitLocked(next []T) {
	if next == nil {
		next = []T{}
	}
	s.subject.Publish(next)

	data, err := persist.Encode(next)
	if err != nil {
		s.log.Error("encode failed, snapshot not saved", "err", err)
		return
	}
	s.writer.Enqueue(data)
}

// Flush waits for pending saves.
func (s *Store[T]) Flush() { s.writer.Flush() }

// SaveFailures counts background saves that failed.
func (s *Store[T]) SaveFailures() int { return s.writer.Failures() }

// Close drains pending saves and stops the writer.
func (s *Store[T]) Close() { s.writer.Close() }
