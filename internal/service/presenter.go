// Package service holds the presenter adapters: they turn user commands
// into store mutations and publish the projections the views render.
//
// Every command is total. Blank titles, unparsable amounts and unknown
// ids are ignored and reported through the boolean results only.
package service

import (
	"strings"
	"sync"
	"time"

	"github.com/idilsaglam/mytasks/internal/observable"
	"github.com/idilsaglam/mytasks/internal/store"
)

// Clock returns the current time; services take one so tests can pin the
// date.
type Clock func() time.Time

// presenter keeps a projection of a store in sync. project always runs
// under mu, so state it reads (filters, the clock) is guarded by mu too.
type presenter[T, V any] struct {
	store *store.Store[T]
	view  *observable.Subject[V]

	mu      sync.Mutex
	items   []T
	project func([]T) V
}

func (p *presenter[T, V]) bind(s *store.Store[T], project func([]T) V) {
	p.store = s
	p.project = project
	s.Observable().Watch(func(items []T) {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.items = items
		if p.view == nil {
			p.view = observable.New(p.project(items))
			return
		}
		p.view.Publish(p.project(items))
	})
}

// republish recomputes the projection from the last snapshot, after a
// change that does not come from the store.
func (p *presenter[T, V]) republish(change func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if change != nil {
		change()
	}
	p.view.Publish(p.project(p.items))
}

func (p *presenter[T, V]) current() V { return p.view.Get() }

func blank(s string) bool { return strings.TrimSpace(s) == "" }
