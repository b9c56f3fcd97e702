package persist

import (
	"log/slog"
	"sync"
)

// Writer owns the background saves of one document. A single goroutine
// performs the writes, so two saves of the same document never overlap.
// Only the newest pending image is kept: every write replaces the whole
// document, so an older image still waiting in line is obsolete.
type Writer struct {
	name    string
	backend Backend
	log     *slog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	pending []byte
	queued  bool
	busy    bool
	closed  bool
	failed  int
	done    chan struct{}
}

// NewWriter starts the worker for name.
func NewWriter(b Backend, name string, log *slog.Logger) *Writer {
	if log == nil {
		log = slog.Default()
	}
	w := &Writer{
		name:    name,
		backend: b,
		log:     log.With("document", name),
		done:    make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.run()
	return w
}

// Enqueue schedules data to be written and returns immediately.
func (w *Writer) Enqueue(data []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		w.log.Warn("save dropped, writer closed")
		return
	}
	w.pending = data
	w.queued = true
	w.cond.Broadcast()
}

// Flush blocks until every enqueued image has been written (or failed).
func (w *Writer) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for w.queued || w.busy {
		w.cond.Wait()
	}
}

// Failures counts writes that returned an error.
func (w *Writer) Failures() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.failed
}

// Close drains the queue and stops the worker. In-flight writes are not
// cancelled.
func (w *Writer) Close() {
	w.mu.Lock()
	w.closed = true
	w.cond.Broadcast()
	w.mu.Unlock()
	<-w.done
}

func (w *Writer) run() {
	defer close(w.done)

	w.mu.Lock()
	defer w.mu.Unlock()
	for {
		for !w.queued && !w.closed {
			w.cond.Wait()
		}
		if !w.queued {
			return
		}
		data := w.pending
		w.pending, w.queued, w.busy = nil, false, true
		w.mu.Unlock()

		err := w.backend.Write(w.name, data)

		w.mu.Lock()
		w.busy = false
		if err != nil {
			w.failed++
			w.log.Error("save failed", "err", err)
		} else {
			w.log.Debug("saved", "bytes", len(data))
		}
		w.cond.Broadcast()
	}
}
