package observable

import "sync"

// Subscription delivers a Subject's values on a channel. Each
// subscription buffers independently, so a slow reader only delays itself.
type Subscription[T any] struct {
	owner *Subject[T]
	out   chan T
	wake  chan struct{}
	done  chan struct{}
	once  sync.Once

	mu    sync.Mutex
	queue []T
}

// C is closed after Close.
func (sub *Subscription[T]) C() <-chan T { return sub.out }

// Close detaches the subscription. Undelivered values are dropped.
func (sub *Subscription[T]) Close() {
	sub.once.Do(func() {
		sub.owner.remove(sub)
		close(sub.done)
	})
}

func (sub *Subscription[T]) push(v T) {
	sub.mu.Lock()
	sub.queue = append(sub.queue, v)
	sub.mu.Unlock()

	select {
	case sub.wake <- struct{}{}:
	default:
	}
}

func (sub *Subscription[T]) pump() {
	defer close(sub.out)
	for {
		sub.mu.Lock()
		batch := sub.queue
		sub.queue = nil
		sub.mu.Unlock()

		for _, v := range batch {
			select {
			case sub.out <- v:
			case <-sub.done:
				return
			}
		}
		if len(batch) > 0 {
			continue
		}

		select {
		case <-sub.wake:
		case <-sub.done:
			return
		}
	}
}
