package observable

import (
	"sync"
	"testing"
	"time"
)

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

func TestSubscribeGetsLatestFirst(t *testing.T) {
	s := New(1)
	s.Publish(2)
	s.Publish(3)

	sub := s.Subscribe()
	defer sub.Close()

	if got := recv(t, sub.C()); got != 3 {
		t.Fatalf("first value = %d, want 3", got)
	}
	s.Publish(4)
	if got := recv(t, sub.C()); got != 4 {
		t.Fatalf("second value = %d, want 4", got)
	}
}

func TestSubscribersSeeEveryValueInOrder(t *testing.T) {
	s := New(0)
	a := s.Subscribe()
	b := s.Subscribe()
	defer a.Close()
	defer b.Close()

	const n = 200
	for i := 1; i <= n; i++ {
		s.Publish(i)
	}

	for _, sub := range []*Subscription[int]{a, b} {
		for want := 0; want <= n; want++ {
			if got := recv(t, sub.C()); got != want {
				t.Fatalf("got %d, want %d", got, want)
			}
		}
	}
}

func TestCloseClosesChannel(t *testing.T) {
	s := New("x")
	sub := s.Subscribe()
	sub.Close()
	sub.Close()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-sub.C():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed")
		}
	}
}

func TestPublishDoesNotBlockOnIdleSubscriber(t *testing.T) {
	s := New(0)
	sub := s.Subscribe()
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			s.Publish(i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on a subscriber nobody reads")
	}
}

func TestOnPublishRunsSynchronously(t *testing.T) {
	s := New(0)
	var got []int
	cancel := s.OnPublish(func(v int) { got = append(got, v) })

	s.Publish(1)
	s.Publish(2)
	cancel()
	s.Publish(3)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("listener saw %v", got)
	}
}

func TestConcurrentPublishAndSubscribe(t *testing.T) {
	s := New(0)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := s.Subscribe()
			defer sub.Close()
			select {
			case <-sub.C():
			case <-time.After(2 * time.Second):
				t.Error("subscriber got no value")
			}
		}()
	}
	for i := 0; i < 50; i++ {
		s.Publish(i)
	}
	wg.Wait()
}

func TestWatchStartsWithCurrentValue(t *testing.T) {
	s := New("a")
	var got []string
	s.Watch(func(v string) { got = append(got, v) })
	s.Publish("b")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("watch saw %v", got)
	}
}
