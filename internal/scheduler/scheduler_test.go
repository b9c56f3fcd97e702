package scheduler

import (
	"testing"
	"time"
)

func TestAddRejectsBadSpecsAndDuplicates(t *testing.T) {
	s := New(time.UTC)
	if err := s.Add("bad", "every tuesday", func() {}); err == nil {
		t.Error("bad spec accepted")
	}
	if err := s.Add("refresh", "@midnight", func() {}); err != nil {
		t.Fatal(err)
	}
	if err := s.Add("refresh", "0 7 * * *", func() {}); err == nil {
		t.Error("duplicate name accepted")
	}
}

func TestMidnightNext(t *testing.T) {
	s := New(time.UTC)
	if err := s.Add("refresh", "@midnight", func() {}); err != nil {
		t.Fatal(err)
	}
	s.Start()
	defer s.Stop()

	next, ok := s.Next("refresh")
	if !ok || next.IsZero() {
		t.Fatalf("next = %v, %v", next, ok)
	}
	if next.Hour() != 0 || next.Minute() != 0 || !next.After(time.Now()) {
		t.Errorf("next run at %v, want the coming midnight", next)
	}
	if _, ok := s.Next("nope"); ok {
		t.Error("unknown job has a next run")
	}
}

func TestRunCallsJob(t *testing.T) {
	s := New(nil)
	calls := 0
	if err := s.Add("count", "0 0 1 1 *", func() { calls++ }); err != nil {
		t.Fatal(err)
	}
	if !s.Run("count") || calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
	if s.Run("nope") {
		t.Error("unknown job ran")
	}
}
