package jobs

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestExecuteSucceedsFirstAttempt(t *testing.T) {
	r := NewRunner(1, 1)
	defer r.Stop()

	res := r.Execute(Job{ID: "j1", Name: "noop", MaxRetries: 3, Run: func() error { return nil }})
	if res.Status != StatusSucceeded {
		t.Fatalf("status = %s, want %s", res.Status, StatusSucceeded)
	}
	if res.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", res.Attempts)
	}
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
}

func TestExecuteRetriesThenSucceeds(t *testing.T) {
	r := NewRunner(1, 1)
	defer r.Stop()

	var slept []time.Duration
	r.sleep = func(d time.Duration) { slept = append(slept, d) }

	runs := 0
	res := r.Execute(Job{
		ID:         "j2",
		Name:       "flaky",
		MaxRetries: 3,
		RetryDelay: 60 * time.Second,
		Run: func() error {
			runs++
			if runs < 3 {
				return errors.New("transient")
			}
			return nil
		},
	})
	if res.Status != StatusSucceeded {
		t.Fatalf("status = %s, want %s", res.Status, StatusSucceeded)
	}
	if res.Attempts != 3 {
		t.Fatalf("attempts = %d, want 3", res.Attempts)
	}
	if len(slept) != 2 {
		t.Fatalf("slept %d times, want 2", len(slept))
	}
	for _, d := range slept {
		if d != 60*time.Second {
			t.Fatalf("retry delay = %s, want 60s", d)
		}
	}
}

func TestExecuteExhaustsRetries(t *testing.T) {
	r := NewRunner(1, 1)
	defer r.Stop()
	r.sleep = func(time.Duration) {}

	boom := errors.New("boom")
	runs := 0
	res := r.Execute(Job{ID: "j3", Name: "doomed", MaxRetries: 2, Run: func() error {
		runs++
		return boom
	}})
	if res.Status != StatusFailed {
		t.Fatalf("status = %s, want %s", res.Status, StatusFailed)
	}
	// 1 initial run + 2 retries.
	if runs != 3 || res.Attempts != 3 {
		t.Fatalf("runs = %d, attempts = %d, want 3 and 3", runs, res.Attempts)
	}
	if !errors.Is(res.Err, boom) {
		t.Fatalf("result error = %v, want %v", res.Err, boom)
	}
}

func TestExecuteZeroRetriesFailsImmediately(t *testing.T) {
	r := NewRunner(1, 1)
	defer r.Stop()

	res := r.Execute(Job{ID: "j4", Name: "alert", MaxRetries: 0, Run: func() error {
		return errors.New("nope")
	}})
	if res.Status != StatusFailed || res.Attempts != 1 {
		t.Fatalf("status = %s, attempts = %d; want %s and 1", res.Status, res.Attempts, StatusFailed)
	}
}

func TestEnqueueRunsOnWorkers(t *testing.T) {
	r := NewRunner(2, 8)

	var done atomic.Int32
	for i := 0; i < 5; i++ {
		r.Enqueue(Job{ID: "q", Name: "counted", Run: func() error {
			done.Add(1)
			return nil
		}})
	}

	r.Stop()
	if got := done.Load(); got != 5 {
		t.Fatalf("ran %d jobs, want 5", got)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	r := NewRunner(1, 1)
	r.Stop()
	r.Stop()
}
