package cache

import (
	"errors"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	got := Key("churn_estimate", 42)
	want := "churn_estimate:42"
	if got != want {
		t.Fatalf("Key = %q, want %q", got, want)
	}
}

func TestMemoryExpiry(t *testing.T) {
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return clock }

	m.Set("k", []byte("v"), 10*time.Minute)

	if val, ok := m.Get("k"); !ok || string(val) != "v" {
		t.Fatalf("Get before expiry = %q, %v; want \"v\", true", val, ok)
	}

	clock = clock.Add(11 * time.Minute)
	if _, ok := m.Get("k"); ok {
		t.Fatal("entry should be gone after the TTL")
	}
}

func TestMemoryOverwriteResetsTTL(t *testing.T) {
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return clock }

	m.Set("k", []byte("old"), 10*time.Minute)
	clock = clock.Add(9 * time.Minute)
	m.Set("k", []byte("new"), 10*time.Minute)

	clock = clock.Add(9 * time.Minute)
	val, ok := m.Get("k")
	if !ok || string(val) != "new" {
		t.Fatalf("Get = %q, %v; want \"new\", true", val, ok)
	}
}

func TestMemorySweepOnWrite(t *testing.T) {
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return clock }

	m.Set("stale", []byte("x"), time.Minute)
	clock = clock.Add(2 * time.Minute)
	m.Set("fresh", []byte("y"), time.Minute)

	if len(m.entries) != 1 {
		t.Fatalf("expected the expired entry to be swept on write, have %d entries", len(m.entries))
	}
}

func TestGetOrComputeCachesValue(t *testing.T) {
	m := NewMemory()
	calls := 0
	compute := func() ([]byte, error) {
		calls++
		return []byte("computed"), nil
	}

	for i := 0; i < 3; i++ {
		val, err := GetOrCompute(m, "k", time.Minute, compute)
		if err != nil {
			t.Fatalf("GetOrCompute failed: %v", err)
		}
		if string(val) != "computed" {
			t.Fatalf("GetOrCompute = %q, want \"computed\"", val)
		}
	}
	if calls != 1 {
		t.Fatalf("compute ran %d times, want 1", calls)
	}
}

func TestGetOrComputeNilCache(t *testing.T) {
	val, err := GetOrCompute(nil, "k", time.Minute, func() ([]byte, error) {
		return []byte("v"), nil
	})
	if err != nil {
		t.Fatalf("GetOrCompute with nil cache failed: %v", err)
	}
	if string(val) != "v" {
		t.Fatalf("GetOrCompute = %q, want \"v\"", val)
	}
}

func TestGetOrComputeErrorNotCached(t *testing.T) {
	m := NewMemory()
	boom := errors.New("boom")
	calls := 0

	_, err := GetOrCompute(m, "k", time.Minute, func() ([]byte, error) {
		calls++
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected compute error, got %v", err)
	}

	val, err := GetOrCompute(m, "k", time.Minute, func() ([]byte, error) {
		calls++
		return []byte("ok"), nil
	})
	if err != nil || string(val) != "ok" {
		t.Fatalf("retry after error = %q, %v; want \"ok\", nil", val, err)
	}
	if calls != 2 {
		t.Fatalf("compute ran %d times, want 2 (errors are not cached)", calls)
	}
}
