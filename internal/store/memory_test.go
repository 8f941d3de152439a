package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemory_SetAndGet(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	if err := m.Set(ctx, "session-1", "resp_abc", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok, err := m.Get(ctx, "session-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected key to be present")
	}
	if value != "resp_abc" {
		t.Errorf("got %q, want %q", value, "resp_abc")
	}
}

func TestMemory_GetAbsent(t *testing.T) {
	m := NewMemory()
	defer m.Close()

	_, ok, err := m.Get(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected absent key to report ok == false")
	}
}

func TestMemory_TTLExpiry(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	if err := m.Set(ctx, "key", "value", 50*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, ok, _ := m.Get(ctx, "key"); !ok {
		t.Fatal("key should be readable before the deadline")
	}

	time.Sleep(80 * time.Millisecond)

	if _, ok, _ := m.Get(ctx, "key"); ok {
		t.Error("key should read as absent after its TTL elapsed")
	}
}

func TestMemory_OverwriteReplacesExpiry(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	// Short TTL, then a longer one before the first fires.
	if err := m.Set(ctx, "key", "v1", 50*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := m.Set(ctx, "key", "v2", 500*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(80 * time.Millisecond)

	value, ok, _ := m.Get(ctx, "key")
	if !ok {
		t.Fatal("key must survive the original expiry after being re-set")
	}
	if value != "v2" {
		t.Errorf("got %q, want %q", value, "v2")
	}
}

func TestMemory_OverwriteClearsExpiry(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	if err := m.Set(ctx, "key", "v1", 50*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := m.Set(ctx, "key", "v2", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(80 * time.Millisecond)

	if _, ok, _ := m.Get(ctx, "key"); !ok {
		t.Error("re-setting with no TTL must cancel the previous expiry")
	}
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("session-%d", n%5)
			_ = m.Set(ctx, key, "value", 0)
			_, _, _ = m.Get(ctx, key)
		}(i)
	}
	wg.Wait()
}
