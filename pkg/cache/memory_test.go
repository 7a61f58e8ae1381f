package cache_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shashiranjanraj/inventory/pkg/cache"
)

type payload struct {
	N int    `json:"n"`
	S string `json:"s"`
}

func TestMemory_SetGet(t *testing.T) {
	m := cache.NewMemory()
	defer m.Close()

	in := payload{N: 42, S: "answer"}
	if err := m.Set("k", in, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out payload
	if !m.Get("k", &out) {
		t.Fatal("expected a hit after Set")
	}
	if out != in {
		t.Errorf("got %+v, want %+v", out, in)
	}
}

func TestMemory_MissOnAbsent(t *testing.T) {
	m := cache.NewMemory()
	defer m.Close()

	var out payload
	if m.Get("nope", &out) {
		t.Error("expected a miss for a key that was never set")
	}
}

func TestMemory_ExpiredReadsAsAbsent(t *testing.T) {
	m := cache.NewMemory()
	defer m.Close()

	if err := m.Set("k", payload{N: 1}, 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	var out payload
	if m.Get("k", &out) {
		t.Error("expired entry must read as absent even before the janitor runs")
	}
	if m.Len() != 0 {
		t.Errorf("lazy cleanup should purge the expired key, Len = %d", m.Len())
	}
}

func TestMemory_SetRefreshesExpiry(t *testing.T) {
	m := cache.NewMemory()
	defer m.Close()

	m.Set("k", payload{N: 1}, 10*time.Millisecond)
	m.Set("k", payload{N: 2}, time.Minute)

	time.Sleep(30 * time.Millisecond)

	var out payload
	if !m.Get("k", &out) {
		t.Fatal("re-Set key must use the new TTL")
	}
	if out.N != 2 {
		t.Errorf("got stale value %d, want 2", out.N)
	}
}

func TestMemory_Remove(t *testing.T) {
	m := cache.NewMemory()
	defer m.Close()

	m.Set("k", payload{N: 1}, time.Minute)
	if err := m.Remove("k"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	var out payload
	if m.Get("k", &out) {
		t.Error("expected a miss after Remove")
	}
}

func TestMemory_RemoveByPrefix(t *testing.T) {
	m := cache.NewMemory()
	defer m.Close()

	m.Set("products:page=1", payload{N: 1}, time.Minute)
	m.Set("products:page=2", payload{N: 2}, time.Minute)
	m.Set("categories", payload{N: 3}, time.Minute)

	if err := m.RemoveByPrefix("products"); err != nil {
		t.Fatalf("RemoveByPrefix: %v", err)
	}

	var out payload
	if m.Get("products:page=1", &out) || m.Get("products:page=2", &out) {
		t.Error("all keys under the prefix must be gone")
	}
	if !m.Get("categories", &out) {
		t.Error("keys outside the prefix must survive")
	}
}

func TestMemory_SetUnmarshalableValue(t *testing.T) {
	m := cache.NewMemory()
	defer m.Close()

	// Channels cannot be marshaled; Set reports the error and stores nothing.
	if err := m.Set("bad", make(chan int), time.Minute); err == nil {
		t.Error("expected an error for an unmarshalable value")
	}
	if m.Len() != 0 {
		t.Error("failed Set must not leave a key in the index")
	}
}

func TestMemory_CachedValueDoesNotAliasCaller(t *testing.T) {
	m := cache.NewMemory()
	defer m.Close()

	in := payload{N: 1, S: "original"}
	m.Set("k", &in, time.Minute)
	in.S = "mutated after Set"

	var out payload
	if !m.Get("k", &out) {
		t.Fatal("expected a hit")
	}
	if out.S != "original" {
		t.Errorf("cached value aliased the caller's struct: got %q", out.S)
	}
}

func TestMemory_ConcurrentSetGetRemoveByPrefix(t *testing.T) {
	m := cache.NewMemory()
	defer m.Close()

	const workers = 8
	const iterations = 200

	var wg sync.WaitGroup
	wg.Add(workers * 3)

	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				key := fmt.Sprintf("products:w%d:i%d", w, i)
				m.Set(key, payload{N: i}, time.Minute) //nolint:errcheck
			}
		}(w)

		go func(w int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				var out payload
				m.Get(fmt.Sprintf("products:w%d:i%d", w, i), &out)
			}
		}(w)

		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				m.RemoveByPrefix("products") //nolint:errcheck
			}
		}()
	}

	wg.Wait()

	// After a final sweep the index and storage must agree: every surviving
	// indexed key is readable.
	m.RemoveByPrefix("products")
	if m.Len() != 0 {
		t.Errorf("index out of sync with storage: %d keys left after full prefix removal", m.Len())
	}
}
