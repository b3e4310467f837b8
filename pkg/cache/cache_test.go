package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSetGetAndExpire(t *testing.T) {
	c := New(10)
	key := "unit:expire"

	if _, ok := c.Get(key); ok {
		t.Fatalf("expected no value initially")
	}

	c.Set(key, "hello", 50*time.Millisecond)
	if v, ok := c.Get(key); !ok || v.(string) != "hello" {
		t.Fatalf("expected value 'hello', got %v ok=%v", v, ok)
	}

	time.Sleep(80 * time.Millisecond)
	if _, ok := c.Get(key); ok {
		t.Fatalf("expected expired value to be gone")
	}
}

func TestDelete(t *testing.T) {
	c := New(0)
	key := "unit:delete"
	c.Set(key, 42, time.Second)
	if v, ok := c.Get(key); !ok || v.(int) != 42 {
		t.Fatalf("expected 42 present before delete, got %v ok=%v", v, ok)
	}
	c.Delete(key)
	if _, ok := c.Get(key); ok {
		t.Fatalf("expected deleted value to be absent")
	}
}

func TestLRUEviction(t *testing.T) {
	c := New(2)
	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Get("a") // a becomes MRU
	c.Set("c", 3, 0)

	if _, ok := c.Get("b"); ok {
		t.Errorf("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Errorf("expected a to survive")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestGetOrLoad(t *testing.T) {
	t.Run("loads once and caches", func(t *testing.T) {
		c := New(10)
		var calls int32
		load := func() (any, error) {
			atomic.AddInt32(&calls, 1)
			time.Sleep(20 * time.Millisecond)
			return "topics", nil
		}

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := c.GetOrLoad("k", time.Minute, load)
				if err != nil || v.(string) != "topics" {
					t.Errorf("GetOrLoad() = %v, %v", v, err)
				}
			}()
		}
		wg.Wait()
		if _, err := c.GetOrLoad("k", time.Minute, load); err != nil {
			t.Fatal(err)
		}
		if n := atomic.LoadInt32(&calls); n != 1 {
			t.Errorf("load called %d times, want 1", n)
		}
	})

	t.Run("errors are not cached", func(t *testing.T) {
		c := New(10)
		boom := errors.New("boom")
		if _, err := c.GetOrLoad("k", time.Minute, func() (any, error) { return nil, boom }); !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		if _, ok := c.Get("k"); ok {
			t.Errorf("failed load must not populate the cache")
		}
	})
}

func TestDeleteDuringLoad(t *testing.T) {
	c := New(10)
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.GetOrLoad("k", time.Minute, func() (any, error) {
			close(started)
			<-release
			return "stale", nil
		})
	}()

	<-started
	c.Delete("k")
	close(release)
	<-done

	if _, ok := c.Get("k"); ok {
		t.Fatalf("a load that raced with Delete must not be cached")
	}
	v, err := c.GetOrLoad("k", time.Minute, func() (any, error) { return "fresh", nil })
	if err != nil || v.(string) != "fresh" {
		t.Fatalf("GetOrLoad() = %v, %v; want fresh", v, err)
	}
}
