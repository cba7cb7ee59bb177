package cache

import (
	"testing"
	"time"
)

func TestTTLCacheSetGetDelete(t *testing.T) {
	c := NewTTLCache[string, int]()

	c.Set("a", 1, 0)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected 1, got %d (%v)", v, ok)
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected entry removed")
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache[string, int]()

	c.Set("short", 1, 10*time.Millisecond)
	c.Set("forever", 2, 0)

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Fatal("expected short entry to expire")
	}
	if v, ok := c.Get("forever"); !ok || v != 2 {
		t.Fatal("expected zero-TTL entry to survive")
	}
}

func TestTTLCacheSweep(t *testing.T) {
	c := NewTTLCache[string, int]()

	c.Set("a", 1, 10*time.Millisecond)
	c.Set("b", 2, 10*time.Millisecond)
	c.Set("c", 3, time.Hour)

	time.Sleep(20 * time.Millisecond)

	if removed := c.Sweep(); removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	keys := c.Keys()
	if len(keys) != 1 || keys[0] != "c" {
		t.Fatalf("expected only c to survive, got %v", keys)
	}
}

func TestTTLCacheNilReceiver(t *testing.T) {
	var c *TTLCache[string, int]

	c.Set("a", 1, 0)
	if _, ok := c.Get("a"); ok {
		t.Fatal("nil cache must report misses")
	}
	c.Delete("a")
	if c.Sweep() != 0 {
		t.Fatal("nil cache must sweep nothing")
	}
}
