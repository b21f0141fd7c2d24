package bigcache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{LifeWindow: time.Hour})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, ok, err := s.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("Get miss expected, ok=%v err=%v", ok, err)
	}
	val := []byte{0x52, 0x45, 0x43, 0x4F, 0x00, 0xFF}
	if err := s.Set(ctx, "k", val); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := s.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get after set: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, val) {
		t.Fatalf("Get returned %x, want %x", got, val)
	}

	if err := s.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("Get after delete should miss")
	}
	// deleting a missing key is not an error
	if err := s.Del(ctx, "k"); err != nil {
		t.Fatalf("Del on missing key: %v", err)
	}
}

func TestDelPrefix(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	entries := map[string][]byte{
		"channel_recommendations1":  []byte("a"),
		"channel_recommendations22": []byte("b"),
		"other_key":                 []byte("c"),
	}
	for k, v := range entries {
		if err := s.Set(ctx, k, v); err != nil {
			t.Fatalf("Set %q: %v", k, err)
		}
	}

	if err := s.DelPrefix(ctx, "channel_recommendations"); err != nil {
		t.Fatalf("DelPrefix: %v", err)
	}

	for _, k := range []string{"channel_recommendations1", "channel_recommendations22"} {
		if _, ok, _ := s.Get(ctx, k); ok {
			t.Fatalf("key %q should be gone after DelPrefix", k)
		}
	}
	if _, ok, _ := s.Get(ctx, "other_key"); !ok {
		t.Fatalf("unrelated key should survive DelPrefix")
	}
}
