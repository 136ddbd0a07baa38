package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type recordingStore struct {
	data        map[string]string
	counters    map[string]int64
	expireCalls map[string]time.Duration
}

func newRecordingStore() *recordingStore {
	return &recordingStore{
		data:        make(map[string]string),
		counters:    make(map[string]int64),
		expireCalls: make(map[string]time.Duration),
	}
}

func (s *recordingStore) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (s *recordingStore) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	s.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (s *recordingStore) Get(_ context.Context, key string) *redis.StringCmd {
	value, ok := s.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (s *recordingStore) SetNX(_ context.Context, key string, value any, _ time.Duration) *redis.BoolCmd {
	if _, exists := s.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	s.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (s *recordingStore) Incr(_ context.Context, key string) *redis.IntCmd {
	s.counters[key]++
	return redis.NewIntResult(s.counters[key], nil)
}

func (s *recordingStore) Expire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	s.expireCalls[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (s *recordingStore) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(s.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestIncrWithTTLStampsWindowOnce(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	client := &Client{store: store}

	count, err := client.IncrWithTTL(ctx, "window", time.Minute)
	if err != nil {
		t.Fatalf("first incr: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}
	if store.expireCalls["window"] != time.Minute {
		t.Fatalf("first increment must set the window TTL, got %v", store.expireCalls["window"])
	}

	count, err = client.IncrWithTTL(ctx, "window", time.Minute)
	if err != nil {
		t.Fatalf("second incr: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
	if len(store.expireCalls) != 1 {
		t.Fatal("TTL must only be stamped on window creation")
	}
}

func TestSetNXClaimsOnce(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newRecordingStore()}

	won, err := client.SetNX(ctx, "claim", "1", time.Hour)
	if err != nil || !won {
		t.Fatalf("expected first claim to win, won=%v err=%v", won, err)
	}
	won, err = client.SetNX(ctx, "claim", "1", time.Hour)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if won {
		t.Fatal("second claim must lose")
	}
}

func TestGetAfterDelReturnsNil(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newRecordingStore()}

	if err := client.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := client.Del(ctx, "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := client.Get(ctx, "k"); !errors.Is(err, redis.Nil) {
		t.Fatalf("expected redis.Nil after delete, got %v", err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.IdempotencyKey("evt:processed:worker", "abc"); got != "ss:idempotency:evt:processed:worker:abc" {
		t.Fatalf("unexpected idempotency key %s", got)
	}
	if got := client.AccessSessionKey("jti-1"); got != "ss:session:access:jti-1" {
		t.Fatalf("unexpected session key %s", got)
	}
	if got := client.IdempotencyKey(" padded ", ""); got != "ss:idempotency:padded" {
		t.Fatalf("empty parts must be skipped, got %s", got)
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	ctx := context.Background()
	client := &Client{}

	if err := client.Ping(ctx); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
	if _, err := client.Get(ctx, "k"); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
}
