package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/odiadev/odia-backend/internal/store"
	"github.com/odiadev/odia-backend/pkg/models"
)

// flakyStore fails the first failUntil inserts and records call times.
type flakyStore struct {
	mu        sync.Mutex
	failUntil int
	calls     []time.Time
}

func (s *flakyStore) Insert(ctx context.Context, table string, record any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, time.Now())
	if len(s.calls) <= s.failUntil {
		return errors.New("connection refused")
	}
	return nil
}

func (s *flakyStore) Ping(ctx context.Context) error    { return nil }
func (s *flakyStore) Migrate(ctx context.Context) error { return nil }
func (s *flakyStore) Close() error                      { return nil }

func (s *flakyStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func TestRetrier_SucceedsFirstAttempt(t *testing.T) {
	fs := &flakyStore{}
	r := store.NewRetrierWithPolicy(fs, 3, 10*time.Millisecond)

	if ok := r.Insert(context.Background(), store.TableConversations, models.ConversationRecord{}); !ok {
		t.Fatal("Insert() = false, want true")
	}
	if fs.callCount() != 1 {
		t.Errorf("store called %d times, want 1", fs.callCount())
	}
}

func TestRetrier_RecoversAfterFailures(t *testing.T) {
	fs := &flakyStore{failUntil: 2}
	r := store.NewRetrierWithPolicy(fs, 3, 5*time.Millisecond)

	if ok := r.Insert(context.Background(), store.TableConversations, models.ConversationRecord{}); !ok {
		t.Fatal("Insert() = false, want true after recovery on third attempt")
	}
	if fs.callCount() != 3 {
		t.Errorf("store called %d times, want 3", fs.callCount())
	}
}

func TestRetrier_ExhaustsAndReturnsFalse(t *testing.T) {
	fs := &flakyStore{failUntil: 10}
	r := store.NewRetrierWithPolicy(fs, 3, 5*time.Millisecond)

	if ok := r.Insert(context.Background(), store.TableConversations, models.ConversationRecord{}); ok {
		t.Fatal("Insert() = true, want false after exhausting retries")
	}
	if fs.callCount() != 3 {
		t.Errorf("store called %d times, want exactly 3", fs.callCount())
	}
}

func TestRetrier_BackoffIncreases(t *testing.T) {
	fs := &flakyStore{failUntil: 10}
	base := 30 * time.Millisecond
	r := store.NewRetrierWithPolicy(fs, 3, base)

	r.Insert(context.Background(), store.TableConversations, models.ConversationRecord{})

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.calls) != 3 {
		t.Fatalf("store called %d times, want 3", len(fs.calls))
	}
	gap1 := fs.calls[1].Sub(fs.calls[0])
	gap2 := fs.calls[2].Sub(fs.calls[1])
	if gap1 < base {
		t.Errorf("first gap %v, want >= %v", gap1, base)
	}
	if gap2 <= gap1 {
		t.Errorf("gaps should strictly increase: gap1=%v gap2=%v", gap1, gap2)
	}
}

func TestRetrier_ContextCancelStopsWaiting(t *testing.T) {
	fs := &flakyStore{failUntil: 10}
	r := store.NewRetrierWithPolicy(fs, 3, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if ok := r.Insert(ctx, store.TableConversations, models.ConversationRecord{}); ok {
		t.Fatal("Insert() = true, want false on cancelled context")
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Insert() took %v, should abandon the wait on cancellation", elapsed)
	}
}
