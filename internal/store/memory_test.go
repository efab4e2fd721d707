package store_test

import (
	"context"
	"testing"

	"github.com/odiadev/odia-backend/internal/store"
	"github.com/odiadev/odia-backend/pkg/models"
)

func TestMemoryStore_InsertAndRows(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	rec := models.ConversationRecord{
		SessionID: "+2348012345678",
		Platform:  models.PlatformWhatsApp,
		Message:   "hello",
		Response:  "hi there",
		Agent:     "LEXI",
	}
	if err := s.Insert(ctx, store.TableConversations, rec); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	meta := models.VoiceCacheMeta{TextHash: "abc", AgentType: "LEXI", Storage: "memory", AccessCount: 1}
	if err := s.Insert(ctx, store.TableVoiceCache, meta); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if got := len(s.Rows(store.TableConversations)); got != 1 {
		t.Errorf("conversations rows = %d, want 1", got)
	}
	if got := len(s.Rows(store.TableVoiceCache)); got != 1 {
		t.Errorf("voice_cache rows = %d, want 1", got)
	}
}

func TestMemoryStore_UnknownTable(t *testing.T) {
	s := store.NewMemoryStore()
	err := s.Insert(context.Background(), "payments", struct{}{})
	if err == nil {
		t.Fatal("Insert() into unknown table should fail")
	}
	if _, ok := err.(*store.ErrUnknownTable); !ok {
		t.Errorf("Insert() error = %T, want *store.ErrUnknownTable", err)
	}
}
