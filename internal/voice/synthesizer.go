package voice

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/odiadev/odia-backend/internal/agent"
	"github.com/odiadev/odia-backend/internal/store"
	"github.com/odiadev/odia-backend/pkg/models"
)

// ErrSynthesisUnavailable is returned when the origin provider fails. The
// HTTP boundary converts it to a text-fallback payload, never a hard error.
var ErrSynthesisUnavailable = errors.New("voice synthesis unavailable")

// storageTier marks where the audio bytes live. Recorded in the durable
// metadata; only the fast cache ever holds the blob itself.
const storageTier = "memory"

// Origin produces audio for text when the cache cannot.
type Origin interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Synthesizer serves audio from the fast cache, falling back to the origin
// provider on a miss and writing back both the audio (fast cache, TTL) and
// a metadata row (durable store, retried, best-effort).
type Synthesizer struct {
	cache   *Cache // nil disables the fast tier
	origin  Origin
	retrier *store.Retrier // nil disables metadata write-back
}

// NewSynthesizer wires the two-tier lookup. cache and retrier may be nil;
// both tiers degrade to direct origin calls without them.
func NewSynthesizer(cache *Cache, origin Origin, retrier *store.Retrier) *Synthesizer {
	return &Synthesizer{cache: cache, origin: origin, retrier: retrier}
}

// Synthesize returns audio for (text, agent). It fails only when the origin
// provider fails; cache and metadata failures are logged and swallowed.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, id agent.ID) ([]byte, error) {
	key := Fingerprint(id, text)

	if s.cache != nil {
		if audio, ok := s.cache.Get(key); ok {
			log.Debug().Str("fingerprint", key).Str("agent", string(id)).Msg("Voice cache hit")
			return audio, nil
		}
	}

	audio, err := s.origin.Synthesize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesisUnavailable, err)
	}

	audio = optimize(audio)

	if s.cache != nil {
		s.cache.Set(key, audio)
	}

	if s.retrier != nil {
		meta := models.VoiceCacheMeta{
			TextHash:    key,
			AgentType:   string(id),
			Storage:     storageTier,
			AccessCount: 1,
		}
		if ok := s.retrier.Insert(ctx, store.TableVoiceCache, meta); !ok {
			log.Warn().Str("fingerprint", key).Msg("Voice cache metadata write failed")
		}
	}

	return audio, nil
}

// optimize is the post-processing hook for constrained networks (bitrate
// reduction slots in here). It must stay idempotent and safe to no-op.
func optimize(audio []byte) []byte {
	return audio
}
