// Package voice synthesizes agent replies as speech through a two-tier
// lookup: an in-process fast cache in front of the ElevenLabs origin
// provider, with best-effort metadata write-back to the durable store.
package voice

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/odiadev/odia-backend/internal/agent"
)

// Fingerprint returns the deterministic cache key for one synthesis request.
// The same (agent, text) pair always yields the same key; it doubles as the
// durable-metadata lookup key.
func Fingerprint(id agent.ID, text string) string {
	sum := sha256.Sum256([]byte(string(id) + ":" + text))
	return hex.EncodeToString(sum[:])
}
