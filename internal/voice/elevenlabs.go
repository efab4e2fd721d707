package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ElevenLabs calls the ElevenLabs text-to-speech REST API with a fixed
// multilingual model, voice identity, and stability/similarity settings.
// A non-2xx response is terminal for the call: no retry, no fallback voice.
type ElevenLabs struct {
	Endpoint        string
	APIKey          string
	VoiceID         string
	ModelID         string
	Stability       float64
	SimilarityBoost float64
	Client          *http.Client
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize returns raw audio/mpeg bytes for the given text.
func (e *ElevenLabs) Synthesize(ctx context.Context, text string) ([]byte, error) {
	body, _ := json.Marshal(ttsRequest{
		Text:    text,
		ModelID: e.ModelID,
		VoiceSettings: voiceSettings{
			Stability:       e.Stability,
			SimilarityBoost: e.SimilarityBoost,
		},
	})

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", e.Endpoint, e.VoiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Authorization", "Bearer "+e.APIKey)

	resp, err := e.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("elevenlabs: status %d: %s", resp.StatusCode, string(respBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: read audio: %w", err)
	}
	return audio, nil
}

func (e *ElevenLabs) client() *http.Client {
	if e.Client != nil {
		return e.Client
	}
	return &http.Client{Timeout: 30 * time.Second}
}
