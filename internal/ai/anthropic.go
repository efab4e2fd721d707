package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/odiadev/odia-backend/pkg/models"
)

// Anthropic calls the Anthropic Messages API. It is the secondary (fallback)
// backend: the system prompt goes in a dedicated field and only the user
// turn appears in the messages array.
type Anthropic struct {
	Endpoint  string
	APIKey    string
	Model     string
	MaxTokens int
	Client    *http.Client
}

type anthropicRequest struct {
	Model     string               `json:"model"`
	MaxTokens int                  `json:"max_tokens"`
	System    string               `json:"system"`
	Messages  []models.ChatMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (p *Anthropic) Name() string { return "claude" }

func (p *Anthropic) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	maxTokens := p.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 400
	}

	body, _ := json.Marshal(anthropicRequest{
		Model:     p.Model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages:  []models.ChatMessage{{Role: "user", Content: userMessage}},
	})

	url := p.Endpoint + "/v1/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("claude: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := p.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("claude: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("claude: status %d: %s", resp.StatusCode, string(respBody))
	}

	var aResp anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&aResp); err != nil {
		return "", fmt.Errorf("claude: decode response: %w", err)
	}

	content := ""
	for _, c := range aResp.Content {
		if c.Type == "text" {
			content += c.Text
		}
	}
	if content == "" {
		return "", fmt.Errorf("claude: empty completion")
	}
	return content, nil
}

func (p *Anthropic) client() *http.Client {
	if p.Client != nil {
		return p.Client
	}
	return &http.Client{Timeout: 60 * time.Second}
}
