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

// OpenAICompat calls any OpenAI-compatible chat-completions endpoint. The
// primary Z.ai backend speaks this schema.
type OpenAICompat struct {
	Label    string
	Endpoint string
	APIKey   string
	Model    string
	Client   *http.Client
}

type chatCompletionsRequest struct {
	Model    string               `json:"model"`
	Messages []models.ChatMessage `json:"messages"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *OpenAICompat) Name() string { return p.Label }

func (p *OpenAICompat) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	body, _ := json.Marshal(chatCompletionsRequest{
		Model: p.Model,
		Messages: []models.ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
	})

	url := p.Endpoint + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: create request: %w", p.Label, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: request failed: %w", p.Label, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%s: status %d: %s", p.Label, resp.StatusCode, string(respBody))
	}

	var ccResp chatCompletionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&ccResp); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", p.Label, err)
	}

	if len(ccResp.Choices) == 0 || ccResp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%s: empty completion", p.Label)
	}
	return ccResp.Choices[0].Message.Content, nil
}

func (p *OpenAICompat) client() *http.Client {
	if p.Client != nil {
		return p.Client
	}
	return &http.Client{Timeout: 60 * time.Second}
}
