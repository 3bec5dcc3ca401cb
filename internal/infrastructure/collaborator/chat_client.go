package collaborator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/retailhq/sales-insights/internal/core/domain"
)

const (
	defaultChatTimeout  = 60 * time.Second
	chatCompletionsPath = "/v1/chat/completions"
	chatTemperature     = 0.5
)

// ChatClient calls an OpenAI-compatible chat-completions API: one request,
// one assistant message back. Errors surface to the caller, no retries.
type ChatClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewChatClient(baseURL, apiKey string, timeout time.Duration) *ChatClient {
	if timeout <= 0 {
		timeout = defaultChatTimeout
	}
	return &ChatClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type chatCompletionRequest struct {
	Model       string               `json:"model"`
	Messages    []domain.ChatMessage `json:"messages"`
	Temperature float64              `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message domain.ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *ChatClient) Complete(ctx context.Context, model string, messages []domain.ChatMessage) (domain.ChatMessage, error) {
	var empty domain.ChatMessage

	if c.apiKey == "" {
		return empty, fmt.Errorf("chat: %w", ErrNotConfigured)
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: chatTemperature,
	})
	if err != nil {
		return empty, fmt.Errorf("chat: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatCompletionsPath, bytes.NewReader(body))
	if err != nil {
		return empty, fmt.Errorf("chat: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return empty, fmt.Errorf("chat: %w", err)
	}
	defer resp.Body.Close()

	var out chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return empty, fmt.Errorf("chat: decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if out.Error != nil {
			return empty, fmt.Errorf("chat: %s (%s)", out.Error.Message, out.Error.Type)
		}
		return empty, fmt.Errorf("chat: unexpected status %d", resp.StatusCode)
	}
	if len(out.Choices) == 0 {
		return empty, fmt.Errorf("chat: response contained no choices")
	}

	return out.Choices[0].Message, nil
}
