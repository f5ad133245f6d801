// Package completion asks an OpenAI-compatible chat endpoint for a
// completion and returns the reply verbatim.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/suykerbuyk/llmclean/internal/config"
)

const (
	temperature    = 0.2
	maxPromptChars = 32000
)

// ErrNoAPIKey is returned when the configured key variable is unset.
var ErrNoAPIKey = errors.New("completion: API key not set")

// Complete sends prompt to the configured endpoint and returns the raw
// reply. The request is bounded by cfg.TimeoutSeconds on top of ctx.
func Complete(ctx context.Context, cfg config.CompletionConfig, prompt string) (*Reply, error) {
	apiKey := os.Getenv(cfg.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%w (set %s)", ErrNoAPIKey, cfg.APIKeyEnv)
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, errors.New("completion: empty prompt")
	}

	if cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	reqBody := chatRequest{
		Model:       cfg.Model,
		Messages:    buildMessages(cfg.SystemPrompt, prompt),
		Temperature: temperature,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return parseResponse(respBody)
}

func buildMessages(system, prompt string) []chatMessage {
	var msgs []chatMessage
	if strings.TrimSpace(system) != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: system})
	}
	return append(msgs, chatMessage{Role: "user", Content: truncate(prompt, maxPromptChars)})
}

func parseResponse(body []byte) (*Reply, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if resp.Error != nil {
		return nil, fmt.Errorf("API error: %s", resp.Error.Message)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty choices in response")
	}

	choice := resp.Choices[0]
	r := &Reply{
		Text:         choice.Message.Content,
		Model:        resp.Model,
		FinishReason: choice.FinishReason,
	}
	if resp.Usage != nil {
		r.PromptTokens = resp.Usage.PromptTokens
		r.OutputTokens = resp.Usage.CompletionTokens
	}
	return r, nil
}

func truncate(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}

	// Back up to a rune boundary, then try to break at a newline
	cut := maxChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	truncated := text[:cut]
	if idx := strings.LastIndex(truncated, "\n"); idx > maxChars/2 {
		truncated = truncated[:idx]
	}

	return truncated + "\n[...truncated]"
}
