// Package openrouter implements the language-model port against the
// OpenRouter chat completions API.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"clipforge/internal/types"
)

const requestTimeout = 90 * time.Second

type Adapter struct {
	key     string
	model   string
	baseURL string
	client  *http.Client
}

func New(apiKey, model, baseURL string) *Adapter {
	if model == "" {
		model = "anthropic/claude-3.5-sonnet"
	}
	baseURL = normalizeBaseURL(baseURL)
	return &Adapter{
		key:     apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

func (a *Adapter) Name() string { return "openrouter" }

func (a *Adapter) Summarize(ctx context.Context, text, style string, maxWords int) (string, error) {
	prompt := fmt.Sprintf(
		"Summarize the following video transcript in a %s style, at most %d words. Return only the summary text, no preamble.\n\nTranscript:\n%s",
		style, maxWords, text,
	)
	out, err := a.chat(ctx, prompt, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (a *Adapter) GenerateSocialContent(ctx context.Context, text string, maxWords int) (types.SocialContent, error) {
	prompt := fmt.Sprintf(
		"Write social media copy for a short vertical video clip. "+
			"Return strictly valid JSON (no markdown, no code fences) matching the provided schema. "+
			"The title is a punchy hook of at most 10 words; the description is at most %d words.\n\nClip transcript:\n%s",
		maxWords, text,
	)

	// strict schema: a title plus a description, nothing else.
	schema := map[string]any{
		"type": "json_schema",
		"json_schema": map[string]any{
			"name": "social_copy",
			"schema": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":       map[string]any{"type": "string"},
					"description": map[string]any{"type": "string"},
				},
				"required": []string{"title", "description"},
			},
		},
	}

	out, err := a.chat(ctx, prompt, schema)
	if err != nil {
		return types.SocialContent{}, err
	}
	clean, err := extractJSONObject(out)
	if err != nil {
		return types.SocialContent{}, err
	}

	var sc struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal([]byte(clean), &sc); err != nil {
		return types.SocialContent{}, fmt.Errorf("openrouter: parse social copy: %w", err)
	}
	if strings.TrimSpace(sc.Title) == "" {
		return types.SocialContent{}, errors.New("openrouter: empty title")
	}
	return types.SocialContent{
		Title:       strings.TrimSpace(sc.Title),
		Description: strings.TrimSpace(sc.Description),
	}, nil
}

func (a *Adapter) chat(ctx context.Context, prompt string, responseFormat map[string]any) (string, error) {
	payload := map[string]any{
		"model":  a.model,
		"stream": false,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}
	if responseFormat != nil {
		payload["response_format"] = responseFormat
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	url := a.baseURL + "/api/v1/chat/completions"

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+a.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("openrouter timeout after %s (model=%s)", requestTimeout, a.model)
		}
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return "", fmt.Errorf("openrouter status %d and read body failed: %v", resp.StatusCode, readErr)
		}
		return "", fmt.Errorf("openrouter status %d: %s", resp.StatusCode, truncate(redactSecrets(string(rb), a.key), 400))
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content any `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", err
	}
	if len(raw.Choices) == 0 {
		return "", errors.New("openrouter: no choices returned")
	}
	return messageContentToString(raw.Choices[0].Message.Content)
}

func messageContentToString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []any:
		// Some providers return an array of {type,text} parts.
		var b strings.Builder
		for _, it := range x {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			if t, ok := m["text"].(string); ok {
				b.WriteString(t)
			}
		}
		s := b.String()
		if strings.TrimSpace(s) == "" {
			return "", errors.New("openrouter: empty content")
		}
		return s, nil
	default:
		return "", fmt.Errorf("openrouter: unexpected content type %T", v)
	}
}

func extractJSONObject(s string) (string, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", errors.New("openrouter: empty content")
	}

	// Strip markdown code fences.
	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}

	// Best-effort: take the first JSON object found.
	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start >= 0 && end > start {
		return t[start : end+1], nil
	}

	return "", fmt.Errorf("openrouter: could not locate JSON object in: %q", truncate(t, 200))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var (
	bearerTokenRE = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._-]+\b`)
	authHeaderRE  = regexp.MustCompile(`(?i)(authorization\s*[:=]\s*)([^\n\r,;]+)`)
	apiKeyFieldRE = regexp.MustCompile(`(?i)(api[_-]?key\s*[:=]\s*)([^\n\r,;]+)`)
)

func redactSecrets(s, apiKey string) string {
	if s == "" {
		return s
	}
	out := s
	if apiKey != "" {
		out = strings.ReplaceAll(out, apiKey, "[REDACTED]")
	}
	out = bearerTokenRE.ReplaceAllString(out, "Bearer [REDACTED]")
	out = authHeaderRE.ReplaceAllString(out, "${1}[REDACTED]")
	out = apiKeyFieldRE.ReplaceAllString(out, "${1}[REDACTED]")
	return out
}
