// Package gemini implements the language-model port with the Gemini API.
// Multiple API keys are rotated on quota errors.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"clipforge/internal/types"
)

const defaultModel = "gemini-2.5-flash"

type Adapter struct {
	apiKeys    []string
	currentKey int
	model      string
}

func New(apiKeys []string, model string) *Adapter {
	if model == "" {
		model = defaultModel
	}
	return &Adapter{apiKeys: apiKeys, model: model}
}

func (a *Adapter) Name() string { return "gemini" }

func (a *Adapter) Summarize(ctx context.Context, text, style string, maxWords int) (string, error) {
	prompt := fmt.Sprintf(
		"Summarize the following video transcript in a %s style, at most %d words. Return only the summary text.\n\nTranscript:\n%s",
		style, maxWords, text,
	)
	out, err := a.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (a *Adapter) GenerateSocialContent(ctx context.Context, text string, maxWords int) (types.SocialContent, error) {
	prompt := fmt.Sprintf(
		"Write social media copy for a short vertical video clip. "+
			"Return strictly valid JSON (no markdown, no code fences) shaped as "+
			`{"title": "...", "description": "..."}. `+
			"The title is a punchy hook of at most 10 words; the description is at most %d words.\n\nClip transcript:\n%s",
		maxWords, text,
	)
	out, err := a.generate(ctx, prompt)
	if err != nil {
		return types.SocialContent{}, err
	}

	var sc struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal([]byte(stripFences(out)), &sc); err != nil {
		return types.SocialContent{}, fmt.Errorf("gemini: parse social copy: %w", err)
	}
	if strings.TrimSpace(sc.Title) == "" {
		return types.SocialContent{}, fmt.Errorf("gemini: empty title")
	}
	return types.SocialContent{
		Title:       strings.TrimSpace(sc.Title),
		Description: strings.TrimSpace(sc.Description),
	}, nil
}

// generate calls Gemini, rotating API keys on 429 / quota errors.
func (a *Adapter) generate(ctx context.Context, prompt string) (string, error) {
	attempts := len(a.apiKeys)
	var lastErr error

	for range attempts {
		key := a.apiKeys[a.currentKey]

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			a.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), nil)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				a.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text string
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text += part.Text
				}
			}
			return text, nil
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (a *Adapter) rotateKey() {
	a.currentKey = (a.currentKey + 1) % len(a.apiKeys)
}

func stripFences(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}
	return t
}
