// Package openai backs both the transcription and language-model ports
// with the OpenAI API.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"clipforge/internal/types"
)

const defaultModel = "gpt-4.1-mini"

type Adapter struct {
	client openai.Client
	model  string
}

func New(apiKey, model string) *Adapter {
	if model == "" {
		model = defaultModel
	}
	return &Adapter{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (a *Adapter) Name() string { return "openai" }

func (a *Adapter) Transcribe(ctx context.Context, path string, opts types.TranscribeOptions) (types.TranscriptResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.TranscriptResult{}, err
	}
	defer f.Close()

	params := openai.AudioTranscriptionNewParams{
		File:  f,
		Model: openai.AudioModelWhisper1,
	}
	if opts.Language != "" {
		params.Language = openai.String(opts.Language)
	}
	if opts.Prompt != "" {
		params.Prompt = openai.String(opts.Prompt)
	}

	resp, err := a.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return types.TranscriptResult{}, fmt.Errorf("openai transcription: %w", err)
	}
	return types.TranscriptResult{
		Text:     strings.TrimSpace(resp.Text),
		Language: opts.Language,
	}, nil
}

func (a *Adapter) Summarize(ctx context.Context, text, style string, maxWords int) (string, error) {
	prompt := fmt.Sprintf(
		"Summarize the following video transcript in a %s style, at most %d words. Return only the summary text.\n\nTranscript:\n%s",
		style, maxWords, text,
	)
	out, err := a.complete(ctx, prompt)
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
	out, err := a.complete(ctx, prompt)
	if err != nil {
		return types.SocialContent{}, err
	}

	var sc struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal([]byte(stripFences(out)), &sc); err != nil {
		return types.SocialContent{}, fmt.Errorf("openai social copy: parse response: %w", err)
	}
	if strings.TrimSpace(sc.Title) == "" {
		return types.SocialContent{}, fmt.Errorf("openai social copy: empty title")
	}
	return types.SocialContent{
		Title:       strings.TrimSpace(sc.Title),
		Description: strings.TrimSpace(sc.Description),
	}, nil
}

func (a *Adapter) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
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
