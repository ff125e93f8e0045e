// Package pipeline wires configuration, adapters and the usecase together
// for one split request.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"clipforge/internal/config"
	"clipforge/internal/infra/fsx"
	"clipforge/internal/logger"
	"clipforge/internal/overlay"
	"clipforge/internal/ports"
	"clipforge/internal/ports/adapters/ffmpeg"
	"clipforge/internal/ports/adapters/gemini"
	"clipforge/internal/ports/adapters/openai"
	"clipforge/internal/ports/adapters/openrouter"
	"clipforge/internal/ports/adapters/whispercpp"
	"clipforge/internal/types"
	"clipforge/internal/usecase"
)

type Request struct {
	InputPath string
	Cfg       config.Config
	Log       logger.Logger

	// Rand is injectable for tests; nil means time-seeded.
	Rand *rand.Rand
}

func (r Request) Validate() error {
	if r.InputPath == "" {
		return errors.New("input is empty")
	}
	if _, err := os.Stat(r.InputPath); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	return openrouter.ValidateBaseURL(
		r.Cfg.Providers.OpenRouterBaseURL,
		r.Cfg.Providers.OpenRouterAllowedHosts,
	)
}

// Run executes one split request end to end and writes a manifest next to
// the segments. The run output directory is returned.
func Run(ctx context.Context, req Request) (string, error) {
	log := req.Log
	if log == nil {
		log = logger.Nop()
	}
	cfg := req.Cfg

	video := ffmpeg.New(cfg.FFmpeg.Preset, cfg.FFmpeg.CRF, cfg.FFmpeg.AudioBitrate)
	asr := selectTranscriber(ctx, cfg, video, log)
	llm := selectLanguageModel(ctx, cfg, log)

	comp := overlay.New(video, overlay.Options{
		FrameWidth:       cfg.FFmpeg.TargetWidth,
		FrameHeight:      cfg.FFmpeg.TargetHeight,
		FontPath:         cfg.Overlay.FontPath,
		FontSize:         cfg.Overlay.FontSize,
		Padding:          cfg.Overlay.Padding,
		MaxWidthFraction: cfg.Overlay.MaxWidthFraction,
		Position:         types.OverlayPosition(cfg.Overlay.Position),
	})

	uc := usecase.New(usecase.Deps{
		Video:      video,
		ASR:        asr,
		LLM:        llm,
		Compositor: comp,
		Log:        log,
	})

	runDir := buildRunOutDir(cfg.Paths.Output, req.InputPath, time.Now().UTC())
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}
	log.Info(ctx, "output run dir: %s", runDir)

	res, err := uc.Run(ctx, usecase.Input{
		SourcePath:   req.InputPath,
		OutDir:       runDir,
		Count:        cfg.Segments.Count,
		MinDuration:  cfg.Segments.MinDuration,
		MaxDuration:  cfg.Segments.MaxDuration,
		TargetWidth:  cfg.FFmpeg.TargetWidth,
		TargetHeight: cfg.FFmpeg.TargetHeight,
		FillColor:    cfg.FFmpeg.FillColor,
		Language:     cfg.Whisper.Language,
		Prompt:       cfg.Whisper.Prompt,
		Rand:         req.Rand,
	})
	if err != nil {
		return "", err
	}

	b, err := json.MarshalIndent(res.Manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	if err := fsx.WriteFileAtomic(runDir, "manifest.json", b); err != nil {
		return "", err
	}
	log.Info(ctx, "manifest written (%d segments): %s", len(res.Manifest.Segments), filepath.Join(runDir, "manifest.json"))
	return runDir, nil
}

// selectTranscriber picks the highest-ranked configured transcription
// provider once, at construction. A local whisper.cpp install wins over the
// OpenAI API; with neither configured the transcription stage is skipped.
func selectTranscriber(ctx context.Context, cfg config.Config, video *ffmpeg.Adapter, log logger.Logger) ports.Transcriber {
	ranked := make([]ports.Transcriber, 0, 2)
	if cfg.Whisper.BinaryPath != "" && cfg.Whisper.ModelPath != "" {
		ranked = append(ranked, whispercpp.New(cfg.Whisper.BinaryPath, cfg.Whisper.ModelPath, video))
	}
	if cfg.Providers.OpenAIAPIKey != "" {
		ranked = append(ranked, openai.New(cfg.Providers.OpenAIAPIKey, cfg.Providers.OpenAIModel))
	}

	t := ports.FirstTranscriber(ranked...)
	if t == nil {
		log.Warn(ctx, "no transcription provider configured, transcripts disabled")
		return nil
	}
	log.Info(ctx, "transcription provider: %s", t.Name())
	return t
}

// selectLanguageModel ranks OpenRouter, then OpenAI, then Gemini.
func selectLanguageModel(ctx context.Context, cfg config.Config, log logger.Logger) ports.LanguageModel {
	ranked := make([]ports.LanguageModel, 0, 3)
	if cfg.Providers.OpenRouterAPIKey != "" {
		ranked = append(ranked, openrouter.New(
			cfg.Providers.OpenRouterAPIKey,
			cfg.Providers.OpenRouterModel,
			cfg.Providers.OpenRouterBaseURL,
		))
	}
	if cfg.Providers.OpenAIAPIKey != "" {
		ranked = append(ranked, openai.New(cfg.Providers.OpenAIAPIKey, cfg.Providers.OpenAIModel))
	}
	if len(cfg.Providers.GeminiAPIKeys) > 0 {
		ranked = append(ranked, gemini.New(cfg.Providers.GeminiAPIKeys, cfg.Providers.GeminiModel))
	}

	m := ports.FirstLanguageModel(ranked...)
	if m == nil {
		log.Warn(ctx, "no language model configured, summaries and social copy disabled")
		return nil
	}
	log.Info(ctx, "language model provider: %s", m.Name())
	return m
}

func buildRunOutDir(outRoot, inputPath string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", inputPath, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.Transcoder = (*ffmpeg.Adapter)(nil)
var _ ports.Transcriber = (*whispercpp.Adapter)(nil)
var _ ports.Transcriber = (*openai.Adapter)(nil)
var _ ports.LanguageModel = (*openai.Adapter)(nil)
var _ ports.LanguageModel = (*openrouter.Adapter)(nil)
var _ ports.LanguageModel = (*gemini.Adapter)(nil)
var _ usecase.Compositor = (*overlay.Compositor)(nil)
