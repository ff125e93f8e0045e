// Package whispercpp transcribes media with a local whisper.cpp binary.
package whispercpp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"clipforge/internal/ports/adapters/ffmpeg"
	"clipforge/internal/types"
)

type Adapter struct {
	bin   string
	model string
	video *ffmpeg.Adapter
}

func New(binPath, modelPath string, video *ffmpeg.Adapter) *Adapter {
	return &Adapter{bin: binPath, model: modelPath, video: video}
}

func (a *Adapter) Name() string { return "whispercpp" }

type whisperOutput struct {
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func (a *Adapter) Transcribe(ctx context.Context, path string, opts types.TranscribeOptions) (types.TranscriptResult, error) {
	workDir, err := os.MkdirTemp("", "whisper-*")
	if err != nil {
		return types.TranscriptResult{}, err
	}
	defer os.RemoveAll(workDir)

	wav := filepath.Join(workDir, "audio.wav")
	if err := a.video.ExtractAudioWAV(ctx, path, wav); err != nil {
		return types.TranscriptResult{}, err
	}

	outPrefix := filepath.Join(workDir, "whisper")
	args := []string{
		"-m", a.model,
		"-f", wav,
		"-oj",
		"-of", outPrefix,
	}
	if opts.Language != "" {
		args = append(args, "-l", opts.Language)
	}
	if opts.Prompt != "" {
		args = append(args, "--prompt", opts.Prompt)
	}
	cmd := exec.CommandContext(ctx, a.bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.TranscriptResult{}, fmt.Errorf("whisper.cpp failed: %w\n%s", err, string(b))
	}

	jb, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return types.TranscriptResult{}, err
	}
	var out whisperOutput
	if err := json.Unmarshal(jb, &out); err != nil {
		return types.TranscriptResult{}, err
	}

	parts := make([]string, 0, len(out.Segments))
	var end float64
	for _, s := range out.Segments {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
		if s.End > end {
			end = s.End
		}
	}
	return types.TranscriptResult{
		Text:        strings.Join(parts, " "),
		Language:    opts.Language,
		DurationSec: end,
	}, nil
}
