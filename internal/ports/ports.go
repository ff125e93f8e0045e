// Package ports defines the contracts for the external collaborators the
// pipeline drives: the transcoder, the transcription provider and the
// language-model provider. Concrete implementations live in adapters/.
package ports

import (
	"context"

	"clipforge/internal/types"
)

// Transcoder is the external media tool (ffmpeg in practice).
type Transcoder interface {
	// Probe inspects a media file.
	Probe(ctx context.Context, path string) (types.MediaInfo, error)

	// TrimScalePad cuts durationSec seconds at startSec, scales the frame to
	// fit targetW x targetH preserving aspect ratio, pads the remainder with
	// fillColor and re-encodes with fixed settings into outPath.
	TrimScalePad(ctx context.Context, inPath string, startSec, durationSec float64, targetW, targetH int, fillColor, outPath string) error

	// OverlayImage burns imagePath onto the video at (x, y), re-encoding the
	// video stream and passing audio through when the format permits.
	OverlayImage(ctx context.Context, videoPath, imagePath string, x, y int, outPath string) error
}

// Transcriber turns a media file into text.
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, path string, opts types.TranscribeOptions) (types.TranscriptResult, error)
}

// LanguageModel produces summaries and social copy from transcript text.
type LanguageModel interface {
	Name() string
	Summarize(ctx context.Context, text, style string, maxWords int) (string, error)
	GenerateSocialContent(ctx context.Context, text string, maxWords int) (types.SocialContent, error)
}

// FirstTranscriber returns the highest-ranked configured transcriber, or
// nil when none is available. Selection happens once at construction, never
// per call.
func FirstTranscriber(ranked ...Transcriber) Transcriber {
	for _, t := range ranked {
		if t != nil {
			return t
		}
	}
	return nil
}

// FirstLanguageModel returns the highest-ranked configured language model,
// or nil when none is available.
func FirstLanguageModel(ranked ...LanguageModel) LanguageModel {
	for _, m := range ranked {
		if m != nil {
			return m
		}
	}
	return nil
}
