package usecase

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"testing"

	"clipforge/internal/types"
)

type fakeTranscoder struct {
	info      types.MediaInfo
	probeErr  error
	trimErr   error
	failAfter int // fail once this many trims succeeded; 0 disables
	trims     []trimCall
}

type trimCall struct {
	start, duration float64
	out             string
}

func (f *fakeTranscoder) Probe(_ context.Context, _ string) (types.MediaInfo, error) {
	if f.probeErr != nil {
		return types.MediaInfo{}, f.probeErr
	}
	return f.info, nil
}

func (f *fakeTranscoder) TrimScalePad(_ context.Context, _ string, start, dur float64, _, _ int, _, out string) error {
	if f.trimErr != nil && len(f.trims) >= f.failAfter {
		return f.trimErr
	}
	f.trims = append(f.trims, trimCall{start: start, duration: dur, out: out})
	return os.WriteFile(out, []byte("video"), 0o644)
}

func (f *fakeTranscoder) OverlayImage(_ context.Context, _, _ string, _, _ int, _ string) error {
	return nil
}

type fakeASR struct {
	text string
	err  error
}

func (f *fakeASR) Name() string { return "fake-asr" }

func (f *fakeASR) Transcribe(_ context.Context, _ string, _ types.TranscribeOptions) (types.TranscriptResult, error) {
	if f.err != nil {
		return types.TranscriptResult{}, f.err
	}
	return types.TranscriptResult{Text: f.text}, nil
}

type fakeLLM struct {
	summary      string
	summaryErr   error
	social       types.SocialContent
	socialErr    error
	summarizeN   int
	socialCallsN int
}

func (f *fakeLLM) Name() string { return "fake-llm" }

func (f *fakeLLM) Summarize(_ context.Context, _, _ string, _ int) (string, error) {
	f.summarizeN++
	return f.summary, f.summaryErr
}

func (f *fakeLLM) GenerateSocialContent(_ context.Context, _ string, _ int) (types.SocialContent, error) {
	f.socialCallsN++
	return f.social, f.socialErr
}

type fakeCompositor struct {
	err    error
	srcs   []string
	titles []string
}

func (f *fakeCompositor) ApplyTitle(_ context.Context, srcVideo, dstVideo, title string) error {
	f.srcs = append(f.srcs, srcVideo)
	f.titles = append(f.titles, title)
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(dstVideo, []byte("overlaid:"+title), 0o644)
}

func testInput(t *testing.T) Input {
	t.Helper()
	return Input{
		SourcePath:   "/in/video.mp4",
		OutDir:       t.TempDir(),
		Count:        3,
		MinDuration:  10,
		MaxDuration:  30,
		TargetWidth:  1080,
		TargetHeight: 1920,
		FillColor:    "black",
		Rand:         rand.New(rand.NewSource(42)),
	}
}

func TestRun_FullEnrichment(t *testing.T) {
	t.Parallel()

	video := &fakeTranscoder{info: types.MediaInfo{DurationSec: 300, Width: 1920, Height: 1080, ContainerFormat: "mp4"}}
	llm := &fakeLLM{
		summary: "a summary",
		social:  types.SocialContent{Title: "Big Hook", Description: "Watch this."},
	}
	comp := &fakeCompositor{}
	u := New(Deps{
		Video:      video,
		ASR:        &fakeASR{text: "hello transcript"},
		LLM:        llm,
		Compositor: comp,
	})

	res, err := u.Run(context.Background(), testInput(t))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Artifacts) == 0 || len(res.Artifacts) > 3 {
		t.Fatalf("unexpected artifact count %d", len(res.Artifacts))
	}
	for i, a := range res.Artifacts {
		if a.TranscriptText != "hello transcript" {
			t.Fatalf("artifact %d missing transcript", i)
		}
		if a.SummaryText != "a summary" {
			t.Fatalf("artifact %d missing summary", i)
		}
		if a.SocialTitle != "Big Hook" || a.SocialDescription != "Watch this." {
			t.Fatalf("artifact %d missing social copy", i)
		}
		if !a.OverlayApplied {
			t.Fatalf("artifact %d overlay not applied", i)
		}
		if a.OriginalBackupPath == "" {
			t.Fatalf("artifact %d has no backup", i)
		}
		if b, err := os.ReadFile(a.OriginalBackupPath); err != nil || string(b) != "video" {
			t.Fatalf("artifact %d backup is not the pre-overlay video: %v %q", i, err, b)
		}
	}
	if len(res.Manifest.Segments) != len(res.Artifacts) {
		t.Fatalf("manifest has %d segments for %d artifacts", len(res.Manifest.Segments), len(res.Artifacts))
	}
	for i := 1; i < len(res.Manifest.Segments); i++ {
		if res.Manifest.Segments[i-1].StartSec > res.Manifest.Segments[i].StartSec {
			t.Fatalf("manifest not sorted by start time")
		}
	}
	for i := 1; i < len(video.trims); i++ {
		if video.trims[i-1].start > video.trims[i].start {
			t.Fatalf("extraction order does not follow the timeline")
		}
	}
}

func TestRun_Validation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Input)
	}{
		{"count zero", func(in *Input) { in.Count = 0 }},
		{"count too large", func(in *Input) { in.Count = 21 }},
		{"min below range", func(in *Input) { in.MinDuration = 0 }},
		{"max above range", func(in *Input) { in.MaxDuration = 301 }},
		{"min above max", func(in *Input) { in.MinDuration = 40; in.MaxDuration = 20 }},
		{"source too short", func(in *Input) { in.MinDuration = 299; in.MaxDuration = 300 }},
		{"max beyond source", func(in *Input) { in.MaxDuration = 299.5 }},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			video := &fakeTranscoder{info: types.MediaInfo{DurationSec: 120, Width: 1280, Height: 720}}
			u := New(Deps{Video: video})
			in := testInput(t)
			tc.mutate(&in)

			_, err := u.Run(context.Background(), in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(video.trims) != 0 {
				t.Fatalf("extraction ran despite invalid request")
			}
		})
	}
}

func TestRun_ExtractionFailureDiscardsArtifacts(t *testing.T) {
	t.Parallel()

	video := &fakeTranscoder{
		info:      types.MediaInfo{DurationSec: 300, Width: 1920, Height: 1080},
		trimErr:   errors.New("encoder crashed"),
		failAfter: 1,
	}
	u := New(Deps{Video: video})

	_, err := u.Run(context.Background(), testInput(t))
	var xerr *ExtractionError
	if !errors.As(err, &xerr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if len(video.trims) != 1 {
		t.Fatalf("expected exactly one successful extraction before the failure, got %d", len(video.trims))
	}
	if _, statErr := os.Stat(video.trims[0].out); !os.IsNotExist(statErr) {
		t.Fatalf("partial artifact was not discarded: %v", statErr)
	}
}

func TestRun_FailSoftTranscription(t *testing.T) {
	t.Parallel()

	video := &fakeTranscoder{info: types.MediaInfo{DurationSec: 300, Width: 1920, Height: 1080}}
	llm := &fakeLLM{summary: "unused"}
	u := New(Deps{
		Video: video,
		ASR:   &fakeASR{err: errors.New("asr down")},
		LLM:   llm,
	})

	res, err := u.Run(context.Background(), testInput(t))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, a := range res.Artifacts {
		if a.TranscriptText != "" || a.SummaryText != "" || a.SocialTitle != "" {
			t.Fatalf("downstream stages ran after transcription failure: %+v", a)
		}
		if b, err := os.ReadFile(a.OutputPath); err != nil || string(b) != "video" {
			t.Fatalf("artifact video is no longer intact: %v %q", err, b)
		}
	}
	if llm.summarizeN != 0 || llm.socialCallsN != 0 {
		t.Fatalf("language model was called without a transcript")
	}
}

func TestRun_SocialGatedOnSummary(t *testing.T) {
	t.Parallel()

	video := &fakeTranscoder{info: types.MediaInfo{DurationSec: 300, Width: 1920, Height: 1080}}
	llm := &fakeLLM{summaryErr: errors.New("llm quota")}
	u := New(Deps{
		Video: video,
		ASR:   &fakeASR{text: "some words"},
		LLM:   llm,
	})

	res, err := u.Run(context.Background(), testInput(t))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if llm.socialCallsN != 0 {
		t.Fatalf("social copy requested although summarize failed")
	}
	for _, a := range res.Artifacts {
		if a.TranscriptText == "" {
			t.Fatalf("transcript should survive a summarize failure")
		}
		if a.SummaryText != "" || a.SocialTitle != "" || a.OverlayApplied {
			t.Fatalf("unexpected downstream enrichment: %+v", a)
		}
	}
}

func TestRun_ProbeFailure(t *testing.T) {
	t.Parallel()

	u := New(Deps{Video: &fakeTranscoder{probeErr: errors.New("no such file")}})
	if _, err := u.Run(context.Background(), testInput(t)); err == nil {
		t.Fatalf("expected probe error")
	}
}
