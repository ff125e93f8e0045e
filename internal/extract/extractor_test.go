package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"clipforge/internal/types"
)

type fakeTranscoder struct {
	trimErr   error
	trimCalls []trimCall
}

type trimCall struct {
	in        string
	start     float64
	duration  float64
	w, h      int
	fill, out string
}

func (f *fakeTranscoder) Probe(_ context.Context, _ string) (types.MediaInfo, error) {
	return types.MediaInfo{}, nil
}

func (f *fakeTranscoder) TrimScalePad(_ context.Context, in string, start, dur float64, w, h int, fill, out string) error {
	f.trimCalls = append(f.trimCalls, trimCall{in: in, start: start, duration: dur, w: w, h: h, fill: fill, out: out})
	return f.trimErr
}

func (f *fakeTranscoder) OverlayImage(_ context.Context, _, _ string, _, _ int, _ string) error {
	return nil
}

func TestExtract_PassesWindowAndTarget(t *testing.T) {
	t.Parallel()

	ft := &fakeTranscoder{}
	e := New(ft, "/out", 1080, 1920, "black")
	src := types.SourceAsset{Path: "/in/video.mp4", DurationSec: 300}
	w := types.SegmentWindow{Index: 2, StartSec: 12.5, EndSec: 42.5}

	art, err := e.Extract(context.Background(), src, w)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(ft.trimCalls) != 1 {
		t.Fatalf("expected 1 transcoder call, got %d", len(ft.trimCalls))
	}
	call := ft.trimCalls[0]
	if call.in != src.Path || call.start != 12.5 || call.duration != 30 {
		t.Fatalf("unexpected trim args: %+v", call)
	}
	if call.w != 1080 || call.h != 1920 || call.fill != "black" {
		t.Fatalf("unexpected target frame: %+v", call)
	}
	if art.OutputPath != call.out {
		t.Fatalf("artifact path %q does not match transcoder output %q", art.OutputPath, call.out)
	}
	if !strings.Contains(art.OutputPath, "segment_003_") {
		t.Fatalf("expected 1-based window index in name, got %q", art.OutputPath)
	}
	if art.TranscriptText != "" || art.OverlayApplied {
		t.Fatalf("fresh artifact carries enrichment state: %+v", art)
	}
}

func TestExtract_UniqueNames(t *testing.T) {
	t.Parallel()

	ft := &fakeTranscoder{}
	e := New(ft, "/out", 1080, 1920, "black")
	src := types.SourceAsset{Path: "/in/video.mp4"}
	w := types.SegmentWindow{Index: 0, StartSec: 0, EndSec: 10}

	a, err := e.Extract(context.Background(), src, w)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	b, err := e.Extract(context.Background(), src, w)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if a.OutputPath == b.OutputPath {
		t.Fatalf("expected unique output names, both %q", a.OutputPath)
	}
}

func TestExtract_TranscoderFailure(t *testing.T) {
	t.Parallel()

	ft := &fakeTranscoder{trimErr: errors.New("encode failed")}
	e := New(ft, "/out", 1080, 1920, "black")
	_, err := e.Extract(context.Background(), types.SourceAsset{Path: "x"}, types.SegmentWindow{EndSec: 5})
	if err == nil {
		t.Fatalf("expected error from transcoder")
	}
}
