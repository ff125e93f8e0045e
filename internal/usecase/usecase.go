// Package usecase orchestrates one split request: probe, validate, plan,
// extract every window, then enrich every artifact. Computation within a
// request is strictly sequential.
package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"clipforge/internal/domain/planner"
	"clipforge/internal/extract"
	"clipforge/internal/logger"
	"clipforge/internal/ports"
	"clipforge/internal/types"
)

// Compositor burns a title onto a copy of srcVideo and writes it to
// dstVideo, leaving dstVideo untouched on failure.
type Compositor interface {
	ApplyTitle(ctx context.Context, srcVideo, dstVideo, title string) error
}

type Deps struct {
	Video ports.Transcoder
	// ASR and LLM may be nil when no provider is configured; the matching
	// enrichment stages are then skipped.
	ASR        ports.Transcriber
	LLM        ports.LanguageModel
	Compositor Compositor
	Log        logger.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return Usecase{d: d}
}

type Input struct {
	SourcePath  string
	OutDir      string
	Count       int
	MinDuration float64
	MaxDuration float64

	TargetWidth  int
	TargetHeight int
	FillColor    string

	Language string
	Prompt   string

	// Rand drives window sampling; nil means time-seeded.
	Rand *rand.Rand
}

type Result struct {
	Source    types.SourceAsset
	Artifacts []*types.SegmentArtifact
	Manifest  types.Manifest
}

const (
	maxCount       = 20
	maxDurationCap = 300

	summaryStyle    = "concise"
	summaryMaxWords = 120
	socialMaxWords  = 60
)

// Run executes a split request. It returns either every planned segment,
// fully extracted and enriched, or an error with nothing delivered.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	info, err := u.d.Video.Probe(ctx, in.SourcePath)
	if err != nil {
		return Result{}, fmt.Errorf("probe source: %w", err)
	}
	src := types.SourceAsset{
		Path:            in.SourcePath,
		DurationSec:     info.DurationSec,
		Width:           info.Width,
		Height:          info.Height,
		ContainerFormat: info.ContainerFormat,
		SizeBytes:       info.SizeBytes,
	}

	if err := validate(in, src.DurationSec); err != nil {
		return Result{}, err
	}

	rng := in.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	windows := planner.Plan(rng, src.DurationSec, in.Count, in.MinDuration, in.MaxDuration)
	if len(windows) == 0 {
		return Result{}, &ValidationError{Reason: "no segment windows could be planned"}
	}
	if len(windows) < in.Count {
		u.d.Log.Warn(ctx, "planned %d of %d requested segments (spacing constraints)", len(windows), in.Count)
	}

	if err := os.MkdirAll(in.OutDir, 0o755); err != nil {
		return Result{}, &ResourceError{Op: "create output dir", Path: in.OutDir, Err: err}
	}

	ex := extract.New(u.d.Video, in.OutDir, in.TargetWidth, in.TargetHeight, in.FillColor)
	artifacts := make([]*types.SegmentArtifact, 0, len(windows))
	for _, w := range windows {
		u.d.Log.Info(ctx, "extracting segment %d/%d [%.2fs - %.2fs]", w.Index+1, len(windows), w.StartSec, w.EndSec)
		art, err := ex.Extract(ctx, src, w)
		if err != nil {
			discardArtifacts(artifacts)
			return Result{}, &ExtractionError{WindowIndex: w.Index, Err: err}
		}
		artifacts = append(artifacts, art)
	}

	for _, art := range artifacts {
		u.Enrich(ctx, art, in)
	}

	return Result{
		Source:    src,
		Artifacts: artifacts,
		Manifest:  buildManifest(src, artifacts),
	}, nil
}

func validate(in Input, duration float64) error {
	if in.Count < 1 || in.Count > maxCount {
		return &ValidationError{Reason: fmt.Sprintf("count must be in [1, %d], got %d", maxCount, in.Count)}
	}
	if in.MinDuration < 1 || in.MinDuration > maxDurationCap {
		return &ValidationError{Reason: fmt.Sprintf("min duration must be in [1, %d] seconds, got %v", maxDurationCap, in.MinDuration)}
	}
	if in.MaxDuration < 1 || in.MaxDuration > maxDurationCap {
		return &ValidationError{Reason: fmt.Sprintf("max duration must be in [1, %d] seconds, got %v", maxDurationCap, in.MaxDuration)}
	}
	if in.MinDuration > in.MaxDuration {
		return &ValidationError{Reason: "min duration must be <= max duration"}
	}
	if duration < in.MinDuration {
		return &ValidationError{Reason: fmt.Sprintf("source (%.2fs) is shorter than the minimum segment duration (%.2fs)", duration, in.MinDuration)}
	}
	if in.MaxDuration > duration {
		return &ValidationError{Reason: fmt.Sprintf("max duration (%.2fs) exceeds the source duration (%.2fs)", in.MaxDuration, duration)}
	}
	return nil
}

// discardArtifacts removes segment files already produced for a failed
// request. Best-effort: a request delivers all segments or none.
func discardArtifacts(artifacts []*types.SegmentArtifact) {
	for _, a := range artifacts {
		_ = os.Remove(a.OutputPath)
	}
}

func buildManifest(src types.SourceAsset, artifacts []*types.SegmentArtifact) types.Manifest {
	m := types.Manifest{Source: src.Path}
	for i, a := range artifacts {
		m.Segments = append(m.Segments, types.ManifestSegment{
			ID:          fmt.Sprintf("%03d", i+1),
			StartSec:    a.Window.StartSec,
			EndSec:      a.Window.EndSec,
			File:        filepath.Base(a.OutputPath),
			Transcript:  a.TranscriptText,
			Summary:     a.SummaryText,
			Title:       a.SocialTitle,
			Description: a.SocialDescription,
			Overlay:     a.OverlayApplied,
		})
	}
	return m
}
