package usecase

import (
	"context"
	"path/filepath"
	"strings"

	"clipforge/internal/infra/fsx"
	"clipforge/internal/types"
)

// Enrich runs the optional chain transcribe -> summarize -> social copy ->
// overlay on one artifact. Every stage is fail-soft: an error is logged,
// the stage's output is omitted and the chain continues. The artifact is
// always usable afterwards, at minimum as the bare extracted video.
func (u Usecase) Enrich(ctx context.Context, art *types.SegmentArtifact, in Input) {
	u.transcribeStage(ctx, art, in)
	u.summarizeStage(ctx, art)
	u.socialStage(ctx, art)
	u.overlayStage(ctx, art)
}

func (u Usecase) transcribeStage(ctx context.Context, art *types.SegmentArtifact, in Input) {
	if u.d.ASR == nil {
		u.d.Log.Debug(ctx, "no transcription provider, skipping transcript for %s", art.OutputPath)
		return
	}
	res, err := u.d.ASR.Transcribe(ctx, art.OutputPath, types.TranscribeOptions{
		Language: in.Language,
		Prompt:   in.Prompt,
	})
	if err != nil {
		u.d.Log.Error(ctx, "%v (%s)", &EnrichmentStageError{Stage: "transcribe", Err: err}, art.OutputPath)
		return
	}
	text := strings.TrimSpace(res.Text)
	if text == "" {
		u.d.Log.Warn(ctx, "empty transcript for %s", art.OutputPath)
		return
	}
	art.TranscriptText = text
	u.writeSidecar(ctx, art, "transcript", text)
}

func (u Usecase) summarizeStage(ctx context.Context, art *types.SegmentArtifact) {
	if art.TranscriptText == "" || u.d.LLM == nil {
		return
	}
	summary, err := u.d.LLM.Summarize(ctx, art.TranscriptText, summaryStyle, summaryMaxWords)
	if err != nil {
		u.d.Log.Error(ctx, "%v (%s)", &EnrichmentStageError{Stage: "summarize", Err: err}, art.OutputPath)
		return
	}
	if summary == "" {
		return
	}
	art.SummaryText = summary
	u.writeSidecar(ctx, art, "summary", summary)
}

func (u Usecase) socialStage(ctx context.Context, art *types.SegmentArtifact) {
	// Gated on the summarize stage having succeeded; the copy itself is
	// generated from the full transcript.
	if art.SummaryText == "" || u.d.LLM == nil {
		return
	}
	sc, err := u.d.LLM.GenerateSocialContent(ctx, art.TranscriptText, socialMaxWords)
	if err != nil {
		u.d.Log.Error(ctx, "%v (%s)", &EnrichmentStageError{Stage: "social copy", Err: err}, art.OutputPath)
		return
	}
	art.SocialTitle = sc.Title
	art.SocialDescription = sc.Description
	u.writeSidecar(ctx, art, "title", sc.Title)
	u.writeSidecar(ctx, art, "description", sc.Description)
}

// overlayStage burns the social title onto the video. Backup handling is
// idempotent: the pre-overlay video is copied aside exactly once, and
// compositing always reads from that backup, so re-running the stage keeps
// exactly one title box on screen.
func (u Usecase) overlayStage(ctx context.Context, art *types.SegmentArtifact) {
	if art.SocialTitle == "" || u.d.Compositor == nil {
		return
	}

	if art.OriginalBackupPath == "" {
		ext := filepath.Ext(art.OutputPath)
		backup := strings.TrimSuffix(art.OutputPath, ext) + "_original" + ext
		if err := fsx.CopyFile(art.OutputPath, backup); err != nil {
			// Non-fatal here: the bare segment is still delivered.
			u.d.Log.Error(ctx, "%v", &EnrichmentStageError{
				Stage: "overlay",
				Err:   &ResourceError{Op: "backup", Path: art.OutputPath, Err: err},
			})
			return
		}
		art.OriginalBackupPath = backup
	}

	if err := u.d.Compositor.ApplyTitle(ctx, art.OriginalBackupPath, art.OutputPath, art.SocialTitle); err != nil {
		u.d.Log.Error(ctx, "%v (%s)", &EnrichmentStageError{Stage: "overlay", Err: err}, art.OutputPath)
		return
	}
	art.OverlayApplied = true
}

func (u Usecase) writeSidecar(ctx context.Context, art *types.SegmentArtifact, kind, text string) {
	base := strings.TrimSuffix(filepath.Base(art.OutputPath), filepath.Ext(art.OutputPath))
	name := base + "." + kind + ".txt"
	if err := fsx.WriteFileAtomic(filepath.Dir(art.OutputPath), name, []byte(text+"\n")); err != nil {
		u.d.Log.Warn(ctx, "write %s sidecar for %s: %v", kind, art.OutputPath, err)
	}
}
