// Package extract turns planned windows into standalone portrait clips via
// the transcoder port. Extraction is strictly sequential per request to
// bound the external encoder load.
package extract

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"clipforge/internal/ports"
	"clipforge/internal/types"
)

type Extractor struct {
	video     ports.Transcoder
	outDir    string
	targetW   int
	targetH   int
	fillColor string
}

func New(video ports.Transcoder, outDir string, targetW, targetH int, fillColor string) *Extractor {
	return &Extractor{
		video:     video,
		outDir:    outDir,
		targetW:   targetW,
		targetH:   targetH,
		fillColor: fillColor,
	}
}

// Extract cuts one window out of the source and letterboxes it into the
// fixed target frame. The artifact starts with only Window and OutputPath
// populated; enrichment fills the rest later.
func (e *Extractor) Extract(ctx context.Context, src types.SourceAsset, w types.SegmentWindow) (*types.SegmentArtifact, error) {
	name := fmt.Sprintf("segment_%03d_%s.mp4", w.Index+1, uuid.NewString()[:8])
	outPath := filepath.Join(e.outDir, name)

	err := e.video.TrimScalePad(ctx, src.Path, w.StartSec, w.DurationSec(), e.targetW, e.targetH, e.fillColor, outPath)
	if err != nil {
		return nil, err
	}
	return &types.SegmentArtifact{Window: w, OutputPath: outPath}, nil
}
