package types

// MediaInfo is what the transcoder reports about a media file.
type MediaInfo struct {
	DurationSec     float64
	Width           int
	Height          int
	ContainerFormat string
	SizeBytes       int64
}

// SourceAsset describes the probed input video. Read-only after probing;
// the pipeline never mutates it.
type SourceAsset struct {
	Path            string
	DurationSec     float64
	Width           int
	Height          int
	ContainerFormat string
	SizeBytes       int64
}

// SegmentWindow is one planned [Start, End) range inside the source.
// Immutable once produced by the planner. Times are seconds, rounded to
// two decimal places.
type SegmentWindow struct {
	Index    int
	StartSec float64
	EndSec   float64
}

func (w SegmentWindow) DurationSec() float64 { return w.EndSec - w.StartSec }

// SegmentArtifact is the extracted segment plus whatever enrichment
// succeeded. Created by the extractor with only Window/OutputPath set;
// enrichment stages fill optional fields one at a time.
type SegmentArtifact struct {
	Window     SegmentWindow
	OutputPath string

	TranscriptText    string
	SummaryText       string
	SocialTitle       string
	SocialDescription string

	// OverlayApplied is true iff the video at OutputPath currently shows
	// exactly one title box. OriginalBackupPath, when set, points to a
	// byte-for-byte copy of the pre-overlay video and is the only source
	// the compositor ever reads from.
	OverlayApplied     bool
	OriginalBackupPath string
}

// TranscribeOptions tune a transcription request.
type TranscribeOptions struct {
	Language string
	Prompt   string
}

// TranscriptResult is the transcription provider output.
type TranscriptResult struct {
	Text        string
	Language    string
	DurationSec float64
}

// SocialContent is a short title plus a longer description for posting.
type SocialContent struct {
	Title       string
	Description string
}

// OverlayPosition selects the vertical band for the title box.
type OverlayPosition string

const (
	OverlayTop    OverlayPosition = "top"
	OverlayBottom OverlayPosition = "bottom"
	OverlayCenter OverlayPosition = "center"
)

type Manifest struct {
	Source   string            `json:"source"`
	Segments []ManifestSegment `json:"segments"`
}

type ManifestSegment struct {
	ID          string  `json:"id"`
	StartSec    float64 `json:"start_sec"`
	EndSec      float64 `json:"end_sec"`
	File        string  `json:"file"`
	Transcript  string  `json:"transcript,omitempty"`
	Summary     string  `json:"summary,omitempty"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Overlay     bool    `json:"overlay"`
}
