package usecase

import "fmt"

// ValidationError reports bad request parameters. Surfaced before any
// extraction begins.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "invalid request: " + e.Reason }

// ExtractionError reports a transcoder failure while producing a segment.
// Fatal to the whole request: partial artifacts are discarded.
type ExtractionError struct {
	WindowIndex int
	Err         error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract window %d: %v", e.WindowIndex, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// EnrichmentStageError reports a failed enrichment stage. Never bubbles:
// it is logged at the stage boundary and the artifact keeps whatever
// fields earlier stages produced.
type EnrichmentStageError struct {
	Stage string
	Err   error
}

func (e *EnrichmentStageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *EnrichmentStageError) Unwrap() error { return e.Err }

// ResourceError reports a filesystem failure. Fatal during extraction;
// enrichment treats its own resource failures as stage-local.
type ResourceError struct {
	Op   string
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }
