// Package overlaybox holds the pure layout math for the on-video title
// box: greedy word wrapping, box sizing and frame placement. Rendering and
// compositing live in internal/overlay.
package overlaybox

import (
	"strings"

	"clipforge/internal/types"
)

// LineHeightFactor converts a font size into a line height.
const LineHeightFactor = 1.2

// MeasureFunc reports the rendered width of a string in pixels for the
// active font face. Injected so layout stays testable without a font file.
type MeasureFunc func(s string) float64

// Layout describes a wrapped title box ready for rendering.
type Layout struct {
	Lines  []string
	Width  float64
	Height float64
}

// Wrap builds lines greedily: words are appended while the rendered line
// width stays within maxWidthFraction*frameWidth - 2*padding. A single word
// wider than the limit keeps its own line and may exceed the bound; words
// are never cut. Box width is capped at the limit plus padding.
func Wrap(text string, frameWidth, maxWidthFraction, fontSize, padding float64, measure MeasureFunc) Layout {
	limit := maxWidthFraction*frameWidth - 2*padding

	words := strings.Fields(text)
	var lines []string
	var cur string
	for _, word := range words {
		if cur == "" {
			cur = word
			continue
		}
		if measure(cur+" "+word) <= limit {
			cur += " " + word
			continue
		}
		lines = append(lines, cur)
		cur = word
	}
	if cur != "" {
		lines = append(lines, cur)
	}

	var longest float64
	for _, line := range lines {
		if w := measure(line); w > longest {
			longest = w
		}
	}
	if longest > limit {
		longest = limit
	}

	lineHeight := fontSize * LineHeightFactor
	return Layout{
		Lines:  lines,
		Width:  longest + 2*padding,
		Height: float64(len(lines))*lineHeight + 2*padding,
	}
}

// Vertical anchors as a fraction of frame height. Top sits inside the upper
// letterbox bar produced by the pad step of extraction.
const (
	topAnchor    = 0.14
	bottomAnchor = 0.925
	centerAnchor = 0.5
)

// Place returns the top-left corner for a box inside a frame. The box is
// horizontally centered and vertically anchored by position; both axes are
// clamped so the box never exits the frame.
func Place(frameWidth, frameHeight, boxWidth, boxHeight float64, position types.OverlayPosition) (x, y float64) {
	x = clamp((frameWidth-boxWidth)/2, 0, frameWidth-boxWidth)

	var anchor float64
	switch position {
	case types.OverlayBottom:
		anchor = bottomAnchor
	case types.OverlayCenter:
		anchor = centerAnchor
	default:
		anchor = topAnchor
	}
	y = clamp(anchor*frameHeight-boxHeight/2, 0, frameHeight-boxHeight)
	return x, y
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
