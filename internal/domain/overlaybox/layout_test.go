package overlaybox

import (
	"strings"
	"testing"

	"clipforge/internal/types"
)

// charMeasure approximates a monospace face: 20px per rune.
func charMeasure(s string) float64 { return float64(len(s)) * 20 }

func TestWrap_LongTitleBreaksIntoLines(t *testing.T) {
	t.Parallel()

	text := "A very long title that needs wrapping across several words"
	l := Wrap(text, 1080, 0.9, 56, 24, charMeasure)

	if len(l.Lines) < 2 {
		t.Fatalf("expected at least 2 lines, got %d: %v", len(l.Lines), l.Lines)
	}
	maxAllowed := 0.9*1080 - 2*24
	for _, line := range l.Lines {
		if charMeasure(line) > maxAllowed {
			t.Fatalf("line %q wider than limit %v", line, maxAllowed)
		}
	}
	if l.Width > 0.9*1080+2*24 {
		t.Fatalf("box width %v exceeds limit plus padding", l.Width)
	}
	if got := strings.Join(l.Lines, " "); got != text {
		t.Fatalf("wrapping lost words: %q", got)
	}
}

func TestWrap_BoxHeightFollowsLineCount(t *testing.T) {
	t.Parallel()

	l := Wrap("one two three four five six seven eight nine ten", 500, 0.9, 40, 10, charMeasure)
	wantHeight := float64(len(l.Lines))*(40*LineHeightFactor) + 2*10
	if diff := l.Height - wantHeight; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("height %v, want %v for %d lines", l.Height, wantHeight, len(l.Lines))
	}
}

func TestWrap_OversizedWordKeepsOwnLine(t *testing.T) {
	t.Parallel()

	// 40 runes * 20px = 800px, far wider than the 0.5*400 limit.
	giant := strings.Repeat("x", 40)
	l := Wrap("short "+giant+" tail", 400, 0.5, 30, 10, charMeasure)

	found := false
	for _, line := range l.Lines {
		if line == giant {
			found = true
		}
	}
	if !found {
		t.Fatalf("oversized word was not isolated on its own line: %v", l.Lines)
	}
	// Width stays capped even though the word overflows.
	if limit := 0.5*400 - 2*10; l.Width > limit+2*10 {
		t.Fatalf("box width %v not capped at %v", l.Width, limit+2*10)
	}
}

func TestWrap_EmptyText(t *testing.T) {
	t.Parallel()

	l := Wrap("   ", 1080, 0.9, 56, 24, charMeasure)
	if len(l.Lines) != 0 {
		t.Fatalf("expected no lines, got %v", l.Lines)
	}
}

func TestPlace_Positions(t *testing.T) {
	t.Parallel()

	const (
		frameW = 1080.0
		frameH = 1920.0
		boxW   = 600.0
		boxH   = 200.0
	)

	cases := []struct {
		name     string
		position types.OverlayPosition
		wantY    float64
	}{
		{name: "top", position: types.OverlayTop, wantY: 0.14*frameH - boxH/2},
		{name: "bottom", position: types.OverlayBottom, wantY: 0.925*frameH - boxH/2},
		{name: "center", position: types.OverlayCenter, wantY: 0.5*frameH - boxH/2},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			x, y := Place(frameW, frameH, boxW, boxH, tc.position)
			if x != (frameW-boxW)/2 {
				t.Fatalf("x = %v, want horizontally centered %v", x, (frameW-boxW)/2)
			}
			if y != tc.wantY {
				t.Fatalf("y = %v, want %v", y, tc.wantY)
			}
		})
	}
}

func TestPlace_ClampsInsideFrame(t *testing.T) {
	t.Parallel()

	// A tall box anchored at the bottom would poke out without clamping.
	_, y := Place(1080, 1920, 600, 1000, types.OverlayBottom)
	if y != 1920-1000 {
		t.Fatalf("y = %v, want clamped to %v", y, 1920-1000)
	}

	// A box wider than the frame clamps to x=0.
	x, _ := Place(1080, 1920, 1300, 200, types.OverlayCenter)
	if x != 0 {
		t.Fatalf("x = %v, want 0 for oversized box", x)
	}

	// Top anchor with a huge box clamps to the frame origin.
	_, y = Place(1080, 1920, 600, 1900, types.OverlayTop)
	if y != 0 {
		t.Fatalf("y = %v, want 0", y)
	}
}
