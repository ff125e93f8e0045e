// Package overlay renders a title text box to an image and burns it into a
// video through the transcoder port. Layout math lives in
// internal/domain/overlaybox.
package overlay

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/google/uuid"

	"clipforge/internal/domain/overlaybox"
	"clipforge/internal/ports"
	"clipforge/internal/types"
)

const (
	boxCornerRadius = 12.0
	boxOpacity      = 0.7
)

type Options struct {
	FrameWidth       int
	FrameHeight      int
	FontPath         string
	FontSize         float64
	Padding          float64
	MaxWidthFraction float64
	Position         types.OverlayPosition
}

type Compositor struct {
	video ports.Transcoder
	opts  Options
}

func New(video ports.Transcoder, opts Options) *Compositor {
	return &Compositor{video: video, opts: opts}
}

// RenderTextBox word-wraps text and renders just the title box (not a full
// frame) into a PNG under dir. Returns the image path and its pixel size.
func (c *Compositor) RenderTextBox(text, dir string) (string, int, int, error) {
	// Measure with a throwaway context so wrapping sees the real font.
	mc := gg.NewContext(1, 1)
	if err := mc.LoadFontFace(c.opts.FontPath, c.opts.FontSize); err != nil {
		return "", 0, 0, fmt.Errorf("load font %s: %w", c.opts.FontPath, err)
	}
	measure := func(s string) float64 {
		w, _ := mc.MeasureString(s)
		return w
	}

	l := overlaybox.Wrap(text, float64(c.opts.FrameWidth), c.opts.MaxWidthFraction, c.opts.FontSize, c.opts.Padding, measure)
	if len(l.Lines) == 0 {
		return "", 0, 0, errors.New("empty title text")
	}

	w := int(math.Ceil(l.Width))
	h := int(math.Ceil(l.Height))
	dc := gg.NewContext(w, h)
	if err := dc.LoadFontFace(c.opts.FontPath, c.opts.FontSize); err != nil {
		return "", 0, 0, fmt.Errorf("load font %s: %w", c.opts.FontPath, err)
	}

	dc.SetRGBA(0, 0, 0, boxOpacity)
	dc.DrawRoundedRectangle(0, 0, float64(w), float64(h), boxCornerRadius)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	lineHeight := c.opts.FontSize * overlaybox.LineHeightFactor
	for i, line := range l.Lines {
		y := c.opts.Padding + (float64(i)+0.5)*lineHeight
		dc.DrawStringAnchored(line, float64(w)/2, y, 0.5, 0.35)
	}

	path := filepath.Join(dir, fmt.Sprintf(".titlebox-%s.png", uuid.NewString()[:8]))
	if err := dc.SavePNG(path); err != nil {
		return "", 0, 0, fmt.Errorf("save text box: %w", err)
	}
	return path, w, h, nil
}

// CompositeOverlay burns the image into srcVideo at (x, y) and writes the
// result to dstVideo. dstVideo is only touched on success: the transcoder
// writes to a sibling temp file which is renamed into place.
func (c *Compositor) CompositeOverlay(ctx context.Context, srcVideo, imagePath string, x, y int, dstVideo string) error {
	tmpOut := filepath.Join(
		filepath.Dir(dstVideo),
		fmt.Sprintf(".overlay-%s.mp4", uuid.NewString()[:8]),
	)
	if err := c.video.OverlayImage(ctx, srcVideo, imagePath, x, y, tmpOut); err != nil {
		_ = os.Remove(tmpOut)
		return err
	}
	return os.Rename(tmpOut, dstVideo)
}

// ApplyTitle renders the title box, places it and composites it from
// srcVideo into dstVideo. The temp image is removed whether compositing
// succeeds or fails.
func (c *Compositor) ApplyTitle(ctx context.Context, srcVideo, dstVideo, title string) error {
	imgPath, w, h, err := c.RenderTextBox(title, filepath.Dir(dstVideo))
	if err != nil {
		return err
	}
	defer os.Remove(imgPath)

	x, y := overlaybox.Place(
		float64(c.opts.FrameWidth), float64(c.opts.FrameHeight),
		float64(w), float64(h),
		c.opts.Position,
	)
	return c.CompositeOverlay(ctx, srcVideo, imgPath, int(x), int(y), dstVideo)
}
