package geometry

import "math"

const (
	// MinOverlayFontSize is the smallest font size (in points) used for
	// overlay text, so that very short boxes still produce selectable glyphs.
	MinOverlayFontSize = 6.0

	// overlayFontScale shrinks the font slightly below the box height so
	// ascenders and descenders stay inside the recognized box.
	overlayFontScale = 0.9

	// baselineFraction positions the text baseline above the box bottom.
	baselineFraction = 0.2
)

// Rect is an axis-aligned rectangle. Depending on context the origin is
// either the image top-left (pixel space) or the page bottom-left (PDF
// point space).
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Placement describes where and how to draw one piece of overlay text on a
// PDF page: the pen position (PDF point space, bottom-left origin), the font
// size, and the baseline offset already folded into Y.
type Placement struct {
	X        float64
	Y        float64
	Width    float64
	Height   float64
	FontSize float64
	Baseline float64
}

// BoxToPDFRect maps a pixel-space box, defined against a srcW x srcH raster
// with a top-left origin, into PDF point space within dest, the region where
// that raster is drawn on the page. X and Y are scaled independently, then
// the Y axis is flipped because the PDF origin is the page bottom-left.
//
// Zero-sized source dimensions are treated as scale 1 rather than producing
// NaN or Inf.
func BoxToPDFRect(box Rect, srcW, srcH float64, dest Rect) Placement {
	scaleX := 1.0
	if srcW > 0 {
		scaleX = dest.Width / srcW
	}
	scaleY := 1.0
	if srcH > 0 {
		scaleY = dest.Height / srcH
	}

	w := box.Width * scaleX
	h := box.Height * scaleY
	x := dest.X + box.X*scaleX
	// Image Y grows downward; PDF Y grows upward. The box bottom edge in
	// image space (y+height) becomes the rectangle's low Y edge on the page.
	y := dest.Y + (dest.Height - (box.Y+box.Height)*scaleY)

	size := math.Max(h*overlayFontScale, MinOverlayFontSize)
	return Placement{
		X:        x,
		Y:        y,
		Width:    w,
		Height:   h,
		FontSize: size,
		Baseline: size * baselineFraction,
	}
}

// ContainRect fits content of size contentW x contentH into a box of size
// boxW x boxH, preserving aspect ratio and centering the result. Degenerate
// inputs return a zero rect.
func ContainRect(contentW, contentH, boxW, boxH float64) Rect {
	if contentW <= 0 || contentH <= 0 || boxW <= 0 || boxH <= 0 {
		return Rect{}
	}
	scale := math.Min(boxW/contentW, boxH/contentH)
	w := contentW * scale
	h := contentH * scale
	return Rect{
		X:      (boxW - w) / 2,
		Y:      (boxH - h) / 2,
		Width:  w,
		Height: h,
	}
}
