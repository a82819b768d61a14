package ocr

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Box is a pixel-space bounding rectangle with a top-left origin.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Word is one recognized token together with the raster it was measured
// against. ImageWidth/ImageHeight belong to the word, not the page: the page
// image may be resized between recognition and export, and the box only
// makes sense relative to the dimensions recorded here.
type Word struct {
	Text        string  `json:"text"`
	Box         Box     `json:"box"`
	Confidence  float64 `json:"confidence"`
	ImageWidth  int     `json:"image_width"`
	ImageHeight int     `json:"image_height"`
}

// PageResult is the recognition output for one page image.
type PageResult struct {
	FullText    string `json:"full_text"`
	Words       []Word `json:"words"`
	ImageWidth  int    `json:"image_width"`
	ImageHeight int    `json:"image_height"`

	// BoxesMissing marks results from the text-only fallback tier. The
	// assembler must not draw an overlay for such pages because there are
	// no real coordinates to place it at.
	BoxesMissing bool `json:"boxes_missing,omitempty"`
}

// wirePage is the untrusted payload shape returned by a recognition service.
// It is converted exactly once, at the boundary, into a PageResult.
type wirePage struct {
	Width   int          `json:"width"`
	Height  int          `json:"height"`
	Regions []wireRegion `json:"regions"`
}

type wireRegion struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"rec_confidence"`
	Box        struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
		W float64 `json:"w"`
		H float64 `json:"h"`
	} `json:"box"`
}

// parseWirePage validates and converts a service payload into the typed
// model. It fails fast on impossible geometry instead of letting bad boxes
// reach the assembler.
func parseWirePage(p wirePage) (*PageResult, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("non-positive image dimensions %dx%d", p.Width, p.Height)
	}

	words := make([]Word, 0, len(p.Regions))
	var sb strings.Builder
	for i, r := range p.Regions {
		text := norm.NFC.String(strings.TrimSpace(r.Text))
		if text == "" {
			continue
		}
		if r.Box.W < 0 || r.Box.H < 0 {
			return nil, fmt.Errorf("region %d has negative box size %gx%g", i, r.Box.W, r.Box.H)
		}
		if r.Confidence < 0 || r.Confidence > 1 {
			return nil, fmt.Errorf("region %d has confidence %g outside [0,1]", i, r.Confidence)
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
		words = append(words, Word{
			Text:        text,
			Box:         Box{X: r.Box.X, Y: r.Box.Y, Width: r.Box.W, Height: r.Box.H},
			Confidence:  r.Confidence,
			ImageWidth:  p.Width,
			ImageHeight: p.Height,
		})
	}

	return &PageResult{
		FullText:    sb.String(),
		Words:       words,
		ImageWidth:  p.Width,
		ImageHeight: p.Height,
	}, nil
}
