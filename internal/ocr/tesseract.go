package ocr

import (
	"context"
	"errors"
	"image"
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"golang.org/x/text/unicode/norm"

	// Page images may arrive in any of these formats.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// TesseractRecognizer is the text-only fallback adapter. It deliberately
// returns no word boxes: Tesseract's box quality on scanned phone photos is
// not good enough to anchor an invisible overlay, so the fallback tier only
// contributes searchable text.
type TesseractRecognizer struct {
	clientFactory func() *gosseract.Client
	languages     []string
}

// NewTesseractRecognizer returns a gosseract-backed fallback engine.
func NewTesseractRecognizer(languages []string) *TesseractRecognizer {
	return &TesseractRecognizer{
		clientFactory: gosseract.NewClient,
		languages:     languages,
	}
}

func (t *TesseractRecognizer) Recognize(ctx context.Context, imagePath string) (*PageResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, newError(ReasonTimeout, imagePath, err)
	}

	width, height, err := imageDimensions(imagePath)
	if err != nil {
		return nil, newError(ReasonEngine, imagePath, err)
	}

	c := t.clientFactory()
	defer func() { _ = c.Close() }()

	if err := c.SetImage(imagePath); err != nil {
		return nil, newError(ReasonEngine, imagePath, err)
	}
	if len(t.languages) > 0 {
		if err := c.SetLanguage(t.languages...); err != nil {
			return nil, newError(ReasonUnsupportedLanguage, imagePath, err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return nil, newError(ReasonEngine, imagePath, err)
	}
	text = norm.NFC.String(strings.TrimSpace(text))
	if text == "" {
		return nil, newError(ReasonNoResults, imagePath, errors.New("empty page"))
	}

	return &PageResult{
		FullText:     text,
		ImageWidth:   width,
		ImageHeight:  height,
		BoxesMissing: true,
	}, nil
}

func imageDimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
