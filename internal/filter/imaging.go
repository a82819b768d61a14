package filter

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"

	"github.com/MeKo-Tech/scandoc/internal/document"
)

// bwContrast pushes a grayscale image close to binary without a real
// threshold pass; scanned text stays readable while the background drops
// out.
const bwContrast = 85

// ImagingProcessor implements Processor on top of disintegration/imaging.
// Rendered files are written as JPEG next to OutDir (or next to the source
// when OutDir is empty).
type ImagingProcessor struct {
	OutDir string
}

func (p *ImagingProcessor) Process(ctx context.Context, imagePath string, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	img, err := imaging.Open(imagePath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("open image %s: %w", imagePath, err)
	}

	img = applyRotation(img, opts.Rotation)
	img = applyFilter(img, opts.Filter)
	if opts.AutoContrast {
		img = imaging.AdjustSigmoid(img, 0.5, 5.0)
	}
	if opts.MaxDimension > 0 {
		b := img.Bounds()
		if b.Dx() > opts.MaxDimension || b.Dy() > opts.MaxDimension {
			img = imaging.Fit(img, opts.MaxDimension, opts.MaxDimension, imaging.Lanczos)
		}
	}

	outPath := p.outputPath(imagePath)
	quality := opts.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = 75
	}
	if err := imaging.Save(img, outPath, imaging.JPEGQuality(quality)); err != nil {
		return "", fmt.Errorf("save rendered image: %w", err)
	}
	return outPath, nil
}

// applyRotation rotates clockwise by the page's quarter turn. imaging
// rotates counter-clockwise, hence the swapped 90/270 calls.
func applyRotation(img image.Image, r document.Rotation) *image.NRGBA {
	switch r {
	case document.Rotate90:
		return imaging.Rotate270(img)
	case document.Rotate180:
		return imaging.Rotate180(img)
	case document.Rotate270:
		return imaging.Rotate90(img)
	default:
		return imaging.Clone(img)
	}
}

func applyFilter(img image.Image, mode document.FilterMode) *image.NRGBA {
	switch mode {
	case document.FilterGrayscale:
		return imaging.Grayscale(img)
	case document.FilterBW:
		return imaging.AdjustContrast(imaging.Grayscale(img), bwContrast)
	default:
		return imaging.Clone(img)
	}
}

func (p *ImagingProcessor) outputPath(imagePath string) string {
	dir := p.OutDir
	if dir == "" {
		dir = filepath.Dir(imagePath)
	}
	base := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
	return filepath.Join(dir, base+"-processed.jpg")
}
