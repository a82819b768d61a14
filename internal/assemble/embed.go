package assemble

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"

	"codeberg.org/go-pdf/fpdf"

	_ "golang.org/x/image/bmp"
)

// embedPageImage draws the page image across the whole page. JPEG data is
// embedded as-is; everything else is transcoded to JPEG first. If the JPEG
// embed fails, one PNG fallback is attempted before giving up.
func embedPageImage(pdf *fpdf.Fpdf, imgPath string, pageIndex int, w, h float64) error {
	data, err := os.ReadFile(imgPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMissingImage, err)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrEmbedFailed, imgPath, err)
	}

	payload := data
	imageType := "JPEG"
	if format != "jpeg" {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
			return fmt.Errorf("%w: transcode %s: %v", ErrEmbedFailed, imgPath, err)
		}
		payload = buf.Bytes()
	}

	name := fmt.Sprintf("page-%d", pageIndex)
	if tryEmbed(pdf, name, imageType, payload, w, h) {
		return nil
	}

	// Fallback encoding: PNG, attempted once.
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("%w: png fallback for %s: %v", ErrEmbedFailed, imgPath, err)
	}
	if tryEmbed(pdf, name+"-png", "PNG", buf.Bytes(), w, h) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrEmbedFailed, imgPath)
}

// tryEmbed registers and places one image, clearing the document error
// state on failure so a fallback attempt can proceed.
func tryEmbed(pdf *fpdf.Fpdf, name, imageType string, data []byte, w, h float64) bool {
	opts := fpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if pdf.Err() {
		pdf.ClearError()
		return false
	}
	pdf.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")
	if pdf.Err() {
		pdf.ClearError()
		return false
	}
	return true
}
