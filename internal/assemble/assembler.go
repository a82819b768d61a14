// Package assemble builds the export PDF for a document: one page per page
// image, with an invisible, searchable text layer aligned to the recognized
// word boxes. When a document was imported from a vector PDF and never
// visually edited, the original file is returned unmodified to preserve
// vector fidelity.
package assemble

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"codeberg.org/go-pdf/fpdf"

	"github.com/MeKo-Tech/scandoc/internal/document"
	"github.com/MeKo-Tech/scandoc/internal/filter"
	"github.com/MeKo-Tech/scandoc/internal/geometry"
)

// Export failure conditions, surfaced to the caller as typed errors.
var (
	ErrMissingImage = errors.New("page image is missing")
	ErrEmbedFailed  = errors.New("could not embed page image")
	ErrSerialize    = errors.New("could not write PDF")
)

// overlayFont is a PDF core font; it needs no embedding, so the text layer
// cannot fail on font data.
const overlayFont = "Helvetica"

// Assembler renders documents to PDF files.
type Assembler struct {
	// Filter renders page images with their appearance settings applied.
	Filter filter.Processor

	// TempDir receives intermediate page renders; empty means the system
	// temp directory.
	TempDir string
}

// New returns an assembler using the given image filter collaborator.
func New(f filter.Processor) *Assembler {
	return &Assembler{Filter: f}
}

// Export writes the document's PDF to outPath and returns the path. The
// file appears at outPath only on success; failures leave no partial file
// behind.
func (a *Assembler) Export(ctx context.Context, doc *document.Document, outPath string) (string, error) {
	if len(doc.Pages) == 0 {
		return "", fmt.Errorf("document %s has no pages", doc.ID)
	}

	if doc.CanUseOriginalPDF() {
		if err := copyFile(doc.OriginalPDFPath, outPath); err == nil {
			slog.Debug("export used original PDF", "document_id", doc.ID)
			return outPath, nil
		}
		// Soft miss: the referenced file is gone, rebuild from images.
		slog.Warn("original PDF unavailable, rebuilding",
			"document_id", doc.ID, "path", doc.OriginalPDFPath)
	}

	return a.rebuild(ctx, doc, outPath)
}

func (a *Assembler) rebuild(ctx context.Context, doc *document.Document, outPath string) (string, error) {
	workDir, err := os.MkdirTemp(a.TempDir, "scandoc-export-*")
	if err != nil {
		return "", fmt.Errorf("create export work directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	profile := doc.Profile()
	pdf := fpdf.New("P", "pt", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// The text-only fallback tier has no real coordinates; never draw an
	// overlay from it.
	overlay := doc.OCRStatus == document.OCRDone && doc.HasOverlayWords()

	for i := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := &doc.Pages[i]

		imgPath, err := a.resolvePageImage(ctx, page, profile, workDir)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i+1, err)
		}
		w, h, err := imageSize(imgPath)
		if err != nil {
			return "", fmt.Errorf("page %d: %w: %v", i+1, ErrMissingImage, err)
		}

		// One PDF point per image pixel; the overlay transform below uses
		// the same scale.
		pageW, pageH := float64(w), float64(h)
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: pageW, Ht: pageH})
		if err := embedPageImage(pdf, imgPath, i, pageW, pageH); err != nil {
			return "", fmt.Errorf("page %d: %w", i+1, err)
		}

		if overlay && !page.OCRBoxesMissing && len(page.OCRWords) > 0 {
			drawOverlay(pdf, tr, page, pageW, pageH)
		}
	}

	if pdf.Err() {
		return "", fmt.Errorf("%w: %v", ErrSerialize, pdf.Error())
	}
	if err := writePDF(pdf, outPath); err != nil {
		return "", err
	}
	return outPath, nil
}

// resolvePageImage returns the final rendered image for a page: the cached
// processed render when present, otherwise a fresh render with the page's
// appearance settings and the export profile applied.
func (a *Assembler) resolvePageImage(
	ctx context.Context,
	page *document.Page,
	profile document.QualityProfile,
	workDir string,
) (string, error) {
	if page.ProcessedURI != "" {
		if _, err := os.Stat(page.ProcessedURI); err == nil {
			return page.ProcessedURI, nil
		}
		slog.Warn("processed page image missing, re-rendering", "page_id", page.ID)
	}
	if _, err := os.Stat(page.URI); err != nil {
		return "", fmt.Errorf("%w: %s", ErrMissingImage, page.URI)
	}

	mode := page.Filter
	if profile.Grayscale && mode == document.FilterColor {
		mode = document.FilterGrayscale
	}
	out, err := a.Filter.Process(ctx, page.URI, filter.Options{
		Filter:       mode,
		Rotation:     page.Rotation,
		AutoContrast: page.AutoContrast,
		MaxDimension: profile.MaxDimension,
		JPEGQuality:  profile.JPEGQuality,
	})
	if err != nil {
		return "", fmt.Errorf("render page image: %w", err)
	}
	// Keep fresh renders inside the export work dir so they are cleaned
	// up; a filter that returned the source untouched stays where it is.
	if out != page.URI {
		staged := filepath.Join(workDir, filepath.Base(out))
		if err := os.Rename(out, staged); err == nil {
			return staged, nil
		}
	}
	return out, nil
}

// drawOverlay places every word of the page as invisible text. The
// transform uses the raster dimensions recorded on each word, not the
// page's current dimensions: the image may have been resized since
// recognition. A single word's failure never aborts the page.
func drawOverlay(pdf *fpdf.Fpdf, tr func(string) string, page *document.Page, pageW, pageH float64) {
	pdf.SetAlpha(0.0, "Normal")
	defer pdf.SetAlpha(1.0, "Normal")
	pdf.SetTextColor(0, 0, 0)

	dest := geometry.Rect{X: 0, Y: 0, Width: pageW, Height: pageH}
	for _, word := range page.OCRWords {
		if word.Text == "" || word.Box.Width <= 0 || word.Box.Height <= 0 {
			continue
		}
		pl := geometry.BoxToPDFRect(
			geometry.Rect{X: word.Box.X, Y: word.Box.Y, Width: word.Box.Width, Height: word.Box.Height},
			float64(word.ImageWidth), float64(word.ImageHeight),
			dest,
		)
		pdf.SetFont(overlayFont, "", pl.FontSize)
		// fpdf's Y axis runs top-down; convert from the bottom-up PDF
		// placement.
		baselineY := pageH - (pl.Y + pl.Baseline)
		pdf.Text(pl.X, baselineY, tr(word.Text))

		if pdf.Err() {
			slog.Warn("overlay word skipped", "page_id", page.ID,
				"text", word.Text, "error", pdf.Error())
			pdf.ClearError()
		}
	}
}

func imageSize(path string) (int, int, error) {
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

// writePDF serializes to a temp file next to outPath and renames it into
// place, so a failed export never leaves a partial file at the caller's
// path.
func writePDF(pdf *fpdf.Fpdf, outPath string) error {
	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	tmp, err := os.CreateTemp(dir, ".export-*.pdf")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	tmpName := tmp.Name()
	if err := pdf.Output(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	if err := os.Rename(tmpName, outPath); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o640)
}
