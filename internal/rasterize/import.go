package rasterize

import (
	"context"
	"fmt"
	"image"
	"os"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/MeKo-Tech/scandoc/internal/document"
	"github.com/MeKo-Tech/scandoc/internal/store"
)

// ImportPDF converts a vector PDF into a stored document. The original file
// reference is preserved so export can return it unmodified while the
// document stays visually untouched.
func ImportPDF(ctx context.Context, st store.Store, r Rasterizer, title, pdfPath, pagesDir string) (*document.Document, error) {
	if _, err := os.Stat(pdfPath); err != nil {
		return nil, fmt.Errorf("import %s: %w", pdfPath, err)
	}

	imagePaths, err := r.Rasterize(ctx, pdfPath, pagesDir)
	if err != nil {
		return nil, fmt.Errorf("rasterize %s: %w", pdfPath, err)
	}

	doc := document.New(title)
	doc.OriginalPDFPath = pdfPath
	doc.ImportedPageCount = len(imagePaths)
	for _, p := range imagePaths {
		page := document.NewPage(p)
		if w, h, derr := decodeDimensions(p); derr == nil {
			page.Width, page.Height = w, h
		}
		doc.Pages = append(doc.Pages, page)
	}

	if err := store.Put(ctx, st, doc); err != nil {
		return nil, fmt.Errorf("store imported document: %w", err)
	}
	return doc, nil
}

// ImportImages builds a document straight from scanned page images.
func ImportImages(ctx context.Context, st store.Store, title string, imagePaths []string) (*document.Document, error) {
	if len(imagePaths) == 0 {
		return nil, fmt.Errorf("import %q: no page images", title)
	}

	doc := document.New(title)
	for _, p := range imagePaths {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("page image %s: %w", p, err)
		}
		page := document.NewPage(p)
		if w, h, derr := decodeDimensions(p); derr == nil {
			page.Width, page.Height = w, h
		}
		doc.Pages = append(doc.Pages, page)
	}

	if err := store.Put(ctx, st, doc); err != nil {
		return nil, fmt.Errorf("store imported document: %w", err)
	}
	return doc, nil
}

func decodeDimensions(path string) (int, int, error) {
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
