// Package rasterize turns an existing PDF into per-page images so it can be
// managed like a scanned document. Scanned PDFs carry one full-page image
// per page, which pdfcpu extracts directly.
package rasterize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Rasterizer converts a PDF file into ordered page image paths written under
// outDir.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdfPath string, outDir string) ([]string, error)
}

// PDFCPU implements Rasterizer using pdfcpu's image extraction.
type PDFCPU struct{}

// PageCount returns the number of pages in the PDF.
func (PDFCPU) PageCount(pdfPath string) (int, error) {
	n, err := api.PageCountFile(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("count pages of %s: %w", pdfPath, err)
	}
	return n, nil
}

func (PDFCPU) Rasterize(ctx context.Context, pdfPath string, outDir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, fmt.Errorf("create page image directory: %w", err)
	}

	tempDir, err := os.MkdirTemp("", "scandoc-extract-*")
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	if err := api.ExtractImagesFile(pdfPath, tempDir, nil, nil); err != nil {
		return nil, fmt.Errorf("extract page images from %s: %w", pdfPath, err)
	}

	byPage, err := collectPageImages(tempDir)
	if err != nil {
		return nil, err
	}
	if len(byPage) == 0 {
		return nil, fmt.Errorf("%s contains no extractable page images", pdfPath)
	}

	pages := make([]int, 0, len(byPage))
	for p := range byPage {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	out := make([]string, 0, len(pages))
	for _, p := range pages {
		src := byPage[p]
		dst := filepath.Join(outDir, fmt.Sprintf("page-%04d%s", p, filepath.Ext(src)))
		if err := copyFile(src, dst); err != nil {
			return nil, fmt.Errorf("stage page %d image: %w", p, err)
		}
		out = append(out, dst)
	}
	return out, nil
}

// collectPageImages maps page number to the first extracted image of that
// page. pdfcpu names extracted files page_<num>_<object>.<ext> (older
// releases used page_<num>_image_<idx>).
func collectPageImages(dir string) (map[int]string, error) {
	result := make(map[int]string)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		pageNum, perr := parsePageFromFilename(info.Name())
		if perr != nil {
			return nil
		}
		if _, ok := result[pageNum]; !ok {
			result[pageNum] = path
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect extracted images: %w", err)
	}
	return result, nil
}

func parsePageFromFilename(filename string) (int, error) {
	if !strings.HasPrefix(filename, "page_") {
		return 0, errors.New("not a page file")
	}
	parts := strings.Split(filename, "_")
	if len(parts) < 2 {
		return 0, errors.New("invalid filename format")
	}
	pageNum, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, errors.New("invalid page number")
	}
	return pageNum, nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o640)
}
