package rasterize

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/scandoc/internal/store"
)

func TestParsePageFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     int
		wantErr  bool
	}{
		{"standard form", "page_1_image_1.png", 1, false},
		{"two digit page", "page_12_Im0.jpg", 12, false},
		{"object-name form", "page_3_Im1.png", 3, false},
		{"no prefix", "thumbnail_1.png", 0, true},
		{"garbage page number", "page_x_image_1.png", 0, true},
		{"bare prefix", "page_", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePageFromFilename(tt.filename)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCollectPageImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"page_2_image_1.png", "page_1_image_1.png", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o640))
	}

	byPage, err := collectPageImages(dir)
	require.NoError(t, err)
	require.Len(t, byPage, 2)
	assert.Contains(t, byPage[1], "page_1_image_1.png")
	assert.Contains(t, byPage[2], "page_2_image_1.png")
}

func TestCollectPageImages_KeepsFirstImagePerPage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page_1_image_1.png"), []byte("x"), 0o640))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page_1_image_2.png"), []byte("y"), 0o640))

	byPage, err := collectPageImages(dir)
	require.NoError(t, err)
	require.Len(t, byPage, 1)
}

// fakeRasterizer writes n page images and returns their paths.
type fakeRasterizer struct{ pages int }

func (f fakeRasterizer) Rasterize(_ context.Context, _ string, outDir string) ([]string, error) {
	// The real Rasterizer creates outDir; the fake must honor that contract.
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, err
	}
	var out []string
	for i := 1; i <= f.pages; i++ {
		p := filepath.Join(outDir, "page.png")
		if i > 1 {
			p = filepath.Join(outDir, "page2.png")
		}
		if err := imaging.Save(imaging.New(60, 80, image.White), p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func TestImportPDF(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "scan.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.4"), 0o640))

	ms := store.NewMemStore()
	doc, err := ImportPDF(t.Context(), ms, fakeRasterizer{pages: 2}, "Scan", pdfPath, filepath.Join(dir, "pages"))
	require.NoError(t, err)

	assert.Equal(t, pdfPath, doc.OriginalPDFPath)
	assert.Equal(t, 2, doc.ImportedPageCount)
	require.Len(t, doc.Pages, 2)
	assert.Equal(t, 60, doc.Pages[0].Width)
	assert.Equal(t, 80, doc.Pages[0].Height)

	stored, err := store.Get(t.Context(), ms, doc.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Pages, 2)
}

func TestImportPDF_MissingFile(t *testing.T) {
	ms := store.NewMemStore()
	_, err := ImportPDF(t.Context(), ms, fakeRasterizer{}, "Scan",
		filepath.Join(t.TempDir(), "missing.pdf"), t.TempDir())
	assert.Error(t, err)
}

func TestImportImages(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.png")
	require.NoError(t, imaging.Save(imaging.New(30, 40, image.White), p1))

	ms := store.NewMemStore()
	doc, err := ImportImages(t.Context(), ms, "Scans", []string{p1})
	require.NoError(t, err)
	assert.Empty(t, doc.OriginalPDFPath, "image imports have no original PDF")
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, 30, doc.Pages[0].Width)
}

func TestImportImages_Empty(t *testing.T) {
	_, err := ImportImages(t.Context(), store.NewMemStore(), "Scans", nil)
	assert.Error(t, err)
}
