package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/scandoc/internal/ocr"
)

func TestNewDocument(t *testing.T) {
	d := New("Receipts")
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, "Receipts", d.Title)
	assert.Equal(t, OCRIdle, d.OCRStatus)
	assert.Empty(t, d.Pages)
}

func TestRotationValid(t *testing.T) {
	for _, r := range []Rotation{Rotate0, Rotate90, Rotate180, Rotate270} {
		assert.True(t, r.Valid(), "rotation %d", r)
	}
	assert.False(t, Rotation(45).Valid())
	assert.False(t, Rotation(-90).Valid())
}

func TestPageHasVisualEdit(t *testing.T) {
	p := NewPage("scan.jpg")
	assert.False(t, p.HasVisualEdit())

	p.Rotation = Rotate90
	assert.True(t, p.HasVisualEdit())

	p = NewPage("scan.jpg")
	p.Filter = FilterBW
	assert.True(t, p.HasVisualEdit())

	p = NewPage("scan.jpg")
	p.AutoContrast = true
	assert.True(t, p.HasVisualEdit())
}

func TestPageRenderURI(t *testing.T) {
	p := NewPage("raw.jpg")
	assert.Equal(t, "raw.jpg", p.RenderURI())

	p.ProcessedURI = "processed.jpg"
	assert.Equal(t, "processed.jpg", p.RenderURI())
}

func TestCanUseOriginalPDF(t *testing.T) {
	d := New("Imported")
	assert.False(t, d.CanUseOriginalPDF(), "no original reference")

	d.OriginalPDFPath = "/tmp/original.pdf"
	d.ImportedPageCount = 2
	d.Pages = []Page{NewPage("p1.png"), NewPage("p2.png")}
	assert.True(t, d.CanUseOriginalPDF())

	d.Pages[1].Rotation = Rotate90
	assert.False(t, d.CanUseOriginalPDF(), "visual edit forces rebuild")

	d.Pages[1].Rotation = Rotate0
	d.Pages = d.Pages[:1]
	assert.False(t, d.CanUseOriginalPDF(), "page deletion forces rebuild")
}

func TestHasOverlayWords(t *testing.T) {
	d := New("Doc")
	d.Pages = []Page{NewPage("p1.png"), NewPage("p2.png")}
	assert.False(t, d.HasOverlayWords())

	// Fallback-tier text does not count as overlay material.
	d.Pages[0].OCRBoxesMissing = true
	d.Pages[0].OCRWords = []ocr.Word{{Text: "x"}}
	assert.False(t, d.HasOverlayWords())

	d.Pages[1].OCRWords = []ocr.Word{{Text: "Hello", Box: ocr.Box{Width: 10, Height: 10}}}
	assert.True(t, d.HasOverlayWords())
}

func TestProfileByName(t *testing.T) {
	assert.Equal(t, 90, ProfileByName(ProfileColorHigh).JPEGQuality)
	assert.True(t, ProfileByName(ProfileGrayscale).Grayscale)

	// Unknown and empty names resolve to the medium default.
	assert.Equal(t, ProfileColorMedium, ProfileByName("").Name)
	assert.Equal(t, ProfileColorMedium, ProfileByName("ultra").Name)

	d := New("Doc")
	assert.Equal(t, ProfileColorMedium, d.Profile().Name)
}

func TestExcerpt(t *testing.T) {
	assert.Empty(t, Excerpt(nil))
	assert.Empty(t, Excerpt([]string{"", "  "}))

	short := Excerpt([]string{"Hello", "world"})
	assert.Equal(t, "Hello world", short)

	long := Excerpt([]string{strings.Repeat("word ", 100)})
	require.True(t, strings.HasSuffix(long, "…"))
	assert.LessOrEqual(t, len([]rune(long)), excerptLimit+1)
	// Trimmed at a word boundary: no partial token before the ellipsis.
	assert.False(t, strings.HasSuffix(strings.TrimSuffix(long, "…"), "wor"))

	// One giant token gets a hard cut instead of an empty excerpt.
	giant := Excerpt([]string{strings.Repeat("a", 500)})
	assert.Equal(t, excerptLimit+1, len([]rune(giant)))
}

func TestExcerptCollapsesWhitespace(t *testing.T) {
	got := Excerpt([]string{"line one\n\nline   two", "page\ttwo"})
	assert.Equal(t, "line one line two page two", got)
}
