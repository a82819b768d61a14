// Package document defines the scanned-document model shared by the OCR
// queue, the PDF assembler, and the store.
package document

import (
	"time"

	"github.com/google/uuid"

	"github.com/MeKo-Tech/scandoc/internal/ocr"
)

// OCRStatus is the recognition lifecycle state of a document.
type OCRStatus string

const (
	OCRIdle    OCRStatus = "idle"
	OCRRunning OCRStatus = "running"
	OCRDone    OCRStatus = "done"
	OCRError   OCRStatus = "error"
)

// FilterMode selects the color treatment applied to a page image.
type FilterMode string

const (
	FilterColor     FilterMode = "color"
	FilterGrayscale FilterMode = "grayscale"
	FilterBW        FilterMode = "bw"
)

// Rotation is a page rotation in degrees, restricted to quarter turns.
type Rotation int

const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// Valid reports whether r is one of the supported quarter turns.
func (r Rotation) Valid() bool {
	switch r {
	case Rotate0, Rotate90, Rotate180, Rotate270:
		return true
	}
	return false
}

// Progress counts OCR'd pages. Processed never exceeds Total.
type Progress struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
}

// Page is one scanned or imported page.
type Page struct {
	ID       string     `json:"id"`
	URI      string     `json:"uri"`
	Rotation Rotation   `json:"rotation"`
	Filter   FilterMode `json:"filter"`

	AutoContrast bool `json:"auto_contrast,omitempty"`

	// ProcessedURI points at the filtered/resized render of URI. When set,
	// both OCR and export must use it so word boxes stay aligned with the
	// pixels the reader sees.
	ProcessedURI string `json:"processed_uri,omitempty"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// OCRText is nil until recognition has run for this page. An empty
	// string means recognition ran and found nothing (or failed and was
	// recovered page-locally).
	OCRText  *string    `json:"ocr_text,omitempty"`
	OCRWords []ocr.Word `json:"ocr_words,omitempty"`

	// OCRBoxesMissing marks text that came from the text-only fallback
	// engine. Such pages never get an invisible overlay.
	OCRBoxesMissing bool `json:"ocr_boxes_missing,omitempty"`
}

// HasVisualEdit reports whether the page differs visually from its imported
// form.
func (p *Page) HasVisualEdit() bool {
	return p.Rotation != Rotate0 || (p.Filter != "" && p.Filter != FilterColor) || p.AutoContrast
}

// RenderURI returns the image the page must be rendered and recognized from.
func (p *Page) RenderURI() string {
	if p.ProcessedURI != "" {
		return p.ProcessedURI
	}
	return p.URI
}

// Document is a multi-page scanned document.
type Document struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	FolderID string `json:"folder_id,omitempty"`

	Pages []Page `json:"pages"`

	OCRStatus   OCRStatus `json:"ocr_status"`
	OCRProgress Progress  `json:"ocr_progress"`
	Excerpt     string    `json:"excerpt,omitempty"`

	// OriginalPDFPath is set only when the document was imported from a
	// vector PDF, and enables the export fast path.
	OriginalPDFPath string `json:"original_pdf_path,omitempty"`

	// ImportedPageCount records how many pages the original PDF had, so
	// structural edits (page deleted or reordered since import) can be
	// detected and force a rebuild.
	ImportedPageCount int `json:"imported_page_count,omitempty"`

	QualityProfile string `json:"quality_profile,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates an empty document in the idle OCR state.
func New(title string) *Document {
	now := time.Now().UTC()
	return &Document{
		ID:        uuid.NewString(),
		Title:     title,
		OCRStatus: OCRIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewPage creates a page for the given image with default appearance.
func NewPage(uri string) Page {
	return Page{
		ID:     uuid.NewString(),
		URI:    uri,
		Filter: FilterColor,
	}
}

// HasVisualEdits reports whether any page was visually edited since import.
func (d *Document) HasVisualEdits() bool {
	for i := range d.Pages {
		if d.Pages[i].HasVisualEdit() {
			return true
		}
	}
	return false
}

// CanUseOriginalPDF reports whether the export fast path is allowed: the
// original file reference exists, no page carries a visual edit, and the
// page set still matches the import structurally.
func (d *Document) CanUseOriginalPDF() bool {
	if d.OriginalPDFPath == "" {
		return false
	}
	if d.HasVisualEdits() {
		return false
	}
	if d.ImportedPageCount > 0 && len(d.Pages) != d.ImportedPageCount {
		return false
	}
	return true
}

// Page returns the page with the given id, or nil.
func (d *Document) Page(id string) *Page {
	for i := range d.Pages {
		if d.Pages[i].ID == id {
			return &d.Pages[i]
		}
	}
	return nil
}

// HasOverlayWords reports whether at least one page carries real word boxes.
func (d *Document) HasOverlayWords() bool {
	for i := range d.Pages {
		p := &d.Pages[i]
		if !p.OCRBoxesMissing && len(p.OCRWords) > 0 {
			return true
		}
	}
	return false
}
