// Package filter renders a page image with its appearance settings applied:
// rotation, color filter, auto contrast, and the size/quality bounds of the
// export profile.
package filter

import (
	"context"

	"github.com/MeKo-Tech/scandoc/internal/document"
)

// Options describe one render of a page image.
type Options struct {
	Filter       document.FilterMode
	Rotation     document.Rotation
	AutoContrast bool

	// MaxDimension bounds the longer image side in pixels; zero disables
	// resizing.
	MaxDimension int

	// JPEGQuality in [1,100]; zero selects the encoder default.
	JPEGQuality int
}

// Processor renders an image according to opts and returns the path of the
// rendered file.
type Processor interface {
	Process(ctx context.Context, imagePath string, opts Options) (string, error)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(ctx context.Context, imagePath string, opts Options) (string, error)

func (f ProcessorFunc) Process(ctx context.Context, imagePath string, opts Options) (string, error) {
	return f(ctx, imagePath, opts)
}
