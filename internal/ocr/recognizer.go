// Package ocr defines the recognition result model and the adapter contracts
// to external OCR engines. The pipeline talks to engines only through the
// Recognizer interface; payload validation happens once, at the boundary.
package ocr

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// DefaultTimeout caps a single page recognition call.
const DefaultTimeout = 30 * time.Second

// Recognizer runs OCR on a single image file.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (*PageResult, error)
}

// RecognizerFunc adapts a function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, imagePath string) (*PageResult, error)

func (f RecognizerFunc) Recognize(ctx context.Context, imagePath string) (*PageResult, error) {
	return f(ctx, imagePath)
}

// WithTimeout wraps r so each call is bounded by d. A deadline hit is
// reported as a timeout failure, distinct from an engine failure.
func WithTimeout(r Recognizer, d time.Duration) Recognizer {
	if d <= 0 {
		d = DefaultTimeout
	}
	return RecognizerFunc(func(ctx context.Context, imagePath string) (*PageResult, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		res, err := r.Recognize(ctx, imagePath)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, newError(ReasonTimeout, imagePath, err)
			}
			return nil, err
		}
		return res, nil
	})
}

// Tiered tries the primary engine first and falls back to a text-only
// secondary engine when it fails. Fallback results are tagged BoxesMissing
// so downstream consumers never treat their coordinates as real.
type Tiered struct {
	Primary  Recognizer
	Fallback Recognizer
}

func (t *Tiered) Recognize(ctx context.Context, imagePath string) (*PageResult, error) {
	res, primaryErr := t.Primary.Recognize(ctx, imagePath)
	if primaryErr == nil {
		return res, nil
	}
	if t.Fallback == nil {
		return nil, primaryErr
	}
	if ctx.Err() != nil {
		// The caller is gone; don't burn a second engine run.
		return nil, primaryErr
	}

	slog.Warn("primary OCR engine failed, trying text-only fallback",
		"image", imagePath, "error", primaryErr)

	res, fallbackErr := t.Fallback.Recognize(ctx, imagePath)
	if fallbackErr != nil {
		// Surface the primary failure; the fallback was best-effort.
		return nil, primaryErr
	}
	res.BoxesMissing = true
	res.Words = nil
	return res, nil
}
