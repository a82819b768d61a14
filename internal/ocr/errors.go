package ocr

import (
	"errors"
	"fmt"
)

// FailureReason classifies why a recognition attempt failed. The queue and
// the assembler react differently to these, so the reason must survive
// wrapping.
type FailureReason string

const (
	ReasonTimeout             FailureReason = "timeout"
	ReasonEngine              FailureReason = "engine"
	ReasonUnsupportedLanguage FailureReason = "unsupported_language"
	ReasonNoResults           FailureReason = "no_results"
	ReasonInvalidResult       FailureReason = "invalid_result"
)

// Sentinel errors for errors.Is checks.
var (
	ErrTimeout             = errors.New("recognition timed out")
	ErrEngine              = errors.New("recognition engine failed")
	ErrUnsupportedLanguage = errors.New("unsupported recognition language")
	ErrNoResults           = errors.New("recognition produced no results")
	ErrInvalidResult       = errors.New("recognition result failed validation")
)

// RecognitionError wraps an engine failure with its classification and the
// image it was operating on.
type RecognitionError struct {
	Reason    FailureReason
	ImagePath string
	Err       error
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("recognize %s: %s: %v", e.ImagePath, e.Reason, e.Err)
}

func (e *RecognitionError) Unwrap() error {
	switch e.Reason {
	case ReasonTimeout:
		return ErrTimeout
	case ReasonUnsupportedLanguage:
		return ErrUnsupportedLanguage
	case ReasonNoResults:
		return ErrNoResults
	case ReasonInvalidResult:
		return ErrInvalidResult
	default:
		return ErrEngine
	}
}

// Cause returns the underlying engine error, if any.
func (e *RecognitionError) Cause() error { return e.Err }

func newError(reason FailureReason, imagePath string, err error) *RecognitionError {
	return &RecognitionError{Reason: reason, ImagePath: imagePath, Err: err}
}
