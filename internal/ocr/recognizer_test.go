package ocr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubResult(text string) *PageResult {
	return &PageResult{
		FullText:    text,
		Words:       []Word{{Text: text, Box: Box{Width: 10, Height: 10}, Confidence: 0.9, ImageWidth: 100, ImageHeight: 100}},
		ImageWidth:  100,
		ImageHeight: 100,
	}
}

func TestWithTimeout_PropagatesResult(t *testing.T) {
	r := WithTimeout(RecognizerFunc(func(ctx context.Context, path string) (*PageResult, error) {
		return stubResult("ok"), nil
	}), time.Second)

	res, err := r.Recognize(context.Background(), "page.jpg")
	require.NoError(t, err)
	assert.Equal(t, "ok", res.FullText)
}

func TestWithTimeout_MapsDeadlineToTimeout(t *testing.T) {
	r := WithTimeout(RecognizerFunc(func(ctx context.Context, path string) (*PageResult, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}), 10*time.Millisecond)

	_, err := r.Recognize(context.Background(), "page.jpg")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.NotErrorIs(t, err, ErrEngine)

	var rerr *RecognitionError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, ReasonTimeout, rerr.Reason)
	assert.Equal(t, "page.jpg", rerr.ImagePath)
}

func TestWithTimeout_EngineErrorStaysEngineError(t *testing.T) {
	boom := newError(ReasonEngine, "page.jpg", errors.New("boom"))
	r := WithTimeout(RecognizerFunc(func(ctx context.Context, path string) (*PageResult, error) {
		return nil, boom
	}), time.Second)

	_, err := r.Recognize(context.Background(), "page.jpg")
	assert.ErrorIs(t, err, ErrEngine)
}

func TestTiered_PrimaryWins(t *testing.T) {
	tiered := &Tiered{
		Primary: RecognizerFunc(func(ctx context.Context, path string) (*PageResult, error) {
			return stubResult("primary"), nil
		}),
		Fallback: RecognizerFunc(func(ctx context.Context, path string) (*PageResult, error) {
			t.Fatal("fallback must not run when primary succeeds")
			return nil, nil
		}),
	}

	res, err := tiered.Recognize(context.Background(), "page.jpg")
	require.NoError(t, err)
	assert.Equal(t, "primary", res.FullText)
	assert.False(t, res.BoxesMissing)
	assert.NotEmpty(t, res.Words)
}

func TestTiered_FallbackTagsBoxesMissing(t *testing.T) {
	tiered := &Tiered{
		Primary: RecognizerFunc(func(ctx context.Context, path string) (*PageResult, error) {
			return nil, newError(ReasonEngine, path, errors.New("down"))
		}),
		Fallback: RecognizerFunc(func(ctx context.Context, path string) (*PageResult, error) {
			return &PageResult{FullText: "text only", ImageWidth: 100, ImageHeight: 100}, nil
		}),
	}

	res, err := tiered.Recognize(context.Background(), "page.jpg")
	require.NoError(t, err)
	assert.Equal(t, "text only", res.FullText)
	assert.True(t, res.BoxesMissing)
	assert.Empty(t, res.Words)
}

func TestTiered_BothFailReturnsPrimaryError(t *testing.T) {
	primaryErr := newError(ReasonTimeout, "page.jpg", errors.New("slow"))
	tiered := &Tiered{
		Primary: RecognizerFunc(func(ctx context.Context, path string) (*PageResult, error) {
			return nil, primaryErr
		}),
		Fallback: RecognizerFunc(func(ctx context.Context, path string) (*PageResult, error) {
			return nil, newError(ReasonEngine, path, errors.New("also down"))
		}),
	}

	_, err := tiered.Recognize(context.Background(), "page.jpg")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestTiered_NoFallbackConfigured(t *testing.T) {
	tiered := &Tiered{
		Primary: RecognizerFunc(func(ctx context.Context, path string) (*PageResult, error) {
			return nil, newError(ReasonEngine, path, errors.New("down"))
		}),
	}

	_, err := tiered.Recognize(context.Background(), "page.jpg")
	assert.ErrorIs(t, err, ErrEngine)
}

func TestTiered_SkipsFallbackWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tiered := &Tiered{
		Primary: RecognizerFunc(func(ctx context.Context, path string) (*PageResult, error) {
			cancel()
			return nil, newError(ReasonEngine, path, errors.New("down"))
		}),
		Fallback: RecognizerFunc(func(ctx context.Context, path string) (*PageResult, error) {
			t.Fatal("fallback must not run after cancellation")
			return nil, nil
		}),
	}

	_, err := tiered.Recognize(ctx, "page.jpg")
	assert.Error(t, err)
}
