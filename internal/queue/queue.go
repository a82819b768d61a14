// Package queue schedules OCR runs across documents. It is single-flight:
// at most one document is recognized at any time, with further requests held
// in a deduplicated FIFO wait list. All document mutations go through the
// store, which remains the single source of truth; the worker re-reads the
// document before every page so UI edits made mid-run are respected.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/MeKo-Tech/scandoc/internal/document"
	"github.com/MeKo-Tech/scandoc/internal/ocr"
	"github.com/MeKo-Tech/scandoc/internal/store"
)

// ErrClosed is returned by Enqueue after the queue was shut down.
var ErrClosed = errors.New("ocr queue is closed")

// Queue drives the recognition adapter across a document's pages and
// persists progress after every page.
type Queue struct {
	store      store.Store
	recognizer ocr.Recognizer
	events     *broadcaster

	mu        sync.Mutex
	waiting   []string
	active    string
	cancelled bool
	closed    bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a queue with injected store and recognizer dependencies.
func New(st store.Store, rec ocr.Recognizer) *Queue {
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		store:      st,
		recognizer: rec,
		events:     newBroadcaster(),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Subscribe registers an event listener. The returned function unsubscribes
// and closes the channel. Within one document run, progress events always
// precede the completion event.
func (q *Queue) Subscribe() (<-chan Event, func()) {
	return q.events.subscribe()
}

// Enqueue schedules a document for OCR. It is a no-op when the document is
// already done, already running, or already waiting.
func (q *Queue) Enqueue(ctx context.Context, docID string) error {
	doc, err := store.Get(ctx, q.store, docID)
	if err != nil {
		return err
	}
	if doc.OCRStatus == document.OCRDone || doc.OCRStatus == document.OCRRunning {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	for _, id := range q.waiting {
		if id == docID {
			return nil
		}
	}
	if q.active == docID {
		if !q.cancelled {
			return nil
		}
		// The cancelled run still owns q.active until the worker reaches
		// the page boundary; queue the document so it restarts fresh
		// instead of losing the enqueue.
		q.waiting = append(q.waiting, docID)
		queueDepth.Set(float64(len(q.waiting)))
		return nil
	}
	if q.active == "" {
		q.active = docID
		q.cancelled = false
		q.wg.Add(1)
		go q.runWorker()
		return nil
	}
	q.waiting = append(q.waiting, docID)
	queueDepth.Set(float64(len(q.waiting)))
	return nil
}

// Cancel removes a waiting document or stops the active run. Cancellation
// of the active document is observed at the next page boundary; progress
// persisted for already-completed pages is kept and its status returns to
// idle so a later enqueue starts fresh.
func (q *Queue) Cancel(ctx context.Context, docID string) error {
	q.mu.Lock()
	for i, id := range q.waiting {
		if id == docID {
			q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
			queueDepth.Set(float64(len(q.waiting)))
			q.mu.Unlock()
			return nil
		}
	}
	isActive := q.active == docID
	if isActive {
		q.cancelled = true
	}
	q.mu.Unlock()

	if !isActive {
		return nil
	}
	documentsCompleted.WithLabelValues("cancelled").Inc()
	_, err := store.Update(ctx, q.store, docID, func(d *document.Document) error {
		d.OCRStatus = document.OCRIdle
		return nil
	})
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("reset cancelled document: %w", err)
	}
	return nil
}

// Close stops the worker and closes all subscriber channels. The in-flight
// page call is allowed to finish; its result is discarded.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.cancelled = true
	q.waiting = nil
	q.mu.Unlock()

	q.cancel()
	q.wg.Wait()
	q.events.closeAll()
}

// runWorker processes the active document, then keeps draining the wait
// list until it is empty. Exactly one worker goroutine exists while the
// queue is non-idle.
func (q *Queue) runWorker() {
	defer q.wg.Done()
	for {
		q.mu.Lock()
		docID := q.active
		q.mu.Unlock()
		if docID == "" {
			return
		}

		q.processDocument(q.ctx, docID)

		q.mu.Lock()
		if len(q.waiting) > 0 && !q.closed {
			q.active = q.waiting[0]
			q.waiting = q.waiting[1:]
			q.cancelled = false
			queueDepth.Set(float64(len(q.waiting)))
			q.mu.Unlock()
			continue
		}
		q.active = ""
		q.mu.Unlock()
		return
	}
}

// interrupted reports whether the run for docID should stop advancing.
func (q *Queue) interrupted(docID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.active != docID || q.cancelled
}

func (q *Queue) processDocument(ctx context.Context, docID string) {
	start := time.Now()

	doc, err := store.Update(ctx, q.store, docID, func(d *document.Document) error {
		d.OCRStatus = document.OCRRunning
		d.OCRProgress = document.Progress{Processed: 0, Total: len(d.Pages)}
		return nil
	})
	if err != nil {
		q.fail(ctx, docID, fmt.Errorf("start OCR run: %w", err))
		return
	}

	pageIDs := make([]string, len(doc.Pages))
	for i := range doc.Pages {
		pageIDs[i] = doc.Pages[i].ID
	}
	total := len(pageIDs)
	processed := 0

	for _, pageID := range pageIDs {
		// Cancellation is cooperative and observed only here, at the page
		// boundary. Partial progress stays persisted.
		if q.interrupted(docID) {
			return
		}

		// Re-read from the store: the UI may have deleted the page (or the
		// whole document) while the previous page was recognizing.
		cur, err := store.Get(ctx, q.store, docID)
		if err != nil {
			q.fail(ctx, docID, fmt.Errorf("re-read document: %w", err))
			return
		}
		var res *ocr.PageResult
		var recErr error
		if page := cur.Page(pageID); page != nil {
			res, recErr = q.recognizePage(ctx, docID, pageID, page.RenderURI())
		} else {
			pagesProcessed.WithLabelValues("skipped").Inc()
		}

		// A cancel that raced the in-flight call wins; the result is
		// discarded rather than written back.
		if q.interrupted(docID) {
			return
		}

		processed++
		if _, err := q.writePageResult(ctx, docID, pageID, processed, total, res, recErr); err != nil {
			q.fail(ctx, docID, fmt.Errorf("persist page result: %w", err))
			return
		}
		q.events.publish(Event{
			Type:       EventProgress,
			DocumentID: docID,
			Processed:  processed,
			Total:      total,
		})
	}

	if _, err := store.Update(ctx, q.store, docID, func(d *document.Document) error {
		texts := make([]string, 0, len(d.Pages))
		for i := range d.Pages {
			if t := d.Pages[i].OCRText; t != nil {
				texts = append(texts, *t)
			}
		}
		d.Excerpt = document.Excerpt(texts)
		d.OCRStatus = document.OCRDone
		return nil
	}); err != nil {
		q.fail(ctx, docID, fmt.Errorf("finish OCR run: %w", err))
		return
	}

	documentDuration.Observe(time.Since(start).Seconds())
	documentsCompleted.WithLabelValues("done").Inc()
	slog.Info("document OCR complete", "document_id", docID, "pages", total,
		"duration", time.Since(start))
	q.events.publish(Event{
		Type:       EventCompletion,
		DocumentID: docID,
		Processed:  processed,
		Total:      total,
		Success:    true,
	})
}

// recognizePage runs the recognition adapter on one page image. Any error
// it returns is a page-level failure and is recovered locally by the
// caller.
func (q *Queue) recognizePage(ctx context.Context, docID, pageID, imagePath string) (*ocr.PageResult, error) {
	res, recErr := q.recognizer.Recognize(ctx, imagePath)
	switch {
	case recErr != nil:
		pagesProcessed.WithLabelValues("failed").Inc()
		slog.Warn("page recognition failed", "document_id", docID,
			"page_id", pageID, "error", recErr)
	case res.BoxesMissing:
		pagesProcessed.WithLabelValues("fallback").Inc()
	default:
		pagesProcessed.WithLabelValues("recognized").Inc()
	}
	return res, recErr
}

// writePageResult persists one page's outcome together with the progress
// counters in a single store write. A failed page is written back with
// empty text so the run can finish and the page is visibly "done".
func (q *Queue) writePageResult(
	ctx context.Context,
	docID, pageID string,
	processed, total int,
	res *ocr.PageResult,
	recErr error,
) (*document.Document, error) {
	return store.Update(ctx, q.store, docID, func(d *document.Document) error {
		if p := d.Page(pageID); p != nil {
			if recErr == nil && res != nil {
				text := res.FullText
				p.OCRText = &text
				p.OCRWords = res.Words
				p.OCRBoxesMissing = res.BoxesMissing
			} else {
				empty := ""
				p.OCRText = &empty
				p.OCRWords = nil
				p.OCRBoxesMissing = false
			}
		}
		d.OCRProgress = document.Progress{Processed: processed, Total: total}
		return nil
	})
}

// fail marks the document's run as failed and emits a failure completion.
// Used only for unexpected document-level errors; per-page recognition
// failures never land here.
func (q *Queue) fail(ctx context.Context, docID string, cause error) {
	slog.Error("document OCR failed", "document_id", docID, "error", cause)
	documentsCompleted.WithLabelValues("error").Inc()

	if _, err := store.Update(ctx, q.store, docID, func(d *document.Document) error {
		d.OCRStatus = document.OCRError
		return nil
	}); err != nil && !errors.Is(err, store.ErrNotFound) {
		slog.Error("could not persist error status", "document_id", docID, "error", err)
	}

	q.events.publish(Event{
		Type:       EventCompletion,
		DocumentID: docID,
		Success:    false,
		Error:      cause.Error(),
	})
}
