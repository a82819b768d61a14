package queue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scandoc_ocr_pages_processed_total",
			Help: "Pages processed by the OCR queue",
		},
		[]string{"outcome"}, // recognized, fallback, failed, skipped
	)

	documentsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scandoc_ocr_documents_total",
			Help: "Document OCR runs by result",
		},
		[]string{"result"}, // done, error, cancelled
	)

	documentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scandoc_ocr_document_duration_seconds",
			Help:    "Wall time of a full document OCR run",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	queueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scandoc_ocr_queue_depth",
			Help: "Documents waiting in the OCR queue",
		},
	)
)
