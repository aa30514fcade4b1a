package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricFilesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statement_pipeline",
		Name:      "files_processed_total",
		Help:      "Input files by terminal state.",
	}, []string{"state"})

	metricRowsImported = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "statement_pipeline",
		Name:      "rows_imported_total",
		Help:      "Normalized transactions emitted to the store.",
	})

	metricRowsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statement_pipeline",
		Name:      "rows_rejected_total",
		Help:      "Rows dropped during normalization, by reason.",
	}, []string{"reason"})
)

func observeFile(r FileResult) {
	metricFilesProcessed.WithLabelValues(string(r.State)).Inc()
	if r.State == StateEmitted {
		metricRowsImported.Add(float64(r.Rows))
	}
}

func observeRejection(reason string) {
	metricRowsRejected.WithLabelValues(reason).Inc()
}
