package settings

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	updatesApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "watchface_updates_applied_total",
		Help: "Number of configuration updates merged into the settings record.",
	})

	fieldsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "watchface_fields_skipped_total",
		Help: "Number of malformed update fields that were skipped.",
	}, []string{"key"})

	persistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "watchface_persist_failures_total",
		Help: "Number of failed settings blob writes.",
	})

	blobRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "watchface_blob_rejected_total",
		Help: "Number of persisted settings blobs rejected at startup.",
	})
)
