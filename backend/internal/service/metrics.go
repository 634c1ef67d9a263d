package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	reasonPutFailed     = "put_failed"
	reasonPersistFailed = "persist_failed"
	reasonRecordDeleted = "record_deleted"
	reasonOrphaned      = "orphaned"
)

var (
	filesUploaded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "attachstore",
		Name:      "files_uploaded_total",
		Help:      "Files successfully put into object storage",
	})

	filesDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attachstore",
		Name:      "files_deleted_total",
		Help:      "Files removed from object storage, by reason",
	}, []string{"reason"})

	fileDeleteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attachstore",
		Name:      "file_delete_failures_total",
		Help:      "Deletes that failed and left an object behind, by reason",
	}, []string{"reason"})

	compensations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attachstore",
		Name:      "upload_compensations_total",
		Help:      "Upload batches rolled back, by the step that failed",
	}, []string{"reason"})
)
