package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultIssued        = "issued"
	resultRejected      = "rejected"
	resultSignFailed    = "sign_failed"
	resultPersistFailed = "persist_failed"
)

var (
	uploadURLsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filedrop_upload_urls_total",
			Help: "Upload URL requests by outcome",
		},
		[]string{"result"},
	)

	signDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "filedrop_presign_duration_seconds",
			Help:    "Time spent obtaining a presigned upload URL",
			Buckets: prometheus.DefBuckets,
		},
	)
)
