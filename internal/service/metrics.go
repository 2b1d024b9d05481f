package service

import "github.com/prometheus/client_golang/prometheus"

var (
	filesUploaded = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "sheetboard_files_uploaded_total", Help: "Files stored by upload, by kind"},
		[]string{"kind"},
	)
	sheetParseFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "sheetboard_sheet_parse_failures_total", Help: "Spreadsheets the parser rejected"},
	)
	uploadBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sheetboard_upload_bytes",
			Help:    "Size of uploaded files",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		},
	)
)

func init() { prometheus.MustRegister(filesUploaded, sheetParseFailures, uploadBytes) }
