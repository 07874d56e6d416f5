// Package metrics exposes Prometheus instruments for attachment downloads.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Download scopes used as the "scope" label.
const (
	ScopeSingle = "single"
	ScopeBundle = "bundle"
)

// Downloads holds the download counters. A nil *Downloads is valid and records nothing.
type Downloads struct {
	started *prometheus.CounterVec
	bytes   prometheus.Counter
	aborted *prometheus.CounterVec
	entries prometheus.Histogram
}

// NewDownloads creates the download instruments and registers them with reg.
func NewDownloads(reg prometheus.Registerer) (*Downloads, error) {
	d := &Downloads{
		started: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "attachment_downloads_total",
				Help: "Total number of attachment downloads started, by scope.",
			},
			[]string{"scope"},
		),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attachment_download_bytes_total",
			Help: "Total number of attachment bytes written to clients.",
		}),
		aborted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "attachment_downloads_aborted_total",
				Help: "Downloads whose transfer stopped before the last byte, by scope.",
			},
			[]string{"scope"},
		),
		entries: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "attachment_archive_entries",
			Help:    "Number of files packed into each download-all archive.",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		}),
	}

	for _, c := range []prometheus.Collector{d.started, d.bytes, d.aborted, d.entries} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Started counts a download whose file handle was opened.
func (d *Downloads) Started(scope string) {
	if d == nil {
		return
	}
	d.started.WithLabelValues(scope).Inc()
}

// Finished records the bytes sent and whether the transfer stopped early.
func (d *Downloads) Finished(scope string, written int64, complete bool) {
	if d == nil {
		return
	}
	d.bytes.Add(float64(written))
	if !complete {
		d.aborted.WithLabelValues(scope).Inc()
	}
}

// ArchiveBuilt records how many files went into a bundle.
func (d *Downloads) ArchiveBuilt(entries int) {
	if d == nil {
		return
	}
	d.entries.Observe(float64(entries))
}
