// Package metrics registers the Prometheus instruments for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ReviewsCreated       prometheus.Counter
	ReviewsDeleted       prometheus.Counter
	Classifications      *prometheus.CounterVec
	DetectorHits         *prometheus.CounterVec
	CollaboratorFailures prometheus.Counter
	StatisticsReleased   *prometheus.CounterVec
	SubmissionsRejected  prometheus.Counter
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		ReviewsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "profreview_reviews_created_total",
			Help: "Total reviews persisted after classification",
		}),
		ReviewsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "profreview_reviews_deleted_total",
			Help: "Total reviews deleted",
		}),
		Classifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "profreview_classifications_total",
			Help: "Risk classifications by final verdict",
		}, []string{"level"}),
		DetectorHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "profreview_detector_hits_total",
			Help: "PII detector hits by category",
		}, []string{"category"}),
		CollaboratorFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "profreview_collaborator_failures_total",
			Help: "Collaborator calls that failed and degraded to detector-only",
		}),
		StatisticsReleased: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "profreview_statistics_released_total",
			Help: "Noisy statistic releases by statistic name",
		}, []string{"statistic"}),
		SubmissionsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "profreview_submissions_rejected_total",
			Help: "Review submissions rejected by validation",
		}),
	}
}
