package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts mutations applied through the API. Reads are not counted;
// the polling clients would drown every other signal.
type Metrics struct {
	Created       prometheus.Counter
	StatusChanges prometheus.Counter
	Reorders      prometheus.Counter
	Deletes       prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Created: factory.NewCounter(prometheus.CounterOpts{
			Name: "requestline_requests_created_total",
			Help: "Requests created through the API.",
		}),
		StatusChanges: factory.NewCounter(prometheus.CounterOpts{
			Name: "requestline_status_changes_total",
			Help: "Status transitions applied through the API.",
		}),
		Reorders: factory.NewCounter(prometheus.CounterOpts{
			Name: "requestline_reorders_total",
			Help: "Bulk reorder operations applied through the API.",
		}),
		Deletes: factory.NewCounter(prometheus.CounterOpts{
			Name: "requestline_deletes_total",
			Help: "Requests deleted through the API.",
		}),
	}
}
