package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search outcomes recorded by the discovery session.
const (
	SearchOK         = "ok"
	SearchError      = "error"
	SearchSuperseded = "superseded"
	SearchEmpty      = "empty"
)

var (
	CatalogRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_catalog_requests_total",
		Help: "Total number of catalog API requests by outcome",
	}, []string{"outcome"})

	CatalogRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "folio_catalog_request_duration_seconds",
		Help:    "Duration of catalog API requests in seconds",
		Buckets: prometheus.DefBuckets,
	})

	ItemsFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "folio_items_fetched_total",
		Help: "Total number of catalog items committed to a search collection",
	})

	SearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_searches_total",
		Help: "Total number of search submissions by result",
	}, []string{"result"})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
