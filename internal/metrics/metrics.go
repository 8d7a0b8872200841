// Package metrics registers the service's prometheus collectors.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamRequests counts calls to the identity and appointments APIs.
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "psicocitas_upstream_requests_total",
		Help: "Requests sent to the upstream APIs by endpoint and status code.",
	}, []string{"endpoint", "code"})

	// TokenRefreshes counts calendar token refresh attempts by result.
	TokenRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "psicocitas_token_refresh_total",
		Help: "Calendar token refresh attempts by result.",
	}, []string{"result"})

	// Exports counts generated report spreadsheets.
	Exports = promauto.NewCounter(prometheus.CounterOpts{
		Name: "psicocitas_exports_total",
		Help: "Report spreadsheets generated.",
	})
)

// ObserveUpstream records one upstream call. A code of 0 means the request
// never got a response.
func ObserveUpstream(endpoint string, code int) {
	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	UpstreamRequests.WithLabelValues(endpoint, label).Inc()
}
