package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveUpstream(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRequests.WithLabelValues("GET /citas", "200"))
	ObserveUpstream("GET /citas", 200)
	assert.Equal(t, before+1, testutil.ToFloat64(UpstreamRequests.WithLabelValues("GET /citas", "200")))

	failedBefore := testutil.ToFloat64(UpstreamRequests.WithLabelValues("GET /citas", "error"))
	ObserveUpstream("GET /citas", 0)
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(UpstreamRequests.WithLabelValues("GET /citas", "error")))
}
