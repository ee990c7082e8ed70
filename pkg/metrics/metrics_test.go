package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordTransitionSkipsSelfLoops(t *testing.T) {
	before := testutil.ToFloat64(escrowTransitions.WithLabelValues("INITIALIZED", "ONE_PARTY_FUNDED"))
	RecordTransition("INITIALIZED", "ONE_PARTY_FUNDED")
	RecordTransition("INITIALIZED", "INITIALIZED")
	after := testutil.ToFloat64(escrowTransitions.WithLabelValues("INITIALIZED", "ONE_PARTY_FUNDED"))
	require.Equal(t, before+1, after)
	require.Equal(t, float64(0), testutil.ToFloat64(escrowTransitions.WithLabelValues("INITIALIZED", "INITIALIZED")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	ObserveHTTP("GET", "", "200", 0.01)
	RecordFunding("BUYER", "bank")
	RecordEmail("escrow_invitation", true)
	InFlight(1)
	InFlight(-1)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.Contains(t, body, "escrow_broker_http_requests_total")
	require.Contains(t, body, `route="unmatched"`)
	require.Contains(t, body, "escrow_broker_escrow_funding_reports_total")
	require.Contains(t, body, "escrow_broker_email_deliveries_total")
}
