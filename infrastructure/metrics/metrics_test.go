package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	recorder := httptest.NewRecorder()
	m.Handler().ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, recorder.Code)

	body, err := io.ReadAll(recorder.Body)
	require.NoError(t, err)
	return string(body)
}

func TestObserveBlockInserted(t *testing.T) {
	m := New()
	m.ObserveBlockInserted(time.Millisecond, 2, &DAGSnapshot{
		TopHeight:       10,
		TopTopoHeight:   12,
		HasStableHeight: true,
		StableHeight:    2,
		TipCount:        3,
		EmittedSupply:   500,
	})
	m.ObserveBlockRejected("ErrTimeTooOld")
	m.ObserveBlockStabilized("Sync")

	body := scrape(t, m)
	require.Contains(t, body, "dagd_consensus_blocks_inserted_total 1")
	require.Contains(t, body, "dagd_consensus_blocks_reordered_total 2")
	require.Contains(t, body, "dagd_dag_top_height 10")
	require.Contains(t, body, "dagd_dag_stable_height 2")
	require.Contains(t, body, `dagd_consensus_blocks_rejected_total{reason="ErrTimeTooOld"} 1`)
	require.Contains(t, body, `dagd_consensus_blocks_stabilized_total{classification="Sync"} 1`)
}

func TestHandler(t *testing.T) {
	m := New()
	m.SetMempoolSize(7)
	m.ObserveQueryRequest("/info", "200")

	body := scrape(t, m)
	require.Contains(t, body, "dagd_mempool_transactions 7")
	require.Contains(t, body, `dagd_query_requests_total{code="200",route="/info"} 1`)
	require.Contains(t, body, "go_goroutines")
}
