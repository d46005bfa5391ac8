package metrics

import (
	"time"
)

// DAGSnapshot is the DAG frontier reported after an insertion
type DAGSnapshot struct {
	TopHeight       uint64
	TopTopoHeight   uint64
	HasStableHeight bool
	StableHeight    uint64
	TipCount        int
	EmittedSupply   uint64
}

// ObserveBlockInserted records a successful insertion
func (m *Metrics) ObserveBlockInserted(duration time.Duration, reordered int, snapshot *DAGSnapshot) {
	m.blocksInserted.Inc()
	m.blocksReordered.Add(float64(reordered))
	m.insertionDuration.Observe(duration.Seconds())
	m.ObserveDAG(snapshot)
}

// ObserveDAG sets the frontier gauges
func (m *Metrics) ObserveDAG(snapshot *DAGSnapshot) {
	m.topHeight.Set(float64(snapshot.TopHeight))
	m.topTopoHeight.Set(float64(snapshot.TopTopoHeight))
	if snapshot.HasStableHeight {
		m.stableHeight.Set(float64(snapshot.StableHeight))
	}
	m.tipCount.Set(float64(snapshot.TipCount))
	m.emittedSupply.Set(float64(snapshot.EmittedSupply))
}

// ObserveBlockRejected records a block rejected for reason
func (m *Metrics) ObserveBlockRejected(reason string) {
	m.blocksRejected.WithLabelValues(reason).Inc()
}

// ObserveBlockStabilized records a block that became stable with the given
// final classification
func (m *Metrics) ObserveBlockStabilized(classification string) {
	m.blocksStabilized.WithLabelValues(classification).Inc()
}

// SetMempoolSize sets the mempool size gauge
func (m *Metrics) SetMempoolSize(size int) {
	m.mempoolSize.Set(float64(size))
}

// ObserveQueryRequest records a query server request
func (m *Metrics) ObserveQueryRequest(route string, code string) {
	m.queryRequestsTotal.WithLabelValues(route, code).Inc()
}
