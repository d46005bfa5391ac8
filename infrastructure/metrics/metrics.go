package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dagd"

// Metrics holds the collectors reported by the node. Each instance has its
// own registry so several nodes may live in one process.
type Metrics struct {
	registry *prometheus.Registry

	blocksInserted     prometheus.Counter
	blocksRejected     *prometheus.CounterVec
	blocksReordered    prometheus.Counter
	blocksStabilized   *prometheus.CounterVec
	insertionDuration  prometheus.Histogram
	topHeight          prometheus.Gauge
	topTopoHeight      prometheus.Gauge
	stableHeight       prometheus.Gauge
	tipCount           prometheus.Gauge
	emittedSupply      prometheus.Gauge
	mempoolSize        prometheus.Gauge
	queryRequestsTotal *prometheus.CounterVec
}

// New creates a Metrics instance with every collector registered
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		blocksInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "consensus",
			Name:      "blocks_inserted_total",
			Help:      "Number of blocks inserted into the DAG",
		}),
		blocksRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "consensus",
			Name:      "blocks_rejected_total",
			Help:      "Number of rejected blocks by reason",
		}, []string{"reason"}),
		blocksReordered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "consensus",
			Name:      "blocks_reordered_total",
			Help:      "Number of times a block changed its topological height",
		}),
		blocksStabilized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "consensus",
			Name:      "blocks_stabilized_total",
			Help:      "Number of blocks that became stable by final classification",
		}, []string{"classification"}),
		insertionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "consensus",
			Name:      "insertion_duration_seconds",
			Help:      "Duration of block validation and insertion",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		topHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dag",
			Name:      "top_height",
			Help:      "Height of the highest tip",
		}),
		topTopoHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dag",
			Name:      "top_topo_height",
			Help:      "Last assigned topological height",
		}),
		stableHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dag",
			Name:      "stable_height",
			Help:      "Highest height at which blocks can no longer be reordered",
		}),
		tipCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dag",
			Name:      "tips",
			Help:      "Number of blocks without children",
		}),
		emittedSupply: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "rewards",
			Name:      "emitted_supply",
			Help:      "Total base emission paid to stable blocks, in atomic units",
		}),
		mempoolSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "mempool",
			Name:      "transactions",
			Help:      "Number of transactions waiting for a block",
		}),
		queryRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "requests_total",
			Help:      "Number of query server requests by route and status code",
		}, []string{"route", "code"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.blocksInserted,
		m.blocksRejected,
		m.blocksReordered,
		m.blocksStabilized,
		m.insertionDuration,
		m.topHeight,
		m.topTopoHeight,
		m.stableHeight,
		m.tipCount,
		m.emittedSupply,
		m.mempoolSize,
		m.queryRequestsTotal,
	)
	return m
}

// Registry returns the registry the collectors are registered in
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an http.Handler serving the metrics in the Prometheus
// exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
