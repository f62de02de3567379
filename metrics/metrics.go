package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	NAMESPACE = "ledger"
)

type Metrics struct {
	registry      *prometheus.Registry
	BlocksMined   prometheus.Counter
	ChainLength   prometheus.Gauge
	TipDifficulty prometheus.Gauge
	Offers        *prometheus.CounterVec
	MineDuration  prometheus.Histogram
	PubsubDropped *prometheus.CounterVec
	RelayFailures prometheus.Counter
}

// NewMetrics registers on a private registry so that several nodes can live
// in one process.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		BlocksMined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "blocks_mined_total",
			Help:      "Blocks mined by this node.",
		}),
		ChainLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: NAMESPACE,
			Name:      "chain_length",
			Help:      "Number of blocks in the local chain, genesis included.",
		}),
		TipDifficulty: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: NAMESPACE,
			Name:      "tip_difficulty",
			Help:      "Difficulty of the current tip.",
		}),
		Offers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "offers_total",
			Help:      "Candidate chains offered, by result.",
		}, []string{"result"}),
		MineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: NAMESPACE,
			Name:      "mine_duration_seconds",
			Help:      "Time spent searching for a proof of work.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		PubsubDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "pubsub_dropped_total",
			Help:      "Messages dropped because a subscriber was full.",
		}, []string{"topic"}),
		RelayFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "relay_failures_total",
			Help:      "Chains that could not be sent to a peer.",
		}),
	}
	m.registry.MustRegister(
		m.BlocksMined,
		m.ChainLength,
		m.TipDifficulty,
		m.Offers,
		m.MineDuration,
		m.PubsubDropped,
		m.RelayFailures,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveOffer(accepted bool) {
	if accepted {
		m.Offers.WithLabelValues("accepted").Inc()
	} else {
		m.Offers.WithLabelValues("rejected").Inc()
	}
}

func (m *Metrics) ObserveChain(length int, tipDifficulty uint64) {
	m.ChainLength.Set(float64(length))
	m.TipDifficulty.Set(float64(tipDifficulty))
}
