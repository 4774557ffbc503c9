// Package metrics exports queue activity as Prometheus metrics.
//
// Collector implements queue.EventHandler, so it is wired in with
// queue.WithEventHandler and served with Handler:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//	q, _ := queue.New(backend, cfg, queue.WithEventHandler(m))
//	http.Handle("/metrics", metrics.Handler(reg))
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bft-labs/bulkqueue/pkg/queue"
)

const namespace = "bulkqueue"

// Collector records queue events into Prometheus collectors. A Collector
// tracks the pending gauge of a single Queue.
type Collector struct {
	// seqMu orders pending gauge updates by queue sequence number.
	seqMu   sync.Mutex
	lastSeq uint64

	added     prometheus.Counter
	pending   prometheus.Gauge
	batches   *prometheus.CounterVec
	documents *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

var _ queue.EventHandler = (*Collector)(nil)

// New creates a Collector and registers it with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		added: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_added_total",
			Help:      "Documents accepted by Add.",
		}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "documents_pending",
			Help:      "Documents buffered and not yet submitted.",
		}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_submitted_total",
			Help:      "Batches accepted by the backend.",
		}, []string{"trigger"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_submitted_total",
			Help:      "Documents accepted by the backend.",
		}, []string{"trigger"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submission_failures_total",
			Help:      "Batches rejected by the backend.",
		}, []string{"trigger"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Backend bulk call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"trigger", "outcome"}),
	}

	reg.MustRegister(c.added, c.pending, c.batches, c.documents, c.failures, c.duration)
	return c
}

// OnDocumentAdded implements queue.EventHandler.
func (c *Collector) OnDocumentAdded(e queue.AddEvent) {
	c.added.Inc()
	c.setPending(e.Seq, e.Pending)
}

// OnFlushSuccess implements queue.EventHandler.
func (c *Collector) OnFlushSuccess(e queue.FlushEvent) {
	trigger := e.Trigger.String()
	c.batches.WithLabelValues(trigger).Inc()
	c.documents.WithLabelValues(trigger).Add(float64(e.Documents))
	c.duration.WithLabelValues(trigger, "success").Observe(e.Duration.Seconds())
	c.setPending(e.Seq, e.Pending)
}

// OnFlushError implements queue.EventHandler.
func (c *Collector) OnFlushError(e queue.FlushErrorEvent) {
	trigger := e.Trigger.String()
	c.failures.WithLabelValues(trigger).Inc()
	c.duration.WithLabelValues(trigger, "error").Observe(e.Duration.Seconds())
	c.setPending(e.Seq, e.Pending)
}

// setPending applies n unless an event with a newer seq was already applied.
func (c *Collector) setPending(seq uint64, n int) {
	c.seqMu.Lock()
	defer c.seqMu.Unlock()
	if seq < c.lastSeq {
		return
	}
	c.lastSeq = seq
	c.pending.Set(float64(n))
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
