package docdb

import "github.com/prometheus/client_golang/prometheus"

// Query surfaces, used as the "surface" label.
const (
	surfaceEager    = "eager"
	surfaceIterator = "iterator"
	surfaceStream   = "stream"
)

// Metrics holds the Prometheus collectors a DB reports to. A nil *Metrics
// records nothing.
type Metrics struct {
	Queries    *prometheus.CounterVec
	Candidates *prometheus.CounterVec
	Writes     *prometheus.CounterVec
	Deletes    prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg, if non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "docdb",
				Name:      "queries_total",
				Help:      "Total number of queries started",
			},
			[]string{"surface"},
		),
		Candidates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "docdb",
				Name:      "query_documents_total",
				Help:      "Documents considered by queries",
			},
			[]string{"result"}, // "matched" / "rejected" / "skipped"
		),
		Writes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "docdb",
				Name:      "writes_total",
				Help:      "Total number of document writes",
			},
			[]string{"status"},
		),
		Deletes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "docdb",
				Name:      "deletes_total",
				Help:      "Total number of deleted items",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Queries, m.Candidates, m.Writes, m.Deletes)
	}
	return m
}

func (m *Metrics) queryStarted(surface string) {
	if m == nil {
		return
	}
	m.Queries.WithLabelValues(surface).Inc()
}

func (m *Metrics) queryFinished(st QueryStats) {
	if m == nil {
		return
	}
	m.Candidates.WithLabelValues("matched").Add(float64(st.Matched))
	m.Candidates.WithLabelValues("rejected").Add(float64(st.Scanned - st.Matched - st.Skipped))
	m.Candidates.WithLabelValues("skipped").Add(float64(st.Skipped))
}

func (m *Metrics) written(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.Writes.WithLabelValues(status).Inc()
}

func (m *Metrics) deleted() {
	if m == nil {
		return
	}
	m.Deletes.Inc()
}
