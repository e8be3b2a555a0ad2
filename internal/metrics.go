package internal

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the request counters. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	nested   prometheus.Counter
}

// NewMetrics registers the plexis collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plexis",
			Name:      "requests_total",
			Help:      "Executed requests by route source and response status.",
		}, []string{"source", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "plexis",
			Name:      "request_duration_seconds",
			Help:      "Time spent resolving and dispatching a request.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"module"}),
		nested: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "plexis",
			Name:      "nested_requests_total",
			Help:      "Requests executed from inside another request.",
		}),
	}
}

func (m *Metrics) observe(req *Request, source string, status int, took time.Duration) {
	if m == nil {
		return
	}
	if source == "" {
		source = "none"
	}
	m.requests.WithLabelValues(source, strconv.Itoa(status)).Inc()
	if mod := req.Module(); mod != "" {
		m.duration.WithLabelValues(mod).Observe(took.Seconds())
	}
	if req.IsNested() {
		m.nested.Inc()
	}
}
