package metrics

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	libhttp "github.com/moonfall/devserve/lib/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Namespace is the prefix of all the metric names
const Namespace = "devserve"

// Metrics counts the requests answered by a server
type Metrics struct {
	Requests      *prometheus.CounterVec
	ResponseBytes prometheus.Counter
}

// NewMetrics creates a new metrics instance
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Number of HTTP requests answered, by method and status code.",
		}, []string{"method", "code"}),
		ResponseBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "response_bytes_total",
			Help:      "Number of HTTP response body bytes written.",
		}),
	}
}

// Collectors returns all prometheus metrics as collectors for registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	if m == nil {
		return nil
	}
	return []prometheus.Collector{
		m.Requests,
		m.ResponseBytes,
	}
}

// NewRegistry makes a registry with m and the Go runtime and process
// collectors registered
func (m *Metrics) NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	registry.MustRegister(m.Collectors()...)
	return registry
}

// Middleware returns middleware which counts each request once it is
// answered
//
// A nil *Metrics returns middleware which does nothing.
func (m *Metrics) Middleware() libhttp.Middleware {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				m.Requests.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
				m.ResponseBytes.Add(float64(ww.BytesWritten()))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
