package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's Prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Mutations      *prometheus.CounterVec
	RemoteFailures *prometheus.CounterVec
	Spins          prometheus.Counter
	Bootstrap      *prometheus.CounterVec
	HTTPRequests   *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_total",
				Help:      "Store mutations by collection, operation and outcome",
			},
			[]string{"collection", "op", "outcome"},
		),
		RemoteFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "remote_failures_total",
				Help:      "Remote backend writes that failed and were reverted",
			},
			[]string{"op"},
		),
		Spins: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "wheel_spins_total",
				Help:      "Wheel spins started",
			},
		),
		Bootstrap: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bootstrap_total",
				Help:      "Startup data loads by source",
			},
			[]string{"source"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
	}

	registry.MustRegister(
		m.Mutations,
		m.RemoteFailures,
		m.Spins,
		m.Bootstrap,
		m.HTTPRequests,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveMutation counts one store mutation. A non-nil err is a reverted write.
func (m *Metrics) ObserveMutation(collection, op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "reverted"
		m.RemoteFailures.WithLabelValues(op).Inc()
	}
	m.Mutations.WithLabelValues(collection, op, outcome).Inc()
}

func (m *Metrics) ObserveSpin() {
	if m == nil {
		return
	}
	m.Spins.Inc()
}

// ObserveBootstrap records where the startup snapshot came from
func (m *Metrics) ObserveBootstrap(source string) {
	if m == nil {
		return
	}
	m.Bootstrap.WithLabelValues(source).Inc()
}

// Middleware counts requests per matched route pattern
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
