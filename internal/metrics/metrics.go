// Package metrics exposes Prometheus instruments for the form host. A Recorder
// is a controller.Observer, so every controller built by the host reports
// into the same registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-fertform/pkg/controller"
)

const namespace = "fertform"

// Recorder owns the registry and instruments.
type Recorder struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	banners     prometheus.Counter
	requests    *prometheus.CounterVec
}

var _ controller.Observer = (*Recorder)(nil)

// New registers the instruments on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Form submissions by outcome.",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Time from submit to a rendered outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		banners: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "banners_shown_total",
			Help:      "Save confirmations shown.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served by route and status.",
		}, []string{"method", "route", "status"}),
	}
	r.registry.MustRegister(r.submissions, r.latency, r.banners, r.requests)
	return r
}

// SubmitCompleted implements controller.Observer.
func (r *Recorder) SubmitCompleted(outcome controller.Outcome, elapsed time.Duration) {
	r.submissions.WithLabelValues(string(outcome)).Inc()
	r.latency.WithLabelValues(string(outcome)).Observe(elapsed.Seconds())
}

// BannerShown implements controller.Observer.
func (r *Recorder) BannerShown() {
	r.banners.Inc()
}

// ObserveRequest counts one served HTTP request.
func (r *Recorder) ObserveRequest(method, route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
