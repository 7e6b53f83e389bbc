package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ariebrainware/clinic-appointment/model"
)

// Collector holds the service metrics. A nil *Collector is valid and records
// nothing, so handlers can run without a registry in tests.
type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	AppointmentsCreated    *prometheus.CounterVec
	AppointmentTransitions *prometheus.CounterVec
	WorklistSize           prometheus.Histogram

	StoreFailures *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewCollector registers the metrics on reg. Pass prometheus.NewRegistry()
// in tests to avoid duplicate registration on the default registry.
func NewCollector(serviceName string, reg prometheus.Registerer, gatherer prometheus.Gatherer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		AppointmentsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "clinical",
			Name:      "appointments_created_total",
			Help:      "Appointments created, split by whether a doctor was chosen up front.",
		}, []string{"assigned"}),

		AppointmentTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "clinical",
			Name:      "appointment_transitions_total",
			Help:      "Committed appointment status transitions.",
		}, []string{"from", "to"}),

		WorklistSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "clinical",
			Name:      "doctor_worklist_size",
			Help:      "Number of appointments returned on a doctor worklist.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),

		StoreFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "store",
			Name:      "failures_total",
			Help:      "Store operations that failed, by operation.",
		}, []string{"operation"}),

		gatherer: gatherer,
	}
}

func (c *Collector) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	code := strconv.Itoa(status)
	c.RequestsTotal.WithLabelValues(method, path, code).Inc()
	c.RequestDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}

func (c *Collector) AppointmentCreated(assigned bool) {
	if c == nil {
		return
	}
	c.AppointmentsCreated.WithLabelValues(strconv.FormatBool(assigned)).Inc()
}

func (c *Collector) Transition(from, to model.AppointmentStatus) {
	if c == nil {
		return
	}
	c.AppointmentTransitions.WithLabelValues(string(from), string(to)).Inc()
}

func (c *Collector) Worklist(size int) {
	if c == nil {
		return
	}
	c.WorklistSize.Observe(float64(size))
}

func (c *Collector) StoreFailure(operation string) {
	if c == nil {
		return
	}
	c.StoreFailures.WithLabelValues(operation).Inc()
}

// Handler serves the collector's registry, or the default one when no
// gatherer was supplied.
func (c *Collector) Handler() http.Handler {
	if c == nil || c.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
