package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	jobTotal      *prometheus.CounterVec
	jobDuration   *prometheus.HistogramVec
	jobInFlight   prometheus.Gauge
	queueLag      *prometheus.HistogramVec
	ordersMerged  *prometheus.CounterVec
	orderFailures *prometheus.CounterVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	jobTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "labelpress",
			Subsystem: "worker",
			Name:      "job_process_total",
			Help:      "Total processed bulk merge jobs by status.",
		},
		[]string{"service", "status"},
	)
	jobDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "labelpress",
			Subsystem: "worker",
			Name:      "job_process_duration_seconds",
			Help:      "Bulk merge job duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	jobInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "labelpress",
			Subsystem: "worker",
			Name:      "job_process_in_flight",
			Help:      "Number of in-flight bulk merge jobs.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "labelpress",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between job submission and processing start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	ordersMerged := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "labelpress",
			Subsystem: "worker",
			Name:      "orders_merged_total",
			Help:      "Total per-order PDFs produced by bulk merge jobs.",
		},
		[]string{"service"},
	)
	orderFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "labelpress",
			Subsystem: "worker",
			Name:      "order_failures_total",
			Help:      "Total orders that could not be merged within otherwise successful jobs.",
		},
		[]string{"service"},
	)

	registry.MustRegister(jobTotal, jobDuration, jobInFlight, queueLag, ordersMerged, orderFailures)

	return &WorkerMetrics{
		registry:      registry,
		jobTotal:      jobTotal,
		jobDuration:   jobDuration,
		jobInFlight:   jobInFlight,
		queueLag:      queueLag,
		ordersMerged:  ordersMerged,
		orderFailures: orderFailures,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartJob() {
	m.jobInFlight.Inc()
}

func (m *WorkerMetrics) FinishJob(service string, duration time.Duration, err error) {
	m.jobInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.jobTotal.WithLabelValues(service, status).Inc()
	m.jobDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}

func (m *WorkerMetrics) RecordJobOutcome(service string, merged, failed int) {
	if merged > 0 {
		m.ordersMerged.WithLabelValues(service).Add(float64(merged))
	}
	if failed > 0 {
		m.orderFailures.WithLabelValues(service).Add(float64(failed))
	}
}
