package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ClientMetrics tracks outbound backend calls, chat streaming, and
// document polling. The registry is owned by the instance; nothing is
// registered globally.
type ClientMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	chatInFlight    prometheus.Gauge
	streamChunks    prometheus.Counter
	pollCycles      prometheus.Counter
}

func NewClientMetrics(service string) *ClientMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inteldocs",
			Subsystem: "client",
			Name:      "backend_request_total",
			Help:      "Total backend requests by operation and outcome.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
		[]string{"operation", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "inteldocs",
			Subsystem: "client",
			Name:      "backend_request_duration_seconds",
			Help:      "Backend request duration in seconds by operation and outcome.",
			Buckets:   prometheus.DefBuckets,
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
		[]string{"operation", "status"},
	)
	chatInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "inteldocs",
			Subsystem: "client",
			Name:      "chat_turns_in_flight",
			Help:      "Number of chat turns currently awaiting an answer.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	streamChunks := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "inteldocs",
			Subsystem: "client",
			Name:      "chat_stream_chunks_total",
			Help:      "Total chat answer fragments received in incremental mode.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	pollCycles := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "inteldocs",
			Subsystem: "client",
			Name:      "document_poll_cycles_total",
			Help:      "Total document collection poll cycles.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(requestTotal, requestDuration, chatInFlight, streamChunks, pollCycles)

	return &ClientMetrics{
		registry:        registry,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		chatInFlight:    chatInFlight,
		streamChunks:    streamChunks,
		pollCycles:      pollCycles,
	}
}

func (m *ClientMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *ClientMetrics) ObserveRequest(operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.requestTotal.WithLabelValues(operation, status).Inc()
	m.requestDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

func (m *ClientMetrics) ChatTurnStarted() {
	m.chatInFlight.Inc()
}

func (m *ClientMetrics) ChatTurnFinished() {
	m.chatInFlight.Dec()
}

func (m *ClientMetrics) ObserveStreamChunk() {
	m.streamChunks.Inc()
}

func (m *ClientMetrics) ObservePollCycle() {
	m.pollCycles.Inc()
}
