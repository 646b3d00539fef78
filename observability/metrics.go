package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for message handling.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Inbound messages accepted from the gateway
	MessagesReceived prometheus.Counter

	// Processed messages by outcome
	MessagesProcessed *prometheus.CounterVec

	// Messages dropped because the queue stayed full
	EnqueueDropped prometheus.Counter

	// Messages buffered after the last enqueue or drain
	QueueDepth prometheus.Gauge

	// Config commands by result
	Commands *prometheus.CounterVec

	// Time spent processing a single message
	ProcessLatency prometheus.Histogram
}

// New creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		MessagesReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "registrar_messages_received_total",
			Help: "Total guild messages received from the gateway",
		}),

		MessagesProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registrar_messages_processed_total",
			Help: "Total queued messages processed by outcome",
		}, []string{"outcome"}),

		EnqueueDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "registrar_queue_enqueue_dropped_total",
			Help: "Total messages dropped because the queue stayed full",
		}),

		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "registrar_queue_depth",
			Help: "Messages currently buffered in the queue",
		}),

		Commands: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registrar_commands_total",
			Help: "Total configuration commands by result",
		}, []string{"result"}), // result: "ok", "denied", "invalid", "error"

		ProcessLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "registrar_message_process_duration_seconds",
			Help:    "Duration of processing one queued message",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// IncMessagesReceived records an inbound guild message.
func (m *Metrics) IncMessagesReceived() {
	if m != nil {
		m.MessagesReceived.Inc()
	}
}

// IncProcessed records a processing outcome.
func (m *Metrics) IncProcessed(outcome string) {
	if m != nil {
		m.MessagesProcessed.WithLabelValues(outcome).Inc()
	}
}

// IncEnqueueDropped records a message dropped on a full queue.
func (m *Metrics) IncEnqueueDropped() {
	if m != nil {
		m.EnqueueDropped.Inc()
	}
}

// SetQueueDepth records the current queue length.
func (m *Metrics) SetQueueDepth(depth int) {
	if m != nil {
		m.QueueDepth.Set(float64(depth))
	}
}

// IncCommand records a config command result.
func (m *Metrics) IncCommand(result string) {
	if m != nil {
		m.Commands.WithLabelValues(result).Inc()
	}
}

// ObserveProcessLatency records how long one message took to process.
func (m *Metrics) ObserveProcessLatency(d time.Duration) {
	if m != nil {
		m.ProcessLatency.Observe(d.Seconds())
	}
}
