package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	streamEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netsentry_stream_events_total",
		Help: "Total number of push-channel events received, by kind",
	}, []string{"kind"})
	streamDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netsentry_stream_dropped_payloads_total",
		Help: "Total number of malformed push-channel payloads dropped",
	})
	streamReconnectsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netsentry_stream_reconnect_attempts_total",
		Help: "Total number of push-channel reconnect attempts",
	})
	notificationsSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netsentry_notifications_sent_total",
		Help: "Total number of notifications dispatched, by sink",
	}, []string{"sink"})
	notificationsFailedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netsentry_notifications_failed_total",
		Help: "Total number of notification deliveries that failed, by sink",
	}, []string{"sink"})
	bufferEvictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netsentry_buffer_evictions_total",
		Help: "Total number of alerts evicted from the bounded buffer",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register() {
	prometheus.MustRegister(
		streamEventsTotal,
		streamDroppedTotal,
		streamReconnectsTotal,
		notificationsSentTotal,
		notificationsFailedTotal,
		bufferEvictionsTotal,
	)
}

// IncStreamEvent counts one received push-channel event of the given kind.
func IncStreamEvent(kind string) { streamEventsTotal.WithLabelValues(kind).Inc() }

// IncStreamDropped counts one malformed payload dropped by the stream.
func IncStreamDropped() { streamDroppedTotal.Inc() }

// IncStreamReconnect counts one reconnect attempt.
func IncStreamReconnect() { streamReconnectsTotal.Inc() }

// IncNotificationSent counts one successful dispatch for the named sink.
func IncNotificationSent(sink string) { notificationsSentTotal.WithLabelValues(sink).Inc() }

// IncNotificationFailed counts one failed dispatch for the named sink.
func IncNotificationFailed(sink string) { notificationsFailedTotal.WithLabelValues(sink).Inc() }

// IncBufferEviction counts one alert trimmed from the buffer tail.
func IncBufferEviction() { bufferEvictionsTotal.Inc() }
