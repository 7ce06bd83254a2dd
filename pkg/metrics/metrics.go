package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Entity gauges
	ParticipantsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rtps_participants_total",
			Help: "Number of local domain participants",
		},
	)

	DiscoveredParticipantsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rtps_discovered_participants_total",
			Help: "Number of remote participants currently known via SPDP",
		},
	)

	WritersTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rtps_writers_total",
			Help: "Number of local data writers by reliability kind",
		},
		[]string{"reliability"},
	)

	ReadersTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rtps_readers_total",
			Help: "Number of local data readers by reliability kind",
		},
		[]string{"reliability"},
	)

	// Matching metrics
	MatchedEndpointsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rtps_matched_endpoints_total",
			Help: "Number of currently matched writer/reader pairs",
		},
	)

	IncompatibleQosTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtps_incompatible_qos_total",
			Help: "Total number of QoS incompatibility events by policy id",
		},
		[]string{"policy"},
	)

	MatchingLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rtps_matching_latency_seconds",
			Help:    "Time taken to evaluate a matching candidate pair",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Cache metrics
	CacheChangesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rtps_cache_changes_total",
			Help: "Number of changes currently held in a history cache",
		},
		[]string{"endpoint", "kind"},
	)

	CacheChangesRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtps_cache_changes_rejected_total",
			Help: "Total number of changes rejected by a resource limit",
		},
		[]string{"endpoint", "reason"},
	)

	DeadlineMissedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtps_deadline_missed_total",
			Help: "Total number of offered/requested deadline misses",
		},
		[]string{"side"},
	)

	SamplesLostTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rtps_samples_lost_total",
			Help: "Total number of samples a reader detected as lost via gaps",
		},
	)

	// Wire codec metrics
	MessagesDecodedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtps_messages_decoded_total",
			Help: "Total number of inbound RTPS messages decoded, by outcome",
		},
		[]string{"outcome"},
	)

	SubmessagesDecodedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtps_submessages_decoded_total",
			Help: "Total number of submessages decoded by submessage id",
		},
		[]string{"submessage"},
	)

	BytesSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rtps_bytes_sent_total",
			Help: "Total number of bytes sent over the transport",
		},
	)

	BytesReceivedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rtps_bytes_received_total",
			Help: "Total number of bytes received over the transport",
		},
	)

	// Discovery metrics
	SpdpAnnouncementsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rtps_spdp_announcements_total",
			Help: "Total number of SPDP participant announcements sent",
		},
	)

	SedpAnnouncementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtps_sedp_announcements_total",
			Help: "Total number of SEDP endpoint announcements sent, by builtin topic",
		},
		[]string{"topic"},
	)

	DiscoveryCycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rtps_discovery_cycle_duration_seconds",
			Help:    "Time taken to process one discovery announce/detect cycle",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Orchestrator metrics
	MailboxQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rtps_mailbox_queue_depth",
			Help: "Current number of pending mail items in the participant mailbox",
		},
	)

	MailProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rtps_mail_processing_duration_seconds",
			Help:    "Time taken to process one mail item by mail kind",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(ParticipantsTotal)
	prometheus.MustRegister(DiscoveredParticipantsTotal)
	prometheus.MustRegister(WritersTotal)
	prometheus.MustRegister(ReadersTotal)
	prometheus.MustRegister(MatchedEndpointsTotal)
	prometheus.MustRegister(IncompatibleQosTotal)
	prometheus.MustRegister(MatchingLatency)
	prometheus.MustRegister(CacheChangesTotal)
	prometheus.MustRegister(CacheChangesRejectedTotal)
	prometheus.MustRegister(DeadlineMissedTotal)
	prometheus.MustRegister(SamplesLostTotal)
	prometheus.MustRegister(MessagesDecodedTotal)
	prometheus.MustRegister(SubmessagesDecodedTotal)
	prometheus.MustRegister(BytesSentTotal)
	prometheus.MustRegister(BytesReceivedTotal)
	prometheus.MustRegister(SpdpAnnouncementsTotal)
	prometheus.MustRegister(SedpAnnouncementsTotal)
	prometheus.MustRegister(DiscoveryCycleDuration)
	prometheus.MustRegister(MailboxQueueDepth)
	prometheus.MustRegister(MailProcessingDuration)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
