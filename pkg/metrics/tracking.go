package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the click redirect HTTP handler
	ClickLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tracking_click_latency_seconds",
		Help:    "Latency of the click redirect handler",
		Buckets: prometheus.DefBuckets,
	})

	// Total clicks accepted and redirected
	ClicksAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracking_clicks_accepted_total",
		Help: "Total clicks accepted and redirected",
	})

	// Clicks rejected by policy, labeled by fraud event type
	ClicksRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracking_clicks_rejected_total",
		Help: "Total clicks rejected by offer policy",
	}, []string{"reason"})

	// Latency of the conversion postback handler
	ConversionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tracking_conversion_latency_seconds",
		Help:    "Latency of the conversion postback handler",
		Buckets: prometheus.DefBuckets,
	})

	// Total conversions ingested (first delivery)
	ConversionsIngested = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracking_conversions_ingested_total",
		Help: "Total conversions persisted",
	})

	// Duplicate postback deliveries answered idempotently
	ConversionsDuplicate = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracking_conversions_duplicate_total",
		Help: "Total duplicate conversion deliveries",
	})

	// Fraud events dropped because the async queue was full
	FraudEventsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracking_fraud_events_dropped_total",
		Help: "Total fraud events dropped on queue overflow",
	})
)

func Init() {
	prometheus.MustRegister(
		ClickLatency,
		ClicksAccepted,
		ClicksRejected,
		ConversionLatency,
		ConversionsIngested,
		ConversionsDuplicate,
		FraudEventsDropped,
	)
}
