package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CRMSyncOutcomes counts orchestrator invocations by outcome
	// (synced, failed, not_configured, disabled).
	CRMSyncOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_sync_outcomes_total",
			Help: "Total number of contact sync invocations by outcome",
		},
		[]string{"outcome"},
	)

	CRMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crm_request_duration_seconds",
			Help:    "Duration of outbound GoHighLevel API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status_class"},
	)

	VCardRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vcard_renders_total",
			Help: "Total number of vCard documents rendered",
		},
		[]string{"photo"},
	)
)

// RecordSyncOutcome increments the sync outcome counter.
func RecordSyncOutcome(outcome string) {
	CRMSyncOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveCRMRequest records the latency of one CRM call. status is the HTTP status or 0 on transport failure.
func ObserveCRMRequest(operation string, status int, started time.Time) {
	CRMRequestDuration.WithLabelValues(operation, statusClass(status)).Observe(time.Since(started).Seconds())
}

// RecordVCardRender counts a rendered vCard, split by whether a photo was embedded.
func RecordVCardRender(withPhoto bool) {
	label := "absent"
	if withPhoto {
		label = "embedded"
	}
	VCardRenders.WithLabelValues(label).Inc()
}

func statusClass(status int) string {
	switch {
	case status <= 0:
		return "error"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
