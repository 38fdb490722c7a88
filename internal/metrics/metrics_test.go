package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordSyncOutcome(t *testing.T) {
	before := testutil.ToFloat64(CRMSyncOutcomes.WithLabelValues("synced"))
	RecordSyncOutcome("synced")
	after := testutil.ToFloat64(CRMSyncOutcomes.WithLabelValues("synced"))
	if after-before != 1 {
		t.Fatalf("expected counter to increase by 1, got %v", after-before)
	}
}

func TestRecordVCardRender(t *testing.T) {
	before := testutil.ToFloat64(VCardRenders.WithLabelValues("embedded"))
	RecordVCardRender(true)
	if got := testutil.ToFloat64(VCardRenders.WithLabelValues("embedded")); got-before != 1 {
		t.Fatalf("expected embedded counter increment, got %v", got-before)
	}
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{
		0:   "error",
		201: "2xx",
		302: "3xx",
		422: "4xx",
		503: "5xx",
	}
	for status, want := range tests {
		if got := statusClass(status); got != want {
			t.Fatalf("statusClass(%d) = %s, want %s", status, got, want)
		}
	}
}
