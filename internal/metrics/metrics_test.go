package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("1.2.3", "abc1234", "go1.25")

	got := testutil.ToFloat64(AppInfo.WithLabelValues("1.2.3", "abc1234", "go1.25"))
	if got != 1 {
		t.Errorf("AppInfo gauge = %v, want 1", got)
	}
}

func TestExportCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(ExportAssetFailures.WithLabelValues("retrieval"))
	ExportAssetFailures.WithLabelValues("retrieval").Inc()
	after := testutil.ToFloat64(ExportAssetFailures.WithLabelValues("retrieval"))

	if after != before+1 {
		t.Errorf("ExportAssetFailures: got %v, want %v", after, before+1)
	}
}

func TestGaugeSetAndReset(t *testing.T) {
	ExportWorkers.Set(6)
	if got := testutil.ToFloat64(ExportWorkers); got != 6 {
		t.Errorf("ExportWorkers = %v, want 6", got)
	}

	ExportsInProgress.Inc()
	ExportsInProgress.Dec()
	if got := testutil.ToFloat64(ExportsInProgress); got != 0 {
		t.Errorf("ExportsInProgress = %v, want 0", got)
	}
}
