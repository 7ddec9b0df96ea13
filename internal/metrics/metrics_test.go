package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			var total float64
			for _, m := range mf.GetMetric() {
				total += m.GetCounter().GetValue()
			}
			return total
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

// TestRecordClockIn_IncrementsCounter は出勤打刻カウンタが増加することを検証する。
func TestRecordClockIn_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordClockIn()
	c.RecordClockIn()

	if got := counterValue(t, reg, "kintai_clock_in_total"); got != 2 {
		t.Errorf("kintai_clock_in_total = %v, want 2", got)
	}
}

// TestRecordClockOut_IncrementsCounter は退勤打刻カウンタが増加することを検証する。
func TestRecordClockOut_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordClockOut()

	if got := counterValue(t, reg, "kintai_clock_out_total"); got != 1 {
		t.Errorf("kintai_clock_out_total = %v, want 1", got)
	}
}

// TestRecordLoginCounters はログイン成功・失敗カウンタが独立に増加することを検証する。
func TestRecordLoginCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLoginSuccess()
	c.RecordLoginFailure()
	c.RecordLoginFailure()

	if got := counterValue(t, reg, "kintai_login_success_total"); got != 1 {
		t.Errorf("kintai_login_success_total = %v, want 1", got)
	}
	if got := counterValue(t, reg, "kintai_login_fail_total"); got != 2 {
		t.Errorf("kintai_login_fail_total = %v, want 2", got)
	}
}

// TestRecordHolidayFetch は祝日フィード取得のメトリクスが記録されることを検証する。
func TestRecordHolidayFetch(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHolidayFetchSuccess()
	c.RecordHolidayFetchFailure()
	c.RecordHolidayFetchLatency(150 * time.Millisecond)

	if got := counterValue(t, reg, "kintai_holiday_fetch_success_total"); got != 1 {
		t.Errorf("kintai_holiday_fetch_success_total = %v, want 1", got)
	}
	if got := counterValue(t, reg, "kintai_holiday_fetch_fail_total"); got != 1 {
		t.Errorf("kintai_holiday_fetch_fail_total = %v, want 1", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	var found bool
	for _, mf := range families {
		if mf.GetName() == "kintai_holiday_fetch_latency_seconds" {
			found = true
			if mf.GetMetric()[0].GetHistogram().GetSampleCount() != 1 {
				t.Errorf("latency sample count = %d, want 1", mf.GetMetric()[0].GetHistogram().GetSampleCount())
			}
		}
	}
	if !found {
		t.Error("latency histogram not found")
	}
}

// TestRecordHTTPStatus_LabelsByCode はステータスコード別にカウントされることを検証する。
func TestRecordHTTPStatus_LabelsByCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(500)

	if got := counterValue(t, reg, "kintai_http_status_total"); got != 3 {
		t.Errorf("kintai_http_status_total = %v, want 3", got)
	}
}
