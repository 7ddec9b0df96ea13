// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordClockIn()
	RecordClockOut()
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordHolidayFetchSuccess()
	RecordHolidayFetchFailure()
	RecordHolidayFetchLatency(duration time.Duration)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	clockIn             prometheus.Counter
	clockOut            prometheus.Counter
	loginSuccess        prometheus.Counter
	loginFail           prometheus.Counter
	holidayFetchSuccess prometheus.Counter
	holidayFetchFail    prometheus.Counter
	holidayFetchLatency prometheus.Histogram
	httpStatus          *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		clockIn: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kintai_clock_in_total",
			Help: "出勤打刻成功の合計数",
		}),
		clockOut: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kintai_clock_out_total",
			Help: "退勤打刻成功の合計数",
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kintai_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kintai_login_fail_total",
			Help: "ログイン失敗の合計数",
		}),
		holidayFetchSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kintai_holiday_fetch_success_total",
			Help: "祝日フィード取得成功の合計数",
		}),
		holidayFetchFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kintai_holiday_fetch_fail_total",
			Help: "祝日フィード取得失敗の合計数",
		}),
		holidayFetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kintai_holiday_fetch_latency_seconds",
			Help:    "祝日フィード取得のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kintai_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.clockIn,
		c.clockOut,
		c.loginSuccess,
		c.loginFail,
		c.holidayFetchSuccess,
		c.holidayFetchFail,
		c.holidayFetchLatency,
		c.httpStatus,
	)

	return c
}

// RecordClockIn は出勤打刻の成功を記録する。
func (c *Collector) RecordClockIn() {
	c.clockIn.Inc()
}

// RecordClockOut は退勤打刻の成功を記録する。
func (c *Collector) RecordClockOut() {
	c.clockOut.Inc()
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFail.Inc()
}

// RecordHolidayFetchSuccess は祝日フィード取得成功を記録する。
func (c *Collector) RecordHolidayFetchSuccess() {
	c.holidayFetchSuccess.Inc()
}

// RecordHolidayFetchFailure は祝日フィード取得失敗を記録する。
func (c *Collector) RecordHolidayFetchFailure() {
	c.holidayFetchFail.Inc()
}

// RecordHolidayFetchLatency は祝日フィード取得のレイテンシを記録する。
func (c *Collector) RecordHolidayFetchLatency(duration time.Duration) {
	c.holidayFetchLatency.Observe(duration.Seconds())
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
