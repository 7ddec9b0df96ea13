// Package holiday は外部の祝日フィードの取得を提供する。
// フィードは日付文字列をキーとする公開JSONドキュメントで、
// ダッシュボード表示のたびに取得され、永続化はされない。
package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/kintai/internal/model"
)

// SafeClientFactory はSSRF防止機能付きHTTPクライアントの生成インターフェース。
// security.SSRFGuardServiceの部分集合として定義する。
type SafeClientFactory interface {
	NewSafeClient(timeout time.Duration, maxResponseSize int64) *http.Client
	ValidateURL(rawURL string) error
}

// FetchRecorder は祝日フィード取得のメトリクス記録インターフェース。
type FetchRecorder interface {
	RecordHolidayFetchSuccess()
	RecordHolidayFetchFailure()
	RecordHolidayFetchLatency(duration time.Duration)
}

// Client は祝日フィードのHTTPクライアント。
// フィードURLは設定で差し替え可能なため、SSRF検証付きクライアントで取得する。
type Client struct {
	feedURL  string
	guard    SafeClientFactory
	recorder FetchRecorder
	logger   *slog.Logger
	timeout  time.Duration
	maxSize  int64
}

// NewClient はClientの新しいインスタンスを生成する。
// recorderはnilを許容する（メトリクス記録をスキップする）。
func NewClient(feedURL string, guard SafeClientFactory, recorder FetchRecorder, logger *slog.Logger, timeout time.Duration, maxSize int64) *Client {
	return &Client{
		feedURL:  feedURL,
		guard:    guard,
		recorder: recorder,
		logger:   logger,
		timeout:  timeout,
		maxSize:  maxSize,
	}
}

// feedEntry はフィードの1エントリのJSON表現。
// 祝日エントリはsummaryを持つ。author/link/updated等のメタデータエントリは
// summaryを持たないため、デコード後に除外される。
type feedEntry struct {
	Summary string `json:"summary"`
}

// Fetch は祝日フィードを取得し、日付キーの参照表を返す。
// 非2xxステータス、パース失敗、サイズ超過はいずれもエラーとなる。
func (c *Client) Fetch(ctx context.Context) (model.HolidayTable, error) {
	start := time.Now()
	table, err := c.fetch(ctx)
	duration := time.Since(start)

	if c.recorder != nil {
		c.recorder.RecordHolidayFetchLatency(duration)
		if err != nil {
			c.recorder.RecordHolidayFetchFailure()
		} else {
			c.recorder.RecordHolidayFetchSuccess()
		}
	}

	if err != nil {
		c.logger.Error("祝日フィードの取得に失敗しました",
			slog.String("feed_url", c.feedURL),
			slog.String("error", err.Error()),
			slog.Float64("duration_ms", float64(duration.Milliseconds())),
		)
		return nil, err
	}

	c.logger.Info("祝日フィードを取得しました",
		slog.Int("holiday_count", len(table)),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)
	return table, nil
}

func (c *Client) fetch(ctx context.Context) (model.HolidayTable, error) {
	if err := c.guard.ValidateURL(c.feedURL); err != nil {
		return nil, fmt.Errorf("祝日フィードURLの検証に失敗しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("User-Agent", "Kintai/1.0 Attendance Tracker")
	req.Header.Set("Accept", "application/json")

	client := c.guard.NewSafeClient(c.timeout, c.maxSize)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("祝日フィードへのHTTPリクエストに失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("祝日フィードがステータス %d を返しました", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxSize))
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	var raw map[string]feedEntry
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("祝日フィードJSONのパースに失敗しました: %w", err)
	}

	table := make(model.HolidayTable, len(raw))
	for key, entry := range raw {
		// summaryを持たないエントリはフィードのメタデータとして無視する
		if entry.Summary == "" {
			continue
		}
		if !isDateKey(key) {
			continue
		}
		table[key] = model.Holiday{Summary: entry.Summary}
	}

	return table, nil
}

// isDateKey はキーがDateLayout形式の日付文字列かどうかを検証する。
func isDateKey(key string) bool {
	_, err := time.Parse(model.DateLayout, key)
	return err == nil
}
