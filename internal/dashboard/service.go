// Package dashboard は勤怠レコードと祝日フィードを結合した月次ビューを提供する。
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/hitoshi/kintai/internal/model"
)

// monthRecordLimit は1回の集約で返す勤怠レコードの上限件数。
const monthRecordLimit = 100

// HolidayFetcher は祝日フィード取得のインターフェース。
type HolidayFetcher interface {
	Fetch(ctx context.Context) (model.HolidayTable, error)
}

// AttendanceLister は月次勤怠レコード取得のインターフェース。
// attendance.Serviceの部分集合として定義する。
type AttendanceLister interface {
	ListMonth(ctx context.Context, userID string, ref time.Time, limit int) ([]*model.AttendanceRecord, error)
}

// View は集約結果を表す。
// 2つのデータソースは独立に取得され、片方の失敗はもう片方に影響しない。
// 失敗したソースは空のスライス・テーブルとエラーフラグに縮退する。
type View struct {
	Records  []*model.AttendanceRecord
	Holidays model.HolidayTable

	// AttendanceFailed / HolidaysFailed は各ソースの取得失敗を示す。
	AttendanceFailed bool
	HolidaysFailed   bool
}

// Degraded はいずれかのソースが取得に失敗したかどうかを返す。
func (v *View) Degraded() bool {
	return v.AttendanceFailed || v.HolidaysFailed
}

// Service はダッシュボードの集約ロジックを提供する。
type Service struct {
	holidays   HolidayFetcher
	attendance AttendanceLister
}

// NewService はServiceを生成する。
func NewService(holidays HolidayFetcher, attendance AttendanceLister) *Service {
	return &Service{
		holidays:   holidays,
		attendance: attendance,
	}
}

// Aggregate はrefが属する月の勤怠レコードと祝日参照表を結合して返す。
// 各ソースの失敗はそのソースのみを空に縮退させ、エラーとしては返さない。
// 上流の不調でダッシュボード全体が落ちることはない。
func (s *Service) Aggregate(ctx context.Context, userID string, ref time.Time) *View {
	view := &View{
		Records:  []*model.AttendanceRecord{},
		Holidays: model.HolidayTable{},
	}

	table, err := s.holidays.Fetch(ctx)
	if err != nil {
		slog.Error("ダッシュボード: 祝日フィードの取得に失敗しました",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		view.HolidaysFailed = true
	} else {
		view.Holidays = table
	}

	records, err := s.attendance.ListMonth(ctx, userID, ref, monthRecordLimit)
	if err != nil {
		slog.Error("ダッシュボード: 勤怠レコードの取得に失敗しました",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		view.AttendanceFailed = true
	} else if records != nil {
		view.Records = records
	}

	return view
}
