// Package attendance は出退勤打刻の状態遷移と日次ルックアップを提供する。
//
// 1ユーザー・1営業日の状態は レコードなし → 出勤中 → 退勤済み と一方向に遷移する。
// 退勤済みからの遷移は存在しない。
package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/kintai/internal/model"
	"github.com/hitoshi/kintai/internal/repository"
)

// Sanitizer は業務内容のサニタイズインターフェース。
// security.ContentSanitizerServiceの部分集合として定義する。
type Sanitizer interface {
	Sanitize(raw string) string
}

// Service は勤怠打刻のビジネスロジックを提供する。
type Service struct {
	repo      repository.AttendanceRepository
	loc       *time.Location
	sanitizer Sanitizer
}

// NewService はServiceを生成する。
// locは営業日境界の計算に使用するタイムゾーン。
// 日付キーの導出と日次ルックアップの両方が同じLocationを共有しないと、
// 書き込んだレコードがルックアップで到達不能になる。
// sanitizerは業務内容の保存前に適用される。
func NewService(repo repository.AttendanceRepository, loc *time.Location, sanitizer Sanitizer) *Service {
	return &Service{
		repo:      repo,
		loc:       loc,
		sanitizer: sanitizer,
	}
}

// ClockIn は出勤打刻を行い、作成されたレコードを返す。
// 同一営業日のレコードが既に存在する場合はAlreadyClockedInエラーを返す。
// 一意性はDBのユニーク制約で担保されるため、並行打刻でも重複レコードは作られない。
func (s *Service) ClockIn(ctx context.Context, userID string, now time.Time) (*model.AttendanceRecord, error) {
	record := &model.AttendanceRecord{
		ID:        uuid.New().String(),
		UserID:    userID,
		ClockIn:   now,
		Date:      now.In(s.loc).Format(model.DateLayout),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicateRecord) {
			return nil, model.NewAlreadyClockedInError()
		}
		return nil, fmt.Errorf("failed to create attendance record: %w", err)
	}

	slog.Info("clocked in",
		slog.String("user_id", userID),
		slog.String("date", record.Date),
	)
	return record, nil
}

// ClockOut は退勤打刻を行い、更新後のレコードを返す。
// 業務内容は必須で、空白のみの場合は検証エラーを返す。
// 本日のオープン中レコードが存在しない場合はNoActiveClockInエラーを返す。
// 退勤時刻と業務内容はストレージ側で単一の条件付きUPDATEとして適用される。
func (s *Service) ClockOut(ctx context.Context, userID, description string, now time.Time) (*model.AttendanceRecord, error) {
	description = strings.TrimSpace(s.sanitizer.Sanitize(description))
	if description == "" {
		return nil, model.NewValidationError("業務内容は退勤時に必須です")
	}

	from, to := DayBounds(now, s.loc)
	open, err := s.repo.FindOpenByUserAndRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to find open attendance record: %w", err)
	}
	if open == nil {
		return nil, model.NewNoActiveClockInError()
	}

	if err := s.repo.Close(ctx, open.ID, now, description); err != nil {
		if errors.Is(err, repository.ErrRecordNotOpen) {
			// ルックアップとクローズの間に別リクエストがクローズした場合
			return nil, model.NewNoActiveClockInError()
		}
		return nil, fmt.Errorf("failed to close attendance record: %w", err)
	}

	open.ClockOut = &now
	open.Description = &description
	open.UpdatedAt = now

	slog.Info("clocked out",
		slog.String("user_id", userID),
		slog.String("date", open.Date),
	)
	return open, nil
}

// TodayRecord はrefが属する営業日の勤怠レコードを返す。存在しない場合はnilを返す。
// 出勤済みかどうかの表示判定に使用する。
func (s *Service) TodayRecord(ctx context.Context, userID string, ref time.Time) (*model.AttendanceRecord, error) {
	from, to := DayBounds(ref, s.loc)
	record, err := s.repo.FindByUserAndRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to find today's attendance record: %w", err)
	}
	return record, nil
}

// ListMonth はrefが属する月の勤怠レコードをclock_in降順で最大limit件返す。
func (s *Service) ListMonth(ctx context.Context, userID string, ref time.Time, limit int) ([]*model.AttendanceRecord, error) {
	from, to := MonthBounds(ref, s.loc)
	records, err := s.repo.ListByUserAndRange(ctx, userID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list month attendance records: %w", err)
	}
	return records, nil
}

// DayBounds はrefが属する営業日の範囲[当日0時, 翌日0時)をlocのタイムゾーンで返す。
func DayBounds(ref time.Time, loc *time.Location) (time.Time, time.Time) {
	local := ref.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// MonthBounds はrefが属する月の範囲[月初0時, 翌月初0時)をlocのタイムゾーンで返す。
func MonthBounds(ref time.Time, loc *time.Location) (time.Time, time.Time) {
	local := ref.In(loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
