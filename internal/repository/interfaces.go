// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/kintai/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	// メールアドレスが重複している場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// UpdateProfile はユーザーの表示名・メールアドレス・電話番号を更新する。
	// メールアドレスが他ユーザーと重複する場合はErrDuplicateEmailを返す。
	UpdateProfile(ctx context.Context, userID, name, email, phone string) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。見つからない・期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// AttendanceRepository は勤怠レコードの永続化インターフェース。
type AttendanceRepository interface {
	// Create は勤怠レコードを作成する。
	// 同一（ユーザー, 日付）のレコードが既に存在する場合はErrDuplicateRecordを返す。
	Create(ctx context.Context, record *model.AttendanceRecord) error

	// FindByUserAndRange はclock_inが[from, to)に含まれるユーザーのレコードを1件返す。
	// 見つからない場合はnilを返す。
	FindByUserAndRange(ctx context.Context, userID string, from, to time.Time) (*model.AttendanceRecord, error)

	// FindOpenByUserAndRange はclock_inが[from, to)に含まれ、
	// かつclock_outが未設定のレコードを1件返す。見つからない場合はnilを返す。
	FindOpenByUserAndRange(ctx context.Context, userID string, from, to time.Time) (*model.AttendanceRecord, error)

	// Close はオープン中のレコードに退勤時刻と業務内容を設定する。
	// clock_outと業務内容は単一のUPDATEで同時に設定される。
	// 対象が存在しない、または既にクローズ済みの場合はErrRecordNotOpenを返す。
	Close(ctx context.Context, recordID string, clockOut time.Time, description string) error

	// ListByUserAndRange はclock_inが[from, to)に含まれるユーザーのレコードを
	// clock_in降順で最大limit件返す。
	ListByUserAndRange(ctx context.Context, userID string, from, to time.Time, limit int) ([]*model.AttendanceRecord, error)
}
