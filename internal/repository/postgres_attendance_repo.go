package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/kintai/internal/model"
)

// PostgresAttendanceRepo はPostgreSQLを使用した勤怠レコードリポジトリ。
type PostgresAttendanceRepo struct {
	db *sql.DB
}

// NewPostgresAttendanceRepo はPostgresAttendanceRepoを生成する。
func NewPostgresAttendanceRepo(db *sql.DB) *PostgresAttendanceRepo {
	return &PostgresAttendanceRepo{db: db}
}

// Create は勤怠レコードを作成する。
// （ユーザー, 日付）のユニーク制約に違反した場合はErrDuplicateRecordを返す。
// 事前のSELECTに頼らずINSERT自体で一意性を担保するため、
// 並行する出勤打刻の片方は必ずこのエラーで失敗する。
func (r *PostgresAttendanceRepo) Create(ctx context.Context, record *model.AttendanceRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO attendance_records (id, user_id, clock_in, clock_out, description, date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		record.ID, record.UserID, record.ClockIn, record.ClockOut,
		record.Description, record.Date, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateRecord
		}
		return fmt.Errorf("failed to insert attendance record: %w", err)
	}
	return nil
}

// FindByUserAndRange はclock_inが[from, to)に含まれるレコードを1件返す。
// 見つからない場合はnilを返す。
func (r *PostgresAttendanceRepo) FindByUserAndRange(ctx context.Context, userID string, from, to time.Time) (*model.AttendanceRecord, error) {
	return r.findOne(ctx,
		`SELECT id, user_id, clock_in, clock_out, description, to_char(date, 'YYYY-MM-DD'), created_at, updated_at
		 FROM attendance_records
		 WHERE user_id = $1 AND clock_in >= $2 AND clock_in < $3`,
		userID, from, to,
	)
}

// FindOpenByUserAndRange はclock_inが[from, to)に含まれ、
// かつclock_outが未設定のレコードを1件返す。見つからない場合はnilを返す。
func (r *PostgresAttendanceRepo) FindOpenByUserAndRange(ctx context.Context, userID string, from, to time.Time) (*model.AttendanceRecord, error) {
	return r.findOne(ctx,
		`SELECT id, user_id, clock_in, clock_out, description, to_char(date, 'YYYY-MM-DD'), created_at, updated_at
		 FROM attendance_records
		 WHERE user_id = $1 AND clock_in >= $2 AND clock_in < $3 AND clock_out IS NULL`,
		userID, from, to,
	)
}

// Close はオープン中のレコードに退勤時刻と業務内容を設定する。
// WHERE句のclock_out IS NULLにより条件付き更新となり、
// クローズ済みレコードの再クローズは0行更新として検出される。
func (r *PostgresAttendanceRepo) Close(ctx context.Context, recordID string, clockOut time.Time, description string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE attendance_records
		 SET clock_out = $2, description = $3, updated_at = $4
		 WHERE id = $1 AND clock_out IS NULL`,
		recordID, clockOut, description, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to close attendance record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRecordNotOpen
	}
	return nil
}

// ListByUserAndRange はclock_inが[from, to)に含まれるレコードを
// clock_in降順で最大limit件返す。
func (r *PostgresAttendanceRepo) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time, limit int) ([]*model.AttendanceRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, clock_in, clock_out, description, to_char(date, 'YYYY-MM-DD'), created_at, updated_at
		 FROM attendance_records
		 WHERE user_id = $1 AND clock_in >= $2 AND clock_in < $3
		 ORDER BY clock_in DESC
		 LIMIT $4`,
		userID, from, to, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []*model.AttendanceRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, nil
}

// rowScanner は*sql.Rowと*sql.Rowsの共通スキャンインターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

// findOne は1件の勤怠レコードをスキャンする。sql.ErrNoRowsはnilに変換する。
func (r *PostgresAttendanceRepo) findOne(ctx context.Context, query string, args ...any) (*model.AttendanceRecord, error) {
	record, err := scanRecord(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// scanRecord は1行を勤怠レコードに変換する。
// clock_outとdescriptionはNULL許容のためsql.Null型を経由する。
func scanRecord(s rowScanner) (*model.AttendanceRecord, error) {
	record := &model.AttendanceRecord{}
	var clockOut sql.NullTime
	var description sql.NullString

	err := s.Scan(
		&record.ID, &record.UserID, &record.ClockIn, &clockOut,
		&description, &record.Date, &record.CreatedAt, &record.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan attendance record: %w", err)
	}

	if clockOut.Valid {
		t := clockOut.Time
		record.ClockOut = &t
	}
	if description.Valid {
		d := description.String
		record.Description = &d
	}

	return record, nil
}

// compile-time interface check
var _ AttendanceRepository = (*PostgresAttendanceRepo)(nil)
