package repository

import (
	"errors"

	"github.com/lib/pq"
)

// uniqueViolation はPostgreSQLのunique_violationエラーコード。
const uniqueViolation = "23505"

var (
	// ErrDuplicateEmail はメールアドレスのユニーク制約違反を表す。
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrDuplicateRecord は（ユーザー, 日付）のユニーク制約違反を表す。
	// 同一営業日の二重出勤打刻がDBレベルで拒否されたことを意味する。
	ErrDuplicateRecord = errors.New("attendance record already exists for this day")

	// ErrRecordNotOpen はクローズ対象のレコードが存在しないか、
	// 既にクローズ済みであることを表す。
	ErrRecordNotOpen = errors.New("attendance record not found or already closed")
)

// isUniqueViolation はエラーがunique_violationかどうかを判定する。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
