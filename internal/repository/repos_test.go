package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

// PostgresUserRepoはUserRepositoryインターフェースを満たすことを検証
func TestPostgresUserRepo_ImplementsInterface(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
}

// PostgresSessionRepoはSessionRepositoryインターフェースを満たすことを検証
func TestPostgresSessionRepo_ImplementsInterface(t *testing.T) {
	var _ SessionRepository = (*PostgresSessionRepo)(nil)
}

// PostgresAttendanceRepoはAttendanceRepositoryインターフェースを満たすことを検証
func TestPostgresAttendanceRepo_ImplementsInterface(t *testing.T) {
	var _ AttendanceRepository = (*PostgresAttendanceRepo)(nil)
}

func TestNewPostgresUserRepo_Initializes(t *testing.T) {
	if NewPostgresUserRepo(nil) == nil {
		t.Fatal("expected non-nil repo")
	}
}

func TestNewPostgresSessionRepo_Initializes(t *testing.T) {
	if NewPostgresSessionRepo(nil) == nil {
		t.Fatal("expected non-nil repo")
	}
}

func TestNewPostgresAttendanceRepo_Initializes(t *testing.T) {
	if NewPostgresAttendanceRepo(nil) == nil {
		t.Fatal("expected non-nil repo")
	}
}

// ユニットテスト: unique_violationの判定（DB接続なしでロジックのみ検証）
func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "unique violation is detected",
			err:  &pq.Error{Code: "23505"},
			want: true,
		},
		{
			name: "wrapped unique violation is detected",
			err:  fmt.Errorf("insert failed: %w", &pq.Error{Code: "23505"}),
			want: true,
		},
		{
			name: "other pq error is not a unique violation",
			err:  &pq.Error{Code: "23503"},
			want: false,
		},
		{
			name: "non-pq error is not a unique violation",
			err:  errors.New("connection refused"),
			want: false,
		},
		{
			name: "nil error is not a unique violation",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}
