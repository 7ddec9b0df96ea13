package model

import "time"

// DateLayout は勤怠レコードの日付パーティションキーのフォーマット。
// 打刻時の書き込みと日次ルックアップの両方でこのフォーマットを使用する。
const DateLayout = "2006-01-02"

// AttendanceRecord は1ユーザー・1営業日の出退勤を表す。
// 出勤打刻で作成され、退勤打刻で1回だけ更新される。削除されることはない。
// (UserID, Date) の組はDBのユニーク制約により高々1件に制限される。
type AttendanceRecord struct {
	ID          string
	UserID      string
	ClockIn     time.Time
	ClockOut    *time.Time
	Description *string
	Date        string // ClockInから導出される日付キー（DateLayout形式）
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Open は退勤打刻がまだ記録されていない状態かどうかを返す。
func (r *AttendanceRecord) Open() bool {
	return r.ClockOut == nil
}
