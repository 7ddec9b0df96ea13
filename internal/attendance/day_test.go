package attendance

import (
	"testing"
	"time"
)

func TestDayBounds_MidnightToNextMidnight(t *testing.T) {
	ref := time.Date(2024, 6, 15, 13, 45, 30, 0, time.UTC)
	from, to := DayBounds(ref, time.UTC)

	if !from.Equal(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("from = %v, want midnight of the same day", from)
	}
	if !to.Equal(time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("to = %v, want midnight of the next day", to)
	}
}

// 日境界直前の打刻（23:59:59）と直後の打刻（翌日00:00:01）が
// 同じ日次ルックアップに含まれないことを検証する。
func TestDayBounds_BoundaryInstantsFallOnDifferentDays(t *testing.T) {
	lateD := time.Date(2024, 6, 1, 23, 59, 59, 0, time.UTC)
	earlyD1 := time.Date(2024, 6, 2, 0, 0, 1, 0, time.UTC)

	fromD, toD := DayBounds(lateD, time.UTC)
	inDayD := func(ts time.Time) bool {
		return !ts.Before(fromD) && ts.Before(toD)
	}

	if !inDayD(lateD) {
		t.Error("23:59:59 must fall within its own day")
	}
	if inDayD(earlyD1) {
		t.Error("00:00:01 of the next day must not fall within the previous day's range")
	}

	fromD1, toD1 := DayBounds(earlyD1, time.UTC)
	if inRange := !earlyD1.Before(fromD1) && earlyD1.Before(toD1); !inRange {
		t.Error("00:00:01 must fall within its own day")
	}
	if lateD.Equal(fromD1) || (!lateD.Before(fromD1) && lateD.Before(toD1)) {
		t.Error("23:59:59 of the previous day must not fall within the next day's range")
	}
}

func TestDayBounds_RespectsTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	// UTC 6/1 20:00 = JST 6/2 05:00
	ref := time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)
	from, _ := DayBounds(ref, loc)

	want := time.Date(2024, 6, 2, 0, 0, 0, 0, loc)
	if !from.Equal(want) {
		t.Errorf("from = %v, want %v (JST midnight of 6/2)", from, want)
	}
}

func TestMonthBounds_FirstOfMonthToFirstOfNextMonth(t *testing.T) {
	ref := time.Date(2024, 6, 15, 13, 45, 0, 0, time.UTC)
	from, to := MonthBounds(ref, time.UTC)

	if !from.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("from = %v, want first of month", from)
	}
	if !to.Equal(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("to = %v, want first of next month", to)
	}
}

func TestMonthBounds_DecemberRollsOverToJanuary(t *testing.T) {
	ref := time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)
	_, to := MonthBounds(ref, time.UTC)

	if !to.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("to = %v, want first of January next year", to)
	}
}
