package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/kintai/internal/dashboard"
	"github.com/hitoshi/kintai/internal/middleware"
	"github.com/hitoshi/kintai/internal/model"
)

// DashboardServiceInterface はダッシュボードハンドラーが必要とするサービスインターフェース。
type DashboardServiceInterface interface {
	Aggregate(ctx context.Context, userID string, ref time.Time) *dashboard.View
}

// DashboardHandler は月次ダッシュボードのHTTPハンドラー。
type DashboardHandler struct {
	service DashboardServiceInterface
	now     func() time.Time
}

// NewDashboardHandler はDashboardHandlerを生成する。
func NewDashboardHandler(service DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		now:     time.Now,
	}
}

// holidayResponse は祝日エントリのJSON表現。
type holidayResponse struct {
	Summary string `json:"summary"`
}

// dashboardResponse はGET /dashboardのレスポンス。
// 2つのデータソースは独立に取得され、失敗したソースは空と失敗フラグに縮退する。
type dashboardResponse struct {
	Records          []attendanceRecordResponse `json:"records"`
	Holidays         map[string]holidayResponse `json:"holidays"`
	AttendanceFailed bool                       `json:"attendance_failed"`
	HolidaysFailed   bool                       `json:"holidays_failed"`
}

// Show は当月の勤怠レコードと祝日参照表を結合したビューを返す。
// GET /dashboard
// 上流の不調があっても200で部分的なビューを返す。
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	view := h.service.Aggregate(r.Context(), user.ID, h.now())

	records := make([]attendanceRecordResponse, len(view.Records))
	for i, record := range view.Records {
		records[i] = toAttendanceRecordResponse(record)
	}

	holidays := make(map[string]holidayResponse, len(view.Holidays))
	for date, holiday := range view.Holidays {
		holidays[date] = holidayResponse{Summary: holiday.Summary}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dashboardResponse{
		Records:          records,
		Holidays:         holidays,
		AttendanceFailed: view.AttendanceFailed,
		HolidaysFailed:   view.HolidaysFailed,
	})
}
