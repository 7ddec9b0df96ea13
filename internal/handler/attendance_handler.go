package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/kintai/internal/middleware"
	"github.com/hitoshi/kintai/internal/model"
)

// 勤怠状態の表現。1ユーザー・1営業日は none → open → closed と一方向に遷移する。
const (
	statusNone   = "none"
	statusOpen   = "open"
	statusClosed = "closed"
)

// AttendanceServiceInterface は勤怠ハンドラーが必要とするサービスインターフェース。
type AttendanceServiceInterface interface {
	ClockIn(ctx context.Context, userID string, now time.Time) (*model.AttendanceRecord, error)
	ClockOut(ctx context.Context, userID, description string, now time.Time) (*model.AttendanceRecord, error)
	TodayRecord(ctx context.Context, userID string, ref time.Time) (*model.AttendanceRecord, error)
}

// ClockRecorder は打刻成功のメトリクス記録インターフェース。
// metrics.Collectorの部分集合として定義する。nilを許容する。
type ClockRecorder interface {
	RecordClockIn()
	RecordClockOut()
}

// AttendanceHandler は出退勤打刻のHTTPハンドラー。
type AttendanceHandler struct {
	service  AttendanceServiceInterface
	recorder ClockRecorder
	now      func() time.Time
}

// NewAttendanceHandler はAttendanceHandlerを生成する。
// recorderはnilを許容する（メトリクス記録をスキップする）。
func NewAttendanceHandler(service AttendanceServiceInterface, recorder ClockRecorder) *AttendanceHandler {
	return &AttendanceHandler{
		service:  service,
		recorder: recorder,
		now:      time.Now,
	}
}

// attendanceRecordResponse は勤怠レコードのJSON表現。
type attendanceRecordResponse struct {
	ID          string     `json:"id"`
	Date        string     `json:"date"`
	ClockIn     time.Time  `json:"clock_in"`
	ClockOut    *time.Time `json:"clock_out,omitempty"`
	Description *string    `json:"description,omitempty"`
}

// todayResponse はGET /attendanceのレスポンス。
type todayResponse struct {
	Date   string                    `json:"date"`
	Status string                    `json:"status"`
	Record *attendanceRecordResponse `json:"record,omitempty"`
}

// Today は本日の勤怠状態を返す。
// GET /attendance
func (h *AttendanceHandler) Today(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	now := h.now()
	record, err := h.service.TodayRecord(r.Context(), user.ID, now)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := todayResponse{
		Date:   now.Format(model.DateLayout),
		Status: statusNone,
	}
	if record != nil {
		resp.Date = record.Date
		if record.Open() {
			resp.Status = statusOpen
		} else {
			resp.Status = statusClosed
		}
		rec := toAttendanceRecordResponse(record)
		resp.Record = &rec
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ClockIn は出勤打刻を処理する。
// POST /attendance/clock-in
func (h *AttendanceHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	record, err := h.service.ClockIn(r.Context(), user.ID, h.now())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.recorder != nil {
		h.recorder.RecordClockIn()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toAttendanceRecordResponse(record))
}

// ClockOut は退勤打刻を処理する。業務内容（description）は必須。
// POST /attendance/clock-out (description)
func (h *AttendanceHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	if err := r.ParseForm(); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("フォームの解析に失敗しました"))
		return
	}

	description := r.PostFormValue("description")

	record, err := h.service.ClockOut(r.Context(), user.ID, description, h.now())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.recorder != nil {
		h.recorder.RecordClockOut()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toAttendanceRecordResponse(record))
}

// toAttendanceRecordResponse はドメインの勤怠レコードをJSON表現に変換する。
func toAttendanceRecordResponse(record *model.AttendanceRecord) attendanceRecordResponse {
	return attendanceRecordResponse{
		ID:          record.ID,
		Date:        record.Date,
		ClockIn:     record.ClockIn,
		ClockOut:    record.ClockOut,
		Description: record.Description,
	}
}
