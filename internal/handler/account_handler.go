package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hitoshi/kintai/internal/middleware"
	"github.com/hitoshi/kintai/internal/model"
)

// maxNameLength は表示名の最大文字数。
const maxNameLength = 100

// phonePattern は電話番号の許容形式。国際表記（+81...）とハイフン区切りを受け付ける。
var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\-]{6,19}$`)

// ProfileServiceInterface はアカウントハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	UpdateProfile(ctx context.Context, userID, name, email, phone string) error
}

// AccountHandler はアカウント情報のHTTPハンドラー。
type AccountHandler struct {
	service ProfileServiceInterface
}

// NewAccountHandler はAccountHandlerを生成する。
func NewAccountHandler(service ProfileServiceInterface) *AccountHandler {
	return &AccountHandler{
		service: service,
	}
}

// accountResponse はGET /accountのレスポンス。
type accountResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	EmailVerified bool   `json:"email_verified"`
	PhoneVerified bool   `json:"phone_verified"`
}

// Show は現在のユーザーのアカウント情報を返す。
// GET /account
func (h *AccountHandler) Show(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accountResponse{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		Phone:         user.Phone,
		EmailVerified: user.EmailVerified,
		PhoneVerified: user.PhoneVerified,
	})
}

// Update はアカウント情報の更新フォームを処理する。
// POST /account (name, email, phone)
// 成功時は303 See Otherで/accountへ誘導する。
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	if err := r.ParseForm(); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("フォームの解析に失敗しました"))
		return
	}

	name := strings.TrimSpace(r.PostFormValue("name"))
	email := strings.TrimSpace(r.PostFormValue("email"))
	phone := strings.TrimSpace(r.PostFormValue("phone"))

	if name == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("表示名は必須です"))
		return
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("表示名は100文字以内で入力してください"))
		return
	}
	if !isValidEmail(email) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("メールアドレスの形式が正しくありません"))
		return
	}
	if phone != "" && !phonePattern.MatchString(phone) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("電話番号の形式が正しくありません"))
		return
	}

	if err := h.service.UpdateProfile(r.Context(), user.ID, name, email, phone); err != nil {
		handleServiceError(w, err)
		return
	}

	http.Redirect(w, r, "/account", http.StatusSeeOther)
}
