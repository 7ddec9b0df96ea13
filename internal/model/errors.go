package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, attendance, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeDuplicateUser      = "DUPLICATE_USER"
	ErrCodeValidation         = "VALIDATION_FAILED"
	ErrCodeAlreadyClockedIn   = "ALREADY_CLOCKED_IN"
	ErrCodeNoActiveClockIn    = "NO_ACTIVE_CLOCK_IN"
	ErrCodeUpstreamFailure    = "UPSTREAM_FAILURE"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
)

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewInvalidCredentialsError は認証情報不一致エラーを生成する。
// メールアドレス不存在とパスワード不一致を区別せず、同一のエラーを返す。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewDuplicateUserError はメールアドレス重複エラーを生成する。
func NewDuplicateUserError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateUser,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "auth",
		Action:   "ログインするか、別のメールアドレスで登録してください。",
	}
}

// NewValidationError は入力検証エラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  fmt.Sprintf("入力内容に誤りがあります: %s", reason),
		Category: "validation",
		Action:   "入力内容を修正して再度お試しください。",
	}
}

// NewAlreadyClockedInError は同一日の二重出勤打刻エラーを生成する。
func NewAlreadyClockedInError() *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyClockedIn,
		Message:  "本日は既に出勤打刻済みです。",
		Category: "attendance",
		Action:   "勤怠ページで本日の打刻状況を確認してください。",
	}
}

// NewNoActiveClockInError は有効な出勤打刻が存在しない場合のエラーを生成する。
func NewNoActiveClockInError() *APIError {
	return &APIError{
		Code:     ErrCodeNoActiveClockIn,
		Message:  "本日の有効な出勤打刻が見つかりません。",
		Category: "attendance",
		Action:   "先に出勤打刻を行ってください。",
	}
}

// NewUpstreamFailureError は外部依存の呼び出し失敗エラーを生成する。
func NewUpstreamFailureError(operation string) *APIError {
	return &APIError{
		Code:     ErrCodeUpstreamFailure,
		Message:  fmt.Sprintf("%sに失敗しました。", operation),
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}
