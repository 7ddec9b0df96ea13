package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/kintai/internal/middleware"
	"github.com/hitoshi/kintai/internal/model"
)

// --- モック定義 ---

type mockAuthService struct {
	registerFn func(ctx context.Context, email, password string) (*model.Session, error)
	loginFn    func(ctx context.Context, email, password string) (*model.Session, error)
	logoutFn   func(ctx context.Context, sessionID string) error
}

func (m *mockAuthService) Register(ctx context.Context, email, password string) (*model.Session, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, email, password)
	}
	return nil, nil
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*model.Session, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return nil, nil
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID)
	}
	return nil
}

type mockLoginRecorder struct {
	successes int
	failures  int
}

func (m *mockLoginRecorder) RecordLoginSuccess() { m.successes++ }
func (m *mockLoginRecorder) RecordLoginFailure() { m.failures++ }

func loginForm(email, password, action string) *http.Request {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)
	form.Set("action", action)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// --- テスト ---

func TestAuthHandler_Login_Success_SetsCookieAndRedirects(t *testing.T) {
	expiresAt := time.Now().Add(24 * time.Hour)
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (*model.Session, error) {
			if email != "taro@example.com" || password != "secret-password" {
				t.Errorf("unexpected credentials: %s / %s", email, password)
			}
			return &model.Session{ID: "session-abc", UserID: "user-123", ExpiresAt: expiresAt}, nil
		},
	}
	recorder := &mockLoginRecorder{}
	h := NewAuthHandler(svc, AuthHandlerConfig{CookieSecure: true}, recorder)

	w := httptest.NewRecorder()
	h.Login(w, loginForm("taro@example.com", "secret-password", "login"))

	resp := w.Result()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
	if loc := resp.Header.Get("Location"); loc != "/dashboard" {
		t.Errorf("Location = %q, want /dashboard", loc)
	}

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected session cookie")
	}
	if cookie.Value != "session-abc" {
		t.Errorf("cookie value = %q, want session-abc", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	if !cookie.Secure {
		t.Error("session cookie must be Secure when configured")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("SameSite = %v, want Strict", cookie.SameSite)
	}
	if cookie.Path != "/" {
		t.Errorf("Path = %q, want /", cookie.Path)
	}
	if recorder.successes != 1 {
		t.Errorf("login successes = %d, want 1", recorder.successes)
	}
}

func TestAuthHandler_Login_RegisterAction_CallsRegister(t *testing.T) {
	registered := false
	svc := &mockAuthService{
		registerFn: func(ctx context.Context, email, password string) (*model.Session, error) {
			registered = true
			return &model.Session{ID: "session-new", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
		loginFn: func(ctx context.Context, email, password string) (*model.Session, error) {
			t.Fatal("Login should not be called for register action")
			return nil, nil
		},
	}
	h := NewAuthHandler(svc, AuthHandlerConfig{}, nil)

	w := httptest.NewRecorder()
	h.Login(w, loginForm("hanako@example.com", "secret-password", "register"))

	if !registered {
		t.Error("Register should be called")
	}
	if w.Result().StatusCode != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusSeeOther)
	}
}

func TestAuthHandler_Login_InvalidCredentials_Returns401(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (*model.Session, error) {
			return nil, model.NewInvalidCredentialsError()
		},
	}
	recorder := &mockLoginRecorder{}
	h := NewAuthHandler(svc, AuthHandlerConfig{}, recorder)

	w := httptest.NewRecorder()
	h.Login(w, loginForm("taro@example.com", "wrong-password", "login"))

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}

	var body apiErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Code != model.ErrCodeInvalidCredentials {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeInvalidCredentials)
	}
	if recorder.failures != 1 {
		t.Errorf("login failures = %d, want 1", recorder.failures)
	}
}

func TestAuthHandler_Login_DuplicateUser_Returns409(t *testing.T) {
	svc := &mockAuthService{
		registerFn: func(ctx context.Context, email, password string) (*model.Session, error) {
			return nil, model.NewDuplicateUserError()
		},
	}
	h := NewAuthHandler(svc, AuthHandlerConfig{}, nil)

	w := httptest.NewRecorder()
	h.Login(w, loginForm("taro@example.com", "secret-password", "register"))

	if w.Result().StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusConflict)
	}
}

func TestAuthHandler_Login_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		action   string
	}{
		{"unknown action", "taro@example.com", "secret-password", "delete"},
		{"empty action", "taro@example.com", "secret-password", ""},
		{"invalid email", "not-an-email", "secret-password", "login"},
		{"empty email", "", "secret-password", "login"},
		{"short password", "taro@example.com", "short", "login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAuthService{
				loginFn: func(ctx context.Context, email, password string) (*model.Session, error) {
					t.Fatal("service should not be called on validation failure")
					return nil, nil
				},
				registerFn: func(ctx context.Context, email, password string) (*model.Session, error) {
					t.Fatal("service should not be called on validation failure")
					return nil, nil
				},
			}
			h := NewAuthHandler(svc, AuthHandlerConfig{}, nil)

			w := httptest.NewRecorder()
			h.Login(w, loginForm(tt.email, tt.password, tt.action))

			if w.Result().StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
			}
		})
	}
}

func TestAuthHandler_Login_UnexpectedError_Returns500(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (*model.Session, error) {
			return nil, errors.New("db connection lost")
		},
	}
	h := NewAuthHandler(svc, AuthHandlerConfig{}, nil)

	w := httptest.NewRecorder()
	h.Login(w, loginForm("taro@example.com", "secret-password", "login"))

	if w.Result().StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusInternalServerError)
	}
}

func TestAuthHandler_Logout_DeletesSessionAndExpiresCookie(t *testing.T) {
	var deletedSessionID string
	svc := &mockAuthService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			deletedSessionID = sessionID
			return nil
		},
	}
	h := NewAuthHandler(svc, AuthHandlerConfig{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "session-abc"})
	w := httptest.NewRecorder()

	h.Logout(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusTemporaryRedirect)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
	if deletedSessionID != "session-abc" {
		t.Errorf("deleted session = %q, want session-abc", deletedSessionID)
	}

	var expired bool
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName && c.MaxAge < 0 {
			expired = true
		}
	}
	if !expired {
		t.Error("expected session cookie to be expired")
	}
}

func TestAuthHandler_Logout_NoCookie_StillRedirects(t *testing.T) {
	svc := &mockAuthService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			t.Fatal("Logout should not be called without a cookie")
			return nil
		},
	}
	h := NewAuthHandler(svc, AuthHandlerConfig{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	w := httptest.NewRecorder()

	h.Logout(w, req)

	if w.Result().StatusCode != http.StatusTemporaryRedirect {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusTemporaryRedirect)
	}
}

func TestAuthHandler_LoginPage_ReflectsAuthState(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, AuthHandlerConfig{}, nil)

	// 未認証
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	w := httptest.NewRecorder()
	h.LoginPage(w, req)

	var resp loginStateResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if resp.Authenticated {
		t.Error("expected authenticated=false")
	}

	// 認証済み
	req = httptest.NewRequest(http.MethodGet, "/login", nil)
	ctx := middleware.ContextWithUser(req.Context(), &model.User{ID: "user-123", Email: "taro@example.com"})
	w = httptest.NewRecorder()
	h.LoginPage(w, req.WithContext(ctx))

	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if !resp.Authenticated || resp.Email != "taro@example.com" {
		t.Errorf("response = %+v, want authenticated with email", resp)
	}
}
