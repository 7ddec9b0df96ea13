package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/kintai/internal/middleware"
)

// HealthChecker はDB疎通確認のインターフェース。*sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	UserResolver      middleware.UserResolver
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig
	Logger            *slog.Logger
	StatusRecorder    middleware.StatusRecorder // nil可

	// 認証
	AuthService  AuthServiceInterface
	AuthConfig   AuthHandlerConfig
	LoginMetrics LoginRecorder // nil可

	// アカウント
	ProfileService ProfileServiceInterface

	// 勤怠
	AttendanceService AttendanceServiceInterface
	ClockMetrics      ClockRecorder // nil可

	// ダッシュボード
	DashboardService DashboardServiceInterface

	// 運用系
	HealthChecker  HealthChecker
	MetricsHandler http.Handler // nil可。non-nilなら GET /metrics に公開する
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → Metrics → SecurityHeaders → CORS → CSRF → Session
//
// セッションミドルウェアはフェイルオープンで、認証必須のルートのみ
// RequireUser → RateLimit(General) を重ねる。
// /health と /metrics はチェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	if deps.StatusRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.StatusRecorder))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	// --- 運用系ルート（認証・CSRF不要） ---

	r.Get("/health", newHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig, deps.LoginMetrics)
	accountHandler := NewAccountHandler(deps.ProfileService)
	attendanceHandler := NewAttendanceHandler(deps.AttendanceService, deps.ClockMetrics)
	dashboardHandler := NewDashboardHandler(deps.DashboardService)

	// --- アプリケーションルート ---
	// セッションゲートは全ルート共通。Cookieが無効でもリクエストは通し、
	// 認証必須のルートだけがRequireUserで/loginへ誘導する。
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(middleware.NewSessionMiddleware(deps.UserResolver))

		r.Method(http.MethodGet, "/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

		// ルート: 認証状態に応じて/dashboardまたは/loginへ誘導
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			if _, ok := middleware.UserFromContext(req.Context()); ok {
				http.Redirect(w, req, "/dashboard", http.StatusTemporaryRedirect)
				return
			}
			http.Redirect(w, req, "/login", http.StatusTemporaryRedirect)
		})

		r.Get("/login", authHandler.LoginPage)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)

		// --- 認証が必要なルート ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewRequireUserMiddleware())
			r.Use(deps.RateLimiter.GeneralMiddleware())

			r.Get("/account", accountHandler.Show)
			r.Post("/account", accountHandler.Update)

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", attendanceHandler.Today)
				// 打刻には専用のレート制限を追加
				r.With(deps.RateLimiter.ClockActionMiddleware()).Post("/clock-in", attendanceHandler.ClockIn)
				r.With(deps.RateLimiter.ClockActionMiddleware()).Post("/clock-out", attendanceHandler.ClockOut)
			})

			r.Get("/dashboard", dashboardHandler.Show)
		})
	})

	return r
}

// newHealthHandler はDB疎通を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
