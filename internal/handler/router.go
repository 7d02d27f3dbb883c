package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/eventwatch/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string

	// レポート
	Snapshots ReportSourceInterface
	Drafts    DraftSourceInterface

	// 宛先
	RecipientService RecipientServiceInterface

	// メトリクス公開ハンドラ（nilの場合は/metricsを公開しない）
	MetricsHandler http.Handler

	// 静的配信するディレクトリ（空の場合は配信しない）
	DataDir string
	OutDir  string
}

// NewRouter は管理APIのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → SecurityHeaders → CORS
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware(deps.Logger))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	reportHandler := NewReportHandler(deps.Snapshots, deps.Drafts, deps.Logger)
	recipientHandler := NewRecipientHandler(deps.RecipientService, deps.Logger)

	// ヘルスチェック
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// メトリクス
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// 管理API
	r.Route("/api", func(r chi.Router) {
		r.Get("/events", reportHandler.ListEvents)
		r.Get("/delta", reportHandler.GetDelta)
		r.Get("/drafts", reportHandler.GetDrafts)

		r.Route("/recipients", func(r chi.Router) {
			r.Get("/", recipientHandler.List)
			r.Put("/", recipientHandler.Replace)
		})
	})

	// 成果物の読み取り専用配信（スナップショット、メールプレビュー等）
	if deps.DataDir != "" {
		r.Handle("/data/*", http.StripPrefix("/data/", http.FileServer(http.Dir(deps.DataDir))))
	}
	if deps.OutDir != "" {
		r.Handle("/out/*", http.StripPrefix("/out/", http.FileServer(http.Dir(deps.OutDir))))
	}

	return r
}
