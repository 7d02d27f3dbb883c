// Package app はアプリケーションの起動と依存関係のワイヤリングを行う。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/hitoshi/eventwatch/internal/config"
	deltapkg "github.com/hitoshi/eventwatch/internal/delta"
	"github.com/hitoshi/eventwatch/internal/dispatch"
	"github.com/hitoshi/eventwatch/internal/draft"
	"github.com/hitoshi/eventwatch/internal/genai"
	"github.com/hitoshi/eventwatch/internal/handler"
	"github.com/hitoshi/eventwatch/internal/logger"
	"github.com/hitoshi/eventwatch/internal/metrics"
	"github.com/hitoshi/eventwatch/internal/recipient"
	"github.com/hitoshi/eventwatch/internal/repository"
	"github.com/hitoshi/eventwatch/internal/scrape"
	"github.com/hitoshi/eventwatch/internal/security"
	"github.com/hitoshi/eventwatch/internal/worker"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("list_url", cfg.ListURL),
	)

	switch cmd {
	case CommandCrawl:
		return runStage(cfg, func(ctx context.Context, p *pipeline) error {
			_, err := p.crawler.Crawl(ctx)
			return err
		})
	case CommandDelta:
		return runStage(cfg, func(_ context.Context, p *pipeline) error {
			_, err := p.delta.Run()
			return err
		})
	case CommandDraft:
		return runStage(cfg, func(ctx context.Context, p *pipeline) error {
			_, err := p.drafts.Run(ctx)
			return err
		})
	case CommandDispatch:
		return runStage(cfg, func(ctx context.Context, p *pipeline) error {
			_, err := p.dispatch.Run(ctx)
			return err
		})
	case CommandServe:
		return runServe(cfg)
	case CommandWorker:
		return runWorker(cfg)
	default:
		return runStage(cfg, func(ctx context.Context, p *pipeline) error {
			return p.RunOnce(ctx)
		})
	}
}

// pipeline は4つのステップサービスをまとめたパイプライン。
// worker.Pipelineを実装する。
type pipeline struct {
	crawler  *scrape.ListingCrawler
	delta    *deltapkg.Engine
	drafts   *draft.Service
	dispatch *dispatch.Service
}

var _ worker.Pipeline = (*pipeline)(nil)

// RunOnce はクロール→差分→ドラフト→送出を順に1回実行する。
// いずれかのステップの失敗で中断する。
func (p *pipeline) RunOnce(ctx context.Context) error {
	if _, err := p.crawler.Crawl(ctx); err != nil {
		return fmt.Errorf("crawl stage failed: %w", err)
	}
	if _, err := p.delta.Run(); err != nil {
		return fmt.Errorf("delta stage failed: %w", err)
	}
	if _, err := p.drafts.Run(ctx); err != nil {
		return fmt.Errorf("draft stage failed: %w", err)
	}
	if _, err := p.dispatch.Run(ctx); err != nil {
		return fmt.Errorf("dispatch stage failed: %w", err)
	}
	return nil
}

// buildPipeline は全ステップサービスの依存関係をワイヤリングする。
func buildPipeline(cfg *config.Config, collector *metrics.Collector) *pipeline {
	log := slog.Default()

	// 1. セキュリティサービスの初期化
	var guard scrape.SSRFValidator = security.NewSSRFGuard()
	if cfg.AllowLocalHost {
		guard = security.NewInsecureGuard()
	}
	sanitizer := security.NewPreviewSanitizer()

	// 2. ストアの初期化
	snapshotStore := repository.NewFileSnapshotStore(cfg.CurrentPath, cfg.PreviousPath, cfg.DeltaPath)
	draftStore := repository.NewFileDraftStore(cfg.DraftsPath)
	recipientStore := repository.NewFileRecipientStore(cfg.RecipientsPath)
	sentLogStore := repository.NewFileSentLogStore(cfg.SentLogPath)

	// 3. クロールステップ
	fetcher := scrape.NewPageFetcher(guard, cfg.FetchTimeout, cfg.FetchMaxSize)
	scraper := scrape.NewDetailScraper(fetcher, sanitizer, cfg.ListURL, cfg.Location)
	crawler := scrape.NewListingCrawler(
		fetcher, scraper, snapshotStore, collector, log,
		cfg.ListURL, cfg.Origin, cfg.MaxConcurrent, cfg.FetchInterval,
	)

	// 4. 差分ステップ
	engine := deltapkg.NewEngine(snapshotStore, collector, log, cfg.Location)

	// 5. ドラフト生成ステップ（APIキー未設定の場合は生成をスキップ）
	var generator draft.Generator
	if cfg.GeminiAPIKey != "" {
		generator = genai.NewClient(
			&http.Client{Timeout: 60 * time.Second},
			log, cfg.GeminiAPIKey, cfg.GeminiModel,
		)
	}
	now := func() time.Time { return time.Now().In(cfg.Location) }
	draftService := draft.NewService(
		snapshotStore, draftStore, generator, collector, log, cfg.EmailDir, now,
	)

	// 6. 送出ステップ
	sender := dispatch.NewFileSender(cfg.OutboxDir, "eventwatch@localhost", now)
	limiter := rate.NewLimiter(rate.Every(cfg.SendInterval), 1)
	dispatchService := dispatch.NewService(
		draftStore, recipientStore, sentLogStore, sender, collector, log, limiter,
	)

	return &pipeline{
		crawler:  crawler,
		delta:    engine,
		drafts:   draftService,
		dispatch: dispatchService,
	}
}

// runStage は指定されたステージを1回実行する。
// SIGINT/SIGTERM受信でコンテキストをキャンセルする。
func runStage(cfg *config.Config, stage func(ctx context.Context, p *pipeline) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	p := buildPipeline(cfg, metrics.NewCollector())
	return stage(ctx, p)
}

// runServe は管理APIサーバーモードで起動する。
// 全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	log := slog.Default()
	collector := metrics.NewCollector()

	snapshotStore := repository.NewFileSnapshotStore(cfg.CurrentPath, cfg.PreviousPath, cfg.DeltaPath)
	draftStore := repository.NewFileDraftStore(cfg.DraftsPath)
	recipientStore := repository.NewFileRecipientStore(cfg.RecipientsPath)
	recipientService := recipient.NewService(recipientStore)

	deps := &handler.RouterDeps{
		Logger:            log,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		Snapshots:         snapshotStore,
		Drafts:            draftStore,
		RecipientService:  recipientService,
		MetricsHandler:    collector.Handler(),
		DataDir:           cfg.DataDir,
		OutDir:            cfg.OutDir,
	}
	router := handler.NewRouter(deps)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runWorker はワーカーモードで起動する。
// パイプラインスケジューラを起動し、設定された間隔で全ステップを実行する。
// SIGINTまたはSIGTERMシグナルを受信するとシャットダウンする。
func runWorker(cfg *config.Config) error {
	p := buildPipeline(cfg, metrics.NewCollector())
	scheduler := worker.NewScheduler(p, slog.Default())

	// グレースフルシャットダウンのためのシグナルハンドリング
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		slog.Info("shutting down worker...")
		cancel()
	}()

	slog.Info("worker starting",
		slog.Duration("run_interval", cfg.RunInterval),
		slog.Int("max_concurrent", cfg.MaxConcurrent),
	)

	// スケジューラをメインgoroutineで実行（ブロッキング）
	scheduler.Start(ctx, cfg.RunInterval)

	slog.Info("worker stopped gracefully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
