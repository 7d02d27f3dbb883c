// Package config はアプリケーション設定の読み込みを提供する。
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
// スナップショット等のファイルパスはすべて明示的な設定値であり、
// 複数のリスティングやテストフィクスチャを分離して実行できる。
type Config struct {
	// Listing
	ListURL string
	Origin  string

	// Fetch
	FetchTimeout   time.Duration
	FetchMaxSize   int64
	MaxConcurrent  int
	FetchInterval  time.Duration // 詳細ページ間の最小間隔（politeness）
	AllowLocalHost bool          // テスト・開発用。SSRFガードを無効化する

	// Paths
	DataDir        string
	OutDir         string
	CurrentPath    string
	PreviousPath   string
	DeltaPath      string
	DraftsPath     string
	SentLogPath    string
	RecipientsPath string
	EmailDir       string
	OutboxDir      string

	// GenAI
	GeminiAPIKey string
	GeminiModel  string

	// Dispatch
	SendInterval time.Duration

	// Worker
	RunInterval time.Duration

	// Server
	ServerPort        string
	CORSAllowedOrigin string

	// Time
	Location *time.Location
}

// Load は環境変数からConfigを読み込む。
// カレントディレクトリに.envがあれば先に読み込む（未存在は無視）。
// LIST_URLが不正な場合はエラーを返す。
func Load() (*Config, error) {
	// .envはオプショナル。読み込み失敗（ファイルなし）は無視する
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.ListURL = getEnvString("LIST_URL", "https://www.sccci.org.sg/event/index")

	parsed, err := url.Parse(cfg.ListURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("LIST_URL is not a valid absolute URL: %q", cfg.ListURL)
	}
	cfg.Origin = getEnvString("SITE_ORIGIN", parsed.Scheme+"://"+parsed.Host)

	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", 60*time.Second)
	cfg.FetchMaxSize = getEnvInt64("FETCH_MAX_SIZE", 5242880)
	cfg.MaxConcurrent = getEnvInt("MAX_CONCURRENT", 1)
	cfg.FetchInterval = getEnvDuration("FETCH_INTERVAL", 500*time.Millisecond)
	cfg.AllowLocalHost = getEnvBool("ALLOW_LOCALHOST", false)

	cfg.DataDir = getEnvString("DATA_DIR", "data")
	cfg.OutDir = getEnvString("OUT_DIR", "out")
	cfg.CurrentPath = getEnvString("CURRENT_PATH", filepath.Join(cfg.DataDir, "events_current.json"))
	cfg.PreviousPath = getEnvString("PREVIOUS_PATH", filepath.Join(cfg.DataDir, "events_previous.json"))
	cfg.DeltaPath = getEnvString("DELTA_PATH", filepath.Join(cfg.DataDir, "events_delta.json"))
	cfg.DraftsPath = getEnvString("DRAFTS_PATH", filepath.Join(cfg.OutDir, "drafts.json"))
	cfg.SentLogPath = getEnvString("SENT_LOG_PATH", filepath.Join(cfg.OutDir, "sent_emails.json"))
	cfg.RecipientsPath = getEnvString("RECIPIENTS_PATH", filepath.Join(cfg.OutDir, "recipients.json"))
	cfg.EmailDir = getEnvString("EMAIL_DIR", filepath.Join(cfg.OutDir, "emails"))
	cfg.OutboxDir = getEnvString("OUTBOX_DIR", filepath.Join(cfg.OutDir, "outbox"))

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GeminiModel = getEnvString("GEMINI_MODEL", "gemini-2.5-flash")

	cfg.SendInterval = getEnvDuration("SEND_INTERVAL", 2*time.Second)
	cfg.RunInterval = getEnvDuration("RUN_INTERVAL", 24*time.Hour)

	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	tzName := getEnvString("TIMEZONE", "Asia/Singapore")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tzName, err)
	}
	cfg.Location = loc

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
