// Package scrape はリスティングページと詳細ページのスクレイプを提供する。
// リンク発見・ページ取得・フィールド抽出・レコード組み立てを含む。
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// userAgent はページ取得時のUser-Agentヘッダ。
const userAgent = "Eventwatch/1.0 Event Monitor"

// SSRFValidator はSSRF検証のインターフェース。
// security.SSRFGuardServiceを抽象化してテスタビリティを向上させる。
type SSRFValidator interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration, maxResponseSize int64) *http.Client
}

// PageFetcher はHTMLページの取得を行う。
// SSRF検証済みのHTTPクライアントで1ページを取得し、
// レスポンスボディを最大サイズ制限付きで読み込む。
type PageFetcher struct {
	client      *http.Client
	ssrfGuard   SSRFValidator
	maxBodySize int64
}

// NewPageFetcher はPageFetcherの新しいインスタンスを生成する。
func NewPageFetcher(ssrfGuard SSRFValidator, timeout time.Duration, maxBodySize int64) *PageFetcher {
	return &PageFetcher{
		client:      ssrfGuard.NewSafeClient(timeout, maxBodySize),
		ssrfGuard:   ssrfGuard,
		maxBodySize: maxBodySize,
	}
}

// Fetch は指定URLのページを取得してHTMLを返す。
// タイムアウトやナビゲーションエラーはそのままエラーとして返し、
// 呼び出し側（クローラ）が劣化レコードへの変換を判断する。
func (f *PageFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	if err := f.ssrfGuard.ValidateURL(pageURL); err != nil {
		return nil, fmt.Errorf("URL検証に失敗: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエスト作成に失敗: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html, application/xhtml+xml, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエスト失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTPステータス %d が返されました: %s", resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("レスポンス読み取り失敗: %w", err)
	}

	return body, nil
}
