package scrape

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/hitoshi/eventwatch/internal/model"
	"github.com/hitoshi/eventwatch/internal/urlnorm"
)

// detailLinkSelector はリスティングページ内のイベント詳細リンクのセレクタ。
const detailLinkSelector = `a[href*="/event/detail?slug="]`

// SnapshotWriter は現行スナップショットの書き込みインターフェース。
// repository.SnapshotStoreを抽象化してテスタビリティを向上させる。
type SnapshotWriter interface {
	SaveCurrent(snapshot model.Snapshot) error
}

// MetricsRecorder はクロールメトリクスの記録インターフェース。
type MetricsRecorder interface {
	RecordPageScraped()
	RecordScrapeFailure()
	RecordScrapeLatency(duration time.Duration)
}

// ListingCrawler はリスティングページのクロールを統括する。
// インデックスページを1回読み込み、全詳細リンクを発見・正規化・
// 重複除去した上で、詳細スクレイパを各リンクに対して実行する。
// 個別ページの失敗は劣化レコードとして隔離し、クロール全体は中断しない。
type ListingCrawler struct {
	fetcher        *PageFetcher
	scraper        *DetailScraper
	store          SnapshotWriter
	metrics        MetricsRecorder
	logger         *slog.Logger
	listURL        string
	origin         string
	maxConcurrency int
	limiter        *rate.Limiter
}

// NewListingCrawler はListingCrawlerの新しいインスタンスを生成する。
// maxConcurrencyが0以下の場合は逐次実行（並列数1）となる。
// fetchIntervalが正の場合、ページ取得間の最小間隔として適用される。
func NewListingCrawler(
	fetcher *PageFetcher,
	scraper *DetailScraper,
	store SnapshotWriter,
	metrics MetricsRecorder,
	logger *slog.Logger,
	listURL string,
	origin string,
	maxConcurrency int,
	fetchInterval time.Duration,
) *ListingCrawler {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	var limiter *rate.Limiter
	if fetchInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(fetchInterval), 1)
	}
	return &ListingCrawler{
		fetcher:        fetcher,
		scraper:        scraper,
		store:          store,
		metrics:        metrics,
		logger:         logger,
		listURL:        listURL,
		origin:         origin,
		maxConcurrency: maxConcurrency,
		limiter:        limiter,
	}
}

// Crawl はリスティング全体をクロールして現行スナップショットを生成する。
// 全詳細ページの試行後にスナップショットを1回だけ永続化する。
// リスティングページ自体の取得失敗と永続化失敗のみがエラーとなり、
// 個別詳細ページの失敗は劣化レコードとして結果に含める。
// 結果の順序はリンクの発見順（初出順）を保持する。
func (c *ListingCrawler) Crawl(ctx context.Context) (model.Snapshot, error) {
	start := time.Now()

	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	body, err := c.fetcher.Fetch(ctx, c.listURL)
	if err != nil {
		return nil, fmt.Errorf("リスティングページの取得に失敗: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("リスティングページのパースに失敗: %w", err)
	}

	urls := c.discoverLinks(doc)
	c.logger.Info("イベント詳細リンクを発見しました",
		slog.String("list_url", c.listURL),
		slog.Int("link_count", len(urls)),
	)

	results := make(model.Snapshot, len(urls))

	// semaphoreパターンで並列数を制御する。結果はインデックスで書き込むため
	// 発見順が保持され、並列実行でもスナップショットは決定的になる
	sem := make(chan struct{}, c.maxConcurrency)
	var wg sync.WaitGroup

	for i, u := range urls {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int, eventURL string) {
			defer wg.Done()
			defer func() { <-sem }()

			results[idx] = c.scrapeOne(ctx, eventURL)
		}(i, u)
	}

	wg.Wait()

	if err := c.store.SaveCurrent(results); err != nil {
		return nil, fmt.Errorf("現行スナップショットの保存に失敗: %w", err)
	}

	c.logger.Info("クロールが完了しました",
		slog.Int("event_count", len(results)),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return results, nil
}

// scrapeOne は詳細ページ1件をスクレイプする。
// 失敗した場合は警告ログを出して劣化レコードを返す。
func (c *ListingCrawler) scrapeOne(ctx context.Context, eventURL string) model.EventRecord {
	start := time.Now()

	if err := c.wait(ctx); err != nil {
		c.metrics.RecordScrapeFailure()
		return *c.scraper.DegradedRecord(eventURL, err)
	}

	rec, err := c.scraper.Scrape(ctx, eventURL)
	c.metrics.RecordScrapeLatency(time.Since(start))

	if err != nil {
		c.logger.Warn("詳細ページのスクレイプに失敗しました",
			slog.String("event_url", eventURL),
			slog.String("error", err.Error()),
		)
		c.metrics.RecordScrapeFailure()
		return *c.scraper.DegradedRecord(eventURL, err)
	}

	c.metrics.RecordPageScraped()
	return *rec
}

// discoverLinks はリスティングページから詳細リンクを発見する。
// 正規化済みURLで重複を除去し、初出順を保持する。
func (c *ListingCrawler) discoverLinks(doc *goquery.Document) []string {
	var urls []string
	seen := make(map[string]bool)

	doc.Find(detailLinkSelector).Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" {
			return
		}
		u := urlnorm.Normalize(href, c.origin)
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		urls = append(urls, u)
	})

	return urls
}

// wait はpoliteness間隔の経過を待つ。リミッタ未設定時は即座に返る。
func (c *ListingCrawler) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}
