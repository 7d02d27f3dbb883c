// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はパイプライン各ステップのメトリクスを保持する。
// scrape・delta・draft・dispatchの各サービスのMetricsRecorderを実装する。
type Collector struct {
	registry *prometheus.Registry

	pagesScraped   prometheus.Counter
	scrapeFailures prometheus.Counter
	scrapeLatency  prometheus.Histogram
	eventsNew      prometheus.Counter
	eventsUpdated  prometheus.Counter
	eventsSkipped  prometheus.Counter
	draftsCreated  prometheus.Counter
	draftErrors    prometheus.Counter
	dispatchedSent prometheus.Counter
	dispatchedSkip prometheus.Counter
}

// NewCollector はCollectorを生成し、全メトリクスを専用レジストリに登録する。
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		pagesScraped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventwatch_pages_scraped_total",
			Help: "スクレイプに成功した詳細ページ数",
		}),
		scrapeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventwatch_scrape_failures_total",
			Help: "スクレイプに失敗した詳細ページ数",
		}),
		scrapeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "eventwatch_scrape_duration_seconds",
			Help:    "詳細ページ1件のスクレイプ所要時間",
			Buckets: prometheus.DefBuckets,
		}),
		eventsNew: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventwatch_events_new_total",
			Help: "差分計算でNEWと分類されたイベント数",
		}),
		eventsUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventwatch_events_updated_total",
			Help: "差分計算でUPDATEDと分類されたイベント数",
		}),
		eventsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventwatch_events_skipped_total",
			Help: "受付終了等の理由で差分計算から除外されたイベント数",
		}),
		draftsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventwatch_drafts_created_total",
			Help: "生成に成功したドラフト数",
		}),
		draftErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventwatch_draft_errors_total",
			Help: "生成に失敗したドラフト数",
		}),
		dispatchedSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventwatch_dispatched_total",
			Help: "送出に成功したドラフト数",
		}),
		dispatchedSkip: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventwatch_dispatch_skipped_total",
			Help: "送信済みログ等の理由で送出をスキップしたドラフト数",
		}),
	}
	c.registry.MustRegister(
		c.pagesScraped,
		c.scrapeFailures,
		c.scrapeLatency,
		c.eventsNew,
		c.eventsUpdated,
		c.eventsSkipped,
		c.draftsCreated,
		c.draftErrors,
		c.dispatchedSent,
		c.dispatchedSkip,
	)
	return c
}

// RecordPageScraped は詳細ページのスクレイプ成功を記録する。
func (c *Collector) RecordPageScraped() {
	c.pagesScraped.Inc()
}

// RecordScrapeFailure は詳細ページのスクレイプ失敗を記録する。
func (c *Collector) RecordScrapeFailure() {
	c.scrapeFailures.Inc()
}

// RecordScrapeLatency は詳細ページ1件の所要時間を記録する。
func (c *Collector) RecordScrapeLatency(duration time.Duration) {
	c.scrapeLatency.Observe(duration.Seconds())
}

// RecordDelta は差分計算の分類結果を記録する。
func (c *Collector) RecordDelta(newCount, updatedCount, skippedCount int) {
	c.eventsNew.Add(float64(newCount))
	c.eventsUpdated.Add(float64(updatedCount))
	c.eventsSkipped.Add(float64(skippedCount))
}

// RecordDrafts はドラフト生成の結果を記録する。
func (c *Collector) RecordDrafts(drafted, errors int) {
	c.draftsCreated.Add(float64(drafted))
	c.draftErrors.Add(float64(errors))
}

// RecordDispatched は送出の結果を記録する。
func (c *Collector) RecordDispatched(sent, skipped int) {
	c.dispatchedSent.Add(float64(sent))
	c.dispatchedSkip.Add(float64(skipped))
}

// Handler はメトリクス公開用のHTTPハンドラを返す。
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
