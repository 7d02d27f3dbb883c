package scrape

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hitoshi/eventwatch/internal/extract"
	"github.com/hitoshi/eventwatch/internal/model"
)

const (
	// titleSelector はイベントタイトルの見出しセレクタ。最初の一致を採用する。
	titleSelector = "div.pageTitle h1, h1"
	// infoRowSelector は日付・時間帯を含む情報ボックスの行セレクタ。
	infoRowSelector = "div.event-info-box div.event-info-row"
	// descriptionSelector は説明文抜粋の対象となるコンテンツ領域のセレクタ。
	descriptionSelector = ".event-detail, .event-content, .event-description, .main-container"
	// descriptionLimit は説明文抜粋の最大文字数。
	descriptionLimit = 800
)

// PreviewSanitizer は説明文抜粋の生成インターフェース。
// security.PreviewSanitizerServiceを抽象化してテスタビリティを向上させる。
type PreviewSanitizer interface {
	Excerpt(rawHTML string, maxLen int) string
}

// DetailScraper は詳細ページ1件のスクレイプを統括する。
// ページを取得・パースし、全フィールド抽出器を実行して
// イベントレコード1件を組み立てる。
type DetailScraper struct {
	fetcher   *PageFetcher
	sanitizer PreviewSanitizer
	listURL   string
	now       func() time.Time
}

// NewDetailScraper はDetailScraperの新しいインスタンスを生成する。
// locはscraped_atタイムスタンプのタイムゾーン。
func NewDetailScraper(fetcher *PageFetcher, sanitizer PreviewSanitizer, listURL string, loc *time.Location) *DetailScraper {
	return &DetailScraper{
		fetcher:   fetcher,
		sanitizer: sanitizer,
		listURL:   listURL,
		now:       func() time.Time { return time.Now().In(loc) },
	}
}

// Scrape は詳細ページをスクレイプしてイベントレコードを返す。
// 取得・パースに失敗した場合はエラーを返し、劣化レコードへの変換は
// 呼び出し側（クローラ）が行う。フィールドの欠落はエラーにならない。
func (s *DetailScraper) Scrape(ctx context.Context, eventURL string) (*model.EventRecord, error) {
	body, err := s.fetcher.Fetch(ctx, eventURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("HTMLのパースに失敗: %w", err)
	}

	return s.assemble(doc, eventURL), nil
}

// assemble はパース済みドキュメントからイベントレコードを組み立てる。
func (s *DetailScraper) assemble(doc *goquery.Document, eventURL string) *model.EventRecord {
	title := strings.TrimSpace(doc.Find(titleSelector).First().Text())
	dateRange, timeRange := extractDateTime(doc)
	member, nonMember := extract.Prices(doc)
	location, _ := extract.Location(doc)
	status := extract.Status(doc)

	signupLink := extract.SignupLink(doc)
	provider := extract.Provider(signupLink)

	images := extract.Images(doc, eventURL)
	preview := s.descriptionPreview(doc)

	return &model.EventRecord{
		EventID: EventID(eventURL),
		Source: &model.Source{
			ListURL:   s.listURL,
			EventURL:  eventURL,
			ScrapedAt: s.now().Format(time.RFC3339),
		},
		Event: &model.EventDetail{
			Title: title,
			DateTime: model.DateTime{
				DateRange: dateRange,
				TimeRange: timeRange,
			},
			Location: location,
			Pricing: model.Pricing{
				Member:    member,
				NonMember: nonMember,
			},
			Status: status,
		},
		Registration: &model.Registration{
			SignupLink: signupLink,
			Provider:   provider,
		},
		Media:              &model.Media{Images: images},
		DescriptionPreview: preview,
	}
}

// DegradedRecord はスクレイプ失敗時の劣化レコードを生成する。
// 同一性とエラー情報のみを保持し、event/registrationフィールドは持たない。
func (s *DetailScraper) DegradedRecord(eventURL string, scrapeErr error) *model.EventRecord {
	return &model.EventRecord{
		EventID:   EventID(eventURL),
		EventURL:  eventURL,
		Error:     scrapeErr.Error(),
		ScrapedAt: s.now().Format(time.RFC3339),
	}
}

// extractDateTime は情報ボックスの行から開催日と時間帯を抽出する。
// 行のアイコンクラスで意味を判別する（fa-calendar-alt=日付、fa-clock=時間）。
// 認識できるアイコンを持たない行は無視する。
func extractDateTime(doc *goquery.Document) (dateRange, timeRange string) {
	doc.Find(infoRowSelector).Each(func(_ int, row *goquery.Selection) {
		icon := row.Find("i").First()
		if icon.Length() == 0 {
			return
		}
		txt := strings.Join(strings.Fields(row.Text()), " ")
		classes := icon.AttrOr("class", "")
		switch {
		case strings.Contains(classes, "fa-calendar-alt"):
			dateRange = strings.TrimSpace(strings.ReplaceAll(txt, "(add to calendar)", ""))
		case strings.Contains(classes, "fa-clock"):
			timeRange = strings.TrimSpace(txt)
		}
	})
	return dateRange, timeRange
}

// descriptionPreview はコンテンツ領域から説明文抜粋を生成する。
// 領域のHTMLをプレーンテキスト化し、単一スペースに畳み込んで切り詰める。
func (s *DetailScraper) descriptionPreview(doc *goquery.Document) string {
	region := doc.Find(descriptionSelector).First()
	if region.Length() == 0 {
		return ""
	}
	rawHTML, err := goquery.OuterHtml(region)
	if err != nil {
		return ""
	}
	return s.sanitizer.Excerpt(rawHTML, descriptionLimit)
}
