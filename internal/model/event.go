// Package model はドメインモデルを定義する。
package model

// Status はイベントの受付状態を表す。
// 詳細ページの本文テキストから導出される（extract.Status参照）。
type Status string

const (
	// StatusOpen は受付中の状態。
	StatusOpen Status = "Open"
	// StatusClosed は受付終了の状態。
	StatusClosed Status = "Closed"
	// StatusUnknown は本文から判定できなかった状態。
	StatusUnknown Status = "Unknown"
)

// Source はイベントレコードの取得元情報を表す。
// 比較（フィンガープリント）には使用しない。
type Source struct {
	ListURL   string `json:"list_url"`
	EventURL  string `json:"event_url"`
	ScrapedAt string `json:"scraped_at"`
}

// DateTime はイベントの開催日・時間帯を表す。
// 詳細ページの表記をそのまま保持する（パースは行わない）。
type DateTime struct {
	DateRange string `json:"date_range"`
	TimeRange string `json:"time_range"`
}

// Pricing は会員・非会員価格を表す。
// 値は "350.00" のような金額文字列、"Free"、または未検出を示す空文字列。
type Pricing struct {
	Member    string `json:"member"`
	NonMember string `json:"non_member"`
}

// EventDetail はイベントの本体情報を表す。
type EventDetail struct {
	Title    string   `json:"title"`
	DateTime DateTime `json:"datetime"`
	Location string   `json:"location"`
	Pricing  Pricing  `json:"pricing"`
	Status   Status   `json:"status"`
}

// Registration は申込リンクとそのプロバイダを表す。
type Registration struct {
	SignupLink string `json:"signup_link"`
	Provider   string `json:"provider"`
}

// Image は詳細ページから収集した画像1件を表す。
// Sourceは検出箇所（main|content|bg-style）を示すデバッグ用タグであり、
// 比較には使用しない。
type Image struct {
	URL    string `json:"url"`
	Alt    string `json:"alt"`
	Source string `json:"source"`
}

// ImageSet は収集した画像の集合を表す。
type ImageSet struct {
	Count int     `json:"count"`
	Items []Image `json:"items"`
}

// Media はイベントに付随するメディア情報を表す。
type Media struct {
	Images ImageSet `json:"images"`
}

// EventRecord はスクレイプで生成されるイベントレコードの正準形を表す。
//
// 正常レコードではSource/Event/Registration/Mediaが埋まる。
// スクレイプ失敗時は劣化レコードとなり、EventID/EventURL/Error/ScrapedAtのみを
// 保持する（Event等はnil）。劣化レコードはstatusを持たないため、
// 差分判定では非Openとして扱われる。
type EventRecord struct {
	EventID            string        `json:"event_id"`
	Source             *Source       `json:"source,omitempty"`
	Event              *EventDetail  `json:"event,omitempty"`
	Registration       *Registration `json:"registration,omitempty"`
	Media              *Media        `json:"media,omitempty"`
	DescriptionPreview string        `json:"description_preview,omitempty"`

	// 劣化レコード用フィールド
	EventURL  string `json:"event_url,omitempty"`
	Error     string `json:"error,omitempty"`
	ScrapedAt string `json:"scraped_at,omitempty"`
}

// IsDegraded はスクレイプ失敗による劣化レコードかを返す。
func (e *EventRecord) IsDegraded() bool {
	return e.Error != ""
}

// Status はレコードの受付状態を返す。劣化レコードは空文字列を返す。
func (e *EventRecord) Status() Status {
	if e.Event == nil {
		return ""
	}
	return e.Event.Status
}

// Snapshot はある時点のリスティング全体を表すイベントレコードの順序付きリスト。
// 書き込み後は一切変更しない。次回の実行は新しいリストを丸ごと生成する。
type Snapshot []EventRecord

// IndexByID はevent_idをキーにしたインデックスを返す。
// event_idが空のレコードは無視する。
func (s Snapshot) IndexByID() map[string]*EventRecord {
	idx := make(map[string]*EventRecord, len(s))
	for i := range s {
		if s[i].EventID != "" {
			idx[s[i].EventID] = &s[i]
		}
	}
	return idx
}
