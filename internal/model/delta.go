// Package model はドメインモデルを定義する。
package model

// ChangeType は差分の分類を表す。
type ChangeType string

const (
	// ChangeTypeNew は前回スナップショットに存在しなかったイベント。
	ChangeTypeNew ChangeType = "NEW"
	// ChangeTypeUpdated はフィンガープリントが変化したイベント。
	ChangeTypeUpdated ChangeType = "UPDATED"
)

// Fingerprint は変更検知のためにイベントレコードから射影した部分集合。
// 通知に影響するフィールドのみを含む。description_preview、scraped_at、
// 画像のalt/sourceタグは意図的に含めない（ノイズまたは取得元情報のため）。
type Fingerprint struct {
	Title          string `json:"title"`
	DateRange      string `json:"date_range"`
	TimeRange      string `json:"time_range"`
	Location       string `json:"location"`
	MemberPrice    string `json:"member_price"`
	NonMemberPrice string `json:"non_member_price"`
	Status         string `json:"status"`
	SignupLink     string `json:"signup_link"`
	Provider       string `json:"provider"`
	// ImageURLs は重複を除去しソート済みの画像URL集合。
	ImageURLs []string `json:"image_urls"`
}

// DeltaItem は分類済みの変更1件を表す。
// UPDATEDの場合のみBefore/Afterの両フィンガープリントを持つ。
type DeltaItem struct {
	ChangeType ChangeType   `json:"change_type"`
	EventID    string       `json:"event_id"`
	Before     *Fingerprint `json:"before,omitempty"`
	After      *Fingerprint `json:"after,omitempty"`
	Event      EventRecord  `json:"event"`
}

// DeltaSummary は1回の差分計算の実行サマリを表す。
type DeltaSummary struct {
	RunID         string `json:"run_id"`
	RunAt         string `json:"run_at"`
	CurrentCount  int    `json:"current_count"`
	PreviousCount int    `json:"previous_count"`
	New           int    `json:"new"`
	Updated       int    `json:"updated"`
	SkippedClosed int    `json:"skipped_closed"`
}

// DeltaReport は差分エンジンの出力契約。ドラフト生成ステップが消費する。
type DeltaReport struct {
	Summary DeltaSummary `json:"summary"`
	Items   []DeltaItem  `json:"items"`
}
