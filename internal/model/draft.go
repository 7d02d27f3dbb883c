// Package model はドメインモデルを定義する。
package model

// Draft は生成AIが作成した通知文面を表す。
type Draft struct {
	Subject      string `json:"subject"`
	EmailBlurb   string `json:"email_blurb"`
	WhatsappText string `json:"whatsapp_text"`
}

// DraftItem はドラフト生成結果1件を表す。
// 生成に失敗した場合はDraftがnilとなりErrorにメッセージが入る。
type DraftItem struct {
	DraftID          string      `json:"draft_id"`
	EventID          string      `json:"event_id"`
	ChangeType       ChangeType  `json:"change_type"`
	GeneratedAt      string      `json:"generated_at"`
	Draft            *Draft      `json:"draft,omitempty"`
	Error            string      `json:"error,omitempty"`
	Event            EventRecord `json:"event"`
	EmailPreviewPath string      `json:"email_preview_path,omitempty"`
}

// DraftSummary はドラフト生成ステップの実行サマリを表す。
type DraftSummary struct {
	RunAt      string `json:"run_at"`
	InputItems int    `json:"input_items"`
	Drafted    int    `json:"drafted"`
	Errors     int    `json:"errors"`
}

// DraftReport はドラフト生成ステップの出力契約。送信ステップが消費する。
type DraftReport struct {
	Summary DraftSummary `json:"summary"`
	Items   []DraftItem  `json:"items"`
}

// RecipientList は通知の宛先リストを表す。
// 各エントリは最低限 "@" を含むことが要求される。
type RecipientList struct {
	Emails []string `json:"emails"`
}
