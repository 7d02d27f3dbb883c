package draft

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hitoshi/eventwatch/internal/model"
)

// promptContextLimit はプロンプトに含める説明文の最大文字数。
const promptContextLimit = 500

// promptWhitespaceRe は連続する空白にマッチする。
var promptWhitespaceRe = regexp.MustCompile(`\s+`)

// buildPrompt はイベント1件からドラフト生成用のプロンプトを組み立てる。
// モデルにはSTRICT JSON（subject/email_blurb/whatsapp_text）のみを
// 返すよう指示する。
func buildPrompt(event *model.EventRecord) string {
	var e model.EventDetail
	if event.Event != nil {
		e = *event.Event
	}
	var reg model.Registration
	if event.Registration != nil {
		reg = *event.Registration
	}

	return fmt.Sprintf(`You are drafting a targeted marketing email + WhatsApp invite for SCCCI events.
Audience: trade association secretariats (busy, professional tone).
Write concise and clear. No emojis.

EVENT INFO
Title: %s
Date: %s
Time: %s
Venue: %s
Member Price: %s
Non-member Price: %s
Registration Link: %s
Extra context (may be noisy): %s

Return STRICT JSON only (no markdown, no backticks), with keys:
- subject: string (<= 80 chars)
- email_blurb: string (2-3 sentences, include CTA)
- whatsapp_text: string (<= 250 chars, include link)`,
		e.Title,
		e.DateTime.DateRange,
		e.DateTime.TimeRange,
		e.Location,
		cleanMoney(e.Pricing.Member),
		cleanMoney(e.Pricing.NonMember),
		reg.SignupLink,
		safeText(event.DescriptionPreview, promptContextLimit),
	)
}

// cleanMoney は価格表記を整える。"free"表記は"Free"に正規化する。
func cleanMoney(v string) string {
	if v == "" {
		return ""
	}
	if strings.EqualFold(v, "free") {
		return "Free"
	}
	return v
}

// safeText は空白を単一スペースに畳み込み、limit文字に切り詰める。
func safeText(s string, limit int) string {
	if s == "" {
		return ""
	}
	s = strings.TrimSpace(promptWhitespaceRe.ReplaceAllString(s, " "))
	if runes := []rune(s); len(runes) > limit {
		s = string(runes[:limit])
	}
	return s
}
