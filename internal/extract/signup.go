package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// providerPatterns は既知の申込フォームプロバイダ・短縮リンクのパターン。
// ドキュメント内のリンクをこの順でスキャンし、最初に一致したものを採用する。
var providerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)forms\.office\.com`),
	regexp.MustCompile(`(?i)form\.gov\.sg`),
	regexp.MustCompile(`(?i)formsg`),
	regexp.MustCompile(`(?i)forms\.gle`),
	regexp.MustCompile(`(?i)docs\.google\.com/forms`),
	regexp.MustCompile(`(?i)go\.gov\.sg`),
	regexp.MustCompile(`(?i)bit\.ly`),
}

// signupButtonSelector は「Join this event」等の登録ボタンのセレクタ。
// プロバイダパターンに一致するリンクがない場合のフォールバック。
const signupButtonSelector = "div.link-btn a[href], a.btn[href]"

// SignupLink は詳細ページから申込リンクを抽出する。
// 全リンクを文書順にスキャンして既知プロバイダへのリンクを探し、
// 見つからなければ登録ボタンのhrefにフォールバックする。
// プレースホルダの "#" は空文字列に正規化する。
// 何も見つからない場合は空文字列を返す。
func SignupLink(doc *goquery.Document) string {
	link := ""

	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" {
			return true
		}
		for _, p := range providerPatterns {
			if p.MatchString(href) {
				link = href
				return false
			}
		}
		return true
	})

	if link == "" {
		btn := doc.Find(signupButtonSelector).First()
		if btn.Length() > 0 {
			link = strings.TrimSpace(btn.AttrOr("href", ""))
		}
	}

	if link == "#" {
		return ""
	}
	return link
}
