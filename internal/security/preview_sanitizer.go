// Package security はスクレイプ時のセキュリティ機能を提供する。
//
// PreviewSanitizerService はコンテンツ領域のHTMLからマークアップを
// すべて除去し、空白を単一スペースに畳み込んだプレーンテキストの
// 抜粋を生成する。抜粋はドラフト生成の入力および
// description_previewとして永続化されるため、スクリプト等の
// 危険なマークアップを一切通過させない。
package security

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// PreviewSanitizerService はプレーンテキスト抜粋の生成インターフェースを定義する。
type PreviewSanitizerService interface {
	// Excerpt はHTMLからタグを除去し、連続する空白を単一スペースに
	// 畳み込み、maxLen文字に切り詰めたプレーンテキストを返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Excerpt(rawHTML string, maxLen int) string
}

// whitespaceRe は連続する空白文字（改行・タブを含む）にマッチする。
var whitespaceRe = regexp.MustCompile(`\s+`)

// previewSanitizer はPreviewSanitizerServiceの実装。
// bluemondayのStrictPolicy（全タグ除去）を保持し、スレッドセーフに動作する。
type previewSanitizer struct {
	policy *bluemonday.Policy
}

// NewPreviewSanitizer はPreviewSanitizerServiceの新しいインスタンスを生成する。
func NewPreviewSanitizer() *previewSanitizer {
	return &previewSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Excerpt はHTMLからプレーンテキスト抜粋を生成する。
// StrictPolicyはテキストをHTMLエスケープして返すため、
// エスケープを解除してから空白を正規化する。
func (s *previewSanitizer) Excerpt(rawHTML string, maxLen int) string {
	if rawHTML == "" {
		return ""
	}

	text := html.UnescapeString(s.policy.Sanitize(rawHTML))
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))

	if maxLen > 0 {
		if runes := []rune(text); len(runes) > maxLen {
			text = string(runes[:maxLen])
		}
	}
	return text
}
