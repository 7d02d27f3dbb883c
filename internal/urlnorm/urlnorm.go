// Package urlnorm はリンク・メディアURLの正規化を提供する。
//
// リスティングページ・詳細ページ内のhref/srcは相対・ルート相対・
// プロトコル相対が混在するため、比較可能な単一の絶対URL形式に揃える。
// ネットワークアクセスは行わない純粋な文字列変換であり、
// 不正な入力でもエラーを返さず空文字列または入力をそのまま返す。
package urlnorm

import (
	"net/url"
	"strings"
)

// Normalize はhrefを既知のサイトオリジンに基づいて絶対URLへ正規化する。
//   - 空文字列 → 空文字列
//   - "//host/path" → デフォルトスキーム(https)を付与
//   - "/path" → オリジンを前置
//   - "http://" / "https://" で始まる → そのまま
//   - それ以外 → オリジンをベースに相対解決
//
// originは "https://www.example.org" のようにスキーム付きで指定する。
func Normalize(href, origin string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if strings.HasPrefix(href, "/") {
		return strings.TrimSuffix(origin, "/") + href
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}

	base, err := url.Parse(strings.TrimSuffix(origin, "/") + "/")
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// NormalizeMedia は画像等のメディアURLをベースURLに基づいて絶対化し、
// トラッキング用クエリパラメータを除去する。
//
// キーが大文字小文字を無視してトラッキングプレフィックス（utm_）に
// 一致するパラメータのみを落とし、それ以外のパラメータとフラグメントは
// 保持する。サイトが使用する ?c=... のような本質的パラメータは残る。
func NormalizeMedia(src, baseURL string) string {
	if src == "" {
		return ""
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(src)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(ref)

	if abs.RawQuery != "" {
		abs.RawQuery = stripTrackingParams(abs.RawQuery)
	}
	return abs.String()
}

// trackingPrefixes は除去対象のクエリパラメータキーのプレフィックス。
var trackingPrefixes = []string{"utm_"}

// stripTrackingParams はクエリ文字列からトラッキングパラメータを除去する。
// 残りのパラメータの出現順は保持する。
func stripTrackingParams(rawQuery string) string {
	var kept []string
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key := pair
		if i := strings.Index(pair, "="); i >= 0 {
			key = pair[:i]
		}
		if isTrackingKey(key) {
			continue
		}
		kept = append(kept, pair)
	}
	return strings.Join(kept, "&")
}

// isTrackingKey はキーがトラッキングプレフィックスに一致するかを返す。
func isTrackingKey(key string) bool {
	lower := strings.ToLower(key)
	for _, prefix := range trackingPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
