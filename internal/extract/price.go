package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// priceBoxSelector は価格情報を含むコンテナのセレクタ。
const priceBoxSelector = "div.event-info-box2"

var (
	// memberFreeRe / memberAmountRe は会員価格のラベルと値にマッチする。
	// "Non-Member Price" のMember部分にもマッチしてしまうため、
	// マッチ位置の直前が "Non-" でないことを呼び出し側で検証する
	// （Goのregexpは後読みを持たないため）。
	memberFreeRe   = regexp.MustCompile(`(?i)\bMember Price\b\s*:?\s*(Free)\b`)
	memberAmountRe = regexp.MustCompile(`(?i)\bMember Price\b\s*:?\s*\$\s*([0-9,]+(?:\.[0-9]{2})?)`)

	nonMemberFreeRe   = regexp.MustCompile(`(?i)\bNon-?Member Price\b\s*:?\s*(Free)\b`)
	nonMemberAmountRe = regexp.MustCompile(`(?i)\bNon-?Member Price\b\s*:?\s*\$\s*([0-9,]+(?:\.[0-9]{2})?)`)
)

// Prices は価格コンテナのテキストから会員・非会員価格を抽出する。
// 値は "Free"、"350.00" のような金額文字列、または未検出を示す空文字列。
// コンテナ自体が存在しないページでは両方とも空文字列を返す。
func Prices(doc *goquery.Document) (member, nonMember string) {
	box := doc.Find(priceBoxSelector)
	if box.Length() == 0 {
		return "", ""
	}

	txt := flattenText(box, " ")

	nonMember, _ = pickValue(txt, nonMemberFreeRe, nonMemberAmountRe, false)
	member, _ = pickValue(txt, memberFreeRe, memberAmountRe, true)
	return member, nonMember
}

// pickValue はラベル付き価格の値を抽出する。"Free"を金額より優先する。
// skipNonPrefixがtrueの場合、直前が "Non-" であるマッチ
// （非会員ラベルの一部にマッチしたもの）を読み飛ばす。
// 2番目の戻り値はラベルと値の組が見つかったかを示す。
func pickValue(txt string, freeRe, amountRe *regexp.Regexp, skipNonPrefix bool) (string, bool) {
	for _, re := range []*regexp.Regexp{freeRe, amountRe} {
		for _, m := range re.FindAllStringSubmatchIndex(txt, -1) {
			if skipNonPrefix && hasNonPrefix(txt, m[0]) {
				continue
			}
			return txt[m[2]:m[3]], true
		}
	}
	return "", false
}

// hasNonPrefix はマッチ開始位置の直前が "Non-" かを返す。
func hasNonPrefix(txt string, start int) bool {
	const prefix = "non-"
	if start < len(prefix) {
		return false
	}
	return strings.EqualFold(txt[start-len(prefix):start], prefix)
}
