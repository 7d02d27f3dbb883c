package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// locationRe は "Location: ..." ラベル行にマッチする。
// 行単位で平坦化したテキストに適用するため、値はその行の残りに限定される。
var locationRe = regexp.MustCompile(`(?i)Location\s*:\s*(.+)`)

// Location はページ全体のテキストから開催場所を抽出する。
// 最初に現れる "Location:" ラベルの行の残りをトリムして返す。
// 2番目の戻り値はラベルが見つかったかを示す。
func Location(doc *goquery.Document) (string, bool) {
	txt := flattenText(doc.Selection, "\n")
	m := locationRe.FindStringSubmatch(txt)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}
