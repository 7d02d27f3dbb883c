// Package extract は詳細ページのDOMから各フィールドを抽出する。
//
// 各抽出器は独立しており、期待するDOM構造が存在しない場合でも
// エラーにせず空・中立値に縮退する（フィールド欠落は正常系）。
// マークアップ側の構造変化が1フィールドの欠落にとどまり、
// レコード全体を壊さないよう、フィールドごとに関数を分離している。
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// flattenText はセレクション配下のテキストノードをsepで連結して返す。
// 各テキストノードは前後の空白を除去し、空のノードは無視する。
// script/style要素の中身は含めない。
func flattenText(s *goquery.Selection, sep string) string {
	var parts []string
	for _, n := range s.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(parts, sep)
}

// collectText はノードツリーを走査してテキスト片を収集する。
func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// regionOrDocument はセレクタに一致する領域を返す。
// 一致しない場合はドキュメント全体に縮退する。
func regionOrDocument(doc *goquery.Document, selector string) *goquery.Selection {
	sel := doc.Find(selector)
	if sel.Length() == 0 {
		return doc.Selection
	}
	return sel
}
