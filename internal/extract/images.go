package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hitoshi/eventwatch/internal/model"
	"github.com/hitoshi/eventwatch/internal/urlnorm"
)

// 画像収集の対象領域。mainを先に走査するため、同一URLが両領域に
// 現れた場合はmainのsourceタグが残る。
const (
	imageMainSelector    = ".main-container"
	imageContentSelector = ".event-detail, .event-content, .event-description"
)

// bgImageRe はインラインstyle属性内のbackground-image宣言からURLを取り出す。
var bgImageRe = regexp.MustCompile(`(?i)background-image\s*:\s*url\(["']?(.*?)["']?\)`)

// Images は詳細ページから画像を収集する。
// 優先順に main領域・content領域の<img>、さらにインラインstyleで
// background-imageを宣言する要素を走査する。正規化後のURLで
// 重複を除去し、最初の出現のsourceタグを保持する。
// src/URLが空のものは読み飛ばす。
func Images(doc *goquery.Document, eventURL string) model.ImageSet {
	items := []model.Image{}
	seen := make(map[string]bool)

	add := func(src, alt, source string) {
		u := urlnorm.NormalizeMedia(strings.TrimSpace(src), eventURL)
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		items = append(items, model.Image{
			URL:    u,
			Alt:    strings.TrimSpace(alt),
			Source: source,
		})
	}

	areas := []struct {
		source   string
		selector string
	}{
		{"main", imageMainSelector},
		{"content", imageContentSelector},
	}

	for _, area := range areas {
		region := regionOrDocument(doc, area.selector)
		region.Find("img").Each(func(_ int, img *goquery.Selection) {
			src := strings.TrimSpace(img.AttrOr("src", ""))
			if src == "" {
				return
			}
			add(src, img.AttrOr("alt", ""), area.source)
		})
	}

	doc.Find(`[style*="background-image"]`).Each(func(_ int, node *goquery.Selection) {
		style := node.AttrOr("style", "")
		if m := bgImageRe.FindStringSubmatch(style); m != nil {
			add(m[1], "", "bg-style")
		}
	})

	return model.ImageSet{Count: len(items), Items: items}
}
