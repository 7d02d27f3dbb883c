package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hitoshi/eventwatch/internal/model"
)

// mainRegionSelector は受付状態の判定に使うメインコンテンツ領域のセレクタ。
const mainRegionSelector = ".main-container"

// openPhrases は受付中と判定するフレーズ。小文字で保持する。
var openPhrases = []string{
	"open for registration",
	"join this event",
	"click here to register",
}

// Status はメインコンテンツのテキストから受付状態を判定する。
// 判定は大文字小文字を無視し、最初に一致したルールが勝つ。
// "closed" を受付中フレーズより先に検査するため、両方を含むページは
// Closedと判定される。どちらにも一致しない場合はUnknown。
func Status(doc *goquery.Document) model.Status {
	region := regionOrDocument(doc, mainRegionSelector)
	txt := strings.ToLower(flattenText(region, " "))

	if strings.Contains(txt, "closed") {
		return model.StatusClosed
	}
	for _, phrase := range openPhrases {
		if strings.Contains(txt, phrase) {
			return model.StatusOpen
		}
	}
	return model.StatusUnknown
}
