// Package delta はフィンガープリント計算と差分分類を提供する。
package delta

import (
	"slices"

	"github.com/hitoshi/eventwatch/internal/model"
)

// Fingerprint はイベントレコードから通知に影響するフィールドのみを射影する。
// description_preview、source.scraped_at、画像のalt/sourceタグは
// 意図的に含めない。画像URLは重複を除去しソートした集合として保持するため、
// 出現順の違いはフィンガープリントに影響しない。
// 劣化レコード（event等がnil）では各フィールドが空になる。
func Fingerprint(e *model.EventRecord) *model.Fingerprint {
	fp := &model.Fingerprint{ImageURLs: []string{}}

	if e.Event != nil {
		fp.Title = e.Event.Title
		fp.DateRange = e.Event.DateTime.DateRange
		fp.TimeRange = e.Event.DateTime.TimeRange
		fp.Location = e.Event.Location
		fp.MemberPrice = e.Event.Pricing.Member
		fp.NonMemberPrice = e.Event.Pricing.NonMember
		fp.Status = string(e.Event.Status)
	}
	if e.Registration != nil {
		fp.SignupLink = e.Registration.SignupLink
		fp.Provider = e.Registration.Provider
	}
	if e.Media != nil {
		fp.ImageURLs = imageURLSet(e.Media.Images.Items)
	}

	return fp
}

// Equal は2つのフィンガープリントの等価性を判定する。
// 全フィールドが等しく、かつ画像URL集合が集合として等しい場合のみtrue。
func Equal(a, b *model.Fingerprint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Title == b.Title &&
		a.DateRange == b.DateRange &&
		a.TimeRange == b.TimeRange &&
		a.Location == b.Location &&
		a.MemberPrice == b.MemberPrice &&
		a.NonMemberPrice == b.NonMemberPrice &&
		a.Status == b.Status &&
		a.SignupLink == b.SignupLink &&
		a.Provider == b.Provider &&
		slices.Equal(a.ImageURLs, b.ImageURLs)
}

// imageURLSet は画像リストからURLの重複除去済みソート集合を作る。
// 空URLは含めない。
func imageURLSet(items []model.Image) []string {
	seen := make(map[string]bool, len(items))
	urls := make([]string, 0, len(items))
	for _, img := range items {
		if img.URL == "" || seen[img.URL] {
			continue
		}
		seen[img.URL] = true
		urls = append(urls, img.URL)
	}
	slices.Sort(urls)
	return urls
}
