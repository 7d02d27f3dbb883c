package scrape

import (
	"crypto/sha256"
	"encoding/hex"
)

// EventID は正規化済みイベントURLから決定的なイベントIDを導出する。
// SHA-256ダイジェストの先頭16桁（hex）。URLが変わらない限り
// 実行をまたいで安定であり、イベントの唯一の同一性キーとなる。
func EventID(eventURL string) string {
	sum := sha256.Sum256([]byte(eventURL))
	return hex.EncodeToString(sum[:])[:16]
}
