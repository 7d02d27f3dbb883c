// Package repository はデータ永続化のインターフェースを定義する。
//
// 本システムの永続化契約はすべてJSONファイルである（現行・前回
// スナップショット、差分レポート、ドラフト、送信済みログ、宛先リスト）。
// ファイルパスは明示的な設定値として注入され、複数のリスティングや
// テストフィクスチャを分離して実行できる。
package repository

import "github.com/hitoshi/eventwatch/internal/model"

// SnapshotStore はスナップショットと差分レポートの永続化インターフェース。
type SnapshotStore interface {
	// LoadCurrent は現行スナップショットを読み込む。
	// ファイルが存在しない場合は空のスナップショットを返す。
	LoadCurrent() (model.Snapshot, error)

	// LoadPrevious は前回スナップショットを読み込む。
	// ファイルが存在しない場合は空のスナップショットを返す。
	LoadPrevious() (model.Snapshot, error)

	// SaveCurrent は現行スナップショットを上書き保存する。
	SaveCurrent(snapshot model.Snapshot) error

	// ReplacePrevious は前回スナップショットを丸ごと置き換える。
	// マージは行わない。空のスナップショットでも置き換える。
	ReplacePrevious(snapshot model.Snapshot) error

	// SaveDelta は差分レポートを上書き保存する。
	SaveDelta(report *model.DeltaReport) error

	// LoadDelta は差分レポートを読み込む。
	// ファイルが存在しない場合は空のレポートを返す。
	LoadDelta() (*model.DeltaReport, error)
}

// DraftStore はドラフトレポートの永続化インターフェース。
type DraftStore interface {
	// SaveDrafts はドラフトレポートを上書き保存する。
	SaveDrafts(report *model.DraftReport) error

	// LoadDrafts はドラフトレポートを読み込む。
	// ファイルが存在しない場合は空のレポートを返す。
	LoadDrafts() (*model.DraftReport, error)
}

// RecipientStore は宛先リストの永続化インターフェース。
type RecipientStore interface {
	// Load は宛先リストを読み込む。
	// ファイルが存在しない場合は空のリストを返す。
	Load() (*model.RecipientList, error)

	// Save は宛先リストを上書き保存する。
	Save(list *model.RecipientList) error
}

// SentLogStore は送信済みイベントIDログの永続化インターフェース。
// 送信ステップの冪等性（同一IDの再送防止）を支える。
type SentLogStore interface {
	// Load は送信済みイベントIDの一覧を読み込む。
	// ファイルが存在しない場合は空のリストを返す。
	Load() ([]string, error)

	// Save は送信済みイベントIDの一覧を上書き保存する。
	Save(ids []string) error
}
