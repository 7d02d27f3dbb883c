package repository

import (
	"github.com/hitoshi/eventwatch/internal/model"
)

// FileSnapshotStore はJSONファイルを使用したスナップショットストア。
// current/previous/deltaの3ファイルを扱い、各ファイルは実行ごとに
// 最大1回だけ書き込まれる（部分書き込み・マージは行わない）。
type FileSnapshotStore struct {
	currentPath  string
	previousPath string
	deltaPath    string
}

// NewFileSnapshotStore はFileSnapshotStoreを生成する。
func NewFileSnapshotStore(currentPath, previousPath, deltaPath string) *FileSnapshotStore {
	return &FileSnapshotStore{
		currentPath:  currentPath,
		previousPath: previousPath,
		deltaPath:    deltaPath,
	}
}

// LoadCurrent は現行スナップショットを読み込む。未存在時は空を返す。
func (s *FileSnapshotStore) LoadCurrent() (model.Snapshot, error) {
	return loadSnapshot(s.currentPath)
}

// LoadPrevious は前回スナップショットを読み込む。未存在時は空を返す。
func (s *FileSnapshotStore) LoadPrevious() (model.Snapshot, error) {
	return loadSnapshot(s.previousPath)
}

// SaveCurrent は現行スナップショットを上書き保存する。
func (s *FileSnapshotStore) SaveCurrent(snapshot model.Snapshot) error {
	return writeJSONFile(s.currentPath, emptyIfNil(snapshot))
}

// ReplacePrevious は前回スナップショットを丸ごと置き換える。
// 空のスナップショットでも置き換える（空クロールは履歴を消す）。
func (s *FileSnapshotStore) ReplacePrevious(snapshot model.Snapshot) error {
	return writeJSONFile(s.previousPath, emptyIfNil(snapshot))
}

// SaveDelta は差分レポートを上書き保存する。
func (s *FileSnapshotStore) SaveDelta(report *model.DeltaReport) error {
	return writeJSONFile(s.deltaPath, report)
}

// LoadDelta は差分レポートを読み込む。未存在時は空のレポートを返す。
func (s *FileSnapshotStore) LoadDelta() (*model.DeltaReport, error) {
	report := &model.DeltaReport{Items: []model.DeltaItem{}}
	if _, err := readJSONFile(s.deltaPath, report); err != nil {
		return nil, err
	}
	return report, nil
}

// loadSnapshot はスナップショットファイルを読み込む。
func loadSnapshot(path string) (model.Snapshot, error) {
	var snapshot model.Snapshot
	if _, err := readJSONFile(path, &snapshot); err != nil {
		return nil, err
	}
	if snapshot == nil {
		snapshot = model.Snapshot{}
	}
	return snapshot, nil
}

// emptyIfNil はnilスナップショットを空配列としてシリアライズするための変換。
// JSON上は常に配列（null不可）で表現する。
func emptyIfNil(snapshot model.Snapshot) model.Snapshot {
	if snapshot == nil {
		return model.Snapshot{}
	}
	return snapshot
}

// compile-time interface check
var _ SnapshotStore = (*FileSnapshotStore)(nil)
