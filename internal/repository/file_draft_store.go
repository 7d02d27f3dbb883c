package repository

import (
	"github.com/hitoshi/eventwatch/internal/model"
)

// FileDraftStore はJSONファイルを使用したドラフトストア。
type FileDraftStore struct {
	path string
}

// NewFileDraftStore はFileDraftStoreを生成する。
func NewFileDraftStore(path string) *FileDraftStore {
	return &FileDraftStore{path: path}
}

// SaveDrafts はドラフトレポートを上書き保存する。
func (s *FileDraftStore) SaveDrafts(report *model.DraftReport) error {
	return writeJSONFile(s.path, report)
}

// LoadDrafts はドラフトレポートを読み込む。未存在時は空のレポートを返す。
func (s *FileDraftStore) LoadDrafts() (*model.DraftReport, error) {
	report := &model.DraftReport{Items: []model.DraftItem{}}
	if _, err := readJSONFile(s.path, report); err != nil {
		return nil, err
	}
	return report, nil
}

// compile-time interface check
var _ DraftStore = (*FileDraftStore)(nil)
