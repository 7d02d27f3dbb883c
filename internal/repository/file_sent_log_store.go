package repository

// FileSentLogStore はJSONファイルを使用した送信済みIDログストア。
// ファイル形式は送信済みevent_idの配列。
type FileSentLogStore struct {
	path string
}

// NewFileSentLogStore はFileSentLogStoreを生成する。
func NewFileSentLogStore(path string) *FileSentLogStore {
	return &FileSentLogStore{path: path}
}

// Load は送信済みイベントIDの一覧を読み込む。未存在時は空を返す。
func (s *FileSentLogStore) Load() ([]string, error) {
	ids := []string{}
	if _, err := readJSONFile(s.path, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Save は送信済みイベントIDの一覧を上書き保存する。
func (s *FileSentLogStore) Save(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	return writeJSONFile(s.path, ids)
}

// compile-time interface check
var _ SentLogStore = (*FileSentLogStore)(nil)
