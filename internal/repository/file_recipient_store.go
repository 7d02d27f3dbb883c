package repository

import (
	"github.com/hitoshi/eventwatch/internal/model"
)

// FileRecipientStore はJSONファイルを使用した宛先リストストア。
// ファイル形式は {"emails": ["a@example.com", ...]}。
type FileRecipientStore struct {
	path string
}

// NewFileRecipientStore はFileRecipientStoreを生成する。
func NewFileRecipientStore(path string) *FileRecipientStore {
	return &FileRecipientStore{path: path}
}

// Load は宛先リストを読み込む。未存在時は空のリストを返す。
func (s *FileRecipientStore) Load() (*model.RecipientList, error) {
	list := &model.RecipientList{Emails: []string{}}
	if _, err := readJSONFile(s.path, list); err != nil {
		return nil, err
	}
	if list.Emails == nil {
		list.Emails = []string{}
	}
	return list, nil
}

// Save は宛先リストを上書き保存する。
func (s *FileRecipientStore) Save(list *model.RecipientList) error {
	return writeJSONFile(s.path, list)
}

// compile-time interface check
var _ RecipientStore = (*FileRecipientStore)(nil)
