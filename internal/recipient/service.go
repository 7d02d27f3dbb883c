// Package recipient は通知宛先リストの読み書きと検証を提供する。
package recipient

import (
	"fmt"
	"strings"

	"github.com/hitoshi/eventwatch/internal/model"
)

// Store は宛先リストの永続化インターフェース。
type Store interface {
	Load() (*model.RecipientList, error)
	Save(list *model.RecipientList) error
}

// Service は宛先リストの管理サービス。
type Service struct {
	store Store
}

// NewService はServiceを生成する。
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List は現在の宛先リストを返す。
func (s *Service) List() (*model.RecipientList, error) {
	return s.store.Load()
}

// Replace は宛先リストを検証したうえで丸ごと置き換える。
// 各宛先は前後の空白を除去してから保存する。
func (s *Service) Replace(emails []string) (*model.RecipientList, error) {
	cleaned := make([]string, 0, len(emails))
	for _, email := range emails {
		email = strings.TrimSpace(email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		cleaned = append(cleaned, email)
	}

	list := &model.RecipientList{Emails: cleaned}
	if err := s.store.Save(list); err != nil {
		return nil, fmt.Errorf("宛先リストの保存に失敗しました: %w", err)
	}
	return list, nil
}

// validateEmail は宛先の最低限の形式を検証する。
// "@" を含まないエントリは不正とする。
func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("宛先が空です")
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("不正な宛先です: %s", email)
	}
	return nil
}
