package recipient

import (
	"errors"
	"testing"

	"github.com/hitoshi/eventwatch/internal/model"
)

// mockStore はインメモリの宛先ストア。
type mockStore struct {
	list    *model.RecipientList
	saveErr error
}

func (m *mockStore) Load() (*model.RecipientList, error) {
	if m.list == nil {
		return &model.RecipientList{Emails: []string{}}, nil
	}
	return m.list, nil
}

func (m *mockStore) Save(list *model.RecipientList) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.list = list
	return nil
}

// TestService_Replace は宛先リストの検証と置き換えを検証する。
func TestService_Replace(t *testing.T) {
	store := &mockStore{}
	svc := NewService(store)

	list, err := svc.Replace([]string{" a@example.com ", "b@example.com"})
	if err != nil {
		t.Fatalf("Replace returned error: %v", err)
	}

	if len(list.Emails) != 2 {
		t.Fatalf("len(emails) = %d, want 2", len(list.Emails))
	}
	// 前後の空白は除去される
	if list.Emails[0] != "a@example.com" {
		t.Errorf("emails[0] = %q", list.Emails[0])
	}
	if store.list == nil || len(store.list.Emails) != 2 {
		t.Errorf("list not saved: %+v", store.list)
	}
}

// TestService_Replace_Invalid は不正な宛先が拒否され、保存されない
// ことを検証する。
func TestService_Replace_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		emails []string
	}{
		{"アットマークなし", []string{"a@example.com", "not-an-email"}},
		{"空のエントリ", []string{""}},
		{"空白のみのエントリ", []string{"   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{}
			svc := NewService(store)

			if _, err := svc.Replace(tt.emails); err == nil {
				t.Error("Replace did not return error")
			}
			if store.list != nil {
				t.Errorf("invalid list was saved: %+v", store.list)
			}
		})
	}
}

// TestService_Replace_Empty は空リストへの置き換え（全削除）が
// 許可されることを検証する。
func TestService_Replace_Empty(t *testing.T) {
	store := &mockStore{list: &model.RecipientList{Emails: []string{"a@example.com"}}}
	svc := NewService(store)

	list, err := svc.Replace([]string{})
	if err != nil {
		t.Fatalf("Replace returned error: %v", err)
	}
	if len(list.Emails) != 0 {
		t.Errorf("emails = %v, want empty", list.Emails)
	}
}

// TestService_Replace_SaveFailure は保存失敗がエラーになることを検証する。
func TestService_Replace_SaveFailure(t *testing.T) {
	store := &mockStore{saveErr: errors.New("disk full")}
	svc := NewService(store)

	if _, err := svc.Replace([]string{"a@example.com"}); err == nil {
		t.Error("Replace did not return error on save failure")
	}
}
