package dispatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/hitoshi/eventwatch/internal/model"
)

// mockDraftSource は固定のドラフトレポートを返すモック。
type mockDraftSource struct {
	report *model.DraftReport
}

func (m *mockDraftSource) LoadDrafts() (*model.DraftReport, error) {
	return m.report, nil
}

// mockRecipientSource は固定の宛先リストを返すモック。
type mockRecipientSource struct {
	emails []string
}

func (m *mockRecipientSource) Load() (*model.RecipientList, error) {
	return &model.RecipientList{Emails: m.emails}, nil
}

// mockSentLog はインメモリの送信済みログ。
type mockSentLog struct {
	ids   []string
	saved [][]string
}

func (m *mockSentLog) Load() ([]string, error) {
	return append([]string{}, m.ids...), nil
}

func (m *mockSentLog) Save(ids []string) error {
	m.ids = append([]string{}, ids...)
	m.saved = append(m.saved, m.ids)
	return nil
}

// mockSender は送信呼び出しを記録するモック。
type mockSender struct {
	mu      sync.Mutex
	sent    []string
	sendErr error
}

func (m *mockSender) Send(item *model.DraftItem, recipients []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, item.EventID)
	return nil
}

// draftItem はテスト用のドラフト項目を生成する。
func draftItem(id string) model.DraftItem {
	return model.DraftItem{
		DraftID:    "d-" + id,
		EventID:    id,
		ChangeType: model.ChangeTypeNew,
		Draft: &model.Draft{
			Subject:      "Subject " + id,
			EmailBlurb:   "Blurb",
			WhatsappText: "WA",
		},
		Event: model.EventRecord{EventID: id},
	}
}

func newTestService(drafts DraftSource, recipients RecipientSource, sentLog SentLogStore, sender Sender) *Service {
	limiter := rate.NewLimiter(rate.Inf, 1)
	return NewService(drafts, recipients, sentLog, sender, nil, slog.New(slog.NewTextHandler(io.Discard, nil)), limiter)
}

// TestService_Run は未送信ドラフトの送出と送信済みログの更新を検証する。
func TestService_Run(t *testing.T) {
	drafts := &mockDraftSource{report: &model.DraftReport{
		Items: []model.DraftItem{draftItem("e1"), draftItem("e2")},
	}}
	sentLog := &mockSentLog{}
	sender := &mockSender{}
	svc := newTestService(drafts, &mockRecipientSource{emails: []string{"a@example.com"}}, sentLog, sender)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if result.Sent != 2 || result.Skipped != 0 || result.Errors != 0 {
		t.Errorf("result = %+v", result)
	}
	if len(sender.sent) != 2 {
		t.Errorf("sender called %d times, want 2", len(sender.sent))
	}
	if len(sentLog.ids) != 2 {
		t.Errorf("sent log = %v, want 2 ids", sentLog.ids)
	}
}

// TestService_Run_Idempotent は送信済みIDのドラフトが再送されない
// ことを検証する。
func TestService_Run_Idempotent(t *testing.T) {
	drafts := &mockDraftSource{report: &model.DraftReport{
		Items: []model.DraftItem{draftItem("e1"), draftItem("e2")},
	}}
	sentLog := &mockSentLog{ids: []string{"e1"}}
	sender := &mockSender{}
	svc := newTestService(drafts, &mockRecipientSource{emails: []string{"a@example.com"}}, sentLog, sender)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if result.Sent != 1 || result.Skipped != 1 {
		t.Errorf("result = %+v", result)
	}
	if len(sender.sent) != 1 || sender.sent[0] != "e2" {
		t.Errorf("sender.sent = %v, want [e2]", sender.sent)
	}

	// 2回目の実行では何も送られない
	sender.sent = nil
	result, err = svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}
	if result.Sent != 0 || result.Skipped != 2 {
		t.Errorf("second result = %+v", result)
	}
	if len(sender.sent) != 0 {
		t.Errorf("sender called on second run: %v", sender.sent)
	}
}

// TestService_Run_NoRecipients は宛先ゼロの場合に送出が行われない
// ことを検証する。
func TestService_Run_NoRecipients(t *testing.T) {
	drafts := &mockDraftSource{report: &model.DraftReport{
		Items: []model.DraftItem{draftItem("e1")},
	}}
	sender := &mockSender{}
	svc := newTestService(drafts, &mockRecipientSource{}, &mockSentLog{}, sender)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Sent != 0 || result.Skipped != 1 {
		t.Errorf("result = %+v", result)
	}
	if len(sender.sent) != 0 {
		t.Errorf("sender called: %v", sender.sent)
	}
}

// TestService_Run_ErrorItemsSkipped は文面を持たないエラー項目が
// スキップされることを検証する。
func TestService_Run_ErrorItemsSkipped(t *testing.T) {
	failed := draftItem("e1")
	failed.Draft = nil
	failed.Error = "generation failed"

	drafts := &mockDraftSource{report: &model.DraftReport{
		Items: []model.DraftItem{failed, draftItem("e2")},
	}}
	sender := &mockSender{}
	svc := newTestService(drafts, &mockRecipientSource{emails: []string{"a@example.com"}}, &mockSentLog{}, sender)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Sent != 1 || result.Skipped != 1 {
		t.Errorf("result = %+v", result)
	}
}

// TestService_Run_SendFailure は個別の送出失敗が他の送出を止めない
// ことを検証する。
func TestService_Run_SendFailure(t *testing.T) {
	drafts := &mockDraftSource{report: &model.DraftReport{
		Items: []model.DraftItem{draftItem("e1")},
	}}
	sentLog := &mockSentLog{}
	sender := &mockSender{sendErr: errors.New("smtp down")}
	svc := newTestService(drafts, &mockRecipientSource{emails: []string{"a@example.com"}}, sentLog, sender)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Errors != 1 || result.Sent != 0 {
		t.Errorf("result = %+v", result)
	}
	// 失敗したIDは送信済みログに載らない
	if len(sentLog.ids) != 0 {
		t.Errorf("sent log = %v, want empty", sentLog.ids)
	}
}

// TestFileSender_Send は.emlファイルの書き出しと内容を検証する。
func TestFileSender_Send(t *testing.T) {
	outbox := filepath.Join(t.TempDir(), "outbox")
	now := func() time.Time { return time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC) }
	sender := NewFileSender(outbox, "eventwatch@localhost", now)

	item := draftItem("e1")
	if err := sender.Send(&item, []string{"a@example.com", "b@example.com"}); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outbox, "e1.eml"))
	if err != nil {
		t.Fatalf("eml not written: %v", err)
	}
	msg := string(data)
	for _, want := range []string{
		"From: eventwatch@localhost",
		"To: a@example.com, b@example.com",
		"Content-Type: text/html; charset=utf-8",
		"Blurb",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("eml missing %q", want)
		}
	}
}

// TestFileSender_Send_NoDraft は文面なしの項目がエラーになることを検証する。
func TestFileSender_Send_NoDraft(t *testing.T) {
	sender := NewFileSender(t.TempDir(), "eventwatch@localhost", time.Now)
	item := draftItem("e1")
	item.Draft = nil

	if err := sender.Send(&item, []string{"a@example.com"}); err == nil {
		t.Error("Send did not return error for missing draft")
	}
}
