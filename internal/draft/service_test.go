package draft

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/eventwatch/internal/model"
)

// openEvent はドラフト対象となるOpenイベントのレコードを生成する。
func openEvent(id string) model.EventRecord {
	return model.EventRecord{
		EventID: id,
		Event: &model.EventDetail{
			Title: "Trade Mission Briefing",
			DateTime: model.DateTime{
				DateRange: "20 Nov 2025",
				TimeRange: "10:00 AM - 12:00 PM",
			},
			Location: "SCCCI Building",
			Pricing:  model.Pricing{Member: "Free", NonMember: "50.00"},
			Status:   model.StatusOpen,
		},
		Registration: &model.Registration{
			SignupLink: "https://forms.office.com/r/abc",
			Provider:   "Microsoft Forms",
		},
		Media: &model.Media{Images: model.ImageSet{
			Count: 1,
			Items: []model.Image{{URL: "https://x/hero.jpg"}},
		}},
		DescriptionPreview: "Briefing on upcoming trade mission.",
	}
}

// mockDeltaSource は固定の差分レポートを返すモック。
type mockDeltaSource struct {
	report *model.DeltaReport
}

func (m *mockDeltaSource) LoadDelta() (*model.DeltaReport, error) {
	return m.report, nil
}

// mockDraftStore は保存されたレポートを記録するモック。
type mockDraftStore struct {
	saved *model.DraftReport
}

func (m *mockDraftStore) SaveDrafts(report *model.DraftReport) error {
	m.saved = report
	return nil
}

// mockGenerator はプロンプトを記録し固定のドラフトを返すモック。
type mockGenerator struct {
	prompts []string
	draft   *model.Draft
	err     error
}

func (m *mockGenerator) GenerateDraft(_ context.Context, prompt string) (*model.Draft, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return nil, m.err
	}
	return m.draft, nil
}

func fixedNow() time.Time {
	return time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T, deltas DeltaSource, store DraftStore, gen Generator) (*Service, string) {
	t.Helper()
	emailDir := filepath.Join(t.TempDir(), "emails")
	svc := NewService(deltas, store, gen, nil, slog.New(slog.NewTextHandler(io.Discard, nil)), emailDir, fixedNow)
	return svc, emailDir
}

// TestService_Run はNEWイベントのドラフト生成とメールプレビュー出力を検証する。
func TestService_Run(t *testing.T) {
	deltas := &mockDeltaSource{report: &model.DeltaReport{
		Items: []model.DeltaItem{
			{ChangeType: model.ChangeTypeNew, EventID: "e1", Event: openEvent("e1")},
		},
	}}
	store := &mockDraftStore{}
	gen := &mockGenerator{draft: &model.Draft{
		Subject:      "Trade Mission Briefing",
		EmailBlurb:   "Join the briefing.",
		WhatsappText: "Briefing on 20 Nov. Register: https://forms.office.com/r/abc",
	}}
	svc, emailDir := newTestService(t, deltas, store, gen)

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if report.Summary.InputItems != 1 || report.Summary.Drafted != 1 || report.Summary.Errors != 0 {
		t.Errorf("summary = %+v", report.Summary)
	}
	if len(report.Items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(report.Items))
	}
	item := report.Items[0]
	if item.DraftID == "" {
		t.Error("DraftID is empty")
	}
	if item.EventID != "e1" || item.ChangeType != model.ChangeTypeNew {
		t.Errorf("item = %+v", item)
	}
	if item.Draft == nil || item.Draft.Subject != "Trade Mission Briefing" {
		t.Errorf("Draft = %+v", item.Draft)
	}

	// メールプレビューが書き出される
	wantPath := filepath.Join(emailDir, "e1.html")
	if item.EmailPreviewPath != wantPath {
		t.Errorf("EmailPreviewPath = %q, want %q", item.EmailPreviewPath, wantPath)
	}
	html, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("email preview not written: %v", err)
	}
	for _, want := range []string{"Trade Mission Briefing", "Join the briefing.", "https://forms.office.com/r/abc", "https://x/hero.jpg"} {
		if !strings.Contains(string(html), want) {
			t.Errorf("email html missing %q", want)
		}
	}

	// レポートが保存される
	if store.saved == nil || len(store.saved.Items) != 1 {
		t.Errorf("report not saved: %+v", store.saved)
	}

	// プロンプトにイベント情報が含まれる
	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], "Trade Mission Briefing") {
		t.Errorf("prompts = %v", gen.prompts)
	}
}

// TestService_Run_FiltersIneligible は対象外の差分項目が除外される
// ことを検証する。
func TestService_Run_FiltersIneligible(t *testing.T) {
	closed := openEvent("e2")
	closed.Event.Status = model.StatusClosed

	noLink := openEvent("e3")
	noLink.Registration.SignupLink = ""

	deltas := &mockDeltaSource{report: &model.DeltaReport{
		Items: []model.DeltaItem{
			{ChangeType: model.ChangeTypeNew, EventID: "e1", Event: openEvent("e1")},
			{ChangeType: model.ChangeTypeNew, EventID: "e2", Event: closed},
			{ChangeType: model.ChangeTypeUpdated, EventID: "e3", Event: noLink},
		},
	}}
	store := &mockDraftStore{}
	gen := &mockGenerator{draft: &model.Draft{Subject: "S", EmailBlurb: "B", WhatsappText: "W"}}
	svc, _ := newTestService(t, deltas, store, gen)

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if report.Summary.InputItems != 1 {
		t.Errorf("InputItems = %d, want 1", report.Summary.InputItems)
	}
	if len(gen.prompts) != 1 {
		t.Errorf("generator called %d times, want 1", len(gen.prompts))
	}
}

// TestService_Run_NoGenerator は生成AI未設定時に空レポートが保存される
// ことを検証する。
func TestService_Run_NoGenerator(t *testing.T) {
	deltas := &mockDeltaSource{report: &model.DeltaReport{
		Items: []model.DeltaItem{
			{ChangeType: model.ChangeTypeNew, EventID: "e1", Event: openEvent("e1")},
		},
	}}
	store := &mockDraftStore{}
	svc, _ := newTestService(t, deltas, store, nil)

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if report.Summary.InputItems != 1 || report.Summary.Drafted != 0 {
		t.Errorf("summary = %+v", report.Summary)
	}
	if len(report.Items) != 0 {
		t.Errorf("len(items) = %d, want 0", len(report.Items))
	}
	if store.saved == nil {
		t.Error("empty report was not saved")
	}
}

// TestService_Run_GeneratorFailure は生成失敗がエラー項目として記録され、
// 実行全体は継続することを検証する。
func TestService_Run_GeneratorFailure(t *testing.T) {
	deltas := &mockDeltaSource{report: &model.DeltaReport{
		Items: []model.DeltaItem{
			{ChangeType: model.ChangeTypeNew, EventID: "e1", Event: openEvent("e1")},
		},
	}}
	store := &mockDraftStore{}
	gen := &mockGenerator{err: errors.New("quota exceeded")}
	svc, _ := newTestService(t, deltas, store, gen)

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if report.Summary.Errors != 1 || report.Summary.Drafted != 0 {
		t.Errorf("summary = %+v", report.Summary)
	}
	item := report.Items[0]
	if item.Draft != nil {
		t.Errorf("failed item carries draft: %+v", item.Draft)
	}
	if !strings.Contains(item.Error, "quota exceeded") {
		t.Errorf("Error = %q", item.Error)
	}
}

// TestBuildPrompt はプロンプトにイベント情報と指示が含まれることを検証する。
func TestBuildPrompt(t *testing.T) {
	event := openEvent("e1")
	prompt := buildPrompt(&event)

	for _, want := range []string{
		"Title: Trade Mission Briefing",
		"Date: 20 Nov 2025",
		"Member Price: Free",
		"Registration Link: https://forms.office.com/r/abc",
		"STRICT JSON",
		"whatsapp_text",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

// TestSafeText は空白の畳み込みと文字数制限を検証する。
func TestSafeText(t *testing.T) {
	got := safeText("a  b\n\nc", 100)
	if got != "a b c" {
		t.Errorf("safeText = %q, want %q", got, "a b c")
	}

	long := strings.Repeat("あ", 600)
	if got := safeText(long, 500); len([]rune(got)) != 500 {
		t.Errorf("len(safeText) = %d runes, want 500", len([]rune(got)))
	}
}
