// Package draft は差分レポートから通知ドラフトを生成する。
//
// 対象は change_type が NEW/UPDATED、status が Open、署名リンクを持つ
// イベントのみ。1イベントにつき生成AIを1回呼び出し、結果の文面と
// メールHTMLプレビューをドラフトレポートとして永続化する。
package draft

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/eventwatch/internal/model"
)

// Generator はドラフト文面の生成インターフェース。
// genai.Clientが実装する。
type Generator interface {
	GenerateDraft(ctx context.Context, prompt string) (*model.Draft, error)
}

// DeltaSource は差分レポートの取得インターフェース。
type DeltaSource interface {
	LoadDelta() (*model.DeltaReport, error)
}

// DraftStore はドラフトレポートの保存インターフェース。
type DraftStore interface {
	SaveDrafts(report *model.DraftReport) error
}

// MetricsRecorder はドラフト生成のメトリクスを記録する。
type MetricsRecorder interface {
	RecordDrafts(drafted, errors int)
}

// Service はドラフト生成ステップを実行するサービス。
type Service struct {
	deltas    DeltaSource
	store     DraftStore
	generator Generator
	metrics   MetricsRecorder
	logger    *slog.Logger
	emailDir  string
	now       func() time.Time
}

// NewService はServiceを生成する。
// generatorがnilの場合（APIキー未設定）、生成はスキップされ
// 空のドラフトレポートが保存される。
func NewService(
	deltas DeltaSource,
	store DraftStore,
	generator Generator,
	metrics MetricsRecorder,
	logger *slog.Logger,
	emailDir string,
	now func() time.Time,
) *Service {
	return &Service{
		deltas:    deltas,
		store:     store,
		generator: generator,
		metrics:   metrics,
		logger:    logger,
		emailDir:  emailDir,
		now:       now,
	}
}

// Run は差分レポートを読み込み、対象イベントのドラフトを生成して保存する。
func (s *Service) Run(ctx context.Context) (*model.DraftReport, error) {
	delta, err := s.deltas.LoadDelta()
	if err != nil {
		return nil, fmt.Errorf("差分レポートの読み込みに失敗しました: %w", err)
	}

	eligible := filterEligible(delta.Items)
	report := &model.DraftReport{
		Summary: model.DraftSummary{
			RunAt:      s.now().Format(time.RFC3339),
			InputItems: len(eligible),
		},
		Items: []model.DraftItem{},
	}

	if s.generator == nil {
		s.logger.Warn("生成AIが未設定のためドラフト生成をスキップします",
			slog.Int("eligible", len(eligible)),
		)
		if err := s.store.SaveDrafts(report); err != nil {
			return nil, fmt.Errorf("ドラフトレポートの保存に失敗しました: %w", err)
		}
		return report, nil
	}

	for i := range eligible {
		item := s.draftOne(ctx, &eligible[i])
		if item.Error != "" {
			report.Summary.Errors++
		} else {
			report.Summary.Drafted++
		}
		report.Items = append(report.Items, item)
	}

	if err := s.store.SaveDrafts(report); err != nil {
		return nil, fmt.Errorf("ドラフトレポートの保存に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordDrafts(report.Summary.Drafted, report.Summary.Errors)
	}
	s.logger.Info("ドラフト生成が完了しました",
		slog.Int("input_items", report.Summary.InputItems),
		slog.Int("drafted", report.Summary.Drafted),
		slog.Int("errors", report.Summary.Errors),
	)
	return report, nil
}

// draftOne は1イベント分のドラフトを生成する。
// 生成AIの失敗はエラー項目として記録し、実行全体は止めない。
func (s *Service) draftOne(ctx context.Context, item *model.DeltaItem) model.DraftItem {
	generatedAt := s.now().Format(time.RFC3339)
	out := model.DraftItem{
		DraftID:     uuid.NewString(),
		EventID:     item.EventID,
		ChangeType:  item.ChangeType,
		GeneratedAt: generatedAt,
		Event:       item.Event,
	}

	d, err := s.generator.GenerateDraft(ctx, buildPrompt(&item.Event))
	if err != nil {
		s.logger.Warn("ドラフト生成に失敗しました",
			slog.String("event_id", item.EventID),
			slog.String("error", err.Error()),
		)
		out.Error = err.Error()
		return out
	}
	out.Draft = d

	path, err := s.writeEmailPreview(d, &item.Event, generatedAt)
	if err != nil {
		s.logger.Warn("メールプレビューの書き出しに失敗しました",
			slog.String("event_id", item.EventID),
			slog.String("error", err.Error()),
		)
	} else {
		out.EmailPreviewPath = path
	}
	return out
}

// writeEmailPreview はイベントごとのメールHTMLをemailDir配下に書き出す。
func (s *Service) writeEmailPreview(d *model.Draft, event *model.EventRecord, generatedAt string) (string, error) {
	html, err := renderEmailHTML(d, event, generatedAt)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.emailDir, 0o755); err != nil {
		return "", fmt.Errorf("メール出力ディレクトリの作成に失敗しました: %w", err)
	}
	path := filepath.Join(s.emailDir, event.EventID+".html")
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("メールHTMLの書き込みに失敗しました: %w", err)
	}
	return path, nil
}

// filterEligible はドラフト生成対象の差分項目を抽出する。
// 受付中かつ申込リンクを持つNEW/UPDATEDのみが対象となる。
func filterEligible(items []model.DeltaItem) []model.DeltaItem {
	eligible := make([]model.DeltaItem, 0, len(items))
	for _, item := range items {
		if item.ChangeType != model.ChangeTypeNew && item.ChangeType != model.ChangeTypeUpdated {
			continue
		}
		if item.Event.Status() != model.StatusOpen {
			continue
		}
		if item.Event.Registration == nil || item.Event.Registration.SignupLink == "" {
			continue
		}
		eligible = append(eligible, item)
	}
	return eligible
}
