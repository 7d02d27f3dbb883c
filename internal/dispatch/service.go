// Package dispatch は生成済みドラフトの送出ステップを実装する。
//
// 送信済みイベントIDのログを突き合わせて同一イベントの再送を防ぎ、
// 送出間隔をレートリミッタで制御する。送信手段はSenderとして抽象化され、
// 既定ではアウトボックスへのファイル書き出しとなる。
package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/hitoshi/eventwatch/internal/model"
)

// DraftSource はドラフトレポートの取得インターフェース。
type DraftSource interface {
	LoadDrafts() (*model.DraftReport, error)
}

// RecipientSource は宛先リストの取得インターフェース。
type RecipientSource interface {
	Load() (*model.RecipientList, error)
}

// SentLogStore は送信済みイベントIDログの永続化インターフェース。
type SentLogStore interface {
	Load() ([]string, error)
	Save(ids []string) error
}

// MetricsRecorder は送出のメトリクスを記録する。
type MetricsRecorder interface {
	RecordDispatched(sent, skipped int)
}

// Result は1回の送出実行の結果を表す。
type Result struct {
	Sent    int
	Skipped int
	Errors  int
}

// Service は送出ステップを実行するサービス。
type Service struct {
	drafts     DraftSource
	recipients RecipientSource
	sentLog    SentLogStore
	sender     Sender
	metrics    MetricsRecorder
	logger     *slog.Logger
	limiter    *rate.Limiter
}

// NewService はServiceを生成する。limiterは送出間隔を制御する。
func NewService(
	drafts DraftSource,
	recipients RecipientSource,
	sentLog SentLogStore,
	sender Sender,
	metrics MetricsRecorder,
	logger *slog.Logger,
	limiter *rate.Limiter,
) *Service {
	return &Service{
		drafts:     drafts,
		recipients: recipients,
		sentLog:    sentLog,
		sender:     sender,
		metrics:    metrics,
		logger:     logger,
		limiter:    limiter,
	}
}

// Run はドラフトレポートを読み込み、未送信のドラフトを送出する。
//
// 文面を持たないエラー項目と送信済みログに載っているイベントIDは
// スキップする。送出に成功したIDはログへ追記され、次回以降の実行で
// 再送されない（冪等）。宛先が空の場合は何も送らない。
func (s *Service) Run(ctx context.Context) (*Result, error) {
	report, err := s.drafts.LoadDrafts()
	if err != nil {
		return nil, fmt.Errorf("ドラフトレポートの読み込みに失敗しました: %w", err)
	}
	list, err := s.recipients.Load()
	if err != nil {
		return nil, fmt.Errorf("宛先リストの読み込みに失敗しました: %w", err)
	}
	sentIDs, err := s.sentLog.Load()
	if err != nil {
		return nil, fmt.Errorf("送信済みログの読み込みに失敗しました: %w", err)
	}

	result := &Result{}
	if len(list.Emails) == 0 {
		s.logger.Warn("宛先が登録されていないため送出をスキップします",
			slog.Int("drafts", len(report.Items)),
		)
		result.Skipped = len(report.Items)
		return result, nil
	}

	sent := make(map[string]bool, len(sentIDs))
	for _, id := range sentIDs {
		sent[id] = true
	}

	for i := range report.Items {
		item := &report.Items[i]
		if item.Draft == nil {
			result.Skipped++
			continue
		}
		if sent[item.EventID] {
			s.logger.Info("送信済みのためスキップします",
				slog.String("event_id", item.EventID),
			)
			result.Skipped++
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("送出待機が中断されました: %w", err)
		}
		if err := s.sender.Send(item, list.Emails); err != nil {
			s.logger.Error("送出に失敗しました",
				slog.String("event_id", item.EventID),
				slog.String("error", err.Error()),
			)
			result.Errors++
			continue
		}

		sentIDs = append(sentIDs, item.EventID)
		sent[item.EventID] = true
		result.Sent++
		s.logger.Info("ドラフトを送出しました",
			slog.String("event_id", item.EventID),
			slog.Int("recipients", len(list.Emails)),
		)
	}

	if err := s.sentLog.Save(sentIDs); err != nil {
		return result, fmt.Errorf("送信済みログの保存に失敗しました: %w", err)
	}
	if s.metrics != nil {
		s.metrics.RecordDispatched(result.Sent, result.Skipped)
	}
	s.logger.Info("送出が完了しました",
		slog.Int("sent", result.Sent),
		slog.Int("skipped", result.Skipped),
		slog.Int("errors", result.Errors),
	)
	return result, nil
}
