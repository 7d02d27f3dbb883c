// Package worker はパイプラインのバックグラウンド定期実行を提供する。
package worker

import (
	"context"
	"log/slog"
	"time"
)

// Pipeline はパイプライン1回分の実行インターフェース。
type Pipeline interface {
	// RunOnce はクロール→差分→ドラフト→送出を1回実行する。
	RunOnce(ctx context.Context) error
}

// Scheduler はパイプラインの定期実行を行う。
// 設定された間隔のティッカーで1サイクルずつ実行し、
// サイクル内の失敗はログに記録して次のサイクルへ進む。
type Scheduler struct {
	pipeline Pipeline
	logger   *slog.Logger
}

// NewScheduler はSchedulerの新しいインスタンスを生成する。
func NewScheduler(pipeline Pipeline, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		pipeline: pipeline,
		logger:   logger,
	}
}

// Start は指定間隔のティッカーでスケジューラを起動する。
// コンテキストがキャンセルされるまで実行を継続する。
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("パイプラインスケジューラを開始しました",
		slog.Duration("interval", interval),
	)

	// 起動直後に1回実行
	s.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("パイプラインスケジューラを停止しました")
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// runCycle はパイプラインを1回実行し、所要時間をログに記録する。
func (s *Scheduler) runCycle(ctx context.Context) {
	start := time.Now()
	if err := s.pipeline.RunOnce(ctx); err != nil {
		s.logger.Error("パイプラインサイクルの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return
	}
	s.logger.Info("パイプラインサイクルが完了しました",
		slog.Duration("duration", time.Since(start)),
	)
}
