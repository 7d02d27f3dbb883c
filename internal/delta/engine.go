package delta

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/eventwatch/internal/model"
)

// SnapshotStore は差分エンジンが必要とする永続化操作のインターフェース。
// repository.SnapshotStoreを抽象化してテスタビリティを向上させる。
type SnapshotStore interface {
	LoadCurrent() (model.Snapshot, error)
	LoadPrevious() (model.Snapshot, error)
	SaveDelta(report *model.DeltaReport) error
	ReplacePrevious(snapshot model.Snapshot) error
}

// MetricsRecorder は差分メトリクスの記録インターフェース。
type MetricsRecorder interface {
	RecordDelta(newCount, updatedCount, skippedCount int)
}

// Engine は現行・前回スナップショットを比較して差分レポートを生成する。
//
// イベントIDごとの分類:
//  1. 現行のstatusがOpenでない → skipped_closedに計上、差分は出さない
//     （NEW/UPDATED判定より優先される）
//  2. 前回に存在しないID → NEW
//  3. フィンガープリントが異なる → UPDATED（前後両方のフィンガープリント付き）
//  4. それ以外 → 変更なし（出力しない）
//
// 差分計算後、前回スナップショットは無条件に現行で置き換えられる。
// 差分ゼロの実行でも、現行が空（空クロール）でも置き換える。
type Engine struct {
	store   SnapshotStore
	metrics MetricsRecorder
	logger  *slog.Logger
	now     func() time.Time
}

// NewEngine はEngineの新しいインスタンスを生成する。
// locはrun_atタイムスタンプのタイムゾーン。
func NewEngine(store SnapshotStore, metrics MetricsRecorder, logger *slog.Logger, loc *time.Location) *Engine {
	return &Engine{
		store:   store,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().In(loc) },
	}
}

// Run は差分を計算し、レポートの保存と前回スナップショットの置き換えを行う。
// 永続化失敗のみがエラーとなる。
func (e *Engine) Run() (*model.DeltaReport, error) {
	current, err := e.store.LoadCurrent()
	if err != nil {
		return nil, fmt.Errorf("現行スナップショットの読み込みに失敗: %w", err)
	}
	previous, err := e.store.LoadPrevious()
	if err != nil {
		return nil, fmt.Errorf("前回スナップショットの読み込みに失敗: %w", err)
	}

	report := e.Compare(current, previous)

	if err := e.store.SaveDelta(report); err != nil {
		return nil, fmt.Errorf("差分レポートの保存に失敗: %w", err)
	}

	// 前回スナップショットは無条件に現行で置き換える
	if err := e.store.ReplacePrevious(current); err != nil {
		return nil, fmt.Errorf("前回スナップショットの置き換えに失敗: %w", err)
	}

	e.metrics.RecordDelta(report.Summary.New, report.Summary.Updated, report.Summary.SkippedClosed)
	e.logger.Info("差分計算が完了しました",
		slog.Int("current_count", report.Summary.CurrentCount),
		slog.Int("previous_count", report.Summary.PreviousCount),
		slog.Int("new", report.Summary.New),
		slog.Int("updated", report.Summary.Updated),
		slog.Int("skipped_closed", report.Summary.SkippedClosed),
	)

	return report, nil
}

// Compare は2つのスナップショットを比較して差分レポートを生成する。
// 永続化は行わない純粋な比較処理。現行スナップショットの順序で走査するため
// 出力は決定的になる。
func (e *Engine) Compare(current, previous model.Snapshot) *model.DeltaReport {
	currentIdx := current.IndexByID()
	previousIdx := previous.IndexByID()

	report := &model.DeltaReport{
		Summary: model.DeltaSummary{
			RunID:         uuid.NewString(),
			RunAt:         e.now().Format(time.RFC3339),
			CurrentCount:  len(currentIdx),
			PreviousCount: len(previousIdx),
		},
		Items: []model.DeltaItem{},
	}

	processed := make(map[string]bool, len(currentIdx))

	for i := range current {
		id := current[i].EventID
		if id == "" || processed[id] {
			continue
		}
		processed[id] = true

		cur := currentIdx[id]
		curFp := Fingerprint(cur)

		// Closed/Unknown/劣化レコードはNEW/UPDATED判定より優先して除外する
		if cur.Status() != model.StatusOpen {
			report.Summary.SkippedClosed++
			continue
		}

		prev, ok := previousIdx[id]
		if !ok {
			report.Items = append(report.Items, model.DeltaItem{
				ChangeType: model.ChangeTypeNew,
				EventID:    id,
				Event:      *cur,
			})
			report.Summary.New++
			continue
		}

		prevFp := Fingerprint(prev)
		if !Equal(curFp, prevFp) {
			report.Items = append(report.Items, model.DeltaItem{
				ChangeType: model.ChangeTypeUpdated,
				EventID:    id,
				Before:     prevFp,
				After:      curFp,
				Event:      *cur,
			})
			report.Summary.Updated++
		}
	}

	return report
}
