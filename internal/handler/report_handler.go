package handler

import (
	"log/slog"
	"net/http"

	"github.com/hitoshi/eventwatch/internal/middleware"
	"github.com/hitoshi/eventwatch/internal/model"
)

// ReportSourceInterface はレポートハンドラーが必要とする読み取りインターフェース。
type ReportSourceInterface interface {
	LoadCurrent() (model.Snapshot, error)
	LoadDelta() (*model.DeltaReport, error)
}

// DraftSourceInterface はドラフトレポートの読み取りインターフェース。
type DraftSourceInterface interface {
	LoadDrafts() (*model.DraftReport, error)
}

// ReportHandler はスナップショット・差分・ドラフトの読み取り専用HTTPハンドラー。
// オペレーターのフロントエンドが確認用に利用する。
type ReportHandler struct {
	snapshots ReportSourceInterface
	drafts    DraftSourceInterface
	logger    *slog.Logger
}

// NewReportHandler はReportHandlerを生成する。
func NewReportHandler(snapshots ReportSourceInterface, drafts DraftSourceInterface, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{snapshots: snapshots, drafts: drafts, logger: logger}
}

// ListEvents は現行スナップショットを返す。
// GET /api/events
func (h *ReportHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.snapshots.LoadCurrent()
	if err != nil {
		h.logger.Error("現行スナップショットの取得に失敗しました", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// GetDelta は最新の差分レポートを返す。
// GET /api/delta
func (h *ReportHandler) GetDelta(w http.ResponseWriter, r *http.Request) {
	report, err := h.snapshots.LoadDelta()
	if err != nil {
		h.logger.Error("差分レポートの取得に失敗しました", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GetDrafts は最新のドラフトレポートを返す。
// GET /api/drafts
func (h *ReportHandler) GetDrafts(w http.ResponseWriter, r *http.Request) {
	report, err := h.drafts.LoadDrafts()
	if err != nil {
		h.logger.Error("ドラフトレポートの取得に失敗しました", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
