package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/eventwatch/internal/middleware"
	"github.com/hitoshi/eventwatch/internal/model"
)

// RecipientServiceInterface は宛先ハンドラーが必要とするサービスインターフェース。
type RecipientServiceInterface interface {
	// List は現在の宛先リストを返す。
	List() (*model.RecipientList, error)
	// Replace は宛先リストを検証したうえで丸ごと置き換える。
	Replace(emails []string) (*model.RecipientList, error)
}

// RecipientHandler は宛先リスト管理のHTTPハンドラー。
type RecipientHandler struct {
	service RecipientServiceInterface
	logger  *slog.Logger
}

// NewRecipientHandler はRecipientHandlerを生成する。
func NewRecipientHandler(service RecipientServiceInterface, logger *slog.Logger) *RecipientHandler {
	return &RecipientHandler{service: service, logger: logger}
}

// replaceRecipientsRequest は宛先リスト置換リクエストのボディ。
type replaceRecipientsRequest struct {
	Emails []string `json:"emails"`
}

// List は宛先リストを返す。
// GET /api/recipients
func (h *RecipientHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List()
	if err != nil {
		h.logger.Error("宛先リストの取得に失敗しました", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Replace は宛先リストを置き換える。
// PUT /api/recipients
func (h *RecipientHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req replaceRecipientsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, "INVALID_BODY", "リクエストボディが不正です。")
		return
	}

	list, err := h.service.Replace(req.Emails)
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, "INVALID_RECIPIENT", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}
