// Package genai はGemini APIによるドラフト文面生成を提供する。
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/hitoshi/eventwatch/internal/model"
)

// defaultEndpoint はGemini generateContent APIのベースエンドポイント。
const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"

// Client はGemini APIのクライアント。
// プロンプト1件からドラフト文面（subject/email_blurb/whatsapp_text）を生成する。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	apiKey     string
	model      string
	endpoint   string // テスト用にエンドポイントを差し替え可能
}

// NewClient はClientの新しいインスタンスを生成する。
func NewClient(httpClient *http.Client, logger *slog.Logger, apiKey, modelName string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		apiKey:     apiKey,
		model:      modelName,
		endpoint:   defaultEndpoint,
	}
}

// generateRequest はgenerateContent APIのリクエストボディ。
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateResponse はgenerateContent APIのレスポンスのうち必要な部分。
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateDraft はプロンプトを送信してドラフト文面を生成する。
// モデルの応答はSTRICT JSONを指示しているが、余分なテキストが
// 付くことがあるため、最初のJSONオブジェクトを抽出してパースする。
func (c *Client) GenerateDraft(ctx context.Context, prompt string) (*model.Draft, error) {
	reqBody, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("リクエストボディの生成に失敗しました: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Gemini APIの呼び出しに失敗しました",
			slog.String("model", c.model),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Gemini APIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
			slog.String("model", c.model),
		)
		return nil, fmt.Errorf("Gemini APIがステータス %d を返しました", resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return nil, fmt.Errorf("レスポンスJSONのパースに失敗しました: %w", err)
	}

	text := candidateText(&genResp)
	if text == "" {
		return nil, fmt.Errorf("Gemini APIの応答にテキストが含まれていません")
	}

	return parseDraftJSON(text)
}

// candidateText は最初の候補のテキストを返す。候補がない場合は空文字列。
func candidateText(resp *generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	parts := resp.Candidates[0].Content.Parts
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String())
}

// jsonObjectRe は応答テキスト内の最初のJSONオブジェクトにマッチする。
var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// parseDraftJSON は応答テキストからドラフトJSONを抽出してパースする。
// 直接パースを試み、失敗した場合は最初の {...} ブロックを抽出する。
func parseDraftJSON(text string) (*model.Draft, error) {
	draft := &model.Draft{}
	if err := json.Unmarshal([]byte(text), draft); err == nil {
		return normalizeDraft(draft), nil
	}

	m := jsonObjectRe.FindString(text)
	if m == "" {
		return nil, fmt.Errorf("応答にJSONオブジェクトが含まれていません: %.100s", text)
	}
	if err := json.Unmarshal([]byte(m), draft); err != nil {
		return nil, fmt.Errorf("応答JSONのパースに失敗しました: %w", err)
	}
	return normalizeDraft(draft), nil
}

// normalizeDraft は各フィールドの前後空白を除去する。
func normalizeDraft(d *model.Draft) *model.Draft {
	d.Subject = strings.TrimSpace(d.Subject)
	d.EmailBlurb = strings.TrimSpace(d.EmailBlurb)
	d.WhatsappText = strings.TrimSpace(d.WhatsappText)
	return d
}
