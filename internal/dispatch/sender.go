package dispatch

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hitoshi/eventwatch/internal/model"
)

// Sender は通知1件の送信インターフェース。
type Sender interface {
	// Send はドラフト1件を宛先リストへ送信する。
	Send(item *model.DraftItem, recipients []string) error
}

// FileSender は実送信の代わりにRFC 5322形式の.emlファイルを
// アウトボックスディレクトリへ書き出すSender実装。
// 書き出されたファイルは任意のメールクライアントやMTAに取り込める。
type FileSender struct {
	outboxDir string
	from      string
	now       func() time.Time
}

// NewFileSender はFileSenderを生成する。
func NewFileSender(outboxDir, from string, now func() time.Time) *FileSender {
	return &FileSender{outboxDir: outboxDir, from: from, now: now}
}

// Send はドラフトを.emlファイルとしてアウトボックスに書き出す。
// ファイル名はevent_idから決まるため、同一イベントの再書き出しは上書きとなる。
func (s *FileSender) Send(item *model.DraftItem, recipients []string) error {
	if item.Draft == nil {
		return fmt.Errorf("ドラフト文面がありません: %s", item.EventID)
	}
	if err := os.MkdirAll(s.outboxDir, 0o755); err != nil {
		return fmt.Errorf("アウトボックスの作成に失敗しました: %w", err)
	}

	body, err := s.buildMessage(item, recipients)
	if err != nil {
		return err
	}
	path := filepath.Join(s.outboxDir, item.EventID+".eml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("メッセージの書き込みに失敗しました: %w", err)
	}
	return nil
}

// buildMessage はヘッダとHTML本文からなるメッセージを組み立てる。
func (s *FileSender) buildMessage(item *model.DraftItem, recipients []string) (string, error) {
	html := ""
	if item.EmailPreviewPath != "" {
		b, err := os.ReadFile(item.EmailPreviewPath)
		if err != nil {
			return "", fmt.Errorf("メールプレビューの読み込みに失敗しました: %w", err)
		}
		html = string(b)
	} else {
		html = "<html><body><p>" + item.Draft.EmailBlurb + "</p></body></html>"
	}

	var sb strings.Builder
	sb.WriteString("From: " + s.from + "\r\n")
	sb.WriteString("To: " + strings.Join(recipients, ", ") + "\r\n")
	sb.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", item.Draft.Subject) + "\r\n")
	sb.WriteString("Date: " + s.now().Format(time.RFC1123Z) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(html)
	return sb.String(), nil
}
