package extract

import (
	"testing"

	"github.com/hitoshi/eventwatch/internal/model"
)

// TestStatus は受付状態の判定ルールを検証する。
func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		html string
		want model.Status
	}{
		{
			name: "受付中フレーズでOpen",
			html: `<div class="main-container"><p>Open for registration now!</p></div>`,
			want: model.StatusOpen,
		},
		{
			name: "登録ボタン文言でもOpen",
			html: `<div class="main-container"><a href="#">Join this event</a></div>`,
			want: model.StatusOpen,
		},
		{
			name: "closedを含むとClosed",
			html: `<div class="main-container"><p>Registration is closed.</p></div>`,
			want: model.StatusClosed,
		},
		{
			name: "closedは受付中フレーズより優先される",
			html: `<div class="main-container">
				<p>Join this event</p>
				<p>Registration Closed</p>
			</div>`,
			want: model.StatusClosed,
		},
		{
			name: "どちらにも一致しなければUnknown",
			html: `<div class="main-container"><p>Details to be announced.</p></div>`,
			want: model.StatusUnknown,
		},
		{
			name: "メイン領域がない場合はドキュメント全体で判定する",
			html: `<body><p>Click here to register</p></body>`,
			want: model.StatusOpen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDoc(t, tt.html)
			got := Status(doc)
			if got != tt.want {
				t.Errorf("Status = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestLocation は開催場所ラベルの抽出を検証する。
func TestLocation(t *testing.T) {
	tests := []struct {
		name   string
		html   string
		want   string
		wantOK bool
	}{
		{
			name:   "Locationラベルの行の残りを返す",
			html:   `<p>Location: SCCCI Building, Level 2</p>`,
			want:   "SCCCI Building, Level 2",
			wantOK: true,
		},
		{
			name:   "値は同じ行に限定される",
			html:   `<div><p>Location: Hall A</p><p>Date: 1 Jan</p></div>`,
			want:   "Hall A",
			wantOK: true,
		},
		{
			name:   "大文字小文字を無視する",
			html:   `<p>LOCATION : Online (Zoom)</p>`,
			want:   "Online (Zoom)",
			wantOK: true,
		},
		{
			name:   "ラベルがなければ空でfalse",
			html:   `<p>Venue details TBC</p>`,
			want:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDoc(t, tt.html)
			got, ok := Location(doc)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Location = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
