package draft

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/hitoshi/eventwatch/internal/model"
)

// emailTemplate は通知メールのHTMLドキュメントのテンプレート。
// 生成済みドラフト文面とイベント情報から1イベント1ドキュメントを描画する。
var emailTemplate = template.Must(template.New("email").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>{{.Subject}}</title>
</head>
<body style="margin:0;padding:0;background:#f6f7fb;font-family:Arial,sans-serif;">
  <div style="max-width:680px;margin:0 auto;padding:24px;">
    <div style="background:#ffffff;border-radius:14px;padding:22px;box-shadow:0 2px 10px rgba(0,0,0,.06);">
      <div style="font-size:13px;color:#666;margin-bottom:10px;">
        SCCCI Event Notice (Auto-drafted for approval)
      </div>
{{if .HeroImage}}
      <img src="{{.HeroImage}}" alt="" style="width:100%;border-radius:12px;margin:12px 0;object-fit:cover;" />
{{end}}
      <h1 style="margin:0 0 10px 0;font-size:22px;line-height:1.25;color:#111;">
        {{.Title}}
      </h1>

      <div style="font-size:14px;color:#333;line-height:1.55;margin-bottom:14px;">
        {{.Blurb}}
      </div>

      <div style="border:1px solid #eee;border-radius:12px;padding:14px;margin:16px 0;">
        <div style="display:flex;gap:14px;flex-wrap:wrap;font-size:14px;color:#222;line-height:1.5;">
          <div><b>Date:</b> {{.DateRange}}</div>
          <div><b>Time:</b> {{.TimeRange}}</div>
          <div><b>Venue:</b> {{.Location}}</div>
          <div><b>Member:</b> {{.MemberPrice}}</div>
          <div><b>Non-member:</b> {{.NonMemberPrice}}</div>
        </div>
      </div>

      <div style="margin:18px 0;">
        <a href="{{.SignupLink}}" style="display:inline-block;background:#111;color:#fff;text-decoration:none;padding:12px 16px;border-radius:10px;font-size:14px;">
          Register / Find out more
        </a>
      </div>

      <div style="font-size:12px;color:#777;line-height:1.45;margin-top:18px;">
        If this is not relevant to your association, please disregard. This message is generated automatically based on the SCCCI events page.
      </div>
    </div>

    <div style="text-align:center;font-size:12px;color:#999;margin-top:14px;">
      Generated on {{.GeneratedAt}} (SGT)
    </div>
  </div>
</body>
</html>
`))

// emailData はemailTemplateへの入力。
type emailData struct {
	Subject        string
	Blurb          string
	Title          string
	DateRange      string
	TimeRange      string
	Location       string
	MemberPrice    string
	NonMemberPrice string
	SignupLink     template.URL
	HeroImage      template.URL
	GeneratedAt    string
}

// renderEmailHTML はドラフト文面とイベント情報から通知HTMLを描画する。
// 開催場所・価格が空の場合は "TBC" を表示する。
func renderEmailHTML(d *model.Draft, event *model.EventRecord, generatedAt string) (string, error) {
	var e model.EventDetail
	if event.Event != nil {
		e = *event.Event
	}
	var reg model.Registration
	if event.Registration != nil {
		reg = *event.Registration
	}

	hero := ""
	if event.Media != nil && len(event.Media.Images.Items) > 0 {
		hero = event.Media.Images.Items[0].URL
	}

	data := emailData{
		Subject:        d.Subject,
		Blurb:          d.EmailBlurb,
		Title:          e.Title,
		DateRange:      e.DateTime.DateRange,
		TimeRange:      e.DateTime.TimeRange,
		Location:       orTBC(e.Location),
		MemberPrice:    orTBC(e.Pricing.Member),
		NonMemberPrice: orTBC(e.Pricing.NonMember),
		SignupLink:     template.URL(reg.SignupLink),
		HeroImage:      template.URL(hero),
		GeneratedAt:    generatedAt,
	}

	var sb strings.Builder
	if err := emailTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("メールHTMLの描画に失敗しました: %w", err)
	}
	return sb.String(), nil
}

// orTBC は空文字列を "TBC" に置き換える。
func orTBC(s string) string {
	if s == "" {
		return "TBC"
	}
	return s
}
