package extract

import "strings"

// providerRule はドメイン部分文字列とプロバイダ名の対応を表す。
type providerRule struct {
	substrings []string
	name       string
}

// providerRules は順序付きの部分文字列チェックで適用される。
// 先に一致したルールが優先される。
var providerRules = []providerRule{
	{[]string{"forms.office.com"}, "Microsoft Forms"},
	{[]string{"forms.gle", "docs.google.com/forms"}, "Google Forms"},
	{[]string{"form.gov.sg"}, "FormSG"},
	{[]string{"sccci.org.sg/user/event/registerevent"}, "SCCCI Registration"},
}

// Provider は申込リンクからプロバイダ名を推定する。
// 空リンクには空文字列を、未知の非空リンクには "Other" を返す。
func Provider(signupLink string) string {
	if signupLink == "" {
		return ""
	}
	lower := strings.ToLower(signupLink)
	for _, rule := range providerRules {
		for _, sub := range rule.substrings {
			if strings.Contains(lower, sub) {
				return rule.name
			}
		}
	}
	return "Other"
}
