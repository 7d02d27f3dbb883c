package urlnorm

import "testing"

const origin = "https://www.sccci.org.sg"

// TestNormalize はhrefの形式ごとの絶対URL化を検証する。
func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		href string
		want string
	}{
		{
			name: "空文字列は空文字列のまま",
			href: "",
			want: "",
		},
		{
			name: "プロトコル相対URLにはhttpsを付与する",
			href: "//cdn.example.com/banner.jpg",
			want: "https://cdn.example.com/banner.jpg",
		},
		{
			name: "ルート相対パスにはオリジンを前置する",
			href: "/event/detail?slug=abc",
			want: "https://www.sccci.org.sg/event/detail?slug=abc",
		},
		{
			name: "絶対URL(https)はそのまま",
			href: "https://forms.office.com/r/xyz",
			want: "https://forms.office.com/r/xyz",
		},
		{
			name: "絶対URL(http)はそのまま",
			href: "http://example.com/page",
			want: "http://example.com/page",
		},
		{
			name: "相対パスはオリジンをベースに解決する",
			href: "detail?slug=abc",
			want: "https://www.sccci.org.sg/detail?slug=abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.href, origin)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}

// TestNormalize_OriginTrailingSlash はオリジン末尾のスラッシュが
// 二重スラッシュを生まないことを検証する。
func TestNormalize_OriginTrailingSlash(t *testing.T) {
	got := Normalize("/event/index", "https://www.sccci.org.sg/")
	want := "https://www.sccci.org.sg/event/index"
	if got != want {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
}

// TestNormalizeMedia はメディアURLの絶対化とトラッキングパラメータ除去を検証する。
func TestNormalizeMedia(t *testing.T) {
	base := "https://www.sccci.org.sg/event/detail?slug=abc"

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "空文字列は空文字列のまま",
			src:  "",
			want: "",
		},
		{
			name: "ルート相対パスを絶対化する",
			src:  "/images/banner.jpg",
			want: "https://www.sccci.org.sg/images/banner.jpg",
		},
		{
			name: "utm_パラメータを除去する",
			src:  "https://www.sccci.org.sg/img.jpg?utm_source=list&utm_medium=web",
			want: "https://www.sccci.org.sg/img.jpg",
		},
		{
			name: "本質的なパラメータは順序を保って残す",
			src:  "https://www.sccci.org.sg/img.jpg?c=123&utm_source=x&v=2",
			want: "https://www.sccci.org.sg/img.jpg?c=123&v=2",
		},
		{
			name: "大文字のUTM_も除去する",
			src:  "https://www.sccci.org.sg/img.jpg?UTM_Source=x&c=1",
			want: "https://www.sccci.org.sg/img.jpg?c=1",
		},
		{
			name: "フラグメントは保持する",
			src:  "https://www.sccci.org.sg/img.jpg?utm_source=x#hero",
			want: "https://www.sccci.org.sg/img.jpg#hero",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeMedia(tt.src, base)
			if got != tt.want {
				t.Errorf("NormalizeMedia(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}
