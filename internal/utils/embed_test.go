package utils

import "testing"

func TestExtractIframeSrc(t *testing.T) {
	tests := []struct {
		name  string
		embed string
		want  string
	}{
		{
			"完整 iframe 片段",
			`<iframe src="https://player.example.com/v/123" width="640" height="360" allowfullscreen></iframe>`,
			"https://player.example.com/v/123",
		},
		{
			"带包裹元素",
			`<div class="wrap"><iframe src="https://player.example.com/v/456"></iframe></div>`,
			"https://player.example.com/v/456",
		},
		{
			"裸 URL 原样返回",
			"https://player.example.com/v/789",
			"https://player.example.com/v/789",
		},
		{
			"首尾空白被修剪",
			"  https://player.example.com/v/1  ",
			"https://player.example.com/v/1",
		},
		{
			"多个 iframe 取第一个",
			`<iframe src="https://a.example.com/1"></iframe><iframe src="https://b.example.com/2"></iframe>`,
			"https://a.example.com/1",
		},
		{
			"没有 iframe 的 HTML",
			`<div>kein Player</div>`,
			"",
		},
		{
			"iframe 没有 src",
			`<iframe width="640"></iframe>`,
			"",
		},
		{"空串", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractIframeSrc(tt.embed); got != tt.want {
				t.Errorf("ExtractIframeSrc(%q) = %q，期望 %q", tt.embed, got, tt.want)
			}
		})
	}
}
