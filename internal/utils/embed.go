package utils

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractIframeSrc 从 embed 字段里提取 iframe 播放地址
// embed 列历史上混存两种格式：完整的 iframe HTML 片段，或裸的播放器 URL。
// 裸 URL 原样返回；HTML 片段解析第一个 iframe 的 src；解析不出来返回空串
func ExtractIframeSrc(embed string) string {
	embed = strings.TrimSpace(embed)
	if embed == "" {
		return ""
	}

	// 没有标签符号就当裸 URL 处理
	if !strings.Contains(embed, "<") {
		return embed
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(embed))
	if err != nil {
		return ""
	}

	src, _ := doc.Find("iframe").First().Attr("src")
	return strings.TrimSpace(src)
}
