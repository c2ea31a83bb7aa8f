package utils

import (
	"regexp"
	"strings"
)

// 德语变音字符按站点惯例转写，其他非 ASCII 字符直接丢弃
var umlautReplacer = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss",
)

var (
	reNonSlug        = regexp.MustCompile(`[^a-z0-9\s-]`)
	reSlugWhitespace = regexp.MustCompile(`\s+`)
	reSlugDashes     = regexp.MustCompile(`-+`)
)

// Slugify 把标题转成 URL slug
// 小写 -> 变音转写 -> 去杂字符 -> 空格转连字符 -> 合并并修剪连字符
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = umlautReplacer.Replace(s)
	s = reNonSlug.ReplaceAllString(s, "")
	s = reSlugWhitespace.ReplaceAllString(s, "-")
	s = reSlugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// DecodeSlug 把 slug 还原成展示用标题（每个词首字母大写）
// 变音转写不可逆，只用于页面标题兜底展示
func DecodeSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
