package code

import (
	"strings"
)

// lang type, used to store English and Chinese text
// lang 类型，用来存储英文和中文文本
type lang struct {
	en    string // English // 英文
	zh_cn string // Chinese // 中文
}

// FALLBACK_LNG 默认语言
const FALLBACK_LNG = "en"

var supportedLanguages = []string{"en", "zh_cn"}

// NormalizeLang converts request values such as "zh-CN" or "ZH" into a supported language key
// NormalizeLang 将 "zh-CN"、"ZH" 之类的请求值转换为支持的语言标识
func NormalizeLang(language string) string {
	l := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(language), "-", "_"))
	switch {
	case l == "zh" || strings.HasPrefix(l, "zh_"):
		return "zh_cn"
	case l == "en" || strings.HasPrefix(l, "en_"):
		return "en"
	}
	return FALLBACK_LNG
}

// Message returns the message in the requested language, falling back to English
// Message 根据传入的语言返回相应的消息，缺失时回退到英文
func (l lang) Message(language string) string {
	var msg string
	switch NormalizeLang(language) {
	case "zh_cn":
		msg = l.zh_cn
	default:
		msg = l.en
	}
	if msg == "" {
		msg = l.en
	}
	return msg
}

// GetSupportedLanguages returns all languages supported by the lang type
// GetSupportedLanguages 返回 lang 类型支持的所有语言
func GetSupportedLanguages() []string {
	return append([]string(nil), supportedLanguages...)
}
