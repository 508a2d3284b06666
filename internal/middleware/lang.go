package middleware

import (
	"github.com/haierkeys/objective-share-service/pkg/code"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// LangWithTranslator 创建带翻译器的语言中间件（支持依赖注入）
// 语言只写入当前请求上下文，不修改全局默认值
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {

	return func(c *gin.Context) {

		var lang string

		if s, exist := c.GetQuery("lang"); exist {
			lang = s
		} else if s = c.GetHeader("lang"); len(s) != 0 {
			lang = s
		} else if s = c.GetHeader("Accept-Language"); len(s) != 0 {
			lang = s
		}

		lang = code.NormalizeLang(lang)

		// 校验翻译器使用 locales 的标识：en / zh
		locale := "en"
		if lang == "zh_cn" {
			locale = "zh"
		}
		trans, found := uni.GetTranslator(locale)
		if !found {
			trans, _ = uni.GetTranslator("en")
		}
		c.Set("trans", trans)
		c.Set("lang", lang)

		c.Next()
	}
}
