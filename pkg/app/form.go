package app

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

type ValidError struct {
	Key     string
	Message string
}

type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.ErrorsToString(), ",")
}

// ErrorsToString 错误消息列表
func (v ValidErrors) ErrorsToString() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

// MapsToString 字段 -> 错误消息
func (v ValidErrors) MapsToString() map[string]string {
	out := make(map[string]string, len(v))
	for _, err := range v {
		out[err.Key] = err.Message
	}
	return out
}

// BindAndValid 绑定参数并校验：路由参数(uri) -> query(form) -> 请求体（json/form）
// 有 Lang 中间件写入的翻译器时返回翻译后的错误消息
func BindAndValid(c *gin.Context, v any) (bool, ValidErrors) {
	if len(c.Params) > 0 {
		params := make(map[string][]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = []string{p.Value}
		}
		if err := binding.MapFormWithTag(v, params, "uri"); err != nil {
			return false, collect(c, err)
		}
	}
	if err := binding.MapFormWithTag(v, c.Request.URL.Query(), "form"); err != nil {
		return false, collect(c, err)
	}

	var err error
	if c.Request.ContentLength != 0 && c.Request.Method != "GET" {
		err = c.ShouldBind(v)
	} else {
		err = binding.Validator.ValidateStruct(v)
	}
	if err != nil {
		return false, collect(c, err)
	}
	return true, nil
}

func collect(c *gin.Context, err error) ValidErrors {
	var errs ValidErrors

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return append(errs, &ValidError{Key: "body", Message: err.Error()})
	}

	var trans ut.Translator
	if v, exist := c.Get("trans"); exist {
		trans, _ = v.(ut.Translator)
	}
	for _, fe := range verrs {
		msg := fe.Error()
		if trans != nil {
			msg = fe.Translate(trans)
		}
		errs = append(errs, &ValidError{Key: fe.Field(), Message: msg})
	}
	return errs
}
