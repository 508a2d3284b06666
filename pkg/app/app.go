package app

import (
	"strings"

	"github.com/haierkeys/objective-share-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// VersionInfo 版本信息
type VersionInfo struct {
	Version   string `json:"version"`
	GitTag    string `json:"gitTag"`
	BuildTime string `json:"buildTime"`
}

type Response struct {
	Ctx *gin.Context
}

// Res 统一响应结构：Code/Status/Message/Data，Details 为空时不序列化
type Res struct {
	Code    int         `json:"code"`
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// ListRes 列表响应
type ListRes struct {
	List  interface{} `json:"list"`
	Total int         `json:"total"`
}

func NewResponse(ctx *gin.Context) *Response {
	return &Response{Ctx: ctx}
}

// GetRequestIP 获取ip
func GetRequestIP(c *gin.Context) string {
	reqIP := c.ClientIP()
	if reqIP == "::1" {
		reqIP = "127.0.0.1"
	}
	return reqIP
}

// GetAccessHost 当前访问的 scheme://host，用于未配置 share.base-url 时拼接分享链接
func GetAccessHost(c *gin.Context) string {
	proto := c.Request.Header.Get("X-Forwarded-Proto")
	if proto == "" {
		proto = "http"
		if c.Request.TLS != nil {
			proto = "https"
		}
	}
	return proto + "://" + c.Request.Host
}

// RequestLang 由 Lang 中间件写入，缺省为英文
func RequestLang(c *gin.Context) string {
	if v := c.GetString("lang"); v != "" {
		return v
	}
	return code.FALLBACK_LNG
}

// ToResponse 输出到浏览器，HTTP 状态码取自 code
func (r *Response) ToResponse(codeObj *code.Code) {
	content := Res{
		Code:    codeObj.Code(),
		Status:  codeObj.Status(),
		Message: codeObj.Lang.Message(RequestLang(r.Ctx)),
		Data:    codeObj.Data(),
	}
	if codeObj.HaveDetails() {
		content.Details = strings.Join(codeObj.Details(), ",")
	}
	r.send(codeObj.StatusCode(), content)
}

// ToResponseList 输出列表响应
func (r *Response) ToResponseList(codeObj *code.Code, list interface{}, total int) {
	r.send(codeObj.StatusCode(), Res{
		Code:    codeObj.Code(),
		Status:  codeObj.Status(),
		Message: codeObj.Lang.Message(RequestLang(r.Ctx)),
		Data:    ListRes{List: list, Total: total},
	})
}

func (r *Response) send(statusCode int, content Res) {
	r.Ctx.Set("status_code", statusCode)
	r.Ctx.JSON(statusCode, content)
}
