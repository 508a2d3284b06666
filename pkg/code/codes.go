package code

import "net/http"

var (
	Success = NewSuss(1, lang{en: "Success", zh_cn: "成功"})

	Failed                    = NewError(400, http.StatusBadRequest, lang{en: "Request failed", zh_cn: "请求失败"})
	ErrorNotFoundAPI          = NewError(404, http.StatusNotFound, lang{en: "API not found", zh_cn: "接口不存在"})
	ErrorInvalidParams        = NewError(405, http.StatusBadRequest, lang{en: "Invalid parameters", zh_cn: "参数错误"})
	ErrorTooManyRequests      = NewError(429, http.StatusTooManyRequests, lang{en: "Too many requests", zh_cn: "请求过于频繁"})
	ErrorServerInternal       = NewError(500, http.StatusInternalServerError, lang{en: "Internal server error", zh_cn: "服务内部错误"})
	ErrorDBQuery              = NewError(501, http.StatusInternalServerError, lang{en: "Storage error", zh_cn: "存储错误"})
	ErrorNotUserAuthToken     = NewError(505, http.StatusUnauthorized, lang{en: "Missing auth token", zh_cn: "缺少授权 Token"})
	ErrorInvalidUserAuthToken = NewError(506, http.StatusUnauthorized, lang{en: "Invalid auth token", zh_cn: "授权 Token 无效"})

	ErrorObjectiveNotFound = NewError(510, http.StatusNotFound, lang{en: "Objective not found", zh_cn: "目标不存在"})
	ErrorInvalidRole       = NewError(511, http.StatusBadRequest, lang{en: "Role must be viewer or editor", zh_cn: "角色必须是 viewer 或 editor"})
	ErrorInvalidResourceID = NewError(512, http.StatusBadRequest, lang{en: "Malformed resource id", zh_cn: "资源 ID 格式错误"})
	ErrorInvalidEmail      = NewError(513, http.StatusBadRequest, lang{en: "Malformed email address", zh_cn: "邮箱格式错误"})
	ErrorEmptyComment      = NewError(514, http.StatusBadRequest, lang{en: "Comment body is empty", zh_cn: "评论内容为空"})
	ErrorInvalidTitle      = NewError(515, http.StatusBadRequest, lang{en: "Title is required", zh_cn: "标题不能为空"})
	ErrorEmptyEdit         = NewError(516, http.StatusBadRequest, lang{en: "Nothing to update", zh_cn: "没有需要修改的内容"})

	ErrorShareLinkNotFound = NewError(520, http.StatusNotFound, lang{en: "Share link not found", zh_cn: "分享链接不存在"})
	// ErrorShareAccessRestricted 访客侧统一拒绝：不区分不存在、已撤销、已过期
	ErrorShareAccessRestricted = NewError(521, http.StatusForbidden, lang{en: "Access Restricted: this link has been revoked or expired", zh_cn: "访问受限：链接已撤销或已过期"})
	ErrorShareRoleMismatch     = NewError(522, http.StatusForbidden, lang{en: "This link does not allow that action", zh_cn: "当前链接无权执行该操作"})
	ErrorLocalShareStore       = NewError(530, http.StatusInternalServerError, lang{en: "Local share store error", zh_cn: "本地分享存储错误"})
)
