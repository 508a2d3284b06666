package logger

// 统一的日志字段命名常量
const (
	// FieldTraceID 追踪 ID
	FieldTraceID = "traceId"

	// FieldUID owner 用户 ID
	FieldUID = "uid"

	// FieldAction 操作类型
	FieldAction = "action"

	// FieldMethod 方法名称
	FieldMethod = "method"

	// FieldDuration 耗时
	FieldDuration = "duration"

	// FieldError 错误信息
	FieldError = "error"

	// FieldResourceID 被分享的资源 ID
	FieldResourceID = "resourceId"

	// FieldRole 分享角色
	FieldRole = "role"

	// FieldToken 脱敏后的分享 Token，禁止写入完整 Token
	FieldToken = "token"

	// FieldReason 拒绝原因（仅内部日志）
	FieldReason = "reason"

	// FieldLinkID 分享链接 ID
	FieldLinkID = "linkId"

	// FieldInviteID 邀请 ID
	FieldInviteID = "inviteId"

	// FieldIP 访问者 IP
	FieldIP = "ip"
)
