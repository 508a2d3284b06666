package domain

// LocalCapability 本地（非权威）能力记录，按 resourceId 保存
// 不做任何服务端校验，只用于离线/演示场景，不能作为访问控制边界
// 不变式：Accepted 中的 Token 只能是 Viewer 或 Editor 当前的值
type LocalCapability struct {
	Viewer   *string  `json:"viewer"`
	Editor   *string  `json:"editor"`
	Accepted []string `json:"accepted"`
}

// Slot 返回角色对应的 Token 槽位
func (c *LocalCapability) Slot(role Role) **string {
	if role == RoleEditor {
		return &c.Editor
	}
	return &c.Viewer
}

// IsAccepted Token 是否已接受
func (c *LocalCapability) IsAccepted(token string) bool {
	for _, t := range c.Accepted {
		if t == token {
			return true
		}
	}
	return false
}
