package domain

import "strings"

// Role 分享角色
type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
)

// ParseRole 只接受 viewer / editor
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleViewer:
		return RoleViewer, nil
	case RoleEditor:
		return RoleEditor, nil
	}
	return "", ErrInvalidRole
}

func (r Role) String() string {
	return string(r)
}

func (r Role) Valid() bool {
	return r == RoleViewer || r == RoleEditor
}

// Action 访客在某个角色下执行的操作
type Action string

const (
	ActionView    Action = "view"
	ActionComment Action = "comment"
	ActionEdit    Action = "edit"
)

// ParseAction 空字符串视为 comment（兑换邀请的默认操作）
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case "", ActionComment:
		return ActionComment, nil
	case ActionView:
		return ActionView, nil
	case ActionEdit:
		return ActionEdit, nil
	}
	return "", ErrInvalidAction
}

// capabilities viewer: 查看、评论；editor: 查看、评论、编辑
var capabilities = map[Role]map[Action]bool{
	RoleViewer: {ActionView: true, ActionComment: true},
	RoleEditor: {ActionView: true, ActionComment: true, ActionEdit: true},
}

// Allows 角色是否允许该操作
func (r Role) Allows(a Action) bool {
	return capabilities[r][a]
}

// IsWrite 写操作需要在执行前重新校验 Token
func (a Action) IsWrite() bool {
	return a == ActionComment || a == ActionEdit
}
