package domain

import (
	"errors"
	"fmt"
)

// 参数错误（只出现在 owner 接口，可以返回具体原因）
var (
	ErrInvalidRole       = errors.New("role must be viewer or editor")
	ErrInvalidAction     = errors.New("action must be view, comment or edit")
	ErrInvalidResourceID = errors.New("invalid resource id")
	ErrInvalidEmail      = errors.New("invalid email")
	ErrEmptyComment      = errors.New("comment body is empty")
	ErrEmptyEdit         = errors.New("edit has no title or description")
	ErrInvalidTitle      = errors.New("title is required")
	ErrResourceNotFound  = errors.New("resource not found")
)

// 分享链接拒绝原因；访客接口统一返回 "Access Restricted"，具体原因只写日志
var (
	ErrLinkNotFound = errors.New("share link not found")
	ErrLinkRevoked  = errors.New("share link revoked")
	ErrLinkExpired  = errors.New("share link expired")
)

// 邀请兑换错误
var (
	ErrInvalidToken  = errors.New("invalid invite token")
	ErrInviteUsed    = fmt.Errorf("%w: invite already used", ErrInvalidToken)
	ErrInviteExpired = errors.New("invite expired")
	ErrRoleMismatch  = errors.New("role does not allow this action")
)

// IsGuestRejection 访客接口需要统一隐藏原因的错误
func IsGuestRejection(err error) bool {
	return errors.Is(err, ErrLinkNotFound) ||
		errors.Is(err, ErrLinkRevoked) ||
		errors.Is(err, ErrLinkExpired) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrInviteExpired)
}

// StorageError 持久化层错误，对外表现为 5xx，不能与权限错误混淆
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError 包装持久化错误
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorageError 是否为持久化错误
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
