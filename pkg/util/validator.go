package util

import (
	"regexp"
)

var (
	emailPattern      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	resourceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

// IsValidEmail verifies if the email format is correct
// IsValidEmail 验证邮箱格式是否正确
func IsValidEmail(email string) bool {
	return len(email) <= 254 && emailPattern.MatchString(email)
}

// IsValidResourceID 资源 ID：1-64 位字母、数字、下划线或连字符
func IsValidResourceID(id string) bool {
	return resourceIDPattern.MatchString(id)
}
