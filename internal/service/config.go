// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

import (
	"strings"
	"time"
)

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	Share ShareServiceConfig // Share related config // 分享相关配置
}

// ShareServiceConfig share service configuration
// ShareServiceConfig 分享服务配置
type ShareServiceConfig struct {
	BaseURL            string        // Public base url used in share / redeem links // 分享与兑换链接的对外地址
	LinkExpiry         time.Duration // 0 means share links never expire // 0 表示分享链接永不过期
	InviteExpiry       time.Duration // Invite expiry, default 7d // 邀请有效期，默认 7 天
	InviteSingleUse    bool          // Default single-use flag for new invites // 新邀请默认是否一次性
	StatsFlushInterval time.Duration // View stats flush interval, default 5m // 访问统计刷新间隔，默认 5 分钟
}

const (
	defaultInviteExpiry       = 7 * 24 * time.Hour
	defaultStatsFlushInterval = 5 * time.Minute
)

func (c ShareServiceConfig) inviteExpiry() time.Duration {
	if c.InviteExpiry <= 0 {
		return defaultInviteExpiry
	}
	return c.InviteExpiry
}

func (c ShareServiceConfig) statsFlushInterval() time.Duration {
	if c.StatsFlushInterval <= 0 {
		return defaultStatsFlushInterval
	}
	return c.StatsFlushInterval
}

// ShareURL base-url + /share/ + token
func (c ShareServiceConfig) ShareURL(token string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/share/" + token
}

// RedeemURL base-url + /redeem?token=
func (c ShareServiceConfig) RedeemURL(token string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/redeem?token=" + token
}
