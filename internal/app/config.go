// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/haierkeys/objective-share-service/internal/dao"
	"github.com/haierkeys/objective-share-service/internal/service"
	"github.com/haierkeys/objective-share-service/pkg/logger"
	"github.com/haierkeys/objective-share-service/pkg/mailer"
	"github.com/haierkeys/objective-share-service/pkg/util"
	"github.com/haierkeys/objective-share-service/pkg/workerpool"
	"github.com/haierkeys/objective-share-service/pkg/writequeue"

	"github.com/creasty/defaults"
	"github.com/gookit/goutil/fsutil"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppConfig 应用配置
type AppConfig struct {
	File       string           `yaml:"-"` // 配置文件路径，不序列化
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Database   DatabaseConfig   `yaml:"database"`
	App        AppSettings      `yaml:"app"`
	Security   SecurityConfig   `yaml:"security"`
	Share      ShareConfig      `yaml:"share"`
	Redis      RedisConfig      `yaml:"redis"`
	Mail       MailConfig       `yaml:"mail"`
	Tracer     TracerConfig     `yaml:"tracer"`
	LocalShare LocalShareConfig `yaml:"local-share"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"warn"`
	// File 日志文件路径，为空时只输出到 stderr
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 端口
	HttpPort string `yaml:"http-port" default:":9000"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"60"`
	// PrivateHttpListen 私有 HTTP 监听地址（/metrics、pprof），为空时不启动
	PrivateHttpListen string `yaml:"private-http-listen" default:":9001"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	// AuthTokenKey owner JWT 签名密钥
	AuthTokenKey string `yaml:"auth-token-key" default:"objective-share-Auth-Token"`
	// TokenExpiry owner Token 过期时间，支持格式：7d（天）、24h（小时）、30m（分钟）
	TokenExpiry string `yaml:"token-expiry" default:"30d"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Type 数据库类型 sqlite / mysql / postgres
	Type string `yaml:"type" default:"sqlite"`
	// Path SQLite 数据库文件路径
	Path string `yaml:"path" default:"storage/database/db.sqlite3"`
	// UserName 用户名
	UserName string `yaml:"username"`
	// Password 密码
	Password string `yaml:"password"`
	// Host 主机
	Host string `yaml:"host"`
	// Name 数据库名
	Name string `yaml:"name"`
	// AutoMigrate 是否启用自动迁移
	AutoMigrate bool `yaml:"auto-migrate" default:"true"`
	// Charset 字符集
	Charset string `yaml:"charset"`
	// ParseTime 是否解析时间
	ParseTime bool `yaml:"parse-time"`
	// Replicas 只读副本 DSN 列表
	Replicas []string `yaml:"replicas"`
	// MaxIdleConns 最大闲置连接数，默认 10
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns 最大打开连接数，默认 100
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
	// ConnMaxLifetime 连接最大生命周期，默认 30m
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
	// ConnMaxIdleTime 空闲连接最大生命周期，默认 10m
	ConnMaxIdleTime string `yaml:"conn-max-idle-time" default:"10m"`
}

// AppSettings 应用设置
type AppSettings struct {
	// DefaultContextTimeout 默认上下文超时时间（秒）
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`

	// Worker Pool 配置
	WorkerPoolMaxWorkers int `yaml:"worker-pool-max-workers" default:"16"`
	WorkerPoolQueueSize  int `yaml:"worker-pool-queue-size" default:"256"`

	// Write Queue 配置
	WriteQueueCapacity int    `yaml:"write-queue-capacity" default:"100"`
	WriteQueueTimeout  string `yaml:"write-queue-timeout" default:"30s"`
	WriteQueueIdleTime string `yaml:"write-queue-idle-time" default:"10m"`
}

// ShareConfig 分享配置
type ShareConfig struct {
	// BaseURL 分享与兑换链接的对外地址
	BaseURL string `yaml:"base-url" default:"http://localhost:9000"`
	// TokenCodec alphanumeric / uuid
	TokenCodec string `yaml:"token-codec" default:"alphanumeric"`
	// TokenLength alphanumeric Token 长度，不小于 32
	TokenLength int `yaml:"token-length" default:"40"`
	// LinkExpiry 分享链接有效期，为空表示永不过期
	LinkExpiry string `yaml:"link-expiry"`
	// InviteExpiry 邀请有效期
	InviteExpiry string `yaml:"invite-expiry" default:"7d"`
	// InviteSingleUse 新邀请默认是否一次性
	InviteSingleUse bool `yaml:"invite-single-use"`
	// StatsFlushInterval 访问统计刷新间隔
	StatsFlushInterval string `yaml:"stats-flush-interval" default:"5m"`
	// SweepCron 过期链接清理任务的 cron 表达式
	SweepCron string `yaml:"sweep-cron" default:"@every 10m"`
	// GuestRateLimit 每个 IP 在 GuestRateWindow 内的访客请求上限，需要配置 redis.url
	GuestRateLimit int64 `yaml:"guest-rate-limit" default:"60"`
	// GuestRateWindow 访客限流窗口
	GuestRateWindow string `yaml:"guest-rate-window" default:"1m"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	// URL 形如 redis://localhost:6379/0，为空时不启用访客限流
	URL string `yaml:"url"`
}

// MailConfig 邀请邮件 SMTP 配置
type MailConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port" default:"587"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称，默认 X-Trace-ID
	Header string `yaml:"header" default:"X-Trace-ID"`
	// JaegerAgent Jaeger agent 地址，如 127.0.0.1:6831，为空时只生成 Trace ID
	JaegerAgent string `yaml:"jaeger-agent"`
	// ServiceName 上报的服务名
	ServiceName string `yaml:"service-name" default:"objective-share-service"`
}

// LocalShareConfig 本地 capability 存储配置
type LocalShareConfig struct {
	// Path JSON 文件路径
	Path string `yaml:"path" default:"storage/local/shares.json"`
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	c := new(AppConfig)
	c.File = realpath

	// 设置默认值
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "set default config failed")
	}

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	err = yaml.Unmarshal(file, c)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "parse config file failed")
	}

	// 不再二次填充默认值：default:"true" 的布尔字段会覆盖 YAML 中显式写的 false
	if err := c.Validate(); err != nil {
		return nil, realpath, err
	}

	return c, realpath, nil
}

// Validate 检查无法通过默认值修复的配置
func (c *AppConfig) Validate() error {
	durations := map[string]string{
		"security.token-expiry":       c.Security.TokenExpiry,
		"share.link-expiry":           c.Share.LinkExpiry,
		"share.invite-expiry":         c.Share.InviteExpiry,
		"share.stats-flush-interval":  c.Share.StatsFlushInterval,
		"share.guest-rate-window":     c.Share.GuestRateWindow,
		"database.conn-max-lifetime":  c.Database.ConnMaxLifetime,
		"database.conn-max-idle-time": c.Database.ConnMaxIdleTime,
		"app.write-queue-timeout":     c.App.WriteQueueTimeout,
		"app.write-queue-idle-time":   c.App.WriteQueueIdleTime,
	}
	for key, v := range durations {
		if v == "" {
			continue
		}
		if _, err := util.ParseDuration(v); err != nil {
			return errors.Wrapf(err, "invalid duration %s", key)
		}
	}
	switch c.Database.Type {
	case "sqlite", "mysql", "postgres":
	default:
		return errors.Errorf("unsupported database.type %q", c.Database.Type)
	}
	return nil
}

// Save 保存配置到文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	if err := fsutil.MkParentDir(c.File); err != nil {
		return errors.Wrap(err, "create config dir failed")
	}

	err = os.WriteFile(c.File, data, 0644)
	if err != nil {
		return errors.Wrap(err, "write config file failed")
	}

	return nil
}

// GetWorkerPoolConfig 获取 Worker Pool 配置
func (c *AppConfig) GetWorkerPoolConfig() workerpool.Config {
	cfg := workerpool.DefaultConfig()

	if c.App.WorkerPoolMaxWorkers > 0 {
		cfg.MaxWorkers = c.App.WorkerPoolMaxWorkers
	}
	if c.App.WorkerPoolQueueSize > 0 {
		cfg.QueueSize = c.App.WorkerPoolQueueSize
	}

	return cfg
}

// GetWriteQueueConfig 获取 Write Queue 配置
func (c *AppConfig) GetWriteQueueConfig() writequeue.Config {
	cfg := writequeue.DefaultConfig()

	if c.App.WriteQueueCapacity > 0 {
		cfg.QueueCapacity = c.App.WriteQueueCapacity
	}
	if c.App.WriteQueueTimeout != "" {
		if timeout, err := util.ParseDuration(c.App.WriteQueueTimeout); err == nil {
			cfg.WriteTimeout = timeout
		}
	}
	if c.App.WriteQueueIdleTime != "" {
		if idleTime, err := util.ParseDuration(c.App.WriteQueueIdleTime); err == nil {
			cfg.IdleTimeout = idleTime
		}
	}

	return cfg
}

// GetTokenExpiry 获取 owner Token 过期时间
func (c *AppConfig) GetTokenExpiry() time.Duration {
	return util.ParseDurationOr(c.Security.TokenExpiry, 30*24*time.Hour)
}

// GetLoggerConfig 获取日志配置
func (c *AppConfig) GetLoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		File:       c.Log.File,
		Production: c.Log.Production,
	}
}

// GetDatabaseConfig 获取 DAO 层数据库配置
func (c *AppConfig) GetDatabaseConfig() dao.DatabaseConfig {
	return dao.DatabaseConfig{
		Type:            c.Database.Type,
		Path:            c.Database.Path,
		UserName:        c.Database.UserName,
		Password:        c.Database.Password,
		Host:            c.Database.Host,
		Name:            c.Database.Name,
		Charset:         c.Database.Charset,
		ParseTime:       c.Database.ParseTime,
		AutoMigrate:     c.Database.AutoMigrate,
		Replicas:        c.Database.Replicas,
		MaxIdleConns:    c.Database.MaxIdleConns,
		MaxOpenConns:    c.Database.MaxOpenConns,
		ConnMaxLifetime: util.ParseDurationOr(c.Database.ConnMaxLifetime, 30*time.Minute),
		ConnMaxIdleTime: util.ParseDurationOr(c.Database.ConnMaxIdleTime, 10*time.Minute),
		RunMode:         c.Server.RunMode,
	}
}

// GetServiceConfig 从 AppConfig 提取 Service 层需要的配置
func (c *AppConfig) GetServiceConfig() *service.ServiceConfig {
	return &service.ServiceConfig{
		Share: service.ShareServiceConfig{
			BaseURL:            c.Share.BaseURL,
			LinkExpiry:         util.ParseDurationOr(c.Share.LinkExpiry, 0),
			InviteExpiry:       util.ParseDurationOr(c.Share.InviteExpiry, 7*24*time.Hour),
			InviteSingleUse:    c.Share.InviteSingleUse,
			StatsFlushInterval: util.ParseDurationOr(c.Share.StatsFlushInterval, 5*time.Minute),
		},
	}
}

// GetMailConfig 获取邮件配置
func (c *AppConfig) GetMailConfig() mailer.Config {
	return mailer.Config{
		Enabled:  c.Mail.Enabled,
		Host:     c.Mail.Host,
		Port:     c.Mail.Port,
		Username: c.Mail.Username,
		Password: c.Mail.Password,
		From:     c.Mail.From,
	}
}

// GetGuestRateWindow 获取访客限流窗口
func (c *AppConfig) GetGuestRateWindow() time.Duration {
	return util.ParseDurationOr(c.Share.GuestRateWindow, time.Minute)
}
