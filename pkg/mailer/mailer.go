package mailer

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

var ErrDisabled = errors.New("mailer disabled")

// Config SMTP 配置
type Config struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mail 一封纯文本邮件
type Mail struct {
	To      string
	Subject string
	Body    string
}

// Mailer 通过 SMTP 发送邮件
type Mailer struct {
	from   string
	sender gomail.Sender
	dialer *gomail.Dialer
}

// New 创建 Mailer；未启用时返回 ErrDisabled，调用方据此跳过发送
func New(cfg Config) (*Mailer, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}
	if cfg.Host == "" || cfg.From == "" {
		return nil, fmt.Errorf("mail.host and mail.from are required")
	}
	port := cfg.Port
	if port == 0 {
		port = 587
	}
	return &Mailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, port, cfg.Username, cfg.Password),
	}, nil
}

// NewWithSender 使用自定义 Sender（测试中使用 gomail.SendFunc）
func NewWithSender(from string, sender gomail.Sender) *Mailer {
	return &Mailer{from: from, sender: sender}
}

// Send 发送邮件，ctx 取消时不再建立连接
func (m *Mailer) Send(ctx context.Context, mail Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", mail.To)
	msg.SetHeader("Subject", mail.Subject)
	msg.SetBody("text/plain", mail.Body)

	if m.sender != nil {
		return gomail.Send(m.sender, msg)
	}
	return m.dialer.DialAndSend(msg)
}
