package mail

import (
	"gopkg.in/gomail.v2"

	"github.com/example/gomall/internal/config"
)

// Sender SMTP 发信器，只在 mail-worker 进程中使用
type Sender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSender 创建发信器
func NewSender(cfg *config.SMTPConfig) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send 发送一封纯文本邮件
func (s *Sender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}
