package service

import (
	"context"

	"github.com/example/gomall/internal/infra/mq"
)

// MailPublisher 出站邮件投递接口。线上实现是 mq.EmailPublisher，测试用内存替身。
type MailPublisher interface {
	Publish(ctx context.Context, msg *mq.EmailMessage) error
}
