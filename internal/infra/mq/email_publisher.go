package mq

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MailQueue 出站邮件队列。web 进程只负责投递，真正发信在 mail-worker。
const MailQueue = "mail_queue"

// 邮件类型
const (
	KindOTP               = "otp"
	KindOrderConfirmation = "order_confirmation"
)

// EmailOrderItem 确认邮件里的订单行，来自已提交的订单快照
type EmailOrderItem struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

// EmailMessage 队列消息体
type EmailMessage struct {
	Kind        string           `json:"kind"`
	To          string           `json:"to"`
	Username    string           `json:"username,omitempty"`
	OTP         string           `json:"otp,omitempty"`
	OrderID     int64            `json:"order_id,omitempty"`
	Items       []EmailOrderItem `json:"items,omitempty"`
	Address     string           `json:"address,omitempty"`
	Phone       string           `json:"phone,omitempty"`
	PaymentType string           `json:"payment_type,omitempty"`
	Total       int64            `json:"total,omitempty"`
}

// EmailPublisher 向邮件队列投递消息
type EmailPublisher struct {
	conn *amqp.Connection
}

// NewEmailPublisher 创建投递器
func NewEmailPublisher(conn *amqp.Connection) *EmailPublisher {
	return &EmailPublisher{conn: conn}
}

// Publish 声明队列并投递一条消息。每次投递使用独立 channel。
func (p *EmailPublisher) Publish(ctx context.Context, msg *EmailMessage) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(MailQueue, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(
		ctx,
		"",
		MailQueue,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
