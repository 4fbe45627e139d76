package main

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/example/gomall/internal/config"
	"github.com/example/gomall/internal/infra/mail"
	"github.com/example/gomall/internal/infra/mq"
	"github.com/example/gomall/internal/service"
)

func main() {
	cfg := config.Load()

	mqConn := mq.Init(&cfg.RabbitMQ)
	sender := mail.NewSender(&cfg.SMTP)

	ch, err := mqConn.Channel()
	if err != nil {
		log.Fatalf("failed to open channel: %v", err)
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(mq.MailQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("failed to declare queue: %v", err)
	}

	// 手动确认模式（auto-ack=false）
	msgs, err := ch.Consume(mq.MailQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("failed to consume: %v", err)
	}

	log.Println("mail worker started, waiting for messages...")

	for d := range msgs {
		var m mq.EmailMessage
		if err := json.Unmarshal(d.Body, &m); err != nil {
			log.Printf("invalid message: %v", err)
			// 消息格式错误，拒绝并丢弃
			_ = d.Nack(false, false)
			continue
		}

		subject, body := render(&m)
		if subject == "" {
			log.Printf("unknown mail kind %q, dropping", m.Kind)
			_ = d.Nack(false, false)
			continue
		}

		if err := sender.Send(m.To, subject, body); err != nil {
			log.Printf("send mail to %s failed: %v", m.To, err)
			service.GetMonitor().RecordMailFailed()
			// 发送失败重新入队，等待下次投递
			_ = d.Nack(false, true)
			continue
		}

		log.Printf("mail sent: kind=%s to=%s", m.Kind, m.To)
		service.GetMonitor().RecordMailSent()
		if err := d.Ack(false); err != nil {
			log.Printf("failed to ack message: %v", err)
		}
	}
}

// render 根据消息类型生成邮件标题和正文
func render(m *mq.EmailMessage) (subject, body string) {
	switch m.Kind {
	case mq.KindOTP:
		subject = "Your verification code"
		body = fmt.Sprintf(
			"Hi %s,\n\nYour verification code is %s. It expires in 5 minutes.\n",
			m.Username, m.OTP)
	case mq.KindOrderConfirmation:
		var b strings.Builder
		fmt.Fprintf(&b, "Hi %s,\n\nYour order #%d has been placed successfully.\n\n", m.Username, m.OrderID)
		for _, it := range m.Items {
			fmt.Fprintf(&b, "  %s x%d  %s\n", it.Name, it.Quantity, formatPrice(it.Price*it.Quantity))
		}
		fmt.Fprintf(&b, "\nTotal: %s\n", formatPrice(m.Total))
		fmt.Fprintf(&b, "Payment: %s\n", m.PaymentType)
		fmt.Fprintf(&b, "Shipping to: %s (%s)\n", m.Address, m.Phone)
		subject = fmt.Sprintf("Order confirmation #%d", m.OrderID)
		body = b.String()
	}
	return subject, body
}

// formatPrice 分转美元展示，990 -> $9.90
func formatPrice(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100.0)
}
