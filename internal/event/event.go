package event

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const QueueName = "schedule_events"

const (
	TypeScheduleSaved   = "schedule_saved"
	TypeDigestRequested = "digest_requested"
)

type Message struct {
	Type       string    `json:"type"`
	AccountID  string    `json:"accountID"`
	SlotCount  int       `json:"slotCount,omitempty"`
	WeekStart  string    `json:"weekStart,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// DeclareQueue 声明持久化的事件队列，生产者和消费者两侧都要调用
func DeclareQueue(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		QueueName,
		true,  // 持久化
		false, // 不自动删除，避免没有消费者时队列被删掉
		false, // 不独占
		false, // 等待 RabbitMQ 确认队列创建成功
		nil,
	)

	return err
}

type Publisher struct {
	channel *amqp.Channel
	timeout time.Duration
}

func NewPublisher(channel *amqp.Channel, timeout time.Duration) *Publisher {
	return &Publisher{
		channel: channel,
		timeout: timeout,
	}
}

func (p *Publisher) Publish(msg *Message) error {
	if msg.OccurredAt.IsZero() {
		msg.OccurredAt = time.Now()
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	return p.channel.PublishWithContext(ctx,
		"",
		QueueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         payload,
		},
	)
}
