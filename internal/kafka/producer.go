package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// TicketTaskProducer — интерфейс постановки задач по тикету во внешний
// воркер (для подмены моком в тестах).
type TicketTaskProducer interface {
	EnqueueTicketTask(ctx context.Context, event string, ticketID uint64)
}

// Producer пишет задачи по тикетам в топик Kafka (best-effort, не блокирует API).
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer создаёт продюсер. Если brokers или topic пустые — методы no-op.
func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 || topic == "" {
		return &Producer{}
	}
	return &Producer{
		topic: topic,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// EnqueueTicketTask отправляет задачу по тикету. Гарантий порядка и
// доставки нет: ошибка пишется в лог и не возвращается.
func (p *Producer) EnqueueTicketTask(ctx context.Context, event string, ticketID uint64) {
	if p.writer == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"event":     event,
		"ticket_id": ticketID,
	})
	if err != nil {
		log.Printf("kafka: marshal ticket task: %v", err)
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: body}); err != nil {
		log.Printf("kafka: write ticket task: %v", err)
	}
}

// Close закрывает writer.
func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
