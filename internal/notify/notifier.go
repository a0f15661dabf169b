// Package notify publishes order lifecycle events for real-time listeners.
// Publishing is fire-and-forget: a failed publish is logged and never fails
// the operation that produced the event.
package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// OrderEvent is the payload pushed on order creation and status changes.
type OrderEvent struct {
	OrderID     string  `json:"order_id"`
	UserID      string  `json:"user_id"`
	Kind        string  `json:"kind"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
	PaymentMode string  `json:"payment_mode"`
}

// Notifier is the sink order handlers emit into.
type Notifier interface {
	PublishOrder(event OrderEvent)
}

// KafkaNotifier writes order events to a Kafka topic.
type KafkaNotifier struct {
	writer *kafka.Writer
}

func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (n *KafkaNotifier) PublishOrder(event OrderEvent) {
	msg, err := json.Marshal(event)
	if err != nil {
		log.Println("[NOTIFY] [ERROR] marshal order event:", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.UserID),
		Value: msg,
		Time:  time.Now(),
	})
	if err != nil {
		log.Println("[NOTIFY] [ERROR] publish order event:", err)
	}
}

// NoopNotifier is used when no brokers are configured.
type NoopNotifier struct{}

func (NoopNotifier) PublishOrder(OrderEvent) {}

// FromBrokers picks the Kafka notifier when brokers are configured and the
// no-op sink otherwise.
func FromBrokers(brokers []string, topic string) Notifier {
	if len(brokers) == 0 {
		return NoopNotifier{}
	}
	return NewKafkaNotifier(brokers, topic)
}
