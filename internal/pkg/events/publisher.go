package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"gowms/internal/domain"
)

// Publisher publica notificações de pedidos e remessas depois do commit.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
	Close() error
}

// MessageWriter é o subconjunto do *kafka.Writer usado aqui.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher serializa eventos em JSON com a chave igual ao ID do pedido,
// o que mantém os eventos de um mesmo pedido na mesma partição.
type KafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaWriter monta o writer do tópico de pedidos.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event domain.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	carrier := &headerCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	carrier.headers = append(carrier.headers, kafka.Header{Key: "event_type", Value: []byte(event.Type)})

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(strconv.FormatInt(event.OrderID, 10)),
		Value:   payload,
		Headers: carrier.headers,
		Time:    event.OccurredAt,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher é usado quando nenhum broker está configurado.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.Event) error { return nil }
func (NopPublisher) Close() error                                { return nil }

// headerCarrier adapta os headers do kafka-go ao propagador de trace.
type headerCarrier struct {
	headers []kafka.Header
}

func (c *headerCarrier) Get(key string) string {
	for _, h := range c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headerCarrier) Set(key, value string) {
	for i, h := range c.headers {
		if h.Key == key {
			c.headers[i].Value = []byte(value)
			return
		}
	}
	c.headers = append(c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.headers))
	for _, h := range c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}
