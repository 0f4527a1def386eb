package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hugohenrick/erp-vendas/internal/domain/event"
	"github.com/segmentio/kafka-go"
)

// messageWriter é o subconjunto de *kafka.Writer usado pelo publicador
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publica eventos de venda em um tópico do Kafka.
// A chave da mensagem é o ID da venda, para manter a ordem por venda.
type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
}

// NewKafkaWriter cria o writer para o tópico informado
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

// NewKafkaPublisher cria uma nova instância de KafkaPublisher
func NewKafkaPublisher(writer messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, timeout: 5 * time.Second}
}

// Publish implementa event.Publisher.Publish
func (p *KafkaPublisher) Publish(ctx context.Context, e event.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("erro ao serializar evento: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(e.AggregateID.String()),
		Value: data,
		Time:  e.OccurredOn,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(e.Kind)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("erro ao publicar evento %s: %w", e.Kind, err)
	}
	return nil
}

// Close fecha o writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
