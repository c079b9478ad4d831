// Package events publica los eventos de dominio en Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/Tiendas-api/internal/application/ports"
	"github.com/jhoicas/Tiendas-api/pkg/logger"
)

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

// KafkaPublisher escribe cada evento como JSON con Key = agregado, así los eventos
// de una misma tienda o pedido caen en la misma partición y conservan el orden.
//
// El writer es asíncrono: Publish no espera al broker y los fallos de entrega se
// registran en Completion. Un broker caído nunca bloquea una petición HTTP.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *logger.Logger
}

// NewKafkaPublisher construye el publisher sobre brokers y topic.
func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) *KafkaPublisher {
	p := &KafkaPublisher{log: log}
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Async:        true,
		Completion:   p.completion,
	}
	return p
}

// Publish serializa y encola el evento.
func (p *KafkaPublisher) Publish(ctx context.Context, ev ports.Event) error {
	msg, err := toMessage(ev)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publicar evento %s: %w", ev.Type, err)
	}
	return nil
}

func toMessage(ev ports.Event) (kafka.Message, error) {
	value, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("serializar evento %s: %w", ev.Type, err)
	}
	return kafka.Message{
		Key:   []byte(ev.Key),
		Value: value,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(ev.Type)},
		},
	}, nil
}

func (p *KafkaPublisher) completion(messages []kafka.Message, err error) {
	if err == nil {
		return
	}
	for _, m := range messages {
		p.log.Warn().Err(err).Str("key", string(m.Key)).Msg("evento no entregado a kafka")
	}
}

// Close vacía el buffer pendiente y cierra las conexiones.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher registra los eventos en el log; se usa cuando no hay brokers configurados.
type LogPublisher struct {
	log *logger.Logger
}

var _ ports.EventPublisher = (*LogPublisher)(nil)

// NewLogPublisher construye el publisher de respaldo.
func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

// Publish escribe el evento a nivel debug.
func (p *LogPublisher) Publish(_ context.Context, ev ports.Event) error {
	p.log.Debug().Str("type", ev.Type).Str("key", ev.Key).Str("shop_id", ev.ShopID).Msg("evento de dominio")
	return nil
}
