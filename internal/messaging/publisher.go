// Package messaging publishes order lifecycle events to Kafka. The stream is
// a fire-and-forget side-channel: publish failures are logged by callers and
// never surfaced to the workflow.
package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/joao-fontenele/part-order-service/internal/domain"
)

var publisherTracer = otel.Tracer("messaging/publisher")

const (
	TopicOrderSubmitted = "order.submitted"
	TopicOrderConfirmed = "order.confirmed"
)

type EventPublisher struct {
	writer *kafka.Writer
}

func NewEventPublisher(brokers []string) *EventPublisher {
	return &EventPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           100 * time.Millisecond,
		},
	}
}

func (p *EventPublisher) OrderSubmitted(ctx context.Context, event domain.OrderSubmittedEvent) error {
	return p.publish(ctx, TopicOrderSubmitted, event.SessionID, event)
}

func (p *EventPublisher) OrderConfirmed(ctx context.Context, event domain.OrderConfirmedEvent) error {
	return p.publish(ctx, TopicOrderConfirmed, event.SessionID, event)
}

func (p *EventPublisher) publish(ctx context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}

	ctx, span := publisherTracer.Start(ctx, "send "+topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingOperationName("send"),
			semconv.MessagingOperationTypePublish,
			semconv.MessagingDestinationName(topic),
			semconv.MessagingKafkaMessageKey(key),
		),
	)
	defer span.End()

	otel.GetTextMapPropagator().Inject(ctx, NewMessageCarrier(&msg))

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (p *EventPublisher) Close() error {
	return p.writer.Close()
}
