package events

import (
	"context"
	"fmt"
	"roomly/pkg/kafka"
	"roomly/pkg/model"
)

const (
	BookingCreated     = "booking.created"
	BookingRescheduled = "booking.rescheduled"
	BookingConfirmed   = "booking.confirmed"
	BookingCancelled   = "booking.cancelled"
)

// KafkaPublisher emits booking lifecycle events keyed by booking id so
// consumers see each booking's history in order.
type KafkaPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaPublisher(producer *kafka.Producer, source string) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		source:   source,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, booking *model.Booking) error {
	msg, ok := kafka.NewMessage().
		WithKey(booking.ID).
		WithEventType(eventType).
		WithSource(p.source).
		WithValue(booking).
		Build()
	if !ok {
		return fmt.Errorf("failed to encode %s event for booking %s", eventType, booking.ID)
	}

	return p.producer.Publish(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
