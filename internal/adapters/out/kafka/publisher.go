// Package kafka implements the event publisher port on top of segmentio
// writers. One writer per topic; messages are keyed by order id so a
// consumer sees the events of one order in order.
package kafka

import (
	"context"
	"encoding/json"

	"lastmile/internal/core/ports"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

// Publisher pushes domain events to the message broker.
type Publisher struct {
	statusChanged *kafka.Writer
	orderAssigned *kafka.Writer
}

// NewPublisher creates a publisher writing to the given topics.
func NewPublisher(brokers []string, statusChangedTopic, orderAssignedTopic string) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, errs.NewValueIsRequiredError("brokers")
	}
	if statusChangedTopic == "" {
		return nil, errs.NewValueIsRequiredError("statusChangedTopic")
	}
	if orderAssignedTopic == "" {
		return nil, errs.NewValueIsRequiredError("orderAssignedTopic")
	}

	return &Publisher{
		statusChanged: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    statusChangedTopic,
			Balancer: &kafka.Hash{},
		},
		orderAssigned: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    orderAssignedTopic,
			Balancer: &kafka.Hash{},
		},
	}, nil
}

// PublishStatusChanged emits a checkpoint change event.
func (p *Publisher) PublishStatusChanged(ctx context.Context, event ports.OrderStatusChangedEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = p.statusChanged.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID.String()),
		Value: value,
	})
	if err != nil {
		return err
	}

	metrics.EventsPublished.WithLabelValues("status-changed").Inc()
	return nil
}

// PublishOrderAssigned emits a courier assignment event.
func (p *Publisher) PublishOrderAssigned(ctx context.Context, event ports.OrderAssignedEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = p.orderAssigned.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID.String()),
		Value: value,
	})
	if err != nil {
		return err
	}

	metrics.EventsPublished.WithLabelValues("order-assigned").Inc()
	return nil
}

// Close flushes and closes both writers.
func (p *Publisher) Close() error {
	statusErr := p.statusChanged.Close()
	assignedErr := p.orderAssigned.Close()
	if statusErr != nil {
		return statusErr
	}
	return assignedErr
}
