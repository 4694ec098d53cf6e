// Package redisqueue implements the partner callback dispatcher port over a
// redis list. Workers drain the queue out of process and deliver the webhook
// with the partner's headers; receivers deduplicate by order id plus status.
package redisqueue

import (
	"context"
	"encoding/json"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/ports"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

// Dispatcher queues partner webhook notifications.
type Dispatcher struct {
	client  *redis.Client
	queue   string
	headers ports.HeaderProvider
}

// queuedTask is the wire shape of one queued callback, the task plus the
// partner headers resolved at enqueue time.
type queuedTask struct {
	ports.CallbackTask
	Headers map[string]string `json:"headers,omitempty"`
}

// NewDispatcher creates a dispatcher pushing to the given queue key.
func NewDispatcher(client *redis.Client, queue string, headers ports.HeaderProvider) (*Dispatcher, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("client")
	}
	if queue == "" {
		return nil, errs.NewValueIsRequiredError("queue")
	}

	return &Dispatcher{
		client:  client,
		queue:   queue,
		headers: headers,
	}, nil
}

// Enqueue pushes one callback task. At-least-once: a crashed worker requeues.
func (d *Dispatcher) Enqueue(ctx context.Context, task ports.CallbackTask) error {
	queued := queuedTask{CallbackTask: task}
	if d.headers != nil {
		queued.Headers = d.headers.HeadersFor(task.PartnerID)
	}

	payload, err := json.Marshal(queued)
	if err != nil {
		return err
	}

	if err = d.client.RPush(ctx, d.queue, payload).Err(); err != nil {
		return err
	}

	metrics.CallbacksEnqueued.Inc()
	return nil
}

// Close releases the redis connection.
func (d *Dispatcher) Close() error {
	return d.client.Close()
}

// StaticHeaderProvider serves per-partner headers from a fixed map. Partners
// without an entry get no extra headers.
type StaticHeaderProvider struct {
	byPartner map[kernel.UUID]map[string]string
}

// NewStaticHeaderProvider creates a provider over the given partner map.
func NewStaticHeaderProvider(byPartner map[kernel.UUID]map[string]string) *StaticHeaderProvider {
	return &StaticHeaderProvider{byPartner: byPartner}
}

// HeadersFor returns the partner's callback headers, or nil.
func (p *StaticHeaderProvider) HeadersFor(partnerID kernel.UUID) map[string]string {
	return p.byPartner[partnerID]
}
