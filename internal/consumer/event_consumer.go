package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Eursukkul/event-registration/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

// EventSyncer stores catalog updates received from the broker.
type EventSyncer interface {
	SyncEvent(ctx context.Context, event *models.Event) error
}

type EventConsumer struct {
	syncer EventSyncer
	selfID string
}

// NewEventConsumer builds a consumer that skips messages published with
// AppId selfID.
func NewEventConsumer(syncer EventSyncer, selfID string) *EventConsumer {
	return &EventConsumer{syncer: syncer, selfID: selfID}
}

// Run handles messages until the channel closes or ctx is done.
func (ec *EventConsumer) Run(ctx context.Context, msgs <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				log.Info("event consumer channel closed")
				return nil
			}
			ec.handleMessage(ctx, msg)
		}
	}
}

func (ec *EventConsumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	entry := log.WithField("routing_key", msg.RoutingKey)
	if ec.selfID != "" && msg.AppId == ec.selfID {
		msg.Ack(false)
		return
	}

	var event models.Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		entry.WithError(err).Warn("dropping malformed event message")
		msg.Nack(false, false)
		return
	}

	if err := ec.syncer.SyncEvent(ctx, &event); err != nil {
		if errors.Is(err, models.ErrValidation) {
			entry.WithError(err).Warn("dropping invalid event message")
			msg.Nack(false, false)
			return
		}
		entry.WithError(err).WithField("event_id", event.ID).Error("failed to sync event")
		msg.Nack(false, true) // requeue
		return
	}

	entry.WithFields(log.Fields{"event_id": event.ID, "name": event.Name}).Info("synced event")
	msg.Ack(false)
}
