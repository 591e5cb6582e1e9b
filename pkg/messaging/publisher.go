// Package messaging defines the event publishing contract used by the services.
package messaging

import (
	"context"
)

// OrdersCreatedSubject is the subject order placement events are published on.
const OrdersCreatedSubject = "crm.orders.created"

// OrdersStream is the JetStream stream holding order events.
const OrdersStream = "CRM_ORDERS"

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
