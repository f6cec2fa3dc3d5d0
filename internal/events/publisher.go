package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// ProductEventsChannel is the fixed channel every product event goes to.
const ProductEventsChannel = "product_events"

// Event types emitted by the product lifecycle service.
const (
	ProductCreated = "ProductCreated"
	ProductUpdated = "ProductUpdated"
	ProductDeleted = "ProductDeleted"
)

// Publisher sends a structured payload to a named channel. Delivery is
// best-effort; implementations decide what a channel is (a broker queue,
// a log line).
type Publisher interface {
	Publish(channel string, payload interface{}) error
}

// Envelope wraps every published product event.
type Envelope struct {
	EventID   string      `json:"eventId"`
	EventType string      `json:"eventType"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Notifier publishes product lifecycle events. Publishing is fire-and-forget:
// errors are logged and swallowed so a broker outage never fails the mutation
// that triggered the event.
type Notifier struct {
	publisher Publisher
}

// NewNotifier creates a Notifier backed by the given publisher.
func NewNotifier(publisher Publisher) *Notifier {
	return &Notifier{
		publisher: publisher,
	}
}

// PublishProductEvent wraps data in an event envelope and publishes it to the
// product events channel.
func (n *Notifier) PublishProductEvent(eventType string, data interface{}) {
	envelope := Envelope{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
	if err := n.publisher.Publish(ProductEventsChannel, envelope); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}

// LogPublisher is the default Publisher. It performs no network I/O and only
// logs the message it would have sent, standing in for a real broker client
// until one is configured.
type LogPublisher struct{}

// Publish marshals the payload and logs it.
func (LogPublisher) Publish(channel string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload for channel %s: %w", channel, err)
	}
	log.Printf(" [x] Published to %s: %s", channel, body)
	return nil
}
