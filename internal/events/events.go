// Package events publishes notifications about mutations made through the
// CLI.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/aspen-cloud/fly-admin/internal/constants"
	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

// ErrNotConnected is returned when publishing on a closed connection.
var ErrNotConnected = errors.New("nats not connected")

// Event is the JSON envelope published for every mutation.
type Event struct {
	Event      string            `json:"event"`
	Resource   string            `json:"resource"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Time       time.Time         `json:"time"`
}

// NewEvent creates an event stamped with the current time.
func NewEvent(event, resource string, attributes map[string]string) Event {
	return Event{
		Event:      event,
		Resource:   resource,
		Attributes: attributes,
		Time:       time.Now().UTC(),
	}
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

// NATSPublisher publishes events to a NATS subject.
type NATSPublisher struct {
	nc      *nats.Conn
	subject string
}

// NewNATSPublisher connects to the given NATS URL.
func NewNATSPublisher(url, subject string, logger fly.Logger) (*NATSPublisher, error) {
	if subject == "" {
		subject = constants.EventsSubject
	}

	opts := []nats.Option{
		nats.Name(constants.EventsClientName),
		nats.Timeout(constants.EventsConnectTimeout),
		nats.MaxReconnects(constants.EventsMaxReconnects),
		nats.ReconnectWait(constants.EventsReconnectWait),
	}

	if logger != nil {
		opts = append(opts,
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				if err != nil {
					logger.Warn("nats disconnected", map[string]interface{}{"error": err.Error()})
				}
			}),
			nats.ReconnectHandler(func(nc *nats.Conn) {
				logger.Info("nats reconnected", map[string]interface{}{"url": nc.ConnectedUrl()})
			}),
		)
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}

	return &NATSPublisher{nc: nc, subject: subject}, nil
}

// Publish implements Publisher. The event is flushed before returning so a
// short-lived CLI process does not exit with it still buffered.
func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	if p.nc == nil || p.nc.IsClosed() {
		return ErrNotConnected
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	err = p.nc.Publish(p.subject, payload)
	if err != nil {
		return fmt.Errorf("publishing event: %w", err)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, constants.EventsConnectTimeout)
		defer cancel()
	}

	// FlushWithContext requires a deadline.
	err = p.nc.FlushWithContext(ctx)
	if err != nil {
		return fmt.Errorf("flushing event: %w", err)
	}

	return nil
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() {
	if p.nc != nil {
		_ = p.nc.Drain()
		p.nc.Close()
	}
}

// NoopPublisher discards events.
type NoopPublisher struct{}

// Publish implements Publisher.
func (NoopPublisher) Publish(context.Context, Event) error { return nil }

// Close implements Publisher.
func (NoopPublisher) Close() {}

// Emit publishes an event and logs, rather than returns, any failure.
func Emit(ctx context.Context, publisher Publisher, logger fly.Logger, event Event) {
	if publisher == nil {
		return
	}

	err := publisher.Publish(ctx, event)
	if err != nil && logger != nil {
		logger.Warn("failed to publish event", map[string]interface{}{
			"event":    event.Event,
			"resource": event.Resource,
			"error":    err.Error(),
		})
	}
}
