// Package events publishes tenant audit events to NATS. Events are
// fire-and-forget: a publish failure is logged and never fails the request
// that triggered it.
package events

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	TypeNoteCreated    = "note.created"
	TypeNoteUpdated    = "note.updated"
	TypeNoteDeleted    = "note.deleted"
	TypeUserInvited    = "user.invited"
	TypeTenantUpgraded = "tenant.upgraded"
)

type Event struct {
	Type       string    `msgpack:"type"`
	TenantSlug string    `msgpack:"tenant_slug"`
	ActorID    string    `msgpack:"actor_id"`
	SubjectID  string    `msgpack:"subject_id"`
	At         time.Time `msgpack:"at"`
}

type Publisher struct {
	nc *nats.Conn
}

// Connect establishes the NATS connection with reconnect handling.
func Connect() (*Publisher, error) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		url = nats.DefaultURL
	}

	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(1 * time.Second),
		nats.ReconnectJitter(500*time.Millisecond, 2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("WARN NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("INFO NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Println("INFO NATS connection closed")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	log.Printf("INFO Connected to NATS at %s", nc.ConnectedUrl())

	return &Publisher{nc: nc}, nil
}

// Publish emits an audit event on notes.<tenant>.events.<type>. Safe to call
// on a nil Publisher (audit disabled).
func (p *Publisher) Publish(eventType, tenantSlug, actorID, subjectID string) {
	if p == nil || p.nc == nil {
		return
	}

	event := Event{
		Type:       eventType,
		TenantSlug: tenantSlug,
		ActorID:    actorID,
		SubjectID:  subjectID,
		At:         time.Now().UTC(),
	}

	payload, err := msgpack.Marshal(&event)
	if err != nil {
		log.Printf("ERROR marshal audit event: %v", err)
		return
	}

	subject := fmt.Sprintf("notes.%s.events.%s", tenantSlug, eventType)
	if err := p.nc.Publish(subject, payload); err != nil {
		log.Printf("WARN publish audit event %s: %v", subject, err)
	}
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() error {
	if p == nil || p.nc == nil {
		return nil
	}
	return p.nc.Drain()
}
