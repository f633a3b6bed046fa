// Package services provides the messaging side of the account service.
package services

import (
	"github.com/nats-io/nats.go"
)

const (
	// RegistrationSubject is the well-known queue name for registration
	// notices. Payloads are opaque UTF-8 text.
	RegistrationSubject = "user.registration"

	// RegistrationQueue is the consumer queue group; the broker delivers
	// each message to exactly one member of the group.
	RegistrationQueue = "notifications"
)

// Notifier publishes and consumes registration notices.
type Notifier struct {
	conn *nats.Conn
}

func NewNotifier(conn *nats.Conn) *Notifier {
	return &Notifier{conn: conn}
}

// Publish sends a notice and waits for the broker round trip to complete.
func (n *Notifier) Publish(message string) error {
	if err := n.conn.Publish(RegistrationSubject, []byte(message)); err != nil {
		return err
	}
	return n.conn.Flush()
}

// Consume invokes handler for every notice delivered to this consumer's
// queue group. The subscription stays active until unsubscribed or the
// connection closes.
func (n *Notifier) Consume(handler func(message string)) (*nats.Subscription, error) {
	return n.conn.QueueSubscribe(RegistrationSubject, RegistrationQueue, func(msg *nats.Msg) {
		handler(string(msg.Data))
	})
}
