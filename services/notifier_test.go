package services

import (
	"testing"
	"time"

	"github.com/accounthub/backend/natsserver"
)

func TestNotifierRoundTrip(t *testing.T) {
	srv, err := natsserver.New(natsserver.Config{Port: 14233})
	if err != nil {
		t.Fatalf("start broker: %v", err)
	}
	t.Cleanup(srv.Shutdown)

	notifier := NewNotifier(srv.Conn())

	received := make(chan string, 4)
	sub, err := notifier.Consume(func(message string) {
		received <- message
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	t.Cleanup(func() { _ = sub.Unsubscribe() })

	if err := notifier.Publish("New user registered: alice@x.com"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case msg := <-received:
		if msg != "New user registered: alice@x.com" {
			t.Errorf("unexpected message: %q", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no message delivered within 2s")
	}

	// Exactly one delivery per publish
	select {
	case msg := <-received:
		t.Errorf("unexpected extra delivery: %q", msg)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestQueueGroupDeliversOnce(t *testing.T) {
	srv, err := natsserver.New(natsserver.Config{Port: 14234})
	if err != nil {
		t.Fatalf("start broker: %v", err)
	}
	t.Cleanup(srv.Shutdown)

	notifier := NewNotifier(srv.Conn())

	received := make(chan string, 4)
	for i := 0; i < 2; i++ {
		sub, err := notifier.Consume(func(message string) {
			received <- message
		})
		if err != nil {
			t.Fatalf("consume %d: %v", i, err)
		}
		t.Cleanup(func() { _ = sub.Unsubscribe() })
	}

	if err := notifier.Publish("New user registered: bob@x.com"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("no message delivered within 2s")
	}

	// Two consumers in the same queue group still mean one delivery.
	select {
	case msg := <-received:
		t.Errorf("message delivered to both consumers: %q", msg)
	case <-time.After(200 * time.Millisecond):
	}
}
