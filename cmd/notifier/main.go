package main

import (
	"log"
	"os"

	"github.com/accounthub/backend/services"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
)

// Standalone notification consumer. Connects to the broker, reads the
// registration queue and prints a notification line per message. Runs
// until the process is killed.
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4233"
	}

	natsConn, err := nats.Connect(natsURL, nats.Name("accounthub-notifier"))
	if err != nil {
		log.Fatalf("❌ Failed to connect to NATS: %v", err)
	}
	defer natsConn.Close()

	notifier := services.NewNotifier(natsConn)
	sub, err := notifier.Consume(func(message string) {
		// Placeholder for a real email/SMS integration
		log.Printf("📣 Sending notification: New registration: %s", message)
	})
	if err != nil {
		log.Fatalf("❌ Failed to subscribe to %s: %v", services.RegistrationSubject, err)
	}
	defer sub.Unsubscribe()

	log.Printf("📬 Listening for registrations on %s", services.RegistrationSubject)
	select {}
}
