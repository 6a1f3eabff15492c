package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/streadway/amqp"

	"flipsip/internal/app"
	"flipsip/internal/config"
	"flipsip/internal/database"
	"flipsip/internal/services"
	"flipsip/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	v, err := config.New()
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}
	cfg, err := config.Load(v)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if len(cfg.WhatsApp.AdminNumbers) == 0 {
		log.Println("Warning: WHATSAPP_ADMIN_NUMBERS is empty; orders will be stored but no WhatsApp links can be generated")
	}

	// --- Database ---
	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var events services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		mqClient, err := rabbitmq.NewClient(cfg.RabbitMQ)
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		events = mqClient

		if err := mqClient.ConsumeOrderEvents(logOrderEvent); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	} else {
		log.Println("RABBITMQ_URL not set; order events are disabled")
	}

	application, _ := app.New(cfg, db, events)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := application.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := application.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Server gracefully stopped")
}

// logOrderEvent records order events for the operators' log. A body that is
// not an order event is rejected so it is requeued once and then dropped.
func logOrderEvent(msg amqp.Delivery) error {
	var event services.OrderPlacedEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return err
	}
	log.Printf("Received %s (tag %d): order %s, user %s, %d x %s",
		msg.RoutingKey, msg.DeliveryTag, event.OrderID, event.UserID, event.Quantity, event.Size)
	return nil
}
