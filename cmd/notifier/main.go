package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"reservio/internal/notifications/consumer"
	notificationrepo "reservio/internal/notifications/repository"
	"reservio/pkg/config"
	"reservio/pkg/kafka"
	kafka_config "reservio/pkg/kafka/config"
	kafka_middleware "reservio/pkg/kafka/middleware"
)

const consumerGroupID = "reservio-notifier"

func main() {
	cfg := config.Load("notifier-service")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	handler := consumer.NewBookingEventHandler(
		notificationrepo.NewNotificationRepository(db),
		cfg.Log,
	)

	kafkaConsumer, err := kafka.NewConsumer(
		kafka_config.Load(),
		cfg.Log,
		cfg.BookingEventsTopic,
		consumerGroupID,
		cfg.BookingEventsDLQTopic,
		handler.Handle,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	kafkaConsumer.Use(kafka_middleware.ConsumerLogging(cfg.Log))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Notifier consuming booking events",
		"topic", cfg.BookingEventsTopic,
		"group_id", consumerGroupID,
	)

	if err := kafkaConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
		_ = kafkaConsumer.Close()
		os.Exit(1)
	}

	if err := kafkaConsumer.Close(); err != nil {
		cfg.Log.Warn("Failed to close consumer", "error", err)
	}

	cfg.Log.Info("Notifier stopped")
}
