package main

import (
	bookinghandler "reservio/internal/bookings/handler"
	bookingrepo "reservio/internal/bookings/repository"
	bookingservice "reservio/internal/bookings/service"
	bookingvalidator "reservio/internal/bookings/validator"
	resourcerepo "reservio/internal/resources/repository"
	resourceservice "reservio/internal/resources/service"
	resourcevalidator "reservio/internal/resources/validator"
	"reservio/pkg/app"
	"reservio/pkg/cache"
	"reservio/pkg/config"
	dbmongo "reservio/pkg/db/mongo"
	"reservio/pkg/kafka"
	kafka_config "reservio/pkg/kafka/config"
	kafka_middleware "reservio/pkg/kafka/middleware"
)

func main() {
	cfg := config.Load("bookings-service")
	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	var resourceCache cache.ResourceCache = cache.NewNoopResourceCache()
	if cfg.Client.Redis != nil {
		resourceCache = cache.NewRedisResourceCache(cfg.Client.Redis, cfg.ResourceCacheTTL)
	}

	resources := resourceservice.NewResourceService(
		resourcerepo.NewResourceRepository(db),
		resourceCache,
		resourcevalidator.New(),
		cfg,
	)

	producer, err := kafka.NewProducer(
		kafka_config.Load(),
		cfg.Log,
		cfg.BookingEventsTopic,
		cfg.BookingEventsDLQTopic,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	defer producer.Close()
	producer.Use(kafka_middleware.ProducerLogging(cfg.Log))

	bookings := bookingservice.NewBookingService(
		bookingrepo.NewBookingRepository(db),
		bookingrepo.NewBookingLockRepository(db),
		dbmongo.NewTransactionManager(cfg.Client.Mongo),
		resources,
		producer,
		bookingvalidator.New(),
		cfg,
	)

	application := app.NewApplication(cfg)
	application.SetApp(bookinghandler.NewBookingHandler(bookings, cfg.Log))
	application.Run()
}
