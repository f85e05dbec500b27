package main

import (
	availabilityservice "rezerv/internal/availability/service"
	bookinghandler "rezerv/internal/bookings/handler"
	bookingrepo "rezerv/internal/bookings/repository"
	bookingservice "rezerv/internal/bookings/service"
	bookingvalidator "rezerv/internal/bookings/validator"
	"rezerv/internal/events"
	resourcehandler "rezerv/internal/resources/handler"
	resourcerepo "rezerv/internal/resources/repository"
	resourceservice "rezerv/internal/resources/service"
	resourcevalidator "rezerv/internal/resources/validator"
	"rezerv/pkg/app"
	"rezerv/pkg/config"
	"rezerv/pkg/kafka"
	"rezerv/pkg/metrics"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	if cfg.IdempotencyBackend == config.IdempotencyBackendRedis {
		cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr)
	}
	defer cfg.GracefulShutdown()

	metrics.Register()

	publisher := initPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Warn("Failed to close event publisher", "error", err)
		}
	}()

	cfg.Log.Info("Starting Reservations service")

	resourceRepo := resourcerepo.NewMongoResourceRepository(cfg)
	resourceSvc := resourceservice.NewResourceService(
		resourceRepo,
		resourcevalidator.NewResourceValidator(cfg.Log),
		cfg,
	)

	bookingRepo := bookingrepo.NewMongoBookingRepository(cfg)
	bookingSvc := bookingservice.NewBookingService(
		bookingRepo,
		bookingrepo.NewBookingLockRepository(cfg),
		resourceRepo,
		bookingvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)

	availabilitySvc := availabilityservice.NewAvailabilityService(bookingRepo, cfg)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		resourcehandler.NewResourceHandler(resourceSvc, availabilitySvc, cfg.Log),
		bookinghandler.NewBookingHandler(bookingSvc, cfg.Log),
	)
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka brokers not configured, booking events disabled")
		return events.NewNoopPublisher()
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaBookingTopic, cfg.KafkaDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Kafka event publishing enabled",
		"brokers", cfg.KafkaBrokers,
		"topic", cfg.KafkaBookingTopic,
	)
	return events.NewKafkaPublisher(producer, cfg.Log)
}
