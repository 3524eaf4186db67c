package main

import (
	"roomly/internal/authz"
	"roomly/internal/availability"
	"roomly/internal/bookings/events"
	bookinghandler "roomly/internal/bookings/handler"
	bookingrepo "roomly/internal/bookings/repository"
	bookingservice "roomly/internal/bookings/service"
	"roomly/internal/bookings/validator"
	"roomly/internal/directory"
	feedbackhandler "roomly/internal/feedback/handler"
	feedbackrepo "roomly/internal/feedback/repository"
	feedbackservice "roomly/internal/feedback/service"
	"roomly/pkg/app"
	"roomly/pkg/config"
	"roomly/pkg/contracts"
	"roomly/pkg/kafka"
)

const ServiceName = "roomly"

func main() {
	cfg := config.Load(ServiceName)

	cfg.SetMongo()
	if cfg.RedisAddr != "" {
		cfg.SetRedis()
	}
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Roomly booking engine")
	handlers := initServices(cfg)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handlers...)
	serverApp.Run()
}

func initServices(cfg *config.Config) []contracts.Handler {
	rooms := directory.NewMongoRoomDirectory(cfg)
	users := directory.NewMongoUserDirectory(cfg)
	scoper := authz.NewScoper(rooms, cfg.Log)
	index := availability.NewIndex()

	var publisher bookingservice.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(kafka.LoadConfig(cfg.KafkaBrokers), cfg.KafkaBookingTopic)
		if err != nil {
			cfg.Log.Fatal("Failed to initialize Kafka producer", "error", err)
		}
		producer.Use(kafka.LoggingMiddleware(cfg.Log))
		publisher = events.NewKafkaPublisher(producer, ServiceName)
		cfg.Log.Info("Booking events enabled", "topic", cfg.KafkaBookingTopic)
	} else {
		cfg.Log.Info("Booking events disabled, no Kafka brokers configured")
	}

	bookingValidator := validator.NewBookingValidator(cfg.Log, cfg.BookingGraceWindow)
	bookingRepository := bookingrepo.NewMongoBookingRepository(cfg)
	lockRepository := bookingrepo.NewMongoBookingLockRepository(cfg)
	bookingService := bookingservice.NewBookingService(
		cfg,
		bookingRepository,
		lockRepository,
		rooms,
		users,
		scoper,
		index,
		bookingValidator,
		publisher,
	)

	feedbackRepository := feedbackrepo.NewMongoFeedbackRepository(cfg)
	feedbackService := feedbackservice.NewFeedbackService(cfg, feedbackRepository, rooms, users, scoper)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
		feedbackhandler.NewFeedbackHandler(feedbackService, cfg.Log),
	}
}
