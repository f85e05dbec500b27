package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "rezerv"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRPS   = 20
	DefaultRateLimitBurst = 40

	DefaultRequestTimeout    = 30 * time.Second
	DefaultIdempotencyTTL    = 24 * time.Hour
	IdempotencyBackendMemory = "memory"
	IdempotencyBackendRedis  = "redis"

	DefaultIdempotencyBackend = IdempotencyBackendMemory
	DefaultMaxRequestSize     = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Availability defaults mirror the booking API contract: 30-minute slots
	// inside a 09:00-18:00 working window unless the query says otherwise.
	DefaultSlotMinutes = 30
	DefaultWorkStart   = "09:00"
	DefaultWorkEnd     = "18:00"

	DefaultBookingLockTTL = 10 * time.Second

	DefaultKafkaBookingTopic = "rezerv.bookings"
	DefaultKafkaDLQTopic     = "rezerv.bookings.dlq"

	DefaultPaginationLimit = 100
)
