package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "reservio"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr        = "localhost:6379"
	DefaultRedisDB          = 0
	DefaultResourceCacheTTL = 5 * time.Minute

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Legacy six-condition conflict policy by default; the corrected
	// half-open predicate is opt-in.
	DefaultStrictOverlap = false

	DefaultLockTTL = 10 * time.Second

	// Upper bound on same-slot bookings fetched by the conflict scan. A
	// day of minute-granularity non-overlapping bookings cannot reach it.
	DefaultMaxConflictScan = 500

	DefaultBookingEventsTopic    = "reservio.bookings.events"
	DefaultBookingEventsDLQTopic = "reservio.bookings.events.dlq"

	DefaultPaginationLimit = 100
)
