// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// framework-level settings (ports, TLS, logging, CORS, body limits); this
// struct carries what is specific to the schools finder.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in the driver pool
	MongoMinPoolSize uint64 // Connections kept warm in the driver pool

	// Redis cache for region reads (blank address disables the cache)
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RegionCacheTTL time.Duration

	// bcrypt hash of the admin bearer token (blank disables admin routes)
	AdminTokenHash string
	// Admin requests allowed per client IP per minute (0 disables limiting)
	AdminRateLimit int

	// Handler timeouts (zero keeps the default)
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutBatch  time.Duration
}
