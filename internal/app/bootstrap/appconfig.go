// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration; ports, TLS, log level and
// CORS are handled by WAFFLE's CoreConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI            string        // MongoDB connection string; required
	MongoDatabase       string        // Database name within MongoDB
	MongoMaxPoolSize    uint64        // Driver pool max
	MongoMinPoolSize    uint64        // Driver pool min
	MongoConnectTimeout time.Duration // Bound on one connection attempt

	// CascadeDeleteCards removes a project's cards along with the project.
	// Off by default: deleted projects leave their cards behind.
	CascadeDeleteCards bool

	// MaxBodyBytes bounds JSON request bodies.
	MaxBodyBytes int64

	// MetricsEnabled mounts /metrics and the request metrics middleware.
	MetricsEnabled bool
}
