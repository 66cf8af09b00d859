// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for CRC Cards.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, mongo_database, etc.
//   - Environment variables: CRCCARDS_MONGO_URI, CRCCARDS_MONGO_DATABASE, etc.
//   - Command-line flags: --mongo_uri, --mongo_database, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "", Desc: "MongoDB connection URI (required)"},
	{Name: "mongo_database", Default: "crc_cards", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 0, Desc: "MongoDB min connection pool size (default: 0)"},
	{Name: "mongo_connect_timeout", Default: "10s", Desc: "Timeout for establishing the MongoDB connection"},

	{Name: "cascade_delete_cards", Default: false, Desc: "Delete a project's cards when the project is deleted"},
	{Name: "max_body_bytes", Default: 1048576, Desc: "Maximum JSON request body size in bytes"},
	{Name: "metrics_enabled", Default: true, Desc: "Expose Prometheus metrics at /metrics"},
}

// ErrMongoURIRequired is returned by ValidateConfig when no connection
// string is configured.
var ErrMongoURIRequired = errors.New("mongo_uri is required (set CRCCARDS_MONGO_URI)")

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, CRCCARDS_* for app) and flags,
// merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CRCCARDS", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:            strings.TrimSpace(appValues.String("mongo_uri")),
		MongoDatabase:       appValues.String("mongo_database"),
		MongoMaxPoolSize:    nonNegative(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize:    nonNegative(appValues.Int("mongo_min_pool_size")),
		MongoConnectTimeout: appValues.Duration("mongo_connect_timeout", 10*time.Second),

		CascadeDeleteCards: appValues.Bool("cascade_delete_cards"),
		MaxBodyBytes:       int64(appValues.Int("max_body_bytes")),
		MetricsEnabled:     appValues.Bool("metrics_enabled"),
	}

	return coreCfg, appCfg, nil
}

func nonNegative(n int) uint64 {
	if n < 0 {
		return 0
	}
	return uint64(n)
}

// ValidateConfig performs app-specific config validation.
//
// A missing connection string is fatal here, at startup, rather than
// surfacing later as a per-request error.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if appCfg.MongoURI == "" {
		logger.Error("missing MongoDB URI")
		return ErrMongoURIRequired
	}
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if strings.TrimSpace(appCfg.MongoDatabase) == "" {
		return errors.New("mongo_database must not be empty")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize && appCfg.MongoMaxPoolSize != 0 {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}
	return nil
}
