// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/crccards/internal/app/system/dbconn"
	"github.com/dalemusser/crccards/internal/app/system/indexes"
	"github.com/dalemusser/crccards/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// ConnectDB builds the persistence gateway. No connection is opened here;
// the first caller (EnsureSchema at startup) dials and every later caller
// reuses that client.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	gw, err := dbconn.New(appCfg.MongoURI, appCfg.MongoDatabase, dbconn.Options{
		MaxPoolSize:    appCfg.MongoMaxPoolSize,
		MinPoolSize:    appCfg.MongoMinPoolSize,
		ConnectTimeout: appCfg.MongoConnectTimeout,
	}, logger)
	if err != nil {
		return DBDeps{}, err
	}
	return DBDeps{Mongo: gw}, nil
}

// EnsureSchema creates the collections with their validators and
// reconciles indexes. Both steps are idempotent.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db, err := deps.Mongo.Database(ctx)
	if err != nil {
		logger.Error("MongoDB connect failed", zap.Error(err))
		return fmt.Errorf("connect mongo: %w", err)
	}

	if err := validators.EnsureAll(ctx, db); err != nil {
		logger.Error("ensure validators failed", zap.Error(err))
		return fmt.Errorf("ensure validators: %w", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return fmt.Errorf("ensure indexes: %w", err)
	}

	logger.Info("schema ensured", zap.String("database", deps.Mongo.DatabaseName()))
	return nil
}
