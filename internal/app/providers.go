package app

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentranbao-ct/catalog-discovery/internal/config"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/models"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/repo/rangeapi"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/server"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/usecase"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/fx"
)

func newMongoDB(lc fx.Lifecycle, cfg *config.Config) (*mongodb.DB, error) {
	opts := options.Client().
		SetAppName("catalog-discovery").
		SetDirect(cfg.Database.Direct).
		SetHosts(cfg.Database.Hosts).
		SetReadPreference(readpref.SecondaryPreferred())

	if cfg.Database.Username != "" {
		opts.SetAuth(options.Credential{
			Username:      cfg.Database.Username,
			Password:      cfg.Database.Password,
			AuthSource:    cfg.Database.AuthDB,
			AuthMechanism: "SCRAM-SHA-1",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mongoClient, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("init mongo client: %w", err)
	}

	db := &mongodb.DB{
		Client:   mongoClient,
		Database: mongoClient.Database(cfg.Database.Database),
	}

	lc.Append(fx.Hook{
		OnStart: db.Ping,
		OnStop:  db.Close,
	})

	return db, nil
}

// newRangeFinder picks the seller range backend from RANGE_PROVIDER.
func newRangeFinder(cfg *config.Config, db *mongodb.DB) (usecase.RangeFinder, error) {
	switch cfg.Range.Provider {
	case config.RangeProviderHTTP:
		return rangeapi.NewClient(cfg)
	case config.RangeProviderMongo:
		return mongodb.NewSellerRangeFinder(db)
	default:
		return nil, fmt.Errorf("unknown range provider %q", cfg.Range.Provider)
	}
}

func newGlobalSellerRule(cfg *config.Config) (models.GlobalSellerRule, error) {
	return models.NewGlobalSellerRule(cfg.Catalog.AdminEmailPattern)
}

func newPinger(db *mongodb.DB) server.Pinger {
	return db
}
