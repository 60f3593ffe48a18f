package app

import (
	"context"
	"fmt"

	"github.com/carousell/ct-go/pkg/logger"
	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/config"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/server"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/usecase"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"
)

func Invoke(funcs ...any) *fx.App {
	log := logger.MustNamed("app")
	conf := config.MustLoad()
	log.Debugw("config loaded", log.Reflect("config", redact(conf)))
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Unwrap().Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			newMongoDB,
			newRangeFinder,
			newGlobalSellerRule,
			newPinger,

			server.NewHandler,

			usecase.NewResolver,
			usecase.NewVisibilityFilter,
			usecase.NewListingUsecase,
			usecase.NewDetailUsecase,

			mongodb.NewCategoryRepository,
			mongodb.NewSubCategoryRepository,
			mongodb.NewProductRepository,
			mongodb.NewSellerRepository,
			mongodb.NewBrandRepository,
		),
		fx.Supply(conf),
		fx.Invoke(InitializeIndexes),
		fx.Invoke(funcs...),
	)
}

// InitializeIndexes creates the text and geo indexes on startup when
// enabled. Otherwise it only warns about missing ones: without the 2dsphere
// index every located request fails, and without the text index every search.
func InitializeIndexes(
	lc fx.Lifecycle,
	conf *config.Config,
	db *mongodb.DB,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if conf.Database.EnsureIndexes {
				if err := mongodb.EnsureIndexes(ctx, db); err != nil {
					return fmt.Errorf("ensure indexes: %w", err)
				}
				return nil
			}
			missing, err := mongodb.MissingIndexes(ctx, db)
			if err != nil {
				log.Warnw(ctx, "could not verify indexes", "error", err)
				return nil
			}
			for _, name := range missing {
				log.Warnw(ctx, "index missing, set DATABASE_ENSURE_INDEXES=true to create it",
					"index", name, "range_provider", conf.Range.Provider)
			}
			return nil
		},
	})
}

// redact returns a copy safe to log.
func redact(conf *config.Config) config.Config {
	c := *conf
	if c.Database.Password != "" {
		c.Database.Password = "***"
	}
	return c
}
