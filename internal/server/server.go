package server

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/carousell/ct-go/pkg/logger"
	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/config"
	pkgmdw "github.com/nguyentranbao-ct/catalog-discovery/internal/server/middleware"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/usecase"
	"go.uber.org/fx"
)

func StartServer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	handler Controller,
) {
	e := NewEcho(conf, handler)
	addr := conf.Server.Addr()

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow(ctx, "starting HTTP server", "addr", addr)
				if err := e.Start(addr); !errors.Is(err, http.ErrServerClosed) {
					log.Errorw(context.Background(), "HTTP server stopped", "error", err)
					_ = sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}

// NewEcho builds the router with the full middleware chain.
func NewEcho(conf *config.Config, handler Controller) *echo.Echo {
	httpLog := logger.MustNamed("http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = pkgmdw.NewValidator()
	e.JSONSerializer = pkgmdw.JSONSerializer{}
	e.HTTPErrorHandler = pkgmdw.ErrorHandler(httpLog)

	probeSkipper := func(c echo.Context) bool {
		return isProbe(c.Request().URL.Path)
	}

	pkgmdw.AutoVersioningWithConfig(e, pkgmdw.AutoVersioningConfig{
		Skipper: probeSkipper,
	})
	metricsConfig := pkgmdw.DefaultMetricsConfig
	metricsConfig.DegradedAnnotation = usecase.AnnotationVisibilityDegraded
	e.Use(pkgmdw.MetricsWithConfig(metricsConfig))
	e.Use(pkgmdw.RequestID())
	e.Use(pkgmdw.LogRequest(pkgmdw.LogRequestConfig{
		Logger:  httpLog,
		Skipper: probeSkipper,
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Errorw(c.Request().Context(), "PANIC RECOVER", "error", err, "stack", string(stack))
			return err
		},
	}))
	if conf.Server.CORSOriginPattern != "" {
		e.Use(pkgmdw.CORS(regexp.MustCompile(conf.Server.CORSOriginPattern)))
	}
	if conf.Server.PprofEnabled {
		pkgmdw.PprofWrap(e)
	}

	e.GET("/health", handler.Health)

	api := e.Group("/api/v1")
	api.GET("/products", pkgmdw.WrapHandler(handler.ListProducts))
	api.GET("/products/:id", pkgmdw.WrapHandler(handler.GetProduct))

	return e
}

func isProbe(path string) bool {
	return path == "/health" || path == "/metrics"
}
