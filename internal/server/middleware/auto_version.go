package middleware

import (
	"github.com/carousell/ct-go/pkg/httputils"
	"github.com/labstack/echo/v4"
)

type AutoVersioningConfig struct {
	// Skipper runs before routing, so it sees the raw request path only.
	Skipper Skipper
	Options []httputils.AutoVersioningOption
}

// AutoVersioning for common api handler
func AutoVersioning(e *echo.Echo, args ...httputils.AutoVersioningOption) {
	AutoVersioningWithConfig(e, AutoVersioningConfig{Options: args})
}

func AutoVersioningWithConfig(e *echo.Echo, config AutoVersioningConfig) {
	if config.Skipper == nil {
		config.Skipper = DefaultSkipper
	}
	versioning := httputils.NewAutoVersioning(config.Options...)
	pre := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !config.Skipper(c) {
				versioning.Handle(c.Response().Writer, c.Request())
			}
			return next(c)
		}
	}

	e.Pre(pre)
}
