package middleware

import (
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
)

// CORS return echo middleware that handle cors with regexp pattern.
// A nil pattern disables CORS headers. The API is read-only, so only safe
// methods are advertised.
func CORS(pattern *regexp.Regexp) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if pattern == nil {
				return next(c)
			}
			respHeader := c.Response().Header()
			respHeader.Set("Vary", "Origin")
			origin := c.Request().Header.Get("Origin")
			if origin == "" || !pattern.MatchString(origin) {
				return next(c)
			}
			respHeader.Set("Access-Control-Allow-Origin", origin)
			if c.Request().Method == http.MethodOptions {
				respHeader.Set("Access-Control-Allow-Headers", "*, "+XRequestID)
				respHeader.Set("Access-Control-Allow-Methods", "OPTIONS, GET, HEAD")
				respHeader.Set("Access-Control-Expose-Headers", XRequestID)
				return c.NoContent(http.StatusOK)
			}

			respHeader.Set("Access-Control-Expose-Headers", XRequestID)
			return next(c)
		}
	}
}
