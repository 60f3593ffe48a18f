package middleware

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/catalog-discovery/pkg/ctxval"
)

// LogRequestConfig configures the access log. The API is read-only, so
// bodies are never captured; a line carries the route, query and path
// params, the request id and whatever annotations the request picked up.
type LogRequestConfig struct {
	Logger  Logger
	Skipper Skipper
	// Annotations defaults to ctxval.Annotations.
	Annotations func(ctx context.Context) []any
}

// LogRequest writes one line per request: info for 2xx/3xx, warn for 4xx
// and error for 5xx. The raw error is only attached at error level.
func LogRequest(config LogRequestConfig) echo.MiddlewareFunc {
	if config.Logger == nil {
		panic("Logger is required to use LogRequest")
	}
	if config.Skipper == nil {
		config.Skipper = DefaultSkipper
	}
	if config.Annotations == nil {
		config.Annotations = ctxval.Annotations
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			config.write(c, err, time.Since(start))
			return err
		}
	}
}

func (config LogRequestConfig) write(c echo.Context, err error, latency time.Duration) {
	req, res := c.Request(), c.Response()

	args := make([]any, 0, 24)
	args = append(args,
		"status", res.Status,
		"method", req.Method,
		"route", c.Path(),
		"uri", req.RequestURI,
		"latency_ms", latency.Milliseconds(),
		"real_ip", c.RealIP(),
		"user_agent", req.UserAgent(),
		"request_id", GetRequestID(c),
	)
	if query := c.QueryParams(); len(query) > 0 {
		args = append(args, "query", query)
	}
	if names := c.ParamNames(); len(names) > 0 {
		params := make(map[string]string, len(names))
		for _, name := range names {
			params[name] = c.Param(name)
		}
		args = append(args, "params", params)
	}
	args = append(args, config.Annotations(req.Context())...)

	if err != nil {
		resp := NewResponseError(err)
		if resp.ErrorCode != "" {
			args = append(args, "error_code", resp.ErrorCode)
		}
		if res.Status < 500 {
			args = append(args, "error_message", resp.Message)
		}
	}

	switch {
	case res.Status >= 500:
		if err != nil {
			args = append(args, "error", err.Error())
		}
		config.Logger.Errorw("request failed", args...)
	case res.Status >= 400:
		config.Logger.Warnw("request rejected", args...)
	default:
		config.Logger.Infow("request served", args...)
	}
}
