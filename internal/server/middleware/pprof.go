package middleware

import (
	"net/http"
	"net/http/pprof"

	"github.com/labstack/echo/v4"
)

type PprofConfig struct {
	PathPrefix string
	// Skipper guards the debug routes, e.g. to restrict them to internal callers.
	Skipper Skipper
}

var DefaultPprofConfig = PprofConfig{
	PathPrefix: "",
	Skipper:    DefaultSkipper,
}

// PprofWrap mounts net/http/pprof under {PathPrefix}/debug/pprof.
func PprofWrap(e *echo.Echo, opts ...PprofConfig) {
	conf := DefaultPprofConfig
	if len(opts) > 0 {
		conf.PathPrefix = opts[0].PathPrefix
		if opts[0].Skipper != nil {
			conf.Skipper = opts[0].Skipper
		}
	}

	guard := func(h echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if conf.Skipper(c) {
				return echo.ErrNotFound
			}
			return h(c)
		}
	}
	wrapFunc := func(f http.HandlerFunc) echo.HandlerFunc {
		return guard(echo.WrapHandler(f))
	}

	g := e.Group(conf.PathPrefix + "/debug/pprof")
	g.GET("/", wrapFunc(pprof.Index))
	for _, name := range []string{"heap", "goroutine", "block", "mutex", "allocs", "threadcreate"} {
		g.GET("/"+name, guard(echo.WrapHandler(pprof.Handler(name))))
	}
	g.GET("/cmdline", wrapFunc(pprof.Cmdline))
	g.GET("/profile", wrapFunc(pprof.Profile))
	g.GET("/symbol", wrapFunc(pprof.Symbol))
	g.GET("/trace", wrapFunc(pprof.Trace))
}
