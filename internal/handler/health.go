package handler // declare the package name; contains HTTP handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is a dependency whose reachability is reported by the health
// endpoint, such as MySQL, Mongo or Redis.
type Pinger func(ctx context.Context) error

// Health reports "ok" when every named dependency answers within two
// seconds, and 503 with the failing names otherwise. With no pingers it is
// a plain liveness check.
func Health(pingers map[string]Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if len(pingers) == 0 {
			return c.String(http.StatusOK, "ok")
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := make(map[string]string, len(pingers))
		for name, ping := range pingers {
			if err := ping(ctx); err != nil {
				checks[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}
		return c.JSON(status, echo.Map{"status": http.StatusText(status), "checks": checks})
	}
}
