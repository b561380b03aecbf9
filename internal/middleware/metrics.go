// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package middleware

import (
	"strconv"
	"time"

	"codeberg.org/oliverandrich/adotafacil/internal/metrics"
	"github.com/labstack/echo/v4"
)

// Metrics records request counts, durations and in-flight requests per
// route. Unmatched paths share one label so scans cannot explode the
// series count.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method

			metrics.RequestInProgress.WithLabelValues(method, path).Inc()
			defer metrics.RequestInProgress.WithLabelValues(method, path).Dec()

			start := time.Now()
			err := next(c)
			if err != nil && !c.Response().Committed {
				// Let the error handler pick the final status.
				c.Error(err)
			}

			status := strconv.Itoa(c.Response().Status)
			metrics.RequestCounter.WithLabelValues(status, method, path).Inc()
			metrics.RequestDuration.WithLabelValues(status, method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
