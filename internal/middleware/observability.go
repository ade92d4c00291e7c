package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/evohome/evohome-cms/pkg/logger"
	"github.com/evohome/evohome-cms/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// redactedQueryParams are never written to request logs
var redactedQueryParams = map[string]bool{
	"token": true, "password": true, "secret": true, "key": true,
	"access_token": true, "api_key": true, "apikey": true,
}

// ObservabilityMiddleware records request metrics and writes one log line per request
func ObservabilityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		metrics.ActiveRequests.WithLabelValues(method).Inc()
		defer metrics.ActiveRequests.WithLabelValues(method).Dec()

		c.Next()

		// Label by route template, e.g. "/api/v1/collections/:collection/:id",
		// not by "/api/v1/collections/services/heat-pumps".
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		duration := metrics.MeasureDuration(start)
		status := c.Writer.Status()
		statusStr := strconv.Itoa(status)

		metrics.HTTPRequestDuration.WithLabelValues(method, route, statusStr).Observe(duration)
		metrics.HTTPRequestTotal.WithLabelValues(method, route, statusStr).Inc()

		fields := []zap.Field{
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Int("response_size", c.Writer.Size()),
		}
		if session, err := GetAdminSession(c); err == nil {
			fields = append(fields, zap.String("admin_auth", session.Method))
		}

		if status >= 400 {
			fields = append(fields, errorFields(c)...)
		}

		logger.LogHTTPRequest(c.Request.Context(), method, c.Request.URL.Path, status, duration, fields...)
	}
}

// errorFields adds route params, safe query params and attached errors
func errorFields(c *gin.Context) []zap.Field {
	var fields []zap.Field

	if len(c.Params) > 0 {
		params := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}
		fields = append(fields, zap.Any("route_params", params))
	}

	if query := c.Request.URL.Query(); len(query) > 0 {
		kept := make(map[string]string, len(query))
		for k, v := range query {
			if !redactedQueryParams[strings.ToLower(k)] && len(v) > 0 {
				kept[k] = v[0]
			}
		}
		if len(kept) > 0 {
			fields = append(fields, zap.Any("query_params", kept))
		}
	}

	if len(c.Errors) > 0 {
		fields = append(fields, zap.String("error", c.Errors.String()))
	}
	return fields
}
