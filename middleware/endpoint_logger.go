package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ariebrainware/clinic-appointment/metrics"
	"github.com/ariebrainware/clinic-appointment/util"
)

const metricsKey = "metrics"

// RequestMetrics records request counts and latency on collector and exposes
// it to handlers through GetMetrics. Unmatched routes are labelled
// "unmatched" to keep label cardinality bounded.
func RequestMetrics(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(metricsKey, collector)
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		collector.ObserveRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

// GetMetrics returns the request's collector. The result may be nil, which
// the collector methods accept.
func GetMetrics(c *gin.Context) *metrics.Collector {
	v, ok := c.Get(metricsKey)
	if !ok {
		return nil
	}
	collector, _ := v.(*metrics.Collector)
	return collector
}

// EndpointCallLogger logs each HTTP request as an ENDPOINT_CALL security event
// and as a zap access line. Authenticated calls carry the account id.
func EndpointCallLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		details := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"raw_path":    c.Request.URL.Path,
			"status":      status,
			"duration_ms": duration.Milliseconds(),
			"query":       c.Request.URL.RawQuery,
		}
		var accountID string
		if s, ok := GetSession(c); ok {
			accountID = s.AccountID
			details["role"] = string(s.Role)
		}

		zap.L().Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("account_id", accountID),
		)

		util.LogSecurityEvent(util.SecurityEvent{
			EventType: util.EventEndpointCall,
			AccountID: accountID,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Message:   fmt.Sprintf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, status),
			Details:   details,
		})
	}
}
