package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Metrics holds process-scoped request counters. Like the rate-limit
// state, it lives in memory and resets on restart.
type Metrics struct {
	mu              sync.RWMutex
	RequestCount    int64            `json:"request_count"`
	RequestDuration time.Duration    `json:"avg_request_duration_ms"`
	ActiveRequests  int64            `json:"active_requests"`
	ErrorCount      int64            `json:"error_count"`
	StatusCodes     map[string]int64 `json:"status_codes"`
	Endpoints       map[string]int64 `json:"endpoint_calls"`
	StartTime       time.Time        `json:"start_time"`
	LastRequest     time.Time        `json:"last_request"`
	totalDuration   time.Duration
}

var globalMetrics = &Metrics{
	StatusCodes: make(map[string]int64),
	Endpoints:   make(map[string]int64),
	StartTime:   time.Now(),
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		globalMetrics.mu.Lock()
		globalMetrics.ActiveRequests++
		globalMetrics.mu.Unlock()

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()
		endpoint := c.Request.Method + " " + c.FullPath()

		globalMetrics.mu.Lock()
		globalMetrics.RequestCount++
		globalMetrics.ActiveRequests--
		globalMetrics.totalDuration += duration
		globalMetrics.RequestDuration = globalMetrics.totalDuration / time.Duration(globalMetrics.RequestCount)
		globalMetrics.LastRequest = time.Now()

		if statusCode >= 400 {
			globalMetrics.ErrorCount++
		}
		globalMetrics.StatusCodes[http.StatusText(statusCode)]++
		globalMetrics.Endpoints[endpoint]++
		globalMetrics.mu.Unlock()
	}
}

func GetMetrics() *Metrics {
	globalMetrics.mu.RLock()
	defer globalMetrics.mu.RUnlock()

	metrics := &Metrics{
		RequestCount:    globalMetrics.RequestCount,
		RequestDuration: globalMetrics.RequestDuration,
		ActiveRequests:  globalMetrics.ActiveRequests,
		ErrorCount:      globalMetrics.ErrorCount,
		StatusCodes:     make(map[string]int64),
		Endpoints:       make(map[string]int64),
		StartTime:       globalMetrics.StartTime,
		LastRequest:     globalMetrics.LastRequest,
	}
	for k, v := range globalMetrics.StatusCodes {
		metrics.StatusCodes[k] = v
	}
	for k, v := range globalMetrics.Endpoints {
		metrics.Endpoints[k] = v
	}
	return metrics
}

// MetricsHandler serves the counters as JSON for local inspection.
func MetricsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, GetMetrics())
}
