package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// Route template keeps label cardinality bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// Timer measures a controller operation
type Timer struct {
	start   time.Time
	metrics *Metrics
	op      string
	kind    string
}

// NewTimer creates a new timer
func NewTimer(metrics *Metrics, op, kind string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		op:      op,
		kind:    kind,
	}
}

// Stop records the elapsed time under the given result label
func (t *Timer) Stop(result string) {
	if t.metrics == nil {
		return
	}
	t.metrics.RecordOperation(t.op, t.kind, result, time.Since(t.start))
}
