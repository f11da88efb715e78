package middleware

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fediwatch/fediwatch-backend/internal/logger"
)

type queryCountKey struct{}

// InstrumentQueries registers gorm callbacks that bump a per-request
// counter carried in the statement context. Requests without a counter
// (jobs, tests) are untouched.
func InstrumentQueries(db *gorm.DB) error {
	bump := func(tx *gorm.DB) {
		if counter, ok := tx.Statement.Context.Value(queryCountKey{}).(*int64); ok {
			atomic.AddInt64(counter, 1)
		}
	}
	if err := db.Callback().Query().After("gorm:query").Register("fediwatch:count_query", bump); err != nil {
		return err
	}
	if err := db.Callback().Row().After("gorm:row").Register("fediwatch:count_row", bump); err != nil {
		return err
	}
	return db.Callback().Raw().After("gorm:raw").Register("fediwatch:count_raw", bump)
}

// QueryCount logs how many database queries each request issued and how
// long it took, the development-mode stand-in for a SQL debug panel.
func QueryCount(baseLog *logger.Logger) gin.HandlerFunc {
	log := baseLog.With("middleware", "QueryCount")
	return func(c *gin.Context) {
		var count int64
		ctx := context.WithValue(c.Request.Context(), queryCountKey{}, &count)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		log.Debug("request database usage",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"queries", atomic.LoadInt64(&count),
			"duration", time.Since(start).String(),
		)
	}
}
