package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity; never exposes credentials or internals.
// A nil redis client (caching disabled) reports "disabled" and does not fail
// the check.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if rdb == nil {
			redisStatus = "disabled"
		} else if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
		})
	}
}
