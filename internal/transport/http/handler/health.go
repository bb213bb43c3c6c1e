package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"docutrack/internal/transport/http/response"
)

// HealthHandler pings whichever backing services the deployment actually
// wired. Nil dependencies (memory storage, cache or queue disabled) are
// reported as "disabled" and never fail the check.
type HealthHandler struct {
	db    *gorm.DB
	redis *redisv9.Client
	mq    *amqp.Connection
}

func NewHealthHandler(db *gorm.DB, redis *redisv9.Client, mq *amqp.Connection) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, mq: mq}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	deps := gin.H{}
	healthy := true

	if h.db != nil {
		deps["mysql"] = "ok"
		if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			deps["mysql"] = "unreachable"
			healthy = false
		}
	} else {
		deps["storage"] = "memory"
	}

	if h.redis != nil {
		deps["redis"] = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			deps["redis"] = "unreachable"
			healthy = false
		}
	} else {
		deps["redis"] = "disabled"
	}

	if h.mq != nil {
		deps["rabbitmq"] = "ok"
		if h.mq.IsClosed() {
			deps["rabbitmq"] = "unreachable"
			healthy = false
		}
	} else {
		deps["rabbitmq"] = "disabled"
	}

	if !healthy {
		response.Error(c, 503, response.CodeInternalServer, "dependency check failed")
		return
	}
	response.OK(c, deps)
}
