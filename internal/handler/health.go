package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/photoshare/api/internal/constants"
	"github.com/photoshare/api/pkg/events"
	"github.com/photoshare/api/pkg/logger"
	"github.com/photoshare/api/pkg/redis"
	"go.uber.org/zap"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db          Pinger
	redisClient redis.Client
	publisher   events.Publisher
}

type HealthCheckResponse struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func NewHealthHandler(db Pinger, redisClient redis.Client, publisher events.Publisher) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
		publisher:   publisher,
	}
}

// HealthCheck reports 503 only when the database is down; redis and the event broker are optional.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := HealthCheckResponse{
		Status:    "healthy",
		Version:   constants.AppVersion,
		Timestamp: time.Now(),
		Checks:    make(map[string]HealthCheck),
	}

	dbStatus := h.checkDatabase(ctx)
	response.Checks["database"] = dbStatus
	if dbStatus.Status != "healthy" {
		response.Status = "unhealthy"
	}

	response.Checks["redis"] = h.checkRedis(ctx)
	response.Checks["events"] = h.checkEvents()

	statusCode := http.StatusOK
	if response.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	logger.GetLogger().Debug("Health check performed",
		zap.String("overall_status", response.Status),
		zap.Int("status_code", statusCode),
	)

	c.JSON(statusCode, response)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) HealthCheck {
	if h.db == nil {
		return HealthCheck{Status: "unhealthy", Message: "Database connection not initialized"}
	}
	if err := h.db.PingContext(ctx); err != nil {
		logger.GetLogger().Error("Database ping failed", zap.Error(err))
		return HealthCheck{Status: "unhealthy", Message: "Database ping failed"}
	}
	return HealthCheck{Status: "healthy"}
}

func (h *HealthHandler) checkRedis(ctx context.Context) HealthCheck {
	if h.redisClient == nil || !h.redisClient.IsEnabled() {
		return HealthCheck{Status: "disabled", Message: "Redis cache is disabled"}
	}
	if err := h.redisClient.Ping(ctx); err != nil {
		logger.GetLogger().Warn("Redis ping failed", zap.Error(err))
		return HealthCheck{Status: "unhealthy", Message: "Redis ping failed"}
	}
	return HealthCheck{Status: "healthy"}
}

func (h *HealthHandler) checkEvents() HealthCheck {
	if h.publisher == nil {
		return HealthCheck{Status: "disabled"}
	}
	switch state := h.publisher.Status(); state {
	case "disabled":
		return HealthCheck{Status: "disabled", Message: "Audit events are disabled"}
	case "OPEN":
		return HealthCheck{Status: "unhealthy", Message: "Event broker circuit is open"}
	default:
		return HealthCheck{Status: "healthy", Message: fmt.Sprintf("circuit %s", state)}
	}
}
