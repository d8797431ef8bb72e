package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Pinger is anything that can report its own reachability, such as a pgx pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler reports the health of the data service and its backends.
type SystemHandler struct {
	db        Pinger
	rdb       *redis.Client
	startTime time.Time
	log       zerolog.Logger
}

func NewSystemHandler(db Pinger, rdb *redis.Client, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		db:        db,
		rdb:       rdb,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

type healthReport struct {
	Status   string `json:"status"`
	Postgres string `json:"postgres"`
	Redis    string `json:"redis"`
	Uptime   string `json:"uptime"`
}

// Health godoc
// GET /health
// A Redis outage reports "degraded" with 200; PostgreSQL down is 503.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	report := healthReport{
		Status:   "ok",
		Postgres: "up",
		Redis:    "up",
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
	}
	status := http.StatusOK

	if h.db == nil || h.db.Ping(ctx) != nil {
		report.Postgres = "down"
		report.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}
	if h.rdb == nil || h.rdb.Ping(ctx).Err() != nil {
		report.Redis = "down"
		if status == http.StatusOK {
			report.Status = "degraded"
		}
	}
	if report.Status != "ok" {
		h.log.Warn().Str("postgres", report.Postgres).Str("redis", report.Redis).Msg("Health check degraded")
	}

	c.JSON(status, report)
}
