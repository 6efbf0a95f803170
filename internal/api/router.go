package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"newsbrief/internal/domain"

	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"

// Runner is the part of the pipeline the API needs.
type Runner interface {
	Run(ctx context.Context, topic string) (domain.Digest, error)
}

type Config struct {
	RequestTimeout time.Duration
}

func NewRouter(runner Runner, cfg Config, log *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(requestID(), accessLog(log), recovery(log))

	h := &handlers{runner: runner, timeout: cfg.RequestTimeout, log: log}

	r.GET("/health", healthHandler)
	r.POST("/api/news/", h.summarizeTopic)
	r.POST("/api/summarize-topic", h.summarizeTopic)

	return r
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
