package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"newsbrief/internal/pipeline"

	"github.com/gin-gonic/gin"
)

const (
	blankTopicMessage   = "Please enter a valid news topic"
	invalidTopicMessage = "Please enter a relevant topic of news"
)

type topicRequest struct {
	Topic string `json:"topic"`
}

type handlers struct {
	runner  Runner
	timeout time.Duration
	log     *slog.Logger
}

func (h *handlers) summarizeTopic(c *gin.Context) {
	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Topic) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": blankTopicMessage})
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	digest, err := h.runner.Run(ctx, req.Topic)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrBlankTopic):
			c.JSON(http.StatusBadRequest, gin.H{"error": blankTopicMessage})
		case errors.Is(err, pipeline.ErrInvalidTopic):
			c.JSON(http.StatusBadRequest, gin.H{"error": invalidTopicMessage})
		default:
			h.log.ErrorContext(ctx, "Failed to summarize topic",
				"error", err,
				"requestID", c.GetString(requestIDHeader))

			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}

		return
	}

	c.JSON(http.StatusOK, digest)
}
